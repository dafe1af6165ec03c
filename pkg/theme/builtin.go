package theme

// thRegisterBuiltins registers all built-in themes in the registry.
func thRegisterBuiltins() {
	for _, t := range []Theme{
		thDefaultTheme(),
		thGruvboxTheme(),
		thNordTheme(),
		thCatppuccinTheme(),
		thDraculaTheme(),
		thTokyoNightTheme(),
	} {
		Register(t)
	}
}

// thDefaultTheme returns the dark neutral theme with purple accent.
func thDefaultTheme() Theme {
	return Theme{
		Name:       "default",
		Background: "#1e1e1e",
		Foreground: "#d4d4d4",
		Dim:        "#6b6b6b",
		Accent:     "#7C3AED",

		HeaderFG:  "#d4d4d4",
		HeaderBG:  "#2d2d2d",
		AltRow:    "#252525",
		Selected:  "#3b2a5c",
		Cursor:    "#5b21b6",
		Separator: "#3e3e3e",
		Negative:  "#e06c75",
		Positive:  "#4ec970",

		SearchHighlight: "#f9e2af",
		HelpKey:         "#7C3AED",
		HelpDesc:        "#6b6b6b",
	}
}

// thGruvboxTheme returns the warm retro Gruvbox theme.
func thGruvboxTheme() Theme {
	return Theme{
		Name:       "gruvbox",
		Background: "#282828",
		Foreground: "#ebdbb2",
		Dim:        "#928374",
		Accent:     "#fe8019",

		HeaderFG:  "#fbf1c7",
		HeaderBG:  "#3c3836",
		AltRow:    "#32302f",
		Selected:  "#504945",
		Cursor:    "#665c54",
		Separator: "#504945",
		Negative:  "#fb4934",
		Positive:  "#b8bb26",

		SearchHighlight: "#fabd2f",
		HelpKey:         "#fe8019",
		HelpDesc:        "#928374",
	}
}

// thNordTheme returns the arctic Nord theme.
func thNordTheme() Theme {
	return Theme{
		Name:       "nord",
		Background: "#2e3440",
		Foreground: "#eceff4",
		Dim:        "#4c566a",
		Accent:     "#88c0d0",

		HeaderFG:  "#eceff4",
		HeaderBG:  "#3b4252",
		AltRow:    "#323845",
		Selected:  "#434c5e",
		Cursor:    "#5e81ac",
		Separator: "#3b4252",
		Negative:  "#bf616a",
		Positive:  "#a3be8c",

		SearchHighlight: "#ebcb8b",
		HelpKey:         "#88c0d0",
		HelpDesc:        "#4c566a",
	}
}

// thCatppuccinTheme returns the Catppuccin Mocha theme.
func thCatppuccinTheme() Theme {
	return Theme{
		Name:       "catppuccin",
		Background: "#1e1e2e",
		Foreground: "#cdd6f4",
		Dim:        "#6c7086",
		Accent:     "#cba6f7",

		HeaderFG:  "#cdd6f4",
		HeaderBG:  "#313244",
		AltRow:    "#242434",
		Selected:  "#45475a",
		Cursor:    "#585b70",
		Separator: "#313244",
		Negative:  "#f38ba8",
		Positive:  "#a6e3a1",

		SearchHighlight: "#f9e2af",
		HelpKey:         "#cba6f7",
		HelpDesc:        "#6c7086",
	}
}

// thDraculaTheme returns the Dracula theme.
func thDraculaTheme() Theme {
	return Theme{
		Name:       "dracula",
		Background: "#282a36",
		Foreground: "#f8f8f2",
		Dim:        "#6272a4",
		Accent:     "#bd93f9",

		HeaderFG:  "#f8f8f2",
		HeaderBG:  "#44475a",
		AltRow:    "#2f3140",
		Selected:  "#44475a",
		Cursor:    "#6272a4",
		Separator: "#44475a",
		Negative:  "#ff5555",
		Positive:  "#50fa7b",

		SearchHighlight: "#f1fa8c",
		HelpKey:         "#bd93f9",
		HelpDesc:        "#6272a4",
	}
}

// thTokyoNightTheme returns the Tokyo Night theme.
func thTokyoNightTheme() Theme {
	return Theme{
		Name:       "tokyo-night",
		Background: "#1a1b26",
		Foreground: "#c0caf5",
		Dim:        "#565f89",
		Accent:     "#7aa2f7",

		HeaderFG:  "#c0caf5",
		HeaderBG:  "#292e42",
		AltRow:    "#1f2335",
		Selected:  "#283457",
		Cursor:    "#3d59a1",
		Separator: "#292e42",
		Negative:  "#f7768e",
		Positive:  "#9ece6a",

		SearchHighlight: "#e0af68",
		HelpKey:         "#7aa2f7",
		HelpDesc:        "#565f89",
	}
}
