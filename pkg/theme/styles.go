package theme

import "github.com/charmbracelet/lipgloss"

// Styles are the lipgloss styles for the chrome around the grid.
type Styles struct {
	Title       lipgloss.Style
	Status      lipgloss.Style
	SearchLabel lipgloss.Style
	Match       lipgloss.Style
	FilterChip  lipgloss.Style
	Error       lipgloss.Style
	HelpKey     lipgloss.Style
	HelpDesc    lipgloss.Style
}

// thColor returns a lipgloss color, or NoColor for an empty value so that
// themes adapted down to no color render plain.
func thColor(c string) lipgloss.TerminalColor {
	if c == "" {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(c)
}

// Styles builds the chrome styles for t. Colors may be hex or 256-color
// indices as produced by Adapt.
func (t Theme) Styles() Styles {
	return Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(thColor(t.Accent)),
		Status:      lipgloss.NewStyle().Foreground(thColor(t.Dim)),
		SearchLabel: lipgloss.NewStyle().Foreground(thColor(t.Accent)),
		Match:       lipgloss.NewStyle().Foreground(thColor(t.SearchHighlight)),
		FilterChip: lipgloss.NewStyle().
			Foreground(thColor(t.HeaderFG)).
			Background(thColor(t.HeaderBG)).
			Padding(0, 1),
		Error:    lipgloss.NewStyle().Foreground(thColor(t.Negative)),
		HelpKey:  lipgloss.NewStyle().Foreground(thColor(t.HelpKey)),
		HelpDesc: lipgloss.NewStyle().Foreground(thColor(t.HelpDesc)),
	}
}
