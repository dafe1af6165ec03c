package theme

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// thTOMLTheme is the TOML-serializable representation of a Theme.
type thTOMLTheme struct {
	Name    string        `toml:"name"`
	Base    thTOMLBase    `toml:"base"`
	Grid    thTOMLGrid    `toml:"grid"`
	Special thTOMLSpecial `toml:"special"`
}

type thTOMLBase struct {
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
	Dim        string `toml:"dim"`
	Accent     string `toml:"accent"`
}

type thTOMLGrid struct {
	HeaderFG  string `toml:"header_fg"`
	HeaderBG  string `toml:"header_bg"`
	AltRow    string `toml:"alt_row"`
	Selected  string `toml:"selected"`
	Cursor    string `toml:"cursor"`
	Separator string `toml:"separator"`
	Negative  string `toml:"negative"`
	Positive  string `toml:"positive"`
}

type thTOMLSpecial struct {
	SearchHighlight string `toml:"search_highlight"`
	HelpKey         string `toml:"help_key"`
	HelpDesc        string `toml:"help_desc"`
}

var thHexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// LoadFromTOML parses a TOML theme definition from raw bytes.
func LoadFromTOML(data []byte) (Theme, error) {
	var tt thTOMLTheme
	if err := toml.Unmarshal(data, &tt); err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}

	t := Theme{
		Name:       tt.Name,
		Background: tt.Base.Background,
		Foreground: tt.Base.Foreground,
		Dim:        tt.Base.Dim,
		Accent:     tt.Base.Accent,

		HeaderFG:  tt.Grid.HeaderFG,
		HeaderBG:  tt.Grid.HeaderBG,
		AltRow:    tt.Grid.AltRow,
		Selected:  tt.Grid.Selected,
		Cursor:    tt.Grid.Cursor,
		Separator: tt.Grid.Separator,
		Negative:  tt.Grid.Negative,
		Positive:  tt.Grid.Positive,

		SearchHighlight: tt.Special.SearchHighlight,
		HelpKey:         tt.Special.HelpKey,
		HelpDesc:        tt.Special.HelpDesc,
	}

	if err := thValidateTheme(t); err != nil {
		return Theme{}, err
	}

	return t, nil
}

// LoadFile reads a TOML theme from path.
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: %w", err)
	}
	return LoadFromTOML(data)
}

// SaveToTOML serializes a theme to TOML bytes.
func SaveToTOML(t Theme) ([]byte, error) {
	tt := thTOMLTheme{
		Name: t.Name,
		Base: thTOMLBase{
			Background: t.Background,
			Foreground: t.Foreground,
			Dim:        t.Dim,
			Accent:     t.Accent,
		},
		Grid: thTOMLGrid{
			HeaderFG:  t.HeaderFG,
			HeaderBG:  t.HeaderBG,
			AltRow:    t.AltRow,
			Selected:  t.Selected,
			Cursor:    t.Cursor,
			Separator: t.Separator,
			Negative:  t.Negative,
			Positive:  t.Positive,
		},
		Special: thTOMLSpecial{
			SearchHighlight: t.SearchHighlight,
			HelpKey:         t.HelpKey,
			HelpDesc:        t.HelpDesc,
		},
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(tt); err != nil {
		return nil, fmt.Errorf("theme: encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// thColorFields lists every color field by its TOML key, in file order.
func thColorFields(t Theme) [][2]string {
	return [][2]string{
		{"background", t.Background},
		{"foreground", t.Foreground},
		{"dim", t.Dim},
		{"accent", t.Accent},
		{"header_fg", t.HeaderFG},
		{"header_bg", t.HeaderBG},
		{"alt_row", t.AltRow},
		{"selected", t.Selected},
		{"cursor", t.Cursor},
		{"separator", t.Separator},
		{"negative", t.Negative},
		{"positive", t.Positive},
		{"search_highlight", t.SearchHighlight},
		{"help_key", t.HelpKey},
		{"help_desc", t.HelpDesc},
	}
}

// thValidateTheme checks that all required color fields are present and valid hex.
func thValidateTheme(t Theme) error {
	if t.Name == "" {
		return fmt.Errorf("theme: missing required field %q", "name")
	}
	fields := thColorFields(t)
	for _, f := range fields {
		if f[1] == "" {
			return fmt.Errorf("theme: missing required field %q", f[0])
		}
	}
	for _, f := range fields {
		if !thHexColorRegex.MatchString(f[1]) {
			return fmt.Errorf("theme: invalid hex color %q for field %q (expected #RRGGBB)", f[1], f[0])
		}
	}
	return nil
}
