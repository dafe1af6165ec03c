package theme

import (
	"sort"
	"strings"
	"sync"

	"gitlab.com/tinyland/lab/fingrid/pkg/components"
)

// Theme defines the color palette for the grid and the chrome around it.
type Theme struct {
	Name string

	// Base colors
	Background string // hex color e.g. "#1a1b26"
	Foreground string
	Dim        string // status line, empty-state text
	Accent     string // title, focused search box

	// Grid colors
	HeaderFG  string
	HeaderBG  string
	AltRow    string // zebra stripe background
	Selected  string // selected row background
	Cursor    string // cursor row background
	Separator string // divider between pinned and scrolling columns
	Negative  string // negative numeric cells
	Positive  string

	// Special
	SearchHighlight string
	HelpKey         string
	HelpDesc        string
}

// Palette returns the colors components.GridView draws with.
func (t Theme) Palette() components.Palette {
	return components.Palette{
		HeaderFG:   t.HeaderFG,
		HeaderBG:   t.HeaderBG,
		AltRowBG:   t.AltRow,
		SelectedBG: t.Selected,
		CursorBG:   t.Cursor,
		Separator:  t.Separator,
		Negative:   t.Negative,
		Muted:      t.Dim,
	}
}

// Current holds the active theme (set via SetCurrent).
var Current Theme

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
)

func init() {
	thRegisterBuiltins()
	Current = thDefaultTheme()
}

// Get returns a named theme, falling back to Default if not found.
func Get(name string) Theme {
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := registry[strings.ToLower(name)]; ok {
		return t
	}
	return registry["default"]
}

// Known reports whether name is registered.
func Known(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[strings.ToLower(name)]
	return ok
}

// Names returns all available theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetCurrent sets the active theme by name.
func SetCurrent(name string) {
	Current = Get(name)
}

// Register adds a theme, such as one loaded from a file, under its
// lowercase name. An existing theme with the same name is replaced.
func Register(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}
