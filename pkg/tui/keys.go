package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Home       key.Binding
	End        key.Binding
	Left       key.Binding
	Right      key.Binding
	NextColumn key.Binding
	PrevColumn key.Binding
	Sort       key.Binding
	Toggle     key.Binding
	ToggleAll  key.Binding
	Clear      key.Binding
	Search     key.Binding
	Filter     key.Binding
	Reset      key.Binding
	Hide       key.Binding
	ShowAll    key.Binding
	Preset     key.Binding
	Theme      key.Binding
	Open       key.Binding
	Export     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Home:       key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first row")),
		End:        key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last row")),
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "scroll left")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "scroll right")),
		NextColumn: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next column")),
		PrevColumn: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "prev column")),
		Sort:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select row")),
		ToggleAll:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		Clear:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear selection")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "add filter")),
		Reset:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear filters")),
		Hide:       key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "hide column")),
		ShowAll:    key.NewBinding(key.WithKeys("V"), key.WithHelp("V", "show all columns")),
		Preset:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "column preset")),
		Theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "next theme")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open row")),
		Export:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Filter, k.Sort, k.Toggle, k.Export, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Left, k.Right, k.NextColumn, k.PrevColumn, k.Hide, k.ShowAll},
		{k.Search, k.Filter, k.Reset, k.Sort, k.Preset, k.Theme},
		{k.Toggle, k.ToggleAll, k.Clear, k.Open, k.Export, k.Quit},
	}
}
