// Package tui is the interactive terminal front end for the grid: a
// bubbletea model that feeds keyboard and mouse input into a grid.Grid and
// draws its render model with components.GridView.
package tui

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/fingrid/pkg/app"
	"gitlab.com/tinyland/lab/fingrid/pkg/components"
	"gitlab.com/tinyland/lab/fingrid/pkg/config"
	"gitlab.com/tinyland/lab/fingrid/pkg/grid"
	"gitlab.com/tinyland/lab/fingrid/pkg/theme"
)

const (
	// chromeLines are the fixed lines around the grid body: title, search
	// bar, column header and footer.
	chromeLines = 4
	scrollXStep = 8
	wheelRows   = 3
)

// Options configures a Model.
type Options struct {
	Theme         theme.Theme
	FrameInterval time.Duration
	ExportPath    string
	// Load runs from Init. The grid shows its loading state until the
	// resulting app.DatasetLoadedEvent arrives.
	Load tea.Cmd
	// Zones enables mouse support. Nil disables it.
	Zones  *zone.Manager
	Logger *slog.Logger
}

type inputMode int

const (
	modeNone inputMode = iota
	modeSearch
	modeFilter
)

// Model is the bubbletea model for the grid screen.
type Model struct {
	grid   *grid.Grid
	opts   Options
	log    *slog.Logger
	keys   keyMap
	help   help.Model
	input  textinput.Model
	view   components.GridView
	theme  theme.Theme
	styles theme.Styles

	mode       inputMode
	prevSearch string

	width, height int
	ready         bool
	quitting      bool

	cursor   int // position in the filtered sequence
	top      int // first displayed position when not virtualized
	column   int // index into the visible data columns
	preset   int
	showHelp bool

	status    string
	statusErr bool
}

// New creates a Model driving g.
func New(g *grid.Grid, opts Options) Model {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = grid.DefaultFrameInterval
	}
	if opts.ExportPath == "" {
		opts.ExportPath = "fingrid-export.json"
	}
	if opts.Theme.Name == "" {
		opts.Theme = theme.Current
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	ti := textinput.New()
	ti.CharLimit = 256

	m := Model{
		grid:  g,
		opts:  opts,
		log:   opts.Logger.With("component", "tui"),
		keys:  defaultKeyMap(),
		help:  help.New(),
		input: ti,
		view:  components.GridView{Columns: g.Columns()},
	}
	if opts.Zones != nil {
		m.view.Mark = opts.Zones.Mark
	}
	m.applyTheme(opts.Theme)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{app.FrameCmd(m.opts.FrameInterval)}
	if m.opts.Load != nil {
		m.grid.SetLoading(true)
		cmds = append(cmds, m.opts.Load)
	}
	return tea.Batch(cmds...)
}

// Accessors, mostly for tests.

func (m Model) Width() int       { return m.width }
func (m Model) Height() int      { return m.height }
func (m Model) Ready() bool      { return m.ready }
func (m Model) Cursor() int      { return m.cursor }
func (m Model) ShowHelp() bool   { return m.showHelp }
func (m Model) Status() string   { return m.status }
func (m Model) ScrollX() int     { return m.view.ScrollX }
func (m Model) Theme() string    { return m.theme.Name }
func (m Model) Searching() bool  { return m.mode == modeSearch }
func (m Model) Filtering() bool  { return m.mode == modeFilter }
func (m Model) Grid() *grid.Grid { return m.grid }

// Column returns the ID of the column under the column cursor.
func (m Model) Column() string {
	cols := m.dataColumns()
	if len(cols) == 0 {
		return ""
	}
	return cols[min(m.column, len(cols)-1)]
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-12, 10)
		m.syncViewport()
		return m, nil

	case app.FrameEvent:
		m.grid.Frame()
		return m, app.FrameCmd(m.opts.FrameInterval)

	case app.DatasetLoadedEvent:
		if msg.Err != nil {
			m.grid.SetLoading(false)
			m.log.Warn("load failed", "source", msg.Source, "error", msg.Err)
			m.setError(fmt.Sprintf("load %s: %v", msg.Source, msg.Err))
			return m, nil
		}
		m.grid.SetData(msg.Rows)
		m.grid.SetLoading(false)
		m.moveTo(m.cursor)
		m.setStatus(fmt.Sprintf("loaded %d rows from %s in %s", len(msg.Rows), msg.Source, msg.Elapsed.Round(time.Millisecond)))
		return m, nil

	case app.ExportedEvent:
		if msg.Err != nil {
			m.log.Warn("export failed", "path", msg.Path, "error", msg.Err)
			m.setError(msg.Err.Error())
			return m, nil
		}
		m.setStatus(fmt.Sprintf("exported %d rows to %s", msg.Rows, msg.Path))
		return m, nil

	case app.ThemeChangeEvent:
		m.applyTheme(theme.Get(msg.Theme))
		m.setStatus("theme: " + m.theme.Name)
		return m, nil

	case app.PresetEvent:
		m.applyPreset(msg.Preset)
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.mode != modeNone {
			return m.handleInput(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveTo(m.cursor - 1)
	case key.Matches(msg, m.keys.Down):
		m.moveTo(m.cursor + 1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveTo(m.cursor - m.bodyLines())
	case key.Matches(msg, m.keys.PageDown):
		m.moveTo(m.cursor + m.bodyLines())
	case key.Matches(msg, m.keys.Home):
		m.moveTo(0)
	case key.Matches(msg, m.keys.End):
		m.moveTo(m.grid.Render().FilteredRows - 1)

	case key.Matches(msg, m.keys.Left):
		m.scrollX(-scrollXStep)
	case key.Matches(msg, m.keys.Right):
		m.scrollX(scrollXStep)

	case key.Matches(msg, m.keys.NextColumn):
		if n := len(m.dataColumns()); n > 0 {
			m.column = (min(m.column, n-1) + 1) % n
		}
	case key.Matches(msg, m.keys.PrevColumn):
		if n := len(m.dataColumns()); n > 0 {
			m.column = (min(m.column, n-1) - 1 + n) % n
		}

	case key.Matches(msg, m.keys.Sort):
		m.sortBy(m.Column())

	case key.Matches(msg, m.keys.Toggle):
		if !m.grid.Selectable() {
			m.setStatus("selection is disabled")
			break
		}
		if row, ok := m.grid.RowAt(m.cursor); ok {
			m.grid.ToggleRow(row.ID)
		}
	case key.Matches(msg, m.keys.ToggleAll):
		m.grid.ToggleAll()
	case key.Matches(msg, m.keys.Clear):
		m.grid.ClearSelection()

	case key.Matches(msg, m.keys.Search):
		cmd := m.beginInput(modeSearch)
		return m, cmd
	case key.Matches(msg, m.keys.Filter):
		cmd := m.beginInput(modeFilter)
		return m, cmd
	case key.Matches(msg, m.keys.Reset):
		m.grid.ClearFilters()
		m.grid.SetSearch("")
		m.cursor, m.top = 0, 0
		m.setStatus("filters cleared")

	case key.Matches(msg, m.keys.Hide):
		cols := m.dataColumns()
		if len(cols) <= 1 {
			m.setStatus("cannot hide the last column")
			break
		}
		if err := m.grid.SetColumnVisible(m.Column(), false); err != nil {
			m.setError(err.Error())
		}
		m.clampColumns()
	case key.Matches(msg, m.keys.ShowAll):
		for _, c := range m.grid.Columns() {
			_ = m.grid.SetColumnVisible(c.ID, true)
		}
		m.preset = 0

	case key.Matches(msg, m.keys.Preset):
		names := config.Presets()
		m.applyPreset(names[(m.preset+1)%len(names)])
	case key.Matches(msg, m.keys.Theme):
		names := theme.Names()
		i := slices.Index(names, m.theme.Name)
		m.applyTheme(theme.Get(names[(i+1)%len(names)]))
		m.setStatus("theme: " + m.theme.Name)

	case key.Matches(msg, m.keys.Open):
		if row, ok := m.grid.RowAt(m.cursor); ok {
			m.grid.ClickRow(row.ID)
			m.setStatus("opened " + row.ID)
		}
	case key.Matches(msg, m.keys.Export):
		rows := m.grid.RequestExport()
		m.setStatus(fmt.Sprintf("exporting %d rows…", len(rows)))
		return m, app.ExportCmd(m.opts.ExportPath, rows, m.visibleColumns())

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.syncViewport()
	}
	return m, nil
}

// handleInput routes keys to the search or filter prompt. Search applies
// as the user types; a filter is parsed on enter.
func (m Model) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEsc:
		if m.mode == modeSearch {
			m.grid.SetSearch(m.prevSearch)
		}
		m.endInput()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		if m.mode == modeSearch {
			m.grid.SetSearch(value)
			if value != "" {
				m.setStatus(fmt.Sprintf("%d rows match %q", m.grid.Render().FilteredRows, value))
			}
		} else if value != "" {
			f, err := tuiParseFilter(value, m.grid.Columns())
			if err != nil {
				m.setError("filter: " + err.Error())
				m.endInput()
				return m, nil
			}
			m.grid.AddFilter(f)
			m.setStatus("filter: " + tuiDescribeFilter(f))
		}
		m.cursor, m.top = 0, 0
		m.endInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modeSearch {
		m.grid.SetSearch(strings.TrimSpace(m.input.Value()))
		m.cursor, m.top = 0, 0
	}
	return m, cmd
}

func (m *Model) beginInput(mode inputMode) tea.Cmd {
	m.mode = mode
	m.input.Reset()
	switch mode {
	case modeSearch:
		m.prevSearch = m.grid.State().Search
		m.input.Prompt = "/ "
		m.input.Placeholder = "search all columns"
		m.input.SetValue(m.prevSearch)
		m.input.CursorEnd()
	case modeFilter:
		m.input.Prompt = "filter: "
		m.input.Placeholder = "budget > 1000"
	}
	return m.input.Focus()
}

func (m *Model) endInput() {
	m.mode = modeNone
	m.input.Blur()
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.wheel(-wheelRows)
	case tea.MouseButtonWheelDown:
		m.wheel(wheelRows)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionRelease || m.opts.Zones == nil {
			return m, nil
		}
		if id := m.zoneAt(msg); id != "" {
			m.clickZone(id)
		}
	}
	return m, nil
}

// zoneAt returns the marked zone under the pointer. Checkboxes are tested
// before the rows that contain them.
func (m Model) zoneAt(msg tea.MouseMsg) string {
	rm := m.visibleModel()
	ids := []string{components.ZoneCheckAll}
	for _, r := range rm.Rows {
		ids = append(ids, components.CheckZone(r.Row.ID))
	}
	for _, c := range rm.Columns {
		ids = append(ids, components.HeaderZone(c.ColumnID))
	}
	for _, r := range rm.Rows {
		ids = append(ids, components.RowZone(r.Row.ID))
	}
	for _, id := range ids {
		if m.opts.Zones.Get(id).InBounds(msg) {
			return id
		}
	}
	return ""
}

// clickZone applies a click on a marked zone.
func (m *Model) clickZone(id string) {
	if id == components.ZoneCheckAll {
		m.grid.ToggleAll()
		return
	}
	if rowID, ok := strings.CutPrefix(id, components.ZoneCheckPrefix); ok {
		m.grid.ToggleRow(rowID)
		return
	}
	if col, ok := strings.CutPrefix(id, components.ZoneHeaderPrefix); ok {
		if i := slices.Index(m.dataColumns(), col); i >= 0 {
			m.column = i
		}
		m.sortBy(col)
		return
	}
	if rowID, ok := strings.CutPrefix(id, components.ZoneRowPrefix); ok {
		for _, r := range m.grid.Render().Rows {
			if r.Row.ID == rowID {
				m.moveTo(r.Position)
				break
			}
		}
		m.grid.ClickRow(rowID)
	}
}

func (m *Model) sortBy(col string) {
	if col == "" {
		return
	}
	s := m.grid.SortBy(col)
	if s.Column != col {
		m.setStatus(fmt.Sprintf("%s is not sortable", col))
		return
	}
	m.setStatus(fmt.Sprintf("sorted by %s %s", col, s.Direction))
}

// moveTo places the cursor at pos, clamped to the filtered rows, and brings
// it into view.
func (m *Model) moveTo(pos int) {
	rm := m.grid.Render()
	if rm.FilteredRows == 0 {
		m.cursor, m.top = 0, 0
		return
	}
	m.cursor = min(max(pos, 0), rm.FilteredRows-1)
	switch {
	case rm.Virtualized:
		m.grid.ScrollToRow(m.cursor)
	case rm.PageCount > 1:
		m.grid.SetPage(m.grid.PageOf(m.cursor))
	}
	m.keepCursorVisible()
}

// keepCursorVisible adjusts the display offset used when the grid is not
// virtualized, where every materialized row may not fit the body.
func (m *Model) keepCursorVisible() {
	rm := m.grid.Render()
	if rm.Virtualized {
		return
	}
	body := m.bodyLines()
	if m.cursor < m.top {
		m.top = m.cursor
	}
	if m.cursor >= m.top+body {
		m.top = m.cursor - body + 1
	}
	m.top = max(m.top, rm.Window.Start, 0)
}

func (m *Model) wheel(rows int) {
	rm := m.grid.Render()
	if rm.Virtualized {
		st := m.grid.State()
		h := m.grid.RowHeight()
		limit := max(rm.FilteredRows*h-st.ViewportHeight, 0)
		m.grid.Scroll(min(max(st.ScrollTop+rows*h, 0), limit))
		return
	}
	lo := max(rm.Window.Start, 0)
	hi := max(rm.Window.End-m.bodyLines()+1, lo)
	m.top = min(max(m.top+rows, lo), hi)
}

func (m *Model) scrollX(delta int) {
	limit := m.view.MaxScrollX(m.grid.Render().Columns)
	m.view.ScrollX = min(max(m.view.ScrollX+delta, 0), limit)
}

func (m *Model) applyTheme(t theme.Theme) {
	m.theme = theme.ForProfile(t, lipgloss.ColorProfile())
	m.styles = m.theme.Styles()
	m.view.Palette = m.theme.Palette()
	m.help.Styles.ShortKey = m.styles.HelpKey
	m.help.Styles.ShortDesc = m.styles.HelpDesc
	m.help.Styles.FullKey = m.styles.HelpKey
	m.help.Styles.FullDesc = m.styles.HelpDesc
	m.input.PromptStyle = m.styles.SearchLabel
}

// applyPreset shows exactly the preset's columns. Presets naming none of
// the configured columns are rejected.
func (m *Model) applyPreset(name string) {
	want := config.PresetColumns(name)
	cols := m.grid.Columns()
	if want != nil && !slices.ContainsFunc(cols, func(c grid.ColumnConfig) bool { return slices.Contains(want, c.ID) }) {
		m.setError(fmt.Sprintf("preset %s matches no columns", name))
		return
	}
	for _, c := range cols {
		_ = m.grid.SetColumnVisible(c.ID, want == nil || slices.Contains(want, c.ID))
	}
	if i := slices.Index(config.Presets(), name); i >= 0 {
		m.preset = i
	}
	m.clampColumns()
	m.setStatus("preset: " + name)
}

func (m *Model) clampColumns() {
	m.column = min(m.column, max(len(m.dataColumns())-1, 0))
	m.scrollX(0)
}

// syncViewport hands the body height to the grid, in row-height units.
func (m *Model) syncViewport() {
	m.view.Width = m.width
	m.grid.SetViewport(m.bodyLines() * m.grid.RowHeight())
	m.keepCursorVisible()
	m.scrollX(0)
}

// bodyLines is the number of grid rows that fit on screen.
func (m Model) bodyLines() int {
	footer := 1
	if m.showHelp {
		footer = lipgloss.Height(m.help.View(m.keys))
	}
	return max(m.height-chromeLines+1-footer, 1)
}

// dataColumns returns the visible column IDs without the checkbox column.
func (m Model) dataColumns() []string {
	var ids []string
	for _, c := range m.grid.Render().Columns {
		if c.ColumnID != grid.SelectionColumnID {
			ids = append(ids, c.ColumnID)
		}
	}
	return ids
}

// visibleColumns returns the configuration of the visible data columns, in
// display order.
func (m Model) visibleColumns() []grid.ColumnConfig {
	var cols []grid.ColumnConfig
	for _, id := range m.dataColumns() {
		if c, ok := m.grid.Column(id); ok {
			cols = append(cols, c)
		}
	}
	return cols
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(s string) {
	m.status, m.statusErr = s, true
}
