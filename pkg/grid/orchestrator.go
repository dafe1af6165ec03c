package grid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Defaults applied by New for zero option values.
const (
	DefaultRowHeight     = 48
	DefaultOverscan      = 5
	DefaultThreshold     = 100
	DefaultFrameInterval = 16 * time.Millisecond
)

// Options configures a Grid.
type Options struct {
	Columns    []ColumnConfig
	Selectable bool

	// VirtualScrolling windows the rows once the filtered count exceeds
	// Threshold. When off, PageSize rows are shown per page.
	VirtualScrolling bool
	Threshold        int
	PageSize         int

	// FrozenColumnCount freezes the first N configured columns in addition
	// to any per-column Frozen flags.
	FrozenColumnCount int

	RowHeight int
	Overscan  int

	// FrameInterval bounds scroll-driven rewindowing to one per frame.
	FrameInterval time.Duration
	// Now is the clock used for scroll throttling. Defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger

	OnSelectionChange func(selected []Row)
	OnRowClick        func(row Row)
	OnExport          func(rows []Row)
}

// Phase is the orchestrator state.
type Phase int32

const (
	Idle Phase = iota
	Recomputing
)

func (p Phase) String() string {
	if p == Recomputing {
		return "recomputing"
	}
	return "idle"
}

// State is every external input that drives the pipeline. It is plain data
// and can be saved and restored with SetState.
type State struct {
	Search         string    `json:"search"`
	Filters        []Filter  `json:"filters"`
	Sort           SortState `json:"sort"`
	Visible        []string  `json:"visible"`
	ScrollTop      int       `json:"scrollTop"`
	ViewportHeight int       `json:"viewportHeight"`
	Page           int       `json:"page"`
	Loading        bool      `json:"loading"`
}

func (s State) clone() State {
	s.Filters = slices.Clone(s.Filters)
	s.Visible = slices.Clone(s.Visible)
	return s
}

// RenderRow is one materialized row. Position is its index in the filtered
// and sorted sequence.
type RenderRow struct {
	Position int  `json:"position"`
	Row      Row  `json:"row"`
	Selected bool `json:"selected"`
}

// RenderModel is the consistent output of one recomputation.
type RenderModel struct {
	Loading       bool           `json:"loading"`
	Columns       []ColumnLayout `json:"columns"`
	Rows          []RenderRow    `json:"rows"`
	Window        WindowState    `json:"window"`
	TotalRows     int            `json:"totalRows"`
	FilteredRows  int            `json:"filteredRows"`
	SelectedCount int            `json:"selectedCount"`
	SelectAll     CheckState     `json:"selectAll"`
	Search        string         `json:"search"`
	Filters       []Filter       `json:"filters"`
	Sort          SortState      `json:"sort"`
	Page          int            `json:"page"`
	PageCount     int            `json:"pageCount"`
	Virtualized   bool           `json:"virtualized"`
	Generation    uint64         `json:"generation"`
}

// stage marks which pipeline outputs are stale.
type stage uint8

const (
	stageIndex stage = 1 << iota
	stageFilter
	stageSort
	stageWindow
	stageLayout
	stageModel
)

var errSuperseded = errors.New("superseded by newer input")

// Grid composes filtering, sorting, selection, windowing and layout into
// one render model. Every input bumps a generation counter; a pass that
// finds a newer generation between stages drops its result, so only the
// latest inputs are ever published.
//
// Grid is safe for concurrent use.
type Grid struct {
	opts     Options
	columns  []ColumnConfig
	byID     map[string]ColumnConfig
	windower Windower
	log      *slog.Logger
	limiter  *rate.Limiter
	now      func() time.Time
	sel      *Selection

	gen      atomic.Uint64
	inflight atomic.Int32

	mu            sync.Mutex
	state         State
	data          []Row
	dirty         stage
	scrollPending bool

	index    *Index
	filtered []int
	mask     []bool
	sorted   []int
	window   WindowState
	layout   []ColumnLayout
	coverage CheckState
	model    RenderModel
}

// New builds a grid over an empty dataset.
func New(opts Options) (*Grid, error) {
	if err := ValidateColumns(opts.Columns); err != nil {
		return nil, err
	}
	columns, err := ApplyFrozenCount(opts.Columns, opts.FrozenColumnCount)
	if err != nil {
		return nil, err
	}
	if opts.RowHeight <= 0 {
		opts.RowHeight = DefaultRowHeight
	}
	if opts.Overscan < 0 {
		opts.Overscan = 0
	}
	if opts.Threshold < 0 {
		opts.Threshold = 0
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	visible := make([]string, len(columns))
	for i, c := range columns {
		visible[i] = c.ID
	}

	g := &Grid{
		opts:    opts,
		columns: columns,
		byID:    columnIndex(columns),
		windower: Windower{
			Virtual:   opts.VirtualScrolling,
			Threshold: opts.Threshold,
			RowHeight: opts.RowHeight,
			Overscan:  opts.Overscan,
			PageSize:  opts.PageSize,
		},
		log:     opts.Logger.With("component", "grid"),
		limiter: rate.NewLimiter(rate.Every(opts.FrameInterval), 1),
		now:     opts.Now,
		sel:     NewSelection(),
		state:   State{Visible: visible},
		dirty:   stageIndex | stageLayout | stageModel,
	}
	if err := g.Recompute(context.Background()); err != nil {
		return nil, err
	}
	return g, nil
}

// Columns returns the effective column configuration.
func (g *Grid) Columns() []ColumnConfig { return slices.Clone(g.columns) }

// Column returns the configuration of one column.
func (g *Grid) Column(id string) (ColumnConfig, bool) {
	c, ok := g.byID[id]
	return c, ok
}

// Selectable reports whether row selection is enabled.
func (g *Grid) Selectable() bool { return g.opts.Selectable }

// RowHeight returns the effective row height.
func (g *Grid) RowHeight() int { return g.opts.RowHeight }

// PageOf returns the page holding a position of the filtered sequence when
// the grid is paged, and 0 otherwise.
func (g *Grid) PageOf(position int) int {
	if g.opts.PageSize <= 0 || position < 0 {
		return 0
	}
	return position / g.opts.PageSize
}

// Phase reports whether a recomputation is in flight.
func (g *Grid) Phase() Phase {
	if g.inflight.Load() > 0 {
		return Recomputing
	}
	return Idle
}

// Generation returns the number of inputs accepted so far.
func (g *Grid) Generation() uint64 { return g.gen.Load() }

// State returns a copy of the current inputs.
func (g *Grid) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.clone()
}

// Render returns the latest published render model.
func (g *Grid) Render() RenderModel {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.model
}

// input applies fn to the state under the lock, marks the stages it
// returns as stale and recomputes. fn returning zero means no change.
func (g *Grid) input(fn func(st *State) stage) {
	g.mu.Lock()
	d := fn(&g.state)
	if d == 0 {
		g.mu.Unlock()
		return
	}
	g.dirty |= d | stageModel
	g.gen.Add(1)
	g.mu.Unlock()
	if err := g.Recompute(context.Background()); err != nil {
		g.log.Warn("recompute failed", "error", err)
	}
}

// SetData replaces the source rows. Selected identities that still exist
// stay selected; the rest are pruned.
func (g *Grid) SetData(rows []Row) {
	rows = slices.Clone(rows)
	g.input(func(*State) stage {
		g.data = rows
		return stageIndex
	})
}

// SetLoading toggles the loading flag. While loading the render model is
// empty and the pipeline does not run.
func (g *Grid) SetLoading(loading bool) {
	g.input(func(st *State) stage {
		if st.Loading == loading {
			return 0
		}
		st.Loading = loading
		return stageModel
	})
}

// SetSearch sets the free-text search term and returns to the top.
func (g *Grid) SetSearch(term string) {
	g.input(func(st *State) stage {
		if st.Search == term {
			return 0
		}
		st.Search = term
		st.ScrollTop, st.Page = 0, 0
		return stageFilter
	})
}

// SetFilters replaces the structured filters and returns to the top.
func (g *Grid) SetFilters(filters []Filter) {
	filters = slices.Clone(filters)
	g.input(func(st *State) stage {
		st.Filters = filters
		st.ScrollTop, st.Page = 0, 0
		return stageFilter
	})
}

// AddFilter appends one structured filter.
func (g *Grid) AddFilter(f Filter) {
	g.input(func(st *State) stage {
		st.Filters = append(slices.Clone(st.Filters), f)
		st.ScrollTop, st.Page = 0, 0
		return stageFilter
	})
}

// ClearFilters removes every structured filter.
func (g *Grid) ClearFilters() {
	g.input(func(st *State) stage {
		if len(st.Filters) == 0 {
			return 0
		}
		st.Filters = nil
		st.ScrollTop, st.Page = 0, 0
		return stageFilter
	})
}

// SetSort sets the sort state directly.
func (g *Grid) SetSort(s SortState) {
	g.input(func(st *State) stage {
		if st.Sort == s {
			return 0
		}
		st.Sort = s
		return stageSort
	})
}

// SortBy applies a header click on column and returns the resulting sort
// state. Clicks on unknown or non-sortable columns are ignored.
func (g *Grid) SortBy(column string) SortState {
	var next SortState
	g.input(func(st *State) stage {
		next = st.Sort
		if c, ok := g.byID[column]; !ok || !c.Sortable {
			return 0
		}
		next = NextSort(st.Sort, column)
		st.Sort = next
		return stageSort
	})
	return next
}

// SetColumnVisible shows or hides a column.
func (g *Grid) SetColumnVisible(id string, visible bool) error {
	if _, ok := g.byID[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, id)
	}
	g.input(func(st *State) stage {
		if slices.Contains(st.Visible, id) == visible {
			return 0
		}
		st.Visible = g.visibleWith(st.Visible, id, visible)
		return stageLayout
	})
	return nil
}

// ToggleColumn flips a column's visibility and reports the new state.
func (g *Grid) ToggleColumn(id string) (bool, error) {
	if _, ok := g.byID[id]; !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownColumn, id)
	}
	var shown bool
	g.input(func(st *State) stage {
		shown = !slices.Contains(st.Visible, id)
		st.Visible = g.visibleWith(st.Visible, id, shown)
		return stageLayout
	})
	return shown, nil
}

// visibleWith returns the visible IDs in configuration order with id added
// or removed.
func (g *Grid) visibleWith(cur []string, id string, visible bool) []string {
	out := make([]string, 0, len(g.columns))
	for _, c := range g.columns {
		on := slices.Contains(cur, c.ID)
		if c.ID == id {
			on = visible
		}
		if on {
			out = append(out, c.ID)
		}
	}
	return out
}

// SetViewport sets the viewport height.
func (g *Grid) SetViewport(height int) {
	g.input(func(st *State) stage {
		if st.ViewportHeight == height {
			return 0
		}
		st.ViewportHeight = height
		return stageWindow
	})
}

// Scroll records a new scroll offset. At most one rewindow runs per frame
// interval; a throttled offset is applied by the next call to Frame.
func (g *Grid) Scroll(top int) {
	g.input(func(st *State) stage {
		if st.ScrollTop == top && !g.scrollPending {
			return 0
		}
		st.ScrollTop = top
		if !g.limiter.AllowN(g.now(), 1) {
			g.scrollPending = true
			return 0
		}
		g.scrollPending = false
		return stageWindow
	})
}

// Frame flushes a throttled scroll. Call it once per rendered frame. It
// reports whether the window was recomputed.
func (g *Grid) Frame() bool {
	flushed := false
	g.input(func(*State) stage {
		if !g.scrollPending {
			return 0
		}
		g.scrollPending = false
		g.limiter.AllowN(g.now(), 1)
		flushed = true
		return stageWindow
	})
	return flushed
}

// ScrollPending reports whether a throttled scroll waits for Frame.
func (g *Grid) ScrollPending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scrollPending
}

// ScrollToRow scrolls so that the row at position is inside the viewport.
// The move is not throttled.
func (g *Grid) ScrollToRow(position int) {
	h := g.opts.RowHeight
	g.input(func(st *State) stage {
		top := st.ScrollTop
		switch {
		case position*h < top:
			top = position * h
		case (position+1)*h > top+st.ViewportHeight:
			top = (position+1)*h - st.ViewportHeight
		}
		top = max(top, 0)
		if top == st.ScrollTop {
			return 0
		}
		st.ScrollTop = top
		g.scrollPending = false
		return stageWindow
	})
}

// SetPage selects the page shown when virtualization is off.
func (g *Grid) SetPage(page int) {
	g.input(func(st *State) stage {
		if st.Page == page {
			return 0
		}
		st.Page = page
		return stageWindow
	})
}

// SetState replaces every input at once.
func (g *Grid) SetState(s State) {
	s = s.clone()
	if s.Visible == nil {
		s.Visible = make([]string, len(g.columns))
		for i, c := range g.columns {
			s.Visible[i] = c.ID
		}
	}
	g.input(func(st *State) stage {
		*st = s
		g.scrollPending = false
		return stageFilter | stageLayout
	})
}

// Recompute brings derived state up to date with the latest inputs. A pass
// overtaken by newer input returns without publishing; the caller that
// supplied the newer input publishes instead. A cancelled ctx leaves the
// stale stages marked for the next pass.
func (g *Grid) Recompute(ctx context.Context) error {
	g.mu.Lock()
	if g.dirty == 0 {
		g.mu.Unlock()
		return nil
	}
	if g.state.Loading {
		g.publishLoading()
		g.dirty &^= stageModel
		g.mu.Unlock()
		return nil
	}
	gen := g.gen.Load()
	in := pass{
		state:    g.state.clone(),
		dirty:    g.dirty,
		data:     g.data,
		index:    g.index,
		filtered: g.filtered,
		mask:     g.mask,
		sorted:   g.sorted,
		window:   g.window,
		layout:   g.layout,
	}
	g.mu.Unlock()

	g.inflight.Add(1)
	start := time.Now()
	out, err := g.run(ctx, gen, in)
	g.inflight.Add(-1)
	if errors.Is(err, errSuperseded) {
		g.log.Debug("recompute superseded", "generation", gen)
		return nil
	}
	if err != nil {
		return err
	}

	g.mu.Lock()
	if g.gen.Load() != gen {
		g.mu.Unlock()
		g.log.Debug("recompute superseded", "generation", gen)
		return nil
	}
	pruned := 0
	if in.dirty&stageIndex != 0 {
		pruned = g.sel.Prune(out.index.Has)
	}
	g.index, g.filtered, g.mask, g.sorted = out.index, out.filtered, out.mask, out.sorted
	g.window, g.layout = out.window, out.layout
	g.dirty = 0
	if in.dirty&(stageIndex|stageFilter) != 0 || pruned > 0 {
		g.coverage = g.sel.Coverage(g.filteredIDs())
	}
	g.publish(gen)
	g.mu.Unlock()

	g.log.Debug("recompute",
		"generation", gen,
		"rows", out.index.Len(),
		"filtered", len(out.filtered),
		"window", fmt.Sprintf("%d-%d", out.window.Start, out.window.End),
		"elapsed", time.Since(start),
	)
	if pruned > 0 {
		g.log.Debug("selection pruned", "removed", pruned)
		g.selectionChanged()
	}
	return nil
}

// pass carries one recomputation's inputs and outputs.
type pass struct {
	state    State
	dirty    stage
	data     []Row
	index    *Index
	filtered []int
	mask     []bool
	sorted   []int
	window   WindowState
	layout   []ColumnLayout
}

func (g *Grid) run(ctx context.Context, gen uint64, p pass) (pass, error) {
	check := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if g.gen.Load() != gen {
			return errSuperseded
		}
		return nil
	}

	d := p.dirty
	if d&stageIndex != 0 || p.index == nil {
		p.index = NewIndex(p.data, g.columns)
		d |= stageFilter
	}
	if err := check(); err != nil {
		return p, err
	}

	if d&stageFilter != 0 {
		filtered, ignored, err := p.index.filter(ctx, p.state.Search, p.state.Filters)
		if err != nil {
			return p, err
		}
		for _, f := range ignored {
			g.log.Debug("filter ignored", "column", f.Column, "operator", f.Operator)
		}
		p.filtered = filtered
		p.mask = make([]bool, p.index.Len())
		for _, i := range filtered {
			p.mask[i] = true
		}
		d |= stageSort
		if err := check(); err != nil {
			return p, err
		}
	}

	if d&stageSort != 0 {
		if p.state.Sort.Active() {
			if _, ok := p.index.sortColumn(p.state.Sort); !ok {
				g.log.Debug("sort ignored", "column", p.state.Sort.Column)
			}
		}
		sorted, err := p.index.sort(ctx, p.filtered, p.state.Sort)
		if err != nil {
			return p, err
		}
		p.sorted = sorted
		d |= stageWindow
		if err := check(); err != nil {
			return p, err
		}
	}

	if d&stageWindow != 0 {
		p.window = g.windower.Window(len(p.sorted), p.state.ScrollTop, p.state.ViewportHeight, p.state.Page)
	}
	if d&stageLayout != 0 || p.layout == nil {
		p.layout = ResolveLayout(g.columns, p.state.Visible, g.opts.Selectable)
	}
	return p, nil
}

// publish rebuilds the render model from committed state. Caller holds mu.
func (g *Grid) publish(gen uint64) {
	st := g.state
	total := len(g.sorted)
	m := RenderModel{
		Columns:       g.layout,
		Window:        g.window,
		TotalRows:     g.index.Len(),
		FilteredRows:  total,
		SelectedCount: g.sel.Count(),
		SelectAll:     g.coverage,
		Search:        st.Search,
		Filters:       slices.Clone(st.Filters),
		Sort:          st.Sort,
		Page:          g.windower.ClampPage(total, st.Page),
		PageCount:     g.windower.PageCount(total),
		Virtualized:   g.windower.Virtualized(total),
		Generation:    gen,
	}
	if !g.window.Empty() {
		m.Rows = make([]RenderRow, 0, g.window.Len())
		for i := g.window.Start; i <= g.window.End && i < total; i++ {
			r := g.index.Row(g.sorted[i])
			m.Rows = append(m.Rows, RenderRow{Position: i, Row: r, Selected: g.sel.IsSelected(r.ID)})
		}
	}
	g.model = m
}

func (g *Grid) publishLoading() {
	g.model = RenderModel{
		Loading:   true,
		Columns:   g.layout,
		Window:    WindowState{Start: 0, End: -1},
		Search:    g.state.Search,
		Sort:      g.state.Sort,
		PageCount: 1,
	}
}

// filteredIDs returns the IDs of the filtered set. Caller holds mu.
func (g *Grid) filteredIDs() []string {
	ids := make([]string, len(g.sorted))
	for i, p := range g.sorted {
		ids[i] = g.index.Row(p).ID
	}
	return ids
}

// selectionUpdate runs fn against the selection under the lock, refreshes
// the published model and notifies listeners when fn reports a change.
func (g *Grid) selectionUpdate(fn func() bool) bool {
	if !g.opts.Selectable {
		return false
	}
	g.mu.Lock()
	if g.index == nil || !fn() {
		g.mu.Unlock()
		return false
	}
	g.coverage = g.sel.Coverage(g.filteredIDs())
	if !g.state.Loading {
		g.publish(g.gen.Load())
	}
	g.mu.Unlock()
	g.selectionChanged()
	return true
}

func (g *Grid) selectionChanged() {
	if g.opts.OnSelectionChange != nil {
		g.opts.OnSelectionChange(g.SelectedRows())
	}
}

// ToggleRow flips the selection of the row with id. Rows outside the
// current filtered set cannot be toggled; ToggleRow reports whether the
// selection changed.
func (g *Grid) ToggleRow(id string) bool {
	return g.selectionUpdate(func() bool {
		p, ok := g.index.Lookup(id)
		if !ok || !g.mask[p] {
			return false
		}
		g.sel.Toggle(id)
		return true
	})
}

// SelectAll selects exactly the current filtered set.
func (g *Grid) SelectAll() {
	g.selectionUpdate(func() bool {
		g.sel.SelectAll(g.filteredIDs())
		return true
	})
}

// ToggleAll follows the header checkbox: when every filtered row is
// selected it clears the selection, otherwise it selects the filtered set.
func (g *Grid) ToggleAll() {
	g.selectionUpdate(func() bool {
		if g.coverage == CheckAll {
			g.sel.Clear()
		} else {
			g.sel.SelectAll(g.filteredIDs())
		}
		return true
	})
}

// ClearSelection deselects every row.
func (g *Grid) ClearSelection() {
	g.selectionUpdate(func() bool {
		if g.sel.Count() == 0 {
			return false
		}
		g.sel.Clear()
		return true
	})
}

// IsSelected reports whether the row with id is selected.
func (g *Grid) IsSelected(id string) bool { return g.sel.IsSelected(id) }

// SelectedCount returns the number of selected rows.
func (g *Grid) SelectedCount() int { return g.sel.Count() }

// SelectedRows returns the selected rows in source order.
func (g *Grid) SelectedRows() []Row {
	g.mu.Lock()
	data := g.data
	g.mu.Unlock()
	return g.sel.SelectedRows(data)
}

// RowAt returns the row at a position of the filtered and sorted sequence.
func (g *Grid) RowAt(position int) (Row, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if position < 0 || position >= len(g.sorted) {
		return Row{}, false
	}
	return g.index.Row(g.sorted[position]), true
}

// ClickRow reports a click on the row with id to OnRowClick. It returns
// false when no such row exists.
func (g *Grid) ClickRow(id string) bool {
	g.mu.Lock()
	var (
		row Row
		ok  bool
	)
	if g.index != nil {
		var p int
		if p, ok = g.index.Lookup(id); ok {
			row = g.index.Row(p)
		}
	}
	g.mu.Unlock()
	if ok && g.opts.OnRowClick != nil {
		g.opts.OnRowClick(row)
	}
	return ok
}

// Export returns the filtered and sorted rows.
func (g *Grid) Export() []Row {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.index == nil {
		return nil
	}
	return g.index.Rows(g.sorted)
}

// RequestExport hands the filtered and sorted rows to OnExport.
func (g *Grid) RequestExport() []Row {
	rows := g.Export()
	if g.opts.OnExport != nil {
		g.opts.OnExport(rows)
	}
	return rows
}
