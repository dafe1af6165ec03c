package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"gitlab.com/tinyland/lab/fingrid/pkg/dataset"
	"gitlab.com/tinyland/lab/fingrid/pkg/grid"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// model is the part of grid.RenderModel the tests look at.
type model struct {
	Loading       bool   `json:"loading"`
	TotalRows     int    `json:"totalRows"`
	FilteredRows  int    `json:"filteredRows"`
	SelectedCount int    `json:"selectedCount"`
	SelectAll     string `json:"selectAll"`
	Search        string `json:"search"`
	Page          int    `json:"page"`
	PageCount     int    `json:"pageCount"`
	Window        struct {
		Start int `json:"start"`
		End   int `json:"end"`
	} `json:"window"`
	Sort struct {
		Column    string `json:"column"`
		Direction string `json:"direction"`
	} `json:"sort"`
	Columns []struct {
		ColumnID string `json:"columnId"`
	} `json:"columns"`
	Rows []struct {
		Position int  `json:"position"`
		Selected bool `json:"selected"`
		Row      struct {
			ID string `json:"id"`
		} `json:"row"`
	} `json:"rows"`
}

func newTestGrid(t *testing.T, opts grid.Options) *grid.Grid {
	t.Helper()
	opts.Columns = dataset.FinancialColumns()
	g, err := grid.New(opts)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	g.SetData(dataset.Generate(200, 1))
	return g
}

func virtualOptions() grid.Options {
	return grid.Options{
		Selectable:       true,
		VirtualScrolling: true,
		Threshold:        100,
		RowHeight:        10,
		Overscan:         0,
	}
}

func do(t *testing.T, g *grid.Grid, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	NewServer(g, nil).ServeHTTP(rec, req)
	return rec
}

func decodeModel(t *testing.T, rec *httptest.ResponseRecorder) model {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var m model
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode model: %v\n%s", err, rec.Body.String())
	}
	return m
}

func rowIDs(m model) []string {
	ids := make([]string, len(m.Rows))
	for i, r := range m.Rows {
		ids[i] = r.Row.ID
	}
	return ids
}

// ---------------------------------------------------------------------------
// routes
// ---------------------------------------------------------------------------

func TestGetModel(t *testing.T) {
	g := newTestGrid(t, virtualOptions())
	m := decodeModel(t, do(t, g, http.MethodGet, "/api/grid", ""))
	if m.TotalRows != 200 || m.FilteredRows != 200 {
		t.Errorf("rows = %d/%d, want 200/200", m.FilteredRows, m.TotalRows)
	}
	if len(m.Columns) != 11 || m.Columns[0].ColumnID != grid.SelectionColumnID {
		t.Errorf("columns = %+v, want checkbox + 10", m.Columns)
	}
	if m.SelectAll != "none" {
		t.Errorf("selectAll = %q, want none", m.SelectAll)
	}
}

func TestLoadingAnswers503(t *testing.T) {
	g := newTestGrid(t, virtualOptions())
	g.SetLoading(true)

	if rec := do(t, g, http.MethodGet, "/api/grid", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /api/grid while loading = %d, want 503", rec.Code)
	}
	if rec := do(t, g, http.MethodPost, "/api/grid/search", `{"search":"x"}`); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("POST search while loading = %d, want 503", rec.Code)
	}

	rec := do(t, g, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"loading"`) {
		t.Errorf("healthz = %d %s", rec.Code, rec.Body.String())
	}

	g.SetLoading(false)
	if m := decodeModel(t, do(t, g, http.MethodGet, "/api/grid", "")); m.Loading || m.TotalRows != 200 {
		t.Errorf("after load: loading=%v total=%d", m.Loading, m.TotalRows)
	}
}

func TestSearch(t *testing.T) {
	g := newTestGrid(t, virtualOptions())
	m := decodeModel(t, do(t, g, http.MethodPost, "/api/grid/search", `{"search":"account 1000"}`))
	if m.FilteredRows != 1 || m.Search != "account 1000" {
		t.Errorf("filtered = %d, search = %q", m.FilteredRows, m.Search)
	}
	if diff := cmp.Diff([]string{"GL-1000"}, rowIDs(m)); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}
}

func TestFilters(t *testing.T) {
	g := newTestGrid(t, virtualOptions())
	body := `{"filters":[{"column":"account","operator":"startsWith","value":"Account 10"}]}`
	m := decodeModel(t, do(t, g, http.MethodPost, "/api/grid/filters", body))
	if m.FilteredRows != 100 {
		t.Errorf("startsWith filter kept %d rows, want 100", m.FilteredRows)
	}

	body = `{"filters":[{"column":"budget","operator":"between","value":0,"value2":1e12}]}`
	if m := decodeModel(t, do(t, g, http.MethodPost, "/api/grid/filters", body)); m.FilteredRows != 200 {
		t.Errorf("numeric between kept %d rows, want 200", m.FilteredRows)
	}

	if m := decodeModel(t, do(t, g, http.MethodDelete, "/api/grid/filters", "")); m.FilteredRows != 200 {
		t.Errorf("after clear kept %d rows", m.FilteredRows)
	}
}

func TestFiltersRejected(t *testing.T) {
	g := newTestGrid(t, virtualOptions())
	tests := []struct {
		name string
		body string
	}{
		{"unknown column", `{"filters":[{"column":"nope","operator":"equals","value":1}]}`},
		{"unknown operator", `{"filters":[{"column":"budget","operator":"near","value":1}]}`},
		{"malformed body", `{"filters":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, g, http.MethodPost, "/api/grid/filters", tt.body); rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
			}
		})
	}
	if got := g.State().Filters; len(got) != 0 {
		t.Errorf("rejected filters applied: %+v", got)
	}
}

func TestSort(t *testing.T) {
	g := newTestGrid(t, virtualOptions())
	do(t, g, http.MethodPost, "/api/grid/scroll", `{"scrollTop":0,"viewportHeight":30}`)

	m := decodeModel(t, do(t, g, http.MethodPost, "/api/grid/sort", `{"column":"account"}`))
	if m.Sort.Column != "account" || m.Sort.Direction != "asc" {
		t.Errorf("first click sort = %+v, want account asc", m.Sort)
	}
	m = decodeModel(t, do(t, g, http.MethodPost, "/api/grid/sort", `{"column":"account"}`))
	if m.Sort.Direction != "desc" || len(m.Rows) == 0 || m.Rows[0].Row.ID != "GL-1199" {
		t.Errorf("second click: sort %+v, first row %v", m.Sort, rowIDs(m))
	}

	m = decodeModel(t, do(t, g, http.MethodPost, "/api/grid/sort", `{"column":"account","direction":"asc"}`))
	if m.Rows[0].Row.ID != "GL-1000" {
		t.Errorf("explicit asc first row = %s", m.Rows[0].Row.ID)
	}
	if m := decodeModel(t, do(t, g, http.MethodPost, "/api/grid/sort", `{}`)); m.Sort.Column != "" {
		t.Errorf("empty column should clear sort, got %+v", m.Sort)
	}

	if rec := do(t, g, http.MethodPost, "/api/grid/sort", `{"column":"nope"}`); rec.Code != http.StatusNotFound {
		t.Errorf("unknown column = %d, want 404", rec.Code)
	}
	if rec := do(t, g, http.MethodPost, "/api/grid/sort", `{"column":"budget","direction":"up"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad direction = %d, want 400", rec.Code)
	}
}

func TestScroll(t *testing.T) {
	g := newTestGrid(t, virtualOptions())
	m := decodeModel(t, do(t, g, http.MethodPost, "/api/grid/scroll", `{"scrollTop":500,"viewportHeight":100}`))
	if m.Window.Start != 50 || m.Window.End != 59 {
		t.Errorf("window = [%d, %d], want [50, 59]", m.Window.Start, m.Window.End)
	}
	if len(m.Rows) != 10 || m.Rows[0].Position != 50 || m.Rows[0].Row.ID != "GL-1050" {
		t.Errorf("rows = %v", rowIDs(m))
	}

	// A second scroll inside the same frame interval is still applied.
	m = decodeModel(t, do(t, g, http.MethodPost, "/api/grid/scroll", `{"scrollTop":1000}`))
	if m.Window.Start != 100 {
		t.Errorf("second scroll window start = %d, want 100", m.Window.Start)
	}

	if rec := do(t, g, http.MethodPost, "/api/grid/scroll", `{"scrollTop":-1}`); rec.Code != http.StatusBadRequest {
		t.Errorf("negative scroll = %d, want 400", rec.Code)
	}
}

func TestPage(t *testing.T) {
	g := newTestGrid(t, grid.Options{PageSize: 25})
	m := decodeModel(t, do(t, g, http.MethodPost, "/api/grid/page", `{"page":2}`))
	if m.Page != 2 || m.PageCount != 8 {
		t.Errorf("page %d of %d, want 2 of 8", m.Page, m.PageCount)
	}
	if len(m.Rows) != 25 || m.Rows[0].Position != 50 {
		t.Errorf("page rows start at %d (%d rows)", m.Rows[0].Position, len(m.Rows))
	}
	if rec := do(t, g, http.MethodPost, "/api/grid/page", `{"page":-1}`); rec.Code != http.StatusBadRequest {
		t.Errorf("negative page = %d, want 400", rec.Code)
	}
}

func TestToggleColumn(t *testing.T) {
	g := newTestGrid(t, virtualOptions())
	m := decodeModel(t, do(t, g, http.MethodPost, "/api/grid/columns/owner/toggle", ""))
	for _, c := range m.Columns {
		if c.ColumnID == dataset.ColOwner {
			t.Fatal("owner still laid out after toggle")
		}
	}
	m = decodeModel(t, do(t, g, http.MethodPost, "/api/grid/columns/owner/toggle", ""))
	if len(m.Columns) != 11 {
		t.Errorf("toggled back: %d columns, want 11", len(m.Columns))
	}
	if rec := do(t, g, http.MethodPost, "/api/grid/columns/nope/toggle", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown column = %d, want 404", rec.Code)
	}
}

func TestSelection(t *testing.T) {
	g := newTestGrid(t, virtualOptions())

	m := decodeModel(t, do(t, g, http.MethodPost, "/api/grid/rows/GL-1005/toggle", ""))
	if m.SelectedCount != 1 || m.SelectAll != "partial" {
		t.Errorf("after toggle: count %d, state %s", m.SelectedCount, m.SelectAll)
	}

	rec := do(t, g, http.MethodGet, "/api/grid/selection", "")
	var sel struct {
		Count int    `json:"count"`
		State string `json:"state"`
		Rows  []struct {
			ID string `json:"id"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &sel); err != nil {
		t.Fatal(err)
	}
	if sel.Count != 1 || sel.State != "partial" || len(sel.Rows) != 1 || sel.Rows[0].ID != "GL-1005" {
		t.Errorf("selection = %+v", sel)
	}

	// Rows outside the filtered set cannot be toggled.
	do(t, g, http.MethodPost, "/api/grid/search", `{"search":"account 1001"}`)
	if rec := do(t, g, http.MethodPost, "/api/grid/rows/GL-1150/toggle", ""); rec.Code != http.StatusNotFound {
		t.Errorf("toggle filtered-out row = %d, want 404", rec.Code)
	}

	m = decodeModel(t, do(t, g, http.MethodPost, "/api/grid/selection/all", ""))
	if m.SelectedCount != 1 || m.SelectAll != "all" {
		t.Errorf("select all over 1 filtered row: count %d, state %s", m.SelectedCount, m.SelectAll)
	}
	if !g.IsSelected("GL-1001") || g.IsSelected("GL-1005") {
		t.Error("select all should select exactly the filtered set")
	}

	if m := decodeModel(t, do(t, g, http.MethodDelete, "/api/grid/selection", "")); m.SelectedCount != 0 {
		t.Errorf("after clear: %d selected", m.SelectedCount)
	}
}

func TestSelectionDisabled(t *testing.T) {
	g := newTestGrid(t, grid.Options{})
	if rec := do(t, g, http.MethodPost, "/api/grid/rows/GL-1000/toggle", ""); rec.Code != http.StatusConflict {
		t.Errorf("toggle = %d, want 409", rec.Code)
	}
	if rec := do(t, g, http.MethodPost, "/api/grid/selection/all", ""); rec.Code != http.StatusConflict {
		t.Errorf("select all = %d, want 409", rec.Code)
	}
}

func TestClickRow(t *testing.T) {
	var clicked []string
	opts := virtualOptions()
	opts.OnRowClick = func(r grid.Row) { clicked = append(clicked, r.ID) }
	g := newTestGrid(t, opts)

	if rec := do(t, g, http.MethodPost, "/api/grid/rows/GL-1010/click", ""); rec.Code != http.StatusNoContent {
		t.Errorf("click = %d, want 204", rec.Code)
	}
	if rec := do(t, g, http.MethodPost, "/api/grid/rows/GL-9/click", ""); rec.Code != http.StatusNotFound {
		t.Errorf("click unknown = %d, want 404", rec.Code)
	}
	if diff := cmp.Diff([]string{"GL-1010"}, clicked); diff != "" {
		t.Errorf("OnRowClick (-want +got):\n%s", diff)
	}
}

func TestExport(t *testing.T) {
	var exported int
	opts := virtualOptions()
	opts.OnExport = func(rows []grid.Row) { exported = len(rows) }
	g := newTestGrid(t, opts)
	if _, err := g.ToggleColumn(dataset.ColOwner); err != nil {
		t.Fatal(err)
	}

	rec := do(t, g, http.MethodGet, "/api/grid/export?limit=5&offset=10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export = %d %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Total-Count"); got != "200" {
		t.Errorf("X-Total-Count = %q, want 200", got)
	}
	if exported != 200 {
		t.Errorf("OnExport got %d rows, want 200", exported)
	}

	rows, err := dataset.LoadJSON(rec.Body)
	if err != nil {
		t.Fatalf("export body: %v", err)
	}
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	if diff := cmp.Diff([]string{"GL-1010", "GL-1011", "GL-1012", "GL-1013", "GL-1014"}, ids); diff != "" {
		t.Errorf("exported ids (-want +got):\n%s", diff)
	}
	if _, ok := rows[0].Values[dataset.ColOwner]; ok {
		t.Error("hidden owner column exported")
	}
	if _, ok := rows[0].Values[dataset.ColBudget]; !ok {
		t.Error("visible budget column missing from export")
	}
}

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		query         string
		limit, offset int
	}{
		{"", 50, 0},
		{"?limit=10", 10, 0},
		{"?limit=0&offset=-3", 50, 0},
		{"?limit=x&offset=7", 50, 7},
	}
	e := NewServer(newTestGrid(t, grid.Options{}), nil)
	for _, tt := range tests {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/grid/export"+tt.query, nil), httptest.NewRecorder())
		limit, offset := getPaginationParams(c, 50)
		if limit != tt.limit || offset != tt.offset {
			t.Errorf("%q: got (%d, %d), want (%d, %d)", tt.query, limit, offset, tt.limit, tt.offset)
		}
	}
	if got := paginate([]int{1, 2, 3}, 5, 3); len(got) != 0 {
		t.Errorf("offset past end = %v", got)
	}
}
