// Package api exposes a grid over HTTP. Every mutating route answers with
// the render model published after the change.
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"gitlab.com/tinyland/lab/fingrid/pkg/dataset"
	"gitlab.com/tinyland/lab/fingrid/pkg/grid"
)

// Handler serves one grid.
type Handler struct {
	grid *grid.Grid
	log  *slog.Logger
}

func NewHandler(g *grid.Grid, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{grid: g, log: logger.With("component", "api")}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	api := e.Group("/api/grid", h.requireData)
	api.GET("", h.GetModel)
	api.POST("/search", h.Search)
	api.POST("/filters", h.SetFilters)
	api.DELETE("/filters", h.ClearFilters)
	api.POST("/sort", h.Sort)
	api.POST("/scroll", h.Scroll)
	api.POST("/page", h.Page)
	api.POST("/columns/:id/toggle", h.ToggleColumn)
	api.POST("/rows/:id/toggle", h.ToggleRow)
	api.POST("/rows/:id/click", h.ClickRow)
	api.GET("/selection", h.GetSelection)
	api.POST("/selection/all", h.SelectAll)
	api.DELETE("/selection", h.ClearSelection)
	api.GET("/export", h.Export)
}

// requireData answers 503 until the dataset has loaded.
func (h *Handler) requireData(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.grid.State().Loading {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "dataset is loading")
		}
		return next(c)
	}
}

func (h *Handler) model(c echo.Context) error {
	return c.JSON(http.StatusOK, h.grid.Render())
}

// --- HANDLERS ---

func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	return items[offset:min(offset+limit, len(items))]
}

func (h *Handler) Health(c echo.Context) error {
	m := h.grid.Render()
	status := "ok"
	if m.Loading {
		status = "loading"
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":     status,
		"rows":       m.TotalRows,
		"generation": h.grid.Generation(),
		"phase":      h.grid.Phase().String(),
	})
}

func (h *Handler) GetModel(c echo.Context) error { return h.model(c) }

type searchRequest struct {
	Search string `json:"search"`
}

func (h *Handler) Search(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	h.grid.SetSearch(req.Search)
	return h.model(c)
}

type filtersRequest struct {
	Filters []grid.Filter `json:"filters"`
}

func (h *Handler) SetFilters(c echo.Context) error {
	var req filtersRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	for i, f := range req.Filters {
		col, ok := h.grid.Column(f.Column)
		switch {
		case !ok:
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("filters[%d]: unknown column %q", i, f.Column))
		case !col.Filterable:
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("filters[%d]: column %q is not filterable", i, f.Column))
		case !f.Operator.Valid():
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("filters[%d]: unknown operator %q", i, f.Operator))
		}
	}
	h.grid.SetFilters(req.Filters)
	return h.model(c)
}

func (h *Handler) ClearFilters(c echo.Context) error {
	h.grid.ClearFilters()
	return h.model(c)
}

type sortRequest struct {
	Column    string         `json:"column"`
	Direction grid.Direction `json:"direction"`
}

// Sort sets the sort column. Without a direction it behaves like a header
// click and advances the column's sort cycle. An empty column clears the
// sort.
func (h *Handler) Sort(c echo.Context) error {
	var req sortRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Column == "" {
		h.grid.SetSort(grid.SortState{})
		return h.model(c)
	}
	col, ok := h.grid.Column(req.Column)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown column %q", req.Column))
	}
	if !col.Sortable {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("column %q is not sortable", req.Column))
	}
	switch req.Direction {
	case "":
		h.grid.SortBy(req.Column)
	case grid.Asc, grid.Desc:
		h.grid.SetSort(grid.SortState{Column: req.Column, Direction: req.Direction})
	default:
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown direction %q", req.Direction))
	}
	return h.model(c)
}

type scrollRequest struct {
	ScrollTop      int `json:"scrollTop"`
	ViewportHeight int `json:"viewportHeight"`
}

// Scroll moves the viewport. Each request is a frame of its own, so a
// throttled offset is flushed before answering.
func (h *Handler) Scroll(c echo.Context) error {
	var req scrollRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.ScrollTop < 0 || req.ViewportHeight < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "scrollTop and viewportHeight must not be negative")
	}
	if req.ViewportHeight > 0 {
		h.grid.SetViewport(req.ViewportHeight)
	}
	h.grid.Scroll(req.ScrollTop)
	h.grid.Frame()
	return h.model(c)
}

type pageRequest struct {
	Page int `json:"page"`
}

func (h *Handler) Page(c echo.Context) error {
	var req pageRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Page < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "page must not be negative")
	}
	h.grid.SetPage(req.Page)
	return h.model(c)
}

func (h *Handler) ToggleColumn(c echo.Context) error {
	id := c.Param("id")
	visible, err := h.grid.ToggleColumn(id)
	if errors.Is(err, grid.ErrUnknownColumn) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return err
	}
	h.log.Debug("column toggled", "column", id, "visible", visible)
	return h.model(c)
}

func (h *Handler) ToggleRow(c echo.Context) error {
	if !h.grid.Selectable() {
		return echo.NewHTTPError(http.StatusConflict, "selection is disabled")
	}
	id := c.Param("id")
	if !h.grid.ToggleRow(id) {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("row %q is not in the current view", id))
	}
	return h.model(c)
}

func (h *Handler) ClickRow(c echo.Context) error {
	id := c.Param("id")
	if !h.grid.ClickRow(id) {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown row %q", id))
	}
	return c.NoContent(http.StatusNoContent)
}

type selectionResponse struct {
	Count int        `json:"count"`
	State string     `json:"state"`
	Rows  []grid.Row `json:"rows"`
}

func (h *Handler) GetSelection(c echo.Context) error {
	rows := h.grid.SelectedRows()
	if rows == nil {
		rows = []grid.Row{}
	}
	return c.JSON(http.StatusOK, selectionResponse{
		Count: len(rows),
		State: h.grid.Render().SelectAll.String(),
		Rows:  rows,
	})
}

func (h *Handler) SelectAll(c echo.Context) error {
	if !h.grid.Selectable() {
		return echo.NewHTTPError(http.StatusConflict, "selection is disabled")
	}
	h.grid.SelectAll()
	return h.model(c)
}

func (h *Handler) ClearSelection(c echo.Context) error {
	h.grid.ClearSelection()
	return h.model(c)
}

// Export writes the filtered and sorted rows, restricted to the visible
// columns, as a flat JSON array. limit and offset page through the result;
// X-Total-Count carries the unpaged length.
func (h *Handler) Export(c echo.Context) error {
	rows := h.grid.RequestExport()
	limit, offset := getPaginationParams(c, len(rows))
	page := paginate(rows, limit, offset)

	var columns []grid.ColumnConfig
	for _, id := range h.grid.State().Visible {
		if col, ok := h.grid.Column(id); ok {
			columns = append(columns, col)
		}
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	res.Header().Set("X-Total-Count", strconv.Itoa(len(rows)))
	res.WriteHeader(http.StatusOK)
	return dataset.WriteJSON(res, page, columns)
}
