// fingrid is a data grid engine for large financial reports with an
// interactive terminal browser and an HTTP JSON surface.
//
// It loads report rows from a JSON file (or generates the dashboard's mock
// report), feeds them through the grid engine and either browses them
// interactively, serves them over HTTP, exports the filtered view, or
// prints it as a plain table.
//
// Usage:
//
//	fingrid [flags]
//
// Flags:
//
//	-config string  Path to configuration file (default: ~/.config/fingrid/config.toml)
//	-tui            Launch the interactive grid (default when stdout is a terminal)
//	-serve string   Serve the HTTP API on this address
//	-export string  Write the filtered, sorted rows as JSON to this path (- for stdout)
//	-data string    JSON dataset to load instead of generated rows
//	-rows int       Number of generated rows
//	-seed uint      Seed for generated rows
//	-search string  Initial search term
//	-sort string    Initial sort, column or column:desc
//	-theme string   Theme name
//	-limit int      Rows printed in plain mode (default: 50)
//	-verbose        Enable verbose logging
//	-version        Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-isatty"

	"gitlab.com/tinyland/lab/fingrid/pkg/api"
	"gitlab.com/tinyland/lab/fingrid/pkg/app"
	"gitlab.com/tinyland/lab/fingrid/pkg/components"
	"gitlab.com/tinyland/lab/fingrid/pkg/config"
	"gitlab.com/tinyland/lab/fingrid/pkg/dataset"
	"gitlab.com/tinyland/lab/fingrid/pkg/grid"
	"gitlab.com/tinyland/lab/fingrid/pkg/theme"
	"gitlab.com/tinyland/lab/fingrid/pkg/tui"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

const (
	defaultPlainWidth = 120
	shutdownTimeout   = 5 * time.Second
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		runTUI      = flag.Bool("tui", false, "Launch the interactive grid")
		serveAddr   = flag.String("serve", "", "Serve the HTTP API on this address")
		exportPath  = flag.String("export", "", "Write the filtered, sorted rows as JSON to this path (- for stdout)")
		dataPath    = flag.String("data", "", "JSON dataset to load instead of generated rows")
		rows        = flag.Int("rows", 0, "Number of generated rows (0 = config)")
		seed        = flag.Uint64("seed", 0, "Seed for generated rows (0 = config)")
		search      = flag.String("search", "", "Initial search term")
		sortFlag    = flag.String("sort", "", "Initial sort, column or column:desc")
		themeName   = flag.String("theme", "", "Theme name")
		limit       = flag.Int("limit", 50, "Rows printed in plain mode")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("fingrid %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dataPath != "" {
		cfg.Data.Source = *dataPath
	}
	if *rows > 0 {
		cfg.Data.Rows = *rows
	}
	if *seed != 0 {
		cfg.Data.Seed = *seed
	}
	if *themeName != "" {
		cfg.Theme.Name = *themeName
	}

	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	useTUI := *runTUI || (*serveAddr == "" && *exportPath == "" && interactive)

	logLevel := cfg.Level()
	if *verbose {
		logLevel = slog.LevelDebug
	}
	// The TUI owns the terminal, so it logs to a file instead.
	var logOut io.Writer = os.Stderr
	if useTUI {
		logFile, err := os.OpenFile(filepath.Join(os.TempDir(), "fingrid.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer logFile.Close()
		logOut = logFile
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	th, err := loadTheme(cfg.Theme)
	if err != nil {
		logger.Error("theme", "error", err)
		os.Exit(1)
	}

	opts := cfg.Options(dataset.FinancialColumns())
	opts.Logger = logger
	opts.OnExport = func(rows []grid.Row) {
		logger.Info("export requested", "rows", len(rows))
	}
	if useTUI {
		// One terminal line per row.
		opts.RowHeight = 1
		opts.Overscan = min(opts.Overscan, 2)
	}
	g, err := grid.New(opts)
	if err != nil {
		logger.Error("grid init failed", "error", err)
		os.Exit(1)
	}
	if !useTUI {
		g.SetViewport(cfg.Grid.ViewportHeight)
	}
	applyPreset(g, cfg.Grid.Preset)
	if *search != "" {
		g.SetSearch(*search)
	}
	if *sortFlag != "" {
		s, err := parseSort(*sortFlag, g)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(2)
		}
		g.SetSort(s)
	}

	load := func() ([]grid.Row, error) { return loadRows(cfg.Data) }

	switch {
	case useTUI:
		zones := zone.New()
		model := newTUI(g, th, cfg, zones, load, logger)
		p := tea.NewProgram(model,
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
			tea.WithContext(ctx),
		)
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			logger.Error("TUI error", "error", err)
			os.Exit(1)
		}

	case *serveAddr != "":
		if err := serve(ctx, g, *serveAddr, load, logger); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}

	default:
		data, err := load()
		if err != nil {
			logger.Error("load failed", "error", err)
			os.Exit(1)
		}
		g.SetData(data)

		if *exportPath != "" {
			if err := export(g, *exportPath); err != nil {
				logger.Error("export failed", "error", err)
				os.Exit(1)
			}
			return
		}
		printPlain(os.Stdout, g, th, *limit, interactive)
	}
}

func newTUI(g *grid.Grid, th theme.Theme, cfg *config.Config, zones *zone.Manager, load func() ([]grid.Row, error), logger *slog.Logger) tui.Model {
	source := cfg.Data.Source
	if source == "" {
		source = fmt.Sprintf("generated (%d rows, seed %d)", cfg.Data.Rows, cfg.Data.Seed)
	}
	return tui.New(g, tui.Options{
		Theme:         th,
		FrameInterval: cfg.Grid.FrameInterval.Duration,
		Load:          app.LoadCmd(source, load),
		Zones:         zones,
		Logger:        logger,
	})
}

// loadRows reads the configured dataset, or generates the mock report.
func loadRows(d config.DataConfig) ([]grid.Row, error) {
	if d.Source != "" {
		return dataset.LoadFile(d.Source)
	}
	return dataset.Generate(d.Rows, d.Seed), nil
}

// loadTheme resolves the configured theme. A theme file is registered
// under its own name and made current.
func loadTheme(tc config.ThemeConfig) (theme.Theme, error) {
	if tc.File != "" {
		t, err := theme.LoadFile(tc.File)
		if err != nil {
			return theme.Theme{}, err
		}
		theme.Register(t)
		theme.SetCurrent(t.Name)
		return t, nil
	}
	if tc.Name != "" && !theme.Known(tc.Name) {
		return theme.Theme{}, fmt.Errorf("theme: unknown theme %q (known: %s)", tc.Name, strings.Join(theme.Names(), ", "))
	}
	theme.SetCurrent(tc.Name)
	return theme.Current, nil
}

// applyPreset shows exactly the preset's columns.
func applyPreset(g *grid.Grid, name string) {
	want := config.PresetColumns(name)
	if want == nil {
		return
	}
	for _, c := range g.Columns() {
		_ = g.SetColumnVisible(c.ID, slices.Contains(want, c.ID))
	}
}

// parseSort reads "column" or "column:asc|desc".
func parseSort(arg string, g *grid.Grid) (grid.SortState, error) {
	col, dir, _ := strings.Cut(arg, ":")
	s := grid.SortState{Column: col, Direction: grid.Direction(strings.ToLower(dir))}
	if s.Direction == "" {
		s.Direction = grid.Asc
	}
	c, ok := g.Column(col)
	if !ok {
		return s, fmt.Errorf("-sort: %w: %q", grid.ErrUnknownColumn, col)
	}
	if !c.Sortable {
		return s, fmt.Errorf("-sort: column %q is not sortable", col)
	}
	if s.Direction != grid.Asc && s.Direction != grid.Desc {
		return s, fmt.Errorf("-sort: unknown direction %q", dir)
	}
	return s, nil
}

// serve starts the HTTP API immediately and loads the dataset in the
// background; the grid routes answer 503 until it arrives.
func serve(ctx context.Context, g *grid.Grid, addr string, load func() ([]grid.Row, error), logger *slog.Logger) error {
	e := api.NewServer(g, logger)
	g.SetLoading(true)

	go func() {
		logger.Info("loading dataset in background")
		t0 := time.Now()
		data, err := load()
		if err != nil {
			logger.Error("load failed", "error", err)
			return
		}
		g.SetData(data)
		g.SetLoading(false)
		logger.Info("dataset ready", "rows", len(data), "elapsed", time.Since(t0))
	}()

	errc := make(chan error, 1)
	go func() {
		logger.Info("server ready", "addr", addr)
		errc <- e.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("received shutdown signal")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(sctx)
	}
}

// export writes the filtered, sorted rows restricted to the visible
// columns.
func export(g *grid.Grid, path string) error {
	var columns []grid.ColumnConfig
	for _, id := range g.State().Visible {
		if c, ok := g.Column(id); ok {
			columns = append(columns, c)
		}
	}
	rows := g.RequestExport()
	if path == "-" {
		return dataset.WriteJSON(os.Stdout, rows, columns)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := dataset.WriteJSON(f, rows, columns); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// printPlain prints up to limit rows of the current view as a table. Colors
// are only used on a terminal.
func printPlain(w io.Writer, g *grid.Grid, th theme.Theme, limit int, color bool) {
	width := defaultPlainWidth
	if tw, _, err := term.GetSize(os.Stdout.Fd()); err == nil && tw > 0 {
		width = tw
	}

	m := g.Render()
	rows := g.Export()
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	m.Rows = make([]grid.RenderRow, len(rows))
	for i, r := range rows {
		m.Rows[i] = grid.RenderRow{Position: i, Row: r, Selected: g.IsSelected(r.ID)}
	}

	v := components.GridView{Columns: g.Columns(), Width: width, Cursor: -1}
	if color {
		v.Palette = th.Palette()
	}
	out := v.Render(m)
	if !color {
		out = components.Strip(out)
	}
	fmt.Fprintln(w, out)
	fmt.Fprintf(w, "%d of %d rows\n", m.FilteredRows, m.TotalRows)
}
