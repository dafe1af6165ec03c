package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gitlab.com/tinyland/lab/fingrid/pkg/config"
	"gitlab.com/tinyland/lab/fingrid/pkg/dataset"
	"gitlab.com/tinyland/lab/fingrid/pkg/grid"
	"gitlab.com/tinyland/lab/fingrid/pkg/theme"
)

func newMainGrid(t *testing.T, n int) *grid.Grid {
	t.Helper()
	g, err := grid.New(grid.Options{Columns: dataset.FinancialColumns(), Selectable: true})
	if err != nil {
		t.Fatal(err)
	}
	g.SetData(dataset.Generate(n, 3))
	return g
}

func TestParseSort(t *testing.T) {
	g := newMainGrid(t, 0)
	tests := []struct {
		arg     string
		want    grid.SortState
		wantErr bool
	}{
		{"budget", grid.SortState{Column: "budget", Direction: grid.Asc}, false},
		{"budget:DESC", grid.SortState{Column: "budget", Direction: grid.Desc}, false},
		{"budget:sideways", grid.SortState{}, true},
		{"nope", grid.SortState{}, true},
	}
	for _, tt := range tests {
		got, err := parseSort(tt.arg, g)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseSort(%q) err = %v, wantErr %v", tt.arg, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseSort(%q) = %+v, want %+v", tt.arg, got, tt.want)
		}
	}
	if _, err := parseSort("nope", g); !errors.Is(err, grid.ErrUnknownColumn) {
		t.Errorf("unknown column error = %v", err)
	}
}

func TestApplyPreset(t *testing.T) {
	g := newMainGrid(t, 0)
	applyPreset(g, "ownership")
	if diff := cmp.Diff(config.PresetColumns("ownership"), g.State().Visible); diff != "" {
		t.Errorf("visible (-want +got):\n%s", diff)
	}
	applyPreset(g, "full")
	if len(g.State().Visible) != 4 {
		t.Error("full preset should leave visibility alone")
	}
}

func TestLoadRows(t *testing.T) {
	rows, err := loadRows(config.DataConfig{Rows: 12, Seed: 1})
	if err != nil || len(rows) != 12 {
		t.Fatalf("generated: %d rows, err %v", len(rows), err)
	}

	path := filepath.Join(t.TempDir(), "rows.json")
	if err := os.WriteFile(path, []byte(`[{"id":"x","account":"Cash"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	rows, err = loadRows(config.DataConfig{Source: path, Rows: 12})
	if err != nil || len(rows) != 1 || rows[0].ID != "x" {
		t.Errorf("file: %+v, err %v", rows, err)
	}

	if _, err := loadRows(config.DataConfig{Source: filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Error("missing file accepted")
	}
}

func TestLoadTheme(t *testing.T) {
	t.Cleanup(func() { theme.SetCurrent("default") })

	th, err := loadTheme(config.ThemeConfig{Name: "nord"})
	if err != nil || th.Name != "nord" || theme.Current.Name != "nord" {
		t.Errorf("named theme = %q, current %q, err %v", th.Name, theme.Current.Name, err)
	}
	if _, err := loadTheme(config.ThemeConfig{Name: "no-such-theme"}); err == nil {
		t.Error("unknown theme accepted")
	}

	custom := theme.Get("gruvbox")
	custom.Name = "house"
	data, err := theme.SaveToTOML(custom)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "house.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	th, err = loadTheme(config.ThemeConfig{Name: "nord", File: path})
	if err != nil || th.Name != "house" || !theme.Known("house") {
		t.Errorf("theme file = %q, err %v", th.Name, err)
	}
}

func TestExportFile(t *testing.T) {
	g := newMainGrid(t, 30)
	applyPreset(g, "summary")
	g.SetSearch("account 101")

	path := filepath.Join(t.TempDir(), "out.json")
	if err := export(g, path); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := dataset.LoadJSON(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 10 {
		t.Errorf("exported %d rows, want 10", len(rows))
	}
	if len(rows[0].Values) != 5 {
		t.Errorf("exported columns %v, want the summary preset", rows[0].Values)
	}

	if err := export(g, filepath.Join(t.TempDir(), "no", "such", "dir.json")); err == nil {
		t.Error("export into missing directory succeeded")
	}
}

func TestPrintPlain(t *testing.T) {
	g := newMainGrid(t, 30)
	var buf bytes.Buffer
	printPlain(&buf, g, theme.Get("default"), 5, false)
	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// header, 5 rows, summary line
	if len(lines) != 7 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "Account 1000") || !strings.Contains(lines[5], "Account 1004") {
		t.Errorf("unexpected rows:\n%s", out)
	}
	if lines[6] != "30 of 30 rows" {
		t.Errorf("summary = %q", lines[6])
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("plain output contains escape sequences")
	}
}
