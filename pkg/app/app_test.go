package app

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/fingrid/pkg/dataset"
	"gitlab.com/tinyland/lab/fingrid/pkg/grid"
)

func TestFrameCmd(t *testing.T) {
	cmd := FrameCmd(time.Millisecond)
	if cmd == nil {
		t.Fatal("FrameCmd returned nil")
	}
	if _, ok := cmd().(FrameEvent); !ok {
		t.Error("FrameCmd should deliver a FrameEvent")
	}
}

func TestLoadCmd(t *testing.T) {
	cmd := LoadCmd("generated", func() ([]grid.Row, error) {
		return dataset.Generate(3, 1), nil
	})
	if cmd == nil {
		t.Fatal("LoadCmd returned nil")
	}

	ev, ok := cmd().(DatasetLoadedEvent)
	if !ok {
		t.Fatal("expected DatasetLoadedEvent")
	}
	if ev.Source != "generated" {
		t.Errorf("expected source='generated', got %q", ev.Source)
	}
	if len(ev.Rows) != 3 {
		t.Errorf("expected 3 rows, got %d", len(ev.Rows))
	}
	if ev.Err != nil {
		t.Errorf("expected no error, got %v", ev.Err)
	}
	if ev.Timestamp.IsZero() {
		t.Error("expected a timestamp")
	}
}

func TestLoadCmdWithError(t *testing.T) {
	boom := errors.New("boom")
	cmd := LoadCmd("broken.json", func() ([]grid.Row, error) {
		return []grid.Row{{ID: "partial"}}, boom
	})

	ev := cmd().(DatasetLoadedEvent)
	if !errors.Is(ev.Err, boom) {
		t.Errorf("expected boom, got %v", ev.Err)
	}
	if ev.Rows != nil {
		t.Error("expected nil rows when the load fails")
	}
}

func TestExportCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	rows := dataset.Generate(4, 2)
	cols := []grid.ColumnConfig{{ID: dataset.ColAccount}}

	ev, ok := ExportCmd(path, rows, cols)().(ExportedEvent)
	if !ok {
		t.Fatal("expected ExportedEvent")
	}
	if ev.Err != nil || ev.Rows != 4 {
		t.Fatalf("export = %+v", ev)
	}
	back, err := dataset.LoadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if len(back) != 4 || back[0].ID != rows[0].ID {
		t.Errorf("exported rows = %+v", back)
	}
}

func TestExportCmdBadPath(t *testing.T) {
	ev := ExportCmd(filepath.Join(t.TempDir(), "missing", "out.json"), nil, nil)().(ExportedEvent)
	if ev.Err == nil {
		t.Error("expected an error for an unwritable path")
	}
}
