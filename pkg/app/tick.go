package app

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/fingrid/pkg/dataset"
	"gitlab.com/tinyland/lab/fingrid/pkg/grid"
)

// FrameCmd returns a bubbletea Cmd that sends a FrameEvent after the given
// duration. Re-issue it from the FrameEvent handler to keep frames coming.
func FrameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return FrameEvent{Time: t}
	})
}

// LoadCmd returns a Cmd that runs load in a goroutine and delivers the
// result as a DatasetLoadedEvent. If load returns an error, the event's
// Err field is set and Rows is nil.
//
// Usage:
//
//	cmd := LoadCmd(path, func() ([]grid.Row, error) {
//	    return dataset.LoadFile(path)
//	})
func LoadCmd(source string, load func() ([]grid.Row, error)) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		rows, err := load()
		if err != nil {
			rows = nil
		}
		return DatasetLoadedEvent{
			Source:    source,
			Rows:      rows,
			Err:       err,
			Elapsed:   time.Since(start),
			Timestamp: time.Now(),
		}
	}
}

// ExportCmd returns a Cmd that writes rows as JSON to path, keeping only
// the given columns.
func ExportCmd(path string, rows []grid.Row, columns []grid.ColumnConfig) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return ExportedEvent{Path: path, Err: fmt.Errorf("export: %w", err)}
		}
		if err := dataset.WriteJSON(f, rows, columns); err != nil {
			f.Close()
			return ExportedEvent{Path: path, Err: fmt.Errorf("export: %w", err)}
		}
		if err := f.Close(); err != nil {
			return ExportedEvent{Path: path, Err: fmt.Errorf("export: %w", err)}
		}
		return ExportedEvent{Path: path, Rows: len(rows)}
	}
}
