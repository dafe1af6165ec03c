// Package app defines the messages and commands that connect the grid
// engine to the bubbletea update loop: frame ticks that flush throttled
// scrolling, dataset loads that run off the UI goroutine, and exports.
//
// This package is designed against bubbletea v1.3.x but architected so that
// migrating to v2 requires only import-path changes and minor API adjustments.
package app

import (
	"time"

	"gitlab.com/tinyland/lab/fingrid/pkg/grid"
)

// FrameEvent is sent once per frame interval. Receivers call grid.Frame so
// that a throttled scroll offset is applied on the next frame.
type FrameEvent struct {
	Time time.Time
}

// DatasetLoadedEvent carries rows loaded by a background command back into
// the update loop.
type DatasetLoadedEvent struct {
	Source    string // file path, or "generated"
	Rows      []grid.Row
	Err       error // Non-nil if the load failed
	Elapsed   time.Duration
	Timestamp time.Time
}

// ExportedEvent reports the result of an export command.
type ExportedEvent struct {
	Path string
	Rows int
	Err  error
}

// ThemeChangeEvent switches the active color theme.
type ThemeChangeEvent struct {
	Theme string
}

// PresetEvent switches the visible columns to a named preset (e.g. "full",
// "summary", "variance").
type PresetEvent struct {
	Preset string
}
