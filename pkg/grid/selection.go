package grid

import (
	"slices"
	"sync"
)

// Selection is a set of row identities. Membership is independent of any
// filter or sort ordering; rows that are filtered out stay selected until
// cleared or until their identity leaves the source data.
//
// A Selection is safe for concurrent use.
type Selection struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Toggle flips membership of id and reports whether it is now selected.
func (s *Selection) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Set selects or deselects id.
func (s *Selection) Set(id string, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if selected {
		s.ids[id] = struct{}{}
	} else {
		delete(s.ids, id)
	}
}

// SelectAll replaces the selection with exactly the given visible IDs.
func (s *Selection) SelectAll(visible []string) {
	ids := make(map[string]struct{}, len(visible))
	for _, id := range visible {
		ids[id] = struct{}{}
	}
	s.mu.Lock()
	s.ids = ids
	s.mu.Unlock()
}

// Clear deselects everything.
func (s *Selection) Clear() {
	s.mu.Lock()
	s.ids = make(map[string]struct{})
	s.mu.Unlock()
}

func (s *Selection) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// IDs returns the selected identities sorted lexically.
func (s *Selection) IDs() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	s.mu.RUnlock()
	slices.Sort(out)
	return out
}

// SelectedRows returns the selected rows in source order. Identities with
// no backing row are never returned.
func (s *Selection) SelectedRows(source []Row) []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Row, 0, len(s.ids))
	for _, r := range source {
		if _, ok := s.ids[r.ID]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Prune drops identities for which has returns false and reports how many
// were removed.
func (s *Selection) Prune(has func(id string) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id := range s.ids {
		if !has(id) {
			delete(s.ids, id)
			n++
		}
	}
	return n
}

// Coverage reports how much of the visible set is selected, for the header
// checkbox. An empty visible set is CheckNone.
func (s *Selection) Coverage(visible []string) CheckState {
	if len(visible) == 0 {
		return CheckNone
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, id := range visible {
		if _, ok := s.ids[id]; ok {
			n++
		}
	}
	switch n {
	case 0:
		return CheckNone
	case len(visible):
		return CheckAll
	default:
		return CheckPartial
	}
}
