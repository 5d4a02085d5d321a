package document

import "sync"

// SelectionCallback is called after the selection changes.
type SelectionCallback func(models []*Model)

// Selection is the ordered set of selected models.
type Selection struct {
	mu        sync.RWMutex
	models    []*Model
	callbacks []SelectionCallback
}

// Models returns the selected models in selection order.
func (s *Selection) Models() []*Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Model(nil), s.models...)
}

// Len returns the number of selected models.
func (s *Selection) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.models)
}

// Contains reports whether m is selected.
func (s *Selection) Contains(m *Model) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(m) >= 0
}

// Set replaces the selection.
func (s *Selection) Set(models ...*Model) {
	s.mu.Lock()
	s.models = s.models[:0]
	for _, m := range models {
		if m != nil && s.indexLocked(m) < 0 {
			s.models = append(s.models, m)
		}
	}
	s.notifyUnlock()
}

// Add appends m unless it is already selected.
func (s *Selection) Add(m *Model) {
	s.mu.Lock()
	if m == nil || s.indexLocked(m) >= 0 {
		s.mu.Unlock()
		return
	}
	s.models = append(s.models, m)
	s.notifyUnlock()
}

// Toggle selects m or removes it from the selection. It returns whether m
// is selected afterwards.
func (s *Selection) Toggle(m *Model) bool {
	if m == nil {
		return false
	}
	s.mu.Lock()
	if i := s.indexLocked(m); i >= 0 {
		s.models = append(s.models[:i], s.models[i+1:]...)
		s.notifyUnlock()
		return false
	}
	s.models = append(s.models, m)
	s.notifyUnlock()
	return true
}

// Remove drops m from the selection.
func (s *Selection) Remove(m *Model) {
	s.mu.Lock()
	i := s.indexLocked(m)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.models = append(s.models[:i], s.models[i+1:]...)
	s.notifyUnlock()
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	if len(s.models) == 0 {
		s.mu.Unlock()
		return
	}
	s.models = nil
	s.notifyUnlock()
}

// OnChange registers a callback for selection changes.
func (s *Selection) OnChange(cb SelectionCallback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = append(s.callbacks, cb)
}

func (s *Selection) indexLocked(m *Model) int {
	for i, sel := range s.models {
		if sel == m {
			return i
		}
	}
	return -1
}

// notifyUnlock releases the lock and runs the callbacks with a snapshot.
func (s *Selection) notifyUnlock() {
	models := append([]*Model(nil), s.models...)
	callbacks := append([]SelectionCallback(nil), s.callbacks...)
	s.mu.Unlock()
	for _, cb := range callbacks {
		cb(models)
	}
}
