package formstate

import (
	"reflect"
	"sync"

	"github.com/goliatone/go-formval/pkg/schema"
)

// Store is the live form-state container the validation engine reads from.
// It holds current field values keyed by field name plus the touched and
// dirty flag sets. There is one logical writer (the host input layer); the
// engine only takes snapshots.
type Store struct {
	mu       sync.RWMutex
	values   map[string]any
	defaults map[string]any
	touched  map[string]bool
	onChange []func(name string, value any)
}

// New seeds a Store with every field's declared default.
func New(form schema.FormSchema) *Store {
	s := &Store{
		values:   make(map[string]any),
		defaults: make(map[string]any),
		touched:  make(map[string]bool),
	}
	for _, field := range form.Fields() {
		if field.Default != nil {
			s.values[field.Name] = field.Default
			s.defaults[field.Name] = field.Default
		}
	}
	return s
}

// Set records a new value for a field and notifies subscribers.
func (s *Store) Set(name string, value any) {
	s.mu.Lock()
	s.values[name] = value
	subscribers := s.onChange
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(name, value)
	}
}

// Get returns the current value for a field.
func (s *Store) Get(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	return v, ok
}

// Values returns a snapshot of the current value map. The engine evaluates
// rules against snapshots so a concurrent keystroke cannot tear a read.
func (s *Store) Values() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Touch marks a field as blurred at least once.
func (s *Store) Touch(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched[name] = true
}

// Touched reports whether a field has been blurred at least once.
func (s *Store) Touched(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.touched[name]
}

// Dirty reports whether a field's value differs from its declared default.
func (s *Store) Dirty(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	current, ok := s.values[name]
	if !ok {
		return false
	}
	return !reflect.DeepEqual(current, s.defaults[name])
}

// Reset restores defaults and clears the touched set.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]any, len(s.defaults))
	for k, v := range s.defaults {
		s.values[k] = v
	}
	s.touched = make(map[string]bool)
}

// Subscribe registers a change callback invoked after every Set. Intended
// for wiring real-time validation controllers; callbacks run on the
// writer's goroutine.
func (s *Store) Subscribe(fn func(name string, value any)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}
