// Package vars holds the interpreter's typed variables and the $NAME expander.
package vars

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Lookuper resolves variable names.
type Lookuper interface {
	// Lookup retrieves the value of the variable named by the key.
	Lookup(name string) (Value, bool)

	// Names returns the names of all variables in expansion order.
	Names() []string
}

// NewStore creates an empty variable store.
func NewStore() *Store {
	return &Store{}
}

// Store implements an in-memory Lookuper that can also be exported as a
// process environment.
type Store struct {
	rw   sync.RWMutex
	vars map[string]Value
}

var _ Lookuper = (*Store)(nil)

// Set binds name to value, replacing any prior binding.
func (s *Store) Set(name string, value Value) {
	s.rw.Lock()
	defer s.rw.Unlock()

	if s.vars == nil {
		s.vars = make(map[string]Value)
	}
	s.vars[name] = value
}

// Unset removes a single variable.
func (s *Store) Unset(name string) {
	s.rw.Lock()
	defer s.rw.Unlock()
	if s.vars != nil {
		delete(s.vars, name)
	}
}

// Lookup implements Lookuper.Lookup.
func (s *Store) Lookup(name string) (Value, bool) {
	s.rw.RLock()
	defer s.rw.RUnlock()

	val, ok := s.vars[name]
	return val, ok
}

// Get returns the string form of the variable, or "" if it isn't set.
func (s *Store) Get(name string) string {
	val, _ := s.Lookup(name)
	return val.String()
}

// Len returns the number of stored variables.
func (s *Store) Len() int {
	s.rw.RLock()
	defer s.rw.RUnlock()
	return len(s.vars)
}

// Names implements Lookuper.Names. Longer names come first so $PATHX is
// tried before $PATH, ties are alphabetical.
func (s *Store) Names() []string {
	s.rw.RLock()
	names := make([]string, 0, len(s.vars))
	for k := range s.vars {
		names = append(names, k)
	}
	s.rw.RUnlock()

	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

// Expand replaces ${NAME} and $NAME with the stored values.
func (s *Store) Expand(text string) string {
	return Expand(text, s)
}

// Environ returns the variables in the form "key=value", sorted by key.
func (s *Store) Environ() []string {
	s.rw.RLock()
	defer s.rw.RUnlock()

	env := make([]string, 0, len(s.vars))
	for k, v := range s.vars {
		env = append(env, fmt.Sprintf("%s=%s", k, v.String()))
	}
	sort.Strings(env)
	return env
}

// AppendSegment adds segment to a colon separated list variable. Appending a
// segment that's already present leaves the store unchanged. The resulting
// value is always TEXT.
func (s *Store) AppendSegment(name, segment string) (Value, error) {
	s.rw.Lock()
	defer s.rw.Unlock()

	if s.vars == nil {
		s.vars = make(map[string]Value)
	}

	current, ok := s.vars[name]
	if ok && current.Kind() == KindBool {
		return current, fmt.Errorf("cannot append to boolean variable: %s", name)
	}

	currentStr := current.String()
	if currentStr == "" {
		s.vars[name] = Text(segment)
		return s.vars[name], nil
	}

	for _, existing := range strings.Split(currentStr, ":") {
		if existing == segment {
			return current, nil
		}
	}

	s.vars[name] = Text(currentStr + ":" + segment)
	return s.vars[name], nil
}
