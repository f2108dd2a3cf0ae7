// Package kb tracks the visualizations currently mounted in a host and
// notifies subscribers when one is mounted or unmounted.
package kb

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// EventType indicates what kind of change happened in the registry.
type EventType int

const (
	EventMounted EventType = iota
	EventUnmounted
)

func (t EventType) String() string {
	switch t {
	case EventMounted:
		return "mounted"
	case EventUnmounted:
		return "unmounted"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Mountable is anything with animation state that must start from zero
// each time it is mounted.
type Mountable interface {
	Reset()
}

// Entry is one mounted visualization.
type Entry struct {
	ID    string
	Name  string
	Value Mountable
}

// Event is emitted to subscribers on mount and unmount.
type Event struct {
	Type  EventType
	Entry Entry
}

// Registry is an in-memory, thread-safe set of mounted visualizations.
type Registry struct {
	mu sync.RWMutex

	entries map[string]Entry

	subs   map[int]func(Event)
	nextID int
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
		subs:    make(map[int]func(Event)),
	}
}

// Mount resets v, stores it under a fresh id and notifies subscribers.
func (r *Registry) Mount(name string, v Mountable) (string, error) {
	if v == nil {
		return "", fmt.Errorf("mount %q: nil value", name)
	}
	v.Reset()

	e := Entry{ID: uuid.NewString(), Name: name, Value: v}

	r.mu.Lock()
	r.entries[e.ID] = e
	subs := r.snapshotSubs()
	r.mu.Unlock()

	// Notify outside the lock so subscribers may call back into the registry.
	for _, sub := range subs {
		sub(Event{Type: EventMounted, Entry: e})
	}
	return e.ID, nil
}

// Unmount removes the entry with the given id and notifies subscribers.
// The value is reset so a later remount starts clean.
func (r *Registry) Unmount(id string) error {
	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("mount %q not found", id)
	}
	delete(r.entries, id)
	subs := r.snapshotSubs()
	r.mu.Unlock()

	e.Value.Reset()
	for _, sub := range subs {
		sub(Event{Type: EventUnmounted, Entry: e})
	}
	return nil
}

// Get returns the entry with the given id.
func (r *Registry) Get(id string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

// List returns a snapshot of all entries sorted by name, then id.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	res := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		res = append(res, e)
	}
	r.mu.RUnlock()

	sort.Slice(res, func(i, j int) bool {
		if res[i].Name != res[j].Name {
			return res[i].Name < res[j].Name
		}
		return res[i].ID < res[j].ID
	})
	return res
}

// Len returns the number of mounted entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Subscribe registers a callback for registry events. It returns an
// unsubscribe function that is safe to call more than once.
func (r *Registry) Subscribe(fn func(Event)) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}

// snapshotSubs must be called with mu held.
func (r *Registry) snapshotSubs() []func(Event) {
	ids := make([]int, 0, len(r.subs))
	for id := range r.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(Event), len(ids))
	for i, id := range ids {
		out[i] = r.subs[id]
	}
	return out
}
