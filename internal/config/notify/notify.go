// Package notify delivers configuration changes to subscribers.
//
// Subscribers either receive every change or only those below a dotted
// path: a subscription to "snap" sees "snap.distance" and "snap.types".
// Delivery is synchronous, on the goroutine that reported the change.
package notify

import (
	"sort"
	"sync"
)

// ChangeType represents the type of configuration change.
type ChangeType int

const (
	// ChangeSet indicates a value was set or updated.
	ChangeSet ChangeType = iota

	// ChangeReload indicates the configuration was reloaded.
	ChangeReload

	// ChangeError indicates a reload failed; the previous values stay in effect.
	ChangeError
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeReload:
		return "reload"
	case ChangeError:
		return "error"
	default:
		return "unknown"
	}
}

// Change represents a configuration change event.
type Change struct {
	// Path is the dot-separated path to the changed setting.
	// Empty for reload and error events.
	Path string

	Type     ChangeType
	OldValue any
	NewValue any

	// Source identifies where the change came from, usually a file path.
	Source string

	// Err is set for ChangeError.
	Err error
}

// Observer is called when configuration changes occur.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type entry struct {
	path     string
	observer Observer
}

// Notifier manages configuration change subscriptions.
type Notifier struct {
	mu      sync.RWMutex
	entries map[uint64]entry
	nextID  uint64
	closed  bool
}

// New creates a new Notifier.
func New() *Notifier {
	return &Notifier{entries: make(map[uint64]entry)}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.SubscribePath("", observer)
}

// SubscribePath registers an observer for changes at or below path.
// Reload and error events reach every observer.
func (n *Notifier) SubscribePath(path string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.entries[id] = entry{path: path, observer: observer}
	return &Subscription{id: id, notifier: n}
}

// Len returns the number of subscriptions.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.entries)
}

// Notify sends a change to all matching observers, in subscription order.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	ids := make([]uint64, 0, len(n.entries))
	for id, e := range n.entries {
		if change.Path == "" || e.path == "" || e.path == change.Path || isParentPath(e.path, change.Path) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	observers := make([]Observer, len(ids))
	for i, id := range ids {
		observers[i] = n.entries[id].observer
	}
	n.mu.RUnlock()

	for _, obs := range observers {
		obs(change)
	}
}

// NotifyAll sends each change in order.
func (n *Notifier) NotifyAll(changes []Change) {
	for _, c := range changes {
		n.Notify(c)
	}
}

// NotifyReload is a convenience method for reload events.
func (n *Notifier) NotifyReload(source string) {
	n.Notify(Change{Type: ChangeReload, Source: source})
}

// NotifyError reports a failed reload.
func (n *Notifier) NotifyError(source string, err error) {
	n.Notify(Change{Type: ChangeError, Source: source, Err: err})
}

// Close drops every subscription. Later notifications are ignored.
// It is safe to call Close multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.entries = make(map[uint64]entry)
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.entries, id)
}

// isParentPath checks if parent is a parent path of child.
// e.g., "snap" is parent of "snap.distance".
func isParentPath(parent, child string) bool {
	return len(child) > len(parent) && child[:len(parent)] == parent && child[len(parent)] == '.'
}
