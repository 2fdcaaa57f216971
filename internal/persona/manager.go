package persona

import (
	"sync"
	"time"
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Manager owns the single live document for a session. All mutation flows
// through Apply or Replace, serialized by a mutex, so edits land in the order
// they were issued. Reads hand out deep copies; callers can never reach the
// live value.
type Manager struct {
	clock    Clock
	onChange func(Document)

	mu  sync.RWMutex
	doc Document
}

// NewManager creates a Manager seeded with doc. onChange, if non-nil, is
// called with a snapshot after every successful mutation (the autosaver hooks
// in here). Callbacks run under the manager's lock so they arrive in install
// order and the last one always carries the live state; onChange must not
// call back into the manager.
func NewManager(doc Document, onChange func(Document)) *Manager {
	return &Manager{
		clock:    realClock{},
		onChange: onChange,
		doc:      doc.Clone(),
	}
}

// NewManagerWithClock creates a Manager with a custom clock (for testing).
func NewManagerWithClock(doc Document, onChange func(Document), clock Clock) *Manager {
	m := NewManager(doc, onChange)
	m.clock = clock
	return m
}

// Snapshot returns a deep copy of the current document.
func (m *Manager) Snapshot() Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc.Clone()
}

// Apply runs op against the current document and installs the result. op must
// be a pure document operation; it receives a snapshot, so returning its
// input unchanged is a legitimate no-op.
func (m *Manager) Apply(op func(Document) Document) Document {
	m.mu.Lock()
	next := op(m.doc.Clone())
	m.doc = next
	m.notify(next)
	m.mu.Unlock()

	return next.Clone()
}

// Replace swaps in a wholesale replacement document. Import and reset are the
// only two callers.
func (m *Manager) Replace(doc Document) Document {
	m.mu.Lock()
	m.doc = doc.Clone()
	next := m.doc.Clone()
	m.notify(next)
	m.mu.Unlock()

	return next
}

// Reset replaces the current document with the canonical empty one.
func (m *Manager) Reset() Document {
	return m.Replace(NewDocument(m.clock.Now()))
}

// Now exposes the manager's clock, so compile operations stamp dates from the
// same source the factory uses.
func (m *Manager) Now() time.Time {
	return m.clock.Now()
}

func (m *Manager) notify(doc Document) {
	if m.onChange != nil {
		m.onChange(doc.Clone())
	}
}
