// Package autosave persists the persona document after a quiet period of
// edits: every change schedules a save, a superseding change cancels and
// reschedules it, and only the final state of a burst is written.
package autosave

import (
	"log/slog"
	"sync"
	"time"

	"github.com/sunlit/persona/internal/archive"
	"github.com/sunlit/persona/internal/persona"
	"github.com/sunlit/persona/internal/storage"
)

// DefaultDelay is the quiescence delay before a pending save fires.
const DefaultDelay = time.Second

// SlotWriter is the storage surface the saver needs. Implemented by
// storage.Store.
type SlotWriter interface {
	SaveDocument(slot string, payload []byte) error
}

// Saver debounces document writes to the autosave slot. Safe for use from the
// manager's change callback.
type Saver struct {
	slot   SlotWriter
	delay  time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending *persona.Document
}

// New creates a Saver writing to slot after delay of quiet. If delay <= 0,
// DefaultDelay is used.
func New(slot SlotWriter, delay time.Duration) *Saver {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Saver{
		slot:   slot,
		delay:  delay,
		logger: slog.Default(),
	}
}

// Notify records doc as the latest state and (re)arms the save timer. A call
// before the previous timer fires cancels it, so a burst of edits produces a
// single write containing the last state.
func (s *Saver) Notify(doc persona.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = &doc
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.fire)
}

func (s *Saver) fire() {
	if err := s.Flush(); err != nil {
		s.logger.Warn("autosave failed", "error", err)
	}
}

// Flush writes any pending state immediately and clears it. It is a no-op
// when nothing is pending.
func (s *Saver) Flush() error {
	s.mu.Lock()
	doc := s.pending
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	if doc == nil {
		return nil
	}

	payload, err := archive.Export(*doc)
	if err != nil {
		return err
	}
	return s.slot.SaveDocument(storage.AutosaveSlot, payload)
}

// Close stops the timer and flushes pending state. Call on shutdown so the
// final burst of edits is not lost to the debounce window.
func (s *Saver) Close() error {
	return s.Flush()
}
