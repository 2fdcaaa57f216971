package autosave

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sunlit/persona/internal/archive"
	"github.com/sunlit/persona/internal/persona"
	"github.com/sunlit/persona/internal/storage"
)

// SlotReader is the read side of the autosave slot. Implemented by
// storage.Store.
type SlotReader interface {
	LoadDocument(slot string) ([]byte, error)
}

// Restore seeds the session document from the autosave slot. A missing slot
// is the normal first-run case and yields the default document. An unreadable
// or malformed slot also falls back to the default with a logged warning
// only; startup never fails on a corrupt autosave.
func Restore(slot SlotReader, now time.Time) persona.Document {
	payload, err := slot.LoadDocument(storage.AutosaveSlot)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("reading autosave slot failed, starting fresh", "error", err)
		}
		return persona.NewDocument(now)
	}

	doc, err := archive.Import(payload)
	if err != nil {
		slog.Warn("autosave slot is corrupt, starting fresh", "error", err)
		return persona.NewDocument(now)
	}
	return doc
}
