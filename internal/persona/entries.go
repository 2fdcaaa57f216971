package persona

import (
	"strings"

	"github.com/google/uuid"
)

// Entry is the common shape shared by Person, UseCase and ExampleDialogue:
// a list element addressable by a locally unique id.
type Entry interface {
	EntryID() string
}

// newEntryID returns a short random token. Collision within one document's
// lifetime is treated as practically impossible and is not defended against.
func newEntryID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

// appendEntry returns a new slice with e appended. The input is never mutated.
func appendEntry[E Entry](list []E, e E) []E {
	out := make([]E, len(list), len(list)+1)
	copy(out, list)
	return append(out, e)
}

// removeEntry returns a new slice without the entry matching id, preserving
// order. Unknown ids leave the result equal to the input.
func removeEntry[E Entry](list []E, id string) []E {
	out := make([]E, 0, len(list))
	for _, e := range list {
		if e.EntryID() == id {
			continue
		}
		out = append(out, e)
	}
	return out
}

// updateEntry returns a new slice where the entry matching id has been
// replaced by fn(entry); every other element is carried over unchanged.
// Unknown ids are a no-op.
func updateEntry[E Entry](list []E, id string, fn func(E) E) []E {
	out := make([]E, len(list))
	for i, e := range list {
		if e.EntryID() == id {
			out[i] = fn(e)
		} else {
			out[i] = e
		}
	}
	return out
}
