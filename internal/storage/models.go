package storage

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// AutosaveSlot is the fixed slot name holding the debounced autosave copy of
// the persona document. There is exactly one; every save overwrites it.
const AutosaveSlot = "autosave"
