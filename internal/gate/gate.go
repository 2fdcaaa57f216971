// Package gate implements the activation check that unlocks prompt
// generation. It is a cosmetic access gate for controlling early access, not
// a security boundary: the code is a shared static string and the activated
// flag is plain local state. Do not mistake it for authentication.
package gate

import (
	"errors"
	"strings"
)

// DefaultCode is the built-in activation code; overridable via config.
const DefaultCode = "EARLY-USER-01"

// FlagName is the persisted flag set once activation succeeds. Once true it
// is never re-checked against the code.
const FlagName = "activated"

// ErrInvalidCode is returned when the supplied code does not match.
var ErrInvalidCode = errors.New("activation code is invalid or expired")

// ErrNotActivated is returned by gated operations before activation.
var ErrNotActivated = errors.New("not activated")

// FlagStore is the persistence surface the gate needs. Implemented by
// storage.Store.
type FlagStore interface {
	SetFlag(name, value string) error
	GetFlag(name string) (string, error)
}

// Gate checks and records activation against a configured code.
type Gate struct {
	store FlagStore
	code  string
}

// New creates a Gate. If code is empty, DefaultCode is used.
func New(store FlagStore, code string) *Gate {
	if code == "" {
		code = DefaultCode
	}
	return &Gate{store: store, code: code}
}

// Activate compares input against the configured code and persists the
// activated flag on match. Surrounding whitespace in input is ignored.
func (g *Gate) Activate(input string) error {
	if strings.TrimSpace(input) != g.code {
		return ErrInvalidCode
	}
	return g.store.SetFlag(FlagName, "true")
}

// Activated reports whether the persisted flag is set. Storage errors read as
// "not activated".
func (g *Gate) Activated() bool {
	v, err := g.store.GetFlag(FlagName)
	return err == nil && v == "true"
}

// Require returns ErrNotActivated unless the gate has been opened.
func (g *Gate) Require() error {
	if !g.Activated() {
		return ErrNotActivated
	}
	return nil
}
