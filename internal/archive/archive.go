// Package archive serializes the persona document to and from its portable
// JSON form, used by the autosave slot, file export, and file import alike.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/sunlit/persona/internal/persona"
)

// ErrParse marks input that is not valid JSON at all.
var ErrParse = errors.New("document is not valid JSON")

// ErrShape marks input that parses but is not a persona document.
var ErrShape = errors.New("document is missing required fields")

var validate = validator.New()

// shape is the minimal outline an import must present: the version tag and
// the owner_basic section. Pointer fields distinguish "absent" from "empty".
type shape struct {
	Version    *string             `json:"version" validate:"required"`
	OwnerBasic *persona.OwnerBasic `json:"owner_basic" validate:"required"`
}

// Export renders doc as pretty-printed JSON, the shared on-disk shape for
// autosave and export files.
func Export(doc persona.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling document: %w", err)
	}
	return data, nil
}

// Filename derives the export filename from the owner's name, falling back
// to a fixed placeholder when the name is empty.
func Filename(doc persona.Document) string {
	name := doc.OwnerBasic.Name
	if name == "" {
		name = "user"
	}
	return fmt.Sprintf("ai_persona_%s.json", name)
}

// Import parses data into a full document. Failures are typed: ErrParse when
// the bytes are not JSON, ErrShape when the JSON lacks the version or
// owner_basic fields. Unknown extra fields are ignored. On any failure the
// caller's current document is expected to stay untouched.
func Import(data []byte) (persona.Document, error) {
	var outline shape
	if err := json.Unmarshal(data, &outline); err != nil {
		return persona.Document{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if err := validate.Struct(outline); err != nil {
		return persona.Document{}, fmt.Errorf("%w: need version and owner_basic", ErrShape)
	}

	var doc persona.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return persona.Document{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return doc, nil
}
