// Package api exposes the persona document over a local HTTP surface and an
// MCP stdio server. Every mutation flows through the document manager, so the
// autosaver observes each change.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sunlit/persona/internal/archive"
	"github.com/sunlit/persona/internal/compiler"
	"github.com/sunlit/persona/internal/gate"
	"github.com/sunlit/persona/internal/persona"
	"github.com/sunlit/persona/internal/share"
)

const maxImportBodySize = 4 << 20 // 4MB

// AppDeps holds dependencies for the HTTP handler.
type AppDeps struct {
	Manager     *persona.Manager
	Gate        *gate.Gate
	AuthorEmail string
}

// NewAppHandler builds the chi router for the document API.
func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/document", handleGetDocument(deps))
	r.Patch("/document/{section}", handlePatchSection(deps))
	r.Post("/document/traits/{trait}", handleToggleTrait(deps))

	r.Post("/document/relationships/{categoryID}/people", handleAddPerson(deps))
	r.Put("/document/relationships/{categoryID}/people/{personID}", handleUpdatePerson(deps))
	r.Delete("/document/relationships/{categoryID}/people/{personID}", handleRemovePerson(deps))

	r.Post("/document/use-cases", handleAddUseCase(deps))
	r.Put("/document/use-cases/{id}", handleUpdateUseCase(deps))
	r.Delete("/document/use-cases/{id}", handleRemoveUseCase(deps))

	r.Post("/document/examples", handleAddExample(deps))
	r.Put("/document/examples/{id}", handleUpdateExample(deps))
	r.Delete("/document/examples/{id}", handleRemoveExample(deps))

	r.Post("/generate", handleGenerate(deps))
	r.Get("/export", handleExport(deps))
	r.Post("/import", handleImport(deps))
	r.Post("/activate", handleActivate(deps))
	r.Get("/share", handleShare(deps))

	return r
}

func handleGetDocument(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, deps.Manager.Snapshot())
	}
}

// handlePatchSection replaces one settable top-level section. The body is the
// full section object; unknown section names are a 404. Relationships,
// version and the generated summary are not reachable here.
func handlePatchSection(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		section := chi.URLParam(r, "section")

		var next persona.Document
		switch section {
		case "owner_basic":
			var ob persona.OwnerBasic
			if !decodeBody(w, r, &ob) {
				return
			}
			next = deps.Manager.Apply(func(d persona.Document) persona.Document { return d.WithOwnerBasic(ob) })
		case "professional_profile":
			var pp persona.ProfessionalProfile
			if !decodeBody(w, r, &pp) {
				return
			}
			next = deps.Manager.Apply(func(d persona.Document) persona.Document { return d.WithProfessionalProfile(pp) })
		case "organization":
			var org persona.Organization
			if !decodeBody(w, r, &org) {
				return
			}
			next = deps.Manager.Apply(func(d persona.Document) persona.Document { return d.WithOrganization(org) })
		case "communication_preferences":
			var cp persona.CommunicationPreferences
			if !decodeBody(w, r, &cp) {
				return
			}
			next = deps.Manager.Apply(func(d persona.Document) persona.Document { return d.WithCommunicationPreferences(cp) })
		case "constraints":
			var c persona.Constraints
			if !decodeBody(w, r, &c) {
				return
			}
			next = deps.Manager.Apply(func(d persona.Document) persona.Document { return d.WithConstraints(c) })
		case "goals":
			var g struct {
				ShortTermGoals string `json:"short_term_goals"`
				LongTermGoals  string `json:"long_term_goals"`
			}
			if !decodeBody(w, r, &g) {
				return
			}
			next = deps.Manager.Apply(func(d persona.Document) persona.Document {
				return d.WithGoals(g.ShortTermGoals, g.LongTermGoals)
			})
		default:
			httpError(w, http.StatusNotFound, "invalid_request_error", "unknown section %q", section)
			return
		}

		writeJSON(w, http.StatusOK, next)
	}
}

func handleToggleTrait(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trait := chi.URLParam(r, "trait")
		next := deps.Manager.Apply(func(d persona.Document) persona.Document {
			return d.ToggleStyleTrait(trait)
		})
		writeJSON(w, http.StatusOK, next.CommunicationPreferences)
	}
}

// --- People ---

func handleAddPerson(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID := chi.URLParam(r, "categoryID")

		var newID string
		deps.Manager.Apply(func(d persona.Document) persona.Document {
			next, id := d.AddPerson(categoryID)
			newID = id
			return next
		})
		if newID == "" {
			httpError(w, http.StatusNotFound, "invalid_request_error", "unknown category %q", categoryID)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": newID})
	}
}

func handleUpdatePerson(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID := chi.URLParam(r, "categoryID")
		personID := chi.URLParam(r, "personID")

		var p persona.Person
		if !decodeBody(w, r, &p) {
			return
		}
		next := deps.Manager.Apply(func(d persona.Document) persona.Document {
			return d.UpdatePerson(categoryID, personID, func(persona.Person) persona.Person { return p })
		})
		writeJSON(w, http.StatusOK, next)
	}
}

func handleRemovePerson(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID := chi.URLParam(r, "categoryID")
		personID := chi.URLParam(r, "personID")

		next := deps.Manager.Apply(func(d persona.Document) persona.Document {
			return d.RemovePerson(categoryID, personID)
		})
		writeJSON(w, http.StatusOK, next)
	}
}

// --- Use cases ---

func handleAddUseCase(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var newID string
		deps.Manager.Apply(func(d persona.Document) persona.Document {
			next, id := d.AddUseCase()
			newID = id
			return next
		})
		writeJSON(w, http.StatusCreated, map[string]string{"id": newID})
	}
}

func handleUpdateUseCase(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var u persona.UseCase
		if !decodeBody(w, r, &u) {
			return
		}
		next := deps.Manager.Apply(func(d persona.Document) persona.Document {
			return d.UpdateUseCase(id, func(persona.UseCase) persona.UseCase { return u })
		})
		writeJSON(w, http.StatusOK, next)
	}
}

func handleRemoveUseCase(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		next := deps.Manager.Apply(func(d persona.Document) persona.Document {
			return d.RemoveUseCase(id)
		})
		writeJSON(w, http.StatusOK, next)
	}
}

// --- Examples ---

func handleAddExample(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var newID string
		deps.Manager.Apply(func(d persona.Document) persona.Document {
			next, id := d.AddExample()
			newID = id
			return next
		})
		writeJSON(w, http.StatusCreated, map[string]string{"id": newID})
	}
}

func handleUpdateExample(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var e persona.ExampleDialogue
		if !decodeBody(w, r, &e) {
			return
		}
		next := deps.Manager.Apply(func(d persona.Document) persona.Document {
			return d.UpdateExample(id, func(persona.ExampleDialogue) persona.ExampleDialogue { return e })
		})
		writeJSON(w, http.StatusOK, next)
	}
}

func handleRemoveExample(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		next := deps.Manager.Apply(func(d persona.Document) persona.Document {
			return d.RemoveExample(id)
		})
		writeJSON(w, http.StatusOK, next)
	}
}

// --- Generate / export / import / activate / share ---

func handleGenerate(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Gate.Require(); err != nil {
			httpError(w, http.StatusForbidden, "activation_error", "activation required before generating")
			return
		}

		next := deps.Manager.Apply(func(d persona.Document) persona.Document {
			return compiler.Generate(d, deps.Manager.Now())
		})
		writeJSON(w, http.StatusOK, map[string]any{
			"prompt":   next.SystemPromptSummaryZH,
			"document": next,
		})
	}
}

func handleExport(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := deps.Manager.Snapshot()
		data, err := archive.Export(doc)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "exporting document: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archive.Filename(doc)))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

func handleImport(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxImportBodySize)
		defer r.Body.Close()

		data, err := io.ReadAll(r.Body)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "reading body: %v", err)
			return
		}

		doc, err := archive.Import(data)
		switch {
		case errors.Is(err, archive.ErrShape):
			httpError(w, http.StatusBadRequest, "invalid_document_shape", "file is not a persona document: missing version or owner_basic")
			return
		case errors.Is(err, archive.ErrParse):
			httpError(w, http.StatusBadRequest, "invalid_document_json", "file could not be parsed as JSON")
			return
		case err != nil:
			httpError(w, http.StatusBadRequest, "invalid_request_error", "importing: %v", err)
			return
		}

		next := deps.Manager.Replace(doc)
		writeJSON(w, http.StatusOK, next)
	}
}

func handleActivate(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Code string `json:"code"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if err := deps.Gate.Activate(req.Code); err != nil {
			httpError(w, http.StatusForbidden, "activation_error", "%v", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"activated": true})
	}
}

func handleShare(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := deps.Manager.Snapshot()
		writeJSON(w, http.StatusOK, map[string]string{
			"mailto": share.Mailto(doc, deps.AuthorEmail),
		})
	}
}

// --- Helpers ---

func decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
