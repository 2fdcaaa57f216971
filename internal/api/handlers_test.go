package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/sunlit/persona/internal/gate"
	"github.com/sunlit/persona/internal/persona"
	"github.com/sunlit/persona/internal/storage"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// --- Mock flag store ---

type mockFlags struct {
	flags map[string]string
}

func newMockFlags() *mockFlags {
	return &mockFlags{flags: make(map[string]string)}
}

func (m *mockFlags) SetFlag(name, value string) error {
	m.flags[name] = value
	return nil
}

func (m *mockFlags) GetFlag(name string) (string, error) {
	v, ok := m.flags[name]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

// --- Mock clock ---

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// --- Harness ---

type testApp struct {
	handler http.Handler
	manager *persona.Manager
	flags   *mockFlags
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	flags := newMockFlags()
	manager := persona.NewManager(persona.NewDocument(testNow), nil)
	handler := NewAppHandler(AppDeps{
		Manager:     manager,
		Gate:        gate.New(flags, "TEST-CODE"),
		AuthorEmail: "author@example.com",
	})
	return &testApp{handler: handler, manager: manager, flags: flags}
}

func (a *testApp) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeDoc(t *testing.T, rec *httptest.ResponseRecorder) persona.Document {
	t.Helper()
	var doc persona.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("response is not a document: %v\nbody: %s", err, rec.Body.String())
	}
	return doc
}

func errorType(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var out struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not an error envelope: %v\nbody: %s", err, rec.Body.String())
	}
	return out.Error.Type
}

// --- Tests ---

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, "GET", "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestGetDocument(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, "GET", "/document", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	doc := decodeDoc(t, rec)
	if doc.Version != "1.0" || len(doc.Relationships) != 8 {
		t.Errorf("unexpected document: version=%q categories=%d", doc.Version, len(doc.Relationships))
	}
}

func TestPatchSection_OwnerBasic(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, "PATCH", "/document/owner_basic", `{"name": "张伟", "timezone": "GMT+8", "working_languages": ["中文"]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if got := app.manager.Snapshot().OwnerBasic.Name; got != "张伟" {
		t.Errorf("name = %q", got)
	}
}

func TestPatchSection_Unknown(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, "PATCH", "/document/relationships", `{}`)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestPatchSection_BadBody(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, "PATCH", "/document/owner_basic", `{{{`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if got := errorType(t, rec); got != "invalid_request_error" {
		t.Errorf("error type = %q", got)
	}
}

func TestToggleTrait(t *testing.T) {
	app := newTestApp(t)
	trait := persona.StyleTraitCatalog[0]

	rec := app.do(t, "POST", "/document/traits/"+url.PathEscape(trait), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	traits := app.manager.Snapshot().CommunicationPreferences.StyleTraits
	if len(traits) != 1 || traits[0] != trait {
		t.Errorf("traits = %v", traits)
	}
}

func TestPersonLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, "POST", "/document/relationships/rel-4/people", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil || created.ID == "" {
		t.Fatalf("no id in add response: %s", rec.Body.String())
	}

	rec = app.do(t, "PUT", "/document/relationships/rel-4/people/"+created.ID, `{"alias": "王总", "closeness": "非常熟"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d", rec.Code)
	}
	doc := decodeDoc(t, rec)
	p := doc.Relationships[3].People[0]
	if p.ID != created.ID {
		t.Errorf("update changed id: %q != %q", p.ID, created.ID)
	}
	if p.Alias != "王总" || p.Closeness != "非常熟" {
		t.Errorf("person = %+v", p)
	}

	rec = app.do(t, "DELETE", "/document/relationships/rel-4/people/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d", rec.Code)
	}
	if got := len(decodeDoc(t, rec).Relationships[3].People); got != 0 {
		t.Errorf("%d people left after delete", got)
	}
}

func TestAddPerson_UnknownCategory(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, "POST", "/document/relationships/rel-99/people", "")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestUseCasesOverHTTP(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, "POST", "/document/use-cases", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d", rec.Code)
	}
	var created struct {
		ID string `json:"id"`
	}
	json.Unmarshal(rec.Body.Bytes(), &created)

	rec = app.do(t, "PUT", "/document/use-cases/"+created.ID, `{"name": "写周报"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d", rec.Code)
	}
	doc := decodeDoc(t, rec)
	if doc.GoalsAndUseCases.TypicalAIUseCases[0].Name != "写周报" {
		t.Errorf("use case not updated: %+v", doc.GoalsAndUseCases.TypicalAIUseCases)
	}

	rec = app.do(t, "DELETE", "/document/use-cases/"+created.ID, "")
	if got := len(decodeDoc(t, rec).GoalsAndUseCases.TypicalAIUseCases); got != 0 {
		t.Errorf("%d use cases left after delete", got)
	}
}

func TestGenerate_RequiresActivation(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, "POST", "/generate", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("ungated generate status = %d, want 403", rec.Code)
	}
	if got := errorType(t, rec); got != "activation_error" {
		t.Errorf("error type = %q", got)
	}
}

func TestGenerate_AfterActivation(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, "POST", "/activate", `{"code": "TEST-CODE"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("activate status = %d, body: %s", rec.Code, rec.Body.String())
	}

	rec = app.do(t, "POST", "/generate", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("generate status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Prompt string `json:"prompt"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad generate response: %v", err)
	}
	if !strings.Contains(out.Prompt, "# Role Setting") {
		t.Errorf("prompt missing role heading: %q", out.Prompt)
	}
	if app.manager.Snapshot().SystemPromptSummaryZH == "" {
		t.Errorf("summary not persisted on the document")
	}
}

func TestGenerate_StampsFromManagerClock(t *testing.T) {
	flags := newMockFlags()
	g := gate.New(flags, "TEST-CODE")
	if err := g.Activate("TEST-CODE"); err != nil {
		t.Fatalf("activating: %v", err)
	}
	clock := fixedClock{now: time.Date(2030, 1, 2, 9, 0, 0, 0, time.UTC)}
	manager := persona.NewManagerWithClock(persona.NewDocument(testNow), nil, clock)
	handler := NewAppHandler(AppDeps{Manager: manager, Gate: g})

	req := httptest.NewRequest("POST", "/generate", strings.NewReader(""))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if got := manager.Snapshot().LastUpdated; got != "2030-01-02" {
		t.Errorf("last_updated = %q, want 2030-01-02 from the manager clock", got)
	}
}

func TestActivate_WrongCode(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, "POST", "/activate", `{"code": "WRONG"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestExport_Headers(t *testing.T) {
	app := newTestApp(t)
	app.do(t, "PATCH", "/document/owner_basic", `{"name": "张伟"}`)

	rec := app.do(t, "GET", "/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "ai_persona_张伟.json") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	doc := decodeDoc(t, rec)
	if doc.OwnerBasic.Name != "张伟" {
		t.Errorf("exported name = %q", doc.OwnerBasic.Name)
	}
}

func TestImport_ReplacesDocument(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, "POST", "/import", `{"version": "1.0", "owner_basic": {"name": "导入的"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if got := app.manager.Snapshot().OwnerBasic.Name; got != "导入的" {
		t.Errorf("name after import = %q", got)
	}
}

func TestImport_RejectionsAreTyped(t *testing.T) {
	app := newTestApp(t)
	app.do(t, "PATCH", "/document/owner_basic", `{"name": "原来的"}`)

	rec := app.do(t, "POST", "/import", `not json`)
	if rec.Code != http.StatusBadRequest || errorType(t, rec) != "invalid_document_json" {
		t.Errorf("parse failure: status=%d type=%q", rec.Code, errorType(t, rec))
	}

	rec = app.do(t, "POST", "/import", `{"foo": 1}`)
	if rec.Code != http.StatusBadRequest || errorType(t, rec) != "invalid_document_shape" {
		t.Errorf("shape failure: status=%d type=%q", rec.Code, errorType(t, rec))
	}

	// Current document survives both rejections.
	if got := app.manager.Snapshot().OwnerBasic.Name; got != "原来的" {
		t.Errorf("document changed after rejected imports: name=%q", got)
	}
}

func TestShare_ReturnsMailto(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, "GET", "/share", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out struct {
		Mailto string `json:"mailto"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad share response: %v", err)
	}
	if !strings.HasPrefix(out.Mailto, "mailto:author@example.com?") {
		t.Errorf("mailto = %q", out.Mailto)
	}
}
