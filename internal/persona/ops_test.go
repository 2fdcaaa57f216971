package persona

import (
	"slices"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNewDocument_Defaults(t *testing.T) {
	doc := NewDocument(testNow)

	if doc.Version != SchemaVersion {
		t.Errorf("version = %q, want %q", doc.Version, SchemaVersion)
	}
	if doc.OwnerBasic.Timezone != "GMT+8" {
		t.Errorf("timezone = %q, want GMT+8", doc.OwnerBasic.Timezone)
	}
	if got := doc.OwnerBasic.WorkingLanguages; len(got) != 1 || got[0] != "中文" {
		t.Errorf("working languages = %v, want [中文]", got)
	}
	if doc.CommunicationPreferences.DefaultTone != "专业但亲和" {
		t.Errorf("default tone = %q", doc.CommunicationPreferences.DefaultTone)
	}
	if doc.CommunicationPreferences.LengthPreference != "中等长度，有结构有逻辑" {
		t.Errorf("length preference = %q", doc.CommunicationPreferences.LengthPreference)
	}
	if doc.LastUpdated != "2025-06-01" {
		t.Errorf("last_updated = %q, want 2025-06-01", doc.LastUpdated)
	}
}

func TestNewDocument_CategoryOrder(t *testing.T) {
	doc := NewDocument(testNow)

	want := []string{"rel-1", "rel-2", "rel-3", "rel-4", "rel-5", "rel-6", "rel-8", "rel-7"}
	if len(doc.Relationships) != len(want) {
		t.Fatalf("got %d categories, want %d", len(doc.Relationships), len(want))
	}
	for i, cat := range doc.Relationships {
		if cat.ID != want[i] {
			t.Errorf("category[%d] = %q, want %q", i, cat.ID, want[i])
		}
		if len(cat.People) != 0 {
			t.Errorf("category %s starts with %d people, want 0", cat.ID, len(cat.People))
		}
	}
}

func TestWithOwnerBasic_DoesNotMutateReceiver(t *testing.T) {
	doc := NewDocument(testNow)

	ob := doc.OwnerBasic
	ob.Name = "张伟"
	ob.WorkingLanguages = append(ob.WorkingLanguages, "English")
	next := doc.WithOwnerBasic(ob)

	if doc.OwnerBasic.Name != "" {
		t.Errorf("receiver name mutated to %q", doc.OwnerBasic.Name)
	}
	if len(doc.OwnerBasic.WorkingLanguages) != 1 {
		t.Errorf("receiver languages mutated: %v", doc.OwnerBasic.WorkingLanguages)
	}
	if next.OwnerBasic.Name != "张伟" {
		t.Errorf("next name = %q, want 张伟", next.OwnerBasic.Name)
	}

	// The returned document must not share slice memory with the caller's
	// section value.
	ob.WorkingLanguages[0] = "日本語"
	if next.OwnerBasic.WorkingLanguages[0] != "中文" {
		t.Errorf("returned document shares slice memory with input")
	}
}

func TestWithCommunicationPreferences_ClampsEnums(t *testing.T) {
	doc := NewDocument(testNow)

	cp := doc.CommunicationPreferences
	cp.DefaultTone = "阴阳怪气"
	cp.LengthPreference = LengthOptions[0]
	next := doc.WithCommunicationPreferences(cp)

	if next.CommunicationPreferences.DefaultTone != "" {
		t.Errorf("invalid tone kept: %q", next.CommunicationPreferences.DefaultTone)
	}
	if next.CommunicationPreferences.LengthPreference != LengthOptions[0] {
		t.Errorf("valid length dropped: %q", next.CommunicationPreferences.LengthPreference)
	}
}

func TestWithCommunicationPreferences_DedupesTraits(t *testing.T) {
	doc := NewDocument(testNow)

	cp := doc.CommunicationPreferences
	cp.StyleTraits = []string{"a", "b", "a", "c", "b"}
	next := doc.WithCommunicationPreferences(cp)

	want := []string{"a", "b", "c"}
	if !slices.Equal(next.CommunicationPreferences.StyleTraits, want) {
		t.Errorf("traits = %v, want %v", next.CommunicationPreferences.StyleTraits, want)
	}
}

func TestToggleStyleTrait_RoundTrip(t *testing.T) {
	doc := NewDocument(testNow)
	trait := StyleTraitCatalog[0]

	on := doc.ToggleStyleTrait(trait)
	if !slices.Contains(on.CommunicationPreferences.StyleTraits, trait) {
		t.Fatalf("trait not added")
	}

	off := on.ToggleStyleTrait(trait)
	if slices.Contains(off.CommunicationPreferences.StyleTraits, trait) {
		t.Fatalf("trait not removed on second toggle")
	}
	if len(off.CommunicationPreferences.StyleTraits) != len(doc.CommunicationPreferences.StyleTraits) {
		t.Errorf("double toggle did not restore original list length")
	}
}

func TestAddPerson_FreshUniqueIDs(t *testing.T) {
	doc := NewDocument(testNow)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		var id string
		doc, id = doc.AddPerson("rel-1")
		if id == "" {
			t.Fatalf("empty id on add %d", i)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
	if got := len(doc.Relationships[0].People); got != 20 {
		t.Errorf("rel-1 has %d people, want 20", got)
	}
}

func TestAddPerson_UnknownCategory(t *testing.T) {
	doc := NewDocument(testNow)

	next, id := doc.AddPerson("rel-99")
	if id != "" {
		t.Errorf("got id %q for unknown category, want empty", id)
	}
	for i, cat := range next.Relationships {
		if len(cat.People) != len(doc.Relationships[i].People) {
			t.Errorf("category %s changed", cat.ID)
		}
	}
}

func TestUpdatePerson_PreservesID(t *testing.T) {
	doc, id := NewDocument(testNow).AddPerson("rel-4")

	next := doc.UpdatePerson("rel-4", id, func(p Person) Person {
		p.ID = "hijacked"
		p.Alias = "王总"
		return p
	})

	people := categoryPeople(t, next, "rel-4")
	if len(people) != 1 {
		t.Fatalf("got %d people, want 1", len(people))
	}
	if people[0].ID != id {
		t.Errorf("id = %q, want %q", people[0].ID, id)
	}
	if people[0].Alias != "王总" {
		t.Errorf("alias = %q, want 王总", people[0].Alias)
	}
}

func TestUpdatePerson_ClampsEnums(t *testing.T) {
	doc, id := NewDocument(testNow).AddPerson("rel-2")

	next := doc.UpdatePerson("rel-2", id, func(p Person) Person {
		p.Closeness = "点头之交"
		p.PreferredTone = PersonToneOptions[1]
		return p
	})

	p := categoryPeople(t, next, "rel-2")[0]
	if p.Closeness != "" {
		t.Errorf("invalid closeness kept: %q", p.Closeness)
	}
	if p.PreferredTone != PersonToneOptions[1] {
		t.Errorf("valid tone dropped: %q", p.PreferredTone)
	}
}

func TestUpdatePerson_LeavesSiblingsUntouched(t *testing.T) {
	doc, first := NewDocument(testNow).AddPerson("rel-2")
	doc = doc.UpdatePerson("rel-2", first, func(p Person) Person {
		p.Alias = "同事甲"
		p.FocusPoints = "排期"
		return p
	})
	doc, second := doc.AddPerson("rel-2")

	before := categoryPeople(t, doc, "rel-2")[0]

	next := doc.UpdatePerson("rel-2", second, func(p Person) Person {
		p.Alias = "同事乙"
		return p
	})

	people := categoryPeople(t, next, "rel-2")
	if len(people) != 2 {
		t.Fatalf("got %d people, want 2", len(people))
	}
	if people[0] != before {
		t.Errorf("untouched sibling changed: %+v != %+v", people[0], before)
	}
	if people[1].ID != second || people[1].Alias != "同事乙" {
		t.Errorf("targeted person = %+v", people[1])
	}
}

func TestUpdateUseCase_LeavesSiblingsUntouched(t *testing.T) {
	doc, first := NewDocument(testNow).AddUseCase()
	doc = doc.UpdateUseCase(first, func(u UseCase) UseCase {
		u.Name = "写周报"
		u.ExpectedOutcome = "十分钟内出稿"
		return u
	})
	doc, second := doc.AddUseCase()

	before := doc.GoalsAndUseCases.TypicalAIUseCases[0]

	next := doc.UpdateUseCase(second, func(u UseCase) UseCase {
		u.Name = "改邮件"
		return u
	})

	list := next.GoalsAndUseCases.TypicalAIUseCases
	if len(list) != 2 {
		t.Fatalf("got %d use cases, want 2", len(list))
	}
	if list[0] != before {
		t.Errorf("untouched use case changed: %+v != %+v", list[0], before)
	}
	if list[1].ID != second || list[1].Name != "改邮件" {
		t.Errorf("targeted use case = %+v", list[1])
	}
}

func TestUpdatePerson_UnknownID(t *testing.T) {
	doc, id := NewDocument(testNow).AddPerson("rel-1")

	next := doc.UpdatePerson("rel-1", "missing", func(p Person) Person {
		p.Alias = "should not land"
		return p
	})

	p := categoryPeople(t, next, "rel-1")[0]
	if p.ID != id || p.Alias != "" {
		t.Errorf("unknown id update touched person: %+v", p)
	}
}

func TestRemovePerson(t *testing.T) {
	doc, first := NewDocument(testNow).AddPerson("rel-3")
	doc, second := doc.AddPerson("rel-3")

	next := doc.RemovePerson("rel-3", first)

	people := categoryPeople(t, next, "rel-3")
	if len(people) != 1 || people[0].ID != second {
		t.Errorf("after remove: %+v, want only %s", people, second)
	}

	// Removing an unknown id changes nothing.
	again := next.RemovePerson("rel-3", "missing")
	if len(categoryPeople(t, again, "rel-3")) != 1 {
		t.Errorf("unknown id remove changed the list")
	}
}

func TestRemovePerson_CategoriesStayFixed(t *testing.T) {
	doc, id := NewDocument(testNow).AddPerson("rel-5")

	next := doc.RemovePerson("rel-5", id)

	if len(next.Relationships) != 8 {
		t.Fatalf("got %d categories, want 8", len(next.Relationships))
	}
	cat := next.Relationships[4]
	if cat.ID != "rel-5" || len(cat.People) != 0 {
		t.Errorf("rel-5 not left empty in place: %+v", cat)
	}
}

func TestUseCaseLifecycle(t *testing.T) {
	doc, id := NewDocument(testNow).AddUseCase()

	doc = doc.UpdateUseCase(id, func(u UseCase) UseCase {
		u.Name = "写周报"
		return u
	})
	if got := doc.GoalsAndUseCases.TypicalAIUseCases[0].Name; got != "写周报" {
		t.Errorf("name = %q", got)
	}

	doc = doc.RemoveUseCase(id)
	if len(doc.GoalsAndUseCases.TypicalAIUseCases) != 0 {
		t.Errorf("use case not removed")
	}
}

func TestExampleLifecycle(t *testing.T) {
	doc, id := NewDocument(testNow).AddExample()

	doc = doc.UpdateExample(id, func(e ExampleDialogue) ExampleDialogue {
		e.UserQuestion = "帮我回这封邮件"
		return e
	})
	if got := doc.ExampleDialogues[0].UserQuestion; got != "帮我回这封邮件" {
		t.Errorf("question = %q", got)
	}

	doc = doc.RemoveExample(id)
	if len(doc.ExampleDialogues) != 0 {
		t.Errorf("example not removed")
	}
}

func TestClone_Isolation(t *testing.T) {
	doc, _ := NewDocument(testNow).AddPerson("rel-1")

	cp := doc.Clone()
	cp.Relationships[0].People[0].Alias = "改了"
	cp.OwnerBasic.WorkingLanguages[0] = "English"

	if doc.Relationships[0].People[0].Alias != "" {
		t.Errorf("clone shares people slice with original")
	}
	if doc.OwnerBasic.WorkingLanguages[0] != "中文" {
		t.Errorf("clone shares language slice with original")
	}
}

func categoryPeople(t *testing.T, doc Document, categoryID string) []Person {
	t.Helper()
	for _, cat := range doc.Relationships {
		if cat.ID == categoryID {
			return cat.People
		}
	}
	t.Fatalf("category %s not found", categoryID)
	return nil
}
