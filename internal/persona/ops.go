package persona

import "slices"

// Every operation in this file is copy-on-write: the receiver is never
// mutated, and the returned Document shares no slice memory with it. Prior
// snapshots therefore stay valid while a newer revision is being edited or
// persisted.

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := d
	out.OwnerBasic.WorkingLanguages = slices.Clone(d.OwnerBasic.WorkingLanguages)
	out.ProfessionalProfile.CoreSkills = slices.Clone(d.ProfessionalProfile.CoreSkills)
	out.ProfessionalProfile.TypicalScenarios = slices.Clone(d.ProfessionalProfile.TypicalScenarios)
	out.CommunicationPreferences.StyleTraits = slices.Clone(d.CommunicationPreferences.StyleTraits)
	out.GoalsAndUseCases.TypicalAIUseCases = slices.Clone(d.GoalsAndUseCases.TypicalAIUseCases)
	out.ExampleDialogues = slices.Clone(d.ExampleDialogues)
	out.Relationships = make([]RelationshipCategory, len(d.Relationships))
	for i, cat := range d.Relationships {
		cat.People = slices.Clone(cat.People)
		out.Relationships[i] = cat
	}
	return out
}

// clampEnum keeps v only if it is empty or one of options.
func clampEnum(v string, options []string) string {
	if v == "" || slices.Contains(options, v) {
		return v
	}
	return ""
}

func sanitizePerson(p Person) Person {
	p.Closeness = clampEnum(p.Closeness, ClosenessOptions)
	p.PreferredTone = clampEnum(p.PreferredTone, PersonToneOptions)
	return p
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// --- Section setters ---
//
// Field updates are expressed as whole-section replacement: callers copy the
// section value, change the fields they need, and pass it back. This makes
// every field reference a compile-time check instead of a string lookup.

// WithOwnerBasic returns a document with the owner_basic section replaced.
func (d Document) WithOwnerBasic(ob OwnerBasic) Document {
	out := d.Clone()
	ob.WorkingLanguages = slices.Clone(ob.WorkingLanguages)
	out.OwnerBasic = ob
	return out
}

// WithProfessionalProfile returns a document with the professional_profile
// section replaced.
func (d Document) WithProfessionalProfile(pp ProfessionalProfile) Document {
	out := d.Clone()
	pp.CoreSkills = slices.Clone(pp.CoreSkills)
	pp.TypicalScenarios = slices.Clone(pp.TypicalScenarios)
	out.ProfessionalProfile = pp
	return out
}

// WithOrganization returns a document with the organization section replaced.
func (d Document) WithOrganization(org Organization) Document {
	out := d.Clone()
	out.Organization = org
	return out
}

// WithCommunicationPreferences returns a document with the
// communication_preferences section replaced. Enum fields outside their fixed
// option lists are reset to empty, and style traits are deduplicated keeping
// first-seen order.
func (d Document) WithCommunicationPreferences(cp CommunicationPreferences) Document {
	out := d.Clone()
	cp.DefaultTone = clampEnum(cp.DefaultTone, DefaultToneOptions)
	cp.LengthPreference = clampEnum(cp.LengthPreference, LengthOptions)
	cp.StyleTraits = dedupe(cp.StyleTraits)
	out.CommunicationPreferences = cp
	return out
}

// WithConstraints returns a document with the constraints section replaced.
func (d Document) WithConstraints(c Constraints) Document {
	out := d.Clone()
	out.Constraints = c
	return out
}

// WithGoals returns a document with the goal text fields replaced. The
// use-case list is untouched; it has its own editors below.
func (d Document) WithGoals(shortTerm, longTerm string) Document {
	out := d.Clone()
	out.GoalsAndUseCases.ShortTermGoals = shortTerm
	out.GoalsAndUseCases.LongTermGoals = longTerm
	return out
}

// ToggleStyleTrait adds trait to style_traits if absent, removes it if
// present. Applying it twice with the same trait restores the original list.
func (d Document) ToggleStyleTrait(trait string) Document {
	out := d.Clone()
	traits := out.CommunicationPreferences.StyleTraits
	if i := slices.Index(traits, trait); i >= 0 {
		traits = slices.Delete(traits, i, i+1)
	} else {
		traits = append(traits, trait)
	}
	out.CommunicationPreferences.StyleTraits = traits
	return out
}

// --- Relationship people ---

// AddPerson appends an empty person with a fresh id to the category matching
// categoryID and returns the new id. Unknown categories are a no-op and
// return an empty id.
func (d Document) AddPerson(categoryID string) (Document, string) {
	out := d.Clone()
	for i, cat := range out.Relationships {
		if cat.ID != categoryID {
			continue
		}
		p := Person{ID: newEntryID()}
		out.Relationships[i].People = appendEntry(cat.People, p)
		return out, p.ID
	}
	return out, ""
}

// UpdatePerson applies fn to the person matching categoryID/personID. The id
// is preserved regardless of what fn returns, and enum fields are clamped to
// their option lists. Unknown ids are a no-op.
func (d Document) UpdatePerson(categoryID, personID string, fn func(Person) Person) Document {
	out := d.Clone()
	for i, cat := range out.Relationships {
		if cat.ID != categoryID {
			continue
		}
		out.Relationships[i].People = updateEntry(cat.People, personID, func(p Person) Person {
			updated := fn(p)
			updated.ID = p.ID
			return sanitizePerson(updated)
		})
	}
	return out
}

// RemovePerson removes the person matching categoryID/personID. Unknown ids
// are a no-op.
func (d Document) RemovePerson(categoryID, personID string) Document {
	out := d.Clone()
	for i, cat := range out.Relationships {
		if cat.ID != categoryID {
			continue
		}
		out.Relationships[i].People = removeEntry(cat.People, personID)
	}
	return out
}

// --- Use cases ---

// AddUseCase appends an empty use case with a fresh id and returns the id.
func (d Document) AddUseCase() (Document, string) {
	out := d.Clone()
	u := UseCase{ID: newEntryID()}
	out.GoalsAndUseCases.TypicalAIUseCases = appendEntry(out.GoalsAndUseCases.TypicalAIUseCases, u)
	return out, u.ID
}

// UpdateUseCase applies fn to the use case matching id, preserving the id.
func (d Document) UpdateUseCase(id string, fn func(UseCase) UseCase) Document {
	out := d.Clone()
	out.GoalsAndUseCases.TypicalAIUseCases = updateEntry(out.GoalsAndUseCases.TypicalAIUseCases, id, func(u UseCase) UseCase {
		updated := fn(u)
		updated.ID = u.ID
		return updated
	})
	return out
}

// RemoveUseCase removes the use case matching id.
func (d Document) RemoveUseCase(id string) Document {
	out := d.Clone()
	out.GoalsAndUseCases.TypicalAIUseCases = removeEntry(out.GoalsAndUseCases.TypicalAIUseCases, id)
	return out
}

// --- Example dialogues ---

// AddExample appends an empty example dialogue with a fresh id and returns
// the id.
func (d Document) AddExample() (Document, string) {
	out := d.Clone()
	e := ExampleDialogue{ID: newEntryID()}
	out.ExampleDialogues = appendEntry(out.ExampleDialogues, e)
	return out, e.ID
}

// UpdateExample applies fn to the example matching id, preserving the id.
func (d Document) UpdateExample(id string, fn func(ExampleDialogue) ExampleDialogue) Document {
	out := d.Clone()
	out.ExampleDialogues = updateEntry(out.ExampleDialogues, id, func(e ExampleDialogue) ExampleDialogue {
		updated := fn(e)
		updated.ID = e.ID
		return updated
	})
	return out
}

// RemoveExample removes the example matching id.
func (d Document) RemoveExample(id string) Document {
	out := d.Clone()
	out.ExampleDialogues = removeEntry(out.ExampleDialogues, id)
	return out
}

// WithSummary returns a document carrying a freshly compiled summary and the
// matching last_updated stamp. Used by the compiler; nothing else writes
// these two fields.
func (d Document) WithSummary(summary, date string) Document {
	out := d.Clone()
	out.SystemPromptSummaryZH = summary
	out.LastUpdated = date
	return out
}
