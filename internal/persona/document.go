package persona

// Document is the root aggregate: one user's full persona profile, versioned
// and serializable to JSON with no loss of field identity.
type Document struct {
	Version                  string                   `json:"version"`
	LastUpdated              string                   `json:"last_updated"`
	OwnerBasic               OwnerBasic               `json:"owner_basic"`
	ProfessionalProfile      ProfessionalProfile      `json:"professional_profile"`
	Organization             Organization             `json:"organization"`
	Relationships            []RelationshipCategory   `json:"relationships"`
	CommunicationPreferences CommunicationPreferences `json:"communication_preferences"`
	Constraints              Constraints              `json:"constraints"`
	GoalsAndUseCases         GoalsAndUseCases         `json:"goals_and_use_cases"`
	ExampleDialogues         []ExampleDialogue        `json:"example_dialogues"`
	SystemPromptSummaryZH    string                   `json:"system_prompt_summary_zh"`
}

// OwnerBasic captures the user's identity attributes.
type OwnerBasic struct {
	Name              string   `json:"name"`
	PreferredName     string   `json:"preferred_name"`
	City              string   `json:"city"`
	Timezone          string   `json:"timezone"`
	Role              string   `json:"role"`
	Industry          string   `json:"industry"`
	YearsOfExperience string   `json:"years_of_experience"`
	WorkingLanguages  []string `json:"working_languages"`
}

// ProfessionalProfile holds the free-text bio and derived skill/scenario lists.
type ProfessionalProfile struct {
	OneSentenceBio   string   `json:"one_sentence_bio"`
	CoreSkills       []string `json:"core_skills"`
	TypicalScenarios []string `json:"typical_scenarios"`
}

// Organization describes the user's business context.
type Organization struct {
	OrgName          string `json:"org_name"`
	Industry         string `json:"industry"`
	Stage            string `json:"stage"`
	ProductsServices string `json:"products_services"`
	TargetCustomers  string `json:"target_customers"`
	BusinessModel    string `json:"business_model"`
}

// RelationshipCategory is one of the eight fixed relationship groupings.
// Categories are seeded at document creation and never added or removed;
// only their People lists change.
type RelationshipCategory struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	People []Person `json:"people"`
}

// Person is one contact within a relationship category.
type Person struct {
	ID                 string `json:"id"`
	Alias              string `json:"alias"`
	RoleToMe           string `json:"role_to_me"`
	Closeness          string `json:"closeness"`
	PreferredTone      string `json:"preferred_tone"`
	FocusPoints        string `json:"focus_points"`
	MyGoalWithThisRole string `json:"my_goal_with_this_role"`
}

// CommunicationPreferences captures how the user wants AI output to sound.
type CommunicationPreferences struct {
	DefaultTone      string   `json:"default_tone"`
	LengthPreference string   `json:"length_preference"`
	StyleTraits      []string `json:"style_traits"`
	AvoidPhrases     string   `json:"avoid_phrases"`
	AvoidBehaviors   string   `json:"avoid_behaviors"`
}

// Constraints holds the user's boundaries and forbidden territory.
type Constraints struct {
	ForbiddenTopics      string `json:"forbidden_topics"`
	ConfidentialityRules string `json:"confidentiality_rules"`
	DoNotDoList          string `json:"do_not_do_list"`
}

// GoalsAndUseCases holds goal text plus the typical AI use-case list.
type GoalsAndUseCases struct {
	ShortTermGoals    string    `json:"short_term_goals"`
	LongTermGoals     string    `json:"long_term_goals"`
	TypicalAIUseCases []UseCase `json:"typical_ai_use_cases"`
}

// UseCase is one recurring scenario the user brings to an AI assistant.
type UseCase struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	ExpectedOutcome     string `json:"expected_outcome"`
	SpecialRequirements string `json:"special_requirements"`
}

// ExampleDialogue is a contrastive example: a past question, what went wrong,
// and what the ideal answer would have looked like.
type ExampleDialogue struct {
	ID                     string `json:"id"`
	UserQuestion           string `json:"user_question"`
	WhatWentWrongBefore    string `json:"what_went_wrong_before"`
	IdealAnswerDescription string `json:"ideal_answer_description"`
}

// EntryID implements Entry.
func (p Person) EntryID() string { return p.ID }

// EntryID implements Entry.
func (u UseCase) EntryID() string { return u.ID }

// EntryID implements Entry.
func (e ExampleDialogue) EntryID() string { return e.ID }
