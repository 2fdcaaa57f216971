package persona

import "time"

// SchemaVersion tags documents produced by this build. Normal edits never
// change it.
const SchemaVersion = "1.0"

// DateLayout is the layout used for Document.LastUpdated.
const DateLayout = "2006-01-02"

// Closeness options for Person.Closeness. Empty string means "not set".
var ClosenessOptions = []string{"非常熟", "一般熟", "较陌生"}

// PersonToneOptions for Person.PreferredTone.
var PersonToneOptions = []string{"非常正式", "正式但友好", "轻松随和", "半开玩笑"}

// DefaultToneOptions for CommunicationPreferences.DefaultTone.
var DefaultToneOptions = []string{"正式、商务", "专业但亲和", "轻松、口语化", "视情况自动调整"}

// LengthOptions for CommunicationPreferences.LengthPreference.
var LengthOptions = []string{"尽量简短，直奔主题", "中等长度，有结构有逻辑", "详细展开，适合 PPT/长文"}

// StyleTraitCatalog lists the selectable communication frameworks. StyleTraits
// membership is toggled against this catalog, though the document itself does
// not reject values outside it (imported documents may carry older labels).
var StyleTraitCatalog = []string{
	"《人性的弱点》换位思考 (Empathy)",
	"《非暴力沟通》观察而非评论 (NVC)",
	"《金字塔原理》结论先行 (Conciseness)",
	"《影响力》互惠原则 (Reciprocity)",
	"《思考，快与慢》系统二思维 (Rationality)",
	"《原则》极度求真 (Radical Truth)",
	"苏格拉底式提问 (Socratic Method)",
	"建设性反馈 (SBI Model)",
	"结果导向 (Result Oriented)",
	"成长型思维 (Growth Mindset)",
}

// seededCategories returns the eight fixed relationship categories in their
// canonical order. rel-8 sits before rel-7; the ordering is part of the
// document contract and must survive round-trips.
func seededCategories() []RelationshipCategory {
	return []RelationshipCategory{
		{ID: "rel-1", Label: "上级/老板", People: []Person{}},
		{ID: "rel-2", Label: "同级同事", People: []Person{}},
		{ID: "rel-3", Label: "下属/团队成员", People: []Person{}},
		{ID: "rel-4", Label: "重要客户/甲方", People: []Person{}},
		{ID: "rel-5", Label: "合作伙伴/供应商", People: []Person{}},
		{ID: "rel-6", Label: "投资人/顾问", People: []Person{}},
		{ID: "rel-8", Label: "个人人脉 (家人/朋友/导师)", People: []Person{}},
		{ID: "rel-7", Label: "其他", People: []Person{}},
	}
}

// NewDocument returns the canonical empty document: blank identity fields,
// the eight seeded relationship categories, default tone/length preferences,
// and the confidentiality boilerplate. LastUpdated is set to today's date.
func NewDocument(now time.Time) Document {
	return Document{
		Version:     SchemaVersion,
		LastUpdated: now.Format(DateLayout),
		OwnerBasic: OwnerBasic{
			Timezone:         "GMT+8",
			WorkingLanguages: []string{"中文"},
		},
		ProfessionalProfile: ProfessionalProfile{
			CoreSkills:       []string{},
			TypicalScenarios: []string{},
		},
		Relationships: seededCategories(),
		CommunicationPreferences: CommunicationPreferences{
			DefaultTone:      "专业但亲和",
			LengthPreference: "中等长度，有结构有逻辑",
			StyleTraits:      []string{},
		},
		Constraints: Constraints{
			ConfidentialityRules: "默认假设所有具体公司名称都应做匿名化处理",
			DoNotDoList:          "不直接帮我写谎言、不伪造经历",
		},
		GoalsAndUseCases: GoalsAndUseCases{
			TypicalAIUseCases: []UseCase{},
		},
		ExampleDialogues: []ExampleDialogue{},
	}
}
