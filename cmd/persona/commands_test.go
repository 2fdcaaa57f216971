package main

import (
	"slices"
	"testing"
	"time"

	"github.com/sunlit/persona/internal/persona"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestApplySet_ScalarFields(t *testing.T) {
	doc := persona.NewDocument(testNow)

	cases := []struct {
		key   string
		value string
		read  func(persona.Document) string
	}{
		{"owner_basic.name", "张伟", func(d persona.Document) string { return d.OwnerBasic.Name }},
		{"owner_basic.role", "产品总监", func(d persona.Document) string { return d.OwnerBasic.Role }},
		{"professional_profile.one_sentence_bio", "从 0 到 1", func(d persona.Document) string { return d.ProfessionalProfile.OneSentenceBio }},
		{"organization.org_name", "某科技公司", func(d persona.Document) string { return d.Organization.OrgName }},
		{"constraints.forbidden_topics", "政治", func(d persona.Document) string { return d.Constraints.ForbiddenTopics }},
		{"goals.short_term_goals", "拿下两个大客户", func(d persona.Document) string { return d.GoalsAndUseCases.ShortTermGoals }},
		{"goals.long_term_goals", "转型管理岗", func(d persona.Document) string { return d.GoalsAndUseCases.LongTermGoals }},
	}

	for _, tc := range cases {
		next, err := applySet(doc, tc.key, tc.value)
		if err != nil {
			t.Errorf("%s: %v", tc.key, err)
			continue
		}
		if got := tc.read(next); got != tc.value {
			t.Errorf("%s = %q, want %q", tc.key, got, tc.value)
		}
	}
}

func TestApplySet_ListFields(t *testing.T) {
	doc := persona.NewDocument(testNow)

	next, err := applySet(doc, "professional_profile.core_skills", "数据分析, 团队管理，谈判")
	if err != nil {
		t.Fatalf("core_skills: %v", err)
	}
	want := []string{"数据分析", "团队管理", "谈判"}
	if !slices.Equal(next.ProfessionalProfile.CoreSkills, want) {
		t.Errorf("core_skills = %v, want %v", next.ProfessionalProfile.CoreSkills, want)
	}

	next, err = applySet(doc, "professional_profile.typical_scenarios", "写 PRD; 汇报进展\n评审需求")
	if err != nil {
		t.Fatalf("typical_scenarios: %v", err)
	}
	want = []string{"写 PRD", "汇报进展", "评审需求"}
	if !slices.Equal(next.ProfessionalProfile.TypicalScenarios, want) {
		t.Errorf("typical_scenarios = %v, want %v", next.ProfessionalProfile.TypicalScenarios, want)
	}

	next, err = applySet(doc, "owner_basic.working_languages", "中文，English")
	if err != nil {
		t.Fatalf("working_languages: %v", err)
	}
	want = []string{"中文", "English"}
	if !slices.Equal(next.OwnerBasic.WorkingLanguages, want) {
		t.Errorf("working_languages = %v, want %v", next.OwnerBasic.WorkingLanguages, want)
	}
}

func TestApplySet_GoalsPreserveSibling(t *testing.T) {
	doc := persona.NewDocument(testNow)
	doc, _ = applySet(doc, "goals.short_term_goals", "短期")

	next, err := applySet(doc, "goals.long_term_goals", "长期")
	if err != nil {
		t.Fatalf("long_term_goals: %v", err)
	}
	if next.GoalsAndUseCases.ShortTermGoals != "短期" {
		t.Errorf("setting long-term goals clobbered short-term: %q", next.GoalsAndUseCases.ShortTermGoals)
	}
}

func TestApplySet_UnknownKey(t *testing.T) {
	doc := persona.NewDocument(testNow)

	if _, err := applySet(doc, "owner_basic.nickname", "x"); err == nil {
		t.Errorf("unknown field accepted")
	}
	if _, err := applySet(doc, "relationships.rel-1", "x"); err == nil {
		t.Errorf("non-settable section accepted")
	}
}

func TestSplitOn(t *testing.T) {
	got := splitOn(" a , b ,, c ", ",")
	want := []string{"a", "b", "c"}
	if !slices.Equal(got, want) {
		t.Errorf("splitOn = %v, want %v", got, want)
	}

	if got := splitOn("", ","); got != nil {
		t.Errorf("empty input = %v, want nil", got)
	}
}

func TestPersonFieldSetter(t *testing.T) {
	set, err := personFieldSetter("alias", "王总")
	if err != nil {
		t.Fatalf("alias: %v", err)
	}
	p := set(persona.Person{ID: "abc"})
	if p.Alias != "王总" {
		t.Errorf("alias = %q", p.Alias)
	}

	if _, err := personFieldSetter("shoe_size", "42"); err == nil {
		t.Errorf("unknown person field accepted")
	}
}
