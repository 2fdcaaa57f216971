// Package compiler projects a persona document into the Chinese-language
// system prompt that primes an AI assistant with the owner's full context.
package compiler

import (
	"fmt"
	"strings"
	"time"

	"github.com/sunlit/persona/internal/persona"
)

// Compile renders doc as a single formatted prompt block. It is pure and
// deterministic: same document in, same text out, input untouched. Section
// order is fixed; relationship categories with no people are omitted from the
// social graph section entirely.
func Compile(doc persona.Document) string {
	ob := doc.OwnerBasic
	pp := doc.ProfessionalProfile
	org := doc.Organization
	cp := doc.CommunicationPreferences
	cons := doc.Constraints
	goals := doc.GoalsAndUseCases

	var sb strings.Builder

	sb.WriteString("# Role Setting\n")
	fmt.Fprintf(&sb, "你不仅是一个 AI 助手，更是 %s（%s）的专属“数字人格秘书”。你非常了解我的职业背景、社会关系网、沟通习惯和目标。\n", ob.Name, ob.Role)

	sb.WriteString("\n## 1. 关于我 (User Profile)\n")
	fmt.Fprintf(&sb, "- **姓名**: %s (请叫我: %s)\n", ob.Name, ob.PreferredName)
	fmt.Fprintf(&sb, "- **职业/角色**: %s，拥有 %s 经验。\n", ob.Role, ob.YearsOfExperience)
	fmt.Fprintf(&sb, "- **所在地**: %s (%s)\n", ob.City, ob.Timezone)
	fmt.Fprintf(&sb, "- **个人深度介绍**: %s\n", pp.OneSentenceBio)
	fmt.Fprintf(&sb, "- **核心技能**: %s\n", strings.Join(pp.CoreSkills, ", "))
	fmt.Fprintf(&sb, "- **典型工作场景**: %s\n", strings.Join(pp.TypicalScenarios, "; "))

	sb.WriteString("\n## 2. 业务背景 (Context)\n")
	fmt.Fprintf(&sb, "- **组织**: %s (%s - %s)\n", org.OrgName, org.Industry, org.Stage)
	fmt.Fprintf(&sb, "- **主要产品**: %s\n", org.ProductsServices)
	fmt.Fprintf(&sb, "- **客户群体**: %s\n", org.TargetCustomers)
	fmt.Fprintf(&sb, "- **商业模式**: %s\n", org.BusinessModel)

	sb.WriteString("\n## 3. 关键社会关系 (Social Graph)\n")
	sb.WriteString("你需要根据我提到的对象，调整你的建议策略和拟稿语气：\n")
	sb.WriteString(socialGraph(doc.Relationships))
	sb.WriteString("\n")

	sb.WriteString("\n## 4. 沟通偏好 (Communication Style)\n")
	fmt.Fprintf(&sb, "- **默认语气**: %s\n", cp.DefaultTone)
	fmt.Fprintf(&sb, "- **长度偏好**: %s\n", cp.LengthPreference)
	fmt.Fprintf(&sb, "- **沟通心理模型**: %s\n", strings.Join(cp.StyleTraits, ", "))
	fmt.Fprintf(&sb, "- **绝对避免**: %s\n", cp.AvoidPhrases)

	sb.WriteString("\n## 5. 约束与边界 (Constraints)\n")
	fmt.Fprintf(&sb, "- %s\n", cons.ConfidentialityRules)
	fmt.Fprintf(&sb, "- 禁止话题: %s\n", cons.ForbiddenTopics)
	fmt.Fprintf(&sb, "- 禁止行为: %s\n", cons.DoNotDoList)

	sb.WriteString("\n## 6. 我的目标 (Goals)\n")
	fmt.Fprintf(&sb, "- 短期目标: %s\n", goals.ShortTermGoals)
	fmt.Fprintf(&sb, "- 长期目标: %s\n", goals.LongTermGoals)

	sb.WriteString("\n## Instruction\n")
	sb.WriteString("在接下来的对话中，请基于以上“全息语境”来理解我的每一个请求。不要把我当成陌生用户，要当成你的长期雇主。")

	return strings.TrimSpace(sb.String())
}

// socialGraph emits one labeled line per category that has at least one
// person. Category order follows document order; empty categories produce
// nothing, not a "none" line.
func socialGraph(categories []persona.RelationshipCategory) string {
	var lines []string
	for _, cat := range categories {
		if len(cat.People) == 0 {
			continue
		}
		var people []string
		for _, p := range cat.People {
			people = append(people, fmt.Sprintf("%s（%s）：重点关注%s，沟通偏好%s。", p.Alias, p.RoleToMe, p.FocusPoints, p.PreferredTone))
		}
		lines = append(lines, fmt.Sprintf("[%s]: %s", cat.Label, strings.Join(people, " ")))
	}
	return strings.Join(lines, "\n")
}

// Generate compiles doc and returns a new document carrying the summary and a
// last_updated stamp taken from now. This is the only operation that writes
// either field; both land atomically in the returned value.
func Generate(doc persona.Document, now time.Time) persona.Document {
	return doc.WithSummary(Compile(doc), now.Format(persona.DateLayout))
}
