// Package share composes the outbound mail link for sharing a generated
// prompt with the author. Composition only; nothing here sends anything.
package share

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sunlit/persona/internal/persona"
)

// DefaultRecipient is the author's address; overridable via config.
const DefaultRecipient = "578043545@qq.com"

// Mailto builds a mailto: URL with a subject interpolating the owner's name
// and a body embedding the compiled summary. The document is read as-is; call
// this after generation or the body carries an empty prompt.
func Mailto(doc persona.Document, recipient string) string {
	if recipient == "" {
		recipient = DefaultRecipient
	}

	subject := fmt.Sprintf("[AI Persona Share] 用户档案分享: %s", doc.OwnerBasic.Name)
	body := fmt.Sprintf("Hi Sunlit,\n\n我愿意分享我生成的 System Prompt 以帮助优化产品：\n\n%s\n\n----------------\n来自 AI Persona Builder", doc.SystemPromptSummaryZH)

	return fmt.Sprintf("mailto:%s?subject=%s&body=%s",
		recipient,
		escape(subject),
		escape(body),
	)
}

// escape percent-encodes for a mailto query. QueryEscape's "+" for spaces is
// form encoding; mail clients expect %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
