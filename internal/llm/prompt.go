package llm

import (
	"fmt"
	"strings"

	"github.com/tuanvm/draftguard/internal/model"
)

// BuildPatchPrompt constructs the outbound prompt for a scoped edit. The
// PatchOnlyContract is rendered as hard rules plus the [PATCH] protocol
// the model must emit.
func BuildPatchPrompt(contract model.PatchOnlyContract, canon model.Canon, sectionText, instruction string) (system, prompt string) {
	targets := make([]string, len(contract.Targets))
	for i, t := range contract.Targets {
		targets[i] = t.String()
	}

	system = fmt.Sprintf(`You are editing exactly one section of a social media post.

CRITICAL RULES:
1. You may ONLY change these sections: %s
2. Every other section is locked. Do not rewrite, merge, reorder or mention them.
3. Respond ONLY with [PATCH] blocks in this exact format:

[PATCH]
TARGET: %s
ACTION: REPLACE
CONTENT:
<the new section text>
[/PATCH]

4. ACTION is one of REPLACE, APPEND, PREPEND. Default to %s.
5. Do not add calls-to-action, hashtags or sign-offs that the section did not have.`,
		strings.Join(targets, ", "), targets[0], contract.DefaultAction)

	prompt = fmt.Sprintf(`Current %s section:
---
%s
---

Edit instruction: %s`, targets[0], sectionText, instruction)

	return system, prompt
}

// BuildRewritePrompt constructs the outbound prompt for an anchored full
// rewrite. The anchor preservation rules mirror what the anchor guard will
// verify on the way back.
func BuildRewritePrompt(anchored model.AnchoredContent, contract model.EditScopeContract, instruction string) (system, prompt string) {
	system = fmt.Sprintf(`You are rewriting a social media post paragraph by paragraph.

CRITICAL RULES:
1. The draft contains %d anchor markers like <<P1>>, one per paragraph.
2. Keep EVERY anchor marker exactly as written, in the same order, each on
   its own line before its paragraph. Do not add, remove, merge or reorder
   anchors.
3. Rewrite each paragraph in place under its anchor. Keep each paragraph
   close to its original length and keep its key terms.
4. Do not add calls-to-action, contact lines or urgency phrases the
   original did not have.
5. Allowed operations: %s.`,
		anchored.ParagraphCount, joinOps(contract.AllowedOps))

	prompt = fmt.Sprintf(`Draft with anchors:
---
%s
---

Edit instruction: %s`, anchored.AnchoredText, instruction)

	return system, prompt
}

func joinOps(ops []model.EditOp) string {
	if len(ops) == 0 {
		return "REWRITE"
	}
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = string(op)
	}
	return strings.Join(parts, ", ")
}
