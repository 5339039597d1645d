package patch

import (
	"fmt"
	"strings"

	"github.com/tuanvm/draftguard/internal/lexicon"
	"github.com/tuanvm/draftguard/internal/model"
)

const (
	patchOpen  = "[PATCH]"
	patchClose = "[/PATCH]"
)

// Validation is the result of checking model output against a
// PatchOnlyContract. WasFullRewrite marks the graceful-degradation path
// where unmarked output was accepted as the single target's content; it
// must be surfaced to the caller, never swallowed.
type Validation struct {
	Valid          bool          `json:"valid" yaml:"valid"`
	Patches        []model.Patch `json:"patches" yaml:"patches"`
	Errors         []string      `json:"errors,omitempty" yaml:"errors,omitempty"`
	WasFullRewrite bool          `json:"was_full_rewrite" yaml:"was_full_rewrite"`
}

// ParsePatchBlocks scans output for [PATCH]...[/PATCH] blocks, each parsed
// independently in document order. Malformed blocks (no TARGET line) are
// returned with an empty target so the validator can report them.
func ParsePatchBlocks(output string) []model.Patch {
	var patches []model.Patch

	lines := strings.Split(output, "\n")
	i := 0
	for i < len(lines) {
		if strings.TrimSpace(lines[i]) != patchOpen {
			i++
			continue
		}
		i++

		var p model.Patch
		inContent := false
		var content []string

		for i < len(lines) {
			line := lines[i]
			trimmed := strings.TrimSpace(line)

			if trimmed == patchClose {
				i++
				break
			}

			if inContent {
				content = append(content, line)
				i++
				continue
			}

			switch {
			case strings.HasPrefix(trimmed, "TARGET:"):
				p.Target = model.Section(strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(trimmed, "TARGET:"))))
			case strings.HasPrefix(trimmed, "ACTION:"):
				p.Action = model.PatchAction(strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(trimmed, "ACTION:"))))
			case trimmed == "CONTENT:":
				inContent = true
			}
			i++
		}

		p.Content = strings.TrimSpace(strings.Join(content, "\n"))
		patches = append(patches, p)
	}

	return patches
}

// ValidatePatchOnlyOutput checks model output against the contract.
//
// With [PATCH] blocks present, every block must target an allowed section.
// With zero blocks, a single-target contract accepts the entire output as
// that target's content (flagged WasFullRewrite) unless the output looks
// like multiple sections, in which case the model ignored the patch-only
// instruction and the output is rejected as a full rewrite. The boundary
// between those two cases is heuristic marker counting, kept as-is on
// purpose.
func ValidatePatchOnlyOutput(output string, contract model.PatchOnlyContract) Validation {
	allowed := make(map[model.Section]bool, len(contract.Targets))
	for _, t := range contract.Targets {
		allowed[t] = true
	}

	blocks := ParsePatchBlocks(output)

	if len(blocks) == 0 {
		if lexicon.MarkerFamilyCount(output) >= 2 {
			return Validation{
				Valid:          false,
				WasFullRewrite: true,
				Errors:         []string{"output has no [PATCH] blocks and looks like a full rewrite with multiple sections"},
			}
		}

		if len(contract.Targets) == 1 {
			action := contract.DefaultAction
			if action == "" {
				action = model.ActionReplace
			}
			return Validation{
				Valid:          true,
				WasFullRewrite: true,
				Patches: []model.Patch{{
					Target:  contract.Targets[0],
					Action:  action,
					Content: strings.TrimSpace(output),
				}},
			}
		}

		return Validation{
			Valid:  false,
			Errors: []string{"output has no [PATCH] blocks and the contract has multiple targets"},
		}
	}

	v := Validation{Valid: true}
	for _, p := range blocks {
		if p.Target == "" {
			v.Valid = false
			v.Errors = append(v.Errors, "[PATCH] block is missing a TARGET line")
			continue
		}
		if !allowed[p.Target] {
			v.Valid = false
			v.Errors = append(v.Errors, fmt.Sprintf("patch target %s not allowed by contract (allowed: %s)", p.Target, joinSections(contract.Targets)))
			continue
		}
		if p.Action == "" {
			p.Action = contract.DefaultAction
			if p.Action == "" {
				p.Action = model.ActionReplace
			}
		}
		v.Patches = append(v.Patches, p)
	}

	return v
}

func joinSections(sections []model.Section) string {
	parts := make([]string, len(sections))
	for i, s := range sections {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}
