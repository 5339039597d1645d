package patch

import (
	"strings"
	"time"

	"github.com/tuanvm/draftguard/internal/extract"
	"github.com/tuanvm/draftguard/internal/lock"
	"github.com/tuanvm/draftguard/internal/model"
)

// ApplyPatches merges patches into a Canon. Sections not named in any patch
// are untouched, patches apply in listed order, and Meta.Revision
// increments by exactly 1 regardless of how many patches were applied.
// TONE patches are skipped here: tone flows through MergeEditPatch because
// it has no section text of its own.
func ApplyPatches(c model.Canon, patches []model.Patch) model.Canon {
	out := c.Clone()

	for _, p := range patches {
		switch p.Target {
		case model.SectionHook:
			out.Hook.Text = combine(out.Hook.Text, p.Action, p.Content)
		case model.SectionCTA:
			out.CTA.Text = combine(out.CTA.Text, p.Action, p.Content)
		case model.SectionBody:
			out.Body.Blocks = applyBodyPatch(out.Body.Blocks, p)
		}
	}

	out.Meta.Revision = c.Meta.Revision + 1
	out.Meta.UpdatedAt = time.Now().UTC()
	return out
}

// combine merges patch content with existing section text per the action
func combine(existing string, action model.PatchAction, content string) string {
	existing = strings.TrimSpace(existing)
	content = strings.TrimSpace(content)

	switch action {
	case model.ActionAppend:
		return extract.JoinSections(existing, content)
	case model.ActionPrepend:
		return extract.JoinSections(content, existing)
	default:
		return content
	}
}

// applyBodyPatch applies one patch to the body blocks. REPLACE overwrites
// the first block's text; APPEND and PREPEND add a block at the respective
// end. Untouched blocks keep their IDs so lock correlation survives.
func applyBodyPatch(blocks []model.BodyBlock, p model.Patch) []model.BodyBlock {
	content := strings.TrimSpace(p.Content)

	newBlock := func(pos int) model.BodyBlock {
		return model.BodyBlock{
			ID:   model.BlockID(content, pos),
			Text: content,
			Role: extract.ClassifyRole(content),
		}
	}

	if len(blocks) == 0 {
		return []model.BodyBlock{newBlock(0)}
	}

	switch p.Action {
	case model.ActionAppend:
		return append(blocks, newBlock(len(blocks)))
	case model.ActionPrepend:
		return append([]model.BodyBlock{newBlock(0)}, blocks...)
	default:
		out := make([]model.BodyBlock, len(blocks))
		copy(out, blocks)
		out[0].Text = content
		out[0].ID = model.BlockID(content, 0)
		out[0].Role = extract.ClassifyRole(content)
		return out
	}
}

// MergeEditPatch is the single-text convenience path used by the legacy
// (non-protocol) flow: the returned text blob replaces exactly the target
// section. TONE and FULL targets merge by re-extraction: locked framing is
// reapplied to the candidate text first, then locks are inherited onto the
// fresh Canon.
func MergeEditPatch(c model.Canon, newText string, target model.Section) model.Canon {
	switch target {
	case model.SectionHook, model.SectionBody, model.SectionCTA:
		return ApplyPatches(c, []model.Patch{{
			Target:  target,
			Action:  model.ActionReplace,
			Content: newText,
		}})
	default:
		return mergeByReextraction(c, newText)
	}
}

// mergeByReextraction rebuilds the Canon from candidate text while keeping
// identity, locks and the revision chain of the prior Canon
func mergeByReextraction(c model.Canon, candidateText string) model.Canon {
	repaired := lock.ReapplyLockedSections(c, candidateText)

	extractor := extract.NewCanonExtractor()
	fresh := extractor.Extract(c.Meta.DraftID, repaired)
	merged := lock.InheritBlockLocks(c, fresh)

	merged.Meta.DraftID = c.Meta.DraftID
	merged.Meta.CreatedAt = c.Meta.CreatedAt
	merged.Meta.Revision = c.Meta.Revision + 1
	merged.Meta.UpdatedAt = time.Now().UTC()
	return merged
}
