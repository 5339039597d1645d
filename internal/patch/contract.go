// Package patch builds the machine-readable contracts for scoped edits,
// parses the [PATCH] protocol emitted by the model, and merges patch
// content into a Canon without touching other sections.
package patch

import (
	"github.com/tuanvm/draftguard/internal/model"
	"github.com/tuanvm/draftguard/internal/scope"
)

// BuildEditPatchMeta describes the outbound shape of an edit for a resolved
// target: PATCH mode for any single section, FULL otherwise
func BuildEditPatchMeta(target model.Section) model.EditPatchMeta {
	if target == model.SectionFull {
		return model.EditPatchMeta{
			Target: model.SectionFull,
			Mode:   model.ModeFull,
		}
	}

	return model.EditPatchMeta{
		Target:             target,
		Mode:               model.ModePatch,
		PreserveSections:   scope.LockedSectionsForTarget(target),
		AllowPartialOutput: true,
	}
}

// BuildEditScopeContract combines a scope decision with the active Canon's
// lock state. LockedSections is the union of the sections implied locked by
// the target and the sections already locked in the Canon; it never
// includes the target itself.
func BuildEditScopeContract(d scope.Decision, c model.Canon) model.EditScopeContract {
	implied := scope.LockedSectionsForTarget(d.Target)
	lockedSet := make(map[model.Section]bool, len(implied))
	for _, s := range implied {
		lockedSet[s] = true
	}
	for _, s := range c.LockedSections() {
		lockedSet[s] = true
	}
	delete(lockedSet, d.Target)

	var locked []model.Section
	for _, s := range model.AllSections() {
		if lockedSet[s] {
			locked = append(locked, s)
		}
	}

	return model.EditScopeContract{
		Target:         d.Target,
		LockedSections: locked,
		AllowedOps:     scope.AllowedOpsForTarget(d.Target),
		Source:         d.Source,
		Confidence:     d.Confidence,
		Reason:         d.Reason,
	}
}

// BuildOutputContractFromMeta maps an EditPatchMeta 1:1 to the
// PatchOnlyContract injected into the outbound prompt. Returns nil for
// FULL-mode meta: full rewrites are governed by the anchor guard instead.
func BuildOutputContractFromMeta(meta model.EditPatchMeta) *model.PatchOnlyContract {
	if meta.Mode != model.ModePatch {
		return nil
	}

	return &model.PatchOnlyContract{
		Mode:                  model.PatchOnlyMode,
		Targets:               []model.Section{meta.Target},
		PreserveOtherSections: true,
		DefaultAction:         model.ActionReplace,
	}
}
