package extract

import (
	"strings"

	"github.com/tuanvm/draftguard/internal/model"
)

// CompareCanons reports which sections changed between two Canon snapshots,
// including whether a locked section changed. Body blocks are correlated by
// their stable-derived IDs; a block whose text changed also changes its ID,
// so an edited block surfaces as a removed/added pair at the same position
// and is folded into a single modified change.
func CompareCanons(old, next model.Canon) model.CanonDiff {
	var diff model.CanonDiff

	record := func(s model.Section, changed, locked bool) {
		if !changed {
			return
		}
		diff.ChangedSections = append(diff.ChangedSections, s)
		if locked {
			diff.LockedChanged = append(diff.LockedChanged, s)
		}
	}

	record(model.SectionHook, !textEqual(old.Hook.Text, next.Hook.Text), old.Hook.Locked)
	record(model.SectionBody, !textEqual(BodyText(old), BodyText(next)), false)
	record(model.SectionCTA, !textEqual(old.CTA.Text, next.CTA.Text), old.CTA.Locked)
	record(model.SectionTone, old.Tone.ID != next.Tone.ID, old.Tone.Locked)

	diff.BlockChanges = compareBlocks(old.Body.Blocks, next.Body.Blocks)

	// A locked body block that was removed or modified counts as a locked
	// BODY change even though BODY as a whole is mutable by default
	for _, bc := range diff.BlockChanges {
		if bc.Locked && bc.Kind != model.BlockAdded {
			diff.LockedChanged = append(diff.LockedChanged, model.SectionBody)
			break
		}
	}

	return diff
}

func textEqual(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}

func compareBlocks(old, next []model.BodyBlock) []model.BlockChange {
	oldByID := make(map[string]model.BodyBlock, len(old))
	for _, b := range old {
		oldByID[b.ID] = b
	}
	nextByID := make(map[string]model.BodyBlock, len(next))
	for _, b := range next {
		nextByID[b.ID] = b
	}

	var changes []model.BlockChange
	matchedNew := map[string]bool{}

	for i, b := range old {
		if _, ok := nextByID[b.ID]; ok {
			continue
		}
		// Same position with different content reads as a modification
		// rather than a remove/add pair
		if i < len(next) {
			if _, wasOld := oldByID[next[i].ID]; !wasOld && !matchedNew[next[i].ID] {
				matchedNew[next[i].ID] = true
				changes = append(changes, model.BlockChange{ID: b.ID, Kind: model.BlockModified, Locked: b.Locked})
				continue
			}
		}
		changes = append(changes, model.BlockChange{ID: b.ID, Kind: model.BlockRemoved, Locked: b.Locked})
	}

	for _, b := range next {
		if _, ok := oldByID[b.ID]; ok || matchedNew[b.ID] {
			continue
		}
		changes = append(changes, model.BlockChange{ID: b.ID, Kind: model.BlockAdded, Locked: b.Locked})
	}

	return changes
}
