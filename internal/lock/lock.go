// Package lock manages the per-section "do not change" flags of a Canon
// and the deterministic local-revert path used when a model output violates
// a lock. All functions are pure: they return new Canon values and never
// mutate their input.
package lock

import (
	"github.com/tuanvm/draftguard/internal/extract"
	"github.com/tuanvm/draftguard/internal/model"
)

// Policy selects a lock preset
type Policy string

const (
	// PolicyDefault locks HOOK, CTA and TONE and unlocks all body blocks:
	// body is mutable, framing is protected.
	PolicyDefault Policy = "default"
	PolicyLockAll Policy = "lock_all"
	PolicyUnlock  Policy = "unlock_all"
	PolicyCustom  Policy = "custom"
)

// ApplyCanonLocks returns a copy of the Canon with the policy's lock flags
// applied. PolicyCustom leaves the existing flags untouched.
func ApplyCanonLocks(c model.Canon, policy Policy) model.Canon {
	out := c.Clone()

	switch policy {
	case PolicyDefault:
		out.Hook.Locked = true
		out.CTA.Locked = true
		out.Tone.Locked = true
		for i := range out.Body.Blocks {
			out.Body.Blocks[i].Locked = false
		}
	case PolicyLockAll:
		out.Hook.Locked = true
		out.CTA.Locked = true
		out.Tone.Locked = true
		for i := range out.Body.Blocks {
			out.Body.Blocks[i].Locked = true
		}
	case PolicyUnlock:
		out.Hook.Locked = false
		out.CTA.Locked = false
		out.Tone.Locked = false
		for i := range out.Body.Blocks {
			out.Body.Blocks[i].Locked = false
		}
	case PolicyCustom:
	}

	return out
}

// UpdateSectionLock flips exactly one section's lock flag. For BODY it
// flips all body blocks.
func UpdateSectionLock(c model.Canon, section model.Section, locked bool) model.Canon {
	out := c.Clone()

	switch section {
	case model.SectionHook:
		out.Hook.Locked = locked
	case model.SectionCTA:
		out.CTA.Locked = locked
	case model.SectionTone:
		out.Tone.Locked = locked
	case model.SectionBody:
		for i := range out.Body.Blocks {
			out.Body.Blocks[i].Locked = locked
		}
	}

	return out
}

// UpdateBlockLock flips the lock flag of a single body block by ID
func UpdateBlockLock(c model.Canon, blockID string, locked bool) model.Canon {
	out := c.Clone()
	for i := range out.Body.Blocks {
		if out.Body.Blocks[i].ID == blockID {
			out.Body.Blocks[i].Locked = locked
		}
	}
	return out
}

// InheritBlockLocks carries lock state from a prior Canon onto a freshly
// extracted one. Section flags are sticky; body blocks inherit by ID
// correlation, which is best effort: blocks that fail to correlate after a
// large edit simply start unlocked.
func InheritBlockLocks(prior, next model.Canon) model.Canon {
	out := next.Clone()

	out.Hook.Locked = prior.Hook.Locked
	out.CTA.Locked = prior.CTA.Locked
	out.Tone.Locked = prior.Tone.Locked

	lockedIDs := make(map[string]bool, len(prior.Body.Blocks))
	for _, b := range prior.Body.Blocks {
		if b.Locked {
			lockedIDs[b.ID] = true
		}
	}
	for i := range out.Body.Blocks {
		if lockedIDs[out.Body.Blocks[i].ID] {
			out.Body.Blocks[i].Locked = true
		}
	}

	return out
}

// ReapplyLockedSections rebuilds candidate text so that locked framing
// survives: HOOK and CTA come from the original Canon wherever locked
// (otherwise from the candidate), BODY always comes from the candidate, and
// non-empty parts are joined with a blank line. This is the no-model-call
// local revert used when an edit violated a lock.
func ReapplyLockedSections(c model.Canon, candidateText string) string {
	extractor := extract.NewCanonExtractor()
	candidate := extractor.Extract(c.Meta.DraftID, candidateText)

	hook := candidate.Hook.Text
	if c.Hook.Locked {
		hook = c.Hook.Text
	}

	cta := candidate.CTA.Text
	if c.CTA.Locked {
		cta = c.CTA.Text
	}

	return extract.JoinSections(hook, extract.BodyText(candidate), cta)
}
