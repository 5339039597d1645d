// Package scope maps a free-text edit instruction to an edit target and
// decides whether the ambiguity is high enough to require the user to pick
// the scope explicitly.
package scope

import (
	"github.com/tuanvm/draftguard/internal/lexicon"
	"github.com/tuanvm/draftguard/internal/model"
)

// Instructions longer than this carry enough context that gating on
// ambiguity would only annoy the user
const maxGateInstructionLen = 140

// Decision is a resolved edit scope
type Decision struct {
	Target     model.Section     `json:"target" yaml:"target"`
	Confidence model.Confidence  `json:"confidence" yaml:"confidence"`
	Source     model.ScopeSource `json:"source" yaml:"source"`
	Reason     string            `json:"reason" yaml:"reason"`
}

// DetectEditTarget resolves an instruction to a target section. Checks run
// in a fixed order: structured multi-section markers, per-target keyword
// families (first matching family wins), known ambiguous phrases, then the
// FULL default.
func DetectEditTarget(instruction, lang string) Decision {
	if lexicon.MarkerFamilyCount(instruction) >= 3 {
		return Decision{
			Target:     model.SectionFull,
			Confidence: model.ConfidenceHigh,
			Source:     model.SourceExplicitInstruction,
			Reason:     "structured hook/body/cta markers present",
		}
	}

	for _, rule := range lexicon.TargetRules(lang) {
		for _, p := range rule.Patterns {
			if p.MatchString(instruction) {
				return Decision{
					Target:     rule.Target,
					Confidence: model.ConfidenceHigh,
					Source:     model.SourceExplicitInstruction,
					Reason:     "instruction names " + rule.Target.String(),
				}
			}
		}
	}

	if lexicon.MatchesAmbiguousPhrase(instruction, lang) {
		return Decision{
			Target:     model.SectionFull,
			Confidence: model.ConfidenceLow,
			Source:     model.SourceHeuristic,
			Reason:     "generic instruction with no scope object",
		}
	}

	return Decision{
		Target:     model.SectionFull,
		Confidence: model.ConfidenceMedium,
		Source:     model.SourceHeuristic,
		Reason:     "no scope signal, defaulting to full rewrite",
	}
}

// UserPicked builds the decision for an explicit scope selection
func UserPicked(target model.Section) Decision {
	return Decision{
		Target:     target,
		Confidence: model.ConfidenceHigh,
		Source:     model.SourceUserPicked,
		Reason:     "scope picked by user",
	}
}

// ShouldGateForScopePick decides whether the user must disambiguate the
// scope before any model call. Never gates long instructions, structured
// instructions, or edits with no active canon to protect.
func ShouldGateForScopePick(instruction string, hasActiveCanon bool, lang string) bool {
	if len([]rune(instruction)) > maxGateInstructionLen {
		return false
	}
	if lexicon.MarkerFamilyCount(instruction) >= 3 {
		return false
	}
	if !hasActiveCanon {
		return false
	}

	d := DetectEditTarget(instruction, lang)
	switch d.Confidence {
	case model.ConfidenceLow:
		return true
	case model.ConfidenceMedium:
		return lexicon.MatchesAmbiguousPhrase(instruction, lang)
	default:
		return false
	}
}

// lockedByTarget is the fixed lookup of sections a target implies locked.
// The target itself is never in its own list.
var lockedByTarget = map[model.Section][]model.Section{
	model.SectionHook: {model.SectionBody, model.SectionCTA},
	model.SectionBody: {model.SectionHook, model.SectionCTA},
	model.SectionCTA:  {model.SectionHook, model.SectionBody},
	model.SectionTone: {},
	model.SectionFull: {},
}

// LockedSectionsForTarget returns the sections implied locked by a target
func LockedSectionsForTarget(target model.Section) []model.Section {
	return append([]model.Section{}, lockedByTarget[target]...)
}

// allowedOpsByTarget is the fixed lookup of operations permitted per
// target. TONE locks no sections but is limited to light-touch operations.
var allowedOpsByTarget = map[model.Section][]model.EditOp{
	model.SectionHook: {model.OpRewrite, model.OpMicroPolish, model.OpClarityImprove, model.OpShorten},
	model.SectionBody: {model.OpRewrite, model.OpMicroPolish, model.OpFlowSmoothing, model.OpClarityImprove, model.OpShorten, model.OpExpand},
	model.SectionCTA:  {model.OpRewrite, model.OpMicroPolish, model.OpShorten},
	model.SectionTone: {model.OpMicroPolish, model.OpFlowSmoothing, model.OpClarityImprove},
	model.SectionFull: {model.OpRewrite, model.OpFlowSmoothing, model.OpClarityImprove, model.OpShorten, model.OpExpand},
}

// AllowedOpsForTarget returns the operations permitted for a target
func AllowedOpsForTarget(target model.Section) []model.EditOp {
	return append([]model.EditOp{}, allowedOpsByTarget[target]...)
}
