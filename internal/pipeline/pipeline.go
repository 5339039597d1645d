// Package pipeline orchestrates one edit round-trip through the structural
// guard: scope resolution and contract building on the way out, anchor and
// diff validation (or patch-only validation) plus lock-safe merging on the
// way back. Everything here is synchronous, deterministic and pure; the
// model call between Plan and Complete belongs to the caller.
package pipeline

import (
	"github.com/tuanvm/draftguard/internal/anchor"
	"github.com/tuanvm/draftguard/internal/diffguard"
	"github.com/tuanvm/draftguard/internal/extract"
	"github.com/tuanvm/draftguard/internal/lock"
	"github.com/tuanvm/draftguard/internal/model"
	"github.com/tuanvm/draftguard/internal/patch"
	"github.com/tuanvm/draftguard/internal/scope"
)

// Pipeline wires the guard stages together
type Pipeline struct {
	extractor *extract.CanonExtractor
}

// NewPipeline creates a guard pipeline
func NewPipeline() *Pipeline {
	return &Pipeline{extractor: extract.NewCanonExtractor()}
}

// Plan is the outbound half of an edit round-trip: the resolved scope, the
// contracts to inject into the prompt, and the anchored source text for
// full rewrites. Request-scoped: created, consumed and discarded within a
// single round-trip.
type Plan struct {
	Canon         model.Canon              `json:"canon" yaml:"canon"`
	Instruction   string                   `json:"instruction" yaml:"instruction"`
	Language      string                   `json:"language" yaml:"language"`
	Decision      scope.Decision           `json:"decision" yaml:"decision"`
	Contract      model.EditScopeContract  `json:"contract" yaml:"contract"`
	PatchMeta     model.EditPatchMeta      `json:"patch_meta" yaml:"patch_meta"`
	PatchContract *model.PatchOnlyContract `json:"patch_contract,omitempty" yaml:"patch_contract,omitempty"`
	Anchored      *model.AnchoredContent   `json:"anchored,omitempty" yaml:"anchored,omitempty"`
	GateRequired  bool                     `json:"gate_required" yaml:"gate_required"`
}

// PlanFromDraft extracts a Canon from raw draft text, applies the default
// lock policy and plans the edit
func (p *Pipeline) PlanFromDraft(draftID, draftText, instruction, lang string) Plan {
	canon := p.extractor.Extract(draftID, draftText)
	canon = lock.ApplyCanonLocks(canon, lock.PolicyDefault)
	return p.PlanEdit(canon, instruction, lang, nil)
}

// PlanEdit resolves the scope of an instruction against an active Canon.
// A non-nil picked target (the user's explicit choice) overrides detection
// and disables the ambiguity gate.
func (p *Pipeline) PlanEdit(canon model.Canon, instruction, lang string, picked *model.Section) Plan {
	plan := Plan{
		Canon:       canon,
		Instruction: instruction,
		Language:    lang,
	}

	if picked != nil {
		plan.Decision = scope.UserPicked(*picked)
	} else {
		plan.Decision = scope.DetectEditTarget(instruction, lang)
		plan.GateRequired = scope.ShouldGateForScopePick(instruction, !canon.IsEmpty(), lang)
	}

	plan.Contract = patch.BuildEditScopeContract(plan.Decision, canon)
	plan.PatchMeta = patch.BuildEditPatchMeta(plan.Decision.Target)
	plan.PatchContract = patch.BuildOutputContractFromMeta(plan.PatchMeta)

	if plan.Decision.Target == model.SectionFull {
		source := extract.ReconstructText(canon)
		if anchor.ShouldApplyAnchors(source) {
			anchored := anchor.InjectAnchors(source)
			plan.Anchored = &anchored
		}
	}

	return plan
}

// Complete validates the raw model completion against the plan and, when
// every guard passes, merges it into a new Canon. A failed guard leaves the
// prior Canon intact: at most one accepted mutation per round-trip.
func (p *Pipeline) Complete(plan Plan, modelOutput string) model.GuardReport {
	if plan.GateRequired {
		return model.GuardReport{
			Reason: model.ReasonScopeGateRequired,
		}
	}

	if plan.Decision.Target == model.SectionFull {
		return p.completeFullRewrite(plan, modelOutput)
	}
	return p.completeScopedEdit(plan, modelOutput)
}

// completeScopedEdit handles the patch branch: the model's view never
// included other sections, and the merge must not touch them either
func (p *Pipeline) completeScopedEdit(plan Plan, modelOutput string) model.GuardReport {
	contract := plan.PatchContract
	if contract == nil {
		// Defensive: scoped targets always carry a patch contract
		c := patch.BuildOutputContractFromMeta(patch.BuildEditPatchMeta(plan.Decision.Target))
		contract = c
	}

	validation := patch.ValidatePatchOnlyOutput(modelOutput, *contract)
	report := model.GuardReport{
		PatchErrors:    validation.Errors,
		WasFullRewrite: validation.WasFullRewrite,
	}

	if !validation.Valid {
		if validation.WasFullRewrite {
			report.Reason = model.ReasonFullRewriteDetected
		} else {
			report.Reason = model.ReasonPatchTargetNotAllowed
		}
		return report
	}

	var merged model.Canon
	if plan.Decision.Target == model.SectionTone {
		// Tone has no section text of its own; the polished text merges
		// through re-extraction with locked framing reapplied
		merged = patch.MergeEditPatch(plan.Canon, validation.Patches[0].Content, model.SectionTone)
	} else {
		merged = patch.ApplyPatches(plan.Canon, validation.Patches)
	}

	drift := extract.CompareCanons(plan.Canon, merged)
	report.Validated = true
	report.Reason = model.ReasonOK
	report.MergedCanon = &merged
	report.Drift = &drift
	return report
}

// completeFullRewrite handles the anchored branch. The anchor guard always
// runs to completion before the diff guard; diff checks assume
// anchor-aligned paragraphs and never run on anchor-invalid output.
func (p *Pipeline) completeFullRewrite(plan Plan, modelOutput string) model.GuardReport {
	if plan.Anchored == nil {
		// Single-paragraph content is never anchored; the diff guard still
		// applies to the one paragraph there is
		pair := diffguard.ParagraphPair{
			AnchorID:  "<<P1>>",
			Original:  extract.ReconstructText(plan.Canon),
			Rewritten: modelOutput,
		}
		diff := diffguard.ValidateRewriteDiff([]diffguard.ParagraphPair{pair})
		if !diff.OK {
			return model.GuardReport{
				Reason:     model.ReasonDiffExceeded,
				SubReason:  diff.Reason,
				Paragraphs: diff.Paragraphs,
			}
		}
		return p.mergeRewrite(plan, modelOutput, diff.Paragraphs, nil)
	}

	anchorResult := anchor.ValidateAnchors(modelOutput, plan.Anchored.AnchorIDs)
	if !anchorResult.Valid {
		return model.GuardReport{
			Reason: model.ReasonAnchorMismatch,
			Anchor: &anchorResult,
		}
	}

	originals := anchor.SegmentByAnchor(plan.Anchored.AnchoredText)
	rewrites := anchor.SegmentByAnchor(modelOutput)

	pairs := make([]diffguard.ParagraphPair, 0, len(plan.Anchored.AnchorIDs))
	for _, id := range plan.Anchored.AnchorIDs {
		pairs = append(pairs, diffguard.ParagraphPair{
			AnchorID:  id,
			Original:  originals[id],
			Rewritten: rewrites[id],
		})
	}

	diff := diffguard.ValidateRewriteDiff(pairs)
	if !diff.OK {
		return model.GuardReport{
			Reason:     model.ReasonDiffExceeded,
			SubReason:  diff.Reason,
			Anchor:     &anchorResult,
			Paragraphs: diff.Paragraphs,
		}
	}

	return p.mergeRewrite(plan, anchor.StripAnchors(modelOutput), diff.Paragraphs, &anchorResult)
}

// mergeRewrite merges validated rewrite text into the Canon, reporting any
// locked sections that had to be repaired from the original
func (p *Pipeline) mergeRewrite(plan Plan, candidateText string, paragraphs []model.ParagraphDiffAnalysis, anchorResult *model.AnchorValidationResult) model.GuardReport {
	repaired := p.repairedLockedSections(plan.Canon, candidateText)

	merged := patch.MergeEditPatch(plan.Canon, candidateText, model.SectionFull)
	drift := extract.CompareCanons(plan.Canon, merged)

	return model.GuardReport{
		Validated:      true,
		Reason:         model.ReasonOK,
		MergedCanon:    &merged,
		Drift:          &drift,
		Anchor:         anchorResult,
		Paragraphs:     paragraphs,
		RepairedLocked: repaired,
	}
}

// repairedLockedSections reports which locked framing sections the
// candidate text tried to change; the merge reverts those to the original
func (p *Pipeline) repairedLockedSections(c model.Canon, candidateText string) []model.Section {
	candidate := p.extractor.Extract(c.Meta.DraftID, candidateText)

	var repaired []model.Section
	if c.Hook.Locked && candidate.Hook.Text != c.Hook.Text {
		repaired = append(repaired, model.SectionHook)
	}
	if c.CTA.Locked && candidate.CTA.Text != c.CTA.Text {
		repaired = append(repaired, model.SectionCTA)
	}
	return repaired
}
