package model

// AnchoredContent is the result of injecting paragraph anchors into a draft
// before a full rewrite. AnchorIDs is ordered and duplicate-free at creation
// time; duplicates can appear only in model output, which is a violation.
type AnchoredContent struct {
	AnchoredText   string   `json:"anchored_text" yaml:"anchored_text"`
	AnchorIDs      []string `json:"anchor_ids" yaml:"anchor_ids"`
	ParagraphCount int      `json:"paragraph_count" yaml:"paragraph_count"`
}

// AnchorValidationResult reports whether model output preserved every
// injected anchor, in order, with none added or removed.
// Valid == (len(Missing)==0 && len(Extra)==0 && OrderPreserved).
type AnchorValidationResult struct {
	Valid          bool     `json:"valid" yaml:"valid"`
	Expected       []string `json:"expected" yaml:"expected"`
	Found          []string `json:"found" yaml:"found"`
	Missing        []string `json:"missing" yaml:"missing"`
	Extra          []string `json:"extra" yaml:"extra"`
	OrderPreserved bool     `json:"order_preserved" yaml:"order_preserved"`
}

// DiffFailReason is the sub-reason reported by the diff guard
type DiffFailReason string

const (
	DiffLengthExceeded              DiffFailReason = "LENGTH_EXCEEDED"
	DiffSentenceReplacementExceeded DiffFailReason = "SENTENCE_REPLACEMENT_EXCEEDED"
	DiffCTAAdded                    DiffFailReason = "CTA_ADDED"
	DiffKeywordsLost                DiffFailReason = "KEYWORDS_LOST"
)

// ParagraphDiffAnalysis is the per-anchor quantitative comparison of an
// original paragraph against its rewrite. FailReason is the first failing
// check in the fixed order length, sentence replacement, CTA, keywords.
type ParagraphDiffAnalysis struct {
	AnchorID                 string         `json:"anchor_id" yaml:"anchor_id"`
	LengthRatio              float64        `json:"length_ratio" yaml:"length_ratio"`
	SentenceReplacementRatio float64        `json:"sentence_replacement_ratio" yaml:"sentence_replacement_ratio"`
	CTAAdded                 bool           `json:"cta_added" yaml:"cta_added"`
	KeywordsPreservedRatio   float64        `json:"keywords_preserved_ratio" yaml:"keywords_preserved_ratio"`
	Passed                   bool           `json:"passed" yaml:"passed"`
	FailReason               DiffFailReason `json:"fail_reason,omitempty" yaml:"fail_reason,omitempty"`
}

// ReasonCode is the machine-checkable outcome surfaced at the core boundary
type ReasonCode string

const (
	ReasonOK                    ReasonCode = "OK"
	ReasonAnchorMismatch        ReasonCode = "REWRITE_ANCHOR_MISMATCH"
	ReasonDiffExceeded          ReasonCode = "REWRITE_DIFF_EXCEEDED"
	ReasonPatchTargetNotAllowed ReasonCode = "PATCH_TARGET_NOT_ALLOWED"
	ReasonFullRewriteDetected   ReasonCode = "FULL_REWRITE_DETECTED"
	ReasonScopeGateRequired     ReasonCode = "SCOPE_GATE_REQUIRED"
)

// BlockChangeKind classifies one body-block difference
type BlockChangeKind string

const (
	BlockAdded    BlockChangeKind = "added"
	BlockRemoved  BlockChangeKind = "removed"
	BlockModified BlockChangeKind = "modified"
)

// BlockChange is one body-block difference between two Canon snapshots
type BlockChange struct {
	ID     string          `json:"id" yaml:"id"`
	Kind   BlockChangeKind `json:"kind" yaml:"kind"`
	Locked bool            `json:"locked" yaml:"locked"`
}

// CanonDiff reports which sections changed between two Canon snapshots,
// including whether a locked section changed
type CanonDiff struct {
	ChangedSections []Section     `json:"changed_sections" yaml:"changed_sections"`
	LockedChanged   []Section     `json:"locked_changed" yaml:"locked_changed"`
	BlockChanges    []BlockChange `json:"block_changes,omitempty" yaml:"block_changes,omitempty"`
}

// Changed reports whether any section differs
func (d CanonDiff) Changed() bool {
	return len(d.ChangedSections) > 0
}

// LockedViolated reports whether any locked section changed
func (d CanonDiff) LockedViolated() bool {
	return len(d.LockedChanged) > 0
}

// GuardReport is the validated/merged result of one edit round-trip.
// A failed guard means "do not apply this merge": MergedCanon is nil and
// the prior Canon stays intact.
type GuardReport struct {
	Validated      bool                    `json:"validated" yaml:"validated"`
	Reason         ReasonCode              `json:"reason" yaml:"reason"`
	SubReason      DiffFailReason          `json:"sub_reason,omitempty" yaml:"sub_reason,omitempty"`
	MergedCanon    *Canon                  `json:"merged_canon,omitempty" yaml:"merged_canon,omitempty"`
	Drift          *CanonDiff              `json:"drift,omitempty" yaml:"drift,omitempty"`
	Anchor         *AnchorValidationResult `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	Paragraphs     []ParagraphDiffAnalysis `json:"paragraphs,omitempty" yaml:"paragraphs,omitempty"`
	PatchErrors    []string                `json:"patch_errors,omitempty" yaml:"patch_errors,omitempty"`
	WasFullRewrite bool                    `json:"was_full_rewrite,omitempty" yaml:"was_full_rewrite,omitempty"`
	RepairedLocked []Section               `json:"repaired_locked,omitempty" yaml:"repaired_locked,omitempty"`
}
