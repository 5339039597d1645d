package model

// ScopeSource records how an edit scope decision was made
type ScopeSource string

const (
	SourceExplicitInstruction ScopeSource = "EXPLICIT_INSTRUCTION"
	SourceHeuristic           ScopeSource = "HEURISTIC"
	SourceUserPicked          ScopeSource = "USER_PICKED"
)

// Confidence grades a scope decision
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// EditOp is an operation the model is allowed to perform on the target
type EditOp string

const (
	OpRewrite        EditOp = "REWRITE"
	OpMicroPolish    EditOp = "MICRO_POLISH"
	OpFlowSmoothing  EditOp = "FLOW_SMOOTHING"
	OpClarityImprove EditOp = "CLARITY_IMPROVE"
	OpShorten        EditOp = "SHORTEN"
	OpExpand         EditOp = "EXPAND"
)

// EditScopeContract is the resolved scope of one edit round-trip.
// LockedSections is the union of the sections implied locked by Target and
// the sections already locked in the active Canon; it never includes Target.
type EditScopeContract struct {
	Target         Section     `json:"target" yaml:"target"`
	LockedSections []Section   `json:"locked_sections" yaml:"locked_sections"`
	AllowedOps     []EditOp    `json:"allowed_ops" yaml:"allowed_ops"`
	Source         ScopeSource `json:"source" yaml:"source"`
	Confidence     Confidence  `json:"confidence" yaml:"confidence"`
	Reason         string      `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// PatchMode distinguishes scoped patch edits from full rewrites
type PatchMode string

const (
	ModePatch PatchMode = "PATCH"
	ModeFull  PatchMode = "FULL"
)

// EditPatchMeta describes the outbound shape of one edit request
type EditPatchMeta struct {
	Target             Section   `json:"target" yaml:"target"`
	Mode               PatchMode `json:"mode" yaml:"mode"`
	PreserveSections   []Section `json:"preserve_sections" yaml:"preserve_sections"`
	AllowPartialOutput bool      `json:"allow_partial_output" yaml:"allow_partial_output"`
}

// PatchAction is how patch content combines with the existing section text
type PatchAction string

const (
	ActionReplace PatchAction = "REPLACE"
	ActionAppend  PatchAction = "APPEND"
	ActionPrepend PatchAction = "PREPEND"
)

// PatchOnlyContract is the machine-readable contract injected into the
// outbound prompt for scoped edits. Derived 1:1 from an EditPatchMeta in
// PATCH mode; nil when the mode is FULL.
type PatchOnlyContract struct {
	Mode                  string      `json:"mode" yaml:"mode"` // always "PATCH_ONLY"
	Targets               []Section   `json:"targets" yaml:"targets"`
	PreserveOtherSections bool        `json:"preserve_other_sections" yaml:"preserve_other_sections"`
	DefaultAction         PatchAction `json:"default_action" yaml:"default_action"`
}

// PatchOnlyMode is the fixed mode string of a PatchOnlyContract
const PatchOnlyMode = "PATCH_ONLY"

// Patch is a single-target, single-action content change, either parsed
// from a [PATCH]...[/PATCH] block or synthesized as a single-target fallback
type Patch struct {
	Target  Section     `json:"target" yaml:"target"`
	Action  PatchAction `json:"action" yaml:"action"`
	Content string      `json:"content" yaml:"content"`
}
