package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tuanvm/draftguard/internal/extract"
	"github.com/tuanvm/draftguard/internal/lock"
	"github.com/tuanvm/draftguard/internal/model"
	"github.com/tuanvm/draftguard/internal/pipeline"
	"github.com/tuanvm/draftguard/internal/session"
)

var (
	checkDraftFile   string
	checkOutputFile  string
	checkInstruction string
	checkDraftID     string
	checkLang        string
	checkScope       string
	checkJSON        string
	checkYAML        string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a model completion against the structural guard (offline)",
	Long: `Check runs the guard pipeline with no model call: the completion to
validate is read from a file (or stdin). Useful for regression suites,
prompt debugging, and validating completions produced elsewhere.

Example:
  draftguard check --draft post.txt --instruction "sửa lại mở đầu" --output completion.txt
  draftguard check --draft-id post-42 --instruction "rewrite the hook" --scope HOOK --output -`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkDraftFile, "draft", "", "draft text file (omit to reuse the stored session canon)")
	checkCmd.Flags().StringVar(&checkInstruction, "instruction", "", "edit instruction (required)")
	checkCmd.Flags().StringVar(&checkOutputFile, "output", "", "model completion file to validate, '-' for stdin (required)")
	checkCmd.Flags().StringVar(&checkDraftID, "draft-id", "", "draft session id (defaults to the draft file path)")
	checkCmd.Flags().StringVar(&checkLang, "lang", "", "instruction language: vi, en (default from config)")
	checkCmd.Flags().StringVar(&checkScope, "scope", "", "explicit scope pick: HOOK, BODY, CTA, TONE, FULL")
	checkCmd.Flags().StringVar(&checkJSON, "json", "", "write the full report as JSON to this path")
	checkCmd.Flags().StringVar(&checkYAML, "yaml", "", "write the full report as YAML to this path")

	_ = checkCmd.MarkFlagRequired("instruction")
	_ = checkCmd.MarkFlagRequired("output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store := session.NewStore(cfg.Session.Dir, cfg.Session.MemoryTTL, cfg.Session.DiskTTL)

	plan, err := buildPlan(cfg, store, planInputs{
		draftFile:   checkDraftFile,
		draftID:     checkDraftID,
		instruction: checkInstruction,
		lang:        checkLang,
		scope:       checkScope,
	})
	if err != nil {
		return err
	}

	if verbose {
		renderPlan(os.Stderr, plan)
	}

	if plan.GateRequired {
		renderGate(os.Stdout, plan)
		return nil
	}

	completion, err := readInput(checkOutputFile)
	if err != nil {
		return err
	}

	unlock := store.Lock(plan.Canon.Meta.DraftID)
	defer unlock()

	report := pipeline.NewPipeline().Complete(plan, completion)
	renderReport(os.Stdout, report)

	if err := writeReport(report, checkJSON, checkYAML); err != nil {
		return err
	}

	if report.Validated && report.MergedCanon != nil {
		if err := store.Save(*report.MergedCanon); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	}

	return nil
}

// planInputs are the shared draft/instruction arguments of check and edit
type planInputs struct {
	draftFile   string
	draftID     string
	instruction string
	lang        string
	scope       string
}

// buildPlan loads or extracts the active Canon and plans the edit. A stored
// session canon wins over re-extraction so locks and revisions survive
// across invocations; a fresh draft gets the default lock policy.
func buildPlan(cfg *model.Config, store *session.Store, in planInputs) (pipeline.Plan, error) {
	lang := in.lang
	if lang == "" {
		lang = cfg.Language
	}

	picked, err := parseScopeFlag(in.scope)
	if err != nil {
		return pipeline.Plan{}, err
	}

	draftID := in.draftID
	if draftID == "" {
		draftID = in.draftFile
	}
	if draftID == "" || draftID == "-" {
		return pipeline.Plan{}, fmt.Errorf("either --draft or --draft-id is required")
	}

	p := pipeline.NewPipeline()

	canon, found, err := store.Load(draftID)
	if err != nil {
		return pipeline.Plan{}, err
	}

	if !found {
		if in.draftFile == "" {
			return pipeline.Plan{}, fmt.Errorf("no stored session for draft %q and no --draft file given", draftID)
		}
		draftText, err := readInput(in.draftFile)
		if err != nil {
			return pipeline.Plan{}, err
		}
		canon = extract.NewCanonExtractor().Extract(draftID, draftText)
		canon = lock.ApplyCanonLocks(canon, lock.PolicyDefault)
		if err := store.Save(canon); err != nil {
			return pipeline.Plan{}, fmt.Errorf("save session: %w", err)
		}
	}

	return p.PlanEdit(canon, in.instruction, lang, picked), nil
}
