package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tuanvm/draftguard/internal/extract"
	"github.com/tuanvm/draftguard/internal/llm"
	"github.com/tuanvm/draftguard/internal/model"
	"github.com/tuanvm/draftguard/internal/pipeline"
	"github.com/tuanvm/draftguard/internal/session"
	"github.com/tuanvm/draftguard/internal/worker"
)

var (
	editDraftFile   string
	editInstruction string
	editDraftID     string
	editLang        string
	editScope       string
	editJSON        string
	editYAML        string
	editTimeout     time.Duration
	editProvider    string
	editModel       string
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Run one guarded edit round-trip through the configured LLM",
	Long: `Edit resolves the instruction's scope, builds the contract, sends the
prompt to the configured LLM provider and validates the completion with
the structural guard before merging. A rejected completion leaves the
stored canon untouched.

Example:
  draftguard edit --draft post.txt --instruction "viết lại thân bài cho gọn"
  draftguard edit --draft-id post-42 --instruction "polish" --scope TONE --llm-provider ollama --llm-model llama3`,
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVar(&editDraftFile, "draft", "", "draft text file (omit to reuse the stored session canon)")
	editCmd.Flags().StringVar(&editInstruction, "instruction", "", "edit instruction (required)")
	editCmd.Flags().StringVar(&editDraftID, "draft-id", "", "draft session id (defaults to the draft file path)")
	editCmd.Flags().StringVar(&editLang, "lang", "", "instruction language: vi, en (default from config)")
	editCmd.Flags().StringVar(&editScope, "scope", "", "explicit scope pick: HOOK, BODY, CTA, TONE, FULL")
	editCmd.Flags().StringVar(&editJSON, "json", "", "write the full report as JSON to this path")
	editCmd.Flags().StringVar(&editYAML, "yaml", "", "write the full report as YAML to this path")
	editCmd.Flags().DurationVar(&editTimeout, "timeout", 3*time.Minute, "overall round-trip timeout")
	editCmd.Flags().StringVar(&editProvider, "llm-provider", "", "LLM provider (openai, ollama; default from config)")
	editCmd.Flags().StringVar(&editModel, "llm-model", "", "LLM model name (default from config)")

	_ = editCmd.MarkFlagRequired("instruction")
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if editProvider != "" {
		cfg.LLM.Provider = editProvider
	}
	if editModel != "" {
		cfg.LLM.Model = editModel
	}
	if cfg.LLM.Provider == "" {
		return fmt.Errorf("no LLM provider configured (set llm.provider or pass --llm-provider)")
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), editTimeout)
	defer cancel()

	store := session.NewStore(cfg.Session.Dir, cfg.Session.MemoryTTL, cfg.Session.DiskTTL)
	plan, err := buildPlan(cfg, store, planInputs{
		draftFile:   editDraftFile,
		draftID:     editDraftID,
		instruction: editInstruction,
		lang:        editLang,
		scope:       editScope,
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

	system, prompt := buildPrompt(plan)

	limiter := worker.NewLimiter(cfg.LLM.RequestsPerSecond, cfg.LLM.Burst)
	endpoint := cfg.LLM.BaseURL
	if endpoint == "" {
		endpoint = provider.Name()
	}
	if err := limiter.Wait(ctx, endpoint); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Calling %s/%s...\n", provider.Name(), cfg.LLM.Model)
	}

	resp, err := provider.Rewrite(ctx, llm.RewriteRequest{
		System:    system,
		Prompt:    prompt,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	if err != nil {
		return fmt.Errorf("model call failed: %w", err)
	}

	unlock := store.Lock(plan.Canon.Meta.DraftID)
	defer unlock()

	report := pipeline.NewPipeline().Complete(plan, resp.Text)
	renderReport(os.Stdout, report)

	if err := writeReport(report, editJSON, editYAML); err != nil {
		return err
	}

	if report.Validated && report.MergedCanon != nil {
		if err := store.Save(*report.MergedCanon); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		fmt.Println()
		fmt.Println(extract.ReconstructText(*report.MergedCanon))
	}

	return nil
}

// buildPrompt picks the prompt builder matching the plan's branch
func buildPrompt(plan pipeline.Plan) (system, prompt string) {
	if plan.PatchContract != nil {
		return llm.BuildPatchPrompt(*plan.PatchContract, plan.Canon,
			sectionText(plan.Canon, plan.Decision.Target), plan.Instruction)
	}

	anchored := plan.Anchored
	if anchored == nil {
		// Single-paragraph drafts are never anchored; the rewrite prompt
		// still carries the scope contract
		anchored = &model.AnchoredContent{
			AnchoredText:   extract.ReconstructText(plan.Canon),
			ParagraphCount: 1,
		}
	}
	return llm.BuildRewritePrompt(*anchored, plan.Contract, plan.Instruction)
}
