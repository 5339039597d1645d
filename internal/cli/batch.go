package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tuanvm/draftguard/internal/extract"
	"github.com/tuanvm/draftguard/internal/lock"
	"github.com/tuanvm/draftguard/internal/model"
	"github.com/tuanvm/draftguard/internal/pipeline"
	"github.com/tuanvm/draftguard/internal/worker"
)

var (
	batchConcurrency int
	batchOutputDir   string
	batchTimeout     time.Duration
	batchLang        string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <cases.yaml>",
	Short: "Validate many draft/instruction/completion cases in parallel",
	Long: `Batch runs the offline guard over a YAML case file. Every case is an
independent round-trip (the pipeline is pure), so cases run concurrently
on a worker pool and each produces its own JSON report.

Case file format:

  cases:
    - id: post-1
      draft_file: drafts/post-1.txt     # or inline: draft: |
      instruction: "viết lại thân bài"
      output_file: completions/post-1.txt   # or inline: output: |
      scope: BODY                       # optional explicit pick
      lang: vi                          # optional

Example:
  draftguard batch cases.yaml --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "./draftguard-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 5*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&batchLang, "lang", "", "default language for cases that do not set one")
}

// batchCase is one entry of the case file
type batchCase struct {
	ID          string `yaml:"id"`
	Draft       string `yaml:"draft"`
	DraftFile   string `yaml:"draft_file"`
	Instruction string `yaml:"instruction"`
	Output      string `yaml:"output"`
	OutputFile  string `yaml:"output_file"`
	Scope       string `yaml:"scope"`
	Lang        string `yaml:"lang"`
}

type batchFile struct {
	Cases []batchCase `yaml:"cases"`
}

// batchJob runs one case through the offline guard
type batchJob struct {
	c         batchCase
	lang      string
	outputDir string
}

// batchResult reports one finished case
type batchResult struct {
	id        string
	validated bool
	reason    model.ReasonCode
	err       error
}

func (r batchResult) Err() error {
	return r.err
}

func (j batchJob) Execute(ctx context.Context) worker.Result {
	res := batchResult{id: j.c.ID}

	draft, output, err := j.materialize()
	if err != nil {
		res.err = err
		return res
	}

	lang := j.c.Lang
	if lang == "" {
		lang = j.lang
	}

	picked, err := parseScopeFlag(j.c.Scope)
	if err != nil {
		res.err = fmt.Errorf("case %s: %w", j.c.ID, err)
		return res
	}

	p := pipeline.NewPipeline()
	canon := extract.NewCanonExtractor().Extract(j.c.ID, draft)
	canon = lock.ApplyCanonLocks(canon, lock.PolicyDefault)
	plan := p.PlanEdit(canon, j.c.Instruction, lang, picked)

	report := p.Complete(plan, output)
	res.validated = report.Validated
	res.reason = report.Reason

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		res.err = fmt.Errorf("case %s: encode report: %w", j.c.ID, err)
		return res
	}
	path := filepath.Join(j.outputDir, j.c.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		res.err = fmt.Errorf("case %s: %w", j.c.ID, err)
	}
	return res
}

func (j batchJob) materialize() (draft, output string, err error) {
	draft = j.c.Draft
	if draft == "" && j.c.DraftFile != "" {
		draft, err = readInput(j.c.DraftFile)
		if err != nil {
			return "", "", fmt.Errorf("case %s: %w", j.c.ID, err)
		}
	}

	output = j.c.Output
	if output == "" && j.c.OutputFile != "" {
		output, err = readInput(j.c.OutputFile)
		if err != nil {
			return "", "", fmt.Errorf("case %s: %w", j.c.ID, err)
		}
	}

	if draft == "" || j.c.Instruction == "" {
		return "", "", fmt.Errorf("case %s: draft and instruction are required", j.c.ID)
	}
	return draft, output, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read case file: %w", err)
	}

	var file batchFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse case file: %w", err)
	}
	if len(file.Cases) == 0 {
		return fmt.Errorf("case file has no cases")
	}

	if err := os.MkdirAll(batchOutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	cfg := loadConfig()
	lang := batchLang
	if lang == "" {
		lang = cfg.Language
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	pool := worker.NewPool(batchConcurrency)
	pool.Start()

	go func() {
		for i, c := range file.Cases {
			if c.ID == "" {
				c.ID = fmt.Sprintf("case-%d", i+1)
			}
			if !pool.Submit(batchJob{c: c, lang: lang, outputDir: batchOutputDir}) {
				return
			}
		}
		pool.Close()
	}()

	accepted, rejected, failed := 0, 0, 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for result := range pool.Results() {
			r := result.(batchResult)
			switch {
			case r.err != nil:
				failed++
				fmt.Fprintf(os.Stderr, "ERROR %s: %v\n", r.id, r.err)
			case r.validated:
				accepted++
				if verbose {
					fmt.Fprintf(os.Stderr, "OK    %s\n", r.id)
				}
			default:
				rejected++
				fmt.Fprintf(os.Stderr, "REJECT %s: %s\n", r.id, r.reason)
			}
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		pool.Stop()
		<-done
		return fmt.Errorf("batch timed out after %v", batchTimeout)
	}

	fmt.Printf("\n%d accepted, %d rejected, %d errors (%d total)\n",
		accepted, rejected, failed, len(file.Cases))
	fmt.Printf("Reports written to %s\n", batchOutputDir)
	return nil
}
