package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tuanvm/draftguard/internal/extract"
	"github.com/tuanvm/draftguard/internal/model"
	"github.com/tuanvm/draftguard/internal/pipeline"
)

// readInput reads a file argument, with "-" meaning stdin
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// renderPlan prints the outbound half of a round-trip for the user
func renderPlan(w io.Writer, plan pipeline.Plan) {
	fmt.Fprintf(w, "Target:      %s (%s, %s)\n", plan.Decision.Target, plan.Decision.Confidence, plan.Decision.Source)
	fmt.Fprintf(w, "Reason:      %s\n", plan.Decision.Reason)
	fmt.Fprintf(w, "Locked:      %s\n", joinSectionNames(plan.Contract.LockedSections))
	if plan.Anchored != nil {
		fmt.Fprintf(w, "Anchors:     %d paragraphs\n", plan.Anchored.ParagraphCount)
	}
}

// renderGate prints the scope disambiguation request
func renderGate(w io.Writer, plan pipeline.Plan) {
	fmt.Fprintln(w, "The instruction is ambiguous; pick a scope before editing:")
	fmt.Fprintln(w, "  --scope HOOK    edit only the opening line")
	fmt.Fprintln(w, "  --scope BODY    edit only the body")
	fmt.Fprintln(w, "  --scope CTA     edit only the call to action")
	fmt.Fprintln(w, "  --scope TONE    adjust the voice without restructuring")
	fmt.Fprintln(w, "  --scope FULL    allow a guarded full rewrite")
	fmt.Fprintf(w, "\nInstruction: %q\n", plan.Instruction)
}

// renderReport prints a human-readable guard outcome
func renderReport(w io.Writer, report model.GuardReport) {
	if report.Validated {
		fmt.Fprintf(w, "✓ Edit accepted (%s)\n", report.Reason)
	} else {
		fmt.Fprintf(w, "✗ Edit rejected: %s\n", report.Reason)
	}

	if report.SubReason != "" {
		fmt.Fprintf(w, "  Sub-reason:  %s\n", report.SubReason)
	}
	for _, e := range report.PatchErrors {
		fmt.Fprintf(w, "  Patch:       %s\n", e)
	}
	if report.WasFullRewrite {
		fmt.Fprintln(w, "  Note:        model ignored the patch protocol; output handled as full section content")
	}
	if report.Anchor != nil && !report.Anchor.Valid {
		if len(report.Anchor.Missing) > 0 {
			fmt.Fprintf(w, "  Missing:     %s\n", strings.Join(report.Anchor.Missing, ", "))
		}
		if len(report.Anchor.Extra) > 0 {
			fmt.Fprintf(w, "  Extra:       %s\n", strings.Join(report.Anchor.Extra, ", "))
		}
		if !report.Anchor.OrderPreserved {
			fmt.Fprintln(w, "  Order:       anchors reordered")
		}
	}
	if len(report.RepairedLocked) > 0 {
		fmt.Fprintf(w, "  Repaired:    %s (locked sections restored from original)\n", joinSectionNames(report.RepairedLocked))
	}
	if report.Drift != nil && report.Drift.Changed() {
		fmt.Fprintf(w, "  Changed:     %s\n", joinSectionNames(report.Drift.ChangedSections))
	}
	if report.MergedCanon != nil {
		fmt.Fprintf(w, "  Revision:    %d\n", report.MergedCanon.Meta.Revision)
	}
}

// writeReport writes the structured report to the requested paths
func writeReport(report model.GuardReport, jsonPath, yamlPath string) error {
	if jsonPath != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", jsonPath, err)
		}
	}

	if yamlPath != "" {
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		if err := os.WriteFile(yamlPath, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", yamlPath, err)
		}
	}

	return nil
}

// sectionText returns the current text of the target section
func sectionText(c model.Canon, target model.Section) string {
	switch target {
	case model.SectionHook:
		return c.Hook.Text
	case model.SectionCTA:
		return c.CTA.Text
	case model.SectionBody:
		return extract.BodyText(c)
	default:
		return extract.ReconstructText(c)
	}
}

func joinSectionNames(sections []model.Section) string {
	if len(sections) == 0 {
		return "(none)"
	}
	parts := make([]string, len(sections))
	for i, s := range sections {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

// parseScopeFlag validates an explicit --scope value
func parseScopeFlag(value string) (*model.Section, error) {
	if value == "" {
		return nil, nil
	}
	s := model.Section(strings.ToUpper(strings.TrimSpace(value)))
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scope %q (use HOOK, BODY, CTA, TONE or FULL)", value)
	}
	return &s, nil
}
