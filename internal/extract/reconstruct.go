package extract

import (
	"strings"

	"github.com/tuanvm/draftguard/internal/model"
)

// BodyText joins the body blocks with blank lines
func BodyText(c model.Canon) string {
	if len(c.Body.Blocks) == 0 {
		return ""
	}
	parts := make([]string, 0, len(c.Body.Blocks))
	for _, b := range c.Body.Blocks {
		if strings.TrimSpace(b.Text) != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// ReconstructText rebuilds the draft text from a Canon: non-empty hook,
// body and CTA joined with blank lines. Empty sections contribute nothing.
func ReconstructText(c model.Canon) string {
	return JoinSections(c.Hook.Text, BodyText(c), c.CTA.Text)
}

// JoinSections joins non-empty section texts with a blank line
func JoinSections(sections ...string) string {
	var parts []string
	for _, s := range sections {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	return strings.Join(parts, "\n\n")
}
