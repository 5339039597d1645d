// Package anchor implements the structural round-trip guard for full
// rewrites: per-paragraph <<Pn>> anchors are injected into the source
// before the model call, and the model's output must preserve every
// anchor, in order, with none added or removed.
package anchor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tuanvm/draftguard/internal/extract"
	"github.com/tuanvm/draftguard/internal/model"
)

// Paragraphs under this rune count are treated as noise, not content
const minParagraphLen = 10

var (
	anchorRe      = regexp.MustCompile(`<<P\d+>>`)
	anchorLineRe  = regexp.MustCompile(`(?m)^[ \t]*<<P\d+>>[ \t]*\n?`)
	excessBlankRe = regexp.MustCompile(`\n{3,}`)
)

// InjectAnchors splits content on blank-line paragraph boundaries, discards
// paragraphs under the noise floor, and prefixes each surviving paragraph
// with a sequential 1-based anchor on its own line.
func InjectAnchors(content string) model.AnchoredContent {
	paragraphs := substantialParagraphs(content)

	anchored := make([]string, 0, len(paragraphs))
	ids := make([]string, 0, len(paragraphs))
	for i, p := range paragraphs {
		id := fmt.Sprintf("<<P%d>>", i+1)
		ids = append(ids, id)
		anchored = append(anchored, id+"\n"+p)
	}

	return model.AnchoredContent{
		AnchoredText:   strings.Join(anchored, "\n\n"),
		AnchorIDs:      ids,
		ParagraphCount: len(paragraphs),
	}
}

// ShouldApplyAnchors reports whether content has at least two substantial
// paragraphs. Single-paragraph content is never anchored: there is nothing
// to protect against reordering.
func ShouldApplyAnchors(content string) bool {
	return len(substantialParagraphs(content)) >= 2
}

func substantialParagraphs(content string) []string {
	var out []string
	for _, p := range extract.SplitParagraphs(content) {
		if len([]rune(p)) >= minParagraphLen {
			out = append(out, p)
		}
	}
	return out
}

// ExtractAnchors returns the anchor tokens in output in the order they
// appear. Duplicates are preserved as found: a duplicate is itself a
// violation signal, not something to deduplicate away.
func ExtractAnchors(output string) []string {
	return anchorRe.FindAllString(output, -1)
}

// ValidateAnchors checks model output against the expected anchor list.
// Order is preserved when the found anchors, restricted to expected
// tokens, form a subsequence of the expected list; this flags reordering
// even when some anchors are simultaneously missing. Valid requires no
// missing, no extra and order preserved; there is no partial-credit mode.
func ValidateAnchors(output string, expected []string) model.AnchorValidationResult {
	found := ExtractAnchors(output)

	expectedSet := make(map[string]bool, len(expected))
	for _, id := range expected {
		expectedSet[id] = true
	}
	foundSet := make(map[string]bool, len(found))
	for _, id := range found {
		foundSet[id] = true
	}

	missing := []string{}
	for _, id := range expected {
		if !foundSet[id] {
			missing = append(missing, id)
		}
	}

	extra := []string{}
	seenExtra := map[string]bool{}
	for _, id := range found {
		if !expectedSet[id] && !seenExtra[id] {
			seenExtra[id] = true
			extra = append(extra, id)
		}
	}

	var relevant []string
	for _, id := range found {
		if expectedSet[id] {
			relevant = append(relevant, id)
		}
	}
	orderPreserved := isSubsequence(relevant, expected)

	return model.AnchorValidationResult{
		Valid:          len(missing) == 0 && len(extra) == 0 && orderPreserved,
		Expected:       expected,
		Found:          found,
		Missing:        missing,
		Extra:          extra,
		OrderPreserved: orderPreserved,
	}
}

// isSubsequence reports whether seq appears within full in order. A
// duplicated token in seq cannot match a single occurrence in full, so
// duplicates break the order check as intended.
func isSubsequence(seq, full []string) bool {
	j := 0
	for _, id := range seq {
		for j < len(full) && full[j] != id {
			j++
		}
		if j == len(full) {
			return false
		}
		j++
	}
	return true
}

// StripAnchors removes all anchor tokens and the blank left behind by
// token-on-own-line placement. Used only for final display; validation
// always runs on the anchor-bearing text.
func StripAnchors(output string) string {
	out := anchorLineRe.ReplaceAllString(output, "")
	out = anchorRe.ReplaceAllString(out, "")
	out = excessBlankRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// SegmentByAnchor splits anchored text into (anchor, paragraph) pairs in
// the order the anchors appear. Text before the first anchor is ignored.
func SegmentByAnchor(text string) map[string]string {
	segments := map[string]string{}

	locs := anchorRe.FindAllStringIndex(text, -1)
	for i, loc := range locs {
		id := text[loc[0]:loc[1]]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		segments[id] = strings.TrimSpace(text[loc[1]:end])
	}

	return segments
}
