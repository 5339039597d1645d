package extract

import (
	"strings"
	"time"
	"unicode"

	"github.com/tuanvm/draftguard/internal/lexicon"
	"github.com/tuanvm/draftguard/internal/model"
)

// CanonExtractor parses raw draft text into a structured Canon
type CanonExtractor struct{}

// NewCanonExtractor creates a new canon extractor
func NewCanonExtractor() *CanonExtractor {
	return &CanonExtractor{}
}

// Extract parses a draft into a Canon. It never fails: empty or
// whitespace-only input yields an empty Canon with revision 1.
func (e *CanonExtractor) Extract(draftID, raw string) model.Canon {
	now := time.Now().UTC()
	canon := model.Canon{
		Tone: model.ToneState{ID: model.ToneNeutral},
		Meta: model.CanonMeta{
			DraftID:   draftID,
			CreatedAt: now,
			UpdatedAt: now,
			Revision:  1,
		},
	}

	text := NormalizeDraft(raw)
	if strings.TrimSpace(text) == "" {
		return canon
	}

	hook, body, cta, marked := splitByMarkers(text)
	if !marked {
		hook, body, cta = splitByParagraphHeuristic(text)
	}

	canon.Hook.Text = strings.TrimSpace(hook)
	canon.CTA.Text = strings.TrimSpace(cta)
	canon.Body.Blocks = splitBodyBlocks(body)
	canon.Tone.ID = lexicon.ClassifyTone(text)

	return canon
}

// splitByMarkers scans lines for section markers (## Hook, Hook:, **Hook**
// and Vietnamese equivalents). Returns marked=false when no marker is found
// anywhere in the text.
func splitByMarkers(text string) (hook, body, cta string, marked bool) {
	var current model.Section
	var preamble []string
	parts := map[model.Section][]string{}

	for _, line := range strings.Split(text, "\n") {
		if section, inline, ok := lexicon.MatchSectionMarker(line); ok {
			marked = true
			current = section
			if inline != "" {
				parts[current] = append(parts[current], inline)
			}
			continue
		}
		if current != "" {
			parts[current] = append(parts[current], line)
		} else {
			preamble = append(preamble, line)
		}
	}

	if !marked {
		return "", "", "", false
	}

	join := func(s model.Section) string {
		return strings.TrimSpace(strings.Join(parts[s], "\n"))
	}
	hook, body, cta = join(model.SectionHook), join(model.SectionBody), join(model.SectionCTA)

	// Text before the first marker is the hook when no hook marker exists
	// (drafts often mark only Body/CTA and open with a bare first line)
	if hook == "" {
		hook = strings.TrimSpace(strings.Join(preamble, "\n"))
	}

	return hook, body, cta, true
}

// splitByParagraphHeuristic is the fallback when no markers exist: first
// paragraph is the hook; a CTA-looking last paragraph is the CTA; the rest
// is body.
func splitByParagraphHeuristic(text string) (hook, body, cta string) {
	paragraphs := SplitParagraphs(text)
	if len(paragraphs) == 0 {
		return "", "", ""
	}

	hook = paragraphs[0]
	rest := paragraphs[1:]

	if len(paragraphs) >= 2 && lexicon.IsCTALike(paragraphs[len(paragraphs)-1]) {
		cta = paragraphs[len(paragraphs)-1]
		rest = paragraphs[1 : len(paragraphs)-1]
	}

	body = strings.Join(rest, "\n\n")
	return hook, body, cta
}

// SplitParagraphs splits text on blank-line boundaries, trimming each
// paragraph and dropping empty ones
func SplitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// splitBodyBlocks splits body text on blank lines into role-classified
// blocks with stable-derived correlation IDs
func splitBodyBlocks(body string) []model.BodyBlock {
	paragraphs := SplitParagraphs(body)
	if len(paragraphs) == 0 {
		return nil
	}

	blocks := make([]model.BodyBlock, 0, len(paragraphs))
	for i, p := range paragraphs {
		blocks = append(blocks, model.BodyBlock{
			ID:   model.BlockID(p, i),
			Text: p,
			Role: ClassifyRole(p),
		})
	}
	return blocks
}

// ClassifyRole assigns a role to a body block by a cheap structural test
func ClassifyRole(text string) model.BlockRole {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return model.RoleOther
	}

	switch {
	case strings.HasPrefix(trimmed, "#"):
		return model.RoleHeading
	case strings.HasPrefix(trimmed, "-"), strings.HasPrefix(trimmed, "*"):
		return model.RoleList
	case startsWithNumeral(trimmed):
		return model.RoleList
	case strings.HasPrefix(trimmed, ">"), strings.HasPrefix(trimmed, `"`), strings.HasPrefix(trimmed, "“"):
		return model.RoleQuote
	default:
		return model.RoleParagraph
	}
}

func startsWithNumeral(s string) bool {
	r := []rune(s)
	if !unicode.IsDigit(r[0]) {
		return false
	}
	for i := 1; i < len(r); i++ {
		if unicode.IsDigit(r[i]) {
			continue
		}
		return r[i] == '.' || r[i] == ')' || r[i] == '/'
	}
	return false
}
