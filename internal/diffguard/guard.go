// Package diffguard performs the quantitative per-paragraph comparison of
// an anchor-validated rewrite against its source. It must only run on
// output that already passed the anchor guard: the checks assume
// anchor-aligned paragraph pairs.
package diffguard

import (
	"math"
	"strings"
	"unicode"

	"github.com/tuanvm/draftguard/internal/lexicon"
	"github.com/tuanvm/draftguard/internal/model"
)

// Fixed system thresholds. Callers must reproduce exactly these values for
// behavioral compatibility; they are not user-configurable.
const (
	MaxLengthRatio              = 1.5
	MaxSentenceReplacementRatio = 0.4
	MinKeywordPreservationRatio = 0.6

	// A rewritten sentence is "replaced" when no original sentence shares
	// a word-overlap ratio above this with it
	sentenceOverlapThreshold = 0.5

	// Keyword extraction keeps tokens of at least this many runes
	minKeywordLen = 4
)

// ParagraphPair is one anchor-aligned (original, rewritten) pair
type ParagraphPair struct {
	AnchorID  string
	Original  string
	Rewritten string
}

// Result is the outcome of a full-rewrite diff validation. The first
// failing paragraph in anchor order determines Reason and FailedAnchor;
// there is no aggregate score.
type Result struct {
	OK           bool                          `json:"ok" yaml:"ok"`
	Reason       model.DiffFailReason          `json:"reason,omitempty" yaml:"reason,omitempty"`
	FailedAnchor string                        `json:"failed_anchor,omitempty" yaml:"failed_anchor,omitempty"`
	Paragraphs   []model.ParagraphDiffAnalysis `json:"paragraphs" yaml:"paragraphs"`
}

// ValidateRewriteDiff analyzes every pair in anchor order and fails on the
// first failing paragraph
func ValidateRewriteDiff(pairs []ParagraphPair) Result {
	result := Result{OK: true}

	for _, pair := range pairs {
		analysis := AnalyzeParagraph(pair)
		result.Paragraphs = append(result.Paragraphs, analysis)

		if !analysis.Passed && result.OK {
			result.OK = false
			result.Reason = analysis.FailReason
			result.FailedAnchor = pair.AnchorID
		}
	}

	return result
}

// AnalyzeParagraph runs the four checks in the fixed order length,
// sentence replacement, CTA, keywords. All metrics are computed for
// diagnostics but the first failing check determines FailReason.
func AnalyzeParagraph(pair ParagraphPair) model.ParagraphDiffAnalysis {
	analysis := model.ParagraphDiffAnalysis{
		AnchorID:                 pair.AnchorID,
		LengthRatio:              lengthRatio(pair.Original, pair.Rewritten),
		SentenceReplacementRatio: sentenceReplacementRatio(pair.Original, pair.Rewritten),
		CTAAdded:                 !lexicon.IsCTALike(pair.Original) && lexicon.IsCTALike(pair.Rewritten),
		KeywordsPreservedRatio:   keywordsPreservedRatio(pair.Original, pair.Rewritten),
		Passed:                   true,
	}

	switch {
	case analysis.LengthRatio > MaxLengthRatio:
		analysis.Passed = false
		analysis.FailReason = model.DiffLengthExceeded
	case analysis.SentenceReplacementRatio > MaxSentenceReplacementRatio:
		analysis.Passed = false
		analysis.FailReason = model.DiffSentenceReplacementExceeded
	case analysis.CTAAdded:
		analysis.Passed = false
		analysis.FailReason = model.DiffCTAAdded
	case analysis.KeywordsPreservedRatio < MinKeywordPreservationRatio:
		analysis.Passed = false
		analysis.FailReason = model.DiffKeywordsLost
	}

	return analysis
}

func lengthRatio(original, rewritten string) float64 {
	origLen := len([]rune(original))
	rwLen := len([]rune(rewritten))

	if origLen == 0 {
		if rwLen == 0 {
			return 1
		}
		return math.Inf(1)
	}
	return float64(rwLen) / float64(origLen)
}

// sentenceReplacementRatio is replaced/total over the rewritten sentences,
// 0 when the rewrite has no sentences
func sentenceReplacementRatio(original, rewritten string) float64 {
	origSentences := splitSentences(original)
	rwSentences := splitSentences(rewritten)

	if len(rwSentences) == 0 {
		return 0
	}

	replaced := 0
	for _, rw := range rwSentences {
		matched := false
		for _, orig := range origSentences {
			if wordOverlap(orig, rw) > sentenceOverlapThreshold {
				matched = true
				break
			}
		}
		if !matched {
			replaced++
		}
	}

	return float64(replaced) / float64(len(rwSentences))
}

// splitSentences splits on .!? boundaries, trimming and dropping empties
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()

	return sentences
}

// wordOverlap is the Jaccard-style case-insensitive word overlap of two
// sentences
func wordOverlap(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for w := range setA {
		if setB[w] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

func wordSet(text string) map[string]bool {
	set := map[string]bool{}
	for _, w := range tokenize(text) {
		set[w] = true
	}
	return set
}

// keywordsPreservedRatio is |orig ∩ new| / |orig| over keyword sets,
// 1.0 when the original had no keywords
func keywordsPreservedRatio(original, rewritten string) float64 {
	origKeywords := keywordSet(original)
	if len(origKeywords) == 0 {
		return 1
	}

	newKeywords := keywordSet(rewritten)
	preserved := 0
	for k := range origKeywords {
		if newKeywords[k] {
			preserved++
		}
	}

	return float64(preserved) / float64(len(origKeywords))
}

// keywordSet keeps lowercase tokens of minKeywordLen+ runes that are not
// in the bilingual stop-word list
func keywordSet(text string) map[string]bool {
	set := map[string]bool{}
	for _, w := range tokenize(text) {
		if len([]rune(w)) >= minKeywordLen && !lexicon.IsStopWord(w) {
			set[w] = true
		}
	}
	return set
}

// tokenize lowercases and splits on anything that is not a letter or digit
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
