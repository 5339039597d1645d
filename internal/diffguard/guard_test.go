package diffguard

import (
	"math"
	"strings"
	"testing"

	"github.com/tuanvm/draftguard/internal/model"
)

func TestAnalyzeParagraph_IdenticalTextPasses(t *testing.T) {
	text := "Chúng tôi cung cấp dịch vụ chăm sóc khách hàng tận tâm."
	analysis := AnalyzeParagraph(ParagraphPair{
		AnchorID:  "<<P1>>",
		Original:  text,
		Rewritten: text,
	})

	if !analysis.Passed {
		t.Fatalf("identical text should pass, got fail reason %s", analysis.FailReason)
	}
	if analysis.LengthRatio != 1 {
		t.Errorf("expected length ratio 1, got %f", analysis.LengthRatio)
	}
	if analysis.SentenceReplacementRatio != 0 {
		t.Errorf("expected replacement ratio 0, got %f", analysis.SentenceReplacementRatio)
	}
	if analysis.CTAAdded {
		t.Error("identical text cannot add a CTA")
	}
	if analysis.KeywordsPreservedRatio != 1 {
		t.Errorf("expected keyword preservation 1, got %f", analysis.KeywordsPreservedRatio)
	}
}

func TestAnalyzeParagraph_LengthExceeded(t *testing.T) {
	original := "Short original text."
	rewritten := strings.TrimSpace(strings.Repeat("This rewrite keeps going and going with more words. ", 4))

	analysis := AnalyzeParagraph(ParagraphPair{
		AnchorID:  "<<P1>>",
		Original:  original,
		Rewritten: rewritten,
	})

	if analysis.Passed {
		t.Fatal("oversized rewrite should fail")
	}
	if analysis.FailReason != model.DiffLengthExceeded {
		t.Errorf("expected LENGTH_EXCEEDED, got %s", analysis.FailReason)
	}
	if analysis.LengthRatio <= MaxLengthRatio {
		t.Errorf("expected ratio above %v, got %f", MaxLengthRatio, analysis.LengthRatio)
	}
}

func TestAnalyzeParagraph_EmptyOriginalNonEmptyRewrite(t *testing.T) {
	analysis := AnalyzeParagraph(ParagraphPair{
		AnchorID:  "<<P1>>",
		Original:  "",
		Rewritten: "Nội dung xuất hiện từ hư không.",
	})

	if analysis.Passed {
		t.Fatal("content appearing under an empty original should fail")
	}
	if !math.IsInf(analysis.LengthRatio, 1) {
		t.Errorf("expected +Inf length ratio, got %f", analysis.LengthRatio)
	}
	if analysis.FailReason != model.DiffLengthExceeded {
		t.Errorf("expected LENGTH_EXCEEDED, got %s", analysis.FailReason)
	}
}

func TestAnalyzeParagraph_SentenceReplacementExceeded(t *testing.T) {
	original := "The team ships the product today. Customers love the product quality."
	rewritten := "Completely different wording appears. Nothing matches earlier phrasing."

	analysis := AnalyzeParagraph(ParagraphPair{
		AnchorID:  "<<P1>>",
		Original:  original,
		Rewritten: rewritten,
	})

	if analysis.Passed {
		t.Fatal("fully replaced sentences should fail")
	}
	if analysis.FailReason != model.DiffSentenceReplacementExceeded {
		t.Errorf("expected SENTENCE_REPLACEMENT_EXCEEDED, got %s", analysis.FailReason)
	}
	if analysis.SentenceReplacementRatio != 1 {
		t.Errorf("expected replacement ratio 1, got %f", analysis.SentenceReplacementRatio)
	}
	// Length stayed in bounds, so the failure is specifically replacement
	if analysis.LengthRatio > MaxLengthRatio {
		t.Errorf("test setup broken: length ratio %f should be within bounds", analysis.LengthRatio)
	}
}

func TestAnalyzeParagraph_CTAAdded(t *testing.T) {
	original := "Sản phẩm giúp tiết kiệm thời gian nấu nướng hằng ngày. Thiết kế nhỏ gọn phù hợp với mọi căn bếp."
	rewritten := original + " Mua ngay hôm nay!"

	analysis := AnalyzeParagraph(ParagraphPair{
		AnchorID:  "<<P2>>",
		Original:  original,
		Rewritten: rewritten,
	})

	if analysis.Passed {
		t.Fatal("injected CTA sentence should fail")
	}
	if analysis.FailReason != model.DiffCTAAdded {
		t.Errorf("expected CTA_ADDED, got %s", analysis.FailReason)
	}
	if !analysis.CTAAdded {
		t.Error("CTAAdded flag should be set")
	}
}

func TestAnalyzeParagraph_CTAOriginalStaysCTA(t *testing.T) {
	// A paragraph that already was a CTA may stay a CTA
	original := "Inbox ngay để được tư vấn chi tiết nhé."
	rewritten := "Inbox ngay để mình tư vấn chi tiết cho nhé."

	analysis := AnalyzeParagraph(ParagraphPair{
		AnchorID:  "<<P3>>",
		Original:  original,
		Rewritten: rewritten,
	})

	if analysis.CTAAdded {
		t.Error("rewriting an existing CTA is not CTA injection")
	}
}

func TestAnalyzeParagraph_KeywordsLost(t *testing.T) {
	original := "So we can all see it is a big win for the team and for the brand together."
	rewritten := "So we can all see it is a big win for us and for you both right now."

	analysis := AnalyzeParagraph(ParagraphPair{
		AnchorID:  "<<P1>>",
		Original:  original,
		Rewritten: rewritten,
	})

	if analysis.Passed {
		t.Fatal("rewrite dropping every keyword should fail")
	}
	if analysis.FailReason != model.DiffKeywordsLost {
		t.Errorf("expected KEYWORDS_LOST, got %s", analysis.FailReason)
	}
	if analysis.KeywordsPreservedRatio >= MinKeywordPreservationRatio {
		t.Errorf("expected preservation below %v, got %f", MinKeywordPreservationRatio, analysis.KeywordsPreservedRatio)
	}
	// The sentence itself still overlaps heavily, so replacement did not fire
	if analysis.SentenceReplacementRatio > MaxSentenceReplacementRatio {
		t.Errorf("test setup broken: replacement ratio %f should be within bounds", analysis.SentenceReplacementRatio)
	}
}

func TestValidateRewriteDiff_FirstFailureWins(t *testing.T) {
	identity := "Đoạn này được giữ nguyên hoàn toàn không đổi."
	pairs := []ParagraphPair{
		{AnchorID: "<<P1>>", Original: identity, Rewritten: identity},
		{AnchorID: "<<P2>>", Original: "Ngắn gọn thôi.", Rewritten: strings.Repeat("Đoạn này bị kéo dài ra rất nhiều lần so với bản gốc. ", 3)},
		{AnchorID: "<<P3>>", Original: "The team and the brand won together.", Rewritten: "Unrelated filler sentence goes right here."},
	}

	result := ValidateRewriteDiff(pairs)

	if result.OK {
		t.Fatal("expected validation failure")
	}
	if result.FailedAnchor != "<<P2>>" {
		t.Errorf("expected first failing anchor <<P2>>, got %s", result.FailedAnchor)
	}
	if result.Reason != model.DiffLengthExceeded {
		t.Errorf("expected LENGTH_EXCEEDED from the first failure, got %s", result.Reason)
	}
	if len(result.Paragraphs) != 3 {
		t.Errorf("all paragraphs should be analyzed for diagnostics, got %d", len(result.Paragraphs))
	}
	if !result.Paragraphs[0].Passed {
		t.Error("identity paragraph should pass")
	}
}

func TestValidateRewriteDiff_AllPass(t *testing.T) {
	a := "Đoạn một mô tả sản phẩm với đầy đủ thông tin chi tiết."
	b := "Đoạn hai nói về trải nghiệm của khách hàng thực tế."

	result := ValidateRewriteDiff([]ParagraphPair{
		{AnchorID: "<<P1>>", Original: a, Rewritten: a},
		{AnchorID: "<<P2>>", Original: b, Rewritten: b},
	})

	if !result.OK {
		t.Fatalf("identity pairs should pass, got %s at %s", result.Reason, result.FailedAnchor)
	}
	if result.Reason != "" {
		t.Errorf("passing result should carry no reason, got %s", result.Reason)
	}
}

func TestSplitSentences(t *testing.T) {
	sentences := splitSentences("Câu một. Câu hai! Câu ba? Câu bốn không có dấu")
	if len(sentences) != 4 {
		t.Fatalf("expected 4 sentences, got %d: %v", len(sentences), sentences)
	}
	if sentences[3] != "Câu bốn không có dấu" {
		t.Errorf("trailing sentence without terminator should be kept, got %q", sentences[3])
	}
}

func TestWordOverlap(t *testing.T) {
	if got := wordOverlap("mèo con dễ thương", "mèo con dễ thương"); got != 1 {
		t.Errorf("identical sentences should overlap 1, got %f", got)
	}
	if got := wordOverlap("hoàn toàn khác biệt", "nội dung riêng lẻ"); got != 0 {
		t.Errorf("disjoint sentences should overlap 0, got %f", got)
	}
	if got := wordOverlap("", ""); got != 1 {
		t.Errorf("two empty sentences should overlap 1, got %f", got)
	}
}

func TestKeywordsPreservedRatio_NoKeywords(t *testing.T) {
	// Original made only of short tokens has no keywords to lose
	if got := keywordsPreservedRatio("a b c d", "x y z"); got != 1 {
		t.Errorf("no original keywords should yield 1, got %f", got)
	}
}
