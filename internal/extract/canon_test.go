package extract

import (
	"strings"
	"testing"

	"github.com/tuanvm/draftguard/internal/model"
)

func TestCanonExtractor_MarkedSections(t *testing.T) {
	extractor := NewCanonExtractor()

	draft := `## Hook
Sản phẩm mới ra mắt tuần này

## Body
Đoạn một nói về tính năng chính.

Đoạn hai nói về giá bán.

## CTA
Inbox ngay để được tư vấn`

	canon := extractor.Extract("post-1", draft)

	if canon.Hook.Text != "Sản phẩm mới ra mắt tuần này" {
		t.Errorf("hook mismatch: %q", canon.Hook.Text)
	}
	if canon.CTA.Text != "Inbox ngay để được tư vấn" {
		t.Errorf("cta mismatch: %q", canon.CTA.Text)
	}
	if len(canon.Body.Blocks) != 2 {
		t.Fatalf("expected 2 body blocks, got %d", len(canon.Body.Blocks))
	}
	if canon.Body.Blocks[0].Text != "Đoạn một nói về tính năng chính." {
		t.Errorf("first block mismatch: %q", canon.Body.Blocks[0].Text)
	}
	if canon.Body.Blocks[0].ID == canon.Body.Blocks[1].ID {
		t.Error("body blocks must have distinct IDs")
	}
	if canon.Meta.Revision != 1 {
		t.Errorf("fresh canon should start at revision 1, got %d", canon.Meta.Revision)
	}
	if canon.Meta.DraftID != "post-1" {
		t.Errorf("draft id mismatch: %q", canon.Meta.DraftID)
	}
}

func TestCanonExtractor_InlineColonMarkers(t *testing.T) {
	extractor := NewCanonExtractor()

	draft := "Hook: Xin chào cả nhà\nBody: Nội dung chính ở đây\nCTA: Mua ngay"

	canon := extractor.Extract("post-2", draft)

	if canon.Hook.Text != "Xin chào cả nhà" {
		t.Errorf("hook mismatch: %q", canon.Hook.Text)
	}
	if len(canon.Body.Blocks) != 1 || canon.Body.Blocks[0].Text != "Nội dung chính ở đây" {
		t.Errorf("body mismatch: %+v", canon.Body.Blocks)
	}
	if canon.CTA.Text != "Mua ngay" {
		t.Errorf("cta mismatch: %q", canon.CTA.Text)
	}
}

func TestCanonExtractor_PreambleBecomesHook(t *testing.T) {
	extractor := NewCanonExtractor()

	// Only the body carries a marker; the bare opening line is the hook
	draft := "Dòng mở đầu tự nhiên không có nhãn\n\nBody: Nội dung chính của bài"

	canon := extractor.Extract("post-3", draft)

	if canon.Hook.Text != "Dòng mở đầu tự nhiên không có nhãn" {
		t.Errorf("preamble should become the hook, got %q", canon.Hook.Text)
	}
	if len(canon.Body.Blocks) != 1 || canon.Body.Blocks[0].Text != "Nội dung chính của bài" {
		t.Errorf("body mismatch: %+v", canon.Body.Blocks)
	}
}

func TestCanonExtractor_ParagraphHeuristic(t *testing.T) {
	extractor := NewCanonExtractor()

	draft := "Câu mở đầu gây chú ý.\n\nPhần nội dung chính của bài viết.\n\nMua ngay hôm nay 👉"

	canon := extractor.Extract("post-4", draft)

	if canon.Hook.Text != "Câu mở đầu gây chú ý." {
		t.Errorf("first paragraph should be the hook, got %q", canon.Hook.Text)
	}
	if canon.CTA.Text != "Mua ngay hôm nay 👉" {
		t.Errorf("CTA-looking last paragraph should be the CTA, got %q", canon.CTA.Text)
	}
	if len(canon.Body.Blocks) != 1 {
		t.Fatalf("expected 1 body block, got %d", len(canon.Body.Blocks))
	}
}

func TestCanonExtractor_LastParagraphNotCTA(t *testing.T) {
	extractor := NewCanonExtractor()

	draft := "Câu mở đầu gây chú ý.\n\nĐoạn giữa về sản phẩm.\n\nĐoạn cuối chỉ là mô tả thêm."

	canon := extractor.Extract("post-5", draft)

	if canon.CTA.Text != "" {
		t.Errorf("non-CTA last paragraph should stay in the body, got cta %q", canon.CTA.Text)
	}
	if len(canon.Body.Blocks) != 2 {
		t.Errorf("expected 2 body blocks, got %d", len(canon.Body.Blocks))
	}
}

func TestCanonExtractor_EmptyInput(t *testing.T) {
	extractor := NewCanonExtractor()

	for _, raw := range []string{"", "   ", "\n\n\t\n"} {
		canon := extractor.Extract("post-6", raw)
		if !canon.IsEmpty() {
			t.Errorf("input %q should yield an empty canon", raw)
		}
		if canon.Meta.Revision != 1 {
			t.Errorf("empty canon should still start at revision 1, got %d", canon.Meta.Revision)
		}
		if canon.Tone.ID != model.ToneNeutral {
			t.Errorf("empty canon should be neutral, got %s", canon.Tone.ID)
		}
	}
}

func TestCanonExtractor_ToneDetection(t *testing.T) {
	extractor := NewCanonExtractor()

	canon := extractor.Extract("post-7", "Giải pháp tối ưu vận hành cho doanh nghiệp.\n\nĐăng ký ngay.")
	if canon.Tone.ID != model.ToneProfessional {
		t.Errorf("expected professional tone, got %s", canon.Tone.ID)
	}
}

func TestClassifyRole(t *testing.T) {
	tests := []struct {
		text string
		role model.BlockRole
	}{
		{"# Tiêu đề phụ", model.RoleHeading},
		{"- gạch đầu dòng\n- mục hai", model.RoleList},
		{"1. bước đầu tiên", model.RoleList},
		{"2) bước thứ hai", model.RoleList},
		{"> lời trích dẫn", model.RoleQuote},
		{"Một đoạn văn bình thường.", model.RoleParagraph},
		{"2026 là một năm đáng nhớ", model.RoleParagraph},
	}

	for _, tt := range tests {
		if got := ClassifyRole(tt.text); got != tt.role {
			t.Errorf("text %q: expected role %s, got %s", tt.text, tt.role, got)
		}
	}
}

func TestSplitParagraphs(t *testing.T) {
	paragraphs := SplitParagraphs("một\n\n\n\nhai\n\n   \n\nba")
	if len(paragraphs) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d: %v", len(paragraphs), paragraphs)
	}
	if paragraphs[1] != "hai" {
		t.Errorf("paragraph order mismatch: %v", paragraphs)
	}
}

func TestNormalizeDraft_PlainText(t *testing.T) {
	out := NormalizeDraft("dòng một\r\ndòng hai\n\n\n\ndòng ba")
	if strings.Contains(out, "\r") {
		t.Error("CRLF should be normalized")
	}
	if strings.Contains(out, "\n\n\n") {
		t.Error("blank-line runs should collapse to one blank line")
	}
}

func TestNormalizeDraft_HTML(t *testing.T) {
	out := NormalizeDraft("<p>Hello world</p><p>Second paragraph here</p>")

	paragraphs := SplitParagraphs(out)
	if len(paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs from flattened HTML, got %d: %q", len(paragraphs), out)
	}
	if paragraphs[0] != "Hello world" {
		t.Errorf("first paragraph mismatch: %q", paragraphs[0])
	}
	if paragraphs[1] != "Second paragraph here" {
		t.Errorf("second paragraph mismatch: %q", paragraphs[1])
	}
}

func TestNormalizeDraft_HTMLSkipsScripts(t *testing.T) {
	out := NormalizeDraft("<div>Nội dung thật</div><script>var x = 'rác';</script>")
	if strings.Contains(out, "rác") {
		t.Errorf("script content should be dropped, got %q", out)
	}
	if !strings.Contains(out, "Nội dung thật") {
		t.Errorf("visible text should survive, got %q", out)
	}
}

func TestReconstructText_RoundTrip(t *testing.T) {
	extractor := NewCanonExtractor()

	draft := "Câu mở đầu gây chú ý.\n\nPhần nội dung chính của bài viết.\n\nMua ngay hôm nay 👉"
	canon := extractor.Extract("post-8", draft)

	if got := ReconstructText(canon); got != draft {
		t.Errorf("reconstruct mismatch:\nwant %q\ngot  %q", draft, got)
	}
}

func TestJoinSections_SkipsEmpty(t *testing.T) {
	if got := JoinSections("một", "", "  ", "hai"); got != "một\n\nhai" {
		t.Errorf("expected empty parts skipped, got %q", got)
	}
}
