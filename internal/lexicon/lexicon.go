// Package lexicon holds the ordered pattern tables used for structural
// classification: section markers, tone families, CTA detection, edit-target
// keyword families and stop words. Each family is a named, ordered list of
// compiled patterns; callers evaluate the lists in the documented priority
// order and take the first match, so the priority is visible and testable
// independently of the matching engine.
package lexicon

import (
	"regexp"
	"strings"

	"github.com/tuanvm/draftguard/internal/model"
)

// SectionMarker matches the heading-style markers of one section family:
// "## Hook", "Hook:", "**Hook**" and Vietnamese equivalents.
type SectionMarker struct {
	Section model.Section
	Heading *regexp.Regexp // ## Hook
	Colon   *regexp.Regexp // Hook: optional inline content
	Bold    *regexp.Regexp // **Hook** optional inline content
}

// MatchLine reports whether a line is a marker for this family and returns
// any inline content that followed the marker on the same line.
func (m SectionMarker) MatchLine(line string) (bool, string) {
	if m.Heading.MatchString(line) {
		return true, ""
	}
	if sub := m.Colon.FindStringSubmatch(line); sub != nil {
		return true, strings.TrimSpace(sub[1])
	}
	if sub := m.Bold.FindStringSubmatch(line); sub != nil {
		return true, strings.TrimSpace(sub[1])
	}
	return false, ""
}

func markerSet(section model.Section, words string) SectionMarker {
	return SectionMarker{
		Section: section,
		Heading: regexp.MustCompile(`(?i)^#{1,6}\s*(?:` + words + `)\s*$`),
		Colon:   regexp.MustCompile(`(?i)^(?:` + words + `)\s*:\s*(.*)$`),
		Bold:    regexp.MustCompile(`(?i)^\*\*\s*(?:` + words + `)\s*\*\*\s*:?\s*(.*)$`),
	}
}

var sectionMarkers = []SectionMarker{
	markerSet(model.SectionHook, `hook|mở đầu|dòng mở|câu mở`),
	markerSet(model.SectionBody, `body|thân bài|nội dung|phần thân`),
	markerSet(model.SectionCTA, `cta|call to action|kêu gọi|chốt đơn`),
}

// SectionMarkers returns the marker families in document order
func SectionMarkers() []SectionMarker {
	return sectionMarkers
}

// MatchSectionMarker returns the section whose marker family matches the
// line, with any inline content, or ok=false.
func MatchSectionMarker(line string) (model.Section, string, bool) {
	for _, m := range sectionMarkers {
		if ok, inline := m.MatchLine(strings.TrimSpace(line)); ok {
			return m.Section, inline, true
		}
	}
	return "", "", false
}

// MarkerFamilyCount counts how many distinct section families (hook, body,
// cta) have at least one marker line in the text. Used both by the scope
// resolver (structured multi-section instructions) and by the patch-only
// validator (unmarked output that looks like a full rewrite).
func MarkerFamilyCount(text string) int {
	found := map[model.Section]bool{}
	for _, line := range strings.Split(text, "\n") {
		if s, _, ok := MatchSectionMarker(line); ok {
			found[s] = true
		}
	}
	return len(found)
}

// ToneRule maps a pattern family to a tone. Families are evaluated in the
// fixed priority order professional, formal, casual, friendly; the first
// match wins and everything else falls through to neutral. The ordering is
// an explicit tie-break rule, not incidental.
type ToneRule struct {
	Tone     model.ToneID
	Patterns []*regexp.Regexp
}

var toneRules = []ToneRule{
	{
		Tone: model.ToneProfessional,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(roi|kpi|b2b|insight|workflow|strategy|solution|optimi[sz]e)\b`),
			regexp.MustCompile(`(?i)(chiến lược|tối ưu|giải pháp|hiệu suất|doanh nghiệp|vận hành)`),
		},
	},
	{
		Tone: model.ToneFormal,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(dear|sincerely|respectfully|hereby|pursuant)\b`),
			regexp.MustCompile(`(?i)(kính gửi|trân trọng|quý khách|quý vị|xin phép)`),
		},
	},
	{
		Tone: model.ToneCasual,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(lol|omg|haha|yolo|chill|vibe)\b`),
			regexp.MustCompile(`(?i)(vãi|xịn xò|cực phẩm|đỉnh chóp|hết nước chấm)`),
			regexp.MustCompile(`[😂🤣😜😎🤙]`),
		},
	},
	{
		Tone: model.ToneFriendly,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(hey guys|you all|folks|friends)\b`),
			regexp.MustCompile(`(?i)(bạn ơi|cả nhà|mọi người ơi|các bạn|nhé|nha)`),
			regexp.MustCompile(`[😊🥰❤️💕🌸]`),
		},
	},
}

// ToneRules returns the tone families in priority order
func ToneRules() []ToneRule {
	return toneRules
}

// ClassifyTone evaluates the tone families in priority order and returns
// the first matching tone, or neutral
func ClassifyTone(text string) model.ToneID {
	for _, rule := range toneRules {
		for _, p := range rule.Patterns {
			if p.MatchString(text) {
				return rule.Tone
			}
		}
	}
	return model.ToneNeutral
}

// ctaPatterns is the fixed bilingual list of urgency/contact/promo patterns
// used both for last-paragraph CTA detection at extraction time and for
// CTA-injection detection in the diff guard.
var ctaPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(inbox|order now|buy now|shop now|sign up|subscribe|book now|contact us|dm (me|us)|click (the )?link|link in bio|limited (time|stock)|don'?t miss)\b`),
	regexp.MustCompile(`(?i)\b(hotline|zalo|comment below)\b`),
	regexp.MustCompile(`(?i)(mua ngay|đặt hàng|đặt ngay|liên hệ|nhắn tin|inbox ngay|đăng ký|nhanh tay|số lượng có hạn|ưu đãi|khuyến mãi|giảm giá|chốt đơn|ib ngay)`),
	regexp.MustCompile(`[👉📞🛒🔥💥📩]`),
}

// CTAPatterns returns the bilingual CTA pattern list
func CTAPatterns() []*regexp.Regexp {
	return ctaPatterns
}

// IsCTALike reports whether text matches the CTA lexical pattern family
func IsCTALike(text string) bool {
	for _, p := range ctaPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// TargetRule maps an instruction pattern family to an edit target.
// Families are evaluated in the fixed order HOOK, CTA, BODY, TONE, FULL;
// the first matching family wins.
type TargetRule struct {
	Target   model.Section
	Patterns []*regexp.Regexp
}

var targetRulesEN = []TargetRule{
	{model.SectionHook, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(hook|opening line|first line|headline|intro line|opener)\b`),
	}},
	{model.SectionCTA, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(cta|call to action|closing line|last line|sign.?off)\b`),
	}},
	{model.SectionBody, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(body|main part|middle section|main content|second paragraph)\b`),
	}},
	{model.SectionTone, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(tone|voice|sound (more|less)|more (formal|casual|friendly|professional)|less (formal|casual|stiff))\b`),
	}},
	{model.SectionFull, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(whole post|entire post|full rewrite|rewrite (it all|everything)|from scratch)\b`),
	}},
}

var targetRulesVI = []TargetRule{
	{model.SectionHook, []*regexp.Regexp{
		regexp.MustCompile(`(?i)(mở đầu|câu mở|dòng mở|câu đầu|tiêu đề)`),
	}},
	{model.SectionCTA, []*regexp.Regexp{
		regexp.MustCompile(`(?i)(kêu gọi|chốt đơn|câu chốt|câu cuối|phần cuối)`),
	}},
	{model.SectionBody, []*regexp.Regexp{
		regexp.MustCompile(`(?i)(thân bài|phần thân|nội dung chính|đoạn giữa)`),
	}},
	{model.SectionTone, []*regexp.Regexp{
		regexp.MustCompile(`(?i)(giọng văn|giọng điệu|văn phong|thân thiện hơn|trang trọng hơn|chuyên nghiệp hơn)`),
	}},
	{model.SectionFull, []*regexp.Regexp{
		regexp.MustCompile(`(?i)(cả bài|toàn bộ bài|viết lại hết|viết lại cả bài|làm lại từ đầu)`),
	}},
}

// TargetRules returns the instruction keyword families for a language,
// in priority order. Unknown languages get the union, Vietnamese first
// (the product's primary locale), English second.
func TargetRules(lang string) []TargetRule {
	switch strings.ToLower(lang) {
	case "en":
		return targetRulesEN
	case "vi":
		return targetRulesVI
	default:
		merged := make([]TargetRule, 0, len(targetRulesVI))
		for i := range targetRulesVI {
			merged = append(merged, TargetRule{
				Target:   targetRulesVI[i].Target,
				Patterns: append(append([]*regexp.Regexp{}, targetRulesVI[i].Patterns...), targetRulesEN[i].Patterns...),
			})
		}
		return merged
	}
}

var ambiguousEN = []string{
	"write better", "make it better", "improve this", "improve", "polish",
	"fix it", "make it good", "shorten", "clean it up",
}

var ambiguousVI = []string{
	"rút gọn", "viết hay hơn", "sửa lại", "làm cho hay", "tốt hơn",
	"chỉnh lại", "gọn hơn",
}

// AmbiguousPhrases returns the fixed list of generic phrases that carry no
// scope object for a language
func AmbiguousPhrases(lang string) []string {
	switch strings.ToLower(lang) {
	case "en":
		return ambiguousEN
	case "vi":
		return ambiguousVI
	default:
		return append(append([]string{}, ambiguousVI...), ambiguousEN...)
	}
}

// MatchesAmbiguousPhrase reports whether the instruction contains one of
// the known ambiguous phrases
func MatchesAmbiguousPhrase(instruction, lang string) bool {
	lower := strings.ToLower(strings.TrimSpace(instruction))
	for _, phrase := range AmbiguousPhrases(lang) {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// stopWords is the bilingual stop-word list used by keyword extraction in
// the diff guard. Only tokens of four or more characters reach the lookup,
// so shorter function words are omitted.
var stopWords = map[string]bool{
	// English
	"about": true, "after": true, "again": true, "also": true, "been": true,
	"before": true, "being": true, "could": true, "does": true, "every": true,
	"from": true, "have": true, "here": true, "into": true, "just": true,
	"like": true, "made": true, "many": true, "more": true, "most": true,
	"much": true, "only": true, "other": true, "over": true, "same": true,
	"some": true, "such": true, "than": true, "that": true, "their": true,
	"them": true, "then": true, "there": true, "these": true, "they": true,
	"this": true, "through": true, "very": true, "were": true, "what": true,
	"when": true, "where": true, "which": true, "while": true, "will": true,
	"with": true, "would": true, "your": true,
	// Vietnamese
	"đang": true, "được": true, "cũng": true, "những": true, "nhưng": true,
	"này": true, "rồi": true, "thì": true, "vẫn": true, "với": true,
	"của": true, "cho": true, "rất": true, "khi": true, "nên": true,
	"đã": true, "sẽ": true, "và": true, "là": true, "không": true,
	"một": true, "các": true, "nhiều": true, "đến": true, "trong": true,
}

// IsStopWord reports whether a lowercase token is in the bilingual
// stop-word list
func IsStopWord(token string) bool {
	return stopWords[token]
}
