// Package charclass defines the frozen Unicode character classes the tweet
// grammar is built from: whitespace, Latin accents, right-to-left scripts,
// the hashtag-eligible non-Latin and CJ ranges, and the control characters
// that are never allowed in a tweet. Every class is constructed once at
// package load and never mutated afterwards, so the values are safe to share
// across goroutines.
package charclass

import (
	"strings"
	"unicode/utf8"
)

// Range is an inclusive range of Unicode codepoints.
type Range struct {
	Lo rune
	Hi rune
}

// Class is a named, immutable set of codepoint ranges. It answers membership
// queries and renders itself as a character-set fragment for embedding inside
// a larger pattern.
type Class struct {
	name   string
	ranges []Range
}

func newClass(name string, ranges ...Range) *Class {
	return &Class{name: name, ranges: ranges}
}

// Name returns the class name.
func (c *Class) Name() string {
	return c.name
}

// Contains reports whether the codepoint belongs to the class.
func (c *Class) Contains(r rune) bool {
	for _, rng := range c.ranges {
		if r >= rng.Lo && r <= rng.Hi {
			return true
		}
	}
	return false
}

// Ranges returns a copy of the class ranges.
func (c *Class) Ranges() []Range {
	out := make([]Range, len(c.ranges))
	copy(out, c.ranges)
	return out
}

// Pattern renders the class as a character-set fragment, suitable for
// inclusion inside the brackets of a larger character class. Ranges are
// emitted as literal runes, the same way the grammar sources historically
// spelled them.
func (c *Class) Pattern() string {
	var b strings.Builder
	for _, rng := range c.ranges {
		b.WriteString(escapeClassRune(rng.Lo))
		if rng.Hi != rng.Lo {
			b.WriteByte('-')
			b.WriteString(escapeClassRune(rng.Hi))
		}
	}
	return b.String()
}

// escapeClassRune renders a rune for use inside a character class, escaping
// the few runes that carry meaning there.
func escapeClassRune(r rune) string {
	switch r {
	case '\\', ']', '^', '-':
		return `\` + string(r)
	}
	return string(r)
}

// wideRunesSupported reports whether the runtime can represent codepoints
// beyond the Basic Multilingual Plane. The decision is made once and applies
// to the whole CJ hashtag class: on a runtime without wide codepoints the
// CJK Extension B-D and supplement ranges are silently omitted instead of
// failing construction.
func wideRunesSupported() bool {
	return utf8.MaxRune >= 0x2FA1F
}

// Spaces covers the Unicode whitespace recognized as a boundary by the
// mention, reply and cashtag grammars. This is wider than ASCII space: it
// includes, for example, U+3000 IDEOGRAPHIC SPACE used with Kanji.
var Spaces = newClass("spaces",
	Range{0x0009, 0x000D}, // <control-0009>..<control-000D>
	Range{0x0020, 0x0020}, // SPACE
	Range{0x0085, 0x0085}, // <control-0085>
	Range{0x00A0, 0x00A0}, // NO-BREAK SPACE
	Range{0x1680, 0x1680}, // OGHAM SPACE MARK
	Range{0x180E, 0x180E}, // MONGOLIAN VOWEL SEPARATOR
	Range{0x2000, 0x200A}, // EN QUAD..HAIR SPACE
	Range{0x2028, 0x2028}, // LINE SEPARATOR
	Range{0x2029, 0x2029}, // PARAGRAPH SEPARATOR
	Range{0x202F, 0x202F}, // NARROW NO-BREAK SPACE
	Range{0x205F, 0x205F}, // MEDIUM MATHEMATICAL SPACE
	Range{0x3000, 0x3000}, // IDEOGRAPHIC SPACE
)

// InvalidControlChars are the codepoints that make a tweet invalid outright:
// byte-order marks, the special noncharacters and the directional-change
// controls.
var InvalidControlChars = newClass("invalid_control_characters",
	Range{0xFFFE, 0xFFFE},
	Range{0xFEFF, 0xFEFF}, // BOM
	Range{0xFFFF, 0xFFFF}, // special
	Range{0x202A, 0x202E}, // directional change
)

// LatinAccents covers accented Latin letters and combining marks. U+00D7
// (multiplication sign) and U+00F7 (division sign) are deliberately excluded
// since they are confusable with letters but are not.
var LatinAccents = newClass("latin_accents",
	Range{0x00C0, 0x00D6},
	Range{0x00D8, 0x00F6},
	Range{0x00F8, 0x00FF},
	Range{0x0100, 0x024F},
	Range{0x0253, 0x0254},
	Range{0x0256, 0x0257},
	Range{0x0259, 0x0259},
	Range{0x025B, 0x025B},
	Range{0x0263, 0x0263},
	Range{0x0268, 0x0268},
	Range{0x026F, 0x026F},
	Range{0x0272, 0x0272},
	Range{0x0289, 0x0289},
	Range{0x028B, 0x028B},
	Range{0x02BB, 0x02BB},
	Range{0x0300, 0x036F},
	Range{0x1E00, 0x1EFF},
)

// RTLChars covers the right-to-left script blocks (Arabic, Hebrew and their
// presentation forms).
var RTLChars = newClass("rtl_chars",
	Range{0x0600, 0x06FF},
	Range{0x0750, 0x077F},
	Range{0x0590, 0x05FF},
	Range{0xFE70, 0xFEFF},
)

// NonLatinHashtagChars covers the non-Latin scripts eligible for hashtag
// text: Cyrillic, Hebrew, Arabic, Thai and Hangul, plus the zero-width
// non-joiner needed by some of them.
var NonLatinHashtagChars = newClass("non_latin_hashtag_chars",
	// Cyrillic (Russian, Ukrainian, etc.)
	Range{0x0400, 0x04FF}, // Cyrillic
	Range{0x0500, 0x0527}, // Cyrillic Supplement
	Range{0x2DE0, 0x2DFF}, // Cyrillic Extended A
	Range{0xA640, 0xA69F}, // Cyrillic Extended B
	Range{0x0591, 0x05BF}, // Hebrew
	Range{0x05C1, 0x05C2},
	Range{0x05C4, 0x05C5},
	Range{0x05C7, 0x05C7},
	Range{0x05D0, 0x05EA},
	Range{0x05F0, 0x05F4},
	Range{0xFB12, 0xFB28}, // Hebrew Presentation Forms
	Range{0xFB2A, 0xFB36},
	Range{0xFB38, 0xFB3C},
	Range{0xFB3E, 0xFB3E},
	Range{0xFB40, 0xFB41},
	Range{0xFB43, 0xFB44},
	Range{0xFB46, 0xFB4F},
	Range{0x0610, 0x061A}, // Arabic
	Range{0x0620, 0x065F},
	Range{0x066E, 0x06D3},
	Range{0x06D5, 0x06DC},
	Range{0x06DE, 0x06E8},
	Range{0x06EA, 0x06EF},
	Range{0x06FA, 0x06FC},
	Range{0x06FF, 0x06FF},
	Range{0x0750, 0x077F}, // Arabic Supplement
	Range{0x08A0, 0x08A0}, // Arabic Extended A
	Range{0x08A2, 0x08AC},
	Range{0x08E4, 0x08FE},
	Range{0xFB50, 0xFBB1}, // Arabic Presentation Forms A
	Range{0xFBD3, 0xFD3D},
	Range{0xFD50, 0xFD8F},
	Range{0xFD92, 0xFDC7},
	Range{0xFDF0, 0xFDFB},
	Range{0xFE70, 0xFE74}, // Arabic Presentation Forms B
	Range{0xFE76, 0xFEFC},
	Range{0x200C, 0x200C}, // zero-width non-joiner
	Range{0x0E01, 0x0E3A}, // Thai
	Range{0x0E40, 0x0E4E},
	Range{0x1100, 0x11FF}, // Hangul Jamo
	Range{0x3130, 0x3185}, // Hangul Compatibility Jamo
	Range{0xA960, 0xA97F}, // Hangul Jamo Extended-A
	Range{0xAC00, 0xD7AF}, // Hangul Syllables
	Range{0xD7B0, 0xD7FF}, // Hangul Jamo Extended-B
	Range{0xFFA1, 0xFFDC}, // half-width Hangul
)

// CJHashtagChars covers the Chinese and Japanese ranges eligible for hashtag
// text. The supplementary Kanji planes are included only when the runtime
// supports codepoints beyond U+FFFF.
var CJHashtagChars = buildCJHashtagChars()

func buildCJHashtagChars() *Class {
	ranges := []Range{
		{0x30A1, 0x30FA}, {0x30FC, 0x30FE}, // Katakana (full-width)
		{0xFF66, 0xFF9F},                                     // Katakana (half-width)
		{0xFF10, 0xFF19}, {0xFF21, 0xFF3A}, {0xFF41, 0xFF5A}, // Latin (full-width)
		{0x3041, 0x3096}, {0x3099, 0x309E}, // Hiragana
		{0x3400, 0x4DBF}, // Kanji (CJK Extension A)
		{0x4E00, 0x9FFF}, // Kanji (Unified)
	}
	if wideRunesSupported() {
		ranges = append(ranges,
			Range{0x20000, 0x2A6DF}, // Kanji (CJK Extension B)
			Range{0x2A700, 0x2B73F}, // Kanji (CJK Extension C)
			Range{0x2B740, 0x2B81F}, // Kanji (CJK Extension D)
			Range{0x2F800, 0x2FA1F}, // Kanji (CJK supplement)
			Range{0x3003, 0x3003},
			Range{0x3005, 0x3005},
			Range{0x303B, 0x303B},
		)
	}
	return newClass("cj_hashtag_chars", ranges...)
}
