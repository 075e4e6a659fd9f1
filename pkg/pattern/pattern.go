// Package pattern builds the tweet grammar: the composite matchers for
// hashtags, mentions, lists, cashtags and URLs, plus the RFC 3986 component
// grammars used for strict URL validation.
//
// The grammar is assembled bottom-up in strict dependency order, because
// later matchers embed earlier ones as fragments (a URL embeds the domain
// grammar, which embeds the TLD alternations, and so on). A Set is frozen
// once built: it is never mutated, so a single Set can be shared by any
// number of goroutines.
//
// Matching uses github.com/dlclark/regexp2 rather than the standard library
// engine: the TLD and cashtag boundaries are lookahead assertions that RE2
// cannot express, and regexp2 reports match positions as rune offsets, which
// is the unit entity spans are defined in.
package pattern

import (
	"strings"
	"sync"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/coolbeans/tweetext/pkg/charclass"
)

// urlMatchTimeout bounds worst-case backtracking in the URL matchers, which
// run over untrusted text and contain nested optional repetition.
const urlMatchTimeout = 2 * time.Second

// Set holds every compiled matcher of the grammar. All fields are read-only
// after construction.
type Set struct {
	// Entity grammars.
	ValidHashtag       *regexp2.Regexp
	EndHashtagMatch    *regexp2.Regexp
	NumericOnly        *regexp2.Regexp
	ValidMentionOrList *regexp2.Regexp
	AtSigns            *regexp2.Regexp
	ValidReply         *regexp2.Regexp
	EndMentionMatch    *regexp2.Regexp
	ValidCashtag       *regexp2.Regexp

	// URL extraction grammar.
	ValidURL                                *regexp2.Regexp
	ValidTCOURL                             *regexp2.Regexp
	ValidASCIIDomain                        *regexp2.Regexp
	InvalidShortDomain                      *regexp2.Regexp
	InvalidURLWithoutProtocolPrecedingChars *regexp2.Regexp

	// Single-entity validation grammars.
	ListName                   *regexp2.Regexp
	ValidMentionOrListAnchored *regexp2.Regexp
	RTLChars                   *regexp2.Regexp

	// RFC 3986 component grammars, anchored for full-match checks.
	ValidateURLUnencoded        *regexp2.Regexp
	ValidateURLScheme           *regexp2.Regexp
	ValidateURLPath             *regexp2.Regexp
	ValidateURLQuery            *regexp2.Regexp
	ValidateURLFragment         *regexp2.Regexp
	ValidateURLAuthority        *regexp2.Regexp
	ValidateURLUnicodeAuthority *regexp2.Regexp
}

var (
	defaultSet     *Set
	defaultSetOnce sync.Once
)

// Default returns the process-wide grammar, built on first use. The returned
// Set must not be modified.
func Default() *Set {
	defaultSetOnce.Do(func() {
		defaultSet = newSet()
	})
	return defaultSet
}

// nonCapture wraps the concatenated fragments in a non-capturing group.
func nonCapture(parts ...string) string {
	return "(?:" + strings.Join(parts, "") + ")"
}

// alternation builds a non-capturing alternation of the fragments.
func alternation(parts ...string) string {
	return "(?:" + strings.Join(parts, "|") + ")"
}

// charset builds a character class from the fragments.
func charset(parts ...string) string {
	return "[" + strings.Join(parts, "") + "]"
}

// negated builds a negated character class from the fragments.
func negated(parts ...string) string {
	return "[^" + strings.Join(parts, "") + "]"
}

func compile(pattern string, opts regexp2.RegexOptions) *regexp2.Regexp {
	return regexp2.MustCompile(pattern, opts)
}

// newSet builds the full grammar in dependency order.
func newSet() *Set {
	const (
		punctuationChars = `!"#$%&'()*+,-./:;<=>?@\[\]^_` + "`" + `{|}~`
		spaceChars       = ` \t\n\x0B\f\r`
		ctrlChars        = `\x00-\x1F\x7F`
	)

	unicodeSpaces := charclass.Spaces.Pattern()
	invalidControl := charclass.InvalidControlChars.Pattern()
	latinAccents := charclass.LatinAccents.Pattern()
	hashtagScripts := latinAccents + charclass.NonLatinHashtagChars.Pattern() + charclass.CJHashtagChars.Pattern()

	set := &Set{}

	// 1. Domain fragments. A domain-valid character is anything that is not
	// punctuation, whitespace, a control character or a disallowed control.
	domainValidChar := negated(punctuationChars, spaceChars, ctrlChars, invalidControl, unicodeSpaces)
	validSubdomain := nonCapture(nonCapture(domainValidChar, nonCapture(`[_-]|`+domainValidChar), "*"), "?", domainValidChar, `\.`)
	validDomainName := nonCapture(nonCapture(domainValidChar, nonCapture(`[-]|`+domainValidChar), "*"), "?", domainValidChar, `\.`)

	// 2. TLD alternations. Each requires a non-alphanumeric or end-of-text
	// boundary so that e.g. "artist" does not stop at the "art" TLD.
	validGTLD := nonCapture(alternation(charclass.GTLDs...), `(?=[^0-9a-z]|$)`)
	validCCTLD := nonCapture(alternation(charclass.CCTLDs...), `(?=[^0-9a-z]|$)`)
	validPunycode := nonCapture(`xn--[0-9a-z]+`)

	// 3. Complete domains.
	validDomain := nonCapture(validSubdomain, "*", validDomainName, alternation(validGTLD, validCCTLD, validPunycode))
	set.ValidASCIIDomain = compile(
		nonCapture(`(?:[A-Za-z0-9\-_]|`+charset(latinAccents)+`)+\.`)+"+"+alternation(validGTLD, validCCTLD, validPunycode),
		regexp2.IgnoreCase)
	set.ValidASCIIDomain.MatchTimeout = urlMatchTimeout
	set.InvalidShortDomain = compile(`\A`+validDomainName+validCCTLD+`\z`, regexp2.IgnoreCase)
	set.ValidTCOURL = compile(`^https?:\/\/t\.co\/[a-z0-9]+`, regexp2.IgnoreCase)

	// 4. URL path and query. Paths may contain balanced-parenthesis groups
	// (Wikipedia-style /Primer_(film) and IIS session segments) and must not
	// end on a weak trailing character, so "example.com/foo." does not
	// swallow the period.
	validGeneralURLPathChars := charset(`a-z0-9!\*';:=\+\,\.\$\/%#\[\]\-_~&|@`, latinAccents)
	validURLBalancedParens := `\(` + validGeneralURLPathChars + `+\)`
	validURLPathEndingChars := charset(`a-z0-9=_#\/\+\-`, latinAccents) + `|` + nonCapture(validURLBalancedParens)
	validURLPath := alternation(
		nonCapture(validGeneralURLPathChars, "*", nonCapture(validURLBalancedParens, " ", validGeneralURLPathChars, "*"), "*", validURLPathEndingChars),
		nonCapture(validGeneralURLPathChars, `+\/`),
	)
	validURLQueryChars := `[a-z0-9!?\*'\(\);:&=\+\$\/%#\[\]\-_\.,~|@]`
	validURLQueryEndingChars := `[a-z0-9_&=#\/]`

	// 5. The URL matcher. Capture groups, by number:
	//   1 full match, 2 preceding character, 3 URL, 4 protocol,
	//   5 domain, 6 port, 7 path, 8 query.
	validURLPrecedingChars := nonCapture(negated(`A-Z0-9@＠$#＃`, invalidControl) + `|^`)
	validPortNumber := `[0-9]+`
	set.ValidURL = compile(
		`((`+validURLPrecedingChars+`)(`+
			`(https?:\/\/)?`+
			`(`+validDomain+`)`+
			`(?::(`+validPortNumber+`))?`+
			`(/`+validURLPath+`*)?`+
			`(\?`+validURLQueryChars+`*`+validURLQueryEndingChars+`)?`+
			`))`,
		regexp2.IgnoreCase)
	set.ValidURL.MatchTimeout = urlMatchTimeout
	set.InvalidURLWithoutProtocolPrecedingChars = compile(`[-_.\/]$`, regexp2.None)

	// 6. Hashtags: boundary, marker, then alphanumerics with at least one
	// alphabetic character so digits-only tags never match.
	hashtagAlpha := charset(`a-z_`, hashtagScripts)
	hashtagAlphanumeric := charset(`a-z0-9_`, hashtagScripts)
	hashtagBoundary := `\A|\z|\[|` + negated(`&a-z0-9_`, hashtagScripts)
	set.ValidHashtag = compile(`(`+hashtagBoundary+`)(#|＃)(`+hashtagAlphanumeric+`*`+hashtagAlpha+hashtagAlphanumeric+`*)`, regexp2.IgnoreCase)
	set.EndHashtagMatch = compile(`\A(?:[#＃]|:\/\/)`, regexp2.IgnoreCase)
	// ASCII digits only: fullwidth digits are hashtag-alphabetic, so a tag
	// like #１２３ is not numeric-only.
	set.NumericOnly = compile(`^[0-9]+$`, regexp2.None)

	// 7. Mentions and lists. Capture groups: 1 preceding character, 2 at
	// mark, 3 screen name, 4 list slug (optional, includes the slash).
	validMentionPrecedingChars := nonCapture(`[^a-zA-Z0-9_!#\$%&*@＠]|^|RT:?`)
	atSigns := `[@＠]`
	validMentionOrList := `(` + validMentionPrecedingChars + `)` +
		`(` + atSigns + `)` +
		`([a-zA-Z0-9_]{1,20})` +
		`(\/[a-zA-Z][a-zA-Z0-9_\-]{0,24})?`
	set.ValidMentionOrList = compile(validMentionOrList, regexp2.None)
	set.ValidMentionOrListAnchored = compile(`^`+validMentionOrList+`$`, regexp2.None)
	set.AtSigns = compile(atSigns, regexp2.None)
	set.ValidReply = compile(`^(?:`+charset(unicodeSpaces)+`)*`+atSigns+`([a-zA-Z0-9_]{1,20})`, regexp2.IgnoreCase)
	set.EndMentionMatch = compile(`\A(?:`+atSigns+`|`+charset(latinAccents)+`|:\/\/)`, regexp2.IgnoreCase)

	// 8. Cashtags: 1-6 letters, optional ./_ suffix of 1-2 letters, bounded
	// by whitespace on the left and whitespace/punctuation/end on the right.
	cashtag := `[a-z]{1,6}(?:[._][a-z]{1,2})?`
	set.ValidCashtag = compile(`(^|`+charset(unicodeSpaces)+`)(\$|＄|﹩)(`+cashtag+`)(?=$|\s|`+charset(punctuationChars)+`)`, regexp2.IgnoreCase)

	// 9. RFC 3986 component grammars. These validate an already-split URL
	// component in full, so each is anchored here rather than at call sites.
	validateURLUnreserved := `[a-z0-9\-._~]`
	validateURLPctEncoded := `(?:%[0-9a-f]{2})`
	validateURLSubDelims := `[!$&'()*+,;=]`
	validateURLPchar := alternation(validateURLUnreserved, validateURLPctEncoded, validateURLSubDelims, `[:\|@]`)

	validateURLScheme := `(?:[a-z][a-z0-9+\-.]*)`
	validateURLUserinfo := alternation(validateURLUnreserved, validateURLPctEncoded, validateURLSubDelims, `:`) + `*`

	validateURLDecOctet := `(?:[0-9]|(?:[1-9][0-9])|(?:1[0-9]{2})|(?:2[0-4][0-9])|(?:25[0-5]))`
	validateURLIPv4 := nonCapture(validateURLDecOctet, nonCapture(`\.`, validateURLDecOctet), `{3}`)
	// Real IPv6 validation is out of scope; bracketed hex/colon groups only.
	validateURLIPv6 := `(?:\[[a-f0-9:\.]+\])`
	validateURLIP := alternation(validateURLIPv4, validateURLIPv6)

	// Stricter than the RFC: label interiors may contain hyphens (and
	// underscores for subdomains) but must start and end alphanumeric.
	validateURLSubdomainSegment := `(?:[a-z0-9](?:[a-z0-9_\-]*[a-z0-9])?)`
	validateURLDomainSegment := `(?:[a-z0-9](?:[a-z0-9\-]*[a-z0-9])?)`
	validateURLDomainTLD := `(?:[a-z](?:[a-z0-9\-]*[a-z0-9])?)`
	validateURLDomain := nonCapture(nonCapture(validateURLSubdomainSegment, `\.`), `*`, nonCapture(validateURLDomainSegment, `\.`), validateURLDomainTLD)
	validateURLHost := alternation(validateURLIP, validateURLDomain)

	// Unencoded internationalized domains: any non-ASCII codepoint counts as
	// a letter. This does not audit for invalid UTF-8 sequences.
	validateURLUnicodeSubdomainSegment := `(?:(?:[a-z0-9]|[^\x00-\x7f])(?:(?:[a-z0-9_\-]|[^\x00-\x7f])*(?:[a-z0-9]|[^\x00-\x7f]))?)`
	validateURLUnicodeDomainSegment := `(?:(?:[a-z0-9]|[^\x00-\x7f])(?:(?:[a-z0-9\-]|[^\x00-\x7f])*(?:[a-z0-9]|[^\x00-\x7f]))?)`
	validateURLUnicodeDomainTLD := `(?:(?:[a-z]|[^\x00-\x7f])(?:(?:[a-z0-9\-]|[^\x00-\x7f])*(?:[a-z0-9]|[^\x00-\x7f]))?)`
	validateURLUnicodeDomain := nonCapture(nonCapture(validateURLUnicodeSubdomainSegment, `\.`), `*`, nonCapture(validateURLUnicodeDomainSegment, `\.`), validateURLUnicodeDomainTLD)
	validateURLUnicodeHost := alternation(validateURLIP, validateURLUnicodeDomain)

	validateURLPort := `[0-9]{1,5}`

	set.ValidateURLAuthority = compile(
		`\A(?:(`+validateURLUserinfo+`)@)?(`+validateURLHost+`)(?::(`+validateURLPort+`))?\z`,
		regexp2.IgnoreCase)
	set.ValidateURLUnicodeAuthority = compile(
		`\A(?:(`+validateURLUserinfo+`)@)?(`+validateURLUnicodeHost+`)(?::(`+validateURLPort+`))?\z`,
		regexp2.IgnoreCase)

	set.ValidateURLScheme = compile(`\A`+validateURLScheme+`\z`, regexp2.IgnoreCase)
	set.ValidateURLPath = compile(`\A(/`+validateURLPchar+`*)*\z`, regexp2.IgnoreCase)
	set.ValidateURLQuery = compile(`\A(`+validateURLPchar+`|/|\?)*\z`, regexp2.IgnoreCase)
	set.ValidateURLFragment = compile(`\A(`+validateURLPchar+`|/|\?)*\z`, regexp2.IgnoreCase)

	// Modified RFC 3986 Appendix B splitter, anchored to consume the entire
	// input. Groups: 1 scheme, 2 authority, 3 path, 4 query, 5 fragment.
	set.ValidateURLUnencoded = compile(`\A(?:([^:/?#]+)://)?([^/?#]*)([^?#]*)(?:\?([^#]*))?(?:\#(.*))?\z`, regexp2.IgnoreCase)
	set.ValidateURLUnencoded.MatchTimeout = urlMatchTimeout

	set.ListName = compile(`^[a-zA-Z][a-zA-Z0-9_\-\x80-\xff]{0,24}$`, regexp2.None)
	set.RTLChars = compile(charset(charclass.RTLChars.Pattern()), regexp2.IgnoreCase)

	return set
}
