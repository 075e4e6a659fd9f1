// Package validate checks tweet text against the platform rules: the
// weighted display-length limit, the disallowed control characters, and the
// well-formedness of single usernames, lists, hashtags and URLs.
//
// All checks are pure functions over the input text; malformed or empty
// input is a normal, representable result, never an error. Errors surface
// only from the matching engine itself.
package validate

import (
	"strings"

	"github.com/coolbeans/tweetext/pkg/charclass"
	"github.com/coolbeans/tweetext/pkg/extract"
	"github.com/coolbeans/tweetext/pkg/pattern"
)

// MaxTweetLength is the display-length limit a tweet must not exceed.
const MaxTweetLength = 280

// Reason says why a tweet failed validation. The zero value ReasonNone means
// the tweet is valid.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonEmptyText         Reason = "Empty text"
	ReasonTooLong           Reason = "Too long"
	ReasonInvalidCharacters Reason = "Invalid characters"
)

// Options configures display-length accounting. A zero length field means
// "use the default", so callers can set just the field they care about; a
// literal zero-character URL charge is not expressible.
type Options struct {
	// ShortURLLength is the display length charged for any extracted URL in
	// place of its actual character count. Zero means the default.
	ShortURLLength int

	// ShortURLLengthHTTPS is the display length charged for https URLs.
	// Zero means the default.
	ShortURLLengthHTTPS int

	// CharactersReservedPerMedia is accepted for compatibility; it does not
	// currently enter the length computation.
	CharactersReservedPerMedia int
}

// DefaultOptions returns the standard length accounting: 23 display
// characters per URL regardless of scheme.
func DefaultOptions() Options {
	return Options{ShortURLLength: 23, ShortURLLengthHTTPS: 23, CharactersReservedPerMedia: 0}
}

func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.ShortURLLength == 0 {
		o.ShortURLLength = defaults.ShortURLLength
	}
	if o.ShortURLLengthHTTPS == 0 {
		o.ShortURLLengthHTTPS = defaults.ShortURLLengthHTTPS
	}
	return o
}

// Result is the outcome of a full tweet check.
type Result struct {
	Length int
	Valid  bool
	Reason Reason
}

// Validator validates tweet text against a frozen grammar. Safe for
// concurrent use.
type Validator struct {
	patterns  *pattern.Set
	extractor *extract.Extractor
}

// New creates a validator over the process-wide grammar.
func New() *Validator {
	return NewWithSet(pattern.Default())
}

// NewWithSet creates a validator over the given grammar.
func NewWithSet(set *pattern.Set) *Validator {
	return &Validator{patterns: set, extractor: extract.NewWithSet(set)}
}

// TweetLength returns the display length of the text: the weighted codepoint
// sum divided by the weight scale, with every extracted URL charged at the
// configured short-URL length instead of its own character count.
//
// The weighting assumes the text is already in the canonical normalization
// form the weight table was defined against; no normalization is performed
// here.
func (v *Validator) TweetLength(text string, opts ...Options) (int, error) {
	options := DefaultOptions()
	if len(opts) > 0 {
		options = opts[0].withDefaults()
	}

	weighted := 0
	for _, r := range text {
		weighted += codepointWeight(r)
	}
	length := weighted / weightScale

	urls, err := v.extractor.URLsWithIndices(text)
	if err != nil {
		return 0, err
	}
	for _, url := range urls {
		// Remove the URL's own display count and charge the replacement.
		length += url.Span.Start - url.Span.End
		if hasHTTPSPrefix(url.Text) {
			length += options.ShortURLLengthHTTPS
		} else {
			length += options.ShortURLLength
		}
	}
	return length, nil
}

func hasHTTPSPrefix(url string) bool {
	const prefix = "https://"
	return len(url) >= len(prefix) && strings.EqualFold(url[:len(prefix)], prefix)
}

// TweetInvalid checks the text for any reason it could not be posted.
// Reasons are reported in priority order: empty text, then too long, then
// invalid characters. ReasonNone means the text is a valid tweet.
func (v *Validator) TweetInvalid(text string, opts ...Options) (Reason, error) {
	length, err := v.TweetLength(text, opts...)
	if err != nil {
		return ReasonNone, err
	}
	if length == 0 {
		return ReasonEmptyText, nil
	}
	if length > MaxTweetLength {
		return ReasonTooLong, nil
	}
	for _, r := range text {
		if charclass.InvalidControlChars.Contains(r) {
			return ReasonInvalidCharacters, nil
		}
	}
	return ReasonNone, nil
}

// ValidTweetText reports whether the text is a postable tweet.
func (v *Validator) ValidTweetText(text string) (bool, error) {
	reason, err := v.TweetInvalid(text)
	if err != nil {
		return false, err
	}
	return reason == ReasonNone, nil
}

// Check runs the full validation and returns length, validity and reason in
// one result.
func (v *Validator) Check(text string) (Result, error) {
	length, err := v.TweetLength(text)
	if err != nil {
		return Result{}, err
	}
	reason, err := v.TweetInvalid(text)
	if err != nil {
		return Result{}, err
	}
	return Result{Length: length, Valid: reason == ReasonNone, Reason: reason}, nil
}

// ValidUsername reports whether the text is exactly one well-formed
// @username and nothing else.
func (v *Validator) ValidUsername(text string) (bool, error) {
	if text == "" {
		return false, nil
	}
	names, err := v.extractor.MentionedScreenNames(text)
	if err != nil {
		return false, err
	}
	return len(names) == 1 && names[0] == afterMarker(text), nil
}

// ValidHashtag reports whether the text is exactly one well-formed #hashtag
// and nothing else.
func (v *Validator) ValidHashtag(text string) (bool, error) {
	if text == "" {
		return false, nil
	}
	tags, err := v.extractor.Hashtags(text)
	if err != nil {
		return false, err
	}
	return len(tags) == 1 && tags[0] == afterMarker(text), nil
}

// ValidList reports whether the text is exactly one well-formed @user/list
// reference: the mention grammar anchored over the whole text, with nothing
// before the at mark and a non-empty list slug.
func (v *Validator) ValidList(text string) (bool, error) {
	m, err := v.patterns.ValidMentionOrListAnchored.FindStringMatch(text)
	if err != nil {
		return false, err
	}
	if m == nil {
		return false, nil
	}
	return pattern.GroupText(m, 1) == "" && pattern.GroupText(m, 4) != "", nil
}

// afterMarker returns the text minus its leading marker codepoint.
func afterMarker(text string) string {
	runes := []rune(text)
	if len(runes) < 1 {
		return ""
	}
	return string(runes[1:])
}
