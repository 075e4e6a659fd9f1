// Package extract pulls structured entities - URLs, @mentions, lists,
// #hashtags and $cashtags - out of tweet text. All reported offsets are
// codepoint (rune) offsets into the original text.
package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/coolbeans/tweetext/pkg/pattern"
)

// Extractor scans tweet text with a frozen grammar. The zero-cost way to get
// one is New; a single Extractor is safe for concurrent use.
type Extractor struct {
	patterns *pattern.Set
}

// New creates an extractor over the process-wide grammar.
func New() *Extractor {
	return NewWithSet(pattern.Default())
}

// NewWithSet creates an extractor over the given grammar.
func NewWithSet(set *pattern.Set) *Extractor {
	return &Extractor{patterns: set}
}

// forEachMatch invokes fn for every non-overlapping match of re in runes.
func forEachMatch(re *regexp2.Regexp, runes []rune, fn func(m *regexp2.Match)) error {
	m, err := re.FindRunesMatch(runes)
	if err != nil {
		return fmt.Errorf("matching failed: %w", err)
	}
	for m != nil {
		fn(m)
		m, err = re.FindNextMatch(m)
		if err != nil {
			return fmt.Errorf("matching failed: %w", err)
		}
	}
	return nil
}

// matchesAt reports whether re matches the given rune slice. Used with
// \A-anchored trailing-context patterns.
func matchesAt(re *regexp2.Regexp, runes []rune) (bool, error) {
	ok, err := re.MatchRunes(runes)
	if err != nil {
		return false, fmt.Errorf("matching failed: %w", err)
	}
	return ok, nil
}

// URLOptions configures URL extraction.
type URLOptions struct {
	// ExtractURLWithoutProtocol also links bare domains such as
	// "example.com/path". Off by default: without a protocol a
	// domain-looking token is left as plain text.
	ExtractURLWithoutProtocol bool
}

// URLs returns all URLs found in the text, in order of appearance.
func (e *Extractor) URLs(text string, opts ...URLOptions) ([]string, error) {
	entities, err := e.URLsWithIndices(text, opts...)
	if err != nil {
		return nil, err
	}
	return entityTexts(entities), nil
}

// URLsWithIndices returns all URLs found in the text together with their
// codepoint spans.
//
// When protocol-less extraction is enabled, such candidates are accepted
// only if the preceding text does not look like the middle of a longer
// token and the domain re-scans as an ASCII domain; bare domains ending in
// a ccTLD are dropped unless a path follows. URLs with a protocol pointing
// at t.co are tightened to the shortened-link form.
func (e *Extractor) URLsWithIndices(text string, opts ...URLOptions) ([]Entity, error) {
	var options URLOptions
	if len(opts) > 0 {
		options = opts[0]
	}
	if text == "" {
		return nil, nil
	}
	runes := []rune(text)
	var urls []Entity
	var scanErr error

	err := forEachMatch(e.patterns.ValidURL, runes, func(m *regexp2.Match) {
		if scanErr != nil {
			return
		}
		url := pattern.GroupText(m, 3)
		before := pattern.GroupText(m, 2)
		domain := pattern.GroupText(m, 5)
		protocol := pattern.GroupText(m, 4)
		urlStart := pattern.GroupIndex(m, 3)
		urlEnd := urlStart + pattern.GroupLength(m, 3)

		if protocol == "" {
			if !options.ExtractURLWithoutProtocol {
				return
			}
			ok, err := e.patterns.InvalidURLWithoutProtocolPrecedingChars.MatchString(before)
			if err != nil {
				scanErr = fmt.Errorf("matching failed: %w", err)
				return
			}
			if ok {
				return
			}

			// The domain grammar is permissive about non-ASCII; without a
			// protocol only ASCII domains are linked, so re-scan the domain.
			domainStart := pattern.GroupIndex(m, 5)
			domainRunes := []rune(domain)
			lastIdx := -1
			lastInvalid := false
			var lastSpan Span
			var lastText string
			dmErr := forEachMatch(e.patterns.ValidASCIIDomain, domainRunes, func(dm *regexp2.Match) {
				if scanErr != nil {
					return
				}
				lastText = dm.String()
				lastSpan = Span{Start: domainStart + dm.Index, End: domainStart + dm.Index + dm.Length}
				invalid, err := e.patterns.InvalidShortDomain.MatchString(lastText)
				if err != nil {
					scanErr = fmt.Errorf("matching failed: %w", err)
					return
				}
				lastInvalid = invalid
				lastIdx = -1
				if !invalid {
					urls = append(urls, Entity{Kind: KindURL, Text: lastText, Span: lastSpan})
					lastIdx = len(urls) - 1
				}
			})
			if dmErr != nil {
				scanErr = dmErr
				return
			}
			if lastText == "" {
				// No ASCII domain at all; skip the candidate.
				return
			}
			if pattern.GroupPresent(m, 7) && pattern.GroupText(m, 7) != "" {
				// A path redeems even a bare ccTLD domain, and extends the
				// last extracted domain through the end of the URL.
				if lastInvalid {
					urls = append(urls, Entity{Kind: KindURL, Text: lastText, Span: lastSpan})
					lastIdx = len(urls) - 1
				}
				if lastIdx >= 0 {
					urls[lastIdx].Text = strings.Replace(url, domain, urls[lastIdx].Text, 1)
					urls[lastIdx].Span.End = urlEnd
				}
			}
			return
		}

		tm, err := e.patterns.ValidTCOURL.FindStringMatch(url)
		if err != nil {
			scanErr = fmt.Errorf("matching failed: %w", err)
			return
		}
		if tm != nil {
			url = tm.String()
			urlEnd = urlStart + tm.Length
		}
		urls = append(urls, Entity{Kind: KindURL, Text: url, Span: Span{Start: urlStart, End: urlEnd}})
	})
	if err != nil {
		return nil, err
	}
	if scanErr != nil {
		return nil, scanErr
	}
	return urls, nil
}

// MentionsOrListsWithIndices returns all @mentions and @user/list references
// with their codepoint spans. The span covers the at mark through the end of
// the screen name or list slug; the preceding boundary character is excluded.
func (e *Extractor) MentionsOrListsWithIndices(text string) ([]Entity, error) {
	if !strings.ContainsAny(text, "@＠") {
		return nil, nil
	}
	runes := []rune(text)
	var entities []Entity
	var scanErr error

	err := forEachMatch(e.patterns.ValidMentionOrList, runes, func(m *regexp2.Match) {
		if scanErr != nil {
			return
		}
		after := runes[m.Index+m.Length:]
		continues, err := matchesAt(e.patterns.EndMentionMatch, after)
		if err != nil {
			scanErr = err
			return
		}
		if continues {
			// Trailing context looks like the token keeps going (another at
			// mark, an accented letter, a protocol separator): not a mention.
			return
		}
		screenName := pattern.GroupText(m, 3)
		listSlug := pattern.GroupText(m, 4)
		kind := KindMention
		if listSlug != "" {
			kind = KindList
		}
		entities = append(entities, Entity{
			Kind:       kind,
			Text:       screenName + listSlug,
			ScreenName: screenName,
			ListSlug:   listSlug,
			Span: Span{
				Start: m.Index + pattern.GroupLength(m, 1),
				End:   m.Index + m.Length,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	if scanErr != nil {
		return nil, scanErr
	}
	return entities, nil
}

// MentionedScreenNamesWithIndices returns the plain @mentions (list
// references excluded) with their codepoint spans.
func (e *Extractor) MentionedScreenNamesWithIndices(text string) ([]Entity, error) {
	entities, err := e.MentionsOrListsWithIndices(text)
	if err != nil {
		return nil, err
	}
	var mentions []Entity
	for _, entity := range entities {
		if entity.Kind == KindMention {
			mentions = append(mentions, entity)
		}
	}
	return mentions, nil
}

// MentionedScreenNames returns the screen names mentioned in the text, in
// order of appearance.
func (e *Extractor) MentionedScreenNames(text string) ([]string, error) {
	entities, err := e.MentionedScreenNamesWithIndices(text)
	if err != nil {
		return nil, err
	}
	return entityTexts(entities), nil
}

// ReplyScreenName returns the screen name the text replies to: a mention at
// the very start of the text, optionally preceded by whitespace. Returns ""
// when the text is not a reply.
func (e *Extractor) ReplyScreenName(text string) (string, error) {
	if text == "" {
		return "", nil
	}
	runes := []rune(text)
	m, err := e.patterns.ValidReply.FindRunesMatch(runes)
	if err != nil {
		return "", fmt.Errorf("matching failed: %w", err)
	}
	if m == nil {
		return "", nil
	}
	continues, err := matchesAt(e.patterns.EndMentionMatch, runes[m.Index+m.Length:])
	if err != nil {
		return "", err
	}
	if continues {
		return "", nil
	}
	return pattern.GroupText(m, 1), nil
}

// HashtagsWithIndices returns all #hashtags with their codepoint spans. The
// span covers the hash mark; the preceding boundary character is excluded.
func (e *Extractor) HashtagsWithIndices(text string) ([]Entity, error) {
	if !strings.ContainsAny(text, "#＃") {
		return nil, nil
	}
	runes := []rune(text)
	var tags []Entity
	var scanErr error

	err := forEachMatch(e.patterns.ValidHashtag, runes, func(m *regexp2.Match) {
		if scanErr != nil {
			return
		}
		hashText := pattern.GroupText(m, 3)
		numeric, err := e.patterns.NumericOnly.MatchString(hashText)
		if err != nil {
			scanErr = fmt.Errorf("matching failed: %w", err)
			return
		}
		if numeric {
			return
		}
		continues, err := matchesAt(e.patterns.EndHashtagMatch, runes[m.Index+m.Length:])
		if err != nil {
			scanErr = err
			return
		}
		if continues {
			// Another hash mark or a protocol separator follows: this is a
			// fragment of something larger, most likely a URL.
			return
		}
		tags = append(tags, Entity{
			Kind: KindHashtag,
			Text: hashText,
			Span: Span{
				Start: m.Index + pattern.GroupLength(m, 1),
				End:   m.Index + m.Length,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	if scanErr != nil {
		return nil, scanErr
	}
	return tags, nil
}

// Hashtags returns the hashtag texts (without the hash mark), in order of
// appearance.
func (e *Extractor) Hashtags(text string) ([]string, error) {
	entities, err := e.HashtagsWithIndices(text)
	if err != nil {
		return nil, err
	}
	return entityTexts(entities), nil
}

// CashtagsWithIndices returns all $cashtags with their codepoint spans. The
// span covers the dollar mark; the preceding whitespace is excluded.
func (e *Extractor) CashtagsWithIndices(text string) ([]Entity, error) {
	if !strings.ContainsAny(text, "$＄﹩") {
		return nil, nil
	}
	runes := []rune(text)
	var tags []Entity

	err := forEachMatch(e.patterns.ValidCashtag, runes, func(m *regexp2.Match) {
		tags = append(tags, Entity{
			Kind: KindCashtag,
			Text: pattern.GroupText(m, 3),
			Span: Span{
				Start: m.Index + pattern.GroupLength(m, 1),
				End:   m.Index + m.Length,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// Cashtags returns the cashtag texts (without the dollar mark), in order of
// appearance.
func (e *Extractor) Cashtags(text string) ([]string, error) {
	entities, err := e.CashtagsWithIndices(text)
	if err != nil {
		return nil, err
	}
	return entityTexts(entities), nil
}

// EntitiesWithIndices returns every entity in the text, ordered by start
// offset, with cross-kind overlaps resolved. URLs are extracted first and
// take precedence over mentions, hashtags and cashtags claiming the same
// codepoints.
func (e *Extractor) EntitiesWithIndices(text string) ([]Entity, error) {
	urls, err := e.URLsWithIndices(text)
	if err != nil {
		return nil, err
	}
	mentions, err := e.MentionsOrListsWithIndices(text)
	if err != nil {
		return nil, err
	}
	hashtags, err := e.HashtagsWithIndices(text)
	if err != nil {
		return nil, err
	}
	cashtags, err := e.CashtagsWithIndices(text)
	if err != nil {
		return nil, err
	}

	all := make([]Entity, 0, len(urls)+len(mentions)+len(hashtags)+len(cashtags))
	all = append(all, urls...)
	all = append(all, mentions...)
	all = append(all, hashtags...)
	all = append(all, cashtags...)
	return removeOverlapping(all), nil
}

// removeOverlapping sorts entities by start offset and drops any entity
// overlapping one already kept. The sort is stable, so the append order of
// EntitiesWithIndices gives URLs precedence on ties.
func removeOverlapping(entities []Entity) []Entity {
	if len(entities) == 0 {
		return entities
	}
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Span.Start < entities[j].Span.Start
	})
	kept := entities[:1]
	for _, entity := range entities[1:] {
		if !kept[len(kept)-1].Span.Overlaps(entity.Span) {
			kept = append(kept, entity)
		}
	}
	return kept
}

func entityTexts(entities []Entity) []string {
	if len(entities) == 0 {
		return nil
	}
	texts := make([]string, len(entities))
	for i, entity := range entities {
		texts[i] = entity.Text
	}
	return texts
}
