package extract

// Kind classifies an extracted entity.
type Kind string

const (
	KindURL     Kind = "url"
	KindMention Kind = "mention"
	KindList    Kind = "list"
	KindHashtag Kind = "hashtag"
	KindCashtag Kind = "cashtag"
)

// Span is a half-open [Start, End) range of codepoint offsets into the
// source text. Offsets count runes, not bytes.
type Span struct {
	Start int
	End   int
}

// Len returns the span length in codepoints.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether two spans share at least one codepoint.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Entity is a single extracted URL, mention, list, hashtag or cashtag.
//
// Span covers the marker character (#, @, $) for hashtags, mentions and
// cashtags but never the preceding boundary character. Text holds the entity
// value: the full URL including any protocol, or the tag/name without its
// marker.
type Entity struct {
	Kind Kind
	Text string
	Span Span

	// Mention and list captures.
	ScreenName string
	ListSlug   string // includes the leading slash, empty for plain mentions
}
