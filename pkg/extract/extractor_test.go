package extract

import (
	"reflect"
	"testing"
)

func TestURLsWithIndices(t *testing.T) {
	extractor := New()

	cases := []struct {
		name     string
		text     string
		opts     []URLOptions
		expected []Entity
	}{
		{
			name: "url_with_protocol",
			text: "check http://example.com",
			expected: []Entity{
				{Kind: KindURL, Text: "http://example.com", Span: Span{6, 24}},
			},
		},
		{
			name: "url_with_port_path_query",
			text: "go http://example.com:8080/path?q=1 now",
			expected: []Entity{
				{Kind: KindURL, Text: "http://example.com:8080/path?q=1", Span: Span{3, 35}},
			},
		},
		{
			name: "wikipedia_parens_path",
			text: "http://en.wikipedia.org/wiki/Primer_(film)",
			expected: []Entity{
				{Kind: KindURL, Text: "http://en.wikipedia.org/wiki/Primer_(film)", Span: Span{0, 42}},
			},
		},
		{
			name: "trailing_period_not_gobbled",
			text: "read http://example.com/foo. then reply",
			expected: []Entity{
				{Kind: KindURL, Text: "http://example.com/foo", Span: Span{5, 27}},
			},
		},
		{
			name:     "bare_domain_not_linked_by_default",
			text:     "check example.com please",
			expected: nil,
		},
		{
			name: "bare_domain_linked_with_option",
			text: "check example.com/path please",
			opts: []URLOptions{{ExtractURLWithoutProtocol: true}},
			expected: []Entity{
				{Kind: KindURL, Text: "example.com/path", Span: Span{6, 22}},
			},
		},
		{
			name:     "bare_cctld_domain_dropped",
			text:     "visit foo.jp sometime",
			opts:     []URLOptions{{ExtractURLWithoutProtocol: true}},
			expected: nil,
		},
		{
			name: "bare_cctld_domain_with_path_kept",
			text: "visit foo.jp/bar sometime",
			opts: []URLOptions{{ExtractURLWithoutProtocol: true}},
			expected: []Entity{
				{Kind: KindURL, Text: "foo.jp/bar", Span: Span{6, 16}},
			},
		},
		{
			name:     "protocol_less_blocked_by_preceding_slash",
			text:     "./example.com",
			opts:     []URLOptions{{ExtractURLWithoutProtocol: true}},
			expected: nil,
		},
		{
			name: "tco_url_tightened",
			text: "http://t.co/abc123%20junk",
			expected: []Entity{
				{Kind: KindURL, Text: "http://t.co/abc123", Span: Span{0, 18}},
			},
		},
		{
			name:     "no_url",
			text:     "just words here",
			expected: nil,
		},
		{
			name:     "empty",
			text:     "",
			expected: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractor.URLsWithIndices(tc.text, tc.opts...)
			if err != nil {
				t.Fatalf("URLsWithIndices failed: %v", err)
			}
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("URLsWithIndices(%q)\n got: %+v\nwant: %+v", tc.text, got, tc.expected)
			}
		})
	}
}

func TestMentionsOrListsWithIndices(t *testing.T) {
	extractor := New()

	cases := []struct {
		name     string
		text     string
		expected []Entity
	}{
		{
			name: "simple_mention",
			text: "hi @jack!",
			expected: []Entity{
				{Kind: KindMention, Text: "jack", ScreenName: "jack", Span: Span{3, 8}},
			},
		},
		{
			name: "mention_at_start",
			text: "@jack hello",
			expected: []Entity{
				{Kind: KindMention, Text: "jack", ScreenName: "jack", Span: Span{0, 5}},
			},
		},
		{
			name: "fullwidth_at_mark",
			text: "＠jack",
			expected: []Entity{
				{Kind: KindMention, Text: "jack", ScreenName: "jack", Span: Span{0, 5}},
			},
		},
		{
			name: "list_reference",
			text: "see @jack/dorsey_list now",
			expected: []Entity{
				{Kind: KindList, Text: "jack/dorsey_list", ScreenName: "jack", ListSlug: "/dorsey_list", Span: Span{4, 21}},
			},
		},
		{
			name: "multiple_mentions",
			text: "@alice and @bob",
			expected: []Entity{
				{Kind: KindMention, Text: "alice", ScreenName: "alice", Span: Span{0, 6}},
				{Kind: KindMention, Text: "bob", ScreenName: "bob", Span: Span{11, 15}},
			},
		},
		{
			name:     "email_address_not_a_mention",
			text:     "write to jack@example.com",
			expected: nil,
		},
		{
			name:     "double_at_filtered_by_trailing_context",
			text:     "@user@domain",
			expected: nil,
		},
		{
			name:     "no_at_sign",
			text:     "nothing here",
			expected: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractor.MentionsOrListsWithIndices(tc.text)
			if err != nil {
				t.Fatalf("MentionsOrListsWithIndices failed: %v", err)
			}
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("MentionsOrListsWithIndices(%q)\n got: %+v\nwant: %+v", tc.text, got, tc.expected)
			}
		})
	}
}

func TestMentionedScreenNamesExcludesLists(t *testing.T) {
	extractor := New()
	names, err := extractor.MentionedScreenNames("@jack/dorsey_list and @alice")
	if err != nil {
		t.Fatalf("MentionedScreenNames failed: %v", err)
	}
	expected := []string{"alice"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("got %v, want %v", names, expected)
	}
}

func TestReplyScreenName(t *testing.T) {
	extractor := New()

	cases := []struct {
		name     string
		text     string
		expected string
	}{
		{"simple_reply", "@jack hello", "jack"},
		{"leading_spaces", "  @jack hello", "jack"},
		{"ideographic_space", "　@jack hi", "jack"},
		{"not_a_reply", "hello @jack", ""},
		{"continues_into_token", "@jack@example.com", ""},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractor.ReplyScreenName(tc.text)
			if err != nil {
				t.Fatalf("ReplyScreenName failed: %v", err)
			}
			if got != tc.expected {
				t.Errorf("ReplyScreenName(%q) = %q, want %q", tc.text, got, tc.expected)
			}
		})
	}
}

func TestHashtagsWithIndices(t *testing.T) {
	extractor := New()

	cases := []struct {
		name     string
		text     string
		expected []Entity
	}{
		{
			name: "simple",
			text: "#foo bar",
			expected: []Entity{
				{Kind: KindHashtag, Text: "foo", Span: Span{0, 4}},
			},
		},
		{
			name: "mid_text",
			text: "text #tag here",
			expected: []Entity{
				{Kind: KindHashtag, Text: "tag", Span: Span{5, 9}},
			},
		},
		{
			name: "multiple",
			text: "#one #two",
			expected: []Entity{
				{Kind: KindHashtag, Text: "one", Span: Span{0, 4}},
				{Kind: KindHashtag, Text: "two", Span: Span{5, 9}},
			},
		},
		{
			name: "kanji_hashtag",
			text: "#日本語 desu",
			expected: []Entity{
				{Kind: KindHashtag, Text: "日本語", Span: Span{0, 4}},
			},
		},
		{
			name:     "digits_only_rejected",
			text:     "#123",
			expected: nil,
		},
		{
			name: "fullwidth_digits_are_letters",
			text: "#１２３",
			expected: []Entity{
				{Kind: KindHashtag, Text: "１２３", Span: Span{0, 4}},
			},
		},
		{
			name:     "adjacent_hashtags_filtered",
			text:     "#foo#bar",
			expected: nil,
		},
		{
			name:     "protocol_separator_filtered",
			text:     "#foo://bar",
			expected: nil,
		},
		{
			name:     "letter_boundary_blocks",
			text:     "in middle#foo",
			expected: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractor.HashtagsWithIndices(tc.text)
			if err != nil {
				t.Fatalf("HashtagsWithIndices failed: %v", err)
			}
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("HashtagsWithIndices(%q)\n got: %+v\nwant: %+v", tc.text, got, tc.expected)
			}
		})
	}
}

func TestCashtagsWithIndices(t *testing.T) {
	extractor := New()

	cases := []struct {
		name     string
		text     string
		expected []Entity
	}{
		{
			name: "simple",
			text: "$TWTR up 5%",
			expected: []Entity{
				{Kind: KindCashtag, Text: "TWTR", Span: Span{0, 5}},
			},
		},
		{
			name: "class_suffix",
			text: "I like $BRK.A today",
			expected: []Entity{
				{Kind: KindCashtag, Text: "BRK.A", Span: Span{7, 13}},
			},
		},
		{
			name: "fullwidth_marker",
			text: "＄TWTR",
			expected: []Entity{
				{Kind: KindCashtag, Text: "TWTR", Span: Span{0, 5}},
			},
		},
		{
			name:     "digits_rejected",
			text:     "$123",
			expected: nil,
		},
		{
			name:     "too_long_rejected",
			text:     "$TOOLONGG",
			expected: nil,
		},
		{
			name:     "needs_whitespace_boundary",
			text:     "price$TWTR",
			expected: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractor.CashtagsWithIndices(tc.text)
			if err != nil {
				t.Fatalf("CashtagsWithIndices failed: %v", err)
			}
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("CashtagsWithIndices(%q)\n got: %+v\nwant: %+v", tc.text, got, tc.expected)
			}
		})
	}
}

func TestEntitiesWithIndices(t *testing.T) {
	extractor := New()
	text := "@a http://example.com/#b #c $D"

	entities, err := extractor.EntitiesWithIndices(text)
	if err != nil {
		t.Fatalf("EntitiesWithIndices failed: %v", err)
	}

	kinds := make([]Kind, len(entities))
	for i, entity := range entities {
		kinds[i] = entity.Kind
	}
	expectedKinds := []Kind{KindMention, KindURL, KindHashtag, KindCashtag}
	if !reflect.DeepEqual(kinds, expectedKinds) {
		t.Fatalf("kinds = %v, want %v (entities: %+v)", kinds, expectedKinds, entities)
	}

	// The #b fragment inside the URL path must have been dropped in favor of
	// the URL; #c survives.
	if entities[2].Text != "c" {
		t.Errorf("hashtag = %q, want %q", entities[2].Text, "c")
	}
	for i := 1; i < len(entities); i++ {
		if entities[i].Span.Start < entities[i-1].Span.End {
			t.Errorf("entities out of order or overlapping: %+v", entities)
		}
	}
}

func TestHashtagInsideURLPathIsKnownSoftSpot(t *testing.T) {
	// The per-kind hashtag operation relies on boundary characters and
	// trailing context only; a fragment at the very end of a URL path slips
	// through. The combined operation resolves it in the URL's favor.
	extractor := New()
	tags, err := extractor.Hashtags("http://example.com/#anchor")
	if err != nil {
		t.Fatalf("Hashtags failed: %v", err)
	}
	expected := []string{"anchor"}
	if !reflect.DeepEqual(tags, expected) {
		t.Errorf("got %v, want %v", tags, expected)
	}
}

func TestSpanHelpers(t *testing.T) {
	a := Span{2, 5}
	if a.Len() != 3 {
		t.Errorf("Len = %d, want 3", a.Len())
	}
	if !a.Overlaps(Span{4, 6}) {
		t.Error("expected overlap")
	}
	if a.Overlaps(Span{5, 6}) {
		t.Error("half-open spans touching at the edge must not overlap")
	}
}
