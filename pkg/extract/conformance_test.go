package extract

import (
	"os"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

type conformanceCase struct {
	Description string   `yaml:"description"`
	Text        string   `yaml:"text"`
	Expected    []string `yaml:"expected"`
}

type replyCase struct {
	Description string `yaml:"description"`
	Text        string `yaml:"text"`
	Expected    string `yaml:"expected"`
}

type conformanceSuite struct {
	Tests struct {
		URLs     []conformanceCase `yaml:"urls"`
		Mentions []conformanceCase `yaml:"mentions"`
		Replies  []replyCase       `yaml:"replies"`
		Hashtags []conformanceCase `yaml:"hashtags"`
		Cashtags []conformanceCase `yaml:"cashtags"`
	} `yaml:"tests"`
}

func loadConformanceSuite(t *testing.T) *conformanceSuite {
	t.Helper()
	raw, err := os.ReadFile("testdata/extract.yml")
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	var suite conformanceSuite
	if err := yaml.Unmarshal(raw, &suite); err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}
	return &suite
}

func runConformance(t *testing.T, cases []conformanceCase, op func(string) ([]string, error)) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.Description, func(t *testing.T) {
			got, err := op(tc.Text)
			if err != nil {
				t.Fatalf("extraction failed: %v", err)
			}
			if got == nil {
				got = []string{}
			}
			expected := tc.Expected
			if expected == nil {
				expected = []string{}
			}
			if !reflect.DeepEqual(got, expected) {
				t.Errorf("text %q\n got: %v\nwant: %v", tc.Text, got, expected)
			}
		})
	}
}

func TestConformanceURLs(t *testing.T) {
	suite := loadConformanceSuite(t)
	extractor := New()
	runConformance(t, suite.Tests.URLs, func(text string) ([]string, error) {
		return extractor.URLs(text)
	})
}

func TestConformanceMentions(t *testing.T) {
	suite := loadConformanceSuite(t)
	extractor := New()
	runConformance(t, suite.Tests.Mentions, extractor.MentionedScreenNames)
}

func TestConformanceReplies(t *testing.T) {
	suite := loadConformanceSuite(t)
	extractor := New()
	for _, tc := range suite.Tests.Replies {
		t.Run(tc.Description, func(t *testing.T) {
			got, err := extractor.ReplyScreenName(tc.Text)
			if err != nil {
				t.Fatalf("extraction failed: %v", err)
			}
			if got != tc.Expected {
				t.Errorf("ReplyScreenName(%q) = %q, want %q", tc.Text, got, tc.Expected)
			}
		})
	}
}

func TestConformanceHashtags(t *testing.T) {
	suite := loadConformanceSuite(t)
	extractor := New()
	runConformance(t, suite.Tests.Hashtags, extractor.Hashtags)
}

func TestConformanceCashtags(t *testing.T) {
	suite := loadConformanceSuite(t)
	extractor := New()
	runConformance(t, suite.Tests.Cashtags, extractor.Cashtags)
}
