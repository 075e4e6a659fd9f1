package validate

import (
	"os"
	"testing"

	"gopkg.in/yaml.v3"
)

type lengthCase struct {
	Description string `yaml:"description"`
	Text        string `yaml:"text"`
	Expected    int    `yaml:"expected"`
}

type validityCase struct {
	Description string `yaml:"description"`
	Text        string `yaml:"text"`
	Expected    bool   `yaml:"expected"`
}

type validateSuite struct {
	Tests struct {
		Lengths  []lengthCase   `yaml:"lengths"`
		Validity []validityCase `yaml:"validity"`
	} `yaml:"tests"`
}

func loadValidateSuite(t *testing.T) *validateSuite {
	t.Helper()
	raw, err := os.ReadFile("testdata/validate.yml")
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	var suite validateSuite
	if err := yaml.Unmarshal(raw, &suite); err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}
	return &suite
}

func TestConformanceLengths(t *testing.T) {
	suite := loadValidateSuite(t)
	validator := New()
	for _, tc := range suite.Tests.Lengths {
		t.Run(tc.Description, func(t *testing.T) {
			got, err := validator.TweetLength(tc.Text)
			if err != nil {
				t.Fatalf("TweetLength failed: %v", err)
			}
			if got != tc.Expected {
				t.Errorf("TweetLength(%q) = %d, want %d", tc.Text, got, tc.Expected)
			}
		})
	}
}

func TestConformanceValidity(t *testing.T) {
	suite := loadValidateSuite(t)
	validator := New()
	for _, tc := range suite.Tests.Validity {
		t.Run(tc.Description, func(t *testing.T) {
			got, err := validator.ValidTweetText(tc.Text)
			if err != nil {
				t.Fatalf("ValidTweetText failed: %v", err)
			}
			if got != tc.Expected {
				t.Errorf("ValidTweetText(%q) = %v, want %v", tc.Text, got, tc.Expected)
			}
		})
	}
}

func TestWeightRangesOrdering(t *testing.T) {
	// The table is searched front to back; ranges must be disjoint and sorted
	// so the first hit is the only hit.
	for i := 1; i < len(weightRanges); i++ {
		if weightRanges[i].lo <= weightRanges[i-1].hi {
			t.Fatalf("weight ranges out of order at %d: %+v", i, weightRanges)
		}
	}
}

func TestCodepointWeight(t *testing.T) {
	cases := []struct {
		name     string
		r        rune
		expected int
	}{
		{"ascii", 'a', 100},
		{"latin_supplement", 'é', 100},
		{"top_of_light_range", rune(4351), 100},
		{"first_heavy", rune(4352), 200},
		{"general_punctuation", rune(0x2013), 100},
		{"prime_marks", rune(0x2032), 100},
		{"cjk", '日', 200},
		{"high_surrogate", rune(0xD800), 0},
		{"astral", rune(0x1F600), 200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := codepointWeight(tc.r); got != tc.expected {
				t.Errorf("codepointWeight(%#x) = %d, want %d", tc.r, got, tc.expected)
			}
		})
	}
}
