package validate

// The display-length model weights each codepoint and divides the sum by a
// scale factor. Most of the Basic Multilingual Plane up to U+10FF plus a few
// general-punctuation runs cost one display character; everything else costs
// two, a holdover from the 140-character era that is preserved exactly.

const (
	weightScale   = 100
	defaultWeight = 200
)

type weightRange struct {
	lo     rune
	hi     rune
	weight int
}

// weightRanges is ordered; the first matching range wins.
var weightRanges = []weightRange{
	{0, 4351, 100},
	{8192, 8205, 100},
	{8208, 8223, 100},
	{8242, 8247, 100},
}

// codepointWeight returns the display weight of a single codepoint. UTF-16
// surrogate codepoints never count.
func codepointWeight(r rune) int {
	if r >= 0xD800 && r <= 0xDBFF {
		return 0
	}
	for _, rng := range weightRanges {
		if r >= rng.lo && r <= rng.hi {
			return rng.weight
		}
	}
	return defaultWeight
}
