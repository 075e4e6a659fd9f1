package pattern

import "github.com/dlclark/regexp2"

// GroupPresent reports whether capture group n participated in the match.
func GroupPresent(m *regexp2.Match, n int) bool {
	g := m.GroupByNumber(n)
	return g != nil && len(g.Captures) > 0
}

// GroupText returns the text captured by group n, or "" if the group did not
// participate in the match.
func GroupText(m *regexp2.Match, n int) string {
	g := m.GroupByNumber(n)
	if g == nil || len(g.Captures) == 0 {
		return ""
	}
	return g.String()
}

// GroupLength returns the captured length of group n in runes, or 0 if the
// group did not participate in the match.
func GroupLength(m *regexp2.Match, n int) int {
	g := m.GroupByNumber(n)
	if g == nil || len(g.Captures) == 0 {
		return 0
	}
	return g.Length
}

// GroupIndex returns the rune offset of group n within the input, or -1 if
// the group did not participate in the match.
func GroupIndex(m *regexp2.Match, n int) int {
	g := m.GroupByNumber(n)
	if g == nil || len(g.Captures) == 0 {
		return -1
	}
	return g.Index
}
