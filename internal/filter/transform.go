package filter

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeQuery trims and lowercases q. The second result is false when the
// query is too short to filter by (absent, empty or a single character), in
// which case everything matches.
func NormalizeQuery(q *string) (string, bool) {
	if q == nil {
		return "", false
	}
	normalized := fold(strings.TrimSpace(*q))
	return normalized, utf8.RuneCountInString(normalized) > 1
}

// fold lowercases s for matching. A cases.Caser carries state, so one is
// built per call rather than shared.
func fold(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}

// Transform filters origin by query and sorts the result by title. Equal
// titles are ordered by ID so the output is deterministic. origin is not
// modified.
func Transform(origin []Component, query *string) []Component {
	needle, ok := NormalizeQuery(query)

	out := make([]Component, 0, len(origin))
	for _, c := range origin {
		if !ok || strings.Contains(fold(c.Title), needle) {
			out = append(out, c)
		}
	}

	slices.SortFunc(out, func(a, b Component) int {
		return cmp.Or(
			cmp.Compare(a.Title, b.Title),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return out
}
