// Package fuzzy scores free-text queries against catalog names.
//
// Scores are integers in [0, 100]. A candidate's score is the maximum of four
// ratios so that typos, reordered words, prefixes and extra tokens all match.
package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/adrg/strutil/metrics"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// indel is Levenshtein with substitution priced as a delete plus an insert,
// so its distance is len(a)+len(b)-2*LCS(a, b).
var indel = &metrics.Levenshtein{
	CaseSensitive: true,
	InsertCost:    1,
	DeleteCost:    1,
	ReplaceCost:   2,
}

// Normalize lowercases s, drops every rune that is not a letter, digit,
// underscore or space, and collapses whitespace.
func Normalize(s string) string {
	s = lower.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Ratio is the InDel similarity of a and b: 2*LCS / (len(a)+len(b)).
func Ratio(a, b string) int {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}
	total := la + lb
	return round(100 * float64(total-indel.Distance(a, b)) / float64(total))
}

// PartialRatio is the best Ratio of the shorter string against every window
// of the longer string with the same length.
func PartialRatio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	shorter, longer := ra, rb
	if len(ra) > len(rb) {
		shorter, longer = rb, ra
	}
	best := 0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		r := Ratio(string(shorter), string(longer[i:i+len(shorter)]))
		if r == 100 {
			return 100
		}
		if r > best {
			best = r
		}
	}
	return best
}

// TokenSortRatio compares the strings after sorting their tokens.
func TokenSortRatio(a, b string) int {
	return Ratio(sortedTokens(a), sortedTokens(b))
}

// TokenSetRatio compares the shared tokens against each side's full token
// set, which ignores duplicated and extra tokens.
func TokenSetRatio(a, b string) int {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var inter, onlyA, onlyB []string
	for t := range ta {
		if tb[t] {
			inter = append(inter, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range tb {
		if !ta[t] {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(inter)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	sect := strings.Join(inter, " ")
	combinedA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	return max(
		Ratio(sect, combinedA),
		Ratio(sect, combinedB),
		Ratio(combinedA, combinedB),
	)
}

// Score is the maximum of the four ratios.
func Score(a, b string) int {
	return max(
		Ratio(a, b),
		PartialRatio(a, b),
		TokenSortRatio(a, b),
		TokenSetRatio(a, b),
	)
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Fields(s) {
		set[t] = true
	}
	return set
}

func round(f float64) int {
	return int(math.RoundToEven(f))
}
