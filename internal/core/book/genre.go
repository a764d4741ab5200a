package book

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/lekturahq/lektura/pkg/slice"
)

// NormalizeGenre produces the canonical comparison key for a genre string.
//
// It lowercases, collapses runs of dashes, underscores and whitespace to
// single spaces, trims, and folds known synonym spellings. The key is used
// only for equality checks; display always keeps the original casing.
// Two genre strings name the same genre iff their keys are equal.
func NormalizeGenre(genre string) string {
	lowered := strings.ToLower(strings.TrimSpace(genre))
	lowered = strings.Map(func(r rune) rune {
		if r == '-' || r == '_' {
			return ' '
		}
		return r
	}, lowered)
	key := strings.Join(strings.Fields(lowered), " ")

	switch key {
	case "sci fi", "scifi":
		return "science fiction"
	case "nonfiction":
		return "non fiction"
	}

	return key
}

// GenreOptions derives the distinct non-empty genre strings of a collection,
// trimmed but in original casing, sorted ascending. It is a pure view over
// the collection and must be recomputed when the collection changes.
func GenreOptions(books []Book) []string {
	genres := slice.Filter(
		slice.Map(books, func(b Book) string { return strings.TrimSpace(b.Genre) }),
		func(genre string) bool { return genre != "" },
	)

	options := slice.Unique(genres)

	collator := collate.New(language.Und)
	slices.SortFunc(options, func(a, b string) int { return collator.CompareString(a, b) })

	return options
}

// YearOptions derives the distinct positive publication years of a
// collection, sorted descending (most recent first).
func YearOptions(books []Book) []int {
	years := slice.Filter(
		slice.Map(books, func(b Book) int { return b.PublishedYear }),
		func(year int) bool { return year > 0 },
	)

	options := slice.Unique(years)
	slices.SortFunc(options, func(a, b int) int { return b - a })

	return options
}
