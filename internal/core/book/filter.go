package book

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the ordering of a filtered result set.
type SortKey string

const (
	SortByTitle  SortKey = "title"
	SortByAuthor SortKey = "author"
	SortByRating SortKey = "rating"
	SortByYear   SortKey = "year"
)

// ParseSortKey maps a raw query value onto a [SortKey], defaulting to title.
func ParseSortKey(raw string) SortKey {
	switch SortKey(raw) {
	case SortByAuthor, SortByRating, SortByYear:
		return SortKey(raw)
	default:
		return SortByTitle
	}
}

// Query is a conjunctive filter over the catalog. Zero-valued constraints
// are inactive; every active constraint must hold for a record to pass.
type Query struct {
	SearchText string
	Genre      string
	MinRating  *float64
	Year       *int
	Sort       SortKey
}

// Apply filters and sorts a collection according to the query.
//
// The stages are conjunctive, so their order never changes the outcome:
// substring search over title/author/genre, normalized-genre equality,
// minimum rating, exact year, then a stable sort. Apply is pure; the input
// slice is never mutated.
func Apply(books []Book, query Query) []Book {
	result := slices.Clone(books)

	if needle := strings.ToLower(strings.TrimSpace(query.SearchText)); needle != "" {
		result = keep(result, func(b Book) bool {
			return strings.Contains(strings.ToLower(b.Title), needle) ||
				strings.Contains(strings.ToLower(b.Author), needle) ||
				strings.Contains(strings.ToLower(b.Genre), needle)
		})
	}

	if query.Genre != "" {
		wanted := NormalizeGenre(query.Genre)
		result = keep(result, func(b Book) bool {
			return NormalizeGenre(b.Genre) == wanted
		})
	}

	if query.MinRating != nil {
		minimum := *query.MinRating
		result = keep(result, func(b Book) bool {
			return b.Rating >= minimum
		})
	}

	if query.Year != nil {
		year := *query.Year
		result = keep(result, func(b Book) bool {
			return b.PublishedYear == year
		})
	}

	sortBooks(result, query.Sort)

	return result
}

// keep filters in place over the already-cloned working slice.
func keep(books []Book, predicate func(Book) bool) []Book {
	filtered := books[:0]
	for _, b := range books {
		if predicate(b) {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

// sortBooks orders the slice by the given key. Text keys sort ascending
// with locale-aware comparison, numeric keys descending. The sort is
// stable: records that compare equal keep their incoming order.
func sortBooks(books []Book, key SortKey) {
	switch key {
	case SortByRating:
		slices.SortStableFunc(books, func(a, b Book) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	case SortByYear:
		slices.SortStableFunc(books, func(a, b Book) int {
			return cmp.Compare(b.PublishedYear, a.PublishedYear)
		})
	case SortByAuthor:
		collator := collate.New(language.Und)
		slices.SortStableFunc(books, func(a, b Book) int {
			return collator.CompareString(a.Author, b.Author)
		})
	default:
		collator := collate.New(language.Und)
		slices.SortStableFunc(books, func(a, b Book) int {
			return collator.CompareString(a.Title, b.Title)
		})
	}
}
