/*
Package book implements the catalog: normalization of heterogeneous upstream
book records into a canonical shape, in-memory filtering and sorting, and the
HTTP surface for browsing and administering the collection.
*/
package book

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// maxYear bounds the publication year a record may carry.
const maxYear = 9999

// Book is the canonical catalog record. Every record entering the system,
// whatever field aliases its source used, is reduced to this shape.
type Book struct {
	ID            string  `json:"bookId"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Genre         string  `json:"genre"`
	Description   string  `json:"description"`
	CoverImageURL string  `json:"coverImage"`
	ISBN          string  `json:"isbn"`
	Rating        float64 `json:"rating"`
	PublishedYear int     `json:"publishedYear"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// RawRecord captures every field alias observed across upstream catalog
// sources. Fields are untyped because sources disagree on types as well as
// names (numbers arriving as strings and vice versa).
type RawRecord struct {
	BookID          any `json:"bookId"`
	ID              any `json:"id"`
	Title           any `json:"title"`
	Author          any `json:"author"`
	Genre           any `json:"genre"`
	Description     any `json:"description"`
	CoverImage      any `json:"coverImage"`
	CoverImageURL   any `json:"coverImageUrl"`
	ISBN            any `json:"isbn"`
	Rating          any `json:"rating"`
	AverageRating   any `json:"averageRating"`
	PublishedYear   any `json:"publishedYear"`
	PublicationYear any `json:"publicationYear"`
	Year            any `json:"year"`
	PublishedDate   any `json:"published_date"`
}

// Normalize reduces a raw upstream record to a canonical [Book].
//
// Alias precedence: id from bookId then id; rating from rating then
// averageRating; year from publishedYear, publicationYear, year, then
// published_date. Strings default to "", numbers coerce from string form
// and fall back to 0 when unparseable or non-finite. Normalize is total:
// it never fails, whatever the input.
func Normalize(raw RawRecord) Book {
	return Book{
		ID:            toString(firstPresent(raw.BookID, raw.ID)),
		Title:         toString(raw.Title),
		Author:        toString(raw.Author),
		Genre:         toString(raw.Genre),
		Description:   toString(raw.Description),
		CoverImageURL: toString(firstPresent(raw.CoverImage, raw.CoverImageURL)),
		ISBN:          toString(raw.ISBN),
		Rating:        toNumber(firstPresent(raw.Rating, raw.AverageRating)),
		PublishedYear: toYear(firstPresent(raw.PublishedYear, raw.PublicationYear, raw.Year, raw.PublishedDate)),
	}
}

// firstPresent returns the first value that is not nil.
// Unlike empty-string coalescing, a present-but-empty value still wins.
func firstPresent(values ...any) any {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// toString coerces a raw field to its string form, defaulting to "".
func toString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return ""
	}
}

// toNumber coerces a raw field to a finite float64, defaulting to 0.
func toNumber(v any) float64 {
	var n float64

	switch value := v.(type) {
	case float64:
		n = value
	case string:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}

	return n
}

// toYear coerces a raw year field to an int. Values outside the plausible
// calendar range fall back to 0, so a degenerate magnitude can never reach
// the float-to-int conversion, whose out-of-range behavior is unspecified.
func toYear(v any) int {
	n := toNumber(v)
	if n < 0 || n > maxYear {
		return 0
	}
	return int(n)
}
