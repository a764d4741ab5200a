package book_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lekturahq/lektura/internal/core/book"
)

/*
TestNormalizeGenre verifies the canonical genre key: casing, punctuation and
synonym spellings all fold to the same value.
*/
func TestNormalizeGenre(t *testing.T) {
	// 1. punctuation and casing variants of the same genre
	assert.Equal(t, book.NormalizeGenre("Sci-Fi"), book.NormalizeGenre("sci fi"))
	assert.Equal(t, book.NormalizeGenre("Sci-Fi"), book.NormalizeGenre("SCIFI"))
	assert.Equal(t, "science fiction", book.NormalizeGenre("sci_fi"))

	// 2. non-fiction synonym
	assert.Equal(t, book.NormalizeGenre("Non-Fiction"), book.NormalizeGenre("nonfiction"))
	assert.Equal(t, "non fiction", book.NormalizeGenre("nonfiction"))

	// 3. whitespace runs collapse
	assert.Equal(t, "historical fiction", book.NormalizeGenre("  Historical   Fiction "))

	// 4. plain genres pass through lowercased
	assert.Equal(t, "romance", book.NormalizeGenre("Romance"))
}

/*
TestGenreOptions verifies the derived genre list: distinct, trimmed,
original casing preserved, sorted ascending.
*/
func TestGenreOptions(t *testing.T) {
	books := []book.Book{
		{Genre: "Romance"},
		{Genre: " Sci-Fi "},
		{Genre: "Romance"},
		{Genre: ""},
		{Genre: "Fantasy"},
	}

	options := book.GenreOptions(books)

	assert.Equal(t, []string{"Fantasy", "Romance", "Sci-Fi"}, options)
}

/*
TestYearOptions verifies the derived year list: distinct positive years,
most recent first.
*/
func TestYearOptions(t *testing.T) {
	books := []book.Book{
		{PublishedYear: 1965},
		{PublishedYear: 2021},
		{PublishedYear: 0},
		{PublishedYear: 1965},
		{PublishedYear: 1815},
	}

	options := book.YearOptions(books)

	assert.Equal(t, []int{2021, 1965, 1815}, options)
}
