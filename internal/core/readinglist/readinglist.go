/*
Package readinglist implements user-curated, ordered collections of catalog
records. Lists are private to their owner; every operation is scoped to the
authenticated user.
*/
package readinglist

import (
	"time"

	"github.com/lekturahq/lektura/pkg/slice"
)

// ReadingList is an ordered collection of book identifiers owned by a user.
type ReadingList struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	BookIDs     []string  `json:"bookIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Contains reports whether the list already holds the given book.
func (list *ReadingList) Contains(bookID string) bool {
	return slice.Contains(list.BookIDs, bookID)
}
