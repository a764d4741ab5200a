/*
Package review implements per-book reviews.

A review is keyed by (bookID, createdAt); the identifier exposed to clients
is the composite "bookId#createdAt" string. Whether the author was an
administrator is captured at creation time from the resolved session, so
the badge shown next to a review stays correct even if the author is later
renamed or their group membership changes.
*/
package review

import (
	"fmt"
	"strings"
	"time"
)

// Review is one user's opinion of one book.
type Review struct {
	BookID      string    `json:"bookId"`
	CreatedAt   time.Time `json:"createdAt"`
	UserID      string    `json:"-"`
	UserName    string    `json:"userName"`
	AuthorAdmin bool      `json:"authorAdmin"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
}

// PublicID returns the composite identifier exposed by the API.
func (review *Review) PublicID() string {
	return fmt.Sprintf("%s#%s", review.BookID, review.CreatedAt.UTC().Format(time.RFC3339Nano))
}

// MarshalID is the JSON view of a review, wrapping the entity with its
// composite identifier.
type MarshalID struct {
	ID string `json:"id"`
	*Review
}

// WithID wraps a review for serialization.
func WithID(review *Review) MarshalID {
	return MarshalID{ID: review.PublicID(), Review: review}
}

// ParsePublicID splits a composite identifier back into its parts.
func ParsePublicID(id string) (bookID string, createdAt time.Time, err error) {
	separator := strings.LastIndex(id, "#")
	if separator < 0 {
		return "", time.Time{}, fmt.Errorf("review: malformed identifier %q", id)
	}

	createdAt, err = time.Parse(time.RFC3339Nano, id[separator+1:])
	if err != nil {
		return "", time.Time{}, fmt.Errorf("review: malformed identifier %q: %w", id, err)
	}

	return id[:separator], createdAt, nil
}
