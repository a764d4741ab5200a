package review

import (
	"context"
	"time"
)

// Repository is the persistence boundary for reviews.
type Repository interface {
	ListByBook(context context.Context, bookID string) ([]*Review, error)
	Find(context context.Context, bookID string, createdAt time.Time) (*Review, error)
	Create(context context.Context, review *Review) error
	Delete(context context.Context, bookID string, createdAt time.Time) error
}
