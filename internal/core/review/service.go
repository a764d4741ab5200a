package review

import (
	"context"
	"log/slog"
	"time"

	"github.com/lekturahq/lektura/internal/platform/apperr"
	"github.com/lekturahq/lektura/internal/platform/sec"
	"github.com/lekturahq/lektura/internal/platform/validate"
)

// Validation field identifiers.
const (
	FieldRating  = "rating"
	FieldComment = "comment"
)

// # Service Layer

// Service orchestrates review reading and moderation.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its required repository.
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
	}
}

// ListForBook returns a book's reviews, newest first.
func (service *Service) ListForBook(context context.Context, bookID string) ([]*Review, error) {
	return service.repository.ListByBook(context, bookID)
}

/*
Create persists a new review by the authenticated user.

Description: The author's display name and admin standing are both taken
from the verified claims of the acting session and frozen into the record.
The admin badge is an authorization fact, not a display-name convention.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims (The acting session)
  - bookID: string
  - rating: int (1 to 5)
  - comment: string

Returns:
  - *Review: The persisted review
  - error: Validation or persistence errors
*/
func (service *Service) Create(context context.Context, claims *sec.AuthClaims, bookID string, rating int, comment string) (*Review, error) {
	validator := &validate.Validator{}
	validator.Range(FieldRating, rating, 1, 5)
	validator.MaxLen(FieldComment, comment, 4000)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	record := &Review{
		BookID:      bookID,
		CreatedAt:   time.Now().UTC(),
		UserID:      claims.UserID(),
		UserName:    authorName(claims),
		AuthorAdmin: claims.IsAdmin(),
		Rating:      rating,
		Comment:     comment,
	}

	if err := service.repository.Create(context, record); err != nil {
		return nil, err
	}

	return record, nil
}

// Delete removes a review. The author may delete their own review; an
// administrator may delete anyone's.
func (service *Service) Delete(context context.Context, claims *sec.AuthClaims, publicID string) error {
	bookID, createdAt, err := ParsePublicID(publicID)
	if err != nil {
		return apperr.ValidationError("Malformed review identifier")
	}

	record, err := service.repository.Find(context, bookID, createdAt)
	if err != nil {
		return err
	}

	if record.UserID != claims.UserID() && !claims.IsAdmin() {
		return apperr.Forbidden("Only the author or an administrator can delete a review")
	}

	return service.repository.Delete(context, bookID, createdAt)
}

// authorName picks the display name frozen into the review.
func authorName(claims *sec.AuthClaims) string {
	if claims.Name != "" {
		return claims.Name
	}
	if claims.Email != "" {
		return claims.Email
	}
	return claims.UserID()
}
