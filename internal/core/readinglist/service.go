package readinglist

import (
	"context"
	"log/slog"
	"time"

	"github.com/lekturahq/lektura/internal/platform/apperr"
	"github.com/lekturahq/lektura/internal/platform/validate"
	"github.com/lekturahq/lektura/pkg/uuid"
)

// Validation field identifiers.
const (
	FieldName   = "name"
	FieldBookID = "bookId"
)

// # Service Layer

// Service orchestrates reading-list management. All operations are scoped
// to the acting user; a list is never visible outside its owner.
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

// ListForUser returns the user's reading lists.
func (service *Service) ListForUser(context context.Context, userID string) ([]*ReadingList, error) {
	return service.repository.ListByUser(context, userID)
}

// Get returns one of the user's lists. A list owned by someone else is
// reported as not found, never as forbidden, so existence does not leak.
func (service *Service) Get(context context.Context, userID, listID string) (*ReadingList, error) {
	return service.findOwned(context, userID, listID)
}

/*
Create persists a new, empty reading list for the user.

Parameters:
  - context: context.Context
  - userID: string (The owner)
  - name: string
  - description: string

Returns:
  - *ReadingList: The persisted list
  - error: Validation or persistence errors
*/
func (service *Service) Create(context context.Context, userID, name, description string) (*ReadingList, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, 200)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	list := &ReadingList{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Description: description,
		BookIDs:     []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := service.repository.Create(context, list); err != nil {
		return nil, err
	}

	return list, nil
}

// Rename updates the list's name and description.
func (service *Service) Rename(context context.Context, userID, listID, name, description string) (*ReadingList, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, 200)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	list, err := service.findOwned(context, userID, listID)
	if err != nil {
		return nil, err
	}

	list.Name = name
	list.Description = description
	list.UpdatedAt = time.Now().UTC()

	if err := service.repository.Update(context, list); err != nil {
		return nil, err
	}

	return list, nil
}

// Delete removes one of the user's lists.
func (service *Service) Delete(context context.Context, userID, listID string) error {
	if _, err := service.findOwned(context, userID, listID); err != nil {
		return err
	}

	return service.repository.Delete(context, listID)
}

/*
AddBook appends a book to the end of the list.

Description: Order is preserved; the new entry always lands last. Adding a
book the list already holds is rejected with a conflict, keeping each list
free of duplicates.

Parameters:
  - context: context.Context
  - userID: string
  - listID: string
  - bookID: string

Returns:
  - *ReadingList: The updated list
  - error: Conflict on duplicates, validation or persistence errors
*/
func (service *Service) AddBook(context context.Context, userID, listID, bookID string) (*ReadingList, error) {
	validator := &validate.Validator{}
	validator.Required(FieldBookID, bookID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	list, err := service.findOwned(context, userID, listID)
	if err != nil {
		return nil, err
	}

	if list.Contains(bookID) {
		return nil, apperr.Conflict("Book is already on this list")
	}

	list.BookIDs = append(list.BookIDs, bookID)
	list.UpdatedAt = time.Now().UTC()

	if err := service.repository.Update(context, list); err != nil {
		return nil, err
	}

	return list, nil
}

// RemoveBook deletes a book from the list, keeping the remaining order.
// Removing a book that is not on the list is a no-op.
func (service *Service) RemoveBook(context context.Context, userID, listID, bookID string) (*ReadingList, error) {
	list, err := service.findOwned(context, userID, listID)
	if err != nil {
		return nil, err
	}

	remaining := make([]string, 0, len(list.BookIDs))
	for _, id := range list.BookIDs {
		if id != bookID {
			remaining = append(remaining, id)
		}
	}

	if len(remaining) != len(list.BookIDs) {
		list.BookIDs = remaining
		list.UpdatedAt = time.Now().UTC()

		if err := service.repository.Update(context, list); err != nil {
			return nil, err
		}
	}

	return list, nil
}

// findOwned loads a list and enforces ownership.
func (service *Service) findOwned(context context.Context, userID, listID string) (*ReadingList, error) {
	list, err := service.repository.FindByID(context, listID)
	if err != nil {
		return nil, err
	}

	if list.UserID != userID {
		return nil, apperr.NotFound("Reading list")
	}

	return list, nil
}
