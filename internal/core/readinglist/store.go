package readinglist

import "context"

// Repository is the persistence boundary for reading lists.
type Repository interface {
	ListByUser(context context.Context, userID string) ([]*ReadingList, error)
	FindByID(context context.Context, id string) (*ReadingList, error)
	Create(context context.Context, list *ReadingList) error
	Update(context context.Context, list *ReadingList) error
	Delete(context context.Context, id string) error
	Count(context context.Context) (int, error)
}
