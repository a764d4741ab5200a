package book

import "context"

// Repository is the persistence boundary for the catalog.
type Repository interface {
	List(context context.Context) ([]Book, error)
	FindByID(context context.Context, id string) (*Book, error)
	Create(context context.Context, book *Book) error
	Update(context context.Context, book *Book) error
	Delete(context context.Context, id string) error

	// Upsert inserts or replaces records by id in a single transaction,
	// returning the number of records written.
	Upsert(context context.Context, books []Book) (int, error)
}
