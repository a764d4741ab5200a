package book

import (
	"context"
	"log/slog"
	"time"

	"github.com/lekturahq/lektura/internal/platform/validate"
	"github.com/lekturahq/lektura/pkg/uuid"
)

// Validation field identifiers, matching the JSON names clients send.
const (
	FieldTitle  = "title"
	FieldAuthor = "author"
	FieldRating = "rating"
	FieldYear   = "publishedYear"
)

// Options bundles the derived filter-control values for the collection.
type Options struct {
	Genres []string `json:"genres"`
	Years  []int    `json:"years"`
}

// # Service Layer

// Service orchestrates the business logic for the book catalog.
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

// # Catalog Lookups

/*
ListBooks retrieves the filtered, sorted view of the catalog.

Description: The full collection is loaded and the query is evaluated
in memory. Filtering happens over normalized records, so heterogeneous
source data never leaks into the comparison rules.

Parameters:
  - context: context.Context
  - query: Query (search text, genre, rating floor, year, sort key)

Returns:
  - []Book: Matching records in query order
  - error: Repository errors
*/
func (service *Service) ListBooks(context context.Context, query Query) ([]Book, error) {
	books, err := service.repository.List(context)
	if err != nil {
		return nil, err
	}

	return Apply(books, query), nil
}

// GetBook fetches a single catalog record by its identifier.
func (service *Service) GetBook(context context.Context, id string) (*Book, error) {
	return service.repository.FindByID(context, id)
}

// ListOptions derives the filter-control values from the current collection.
func (service *Service) ListOptions(context context.Context) (*Options, error) {
	books, err := service.repository.List(context)
	if err != nil {
		return nil, err
	}

	return &Options{
		Genres: GenreOptions(books),
		Years:  YearOptions(books),
	}, nil
}

// # Catalog Management

/*
CreateBook normalizes and persists a new catalog record.

Description: The raw record is reduced to canonical form first, so alias
fields and string-typed numbers are already resolved before validation.
A missing identifier is replaced with a generated UUID v7.

Parameters:
  - context: context.Context
  - raw: RawRecord (The record as received from the client)

Returns:
  - *Book: The persisted canonical record
  - error: Validation or persistence errors
*/
func (service *Service) CreateBook(context context.Context, raw RawRecord) (*Book, error) {
	record := Normalize(raw)

	if err := validateBook(&record); err != nil {
		return nil, err
	}

	if record.ID == "" {
		record.ID = uuid.New()
	}

	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	if err := service.repository.Create(context, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

// UpdateBook replaces the stored record with the normalized form of raw.
// The path identifier wins over any identifier inside the payload.
func (service *Service) UpdateBook(context context.Context, id string, raw RawRecord) (*Book, error) {
	record := Normalize(raw)
	record.ID = id

	if err := validateBook(&record); err != nil {
		return nil, err
	}

	record.UpdatedAt = time.Now().UTC()

	if err := service.repository.Update(context, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

// DeleteBook removes a catalog record.
func (service *Service) DeleteBook(context context.Context, id string) error {
	return service.repository.Delete(context, id)
}

/*
ImportBooks ingests a batch of raw records from an upstream source.

Description: Every record is normalized; records that end up without a
title are dropped rather than failing the batch, since bulk feeds are
expected to contain junk rows. Records with no identifier get one.

Returns:
  - int: The number of records written
  - error: Persistence errors
*/
func (service *Service) ImportBooks(context context.Context, raws []RawRecord) (int, error) {
	now := time.Now().UTC()

	records := make([]Book, 0, len(raws))
	for _, raw := range raws {
		record := Normalize(raw)
		if record.Title == "" {
			continue
		}
		if record.ID == "" {
			record.ID = uuid.New()
		}
		record.CreatedAt = now
		record.UpdatedAt = now
		records = append(records, record)
	}

	if len(records) == 0 {
		return 0, nil
	}

	written, err := service.repository.Upsert(context, records)
	if err != nil {
		return 0, err
	}

	service.logger.Info("catalog import completed",
		slog.Int("received", len(raws)),
		slog.Int("written", written))

	return written, nil
}

// validateBook enforces the business constraints on a canonical record.
func validateBook(record *Book) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, record.Title).MaxLen(FieldTitle, record.Title, 500)
	validator.MaxLen(FieldAuthor, record.Author, 300)
	validator.RangeFloat(FieldRating, record.Rating, 0, 5)

	if record.PublishedYear != 0 {
		validator.Range(FieldYear, record.PublishedYear, 1, maxYear)
	}

	return validator.Err()
}
