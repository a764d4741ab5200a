package book

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lekturahq/lektura/internal/platform/database/schema"
	"github.com/lekturahq/lektura/internal/platform/dberr"
)

// PostgresRepository persists catalog records in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context) ([]Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC`,
		strings.Join(schema.CatalogBook.Columns(), ", "),
		schema.CatalogBook.Table, schema.CatalogBook.ID)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_books")
	}
	defer rows.Close()

	books := make([]Book, 0)
	for rows.Next() {
		var record Book
		if err := scanBook(rows, &record); err != nil {
			return nil, dberr.Wrap(err, "scan_book")
		}
		books = append(books, record)
	}

	return books, rows.Err()
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(schema.CatalogBook.Columns(), ", "),
		schema.CatalogBook.Table, schema.CatalogBook.ID)

	record := &Book{}
	if err := scanBook(repository.db.QueryRow(context, query, id), record); err != nil {
		return nil, dberr.Wrap(err, "get_book_by_id")
	}

	return record, nil
}

func (repository *PostgresRepository) Create(context context.Context, record *Book) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, schema.CatalogBook.Table, strings.Join(schema.CatalogBook.Columns(), ", "))

	_, err := repository.db.Exec(context, query, bookArgs(record)...)
	if err != nil {
		return dberr.Wrap(err, "create_book")
	}

	return nil
}

func (repository *PostgresRepository) Update(context context.Context, record *Book) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6,
			%s = $7, %s = $8, %s = $9, %s = $10
		WHERE %s = $1
	`, schema.CatalogBook.Table,
		schema.CatalogBook.Title, schema.CatalogBook.Author, schema.CatalogBook.Genre,
		schema.CatalogBook.Description, schema.CatalogBook.CoverImageURL,
		schema.CatalogBook.ISBN, schema.CatalogBook.Rating, schema.CatalogBook.PublishedYear,
		schema.CatalogBook.UpdatedAt,
		schema.CatalogBook.ID)

	tag, err := repository.db.Exec(context, query,
		record.ID, record.Title, record.Author, record.Genre,
		record.Description, record.CoverImageURL,
		record.ISBN, record.Rating, record.PublishedYear,
		record.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "update_book")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "update_book")
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CatalogBook.Table, schema.CatalogBook.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_book")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "delete_book")
	}

	return nil
}

// Upsert writes the batch inside one transaction so a partial feed never
// becomes visible.
func (repository *PostgresRepository) Upsert(context context.Context, records []Book) (int, error) {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return 0, dberr.Wrap(err, "upsert_books_begin")
	}
	defer func() { _ = transaction.Rollback(context) }()

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s
	`, schema.CatalogBook.Table, strings.Join(schema.CatalogBook.Columns(), ", "),
		schema.CatalogBook.ID,
		schema.CatalogBook.Title, schema.CatalogBook.Title,
		schema.CatalogBook.Author, schema.CatalogBook.Author,
		schema.CatalogBook.Genre, schema.CatalogBook.Genre,
		schema.CatalogBook.Description, schema.CatalogBook.Description,
		schema.CatalogBook.CoverImageURL, schema.CatalogBook.CoverImageURL,
		schema.CatalogBook.ISBN, schema.CatalogBook.ISBN,
		schema.CatalogBook.Rating, schema.CatalogBook.Rating,
		schema.CatalogBook.PublishedYear, schema.CatalogBook.PublishedYear,
		schema.CatalogBook.UpdatedAt, schema.CatalogBook.UpdatedAt)

	written := 0
	for i := range records {
		if _, err := transaction.Exec(context, query, bookArgs(&records[i])...); err != nil {
			return 0, dberr.Wrap(err, "upsert_books")
		}
		written++
	}

	if err := transaction.Commit(context); err != nil {
		return 0, dberr.Wrap(err, "upsert_books_commit")
	}

	return written, nil
}

// scanBook reads one row in [schema.CatalogBook.Columns] order.
func scanBook(row pgx.Row, record *Book) error {
	return row.Scan(
		&record.ID, &record.Title, &record.Author, &record.Genre, &record.Description,
		&record.CoverImageURL, &record.ISBN, &record.Rating, &record.PublishedYear,
		&record.CreatedAt, &record.UpdatedAt,
	)
}

// bookArgs lists the insert arguments in [schema.CatalogBook.Columns] order.
func bookArgs(record *Book) []any {
	return []any{
		record.ID, record.Title, record.Author, record.Genre, record.Description,
		record.CoverImageURL, record.ISBN, record.Rating, record.PublishedYear,
		record.CreatedAt, record.UpdatedAt,
	}
}
