package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lekturahq/lektura/internal/platform/database/schema"
	"github.com/lekturahq/lektura/internal/platform/dberr"
)

// PostgresRepository persists reviews in PostgreSQL under their composite
// (bookid, createdat) key.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func columns() string {
	t := schema.SocialReview
	return strings.Join([]string{t.BookID, t.CreatedAt, t.UserID, t.UserName, t.AuthorAdmin, t.Rating, t.Comment}, ", ")
}

func (repository *PostgresRepository) ListByBook(context context.Context, bookID string) ([]*Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		columns(), schema.SocialReview.Table,
		schema.SocialReview.BookID, schema.SocialReview.CreatedAt)

	rows, err := repository.db.Query(context, query, bookID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_reviews")
	}
	defer rows.Close()

	reviews := make([]*Review, 0)
	for rows.Next() {
		record := &Review{}
		if err := scanReview(rows, record); err != nil {
			return nil, dberr.Wrap(err, "scan_review")
		}
		reviews = append(reviews, record)
	}

	return reviews, rows.Err()
}

func (repository *PostgresRepository) Find(context context.Context, bookID string, createdAt time.Time) (*Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		columns(), schema.SocialReview.Table,
		schema.SocialReview.BookID, schema.SocialReview.CreatedAt)

	record := &Review{}
	if err := scanReview(repository.db.QueryRow(context, query, bookID, createdAt), record); err != nil {
		return nil, dberr.Wrap(err, "get_review")
	}

	return record, nil
}

func (repository *PostgresRepository) Create(context context.Context, record *Review) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.SocialReview.Table, columns())

	_, err := repository.db.Exec(context, query,
		record.BookID, record.CreatedAt, record.UserID, record.UserName,
		record.AuthorAdmin, record.Rating, record.Comment)
	if err != nil {
		return dberr.Wrap(err, "create_review")
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, bookID string, createdAt time.Time) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.SocialReview.Table,
		schema.SocialReview.BookID, schema.SocialReview.CreatedAt)

	tag, err := repository.db.Exec(context, query, bookID, createdAt)
	if err != nil {
		return dberr.Wrap(err, "delete_review")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "delete_review")
	}

	return nil
}

func scanReview(row pgx.Row, record *Review) error {
	return row.Scan(
		&record.BookID, &record.CreatedAt, &record.UserID, &record.UserName,
		&record.AuthorAdmin, &record.Rating, &record.Comment,
	)
}
