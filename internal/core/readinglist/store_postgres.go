package readinglist

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lekturahq/lektura/internal/platform/database/schema"
	"github.com/lekturahq/lektura/internal/platform/dberr"
)

// PostgresRepository persists reading lists in PostgreSQL. The ordered book
// identifiers are stored as a text array, so list order survives round-trips
// without a join table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func columns() string {
	t := schema.LibraryReadingList
	return strings.Join([]string{t.ID, t.UserID, t.Name, t.Description, t.BookIDs, t.CreatedAt, t.UpdatedAt}, ", ")
}

func (repository *PostgresRepository) ListByUser(context context.Context, userID string) ([]*ReadingList, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		columns(), schema.LibraryReadingList.Table,
		schema.LibraryReadingList.UserID, schema.LibraryReadingList.CreatedAt)

	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_reading_lists")
	}
	defer rows.Close()

	lists := make([]*ReadingList, 0)
	for rows.Next() {
		list := &ReadingList{}
		if err := scanList(rows, list); err != nil {
			return nil, dberr.Wrap(err, "scan_reading_list")
		}
		lists = append(lists, list)
	}

	return lists, rows.Err()
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*ReadingList, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		columns(), schema.LibraryReadingList.Table, schema.LibraryReadingList.ID)

	list := &ReadingList{}
	if err := scanList(repository.db.QueryRow(context, query, id), list); err != nil {
		return nil, dberr.Wrap(err, "get_reading_list")
	}

	return list, nil
}

func (repository *PostgresRepository) Create(context context.Context, list *ReadingList) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.LibraryReadingList.Table, columns())

	_, err := repository.db.Exec(context, query,
		list.ID, list.UserID, list.Name, list.Description, list.BookIDs, list.CreatedAt, list.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_reading_list")
	}

	return nil
}

func (repository *PostgresRepository) Update(context context.Context, list *ReadingList) error {
	t := schema.LibraryReadingList
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5 WHERE %s = $1`,
		t.Table, t.Name, t.Description, t.BookIDs, t.UpdatedAt, t.ID)

	tag, err := repository.db.Exec(context, query,
		list.ID, list.Name, list.Description, list.BookIDs, list.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "update_reading_list")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "update_reading_list")
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.LibraryReadingList.Table, schema.LibraryReadingList.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_reading_list")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "delete_reading_list")
	}

	return nil
}

func (repository *PostgresRepository) Count(context context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.LibraryReadingList.Table)

	var total int
	if err := repository.db.QueryRow(context, query).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_reading_lists")
	}

	return total, nil
}

func scanList(row pgx.Row, list *ReadingList) error {
	return row.Scan(
		&list.ID, &list.UserID, &list.Name, &list.Description,
		&list.BookIDs, &list.CreatedAt, &list.UpdatedAt,
	)
}
