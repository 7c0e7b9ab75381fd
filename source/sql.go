package source

import (
	"context"
	"database/sql"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/goliatone/go-category-cache/category"
)

// DefaultCategoryQuery reads the whole categories table in storage order.
const DefaultCategoryQuery = `
	SELECT id, name, slug, parent_id, is_active, sort_order, type, description, image_url
	FROM categories
	ORDER BY sort_order ASC, id ASC`

// Selector is the subset of *sqlx.DB the SQL source needs.
type Selector interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type categoryRow struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Slug        string          `db:"slug"`
	ParentID    sql.NullString  `db:"parent_id"`
	IsActive    sql.NullBool    `db:"is_active"`
	SortOrder   sql.NullFloat64 `db:"sort_order"`
	Type        sql.NullString  `db:"type"`
	Description sql.NullString  `db:"description"`
	ImageURL    sql.NullString  `db:"image_url"`
}

func (r categoryRow) wire() category.WireRecord {
	w := category.WireRecord{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description.String,
		ImageURL:    r.ImageURL.String,
	}
	if r.ParentID.Valid {
		parent := r.ParentID.String
		w.ParentID = &parent
	}
	if r.IsActive.Valid {
		active := r.IsActive.Bool
		w.IsActive = &active
	}
	if r.SortOrder.Valid {
		order := r.SortOrder.Float64
		w.Order = &order
	}
	if r.Type.Valid {
		typ := r.Type.String
		w.Type = &typ
	}
	return w
}

// SQL reads categories from a relational table.
type SQL struct {
	db    Selector
	query string
}

// NewSQL creates a SQL source. An empty query selects DefaultCategoryQuery.
func NewSQL(db Selector, query string) (*SQL, error) {
	if db == nil {
		return nil, goerrors.New("database handle is required", goerrors.CategoryValidation).
			WithTextCode("SOURCE_DB_REQUIRED")
	}
	if strings.TrimSpace(query) == "" {
		query = DefaultCategoryQuery
	}
	return &SQL{db: db, query: query}, nil
}

// OpenPostgres connects to dsn with the lib/pq driver.
func OpenPostgres(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "connect postgres")
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	return db, nil
}

// FetchCategories runs the query and maps every row.
func (s *SQL) FetchCategories(ctx context.Context) ([]category.WireRecord, error) {
	var rows []categoryRow
	if err := s.db.SelectContext(ctx, &rows, s.query); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "select categories")
	}

	out := make([]category.WireRecord, len(rows))
	for i, row := range rows {
		out[i] = row.wire()
	}
	return out, nil
}
