package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-grading-api/internal/validation"
	appErrors "github.com/noah-isme/sma-grading-api/pkg/errors"
)

// LookupRepository answers exists/unique rules against PostgreSQL. It never writes.
type LookupRepository struct {
	db       *sqlx.DB
	idColumn string
}

// NewLookupRepository creates a lookup repository. A nil db makes every lookup fail with
// ErrLookupUnavailable so the service can start without a database.
func NewLookupRepository(db *sqlx.DB) *LookupRepository {
	return &LookupRepository{db: db, idColumn: "id"}
}

// Exists reports whether table has a row whose column equals value.
func (r *LookupRepository) Exists(ctx context.Context, table, column string, value interface{}) (bool, error) {
	if r.db == nil {
		return false, appErrors.ErrLookupUnavailable
	}
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE %s = $1 LIMIT 1", pq.QuoteIdentifier(table), pq.QuoteIdentifier(column))
	var found int
	if err := r.db.GetContext(ctx, &found, query, validation.Canonical(value)); err != nil {
		if errors.Is(err, sql.ErrNoRows) || rejectedValue(err) {
			return false, nil
		}
		return false, fmt.Errorf("lookup %s.%s: %w", table, column, err)
	}
	return true, nil
}

// IsUnique reports whether no row other than exceptID has column equal to value.
func (r *LookupRepository) IsUnique(ctx context.Context, table, column string, value interface{}, exceptID string) (bool, error) {
	if r.db == nil {
		return false, appErrors.ErrLookupUnavailable
	}
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE %s = $1", pq.QuoteIdentifier(table), pq.QuoteIdentifier(column))
	args := []interface{}{validation.Canonical(value)}
	if exceptID != "" {
		query += fmt.Sprintf(" AND %s <> $2", pq.QuoteIdentifier(r.idColumn))
		args = append(args, exceptID)
	}
	var found int
	if err := r.db.GetContext(ctx, &found, query+" LIMIT 1", args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) || rejectedValue(err) {
			return true, nil
		}
		return false, fmt.Errorf("check unique %s.%s: %w", table, column, err)
	}
	return false, nil
}

// rejectedValue reports a data exception (SQLSTATE class 22), raised when the value cannot be
// represented in the column type, such as a malformed uuid. No row can hold such a value.
func rejectedValue(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Class() == "22"
}
