package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned, wrapped with the entity name, when a row is
// missing or soft-deleted.
var ErrNotFound = errors.New("not found")

func notFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

func isActiveChild(q querier, childID int64) (bool, error) {
	var n int
	err := q.QueryRow(`SELECT COUNT(*) FROM children WHERE id = ? AND deleted_at IS NULL`, childID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check child: %w", err)
	}
	return n > 0, nil
}

func sumStars(q querier, childID int64) (int, error) {
	var total int
	err := q.QueryRow(
		`SELECT COALESCE(SUM(stars), 0) FROM star_logs WHERE child_id = ? AND undone_at IS NULL`,
		childID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum stars: %w", err)
	}
	return total, nil
}

func sumPaidStars(q querier, childID int64) (int, error) {
	var total int
	err := q.QueryRow(
		`SELECT COALESCE(SUM(stars_spent), 0) FROM payouts WHERE child_id = ?`,
		childID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum paid stars: %w", err)
	}
	return total, nil
}

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
