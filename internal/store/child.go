package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/starchart/internal/model"
)

// ChildInput holds the editable fields of a child.
type ChildInput struct {
	Name              string
	Color             string
	AvatarURL         *string
	HomeworkTracking  bool
	HomeworkRequired  int
	HomeworkTotalDays int
}

type ChildStore struct {
	db *sql.DB
}

func NewChildStore(db *sql.DB) *ChildStore {
	return &ChildStore{db: db}
}

func scanChild(scanner interface{ Scan(...any) error }, extra ...any) (*model.Child, error) {
	var c model.Child
	dest := []any{&c.ID, &c.Name, &c.Color, &c.AvatarURL, &c.HomeworkTracking, &c.HomeworkRequired, &c.HomeworkTotalDays, &c.CreatedAt, &c.DeletedAt}
	if err := scanner.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &c, nil
}

const childCols = `c.id, c.name, c.color, c.avatar_url, c.homework_tracking, c.homework_required, c.homework_total_days, c.created_at, c.deleted_at`

func (s *ChildStore) Create(in ChildInput) (*model.Child, error) {
	result, err := s.db.Exec(
		`INSERT INTO children (name, color, avatar_url, homework_tracking, homework_required, homework_total_days) VALUES (?, ?, ?, ?, ?, ?)`,
		in.Name, in.Color, in.AvatarURL, in.HomeworkTracking, in.HomeworkRequired, in.HomeworkTotalDays,
	)
	if err != nil {
		return nil, fmt.Errorf("insert child: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// GetByID returns the child whether or not it has been soft-deleted.
func (s *ChildStore) GetByID(id int64) (*model.Child, error) {
	return getChild(s.db, id)
}

func getChild(q querier, id int64) (*model.Child, error) {
	row := q.QueryRow(`SELECT `+childCols+` FROM children c WHERE c.id = ?`, id)
	c, err := scanChild(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get child: %w", err)
	}
	return c, nil
}

// ListActive returns children that have not been deleted, oldest first,
// with their lifetime star and payout totals.
func (s *ChildStore) ListActive() ([]model.ChildWithTotals, error) {
	rows, err := s.db.Query(`SELECT ` + childCols + `,
		COALESCE((SELECT SUM(sl.stars) FROM star_logs sl WHERE sl.child_id = c.id AND sl.undone_at IS NULL), 0),
		COALESCE((SELECT SUM(p.stars_spent) FROM payouts p WHERE p.child_id = c.id), 0)
		FROM children c
		WHERE c.deleted_at IS NULL
		ORDER BY c.created_at ASC, c.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var children []model.ChildWithTotals
	for rows.Next() {
		var total, paid int
		c, err := scanChild(rows, &total, &paid)
		if err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		children = append(children, model.ChildWithTotals{Child: *c, TotalStars: total, TotalPaidStars: paid})
	}
	return children, rows.Err()
}

// Update edits an active child. Returns ErrNotFound for deleted children.
func (s *ChildStore) Update(id int64, in ChildInput) (*model.Child, error) {
	result, err := s.db.Exec(
		`UPDATE children SET name = ?, color = ?, avatar_url = ?, homework_tracking = ?, homework_required = ?, homework_total_days = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		in.Name, in.Color, in.AvatarURL, in.HomeworkTracking, in.HomeworkRequired, in.HomeworkTotalDays, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update child: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, notFound("child")
	}
	return s.GetByID(id)
}

// SoftDelete marks the child deleted. Its star and homework history stays.
func (s *ChildStore) SoftDelete(id int64) error {
	result, err := s.db.Exec(
		`UPDATE children SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("delete child: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("child")
	}
	return nil
}
