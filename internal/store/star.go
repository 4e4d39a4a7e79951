package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/starchart/internal/insights"
	"github.com/dukerupert/starchart/internal/model"
	"github.com/dukerupert/starchart/internal/reward"
)

const defaultRemoveNote = "Stars removed"

// AwardResult is what a child sees right after completing a task.
type AwardResult struct {
	Log              *model.StarLog `json:"log"`
	NewTotal         int            `json:"newTotal"`
	Outstanding      int            `json:"outstanding"`
	StarsAwarded     int            `json:"starsAwarded"`
	ThresholdReached bool           `json:"thresholdReached"`
	ThresholdStars   int            `json:"thresholdStars"`
}

// StarStore is the append-only star ledger. Entries are never deleted;
// undo only stamps undone_at.
type StarStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewStarStore(db *sql.DB) *StarStore {
	return &StarStore{db: db, now: time.Now}
}

func scanStarLog(scanner interface{ Scan(...any) error }, extra ...any) (*model.StarLog, error) {
	var l model.StarLog
	dest := []any{&l.ID, &l.ChildID, &l.TaskID, &l.Stars, &l.Note, &l.CreatedAt, &l.UndoneAt}
	if err := scanner.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &l, nil
}

const starLogCols = `sl.id, sl.child_id, sl.task_id, sl.stars, sl.note, sl.created_at, sl.undone_at`

func getStarLog(q querier, id int64) (*model.StarLog, error) {
	row := q.QueryRow(`SELECT `+starLogCols+` FROM star_logs sl WHERE sl.id = ?`, id)
	l, err := scanStarLog(row)
	if err != nil {
		return nil, fmt.Errorf("get star log: %w", err)
	}
	return l, nil
}

// Award credits a child with a task's star value. The balance read, the
// insert and the threshold check happen in one write transaction, so two
// concurrent awards cannot both see the same previous balance.
func (s *StarStore) Award(childID, taskID int64) (*AwardResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ok, err := isActiveChild(tx, childID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("child")
	}

	var task model.Task
	err = tx.QueryRow(
		`SELECT id, name, star_value FROM tasks WHERE id = ? AND deleted_at IS NULL`, taskID,
	).Scan(&task.ID, &task.Name, &task.StarValue)
	if err == sql.ErrNoRows {
		return nil, notFound("task")
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	before, err := sumStars(tx, childID)
	if err != nil {
		return nil, err
	}
	paid, err := sumPaidStars(tx, childID)
	if err != nil {
		return nil, err
	}
	threshold, err := readThreshold(tx)
	if err != nil {
		return nil, err
	}

	// The task name is copied into the note so history survives renames.
	result, err := tx.Exec(
		`INSERT INTO star_logs (child_id, task_id, stars, note, created_at) VALUES (?, ?, ?, ?, ?)`,
		childID, task.ID, task.StarValue, task.Name, s.now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert star log: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	log, err := getStarLog(tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit award: %w", err)
	}

	newTotal := before + task.StarValue
	outstanding := newTotal - paid
	return &AwardResult{
		Log:              log,
		NewTotal:         newTotal,
		Outstanding:      outstanding,
		StarsAwarded:     task.StarValue,
		ThresholdReached: reward.ThresholdCrossed(outstanding, task.StarValue, threshold),
		ThresholdStars:   threshold.Stars,
	}, nil
}

// Remove appends a manual negative entry. The balance is allowed to go
// below zero.
func (s *StarStore) Remove(childID int64, count int, note string) (*model.StarLog, int, error) {
	if note == "" {
		note = defaultRemoveNote
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ok, err := isActiveChild(tx, childID)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, notFound("child")
	}

	result, err := tx.Exec(
		`INSERT INTO star_logs (child_id, task_id, stars, note, created_at) VALUES (?, NULL, ?, ?, ?)`,
		childID, -count, note, s.now().UTC(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("insert star log: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, 0, fmt.Errorf("last insert id: %w", err)
	}
	log, err := getStarLog(tx, id)
	if err != nil {
		return nil, 0, err
	}
	total, err := sumStars(tx, childID)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit remove: %w", err)
	}
	return log, total, nil
}

// Undo excludes an entry from all totals. An entry can be undone once;
// undoing a missing or already undone entry returns ErrNotFound.
func (s *StarStore) Undo(childID, logID int64) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE star_logs SET undone_at = ? WHERE id = ? AND child_id = ? AND undone_at IS NULL`,
		s.now().UTC(), logID, childID,
	)
	if err != nil {
		return 0, fmt.Errorf("undo star log: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return 0, notFound("star log")
	}

	total, err := sumStars(tx, childID)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit undo: %w", err)
	}
	return total, nil
}

// ListHistory returns every entry for a child, newest first, undone ones
// included.
func (s *StarStore) ListHistory(childID int64) ([]model.StarLogView, error) {
	rows, err := s.db.Query(`SELECT `+starLogCols+`, t.name, t.icon
		FROM star_logs sl
		LEFT JOIN tasks t ON sl.task_id = t.id
		WHERE sl.child_id = ?
		ORDER BY sl.created_at DESC, sl.id DESC`, childID)
	if err != nil {
		return nil, fmt.Errorf("list star history: %w", err)
	}
	defer rows.Close()

	var logs []model.StarLogView
	for rows.Next() {
		var v model.StarLogView
		l, err := scanStarLog(rows, &v.TaskName, &v.TaskIcon)
		if err != nil {
			return nil, fmt.Errorf("scan star log: %w", err)
		}
		v.StarLog = *l
		logs = append(logs, v)
	}
	return logs, rows.Err()
}

// ActiveEntries returns the non-undone entries for a child, oldest first,
// in the shape the insights computation consumes.
func (s *StarStore) ActiveEntries(childID int64) ([]insights.Entry, error) {
	rows, err := s.db.Query(`SELECT sl.task_id, t.name, t.icon, sl.stars, sl.created_at
		FROM star_logs sl
		LEFT JOIN tasks t ON sl.task_id = t.id
		WHERE sl.child_id = ? AND sl.undone_at IS NULL
		ORDER BY sl.created_at ASC, sl.id ASC`, childID)
	if err != nil {
		return nil, fmt.Errorf("list active entries: %w", err)
	}
	defer rows.Close()

	var entries []insights.Entry
	for rows.Next() {
		var e insights.Entry
		var name sql.NullString
		if err := rows.Scan(&e.TaskID, &name, &e.TaskIcon, &e.Stars, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.TaskName = name.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Totals returns the lifetime non-undone stars and payout stars for a child.
func (s *StarStore) Totals(childID int64) (totalStars, paidStars int, err error) {
	if totalStars, err = sumStars(s.db, childID); err != nil {
		return 0, 0, err
	}
	if paidStars, err = sumPaidStars(s.db, childID); err != nil {
		return 0, 0, err
	}
	return totalStars, paidStars, nil
}
