package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/starchart/internal/homework"
	"github.com/dukerupert/starchart/internal/model"
)

const defaultHistoryWeeks = 8

type HomeworkStore struct {
	db *sql.DB
}

func NewHomeworkStore(db *sql.DB) *HomeworkStore {
	return &HomeworkStore{db: db}
}

// StatusesBetween returns stored statuses keyed by date for from..to
// inclusive. Dates are YYYY-MM-DD.
func (s *HomeworkStore) StatusesBetween(childID int64, from, to string) (map[string]model.HomeworkStatus, error) {
	rows, err := s.db.Query(
		`SELECT date, status FROM homework_logs WHERE child_id = ? AND date >= ? AND date <= ?`,
		childID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list homework week: %w", err)
	}
	defer rows.Close()

	statuses := make(map[string]model.HomeworkStatus)
	for rows.Next() {
		var date string
		var status model.HomeworkStatus
		if err := rows.Scan(&date, &status); err != nil {
			return nil, fmt.Errorf("scan homework log: %w", err)
		}
		statuses[date] = status
	}
	return statuses, rows.Err()
}

// MarkNotDone persists not_done for dates that have no row yet. Existing
// rows are never overwritten, so calling it twice is harmless.
func (s *HomeworkStore) MarkNotDone(childID int64, dates []string) error {
	if len(dates) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO homework_logs (child_id, date, status, updated_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, date := range dates {
		if _, err := stmt.Exec(childID, date, model.HomeworkNotDone, now); err != nil {
			return fmt.Errorf("auto-mark %s: %w", date, err)
		}
	}
	return tx.Commit()
}

// SetStatus writes a day's status, replacing whatever was there.
func (s *HomeworkStore) SetStatus(childID int64, date string, status model.HomeworkStatus) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO homework_logs (child_id, date, status, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(child_id, date) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
		childID, date, status, now,
	)
	if err != nil {
		return fmt.Errorf("set homework status: %w", err)
	}
	return nil
}

// ListSince returns logs dated on or after from, oldest first.
func (s *HomeworkStore) ListSince(childID int64, from string) ([]model.HomeworkLog, error) {
	rows, err := s.db.Query(
		`SELECT child_id, date, status, updated_at FROM homework_logs WHERE child_id = ? AND date >= ? ORDER BY date ASC`,
		childID, from,
	)
	if err != nil {
		return nil, fmt.Errorf("list homework history: %w", err)
	}
	defer rows.Close()

	var logs []model.HomeworkLog
	for rows.Next() {
		var l model.HomeworkLog
		if err := rows.Scan(&l.ChildID, &l.Date, &l.Status, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan homework log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func activeQuota(q querier, childID int64) (homework.Quota, error) {
	c, err := getChild(q, childID)
	if err != nil {
		return homework.Quota{}, err
	}
	if c == nil || c.DeletedAt != nil {
		return homework.Quota{}, notFound("child")
	}
	return homework.QuotaFor(c), nil
}

// Week returns the homework week containing ref. Past days that were never
// marked are stored as not_done before the week is returned.
func (s *HomeworkStore) Week(childID int64, ref, today time.Time) (*homework.Week, error) {
	quota, err := activeQuota(s.db, childID)
	if err != nil {
		return nil, err
	}

	dates := homework.WeekDates(ref)
	stored, err := s.StatusesBetween(childID, dates[0], dates[len(dates)-1])
	if err != nil {
		return nil, err
	}

	week, autoMark := homework.BuildWeek(ref, today, stored, quota)
	if err := s.MarkNotDone(childID, autoMark); err != nil {
		return nil, err
	}
	return &week, nil
}

// Mark validates and stores an explicit status for one school day.
func (s *HomeworkStore) Mark(childID int64, date string, status model.HomeworkStatus) error {
	d, err := homework.ParseDate(date, time.UTC)
	if err != nil {
		return invalid("date", "date must be YYYY-MM-DD")
	}
	if !homework.IsWeekday(d) {
		return invalid("date", "homework can only be tracked Monday through Friday")
	}
	if !status.Valid() {
		return invalid("status", "status must be one of pending, done, not_done, day_off")
	}
	if _, err := activeQuota(s.db, childID); err != nil {
		return err
	}
	return s.SetStatus(childID, d.Format(homework.DateLayout), status)
}

// History rolls up the stored days of the last weeks weeks, newest week
// first. A non-positive weeks means the default of eight.
func (s *HomeworkStore) History(childID int64, weeks int, today time.Time) ([]homework.WeekRollup, error) {
	if weeks <= 0 {
		weeks = defaultHistoryWeeks
	}
	quota, err := activeQuota(s.db, childID)
	if err != nil {
		return nil, err
	}

	from := today.AddDate(0, 0, -7*weeks).Format(homework.DateLayout)
	logs, err := s.ListSince(childID, from)
	if err != nil {
		return nil, err
	}
	return homework.Rollup(logs, quota), nil
}
