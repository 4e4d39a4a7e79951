package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/starchart/internal/model"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	err := scanner.Scan(&t.ID, &t.Name, &t.StarValue, &t.Icon, &t.SortOrder, &t.CreatedAt, &t.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const taskCols = `id, name, star_value, icon, sort_order, created_at, deleted_at`

func (s *TaskStore) Create(name string, starValue int, icon *string, sortOrder int) (*model.Task, error) {
	result, err := s.db.Exec(
		`INSERT INTO tasks (name, star_value, icon, sort_order) VALUES (?, ?, ?, ?)`,
		name, starValue, icon, sortOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) GetByID(id int64) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListActive returns tasks that have not been deleted in display order.
func (s *TaskStore) ListActive() ([]model.Task, error) {
	rows, err := s.db.Query(`SELECT ` + taskCols + ` FROM tasks WHERE deleted_at IS NULL ORDER BY sort_order ASC, created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *TaskStore) Update(id int64, name string, starValue int, icon *string, sortOrder int) (*model.Task, error) {
	result, err := s.db.Exec(
		`UPDATE tasks SET name = ?, star_value = ?, icon = ?, sort_order = ? WHERE id = ? AND deleted_at IS NULL`,
		name, starValue, icon, sortOrder, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, notFound("task")
	}
	return s.GetByID(id)
}

// SoftDelete hides the task from the active list. Log entries that reference
// it keep their denormalized note.
func (s *TaskStore) SoftDelete(id int64) error {
	result, err := s.db.Exec(
		`UPDATE tasks SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("task")
	}
	return nil
}
