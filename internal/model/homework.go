package model

import "time"

type HomeworkStatus string

const (
	HomeworkPending HomeworkStatus = "pending"
	HomeworkDone    HomeworkStatus = "done"
	HomeworkNotDone HomeworkStatus = "not_done"
	HomeworkDayOff  HomeworkStatus = "day_off"
)

// Valid reports whether s is one of the four known statuses.
func (s HomeworkStatus) Valid() bool {
	switch s {
	case HomeworkPending, HomeworkDone, HomeworkNotDone, HomeworkDayOff:
		return true
	}
	return false
}

// HomeworkLog is the stored status for one child on one calendar date.
// Date is formatted YYYY-MM-DD.
type HomeworkLog struct {
	ChildID   int64          `json:"child_id"`
	Date      string         `json:"date"`
	Status    HomeworkStatus `json:"status"`
	UpdatedAt time.Time      `json:"updated_at"`
}
