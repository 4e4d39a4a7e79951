package model

import "time"

// StarLog is one signed ledger entry. Only UndoneAt ever changes after insert.
type StarLog struct {
	ID        int64      `json:"id"`
	ChildID   int64      `json:"child_id"`
	TaskID    *int64     `json:"task_id"`
	Stars     int        `json:"stars"`
	Note      *string    `json:"note"`
	CreatedAt time.Time  `json:"created_at"`
	UndoneAt  *time.Time `json:"undone_at"`
}

// StarLogView is a history row joined with the task it came from, if the
// task row still exists.
type StarLogView struct {
	StarLog
	TaskName *string `json:"task_name"`
	TaskIcon *string `json:"task_icon"`
}
