package model

import "time"

type Child struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Color             string     `json:"color"`
	AvatarURL         *string    `json:"avatar_url"`
	HomeworkTracking  bool       `json:"homework_tracking"`
	HomeworkRequired  int        `json:"homework_required"`
	HomeworkTotalDays int        `json:"homework_total_days"`
	CreatedAt         time.Time  `json:"created_at"`
	DeletedAt         *time.Time `json:"deleted_at"`
}

// ChildWithTotals is a child row as shown on the home screen.
type ChildWithTotals struct {
	Child
	TotalStars     int `json:"total_stars"`
	TotalPaidStars int `json:"total_paid_stars"`
}
