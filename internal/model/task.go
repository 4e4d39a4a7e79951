package model

import "time"

type Task struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	StarValue int        `json:"star_value"`
	Icon      *string    `json:"icon"`
	SortOrder int        `json:"sort_order"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}
