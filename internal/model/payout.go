package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dollar amounts go over the wire as JSON numbers, not strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type Payout struct {
	ID         int64           `json:"id"`
	ChildID    int64           `json:"child_id"`
	StarsSpent int             `json:"stars_spent"`
	Amount     decimal.Decimal `json:"amount"`
	Note       *string         `json:"note"`
	CreatedAt  time.Time       `json:"created_at"`
}
