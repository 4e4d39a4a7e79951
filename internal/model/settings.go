package model

import "github.com/shopspring/decimal"

// RewardThreshold is the global number of stars that make up one cash
// reward and the dollar value of that reward.
type RewardThreshold struct {
	Stars  int             `json:"stars"`
	Amount decimal.Decimal `json:"amount"`
}
