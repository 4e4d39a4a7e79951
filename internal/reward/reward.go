// Package reward derives cash-reward accounting from lifetime star totals.
//
// Every quantity here is computed from two sums: the non-undone stars a child
// has ever been awarded and the stars consumed by payouts. Reward counts use
// floor division on those lifetime sums, so a reward that has been earned
// stays earned after it is paid out.
package reward

import (
	"math"

	"github.com/dukerupert/starchart/internal/model"
	"github.com/shopspring/decimal"
)

// Summary is the accounting snapshot for one child.
type Summary struct {
	TotalStars        int             `json:"total_stars"`
	TotalPaidStars    int             `json:"total_paid_stars"`
	OutstandingStars  int             `json:"outstanding_stars"`
	StarsTowardNext   int             `json:"stars_toward_next"`
	ThresholdStars    int             `json:"threshold_stars"`
	ThresholdAmount   decimal.Decimal `json:"threshold_amount"`
	RewardsEarned     int             `json:"rewards_earned"`
	RewardsPaid       int             `json:"rewards_paid"`
	TotalEarnedAmount decimal.Decimal `json:"total_earned_amount"`
	TotalPaidAmount   decimal.Decimal `json:"total_paid_amount"`
	UnpaidAmount      decimal.Decimal `json:"unpaid_amount"`
	ProgressPercent   int             `json:"progress_percent"`
}

// Compute builds a Summary from lifetime totals and the current threshold.
func Compute(totalStars, totalPaidStars int, t model.RewardThreshold) Summary {
	per := thresholdStars(t)
	outstanding := totalStars - totalPaidStars
	earned := FloorDiv(totalStars, per)
	paid := FloorDiv(totalPaidStars, per)
	toward := FloorMod(outstanding, per)

	earnedAmount := t.Amount.Mul(decimal.NewFromInt(int64(earned)))
	paidAmount := t.Amount.Mul(decimal.NewFromInt(int64(paid)))

	return Summary{
		TotalStars:        totalStars,
		TotalPaidStars:    totalPaidStars,
		OutstandingStars:  outstanding,
		StarsTowardNext:   toward,
		ThresholdStars:    per,
		ThresholdAmount:   t.Amount,
		RewardsEarned:     earned,
		RewardsPaid:       paid,
		TotalEarnedAmount: earnedAmount,
		TotalPaidAmount:   paidAmount,
		UnpaidAmount:      earnedAmount.Sub(paidAmount),
		ProgressPercent:   ProgressPercent(toward, per),
	}
}

// ThresholdCrossed reports whether an award of awarded stars that brought
// the balance to outstanding moved it into a higher threshold multiple.
// Jumping several multiples at once still reports a single true.
func ThresholdCrossed(outstanding, awarded int, t model.RewardThreshold) bool {
	per := thresholdStars(t)
	previous := outstanding - awarded
	return FloorDiv(outstanding, per) > FloorDiv(previous, per)
}

// StarsForAmount converts a dollar payout into the stars it consumes at the
// current threshold ratio. The result is at least 1.
func StarsForAmount(amount decimal.Decimal, t model.RewardThreshold) int {
	if !t.Amount.IsPositive() {
		return 1
	}
	stars := amount.Div(t.Amount).Mul(decimal.NewFromInt(int64(thresholdStars(t)))).Round(0).IntPart()
	if stars < 1 {
		return 1
	}
	return int(stars)
}

// ProgressPercent is starsTowardNext as a whole percentage of the threshold.
func ProgressPercent(starsTowardNext, per int) int {
	if per <= 0 {
		return 0
	}
	return int(math.Round(float64(starsTowardNext) / float64(per) * 100))
}

// FloorDiv divides rounding toward negative infinity.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod returns the remainder of FloorDiv, which has the sign of b.
func FloorMod(a, b int) int {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

func thresholdStars(t model.RewardThreshold) int {
	if t.Stars < 1 {
		return 1
	}
	return t.Stars
}
