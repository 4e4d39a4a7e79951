package reward

import (
	"testing"

	"github.com/dukerupert/starchart/internal/model"
	"github.com/shopspring/decimal"
)

var defaultThreshold = model.RewardThreshold{Stars: 20, Amount: decimal.RequireFromString("10.00")}

func TestFloorDivMod(t *testing.T) {
	tests := []struct {
		a, b    int
		div, md int
	}{
		{0, 20, 0, 0},
		{19, 20, 0, 19},
		{20, 20, 1, 0},
		{45, 20, 2, 5},
		{-1, 20, -1, 19},
		{-20, 20, -1, 0},
		{-25, 20, -2, 15},
	}
	for _, tt := range tests {
		if got := FloorDiv(tt.a, tt.b); got != tt.div {
			t.Errorf("FloorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.div)
		}
		if got := FloorMod(tt.a, tt.b); got != tt.md {
			t.Errorf("FloorMod(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.md)
		}
	}
}

func TestComputeBasic(t *testing.T) {
	s := Compute(45, 20, defaultThreshold)

	if s.OutstandingStars != 25 {
		t.Errorf("outstanding = %d, want 25", s.OutstandingStars)
	}
	if s.RewardsEarned != 2 {
		t.Errorf("rewards_earned = %d, want 2", s.RewardsEarned)
	}
	if s.RewardsPaid != 1 {
		t.Errorf("rewards_paid = %d, want 1", s.RewardsPaid)
	}
	if s.StarsTowardNext != 5 {
		t.Errorf("stars_toward_next = %d, want 5", s.StarsTowardNext)
	}
	if !s.TotalEarnedAmount.Equal(decimal.NewFromInt(20)) {
		t.Errorf("total_earned_amount = %s, want 20", s.TotalEarnedAmount)
	}
	if !s.TotalPaidAmount.Equal(decimal.NewFromInt(10)) {
		t.Errorf("total_paid_amount = %s, want 10", s.TotalPaidAmount)
	}
	if !s.UnpaidAmount.Equal(decimal.NewFromInt(10)) {
		t.Errorf("unpaid_amount = %s, want 10", s.UnpaidAmount)
	}
	if s.ProgressPercent != 25 {
		t.Errorf("progress_percent = %d, want 25", s.ProgressPercent)
	}
}

func TestComputeOverpaidStaysInRange(t *testing.T) {
	s := Compute(10, 25, defaultThreshold)

	if s.OutstandingStars != -15 {
		t.Errorf("outstanding = %d, want -15", s.OutstandingStars)
	}
	if s.StarsTowardNext != 5 {
		t.Errorf("stars_toward_next = %d, want 5", s.StarsTowardNext)
	}
	if s.StarsTowardNext < 0 || s.StarsTowardNext >= s.ThresholdStars {
		t.Errorf("stars_toward_next %d outside [0, %d)", s.StarsTowardNext, s.ThresholdStars)
	}
}

func TestRewardsEarnedSurvivesPayout(t *testing.T) {
	before := Compute(40, 0, defaultThreshold)
	after := Compute(40, 40, defaultThreshold)

	if after.RewardsEarned != before.RewardsEarned {
		t.Errorf("rewards_earned changed after payout: %d -> %d", before.RewardsEarned, after.RewardsEarned)
	}
	if after.OutstandingStars != 0 {
		t.Errorf("outstanding = %d, want 0", after.OutstandingStars)
	}
	if !after.UnpaidAmount.IsZero() {
		t.Errorf("unpaid_amount = %s, want 0", after.UnpaidAmount)
	}
}

func TestUnpaidUsesFloorCounts(t *testing.T) {
	// 30 stars earned, 10 paid: outstanding 20 would be $10 proportionally,
	// but only one full reward has been earned and none fully paid.
	s := Compute(30, 10, defaultThreshold)
	if !s.UnpaidAmount.Equal(decimal.NewFromInt(10)) {
		t.Errorf("unpaid_amount = %s, want 10", s.UnpaidAmount)
	}

	s = Compute(39, 21, defaultThreshold)
	if !s.UnpaidAmount.IsZero() {
		t.Errorf("unpaid_amount = %s, want 0", s.UnpaidAmount)
	}
}

func TestThresholdCrossed(t *testing.T) {
	tests := []struct {
		name        string
		outstanding int
		awarded     int
		want        bool
	}{
		{"18 to 22", 22, 4, true},
		{"5 to 10", 10, 5, false},
		{"exactly on threshold", 20, 2, true},
		{"leaving threshold", 21, 1, false},
		{"two multiples at once", 45, 30, true},
		{"negative to zero", 0, 3, true},
		{"negative stays negative", -5, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ThresholdCrossed(tt.outstanding, tt.awarded, defaultThreshold); got != tt.want {
				t.Errorf("ThresholdCrossed(%d, %d) = %v, want %v", tt.outstanding, tt.awarded, got, tt.want)
			}
		})
	}
}

func TestStarsForAmount(t *testing.T) {
	tests := []struct {
		amount string
		want   int
	}{
		{"10.00", 20},
		{"5", 10},
		{"0.26", 1},
		{"0.24", 1},
		{"0", 1},
		{"7.77", 16},
		{"25", 50},
	}
	for _, tt := range tests {
		got := StarsForAmount(decimal.RequireFromString(tt.amount), defaultThreshold)
		if got != tt.want {
			t.Errorf("StarsForAmount(%s) = %d, want %d", tt.amount, got, tt.want)
		}
	}
}

func TestStarsForAmountZeroThresholdAmount(t *testing.T) {
	free := model.RewardThreshold{Stars: 20, Amount: decimal.Zero}
	if got := StarsForAmount(decimal.NewFromInt(5), free); got != 1 {
		t.Errorf("StarsForAmount = %d, want 1", got)
	}
}
