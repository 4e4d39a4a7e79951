// Package insights derives motivational statistics from a child's star log.
package insights

import (
	"math"
	"sort"
	"time"

	"github.com/dukerupert/starchart/internal/model"
	"github.com/dukerupert/starchart/internal/reward"
	"github.com/shopspring/decimal"
)

// Entry is a non-undone ledger entry as seen by the insights computation.
// TaskID is nil for manual adjustments.
type Entry struct {
	TaskID    *int64
	TaskName  string
	TaskIcon  *string
	Stars     int
	CreatedAt time.Time
}

// Input is everything Compute needs for one child.
type Input struct {
	Entries         []Entry
	TotalPaidStars  int
	TotalPaidAmount decimal.Decimal
	Threshold       model.RewardThreshold
	Now             time.Time
}

// TaskStat is how often one task was completed and what it earned.
type TaskStat struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Icon        *string `json:"icon"`
	Completions int     `json:"completions"`
	TotalStars  int     `json:"total_stars"`
}

// Insights is the snapshot served for one child.
type Insights struct {
	TotalStars         int             `json:"total_stars"`
	StarsThisWeek      int             `json:"stars_this_week"`
	StarsThisMonth     int             `json:"stars_this_month"`
	AvgStarsPerDay     float64         `json:"avg_stars_per_day"`
	ActiveDays         int             `json:"active_days"`
	CurrentStreak      int             `json:"current_streak"`
	BestStreak         int             `json:"best_streak"`
	DaysSinceFirst     int             `json:"days_since_first"`
	MostCompletedTask  *TaskStat       `json:"most_completed_task"`
	HighestEarningTask *TaskStat       `json:"highest_earning_task"`
	TaskBreakdown      []TaskStat      `json:"task_breakdown"`
	TotalEarnedAmount  decimal.Decimal `json:"total_earned_amount"`
	TotalPaidAmount    decimal.Decimal `json:"total_paid_amount"`
	UnpaidAmount       decimal.Decimal `json:"unpaid_amount"`
	RewardsEarned      int             `json:"rewards_earned"`
	ProgressPercent    int             `json:"progress_percent"`
	StarsTowardNext    int             `json:"stars_toward_next"`
	ThresholdStars     int             `json:"threshold_stars"`
	Rank               string          `json:"rank"`
}

// Compute builds the insights snapshot. Calendar dates are taken in the
// location of in.Now.
func Compute(in Input) Insights {
	loc := in.Now.Location()
	weekAgo := in.Now.Add(-7 * 24 * time.Hour)
	monthAgo := in.Now.Add(-30 * 24 * time.Hour)

	var total, week, month int
	var first time.Time
	days := make(map[time.Time]struct{})
	for i, e := range in.Entries {
		total += e.Stars
		if !e.CreatedAt.Before(weekAgo) {
			week += e.Stars
		}
		if !e.CreatedAt.Before(monthAgo) {
			month += e.Stars
		}
		if i == 0 || e.CreatedAt.Before(first) {
			first = e.CreatedAt
		}
		days[civilDate(e.CreatedAt.In(loc))] = struct{}{}
	}

	active := make([]time.Time, 0, len(days))
	for d := range days {
		active = append(active, d)
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Before(active[j]) })

	acct := reward.Compute(total, in.TotalPaidStars, in.Threshold)
	breakdown := TaskBreakdown(in.Entries)

	out := Insights{
		TotalStars:        total,
		StarsThisWeek:     week,
		StarsThisMonth:    month,
		ActiveDays:        len(active),
		BestStreak:        BestStreak(active),
		CurrentStreak:     CurrentStreak(active, civilDate(in.Now)),
		TaskBreakdown:     breakdown,
		TotalEarnedAmount: acct.TotalEarnedAmount,
		TotalPaidAmount:   in.TotalPaidAmount,
		UnpaidAmount:      acct.TotalEarnedAmount.Sub(in.TotalPaidAmount),
		RewardsEarned:     acct.RewardsEarned,
		ProgressPercent:   acct.ProgressPercent,
		StarsTowardNext:   acct.StarsTowardNext,
		ThresholdStars:    acct.ThresholdStars,
		Rank:              RankFor(total),
	}
	if len(active) > 0 {
		out.AvgStarsPerDay = math.Round(float64(total)/float64(len(active))*10) / 10
	}
	if len(in.Entries) > 0 {
		out.DaysSinceFirst = int(in.Now.Sub(first) / (24 * time.Hour))
	}
	if len(breakdown) > 0 {
		most := breakdown[0]
		out.MostCompletedTask = &most

		best := breakdown[0]
		for _, ts := range breakdown[1:] {
			if ts.TotalStars > best.TotalStars {
				best = ts
			}
		}
		out.HighestEarningTask = &best
	}
	return out
}

// TaskBreakdown groups task-backed entries by task, ordered by completion
// count descending. Ties keep the order in which tasks first appear.
func TaskBreakdown(entries []Entry) []TaskStat {
	index := make(map[int64]int)
	var stats []TaskStat
	for _, e := range entries {
		if e.TaskID == nil {
			continue
		}
		i, ok := index[*e.TaskID]
		if !ok {
			i = len(stats)
			index[*e.TaskID] = i
			stats = append(stats, TaskStat{ID: *e.TaskID, Name: e.TaskName, Icon: e.TaskIcon})
		}
		stats[i].Completions++
		stats[i].TotalStars += e.Stars
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Completions > stats[j].Completions })
	if stats == nil {
		stats = []TaskStat{}
	}
	return stats
}

// BestStreak returns the longest run of consecutive days in an ascending
// list of distinct dates.
func BestStreak(days []time.Time) int {
	best, run := 0, 0
	for i := range days {
		if i > 0 && daysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
	}
	return best
}

// CurrentStreak counts consecutive days ending at the last active date, but
// only if that date is today or yesterday.
func CurrentStreak(days []time.Time, today time.Time) int {
	if len(days) == 0 {
		return 0
	}
	last := days[len(days)-1]
	if daysBetween(last, today) > 1 {
		return 0
	}
	streak := 1
	for i := len(days) - 2; i >= 0; i-- {
		if daysBetween(days[i], days[i+1]) != 1 {
			break
		}
		streak++
	}
	return streak
}

// civilDate maps t to midnight UTC of its calendar date so that day
// arithmetic is immune to DST shifts.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
