// Package homework evaluates a child's weekly homework quota.
//
// A homework week is Monday through Friday. Each day is pending, done,
// not_done or day_off. Days off shrink the week; when the shrunken week is
// shorter than the child's configured week length every remaining school day
// becomes required.
package homework

import (
	"fmt"
	"sort"
	"time"

	"github.com/dukerupert/starchart/internal/model"
)

const DateLayout = "2006-01-02"

// SchoolDays is the number of weekdays in a homework week.
const SchoolDays = 5

var dayNames = [SchoolDays]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// Day is one school day of a week. NextStatus is what a tap on the day
// should send.
type Day struct {
	Date       string               `json:"date"`
	DayName    string               `json:"day_name"`
	Status     model.HomeworkStatus `json:"status"`
	NextStatus model.HomeworkStatus `json:"next_status"`
	IsToday    bool                 `json:"is_today"`
	IsPast     bool                 `json:"is_past"`
	IsFuture   bool                 `json:"is_future"`
}

type Summary struct {
	Done            int  `json:"done"`
	NotDone         int  `json:"not_done"`
	DayOff          int  `json:"day_off"`
	Pending         int  `json:"pending"`
	TotalSchoolDays int  `json:"total_school_days"`
	Required        int  `json:"required"`
	Earned          bool `json:"earned"`
	StillPossible   bool `json:"still_possible"`
	Lost            bool `json:"lost"`
}

type Week struct {
	WeekStart string  `json:"week_start"`
	WeekEnd   string  `json:"week_end"`
	Days      []Day   `json:"days"`
	Summary   Summary `json:"summary"`
}

// Quota is the part of a child's settings the weekly evaluation depends on.
type Quota struct {
	Required  int
	TotalDays int
}

// QuotaFor extracts the homework quota from a child.
func QuotaFor(c *model.Child) Quota {
	return Quota{Required: c.HomeworkRequired, TotalDays: c.HomeworkTotalDays}
}

// ParseDate parses a YYYY-MM-DD date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD")
	}
	return t, nil
}

// IsWeekday reports whether t falls Monday through Friday.
func IsWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// WeekStart returns midnight of the Monday on or before t. Sundays belong to
// the week that started six days earlier.
func WeekStart(t time.Time) time.Time {
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset = 6
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return d.AddDate(0, 0, -offset)
}

// WeekDates returns the Monday..Friday dates of the week containing ref.
func WeekDates(ref time.Time) []string {
	monday := WeekStart(ref)
	dates := make([]string, SchoolDays)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates
}

// Required is the number of done days needed to earn the week.
func Required(totalSchoolDays int, q Quota) int {
	if totalSchoolDays < q.TotalDays {
		return totalSchoolDays
	}
	return q.Required
}

// Summarize evaluates the quota for a week of day statuses.
func Summarize(statuses []model.HomeworkStatus, q Quota) Summary {
	var s Summary
	for _, st := range statuses {
		switch st {
		case model.HomeworkDone:
			s.Done++
		case model.HomeworkNotDone:
			s.NotDone++
		case model.HomeworkDayOff:
			s.DayOff++
		default:
			s.Pending++
		}
	}
	s.TotalSchoolDays = SchoolDays - s.DayOff
	s.Required = Required(s.TotalSchoolDays, q)
	s.Earned = s.Done >= s.Required
	s.StillPossible = s.Done+s.Pending >= s.Required
	s.Lost = !s.Earned && !s.StillPossible
	return s
}

// BuildWeek assembles the week containing ref from stored statuses. Days
// before today with no stored status are reported as not_done and returned
// in autoMark so the caller can persist them.
func BuildWeek(ref, today time.Time, stored map[string]model.HomeworkStatus, q Quota) (week Week, autoMark []string) {
	dates := WeekDates(ref)
	todayStr := today.Format(DateLayout)

	days := make([]Day, len(dates))
	statuses := make([]model.HomeworkStatus, len(dates))
	for i, date := range dates {
		status, ok := stored[date]
		if !ok {
			status = model.HomeworkPending
		}
		if status == model.HomeworkPending && date < todayStr {
			status = model.HomeworkNotDone
			if !ok {
				autoMark = append(autoMark, date)
			}
		}
		isPast := date < todayStr
		days[i] = Day{
			Date:       date,
			DayName:    dayNames[i],
			Status:     status,
			NextStatus: NextStatus(status, isPast),
			IsToday:    date == todayStr,
			IsPast:     isPast,
			IsFuture:   date > todayStr,
		}
		statuses[i] = status
	}

	return Week{
		WeekStart: dates[0],
		WeekEnd:   dates[len(dates)-1],
		Days:      days,
		Summary:   Summarize(statuses, q),
	}, autoMark
}

// NextStatus is the status a tap on a day moves to. Past days never return
// to pending, since a past pending day is auto-marked not_done.
func NextStatus(current model.HomeworkStatus, isPast bool) model.HomeworkStatus {
	switch current {
	case model.HomeworkPending:
		return model.HomeworkDone
	case model.HomeworkDone:
		return model.HomeworkNotDone
	case model.HomeworkNotDone:
		return model.HomeworkDayOff
	case model.HomeworkDayOff:
		if isPast {
			return model.HomeworkDone
		}
		return model.HomeworkPending
	}
	return model.HomeworkDone
}

type WeekRollup struct {
	WeekStart       string `json:"week_start"`
	Done            int    `json:"done"`
	NotDone         int    `json:"not_done"`
	DayOff          int    `json:"day_off"`
	TotalSchoolDays int    `json:"total_school_days"`
	Required        int    `json:"required"`
	Earned          bool   `json:"earned"`
}

// Rollup groups stored logs into Monday-anchored weeks, newest first.
// Pending rows and rows with unparseable dates count toward nothing.
func Rollup(logs []model.HomeworkLog, q Quota) []WeekRollup {
	byWeek := make(map[string]*WeekRollup)
	for _, l := range logs {
		d, err := time.Parse(DateLayout, l.Date)
		if err != nil {
			continue
		}
		key := WeekStart(d).Format(DateLayout)
		w, ok := byWeek[key]
		if !ok {
			w = &WeekRollup{WeekStart: key}
			byWeek[key] = w
		}
		switch l.Status {
		case model.HomeworkDone:
			w.Done++
		case model.HomeworkNotDone:
			w.NotDone++
		case model.HomeworkDayOff:
			w.DayOff++
		}
	}

	out := make([]WeekRollup, 0, len(byWeek))
	for _, w := range byWeek {
		w.TotalSchoolDays = SchoolDays - w.DayOff
		w.Required = Required(w.TotalSchoolDays, q)
		w.Earned = w.Done >= w.Required
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart > out[j].WeekStart })
	return out
}
