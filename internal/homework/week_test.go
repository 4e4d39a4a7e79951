package homework

import (
	"testing"
	"time"

	"github.com/dukerupert/starchart/internal/model"
)

var fourOfFive = Quota{Required: 4, TotalDays: 5}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"monday", date(2026, 2, 2), "2026-02-02"},
		{"wednesday", date(2026, 2, 4), "2026-02-02"},
		{"friday", date(2026, 2, 6), "2026-02-02"},
		{"saturday", date(2026, 2, 7), "2026-02-02"},
		{"sunday", date(2026, 2, 8), "2026-02-02"},
		{"across month", date(2026, 3, 1), "2026-02-23"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStart(tt.in).Format(DateLayout); got != tt.want {
				t.Errorf("WeekStart(%s) = %s, want %s", tt.in.Format(DateLayout), got, tt.want)
			}
		})
	}
}

func TestWeekDates(t *testing.T) {
	got := WeekDates(date(2026, 2, 4))
	want := []string{"2026-02-02", "2026-02-03", "2026-02-04", "2026-02-05", "2026-02-06"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("dates[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestIsWeekday(t *testing.T) {
	if !IsWeekday(date(2026, 2, 6)) {
		t.Error("friday should be a weekday")
	}
	if IsWeekday(date(2026, 2, 7)) {
		t.Error("saturday should not be a weekday")
	}
	if IsWeekday(date(2026, 2, 8)) {
		t.Error("sunday should not be a weekday")
	}
}

func TestSummarizeShortWeekRequiresAllDays(t *testing.T) {
	statuses := []model.HomeworkStatus{
		model.HomeworkDayOff,
		model.HomeworkDone,
		model.HomeworkDone,
		model.HomeworkDone,
		model.HomeworkPending,
	}
	s := Summarize(statuses, fourOfFive)

	if s.TotalSchoolDays != 4 {
		t.Errorf("total_school_days = %d, want 4", s.TotalSchoolDays)
	}
	if s.Required != 4 {
		t.Errorf("required = %d, want 4", s.Required)
	}
	if s.Earned {
		t.Error("should not be earned with 3 of 4 done")
	}
	if !s.StillPossible {
		t.Error("should still be possible with one pending day")
	}
	if s.Lost {
		t.Error("should not be lost")
	}

	statuses[4] = model.HomeworkNotDone
	s = Summarize(statuses, fourOfFive)
	if s.StillPossible {
		t.Error("should not be possible once the last day is missed")
	}
	if !s.Lost {
		t.Error("should be lost")
	}
}

func TestSummarizeFullWeekUsesConfiguredRequirement(t *testing.T) {
	statuses := []model.HomeworkStatus{
		model.HomeworkDone,
		model.HomeworkNotDone,
		model.HomeworkDone,
		model.HomeworkDone,
		model.HomeworkDone,
	}
	s := Summarize(statuses, fourOfFive)
	if s.Required != 4 {
		t.Errorf("required = %d, want 4", s.Required)
	}
	if !s.Earned {
		t.Error("4 of 5 done should be earned")
	}
	if s.Lost {
		t.Error("earned week is not lost")
	}
}

func TestSummarizeShortConfiguredWeek(t *testing.T) {
	// A child on a 4-day schedule: one day off leaves 4 school days, which is
	// not shorter than the configured week, so the configured 3 applies.
	q := Quota{Required: 3, TotalDays: 4}
	statuses := []model.HomeworkStatus{
		model.HomeworkDayOff,
		model.HomeworkDone,
		model.HomeworkDone,
		model.HomeworkDone,
		model.HomeworkNotDone,
	}
	s := Summarize(statuses, q)
	if s.Required != 3 {
		t.Errorf("required = %d, want 3", s.Required)
	}
	if !s.Earned {
		t.Error("expected earned")
	}
}

func TestBuildWeekAutoMarksPastDays(t *testing.T) {
	ref := date(2026, 2, 4)
	today := date(2026, 2, 4)
	stored := map[string]model.HomeworkStatus{
		"2026-02-02": model.HomeworkDone,
		"2026-02-06": model.HomeworkDayOff,
	}

	week, autoMark := BuildWeek(ref, today, stored, fourOfFive)

	if week.WeekStart != "2026-02-02" || week.WeekEnd != "2026-02-06" {
		t.Errorf("week = %s..%s", week.WeekStart, week.WeekEnd)
	}
	if len(autoMark) != 1 || autoMark[0] != "2026-02-03" {
		t.Fatalf("autoMark = %v, want [2026-02-03]", autoMark)
	}

	want := []model.HomeworkStatus{
		model.HomeworkDone,
		model.HomeworkNotDone,
		model.HomeworkPending,
		model.HomeworkPending,
		model.HomeworkDayOff,
	}
	for i, d := range week.Days {
		if d.Status != want[i] {
			t.Errorf("%s status = %q, want %q", d.DayName, d.Status, want[i])
		}
	}

	wantNext := []model.HomeworkStatus{
		model.HomeworkNotDone,
		model.HomeworkDayOff,
		model.HomeworkDone,
		model.HomeworkDone,
		model.HomeworkPending,
	}
	for i, d := range week.Days {
		if d.NextStatus != wantNext[i] {
			t.Errorf("%s next status = %q, want %q", d.DayName, d.NextStatus, wantNext[i])
		}
	}

	wed := week.Days[2]
	if !wed.IsToday || wed.IsPast || wed.IsFuture {
		t.Errorf("wednesday flags = today:%v past:%v future:%v", wed.IsToday, wed.IsPast, wed.IsFuture)
	}
	if !week.Days[0].IsPast || !week.Days[4].IsFuture {
		t.Error("monday should be past and friday future")
	}

	s := week.Summary
	if s.Done != 1 || s.NotDone != 1 || s.Pending != 2 || s.DayOff != 1 {
		t.Errorf("counts = %+v", s)
	}
	// One day off shortens the week to 4, all required; 1 done + 2 pending < 4.
	if s.Required != 4 || s.StillPossible || !s.Lost {
		t.Errorf("summary = %+v, want required 4 and lost", s)
	}
}

func TestBuildWeekKeepsExplicitPastPendingRow(t *testing.T) {
	stored := map[string]model.HomeworkStatus{"2026-02-02": model.HomeworkPending}
	week, autoMark := BuildWeek(date(2026, 2, 3), date(2026, 2, 3), stored, fourOfFive)

	if week.Days[0].Status != model.HomeworkNotDone {
		t.Errorf("past pending day status = %q, want not_done", week.Days[0].Status)
	}
	if len(autoMark) != 0 {
		t.Errorf("autoMark = %v, want none for a day that already has a row", autoMark)
	}
}

func TestBuildWeekFutureWeekHasNothingToMark(t *testing.T) {
	week, autoMark := BuildWeek(date(2026, 2, 16), date(2026, 2, 4), nil, fourOfFive)
	if len(autoMark) != 0 {
		t.Errorf("autoMark = %v", autoMark)
	}
	if !week.Summary.StillPossible || week.Summary.Pending != 5 {
		t.Errorf("summary = %+v", week.Summary)
	}
}

func TestNextStatus(t *testing.T) {
	tests := []struct {
		from   model.HomeworkStatus
		isPast bool
		want   model.HomeworkStatus
	}{
		{model.HomeworkPending, false, model.HomeworkDone},
		{model.HomeworkDone, false, model.HomeworkNotDone},
		{model.HomeworkNotDone, false, model.HomeworkDayOff},
		{model.HomeworkDayOff, false, model.HomeworkPending},
		{model.HomeworkDayOff, true, model.HomeworkDone},
		{model.HomeworkNotDone, true, model.HomeworkDayOff},
	}
	for _, tt := range tests {
		if got := NextStatus(tt.from, tt.isPast); got != tt.want {
			t.Errorf("NextStatus(%q, past=%v) = %q, want %q", tt.from, tt.isPast, got, tt.want)
		}
	}
}

func TestRollup(t *testing.T) {
	logs := []model.HomeworkLog{
		{Date: "2026-01-26", Status: model.HomeworkDone},
		{Date: "2026-01-27", Status: model.HomeworkDone},
		{Date: "2026-01-28", Status: model.HomeworkDone},
		{Date: "2026-01-29", Status: model.HomeworkDone},
		{Date: "2026-01-30", Status: model.HomeworkNotDone},
		{Date: "2026-02-02", Status: model.HomeworkDayOff},
		{Date: "2026-02-03", Status: model.HomeworkDone},
		{Date: "2026-02-04", Status: model.HomeworkDone},
		{Date: "2026-02-05", Status: model.HomeworkDone},
		{Date: "2026-02-06", Status: model.HomeworkPending},
	}

	weeks := Rollup(logs, fourOfFive)
	if len(weeks) != 2 {
		t.Fatalf("expected 2 weeks, got %d", len(weeks))
	}

	recent := weeks[0]
	if recent.WeekStart != "2026-02-02" {
		t.Errorf("weeks[0] = %s, want newest first", recent.WeekStart)
	}
	if recent.DayOff != 1 || recent.TotalSchoolDays != 4 || recent.Required != 4 || recent.Earned {
		t.Errorf("recent week = %+v", recent)
	}

	older := weeks[1]
	if older.Done != 4 || older.NotDone != 1 || older.Required != 4 || !older.Earned {
		t.Errorf("older week = %+v", older)
	}
}
