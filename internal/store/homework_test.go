package store

import (
	"errors"
	"testing"
	"time"

	"github.com/dukerupert/starchart/internal/model"
)

func TestHomeworkSetAndRange(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHomeworkStore(db)
	child := createTestChild(t, db, "Ada")

	if err := hs.SetStatus(child, "2026-10-12", model.HomeworkDone); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if err := hs.SetStatus(child, "2026-10-13", model.HomeworkDayOff); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if err := hs.SetStatus(child, "2026-10-12", model.HomeworkNotDone); err != nil {
		t.Fatalf("overwrite status: %v", err)
	}
	if err := hs.SetStatus(child, "2026-10-20", model.HomeworkDone); err != nil {
		t.Fatalf("set status: %v", err)
	}

	got, err := hs.StatusesBetween(child, "2026-10-12", "2026-10-16")
	if err != nil {
		t.Fatalf("statuses between: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got["2026-10-12"] != model.HomeworkNotDone {
		t.Errorf("2026-10-12 = %q, want not_done", got["2026-10-12"])
	}
	if got["2026-10-13"] != model.HomeworkDayOff {
		t.Errorf("2026-10-13 = %q, want day_off", got["2026-10-13"])
	}
}

func TestHomeworkMarkNotDoneKeepsExisting(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHomeworkStore(db)
	child := createTestChild(t, db, "Ada")

	if err := hs.SetStatus(child, "2026-10-13", model.HomeworkDone); err != nil {
		t.Fatalf("set status: %v", err)
	}
	dates := []string{"2026-10-12", "2026-10-13", "2026-10-14"}
	if err := hs.MarkNotDone(child, dates); err != nil {
		t.Fatalf("mark not done: %v", err)
	}
	if err := hs.MarkNotDone(child, dates); err != nil {
		t.Fatalf("mark not done again: %v", err)
	}

	got, err := hs.StatusesBetween(child, "2026-10-12", "2026-10-16")
	if err != nil {
		t.Fatalf("statuses between: %v", err)
	}
	if got["2026-10-13"] != model.HomeworkDone {
		t.Errorf("2026-10-13 = %q, want done (not overwritten)", got["2026-10-13"])
	}
	if got["2026-10-12"] != model.HomeworkNotDone || got["2026-10-14"] != model.HomeworkNotDone {
		t.Errorf("auto-marked = %v", got)
	}

	logs, err := hs.ListSince(child, "2026-10-01")
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(logs) != 3 {
		t.Errorf("len = %d, want 3", len(logs))
	}
	if len(logs) > 0 && logs[0].Date != "2026-10-12" {
		t.Errorf("first date = %q, want 2026-10-12", logs[0].Date)
	}
}

func TestHomeworkRejectsUnknownStatus(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHomeworkStore(db)
	child := createTestChild(t, db, "Ada")

	if err := hs.SetStatus(child, "2026-10-12", model.HomeworkStatus("skipped")); err == nil {
		t.Error("expected check constraint error")
	}
}

func TestHomeworkWeekAutoMarksPastDays(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHomeworkStore(db)
	child := createTestChild(t, db, "Ada")

	if err := hs.SetStatus(child, "2026-10-12", model.HomeworkDone); err != nil {
		t.Fatalf("set status: %v", err)
	}

	// Wednesday 2026-10-14.
	today := time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC)
	week, err := hs.Week(child, today, today)
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	if week.WeekStart != "2026-10-12" || week.WeekEnd != "2026-10-16" {
		t.Errorf("week = %s..%s", week.WeekStart, week.WeekEnd)
	}
	if week.Days[0].Status != model.HomeworkDone {
		t.Errorf("monday = %q, want done", week.Days[0].Status)
	}
	if week.Days[1].Status != model.HomeworkNotDone {
		t.Errorf("tuesday = %q, want not_done", week.Days[1].Status)
	}
	if !week.Days[2].IsToday || week.Days[2].Status != model.HomeworkPending {
		t.Errorf("wednesday = %+v, want pending today", week.Days[2])
	}
	if week.Summary.Required != 4 || !week.Summary.StillPossible || week.Summary.Lost {
		t.Errorf("summary = %+v, want required 4 and still possible with 1 done and 3 pending", week.Summary)
	}

	stored, err := hs.StatusesBetween(child, "2026-10-12", "2026-10-16")
	if err != nil {
		t.Fatalf("statuses between: %v", err)
	}
	if stored["2026-10-13"] != model.HomeworkNotDone {
		t.Errorf("tuesday not persisted: %v", stored)
	}
	if _, ok := stored["2026-10-14"]; ok {
		t.Error("today must not be auto-marked")
	}
}

func TestHomeworkWeekUsesChildQuota(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHomeworkStore(db)
	cs := NewChildStore(db)

	c, err := cs.Create(ChildInput{Name: "Ben", Color: "#00FF00", HomeworkTracking: true, HomeworkRequired: 2, HomeworkTotalDays: 3})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}

	today := time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC)
	week, err := hs.Week(c.ID, today, today)
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	if week.Summary.Required != 2 {
		t.Errorf("required = %d, want 2 from the child's settings", week.Summary.Required)
	}
	if week.Days[2].NextStatus != model.HomeworkDone {
		t.Errorf("today next status = %q, want done", week.Days[2].NextStatus)
	}

	if err := cs.SoftDelete(c.ID); err != nil {
		t.Fatalf("delete child: %v", err)
	}
	if _, err := hs.Week(c.ID, today, today); !errors.Is(err, ErrNotFound) {
		t.Errorf("week for deleted child: err = %v, want ErrNotFound", err)
	}
	if _, err := hs.Week(9999, today, today); !errors.Is(err, ErrNotFound) {
		t.Errorf("week for missing child: err = %v, want ErrNotFound", err)
	}
}

func TestHomeworkMarkValidation(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHomeworkStore(db)
	child := createTestChild(t, db, "Ada")

	tests := []struct {
		name   string
		date   string
		status model.HomeworkStatus
		field  string
	}{
		{"malformed date", "10/12/2026", model.HomeworkDone, "date"},
		{"saturday", "2026-10-17", model.HomeworkDone, "date"},
		{"sunday", "2026-10-18", model.HomeworkDone, "date"},
		{"unknown status", "2026-10-12", model.HomeworkStatus("skipped"), "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := hs.Mark(child, tt.date, tt.status)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %q, want %q", verr.Field, tt.field)
			}
		})
	}

	if err := hs.Mark(999, "2026-10-12", model.HomeworkDone); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing child: err = %v, want ErrNotFound", err)
	}
	if err := hs.Mark(child, "2026-10-12", model.HomeworkDayOff); err != nil {
		t.Errorf("valid mark: %v", err)
	}
}

func TestHomeworkHistory(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHomeworkStore(db)
	child := createTestChild(t, db, "Ada")

	marks := map[string]model.HomeworkStatus{
		"2026-10-05": model.HomeworkDone,
		"2026-10-06": model.HomeworkDone,
		"2026-10-07": model.HomeworkDone,
		"2026-10-08": model.HomeworkDone,
		"2026-10-09": model.HomeworkNotDone,
		"2026-10-12": model.HomeworkDone,
		"2026-10-13": model.HomeworkDayOff,
		"2026-08-03": model.HomeworkDone,
	}
	for date, status := range marks {
		if err := hs.SetStatus(child, date, status); err != nil {
			t.Fatalf("set status: %v", err)
		}
	}

	today := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	weeks, err := hs.History(child, 0, today)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(weeks) != 2 {
		t.Fatalf("len = %d, want 2 (older week outside range)", len(weeks))
	}
	if weeks[0].WeekStart != "2026-10-12" {
		t.Errorf("newest week = %q, want 2026-10-12", weeks[0].WeekStart)
	}
	if weeks[0].TotalSchoolDays != 4 || weeks[0].Required != 4 {
		t.Errorf("newest week = %+v, want 4 school days and 4 required", weeks[0])
	}
	if !weeks[1].Earned {
		t.Errorf("week of 2026-10-05 = %+v, want earned", weeks[1])
	}
}
