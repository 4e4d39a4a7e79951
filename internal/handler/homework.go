package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/starchart/internal/homework"
	"github.com/dukerupert/starchart/internal/model"
	"github.com/dukerupert/starchart/internal/store"
)

type HomeworkHandler struct {
	homeworkStore *store.HomeworkStore
	now           func() time.Time
	logger        *slog.Logger
}

func NewHomeworkHandler(hs *store.HomeworkStore, now func() time.Time, logger *slog.Logger) *HomeworkHandler {
	return &HomeworkHandler{homeworkStore: hs, now: now, logger: logger}
}

// Week returns Monday..Friday of the week containing ?week=YYYY-MM-DD, or
// of the current week when the parameter is absent.
func (h *HomeworkHandler) Week(w http.ResponseWriter, r *http.Request) {
	childID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid child id"})
		return
	}

	today := h.now()
	ref := today
	if s := r.URL.Query().Get("week"); s != "" {
		ref, err = homework.ParseDate(s, today.Location())
		if err != nil {
			writeError(w, h.logger, invalid("week", err.Error()), "")
			return
		}
	}

	week, err := h.homeworkStore.Week(childID, ref, today)
	if err != nil {
		writeError(w, h.logger, err, "failed to load homework week")
		return
	}
	writeJSON(w, http.StatusOK, week)
}

type homeworkRequest struct {
	Date   string               `json:"date"`
	Status model.HomeworkStatus `json:"status"`
}

func (h *HomeworkHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	childID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid child id"})
		return
	}

	var req homeworkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err, "")
		return
	}

	if err := h.homeworkStore.Mark(childID, req.Date, req.Status); err != nil {
		writeError(w, h.logger, err, "failed to save homework status")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "date": req.Date, "status": req.Status})
}

// History rolls up the last ?weeks=N weeks (default 8).
func (h *HomeworkHandler) History(w http.ResponseWriter, r *http.Request) {
	childID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid child id"})
		return
	}

	var weeks int
	if s := r.URL.Query().Get("weeks"); s != "" {
		weeks, err = strconv.Atoi(s)
		if err != nil || weeks < 0 {
			writeError(w, h.logger, invalid("weeks", "weeks must be a positive number"), "")
			return
		}
	}

	history, err := h.homeworkStore.History(childID, weeks, h.now())
	if err != nil {
		writeError(w, h.logger, err, "failed to load homework history")
		return
	}
	if history == nil {
		history = []homework.WeekRollup{}
	}
	writeJSON(w, http.StatusOK, history)
}
