package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/starchart/internal/insights"
	"github.com/dukerupert/starchart/internal/model"
	"github.com/dukerupert/starchart/internal/reward"
	"github.com/dukerupert/starchart/internal/store"
)

type StarHandler struct {
	starStore     *store.StarStore
	childStore    *store.ChildStore
	payoutStore   *store.PayoutStore
	settingsStore *store.SettingsStore
	now           func() time.Time
	logger        *slog.Logger
}

func NewStarHandler(ss *store.StarStore, cs *store.ChildStore, ps *store.PayoutStore, sets *store.SettingsStore, now func() time.Time, logger *slog.Logger) *StarHandler {
	return &StarHandler{
		starStore:     ss,
		childStore:    cs,
		payoutStore:   ps,
		settingsStore: sets,
		now:           now,
		logger:        logger,
	}
}

// childExists resolves the {id} path value to a child that exists, deleted
// or not, writing the error response itself when it cannot.
func (h *StarHandler) childExists(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid child id"})
		return 0, false
	}
	child, err := h.childStore.GetByID(id)
	if err != nil {
		writeError(w, h.logger, err, "failed to get child")
		return 0, false
	}
	if child == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "child not found"})
		return 0, false
	}
	return id, true
}

func (h *StarHandler) History(w http.ResponseWriter, r *http.Request) {
	childID, ok := h.childExists(w, r)
	if !ok {
		return
	}

	logs, err := h.starStore.ListHistory(childID)
	if err != nil {
		writeError(w, h.logger, err, "failed to list stars")
		return
	}
	if logs == nil {
		logs = []model.StarLogView{}
	}
	writeJSON(w, http.StatusOK, logs)
}

type awardRequest struct {
	TaskID int64 `json:"task_id"`
}

func (h *StarHandler) Award(w http.ResponseWriter, r *http.Request) {
	childID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid child id"})
		return
	}

	var req awardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	if req.TaskID <= 0 {
		writeError(w, h.logger, invalid("task_id", "task_id is required"), "")
		return
	}

	result, err := h.starStore.Award(childID, req.TaskID)
	if err != nil {
		writeError(w, h.logger, err, "failed to award stars")
		return
	}
	if result.ThresholdReached {
		h.logger.Info("reward threshold reached", "child_id", childID, "outstanding", result.Outstanding)
	}
	writeJSON(w, http.StatusCreated, result)
}

type removeRequest struct {
	Stars int     `json:"stars"`
	Note  *string `json:"note"`
}

func (h *StarHandler) Remove(w http.ResponseWriter, r *http.Request) {
	childID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid child id"})
		return
	}

	var req removeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	if req.Stars < 1 {
		writeError(w, h.logger, invalid("stars", "stars must be at least 1"), "")
		return
	}
	note, err := optionalNote(req.Note)
	if err != nil {
		writeError(w, h.logger, err, "")
		return
	}

	var noteText string
	if note != nil {
		noteText = *note
	}
	_, total, err := h.starStore.Remove(childID, req.Stars, noteText)
	if err != nil {
		writeError(w, h.logger, err, "failed to remove stars")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"newTotal":     total,
		"starsRemoved": req.Stars,
	})
}

func (h *StarHandler) Undo(w http.ResponseWriter, r *http.Request) {
	childID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid child id"})
		return
	}
	logID, err := parsePathID(r, "logId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid log id"})
		return
	}

	total, err := h.starStore.Undo(childID, logID)
	if err != nil {
		writeError(w, h.logger, err, "failed to undo stars")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "newTotal": total})
}

func (h *StarHandler) Summary(w http.ResponseWriter, r *http.Request) {
	childID, ok := h.childExists(w, r)
	if !ok {
		return
	}

	total, paid, err := h.starStore.Totals(childID)
	if err != nil {
		writeError(w, h.logger, err, "failed to get star totals")
		return
	}
	threshold, err := h.settingsStore.GetThreshold()
	if err != nil {
		writeError(w, h.logger, err, "failed to get reward threshold")
		return
	}
	writeJSON(w, http.StatusOK, reward.Compute(total, paid, threshold))
}

func (h *StarHandler) Insights(w http.ResponseWriter, r *http.Request) {
	childID, ok := h.childExists(w, r)
	if !ok {
		return
	}

	entries, err := h.starStore.ActiveEntries(childID)
	if err != nil {
		writeError(w, h.logger, err, "failed to load stars")
		return
	}
	_, paidStars, err := h.starStore.Totals(childID)
	if err != nil {
		writeError(w, h.logger, err, "failed to get star totals")
		return
	}
	paidAmount, err := h.payoutStore.TotalAmount(childID)
	if err != nil {
		writeError(w, h.logger, err, "failed to get payout totals")
		return
	}
	threshold, err := h.settingsStore.GetThreshold()
	if err != nil {
		writeError(w, h.logger, err, "failed to get reward threshold")
		return
	}

	writeJSON(w, http.StatusOK, insights.Compute(insights.Input{
		Entries:         entries,
		TotalPaidStars:  paidStars,
		TotalPaidAmount: paidAmount,
		Threshold:       threshold,
		Now:             h.now(),
	}))
}
