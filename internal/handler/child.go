package handler

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dukerupert/starchart/internal/model"
	"github.com/dukerupert/starchart/internal/store"
)

const defaultChildColor = "#FFD700"

var colorRegexp = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type ChildHandler struct {
	childStore *store.ChildStore
	logger     *slog.Logger
}

func NewChildHandler(cs *store.ChildStore, logger *slog.Logger) *ChildHandler {
	return &ChildHandler{childStore: cs, logger: logger}
}

type childRequest struct {
	Name              string  `json:"name"`
	Color             string  `json:"color"`
	AvatarURL         *string `json:"avatar_url"`
	HomeworkTracking  bool    `json:"homework_tracking"`
	HomeworkRequired  *int    `json:"homework_required"`
	HomeworkTotalDays *int    `json:"homework_total_days"`
}

func (req childRequest) validate() (store.ChildInput, error) {
	in := store.ChildInput{
		Name:              strings.TrimSpace(req.Name),
		Color:             strings.TrimSpace(req.Color),
		AvatarURL:         optionalString(req.AvatarURL),
		HomeworkTracking:  req.HomeworkTracking,
		HomeworkRequired:  4,
		HomeworkTotalDays: 5,
	}

	if in.Name == "" {
		return in, invalid("name", "name is required")
	}
	if utf8.RuneCountInString(in.Name) > 50 {
		return in, invalid("name", "name must be at most 50 characters")
	}
	if in.Color == "" {
		in.Color = defaultChildColor
	}
	if !colorRegexp.MatchString(in.Color) {
		return in, invalid("color", "color must be a hex color like #FFD700")
	}
	if req.HomeworkRequired != nil {
		in.HomeworkRequired = *req.HomeworkRequired
	}
	if in.HomeworkRequired < 1 || in.HomeworkRequired > 5 {
		return in, invalid("homework_required", "homework_required must be 1-5")
	}
	if req.HomeworkTotalDays != nil {
		in.HomeworkTotalDays = *req.HomeworkTotalDays
	}
	if in.HomeworkTotalDays < 1 || in.HomeworkTotalDays > 5 {
		return in, invalid("homework_total_days", "homework_total_days must be 1-5")
	}
	return in, nil
}

func (h *ChildHandler) List(w http.ResponseWriter, r *http.Request) {
	children, err := h.childStore.ListActive()
	if err != nil {
		writeError(w, h.logger, err, "failed to list children")
		return
	}
	if children == nil {
		children = []model.ChildWithTotals{}
	}
	writeJSON(w, http.StatusOK, children)
}

func (h *ChildHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req childRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	in, err := req.validate()
	if err != nil {
		writeError(w, h.logger, err, "")
		return
	}

	child, err := h.childStore.Create(in)
	if err != nil {
		writeError(w, h.logger, err, "failed to create child")
		return
	}
	h.logger.Info("child created", "id", child.ID)
	writeJSON(w, http.StatusCreated, child)
}

func (h *ChildHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req childRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	in, err := req.validate()
	if err != nil {
		writeError(w, h.logger, err, "")
		return
	}

	child, err := h.childStore.Update(id, in)
	if err != nil {
		writeError(w, h.logger, err, "failed to update child")
		return
	}
	writeJSON(w, http.StatusOK, child)
}

func (h *ChildHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.childStore.SoftDelete(id); err != nil {
		writeError(w, h.logger, err, "failed to delete child")
		return
	}
	h.logger.Info("child deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
