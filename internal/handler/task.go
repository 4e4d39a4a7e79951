package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dukerupert/starchart/internal/model"
	"github.com/dukerupert/starchart/internal/store"
)

type TaskHandler struct {
	taskStore *store.TaskStore
	logger    *slog.Logger
}

func NewTaskHandler(ts *store.TaskStore, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{taskStore: ts, logger: logger}
}

type taskRequest struct {
	Name      string  `json:"name"`
	StarValue int     `json:"star_value"`
	Icon      *string `json:"icon"`
	SortOrder int     `json:"sort_order"`
}

func (req *taskRequest) validate() error {
	req.Name = strings.TrimSpace(req.Name)
	req.Icon = optionalString(req.Icon)
	if req.Name == "" {
		return invalid("name", "name is required")
	}
	if utf8.RuneCountInString(req.Name) > 100 {
		return invalid("name", "name must be at most 100 characters")
	}
	if req.StarValue < 1 || req.StarValue > 100 {
		return invalid("star_value", "star_value must be 1-100")
	}
	return nil
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskStore.ListActive()
	if err != nil {
		writeError(w, h.logger, err, "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, h.logger, err, "")
		return
	}

	task, err := h.taskStore.Create(req.Name, req.StarValue, req.Icon, req.SortOrder)
	if err != nil {
		writeError(w, h.logger, err, "failed to create task")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, h.logger, err, "")
		return
	}

	task, err := h.taskStore.Update(id, req.Name, req.StarValue, req.Icon, req.SortOrder)
	if err != nil {
		writeError(w, h.logger, err, "failed to update task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.taskStore.SoftDelete(id); err != nil {
		writeError(w, h.logger, err, "failed to delete task")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
