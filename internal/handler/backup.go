package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/dukerupert/starchart/internal/backup"
	"github.com/dukerupert/starchart/internal/model"
)

const (
	minPassphraseLen = 8
	backupListLimit  = 50
)

type BackupHandler struct {
	manager *backup.Manager
	logger  *slog.Logger
}

func NewBackupHandler(m *backup.Manager, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{manager: m, logger: logger}
}

func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	backups, err := h.manager.List(backupListLimit)
	if err != nil {
		writeError(w, h.logger, err, "failed to list backups")
		return
	}
	if backups == nil {
		backups = []model.Backup{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  h.manager.Status(),
		"backups": backups,
	})
}

type backupRequest struct {
	Passphrase string `json:"passphrase"`
}

func (h *BackupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req backupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	if utf8.RuneCountInString(req.Passphrase) < minPassphraseLen {
		writeError(w, h.logger, invalid("passphrase", fmt.Sprintf("passphrase must be at least %d characters", minPassphraseLen)), "")
		return
	}

	b, err := h.manager.RunNow(r.Context(), req.Passphrase)
	switch {
	case errors.Is(err, backup.ErrNotConfigured):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	case errors.Is(err, backup.ErrInProgress):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	case err != nil:
		writeError(w, h.logger, err, "backup failed")
		return
	}
	h.logger.Info("backup completed", "id", b.ID, "size_bytes", b.SizeBytes)
	writeJSON(w, http.StatusCreated, b)
}

// Download streams the encrypted archive. It is only useful together with
// the passphrase it was created with.
func (h *BackupHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	body, record, err := h.manager.Download(r.Context(), id)
	if errors.Is(err, backup.ErrNotConfigured) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		writeError(w, h.logger, err, "failed to download backup")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.Filename))
	if record.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(record.SizeBytes, 10))
	}
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("stream backup", "id", id, "error", err)
	}
}
