package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/starchart/internal/store"
)

type AuthHandler struct {
	settingsStore *store.SettingsStore
	logger        *slog.Logger
}

func NewAuthHandler(ss *store.SettingsStore, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{settingsStore: ss, logger: logger}
}

type verifyRequest struct {
	PIN string `json:"pin"`
}

// Verify checks a PIN so the client can unlock parent mode before sending
// gated requests.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	if req.PIN == "" {
		writeError(w, h.logger, invalid("pin", "PIN is required"), "")
		return
	}

	ok, err := h.settingsStore.VerifyPIN(req.PIN)
	if err != nil {
		writeError(w, h.logger, err, "failed to verify PIN")
		return
	}
	if !ok {
		h.logger.Warn("invalid PIN attempt", "remote", r.RemoteAddr)
		writeJSON(w, http.StatusUnauthorized, map[string]any{"valid": false, "error": "invalid PIN"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}
