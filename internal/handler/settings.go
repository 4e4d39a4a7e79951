package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/starchart/internal/model"
	"github.com/dukerupert/starchart/internal/store"
	"github.com/shopspring/decimal"
)

type SettingsHandler struct {
	settingsStore *store.SettingsStore
	logger        *slog.Logger
}

func NewSettingsHandler(ss *store.SettingsStore, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settingsStore: ss, logger: logger}
}

func (h *SettingsHandler) GetThreshold(w http.ResponseWriter, r *http.Request) {
	t, err := h.settingsStore.GetThreshold()
	if err != nil {
		writeError(w, h.logger, err, "failed to get reward threshold")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type thresholdRequest struct {
	Stars  int              `json:"stars"`
	Amount *decimal.Decimal `json:"amount"`
}

func (h *SettingsHandler) UpdateThreshold(w http.ResponseWriter, r *http.Request) {
	var req thresholdRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	if req.Stars < 1 {
		writeError(w, h.logger, invalid("stars", "stars must be at least 1"), "")
		return
	}
	if req.Amount == nil || req.Amount.IsNegative() {
		writeError(w, h.logger, invalid("amount", "amount must be >= 0"), "")
		return
	}

	t := model.RewardThreshold{Stars: req.Stars, Amount: req.Amount.Round(2)}
	if err := h.settingsStore.SetThreshold(t); err != nil {
		writeError(w, h.logger, err, "failed to save reward threshold")
		return
	}
	h.logger.Info("reward threshold updated", "stars", t.Stars, "amount", t.Amount.StringFixed(2))
	writeJSON(w, http.StatusOK, t)
}

type pinChangeRequest struct {
	CurrentPIN string `json:"current_pin"`
	NewPIN     string `json:"new_pin"`
}

func (h *SettingsHandler) ChangePIN(w http.ResponseWriter, r *http.Request) {
	var req pinChangeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	if !isPIN(req.CurrentPIN) {
		writeError(w, h.logger, invalid("current_pin", "PIN must be 4 digits"), "")
		return
	}
	if !isPIN(req.NewPIN) {
		writeError(w, h.logger, invalid("new_pin", "PIN must be 4 digits"), "")
		return
	}

	ok, err := h.settingsStore.VerifyPIN(req.CurrentPIN)
	if err != nil {
		writeError(w, h.logger, err, "failed to verify PIN")
		return
	}
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "current PIN is incorrect"})
		return
	}

	if err := h.settingsStore.SetPIN(req.NewPIN); err != nil {
		writeError(w, h.logger, err, "failed to save PIN")
		return
	}
	h.logger.Info("parent PIN changed")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func isPIN(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
