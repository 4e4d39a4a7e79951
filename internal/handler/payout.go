package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/starchart/internal/model"
	"github.com/dukerupert/starchart/internal/reward"
	"github.com/dukerupert/starchart/internal/store"
	"github.com/shopspring/decimal"
)

type PayoutHandler struct {
	payoutStore   *store.PayoutStore
	childStore    *store.ChildStore
	settingsStore *store.SettingsStore
	logger        *slog.Logger
}

func NewPayoutHandler(ps *store.PayoutStore, cs *store.ChildStore, ss *store.SettingsStore, logger *slog.Logger) *PayoutHandler {
	return &PayoutHandler{payoutStore: ps, childStore: cs, settingsStore: ss, logger: logger}
}

type payoutRequest struct {
	StarsSpent *int             `json:"stars_spent"`
	Amount     *decimal.Decimal `json:"amount"`
	Note       *string          `json:"note"`
}

func (h *PayoutHandler) List(w http.ResponseWriter, r *http.Request) {
	childID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid child id"})
		return
	}
	child, err := h.childStore.GetByID(childID)
	if err != nil {
		writeError(w, h.logger, err, "failed to get child")
		return
	}
	if child == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "child not found"})
		return
	}

	payouts, err := h.payoutStore.ListByChild(childID)
	if err != nil {
		writeError(w, h.logger, err, "failed to list payouts")
		return
	}
	if payouts == nil {
		payouts = []model.Payout{}
	}
	writeJSON(w, http.StatusOK, payouts)
}

// Create records a payout. When stars_spent is omitted it is derived from
// the amount at the current threshold ratio.
func (h *PayoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	childID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid child id"})
		return
	}

	var req payoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	if req.Amount == nil {
		writeError(w, h.logger, invalid("amount", "amount is required"), "")
		return
	}
	if req.Amount.IsNegative() {
		writeError(w, h.logger, invalid("amount", "amount must be >= 0"), "")
		return
	}
	note, err := optionalNote(req.Note)
	if err != nil {
		writeError(w, h.logger, err, "")
		return
	}

	var starsSpent int
	if req.StarsSpent != nil {
		starsSpent = *req.StarsSpent
	} else {
		threshold, err := h.settingsStore.GetThreshold()
		if err != nil {
			writeError(w, h.logger, err, "failed to get reward threshold")
			return
		}
		starsSpent = reward.StarsForAmount(*req.Amount, threshold)
	}
	if starsSpent < 1 {
		writeError(w, h.logger, invalid("stars_spent", "stars_spent must be at least 1"), "")
		return
	}

	payout, err := h.payoutStore.Create(childID, starsSpent, req.Amount.Round(2), note)
	if err != nil {
		writeError(w, h.logger, err, "failed to record payout")
		return
	}
	h.logger.Info("payout recorded", "child_id", childID, "stars_spent", starsSpent, "amount", payout.Amount.StringFixed(2))
	writeJSON(w, http.StatusCreated, payout)
}
