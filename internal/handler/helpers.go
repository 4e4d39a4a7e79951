package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dukerupert/starchart/internal/store"
)

const maxNoteLen = 200

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseIDParam(r *http.Request) (int64, error) {
	return parsePathID(r, "id")
}

func parsePathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

// decodeJSON reads the request body into v. A failure is reported as a
// validation error on the body.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &store.ValidationError{Field: "body", Message: "invalid JSON"}
	}
	return nil
}

// writeError maps store errors onto HTTP responses. Anything that is not a
// validation or not-found error is logged and reported as a 500 with msg.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error, msg string) {
	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		logger.Error(msg, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": msg})
	}
}

func invalid(field, msg string) error {
	return &store.ValidationError{Field: field, Message: msg}
}

// optionalNote trims a note and returns nil when it is empty.
func optionalNote(note *string) (*string, error) {
	if note == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > maxNoteLen {
		return nil, invalid("note", "note must be at most 200 characters")
	}
	return &trimmed, nil
}

func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
