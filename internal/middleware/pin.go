package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// PINHeader carries the shared parent PIN on gated requests.
const PINHeader = "X-Parent-PIN"

// PINVerifier checks a candidate parent PIN.
type PINVerifier interface {
	VerifyPIN(pin string) (bool, error)
}

// PINAttempts is one per-client budget of PIN guesses shared by the verify
// endpoint and every gated route.
type PINAttempts struct {
	Limiter  *RateLimiter
	ClientIP func(*http.Request) string
	Limit    int
	Window   time.Duration
}

func (a *PINAttempts) key(r *http.Request) string {
	return "pin:" + a.ClientIP(r)
}

// Throttle counts every request to next against the budget.
func (a *PINAttempts) Throttle(next http.Handler) http.Handler {
	return RateLimit(a.Limiter, a.key, a.Limit, a.Window)(next)
}

func (a *PINAttempts) exhausted(r *http.Request) bool {
	return a.Limiter.Exceeded(a.key(r), a.Limit)
}

func (a *PINAttempts) fail(r *http.Request) {
	a.Limiter.Allow(a.key(r), a.Limit, a.Window)
}

// RequirePIN rejects requests whose X-Parent-PIN header is missing or does
// not match the stored PIN. Wrong PINs are charged to attempts; once the
// budget is spent the client gets 429 until the window resets, even with
// the right PIN.
func RequirePIN(v PINVerifier, attempts *PINAttempts, logger *slog.Logger) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(attempts.Window.Seconds()))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pin := r.Header.Get(PINHeader)
			if pin == "" {
				writeError(w, http.StatusUnauthorized, "parent PIN required")
				return
			}
			if attempts.exhausted(r) {
				w.Header().Set("Retry-After", retryAfter)
				writeError(w, http.StatusTooManyRequests, "too many PIN attempts")
				return
			}

			ok, err := v.VerifyPIN(pin)
			if err != nil {
				logger.Error("verify pin", "error", err)
				writeError(w, http.StatusInternalServerError, "failed to verify PIN")
				return
			}
			if !ok {
				attempts.fail(r)
				logger.Warn("invalid PIN on gated route", "path", r.URL.Path, "client", attempts.ClientIP(r))
				writeError(w, http.StatusUnauthorized, "invalid PIN")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
