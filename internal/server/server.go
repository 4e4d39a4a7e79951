package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/starchart/internal/backup"
	"github.com/dukerupert/starchart/internal/handler"
	"github.com/dukerupert/starchart/internal/middleware"
	"github.com/dukerupert/starchart/internal/store"
)

// Wrong PINs on gated routes and all calls to /api/auth/verify share this
// per-client budget.
const (
	pinAttemptLimit  = 10
	pinAttemptWindow = time.Minute
)

type Server struct {
	db          *sql.DB
	childH      *handler.ChildHandler
	taskH       *handler.TaskHandler
	starH       *handler.StarHandler
	payoutH     *handler.PayoutHandler
	homeworkH   *handler.HomeworkHandler
	settingsH   *handler.SettingsHandler
	authH       *handler.AuthHandler
	backupH     *handler.BackupHandler
	requirePIN  func(http.Handler) http.Handler
	attempts    *middleware.PINAttempts
	rateLimiter *middleware.RateLimiter
	backupMgr   *backup.Manager
	logger      *slog.Logger
}

// Config holds what the server needs beyond the database.
type Config struct {
	Backup backup.Config
	// Now is the clock for calendar-relative views. Defaults to time.Now.
	Now func() time.Time
	// TrustProxy makes client addresses come from X-Forwarded-For or
	// X-Real-IP. Only set it behind a reverse proxy that overwrites them.
	TrustProxy bool
}

// New wires stores, handlers and the backup manager.
func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	childStore := store.NewChildStore(db)
	taskStore := store.NewTaskStore(db)
	starStore := store.NewStarStore(db)
	payoutStore := store.NewPayoutStore(db)
	homeworkStore := store.NewHomeworkStore(db)
	settingsStore := store.NewSettingsStore(db)
	backupStore := store.NewBackupStore(db)

	backupMgr := backup.NewManager(cfg.Backup, db, backupStore, logger.With("component", "backup"))

	rateLimiter := middleware.NewRateLimiter()
	attempts := &middleware.PINAttempts{
		Limiter:  rateLimiter,
		ClientIP: middleware.ClientIP(cfg.TrustProxy),
		Limit:    pinAttemptLimit,
		Window:   pinAttemptWindow,
	}

	return &Server{
		db:          db,
		childH:      handler.NewChildHandler(childStore, logger.With("component", "child")),
		taskH:       handler.NewTaskHandler(taskStore, logger.With("component", "task")),
		starH:       handler.NewStarHandler(starStore, childStore, payoutStore, settingsStore, now, logger.With("component", "star")),
		payoutH:     handler.NewPayoutHandler(payoutStore, childStore, settingsStore, logger.With("component", "payout")),
		homeworkH:   handler.NewHomeworkHandler(homeworkStore, now, logger.With("component", "homework")),
		settingsH:   handler.NewSettingsHandler(settingsStore, logger.With("component", "settings")),
		authH:       handler.NewAuthHandler(settingsStore, logger.With("component", "auth")),
		backupH:     handler.NewBackupHandler(backupMgr, logger.With("component", "backup_handler")),
		requirePIN:  middleware.RequirePIN(settingsStore, attempts, logger.With("component", "pin")),
		attempts:    attempts,
		rateLimiter: rateLimiter,
		backupMgr:   backupMgr,
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// BackupManager returns the backup manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupMgr
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("POST /api/auth/verify", s.attempts.Throttle(http.HandlerFunc(s.authH.Verify)))

	// Children
	mux.HandleFunc("GET /api/children", s.childH.List)
	mux.HandleFunc("POST /api/children", s.pin(s.childH.Create))
	mux.HandleFunc("PUT /api/children/{id}", s.pin(s.childH.Update))
	mux.HandleFunc("DELETE /api/children/{id}", s.pin(s.childH.Delete))

	// Tasks
	mux.HandleFunc("GET /api/tasks", s.taskH.List)
	mux.HandleFunc("POST /api/tasks", s.pin(s.taskH.Create))
	mux.HandleFunc("PUT /api/tasks/{id}", s.pin(s.taskH.Update))
	mux.HandleFunc("DELETE /api/tasks/{id}", s.pin(s.taskH.Delete))

	// Stars
	mux.HandleFunc("GET /api/children/{id}/stars", s.starH.History)
	mux.HandleFunc("POST /api/children/{id}/stars", s.starH.Award)
	mux.HandleFunc("POST /api/children/{id}/stars/remove", s.pin(s.starH.Remove))
	mux.HandleFunc("POST /api/children/{id}/stars/{logId}/undo", s.pin(s.starH.Undo))
	mux.HandleFunc("GET /api/children/{id}/stars/summary", s.starH.Summary)
	mux.HandleFunc("GET /api/children/{id}/stars/insights", s.starH.Insights)

	// Payouts
	mux.HandleFunc("GET /api/children/{id}/payouts", s.pin(s.payoutH.List))
	mux.HandleFunc("POST /api/children/{id}/payouts", s.pin(s.payoutH.Create))

	// Homework
	mux.HandleFunc("GET /api/children/{id}/homework", s.homeworkH.Week)
	mux.HandleFunc("POST /api/children/{id}/homework", s.homeworkH.SetStatus)
	mux.HandleFunc("GET /api/children/{id}/homework/history", s.homeworkH.History)

	// Settings
	mux.HandleFunc("GET /api/settings/reward-threshold", s.settingsH.GetThreshold)
	mux.HandleFunc("PUT /api/settings/reward-threshold", s.pin(s.settingsH.UpdateThreshold))
	mux.HandleFunc("PUT /api/settings/pin", s.pin(s.settingsH.ChangePIN))

	// Backups
	mux.HandleFunc("GET /api/backups", s.pin(s.backupH.List))
	mux.HandleFunc("POST /api/backups", s.pin(s.backupH.Create))
	mux.HandleFunc("GET /api/backups/{id}/download", s.pin(s.backupH.Download))

	return middleware.RequestLogger(s.logger.With("component", "http"), s.attempts.ClientIP)(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check", "error", err)
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func (s *Server) pin(h http.HandlerFunc) http.HandlerFunc {
	return s.requirePIN(h).ServeHTTP
}
