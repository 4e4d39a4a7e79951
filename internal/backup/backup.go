// Package backup takes encrypted snapshots of the star chart database and
// stores them in S3-compatible object storage.
package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dukerupert/starchart/internal/model"
	"github.com/dukerupert/starchart/internal/store"
)

var (
	ErrNotConfigured = errors.New("backups are not configured")
	ErrInProgress    = errors.New("a backup is already running")
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Prefix    string
}

func (c S3Config) complete() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Config holds backup manager configuration. Scheduled backups run only when
// Interval and Passphrase are both set.
type Config struct {
	S3            S3Config
	Interval      time.Duration
	Passphrase    string
	RetentionDays int
}

type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateDisabled State = "disabled"
	StateError    State = "error"
)

type Status struct {
	State      State      `json:"state"`
	LastBackup *time.Time `json:"last_backup,omitempty"`
	Error      string     `json:"error,omitempty"`
	InProgress bool       `json:"in_progress"`
}

// Manager manages encrypted backups to S3-compatible storage.
type Manager struct {
	mu     sync.RWMutex
	cfg    Config
	status Status

	db          *sql.DB
	backupStore *store.BackupStore
	client      s3Client
	logger      *slog.Logger
	now         func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

func NewManager(cfg Config, db *sql.DB, bs *store.BackupStore, logger *slog.Logger) *Manager {
	m := &Manager{
		cfg:         cfg,
		db:          db,
		backupStore: bs,
		logger:      logger,
		now:         time.Now,
		status:      Status{State: StateDisabled},
	}
	if cfg.S3.complete() {
		m.client = newS3Client(cfg.S3)
		m.status.State = StateIdle
	}
	return m
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Start begins the scheduled backup loop. It is a no-op when storage or the
// schedule is not configured.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.client == nil || m.cfg.Interval <= 0 || m.cfg.Passphrase == "" {
		m.mu.Unlock()
		m.logger.Info("scheduled backups disabled")
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	interval := m.cfg.Interval
	m.mu.Unlock()

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.scheduled(ctx)
			}
		}
	}()
}

// Stop stops the scheduled loop and waits for a running backup to finish.
func (m *Manager) Stop() {
	m.mu.RLock()
	cancel := m.cancel
	done := m.done
	m.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Manager) setStatus(s Status) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
}

func (m *Manager) scheduled(ctx context.Context) {
	b, err := m.RunNow(ctx, m.cfg.Passphrase)
	if err != nil {
		m.logger.Error("scheduled backup failed", "error", err)
		return
	}
	m.logger.Info("scheduled backup completed", "id", b.ID, "size_bytes", b.SizeBytes)

	if m.cfg.RetentionDays > 0 {
		if err := m.Cleanup(ctx, m.cfg.RetentionDays); err != nil {
			m.logger.Error("backup cleanup failed", "error", err)
		}
	}
}

// RunNow snapshots the database, encrypts it with passphrase under a fresh
// salt, and uploads it. Only one backup runs at a time.
func (m *Manager) RunNow(ctx context.Context, passphrase string) (*model.Backup, error) {
	m.mu.Lock()
	client := m.client
	bucket := m.cfg.S3.Bucket
	prefix := m.cfg.S3.Prefix
	if client == nil {
		m.mu.Unlock()
		return nil, ErrNotConfigured
	}
	if m.status.InProgress {
		m.mu.Unlock()
		return nil, ErrInProgress
	}
	last := m.status.LastBackup
	m.status = Status{State: StateRunning, InProgress: true, LastBackup: last}
	m.mu.Unlock()

	filename := fmt.Sprintf("starchart-%s.db.enc", m.now().UTC().Format("2006-01-02T150405Z"))
	s3Key := prefix + filename

	record, err := m.backupStore.Create(filename, s3Key)
	if err != nil {
		m.setStatus(Status{State: StateError, Error: err.Error(), LastBackup: last})
		return nil, fmt.Errorf("create backup record: %w", err)
	}

	size, err := m.upload(ctx, client, bucket, s3Key, record.ID, passphrase)
	if err != nil {
		if uerr := m.backupStore.UpdateStatus(record.ID, model.BackupStatusFailed, err.Error()); uerr != nil {
			m.logger.Error("record backup failure", "id", record.ID, "error", uerr)
		}
		m.setStatus(Status{State: StateError, Error: err.Error(), LastBackup: last})
		return nil, err
	}

	if err := m.backupStore.UpdateCompleted(record.ID, size); err != nil {
		m.setStatus(Status{State: StateError, Error: err.Error(), LastBackup: last})
		return nil, err
	}

	finished := m.now().UTC()
	m.setStatus(Status{State: StateIdle, LastBackup: &finished})
	return m.backupStore.GetByID(record.ID)
}

func (m *Manager) upload(ctx context.Context, client s3Client, bucket, key string, id int64, passphrase string) (int64, error) {
	if err := m.backupStore.UpdateStatus(id, model.BackupStatusUploading, ""); err != nil {
		return 0, err
	}

	dir, err := os.MkdirTemp("", "starchart-backup-*")
	if err != nil {
		return 0, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	snapshot := filepath.Join(dir, "snapshot.db")
	encFile := filepath.Join(dir, "snapshot.db.enc")

	// VACUUM INTO writes a consistent copy without blocking readers.
	if _, err := m.db.ExecContext(ctx, "VACUUM INTO ?", snapshot); err != nil {
		return 0, fmt.Errorf("snapshot database: %w", err)
	}

	salt, err := GenerateSalt()
	if err != nil {
		return 0, err
	}
	if err := EncryptFile(snapshot, encFile, passphrase, salt); err != nil {
		return 0, fmt.Errorf("encrypt: %w", err)
	}

	f, err := os.Open(encFile)
	if err != nil {
		return 0, fmt.Errorf("open encrypted file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat encrypted file: %w", err)
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(stat.Size()),
	})
	if err != nil {
		return 0, fmt.Errorf("upload to s3: %w", err)
	}
	return stat.Size(), nil
}

// List returns the most recent backup records, newest first.
func (m *Manager) List(limit int) ([]model.Backup, error) {
	return m.backupStore.List(limit)
}

// Download streams a completed encrypted backup from storage.
func (m *Manager) Download(ctx context.Context, id int64) (io.ReadCloser, *model.Backup, error) {
	m.mu.RLock()
	client := m.client
	bucket := m.cfg.S3.Bucket
	m.mu.RUnlock()

	if client == nil {
		return nil, nil, ErrNotConfigured
	}

	record, err := m.backupStore.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if record == nil || record.Status != model.BackupStatusCompleted {
		return nil, nil, fmt.Errorf("backup %w", store.ErrNotFound)
	}

	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(record.S3Key),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("download from s3: %w", err)
	}
	return result.Body, record, nil
}

// Cleanup deletes backups older than the retention period from storage and
// from the backup table.
func (m *Manager) Cleanup(ctx context.Context, retentionDays int) error {
	m.mu.RLock()
	client := m.client
	bucket := m.cfg.S3.Bucket
	m.mu.RUnlock()

	if client == nil {
		return nil
	}

	before := m.now().UTC().AddDate(0, 0, -retentionDays)
	keys, err := m.backupStore.DeleteOlderThan(before)
	if err != nil {
		return fmt.Errorf("delete old backups: %w", err)
	}

	for _, key := range keys {
		if _, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		}); err != nil {
			m.logger.Warn("delete backup object", "key", key, "error", err)
		}
	}
	return nil
}
