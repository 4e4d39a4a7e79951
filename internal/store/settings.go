package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/dukerupert/starchart/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const (
	keyPINHash         = "pin_hash"
	keyThresholdStars  = "reward_threshold_stars"
	keyThresholdAmount = "reward_threshold_amount"
)

type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) Get(key string) (string, error) {
	return getSetting(s.db, key)
}

func getSetting(q querier, key string) (string, error) {
	var value string
	err := q.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("setting %q not found", key)
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *SettingsStore) Set(key, value string) error {
	return setSetting(s.db, key, value)
}

func setSetting(q querier, key, value string) error {
	_, err := q.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// GetThreshold returns the global reward threshold.
func (s *SettingsStore) GetThreshold() (model.RewardThreshold, error) {
	return readThreshold(s.db)
}

func readThreshold(q querier) (model.RewardThreshold, error) {
	starsStr, err := getSetting(q, keyThresholdStars)
	if err != nil {
		return model.RewardThreshold{}, err
	}
	amountStr, err := getSetting(q, keyThresholdAmount)
	if err != nil {
		return model.RewardThreshold{}, err
	}

	stars, err := strconv.Atoi(starsStr)
	if err != nil {
		return model.RewardThreshold{}, fmt.Errorf("parse threshold stars %q: %w", starsStr, err)
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return model.RewardThreshold{}, fmt.Errorf("parse threshold amount %q: %w", amountStr, err)
	}
	return model.RewardThreshold{Stars: stars, Amount: amount}, nil
}

// SetThreshold replaces the reward threshold. Both keys change together.
func (s *SettingsStore) SetThreshold(t model.RewardThreshold) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := setSetting(tx, keyThresholdStars, strconv.Itoa(t.Stars)); err != nil {
		return err
	}
	if err := setSetting(tx, keyThresholdAmount, t.Amount.StringFixed(2)); err != nil {
		return err
	}
	return tx.Commit()
}

// PINHash returns the bcrypt hash of the shared parent PIN, or "" if none
// has been stored yet.
func (s *SettingsStore) PINHash() (string, error) {
	var hash string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, keyPINHash).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query pin hash: %w", err)
	}
	return hash, nil
}

// SetPIN hashes pin with bcrypt and stores it as the shared parent PIN.
func (s *SettingsStore) SetPIN(pin string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	return s.Set(keyPINHash, string(hash))
}

// EnsurePIN stores defaultPIN as the shared PIN unless one already exists.
func (s *SettingsStore) EnsurePIN(defaultPIN string) error {
	hash, err := s.PINHash()
	if err != nil {
		return err
	}
	if hash != "" {
		return nil
	}
	return s.SetPIN(defaultPIN)
}

// VerifyPIN reports whether pin matches the stored shared PIN.
func (s *SettingsStore) VerifyPIN(pin string) (bool, error) {
	hash, err := s.PINHash()
	if err != nil {
		return false, err
	}
	if hash == "" {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil, nil
}
