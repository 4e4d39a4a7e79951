package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/starchart/internal/model"
	"github.com/shopspring/decimal"
)

type PayoutStore struct {
	db *sql.DB
}

func NewPayoutStore(db *sql.DB) *PayoutStore {
	return &PayoutStore{db: db}
}

func scanPayout(scanner interface{ Scan(...any) error }) (*model.Payout, error) {
	var p model.Payout
	err := scanner.Scan(&p.ID, &p.ChildID, &p.StarsSpent, &p.Amount, &p.Note, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

const payoutCols = `id, child_id, stars_spent, amount, note, created_at`

// Create records a payout against an active child's outstanding balance.
func (s *PayoutStore) Create(childID int64, starsSpent int, amount decimal.Decimal, note *string) (*model.Payout, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ok, err := isActiveChild(tx, childID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("child")
	}

	result, err := tx.Exec(
		`INSERT INTO payouts (child_id, stars_spent, amount, note, created_at) VALUES (?, ?, ?, ?, ?)`,
		childID, starsSpent, amount.StringFixed(2), note, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert payout: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	p, err := scanPayout(tx.QueryRow(`SELECT `+payoutCols+` FROM payouts WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get payout: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit payout: %w", err)
	}
	return p, nil
}

// ListByChild returns payouts newest first.
func (s *PayoutStore) ListByChild(childID int64) ([]model.Payout, error) {
	rows, err := s.db.Query(
		`SELECT `+payoutCols+` FROM payouts WHERE child_id = ? ORDER BY created_at DESC, id DESC`,
		childID,
	)
	if err != nil {
		return nil, fmt.Errorf("list payouts: %w", err)
	}
	defer rows.Close()

	var payouts []model.Payout
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payout: %w", err)
		}
		payouts = append(payouts, *p)
	}
	return payouts, rows.Err()
}

// TotalAmount sums the dollar amounts actually paid to a child.
func (s *PayoutStore) TotalAmount(childID int64) (decimal.Decimal, error) {
	rows, err := s.db.Query(`SELECT amount FROM payouts WHERE child_id = ?`, childID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum payout amounts: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var amount decimal.Decimal
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, fmt.Errorf("scan amount: %w", err)
		}
		total = total.Add(amount)
	}
	return total, rows.Err()
}
