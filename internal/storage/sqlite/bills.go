package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billbook/internal/models"
	"github.com/mmynk/billbook/internal/storage"
)

// CreateBill persists a new bill to the database.
// Dates are stored as YYYY-MM-DD text and amounts as exact decimal text.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = models.NewID()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", bill.GroupID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO bills (id, group_id, description, date, amount, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		bill.ID, bill.GroupID, bill.Description, bill.DateString(), bill.Amount.String(), bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListBillsByGroup retrieves all bills for a group, ordered by date then creation.
func (s *SQLiteStore) ListBillsByGroup(ctx context.Context, groupID string) ([]*models.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, description, date, amount, created_at
		 FROM bills WHERE group_id = ? ORDER BY date, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills by group: %w", err)
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		bill := &models.Bill{}
		var date, amount string

		if err := rows.Scan(&bill.ID, &bill.GroupID, &bill.Description, &date, &amount, &bill.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}

		bill.Date, err = time.Parse(models.DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("bill %s has invalid date %q: %w", bill.ID, date, err)
		}
		bill.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("bill %s has invalid amount %q: %w", bill.ID, amount, err)
		}

		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	return bills, nil
}
