package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mmynk/billbook/internal/models"
	"github.com/mmynk/billbook/internal/storage"
)

// CreateBill persists a new bill to the database.
func (s *PostgresStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = models.NewID()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists int
	err = tx.QueryRow(ctx, "SELECT 1 FROM groups WHERE id = $1", bill.GroupID).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO bills (id, group_id, description, date, amount, created_at)
		 VALUES ($1, $2, $3, $4::date, $5::numeric, $6)`,
		bill.ID, bill.GroupID, bill.Description, bill.DateString(), bill.Amount.String(), bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListBillsByGroup retrieves all bills for a group, ordered by date then creation.
func (s *PostgresStore) ListBillsByGroup(ctx context.Context, groupID string) ([]*models.Bill, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, group_id, description, to_char(date, 'YYYY-MM-DD'), amount::text, created_at
		 FROM bills WHERE group_id = $1 ORDER BY date, id`,
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
