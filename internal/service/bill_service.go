package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billbook/internal/calculator"
	"github.com/mmynk/billbook/internal/metrics"
	"github.com/mmynk/billbook/internal/models"
	"github.com/mmynk/billbook/internal/storage"
)

// BillService records bills against groups and summarizes them.
type BillService struct {
	store   storage.Store
	metrics metrics.Recorder
}

// NewBillService creates a new BillService with the given storage backend.
func NewBillService(store storage.Store, recorder metrics.Recorder) *BillService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &BillService{store: store, metrics: recorder}
}

// AddBillRequest is the submitted bill form; Date and Amount are raw form text.
type AddBillRequest struct {
	GroupID     string
	Description string
	Date        string
	Amount      string
}

// AddBill validates the form and stores a new bill under its group.
// Returns ErrGroupNotFound, without writing anything, when the group does not exist.
func (s *BillService) AddBill(ctx context.Context, req AddBillRequest) (*models.Bill, error) {
	slog.Info("AddBill request received", "group_id", req.GroupID)

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}

	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	amount, err := ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	bill := &models.Bill{
		GroupID:     req.GroupID,
		Description: description,
		Date:        date,
		Amount:      amount,
	}

	if err := s.store.CreateBill(ctx, bill); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			slog.Warn("AddBill for unknown group", "group_id", req.GroupID)
			return nil, ErrGroupNotFound
		}
		slog.Error("AddBill failed", "group_id", req.GroupID, "error", err)
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}

	s.metrics.IncBillCreated()
	slog.Info("Bill created", "bill_id", bill.ID, "group_id", bill.GroupID, "amount", bill.AmountString())
	return bill, nil
}

// GroupLedger is a group with its bills and their summary.
type GroupLedger struct {
	Group   *models.Group
	Bills   []*models.Bill
	Summary calculator.Summary
}

// ListBills returns the group's bills ordered by date, then creation.
// Returns ErrGroupNotFound for unknown groups.
func (s *BillService) ListBills(ctx context.Context, groupID string) (*GroupLedger, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		slog.Error("ListBills group lookup failed", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	bills, err := s.store.ListBillsByGroup(ctx, groupID)
	if err != nil {
		slog.Error("ListBills failed", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	forSummary := make([]calculator.BillForSummary, len(bills))
	for i, bill := range bills {
		forSummary[i] = calculator.BillForSummary{Date: bill.Date, Amount: bill.Amount}
	}

	return &GroupLedger{
		Group:   group,
		Bills:   bills,
		Summary: calculator.Summarize(forSummary),
	}, nil
}

// ParseDate parses a YYYY-MM-DD form value.
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(models.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

// maxAmount is the exclusive upper bound on a single bill.
var maxAmount = decimal.New(1, 13)

// ParseAmount parses a positive decimal form value with at most two
// fractional digits. Exponent notation is rejected: "1e100000000" is a short
// string for a number too large to print.
func ParseAmount(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if strings.ContainsAny(value, "eE") {
		return decimal.Decimal{}, ErrInvalidAmount
	}

	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	if !amount.IsPositive() || amount.GreaterThanOrEqual(maxAmount) {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	if !amount.Equal(amount.Truncate(2)) {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return amount, nil
}
