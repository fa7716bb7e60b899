package calculator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name         string
		bills        []BillForSummary
		wantCount    int
		wantTotal    string
		wantAverage  string
		validateFunc func(t *testing.T, s Summary)
	}{
		{
			name:        "no bills",
			bills:       nil,
			wantCount:   0,
			wantTotal:   "0",
			wantAverage: "0",
			validateFunc: func(t *testing.T, s Summary) {
				if len(s.Months) != 0 {
					t.Errorf("Months = %v, want none", s.Months)
				}
			},
		},
		{
			name: "single bill keeps exact amount",
			bills: []BillForSummary{
				{Date: day("2024-01-01"), Amount: decimal.RequireFromString("42.50")},
			},
			wantCount:   1,
			wantTotal:   "42.5",
			wantAverage: "42.5",
		},
		{
			name: "cents do not drift",
			bills: []BillForSummary{
				{Date: day("2024-03-01"), Amount: decimal.RequireFromString("0.10")},
				{Date: day("2024-03-02"), Amount: decimal.RequireFromString("0.20")},
			},
			wantCount:   2,
			wantTotal:   "0.3",
			wantAverage: "0.15",
		},
		{
			name: "grouped by month in order",
			bills: []BillForSummary{
				{Date: day("2024-02-10"), Amount: decimal.RequireFromString("10")},
				{Date: day("2023-12-31"), Amount: decimal.RequireFromString("5.25")},
				{Date: day("2024-02-01"), Amount: decimal.RequireFromString("20")},
			},
			wantCount:   3,
			wantTotal:   "35.25",
			wantAverage: "11.75",
			validateFunc: func(t *testing.T, s Summary) {
				if len(s.Months) != 2 {
					t.Fatalf("Got %d months, want 2", len(s.Months))
				}
				dec, feb := s.Months[0], s.Months[1]
				if dec.Month != "2023-12" || dec.Count != 1 || !dec.Total.Equal(decimal.RequireFromString("5.25")) {
					t.Errorf("December = %+v", dec)
				}
				if feb.Month != "2024-02" || feb.Count != 2 || !feb.Total.Equal(decimal.NewFromInt(30)) {
					t.Errorf("February = %+v", feb)
				}
			},
		},
		{
			name: "average rounds to cents",
			bills: []BillForSummary{
				{Date: day("2024-01-01"), Amount: decimal.NewFromInt(10)},
				{Date: day("2024-01-02"), Amount: decimal.NewFromInt(10)},
				{Date: day("2024-01-03"), Amount: decimal.NewFromInt(0)},
			},
			wantCount:   3,
			wantTotal:   "20",
			wantAverage: "6.67",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(tt.bills)

			if s.Count != tt.wantCount {
				t.Errorf("Count = %d, want %d", s.Count, tt.wantCount)
			}
			if !s.Total.Equal(decimal.RequireFromString(tt.wantTotal)) {
				t.Errorf("Total = %s, want %s", s.Total, tt.wantTotal)
			}
			if !s.Average.Equal(decimal.RequireFromString(tt.wantAverage)) {
				t.Errorf("Average = %s, want %s", s.Average, tt.wantAverage)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, s)
			}
		})
	}
}
