package calculator

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MonthLayout formats the month key of a MonthTotal.
const MonthLayout = "2006-01"

// BillForSummary represents a bill with the minimal information needed for spending summaries.
type BillForSummary struct {
	Date   time.Time
	Amount decimal.Decimal
}

// MonthTotal is the spending for one calendar month.
type MonthTotal struct {
	Month string // YYYY-MM
	Count int
	Total decimal.Decimal
}

// Summary aggregates the spending of a group.
type Summary struct {
	Count   int
	Total   decimal.Decimal
	Average decimal.Decimal // Rounded to cents; zero when there are no bills
	Months  []MonthTotal    // Ascending by month
}

// Summarize computes the count, total, average and per-month totals of bills.
// Sums are exact; only the average is rounded.
func Summarize(bills []BillForSummary) Summary {
	summary := Summary{
		Total:   decimal.Zero,
		Average: decimal.Zero,
	}

	months := make(map[string]*MonthTotal)
	for _, bill := range bills {
		summary.Count++
		summary.Total = summary.Total.Add(bill.Amount)

		key := bill.Date.Format(MonthLayout)
		month, ok := months[key]
		if !ok {
			month = &MonthTotal{Month: key, Total: decimal.Zero}
			months[key] = month
		}
		month.Count++
		month.Total = month.Total.Add(bill.Amount)
	}

	if summary.Count > 0 {
		summary.Average = summary.Total.Div(decimal.NewFromInt(int64(summary.Count))).Round(2)
	}

	for _, month := range months {
		summary.Months = append(summary.Months, *month)
	}
	sort.Slice(summary.Months, func(i, j int) bool {
		return summary.Months[i].Month < summary.Months[j].Month
	})

	return summary
}
