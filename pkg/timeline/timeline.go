package timeline

import (
	"sort"
	"time"

	"github.com/chris/expense-ledger/pkg/models"
	"github.com/shopspring/decimal"
)

// UncategorizedLabel buckets log entries that carry no category.
const UncategorizedLabel = "uncategorized"

// Day is every log entry sharing one calendar date, newest first.
type Day struct {
	Date    time.Time                    `json:"date"`
	Total   decimal.Decimal              `json:"total"`
	Entries []models.TransactionLogEntry `json:"entries"`
}

// CategoryShare is the spend in one category and its share of the overall total.
type CategoryShare struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Breakdown is the spend per category, largest first.
type Breakdown struct {
	Total      decimal.Decimal `json:"total"`
	Categories []CategoryShare `json:"categories"`
}

// Timeline is the display view of one group's or friend pair's transaction log.
type Timeline struct {
	Days      []Day     `json:"days"`
	Breakdown Breakdown `json:"breakdown"`
}

// Build computes both views. It is recomputed from the log on every read.
func Build(entries []models.TransactionLogEntry) Timeline {
	return Timeline{
		Days:      ByDate(entries),
		Breakdown: ByCategory(entries),
	}
}

func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ByDate groups entries by calendar date, most recent date first. Within a day, entries
// are ordered by creation time, newest first.
func ByDate(entries []models.TransactionLogEntry) []Day {
	byDay := make(map[time.Time]*Day)
	for _, e := range entries {
		date := calendarDate(e.Date)
		day, ok := byDay[date]
		if !ok {
			day = &Day{Date: date, Total: decimal.Zero}
			byDay[date] = day
		}
		day.Entries = append(day.Entries, e)
		day.Total = day.Total.Add(e.Amount)
	}

	days := make([]Day, 0, len(byDay))
	for _, day := range byDay {
		sort.SliceStable(day.Entries, func(i, j int) bool {
			if !day.Entries[i].CreatedAt.Equal(day.Entries[j].CreatedAt) {
				return day.Entries[i].CreatedAt.After(day.Entries[j].CreatedAt)
			}
			return day.Entries[i].ID > day.Entries[j].ID
		})
		days = append(days, *day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.After(days[j].Date) })
	return days
}

// ByCategory sums entries per category. Percentages are of the overall total, rounded to
// two places; ties in amount are ordered by category name.
func ByCategory(entries []models.TransactionLogEntry) Breakdown {
	totals := make(map[string]decimal.Decimal)
	overall := decimal.Zero
	for _, e := range entries {
		category := e.Category
		if category == "" {
			category = UncategorizedLabel
		}
		totals[category] = totals[category].Add(e.Amount)
		overall = overall.Add(e.Amount)
	}

	shares := make([]CategoryShare, 0, len(totals))
	for category, amount := range totals {
		pct := decimal.Zero
		if overall.IsPositive() {
			pct = amount.Mul(decimal.NewFromInt(100)).Div(overall).Round(2)
		}
		shares = append(shares, CategoryShare{Category: category, Amount: amount, Percentage: pct})
	}
	sort.Slice(shares, func(i, j int) bool {
		if !shares[i].Amount.Equal(shares[j].Amount) {
			return shares[i].Amount.GreaterThan(shares[j].Amount)
		}
		return shares[i].Category < shares[j].Category
	})

	return Breakdown{Total: overall, Categories: shares}
}
