// Package statistics contains the spend aggregation use cases.
package statistics

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/domain/entity"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

type monthKey struct {
	year  int
	month string
}

type weekKey struct {
	year  int
	label string
}

// Aggregate groups one owner's expenses by calendar year, month and week of
// month and sums the amounts of each bucket. The caller is responsible for
// passing only the records of a single owner. The input slice is not modified.
func Aggregate(expenses []*entity.Expense) valueobject.StatisticsSummary {
	summary := valueobject.StatisticsSummary{}
	if len(expenses) == 0 {
		return summary
	}

	sorted := make([]*entity.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e != nil {
			sorted = append(sorted, e)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TransactionDate.Before(sorted[j].TransactionDate)
	})

	yearly := make(map[int]decimal.Decimal)
	monthly := make(map[monthKey]decimal.Decimal)
	weekly := make(map[weekKey]decimal.Decimal)

	for _, e := range sorted {
		date := e.TransactionDate
		year := date.Year()

		yearly[year] = yearly[year].Add(e.Amount)

		mk := monthKey{year: year, month: date.Month().String()}
		monthly[mk] = monthly[mk].Add(e.Amount)

		wk := weekKey{year: year, label: valueobject.WeekLabel(date)}
		weekly[wk] = weekly[wk].Add(e.Amount)
	}

	// Merge the three groupings by year
	for year, total := range yearly {
		entry := yearEntry(summary, year)
		entry.Yearly = total
		summary[strconv.Itoa(year)] = entry
	}
	for key, total := range monthly {
		entry := yearEntry(summary, key.year)
		entry.Monthly[key.month] = total
		summary[strconv.Itoa(key.year)] = entry
	}
	for key, total := range weekly {
		entry := yearEntry(summary, key.year)
		entry.Weekly[key.label] = total
		summary[strconv.Itoa(key.year)] = entry
	}

	return summary
}

func yearEntry(summary valueobject.StatisticsSummary, year int) valueobject.YearStatistics {
	entry, ok := summary[strconv.Itoa(year)]
	if !ok {
		entry = valueobject.YearStatistics{
			Yearly:  decimal.Zero,
			Monthly: make(map[string]decimal.Decimal),
			Weekly:  make(map[string]decimal.Decimal),
		}
	}
	return entry
}
