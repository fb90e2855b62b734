// Package valueobject contains immutable, derived value types of the domain.
package valueobject

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// StatisticsSummary maps a year ("2024") to the spend totals of that year.
type StatisticsSummary map[string]YearStatistics

// YearStatistics holds the totals of a single calendar year.
type YearStatistics struct {
	Yearly  decimal.Decimal
	Monthly map[string]decimal.Decimal // "January" -> total
	Weekly  map[string]decimal.Decimal // "Week 3 of January" -> total
}

// Years returns the summary's year keys in ascending order.
func (s StatisticsSummary) Years() []string {
	years := make([]string, 0, len(s))
	for year := range s {
		years = append(years, year)
	}
	sort.Strings(years)
	return years
}

// WeekOfMonth returns the 7-day bucket of the month a day falls in.
// Days 1-7 are week 1, 8-14 week 2 and so on; days 29-31 form week 5.
func WeekOfMonth(date time.Time) int {
	return (date.Day()-1)/7 + 1
}

// WeekLabel builds the weekly bucket key for a date, e.g. "Week 3 of January".
func WeekLabel(date time.Time) string {
	return fmt.Sprintf("Week %d of %s", WeekOfMonth(date), date.Month().String())
}
