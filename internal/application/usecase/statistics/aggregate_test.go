package statistics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/domain/entity"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

var testOwner = uuid.MustParse("6f1c1a8e-6d25-4c1b-9a53-2f4f0c2b7d11")

func expense(t *testing.T, date, amount string) *entity.Expense {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatalf("bad date %q: %v", date, err)
	}
	return &entity.Expense{
		ID:              uuid.New(),
		UserID:          testOwner,
		Amount:          decimal.RequireFromString(amount),
		Category:        "Food",
		TransactionDate: d,
	}
}

func assertAmount(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s = %s, want %s", label, got.StringFixed(2), want)
	}
}

func TestAggregate_Empty(t *testing.T) {
	for _, input := range [][]*entity.Expense{nil, {}} {
		summary := Aggregate(input)
		if summary == nil {
			t.Fatal("expected non-nil summary")
		}
		if len(summary) != 0 {
			t.Errorf("expected empty summary, got %d years", len(summary))
		}
	}
}

func TestAggregate_SingleRecord(t *testing.T) {
	summary := Aggregate([]*entity.Expense{expense(t, "2024-01-15", "100.00")})

	if len(summary) != 1 {
		t.Fatalf("expected 1 year, got %d", len(summary))
	}
	year, ok := summary["2024"]
	if !ok {
		t.Fatal("expected key 2024")
	}
	assertAmount(t, "yearly", year.Yearly, "100.00")

	if len(year.Monthly) != 1 {
		t.Errorf("expected 1 month, got %v", year.Monthly)
	}
	assertAmount(t, "monthly January", year.Monthly["January"], "100.00")

	if len(year.Weekly) != 1 {
		t.Errorf("expected 1 week, got %v", year.Weekly)
	}
	assertAmount(t, "Week 3 of January", year.Weekly["Week 3 of January"], "100.00")
}

func TestAggregate_WeekBuckets(t *testing.T) {
	tests := []struct {
		name      string
		dates     []string
		amounts   []string
		wantLabel string
		wantTotal string
	}{
		{
			name:      "first and seventh share week 1",
			dates:     []string{"2024-01-01", "2024-01-07"},
			amounts:   []string{"50.00", "25.00"},
			wantLabel: "Week 1 of January",
			wantTotal: "75.00",
		},
		{
			name:      "eighth starts week 2",
			dates:     []string{"2024-03-08"},
			amounts:   []string{"10.00"},
			wantLabel: "Week 2 of March",
			wantTotal: "10.00",
		},
		{
			name:      "days 29 to 31 form week 5",
			dates:     []string{"2024-01-29", "2024-01-31"},
			amounts:   []string{"1.10", "2.20"},
			wantLabel: "Week 5 of January",
			wantTotal: "3.30",
		},
		{
			name:      "leap day",
			dates:     []string{"2024-02-29"},
			amounts:   []string{"9.99"},
			wantLabel: "Week 5 of February",
			wantTotal: "9.99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []*entity.Expense
			for i, d := range tt.dates {
				records = append(records, expense(t, d, tt.amounts[i]))
			}
			summary := Aggregate(records)
			year := summary[tt.dates[0][:4]]
			got, ok := year.Weekly[tt.wantLabel]
			if !ok {
				t.Fatalf("missing bucket %q in %v", tt.wantLabel, year.Weekly)
			}
			assertAmount(t, tt.wantLabel, got, tt.wantTotal)
		})
	}
}

func TestAggregate_IndependentYears(t *testing.T) {
	summary := Aggregate([]*entity.Expense{
		expense(t, "2024-06-10", "40.00"),
		expense(t, "2023-12-31", "60.00"),
	})

	if got := summary.Years(); len(got) != 2 || got[0] != "2023" || got[1] != "2024" {
		t.Fatalf("Years() = %v, want [2023 2024]", got)
	}
	assertAmount(t, "2023 yearly", summary["2023"].Yearly, "60.00")
	assertAmount(t, "2024 yearly", summary["2024"].Yearly, "40.00")

	if _, ok := summary["2023"].Monthly["June"]; ok {
		t.Error("June leaked into 2023")
	}
	assertAmount(t, "2023 Week 5 of December", summary["2023"].Weekly["Week 5 of December"], "60.00")
}

func TestAggregate_TotalsAgree(t *testing.T) {
	records := []*entity.Expense{
		expense(t, "2024-01-03", "0.10"),
		expense(t, "2024-01-03", "0.20"),
		expense(t, "2024-02-14", "19.99"),
		expense(t, "2024-02-28", "5.01"),
		expense(t, "2024-11-30", "1234.56"),
		expense(t, "2025-01-01", "0.01"),
	}
	summary := Aggregate(records)

	for _, key := range summary.Years() {
		year := summary[key]
		monthSum := decimal.Zero
		for _, v := range year.Monthly {
			monthSum = monthSum.Add(v)
		}
		weekSum := decimal.Zero
		for _, v := range year.Weekly {
			weekSum = weekSum.Add(v)
		}
		if !monthSum.Equal(year.Yearly) {
			t.Errorf("%s: monthly sum %s != yearly %s", key, monthSum, year.Yearly)
		}
		if !weekSum.Equal(year.Yearly) {
			t.Errorf("%s: weekly sum %s != yearly %s", key, weekSum, year.Yearly)
		}
	}
	// 0.10 + 0.20 must be exact
	assertAmount(t, "Week 1 of January", summary["2024"].Weekly["Week 1 of January"], "0.30")
	assertAmount(t, "2024 yearly", summary["2024"].Yearly, "1259.86")
}

func TestAggregate_Idempotent(t *testing.T) {
	records := []*entity.Expense{
		expense(t, "2024-05-20", "12.34"),
		expense(t, "2024-05-01", "7.66"),
		expense(t, "2023-05-20", "3.00"),
	}
	first := Aggregate(records)
	second := Aggregate(records)

	if !summariesEqual(first, second) {
		t.Errorf("aggregate is not idempotent: %v vs %v", first, second)
	}
	if records[0].TransactionDate.Day() != 20 || records[1].TransactionDate.Day() != 1 {
		t.Error("input slice was reordered")
	}
}

func summariesEqual(a, b valueobject.StatisticsSummary) bool {
	if len(a) != len(b) {
		return false
	}
	for key, ya := range a {
		yb, ok := b[key]
		if !ok || !ya.Yearly.Equal(yb.Yearly) {
			return false
		}
		if !bucketsEqual(ya.Monthly, yb.Monthly) || !bucketsEqual(ya.Weekly, yb.Weekly) {
			return false
		}
	}
	return true
}

func bucketsEqual(a, b map[string]decimal.Decimal) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || !v.Equal(w) {
			return false
		}
	}
	return true
}
