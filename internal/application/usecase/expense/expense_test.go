package expense

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

var (
	owner    = uuid.MustParse("0b7c3a1e-1f44-4b8e-8a6d-2d0f8d1c9e01")
	stranger = uuid.MustParse("a4d6f2c8-93b1-4f7e-b0c5-6e2a1d8f3b77")
	fixedNow = time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)
)

func pinnedClock() time.Time { return fixedNow }

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func seedExpense(userID uuid.UUID, date, amount, category string) *entity.Expense {
	return entity.NewExpense(userID, decimal.RequireFromString(amount), category, day(date), fixedNow)
}

func expectExpenseError(t *testing.T, err error, code domainerror.ExpenseErrorCode, field string) {
	t.Helper()
	var expErr *domainerror.ExpenseError
	if !errors.As(err, &expErr) {
		t.Fatalf("expected ExpenseError, got %v", err)
	}
	if expErr.Code != code {
		t.Errorf("code = %s, want %s", expErr.Code, code)
	}
	if expErr.Field != field {
		t.Errorf("field = %q, want %q", expErr.Field, field)
	}
}

func TestCreateExpenseUseCase_Execute(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		category  string
		date      time.Time
		wantCode  domainerror.ExpenseErrorCode
		wantField string
	}{
		{name: "valid", amount: "100.00", category: "Food", date: day("2024-01-15")},
		{name: "today is allowed", amount: "1", category: "Food", date: fixedNow},
		{name: "largest amount", amount: "99999999.99", category: "Rent", date: day("2024-03-01")},
		{name: "zero amount", amount: "0", category: "Food", date: day("2024-01-15"),
			wantCode: domainerror.ErrCodeInvalidAmount, wantField: domainerror.FieldAmount},
		{name: "negative amount", amount: "-5.00", category: "Food", date: day("2024-01-15"),
			wantCode: domainerror.ErrCodeInvalidAmount, wantField: domainerror.FieldAmount},
		{name: "three decimals", amount: "10.005", category: "Food", date: day("2024-01-15"),
			wantCode: domainerror.ErrCodeAmountPrecision, wantField: domainerror.FieldAmount},
		{name: "nine integer digits", amount: "100000000", category: "Food", date: day("2024-01-15"),
			wantCode: domainerror.ErrCodeAmountPrecision, wantField: domainerror.FieldAmount},
		{name: "trailing zero fraction", amount: "12.500", category: "Food", date: day("2024-01-15")},
		{name: "positive exponent within range", amount: "4e7", category: "Rent", date: day("2024-01-15")},
		{name: "huge positive exponent", amount: "1e40000000", category: "Food", date: day("2024-01-15"),
			wantCode: domainerror.ErrCodeAmountPrecision, wantField: domainerror.FieldAmount},
		{name: "huge negative exponent", amount: "1e-40000000", category: "Food", date: day("2024-01-15"),
			wantCode: domainerror.ErrCodeAmountPrecision, wantField: domainerror.FieldAmount},
		{name: "many trailing zeros past the scale", amount: "1.5000000000000000000000000", category: "Food", date: day("2024-01-15")},
		{name: "blank category", amount: "10", category: "   ", date: day("2024-01-15"),
			wantCode: domainerror.ErrCodeEmptyCategory, wantField: domainerror.FieldCategory},
		{name: "category too long", amount: "10", category: strings.Repeat("x", 101), date: day("2024-01-15"),
			wantCode: domainerror.ErrCodeCategoryTooLong, wantField: domainerror.FieldCategory},
		{name: "tomorrow", amount: "10", category: "Food", date: day("2024-03-11"),
			wantCode: domainerror.ErrCodeFutureTransactionDate, wantField: domainerror.FieldTransactionDate},
		{name: "missing date", amount: "10", category: "Food",
			wantCode: domainerror.ErrCodeInvalidTransactionDate, wantField: domainerror.FieldTransactionDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeExpenseRepository()
			uc := NewCreateExpenseUseCase(repo, pinnedClock)

			out, err := uc.Execute(context.Background(), CreateExpenseInput{
				UserID:          owner,
				Amount:          decimal.RequireFromString(tt.amount),
				Category:        tt.category,
				TransactionDate: tt.date,
			})

			if tt.wantCode != "" {
				expectExpenseError(t, err, tt.wantCode, tt.wantField)
				if len(repo.expenses) != 0 {
					t.Error("invalid expense was persisted")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Expense.UserID != owner {
				t.Errorf("owner = %s, want %s", out.Expense.UserID, owner)
			}
			if !out.Expense.CreatedAt.Equal(fixedNow) {
				t.Errorf("created_at = %v, want %v", out.Expense.CreatedAt, fixedNow)
			}
			if _, ok := repo.stored(out.Expense.ID); !ok {
				t.Error("expense not persisted")
			}
		})
	}
}

func TestCreateExpenseUseCase_TrimsCategory(t *testing.T) {
	uc := NewCreateExpenseUseCase(newFakeExpenseRepository(), pinnedClock)
	out, err := uc.Execute(context.Background(), CreateExpenseInput{
		UserID:          owner,
		Amount:          decimal.RequireFromString("3.50"),
		Category:        "  Coffee ",
		TransactionDate: day("2024-03-09"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Expense.Category != "Coffee" {
		t.Errorf("category = %q, want %q", out.Expense.Category, "Coffee")
	}
}

func TestCreateExpenseUseCase_RepositoryError(t *testing.T) {
	repo := newFakeExpenseRepository()
	repo.err = errors.New("disk full")
	uc := NewCreateExpenseUseCase(repo, pinnedClock)

	_, err := uc.Execute(context.Background(), CreateExpenseInput{
		UserID:          owner,
		Amount:          decimal.RequireFromString("1.00"),
		Category:        "Food",
		TransactionDate: day("2024-03-01"),
	})
	if !errors.Is(err, repo.err) {
		t.Errorf("expected wrapped repository error, got %v", err)
	}
	var expErr *domainerror.ExpenseError
	if errors.As(err, &expErr) {
		t.Error("infrastructure failure must not be reported as ExpenseError")
	}
}

func TestListExpensesUseCase_Execute(t *testing.T) {
	food := seedExpense(owner, "2024-01-15", "10.00", "Food")
	rent := seedExpense(owner, "2024-02-01", "500.00", "Rent")
	lateFood := seedExpense(owner, "2024-03-05", "2.50", "food")
	foreign := seedExpense(stranger, "2024-02-01", "77.00", "Food")
	repo := newFakeExpenseRepository(food, rent, lateFood, foreign)
	uc := NewListExpensesUseCase(repo)

	start := day("2024-01-20")
	end := day("2024-03-01")

	tests := []struct {
		name      string
		input     ListExpensesInput
		wantIDs   []uuid.UUID
		wantTotal string
	}{
		{
			name:      "all owned, newest first",
			input:     ListExpensesInput{UserID: owner},
			wantIDs:   []uuid.UUID{lateFood.ID, rent.ID, food.ID},
			wantTotal: "512.50",
		},
		{
			name:      "category is case-insensitive",
			input:     ListExpensesInput{UserID: owner, Category: "FOOD"},
			wantIDs:   []uuid.UUID{lateFood.ID, food.ID},
			wantTotal: "12.50",
		},
		{
			name:      "date range",
			input:     ListExpensesInput{UserID: owner, StartDate: &start, EndDate: &end},
			wantIDs:   []uuid.UUID{rent.ID},
			wantTotal: "500.00",
		},
		{
			name:      "other owner sees only their own",
			input:     ListExpensesInput{UserID: stranger},
			wantIDs:   []uuid.UUID{foreign.ID},
			wantTotal: "77.00",
		},
		{
			name:      "unknown owner gets nothing",
			input:     ListExpensesInput{UserID: uuid.New()},
			wantTotal: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := uc.Execute(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(out.Expenses) != len(tt.wantIDs) {
				t.Fatalf("got %d expenses, want %d", len(out.Expenses), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if out.Expenses[i].ID != id {
					t.Errorf("expenses[%d] = %s, want %s", i, out.Expenses[i].ID, id)
				}
			}
			if !out.Total.Equal(decimal.RequireFromString(tt.wantTotal)) {
				t.Errorf("total = %s, want %s", out.Total, tt.wantTotal)
			}
		})
	}
}

func TestListExpensesUseCase_InvalidRange(t *testing.T) {
	uc := NewListExpensesUseCase(newFakeExpenseRepository())
	start := day("2024-02-01")
	end := day("2024-01-01")

	_, err := uc.Execute(context.Background(), ListExpensesInput{UserID: owner, StartDate: &start, EndDate: &end})
	expectExpenseError(t, err, domainerror.ErrCodeInvalidDateRange, domainerror.FieldStartDate)
}

func TestGetExpenseUseCase_Execute(t *testing.T) {
	mine := seedExpense(owner, "2024-01-15", "10.00", "Food")
	uc := NewGetExpenseUseCase(newFakeExpenseRepository(mine))

	out, err := uc.Execute(context.Background(), GetExpenseInput{ID: mine.ID, UserID: owner})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Expense.ID != mine.ID {
		t.Errorf("got %s, want %s", out.Expense.ID, mine.ID)
	}

	t.Run("cross owner is not found", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), GetExpenseInput{ID: mine.ID, UserID: stranger})
		expectExpenseError(t, err, domainerror.ErrCodeExpenseNotFound, "")
		if !errors.Is(err, domainerror.ErrExpenseNotFound) {
			t.Error("expected ErrExpenseNotFound in chain")
		}
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), GetExpenseInput{ID: uuid.New(), UserID: owner})
		expectExpenseError(t, err, domainerror.ErrCodeExpenseNotFound, "")
	})
}

func TestUpdateExpenseUseCase_Execute(t *testing.T) {
	later := fixedNow.Add(2 * time.Hour)
	amount := decimal.RequireFromString("42.00")
	category := "Travel"
	date := day("2024-02-20")
	future := day("2024-04-01")
	badAmount := decimal.RequireFromString("0.001")
	hugeAmount := decimal.RequireFromString("1e40000000")

	tests := []struct {
		name      string
		input     func(id uuid.UUID) UpdateExpenseInput
		wantCode  domainerror.ExpenseErrorCode
		wantField string
		check     func(t *testing.T, got entity.Expense)
	}{
		{
			name: "full replacement",
			input: func(id uuid.UUID) UpdateExpenseInput {
				return UpdateExpenseInput{ID: id, UserID: owner, Amount: &amount, Category: &category, TransactionDate: &date}
			},
			check: func(t *testing.T, got entity.Expense) {
				if !got.Amount.Equal(amount) || got.Category != category || !got.TransactionDate.Equal(date) {
					t.Errorf("fields not replaced: %+v", got)
				}
			},
		},
		{
			name: "full replacement missing category",
			input: func(id uuid.UUID) UpdateExpenseInput {
				return UpdateExpenseInput{ID: id, UserID: owner, Amount: &amount, TransactionDate: &date}
			},
			wantCode:  domainerror.ErrCodeMissingExpenseFields,
			wantField: domainerror.FieldCategory,
		},
		{
			name: "partial amount only",
			input: func(id uuid.UUID) UpdateExpenseInput {
				return UpdateExpenseInput{ID: id, UserID: owner, Amount: &amount, Partial: true}
			},
			check: func(t *testing.T, got entity.Expense) {
				if !got.Amount.Equal(amount) {
					t.Errorf("amount = %s, want %s", got.Amount, amount)
				}
				if got.Category != "Food" {
					t.Errorf("category changed to %q", got.Category)
				}
			},
		},
		{
			name: "partial future date",
			input: func(id uuid.UUID) UpdateExpenseInput {
				return UpdateExpenseInput{ID: id, UserID: owner, TransactionDate: &future, Partial: true}
			},
			wantCode:  domainerror.ErrCodeFutureTransactionDate,
			wantField: domainerror.FieldTransactionDate,
		},
		{
			name: "partial bad precision",
			input: func(id uuid.UUID) UpdateExpenseInput {
				return UpdateExpenseInput{ID: id, UserID: owner, Amount: &badAmount, Partial: true}
			},
			wantCode:  domainerror.ErrCodeAmountPrecision,
			wantField: domainerror.FieldAmount,
		},
		{
			name: "partial huge exponent",
			input: func(id uuid.UUID) UpdateExpenseInput {
				return UpdateExpenseInput{ID: id, UserID: owner, Amount: &hugeAmount, Partial: true}
			},
			wantCode:  domainerror.ErrCodeAmountPrecision,
			wantField: domainerror.FieldAmount,
		},
		{
			name: "other owner",
			input: func(id uuid.UUID) UpdateExpenseInput {
				return UpdateExpenseInput{ID: id, UserID: stranger, Amount: &amount, Partial: true}
			},
			wantCode: domainerror.ErrCodeExpenseNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := seedExpense(owner, "2024-01-15", "10.00", "Food")
			repo := newFakeExpenseRepository(original)
			uc := NewUpdateExpenseUseCase(repo, func() time.Time { return later })

			_, err := uc.Execute(context.Background(), tt.input(original.ID))
			got, _ := repo.stored(original.ID)

			if tt.wantCode != "" {
				expectExpenseError(t, err, tt.wantCode, tt.wantField)
				if !got.Amount.Equal(original.Amount) || got.Category != original.Category {
					t.Error("rejected update modified the stored expense")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.UserID != owner {
				t.Error("owner changed")
			}
			if !got.CreatedAt.Equal(original.CreatedAt) {
				t.Error("created_at changed")
			}
			if !got.UpdatedAt.Equal(later) {
				t.Errorf("updated_at = %v, want %v", got.UpdatedAt, later)
			}
			tt.check(t, got)
		})
	}
}

func TestDeleteExpenseUseCase_Execute(t *testing.T) {
	mine := seedExpense(owner, "2024-01-15", "10.00", "Food")
	repo := newFakeExpenseRepository(mine)
	uc := NewDeleteExpenseUseCase(repo)

	_, err := uc.Execute(context.Background(), DeleteExpenseInput{ID: mine.ID, UserID: stranger})
	expectExpenseError(t, err, domainerror.ErrCodeExpenseNotFound, "")
	if _, ok := repo.stored(mine.ID); !ok {
		t.Fatal("other owner deleted the expense")
	}

	out, err := uc.Execute(context.Background(), DeleteExpenseInput{ID: mine.ID, UserID: owner})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Success {
		t.Error("expected success")
	}
	if _, ok := repo.stored(mine.ID); ok {
		t.Error("expense still stored after delete")
	}

	_, err = uc.Execute(context.Background(), DeleteExpenseInput{ID: mine.ID, UserID: owner})
	expectExpenseError(t, err, domainerror.ErrCodeExpenseNotFound, "")
}
