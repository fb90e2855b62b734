package expense

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
)

// CreateExpenseInput represents the input for expense creation.
type CreateExpenseInput struct {
	UserID          uuid.UUID
	Amount          decimal.Decimal
	Category        string
	TransactionDate time.Time
}

// CreateExpenseOutput represents the output of expense creation.
type CreateExpenseOutput struct {
	Expense *entity.Expense
}

// CreateExpenseUseCase handles expense creation logic.
type CreateExpenseUseCase struct {
	expenseRepo adapter.ExpenseRepository
	now         Clock
}

// NewCreateExpenseUseCase creates a new CreateExpenseUseCase instance.
func NewCreateExpenseUseCase(expenseRepo adapter.ExpenseRepository, now Clock) *CreateExpenseUseCase {
	return &CreateExpenseUseCase{
		expenseRepo: expenseRepo,
		now:         clockOrDefault(now),
	}
}

// Execute validates and stores a new expense for the input owner.
func (uc *CreateExpenseUseCase) Execute(ctx context.Context, input CreateExpenseInput) (*CreateExpenseOutput, error) {
	now := uc.now()

	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}

	category, err := normalizeCategory(input.Category)
	if err != nil {
		return nil, err
	}

	if err := validateTransactionDate(input.TransactionDate, now); err != nil {
		return nil, err
	}

	expense := entity.NewExpense(input.UserID, input.Amount, category, input.TransactionDate, now)
	if err := uc.expenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"user_id", input.UserID,
	)

	return &CreateExpenseOutput{Expense: expense}, nil
}
