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
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// UpdateExpenseInput represents the input for expense updates.
// With Partial unset every field is required (full replacement).
type UpdateExpenseInput struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Amount          *decimal.Decimal
	Category        *string
	TransactionDate *time.Time
	Partial         bool
}

// UpdateExpenseOutput represents the output of an expense update.
type UpdateExpenseOutput struct {
	Expense *entity.Expense
}

// UpdateExpenseUseCase handles full and partial expense updates.
type UpdateExpenseUseCase struct {
	expenseRepo adapter.ExpenseRepository
	now         Clock
}

// NewUpdateExpenseUseCase creates a new UpdateExpenseUseCase instance.
func NewUpdateExpenseUseCase(expenseRepo adapter.ExpenseRepository, now Clock) *UpdateExpenseUseCase {
	return &UpdateExpenseUseCase{
		expenseRepo: expenseRepo,
		now:         clockOrDefault(now),
	}
}

// Execute applies the changes. Owner and creation time are never modified.
func (uc *UpdateExpenseUseCase) Execute(ctx context.Context, input UpdateExpenseInput) (*UpdateExpenseOutput, error) {
	if !input.Partial {
		switch {
		case input.Amount == nil:
			return nil, missingField(domainerror.FieldAmount)
		case input.Category == nil:
			return nil, missingField(domainerror.FieldCategory)
		case input.TransactionDate == nil:
			return nil, missingField(domainerror.FieldTransactionDate)
		}
	}

	expense, err := findOwned(ctx, uc.expenseRepo, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	now := uc.now()

	if input.Amount != nil {
		if err := validateAmount(*input.Amount); err != nil {
			return nil, err
		}
		expense.Amount = *input.Amount
	}

	if input.Category != nil {
		category, err := normalizeCategory(*input.Category)
		if err != nil {
			return nil, err
		}
		expense.Category = category
	}

	if input.TransactionDate != nil {
		if err := validateTransactionDate(*input.TransactionDate, now); err != nil {
			return nil, err
		}
		expense.TransactionDate = entity.DateOnly(*input.TransactionDate)
	}

	expense.UpdatedAt = now.UTC()

	if err := uc.expenseRepo.Update(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	slog.Info("Expense updated",
		"expense_id", expense.ID,
		"user_id", input.UserID,
		"partial", input.Partial,
	)

	return &UpdateExpenseOutput{Expense: expense}, nil
}
