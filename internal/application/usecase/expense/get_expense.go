package expense

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// GetExpenseInput represents the input for retrieving one expense.
type GetExpenseInput struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

// GetExpenseOutput represents the output of expense retrieval.
type GetExpenseOutput struct {
	Expense *entity.Expense
}

// GetExpenseUseCase retrieves an expense of the requesting owner.
type GetExpenseUseCase struct {
	expenseRepo adapter.ExpenseRepository
}

// NewGetExpenseUseCase creates a new GetExpenseUseCase instance.
func NewGetExpenseUseCase(expenseRepo adapter.ExpenseRepository) *GetExpenseUseCase {
	return &GetExpenseUseCase{
		expenseRepo: expenseRepo,
	}
}

// Execute returns the expense or a not found error when it belongs to someone else.
func (uc *GetExpenseUseCase) Execute(ctx context.Context, input GetExpenseInput) (*GetExpenseOutput, error) {
	expense, err := findOwned(ctx, uc.expenseRepo, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}
	return &GetExpenseOutput{Expense: expense}, nil
}

func findOwned(ctx context.Context, repo adapter.ExpenseRepository, id, userID uuid.UUID) (*entity.Expense, error) {
	expense, err := repo.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, domainerror.ErrExpenseNotFound) {
			return nil, notFound()
		}
		return nil, fmt.Errorf("failed to find expense: %w", err)
	}
	// Repositories scope by owner already; this guards custom implementations.
	if expense.UserID != userID {
		return nil, notFound()
	}
	return expense, nil
}
