package statistics

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

// GetStatisticsInput represents the input for the statistics request.
type GetStatisticsInput struct {
	UserID uuid.UUID
}

// GetStatisticsOutput represents the output of the statistics request.
type GetStatisticsOutput struct {
	Summary      valueobject.StatisticsSummary
	ExpenseCount int
}

// GetStatisticsUseCase aggregates every expense of the requesting user.
type GetStatisticsUseCase struct {
	expenseRepo adapter.ExpenseRepository
}

// NewGetStatisticsUseCase creates a new GetStatisticsUseCase instance.
func NewGetStatisticsUseCase(expenseRepo adapter.ExpenseRepository) *GetStatisticsUseCase {
	return &GetStatisticsUseCase{
		expenseRepo: expenseRepo,
	}
}

// Execute loads the owner's expenses and aggregates them.
func (uc *GetStatisticsUseCase) Execute(ctx context.Context, input GetStatisticsInput) (*GetStatisticsOutput, error) {
	expenses, err := uc.expenseRepo.FindByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	return &GetStatisticsOutput{
		Summary:      Aggregate(expenses),
		ExpenseCount: len(expenses),
	}, nil
}
