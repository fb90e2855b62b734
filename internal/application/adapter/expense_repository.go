// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// ExpenseFilter narrows an owner's expenses. Zero-valued fields are ignored.
type ExpenseFilter struct {
	UserID    uuid.UUID
	Category  string     // Case-insensitive exact match
	StartDate *time.Time // Inclusive
	EndDate   *time.Time // Inclusive
}

// ExpenseRepository defines the interface for expense persistence operations.
// Every read is scoped to an owner; a record of another user is never returned.
type ExpenseRepository interface {
	// Create persists a new expense.
	Create(ctx context.Context, expense *entity.Expense) error

	// FindByID retrieves an expense by ID for the given owner.
	FindByID(ctx context.Context, id, userID uuid.UUID) (*entity.Expense, error)

	// FindByUser retrieves every expense of a user, unordered.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Expense, error)

	// FindByFilter retrieves expenses matching the filter, newest transaction first.
	FindByFilter(ctx context.Context, filter ExpenseFilter) ([]*entity.Expense, error)

	// Update saves changes to an existing expense.
	Update(ctx context.Context, expense *entity.Expense) error

	// Delete permanently removes an expense of the given owner.
	Delete(ctx context.Context, id, userID uuid.UUID) error
}
