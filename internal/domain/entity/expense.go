// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense represents a single spending record owned by one user.
type Expense struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Amount          decimal.Decimal // Always positive, two decimal places
	Category        string
	TransactionDate time.Time // Calendar date, UTC midnight
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewExpense creates a new Expense entity.
func NewExpense(
	userID uuid.UUID,
	amount decimal.Decimal,
	category string,
	transactionDate time.Time,
	now time.Time,
) *Expense {
	now = now.UTC()

	return &Expense{
		ID:              uuid.New(),
		UserID:          userID,
		Amount:          amount,
		Category:        category,
		TransactionDate: DateOnly(transactionDate),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
