// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// ExpenseModel represents the expenses table in the database.
type ExpenseModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_expenses_user_date"`
	Amount          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Category        string          `gorm:"type:varchar(100);not null;index"`
	TransactionDate time.Time       `gorm:"type:date;not null;index:idx_expenses_user_date"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`

	User *UserModel `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for the ExpenseModel.
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToEntity converts an ExpenseModel to a domain Expense entity.
func (m *ExpenseModel) ToEntity() *entity.Expense {
	return &entity.Expense{
		ID:              m.ID,
		UserID:          m.UserID,
		Amount:          m.Amount,
		Category:        m.Category,
		TransactionDate: entity.DateOnly(m.TransactionDate),
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

// ExpenseFromEntity creates an ExpenseModel from a domain Expense entity.
func ExpenseFromEntity(e *entity.Expense) *ExpenseModel {
	return &ExpenseModel{
		ID:              e.ID,
		UserID:          e.UserID,
		Amount:          e.Amount,
		Category:        e.Category,
		TransactionDate: entity.DateOnly(e.TransactionDate),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}
