// Package expense contains expense-related use cases.
package expense

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

const (
	// MaxCategoryLength is the maximum allowed length for a category label.
	MaxCategoryLength = 100
	// AmountScale is the number of fraction digits an amount may carry.
	AmountScale = 2
)

// maxIntegerDigits is the integer part of a decimal(10,2) column.
const maxIntegerDigits = 8

// Clock returns the current time. Tests pin it to a fixed instant.
type Clock func() time.Time

func clockOrDefault(now Clock) Clock {
	if now == nil {
		return time.Now
	}
	return now
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domainerror.NewValidationError(
			domainerror.ErrCodeInvalidAmount,
			domainerror.FieldAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidExpenseAmount,
		)
	}
	if !fitsAmountColumn(amount) {
		return domainerror.NewValidationError(
			domainerror.ErrCodeAmountPrecision,
			domainerror.FieldAmount,
			fmt.Sprintf("amount must have at most %d integer digits and %d decimal places", maxIntegerDigits, AmountScale),
			domainerror.ErrExpenseAmountPrecision,
		)
	}
	return nil
}

// fitsAmountColumn reports whether a positive amount fits decimal(10,2).
// Bounds are checked on the coefficient digits and exponent first, so
// Round and Cmp never rescale by an exponent taken from the request.
func fitsAmountColumn(amount decimal.Decimal) bool {
	digits := amount.NumDigits()
	exp := int(amount.Exponent())

	// c * 10^exp with a c of n digits is below 10^(n+exp).
	if digits+exp > maxIntegerDigits {
		return false
	}
	if exp >= -AmountScale {
		return true
	}
	// Extra fraction digits are only allowed as trailing zeros of the coefficient.
	if digits <= -exp-AmountScale {
		return false
	}
	return amount.Equal(amount.Round(AmountScale))
}

// normalizeCategory trims the label and checks its length.
func normalizeCategory(category string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return "", domainerror.NewValidationError(
			domainerror.ErrCodeEmptyCategory,
			domainerror.FieldCategory,
			"category is required",
			domainerror.ErrEmptyCategory,
		)
	}
	if utf8.RuneCountInString(category) > MaxCategoryLength {
		return "", domainerror.NewValidationError(
			domainerror.ErrCodeCategoryTooLong,
			domainerror.FieldCategory,
			fmt.Sprintf("category must not exceed %d characters", MaxCategoryLength),
			domainerror.ErrCategoryTooLong,
		)
	}
	return category, nil
}

func validateTransactionDate(date, now time.Time) error {
	if date.IsZero() {
		return domainerror.NewValidationError(
			domainerror.ErrCodeInvalidTransactionDate,
			domainerror.FieldTransactionDate,
			"transaction date is required",
			domainerror.ErrInvalidTransactionDate,
		)
	}
	if entity.DateOnly(date).After(entity.DateOnly(now.UTC())) {
		return domainerror.NewValidationError(
			domainerror.ErrCodeFutureTransactionDate,
			domainerror.FieldTransactionDate,
			"transaction date cannot be in the future",
			domainerror.ErrFutureTransactionDate,
		)
	}
	return nil
}

func missingField(field string) error {
	return domainerror.NewValidationError(
		domainerror.ErrCodeMissingExpenseFields,
		field,
		field+" is required",
		domainerror.ErrMissingExpenseField,
	)
}

func notFound() error {
	return domainerror.NewExpenseError(
		domainerror.ErrCodeExpenseNotFound,
		"expense not found",
		domainerror.ErrExpenseNotFound,
	)
}
