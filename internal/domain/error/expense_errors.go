// Package error defines domain-specific errors for the Expense Tracker application.
package error

import "errors"

// Expense domain errors.
var (
	// ErrExpenseNotFound is returned when an expense does not exist for the requesting owner.
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrInvalidExpenseAmount is returned when the amount is zero or negative.
	ErrInvalidExpenseAmount = errors.New("amount must be greater than zero")

	// ErrExpenseAmountPrecision is returned when the amount does not fit decimal(10,2).
	ErrExpenseAmountPrecision = errors.New("amount exceeds allowed precision")

	// ErrFutureTransactionDate is returned when the transaction date is after today.
	ErrFutureTransactionDate = errors.New("transaction date cannot be in the future")

	// ErrInvalidTransactionDate is returned when the transaction date cannot be parsed.
	ErrInvalidTransactionDate = errors.New("invalid transaction date")

	// ErrEmptyCategory is returned when the category is blank.
	ErrEmptyCategory = errors.New("category is required")

	// ErrCategoryTooLong is returned when the category exceeds the maximum length.
	ErrCategoryTooLong = errors.New("category too long")

	// ErrMissingExpenseField is returned when a full update omits a field.
	ErrMissingExpenseField = errors.New("field is required")

	// ErrInvalidDateRange is returned when a list filter starts after it ends.
	ErrInvalidDateRange = errors.New("start date is after end date")
)

// ExpenseErrorCode defines error codes for expense errors.
// Format: EXP-XXYYYY where XX is category and YYYY is specific error.
type ExpenseErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidAmount          ExpenseErrorCode = "EXP-010001"
	ErrCodeAmountPrecision        ExpenseErrorCode = "EXP-010002"
	ErrCodeFutureTransactionDate  ExpenseErrorCode = "EXP-010003"
	ErrCodeExpenseNotFound        ExpenseErrorCode = "EXP-010004"
	ErrCodeInvalidTransactionDate ExpenseErrorCode = "EXP-010005"
	ErrCodeEmptyCategory          ExpenseErrorCode = "EXP-010006"
	ErrCodeCategoryTooLong        ExpenseErrorCode = "EXP-010007"
	ErrCodeMissingExpenseFields   ExpenseErrorCode = "EXP-010008"
	ErrCodeInvalidDateRange       ExpenseErrorCode = "EXP-010009"
)

// Field names reported with validation errors.
const (
	FieldAmount          = "amount"
	FieldCategory        = "category"
	FieldTransactionDate = "transaction_date"
	FieldStartDate       = "start_date"
	FieldEndDate         = "end_date"
)

// ExpenseError represents an expense error with code, message and offending field.
type ExpenseError struct {
	Code    ExpenseErrorCode
	Message string
	Field   string
	Err     error
}

// Error implements the error interface.
func (e *ExpenseError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ExpenseError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether the error is a field validation failure.
func (e *ExpenseError) IsValidation() bool {
	return e.Field != ""
}

// NewExpenseError creates a new ExpenseError with the given code and message.
func NewExpenseError(code ExpenseErrorCode, message string, err error) *ExpenseError {
	return &ExpenseError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewValidationError creates an ExpenseError bound to a request field.
func NewValidationError(code ExpenseErrorCode, field, message string, err error) *ExpenseError {
	return &ExpenseError{
		Code:    code,
		Message: message,
		Field:   field,
		Err:     err,
	}
}
