package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Amount is a monetary value decoded exactly from a JSON number or string.
type Amount struct {
	decimal.Decimal
}

// UnmarshalJSON parses the amount without going through float64.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return &FieldError{Field: "amount", Message: "A valid number is required."}
	}
	a.Decimal = d
	return nil
}

// FieldError reports a request field that could not be decoded.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CreateExpenseRequest represents the request body for expense creation.
type CreateExpenseRequest struct {
	Amount          *Amount `json:"amount" binding:"required"`
	Category        *string `json:"category" binding:"required"`
	TransactionDate *string `json:"transaction_date" binding:"required"`
}

// UpdateExpenseRequest is used by PUT (all fields) and PATCH (any subset).
type UpdateExpenseRequest struct {
	Amount          *Amount `json:"amount"`
	Category        *string `json:"category"`
	TransactionDate *string `json:"transaction_date"`
}

// ListExpensesQuery holds the optional list filters.
type ListExpensesQuery struct {
	Category  string `form:"category"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// ExpenseResponse represents a single expense in API responses.
type ExpenseResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Amount          string    `json:"amount"`
	Category        string    `json:"category"`
	TransactionDate string    `json:"transaction_date"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ExpenseListResponse represents the response of the list endpoint.
type ExpenseListResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
	Count    int               `json:"count"`
	Total    string            `json:"total"`
}

// ParseDate parses a YYYY-MM-DD date for the given field.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, &FieldError{
			Field:   field,
			Message: "Date has wrong format. Use YYYY-MM-DD.",
		}
	}
	return t, nil
}

// ToExpenseResponse converts a domain Expense entity to an ExpenseResponse DTO.
func ToExpenseResponse(e *entity.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:              e.ID.String(),
		UserID:          e.UserID.String(),
		Amount:          e.Amount.StringFixed(2),
		Category:        e.Category,
		TransactionDate: e.TransactionDate.Format(DateLayout),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// ToExpenseListResponse converts listed expenses and their total.
func ToExpenseListResponse(expenses []*entity.Expense, total decimal.Decimal) ExpenseListResponse {
	items := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		items[i] = ToExpenseResponse(e)
	}
	return ExpenseListResponse{
		Expenses: items,
		Count:    len(items),
		Total:    total.StringFixed(2),
	}
}

var requestFieldNames = map[string]string{
	"Amount":          "amount",
	"Category":        "category",
	"TransactionDate": "transaction_date",
	"Username":        "username",
	"Email":           "email",
	"Password":        "password",
	"Password2":       "password2",
	"FirstName":       "first_name",
	"LastName":        "last_name",
	"RefreshToken":    "refresh_token",
}

// BindingErrorField returns the JSON name of the first field a bind error is about.
func BindingErrorField(err error) string {
	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		return fieldErr.Field
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		name := validationErrs[0].Field()
		if jsonName, ok := requestFieldNames[name]; ok {
			return jsonName
		}
		return name
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Field
	}
	return ""
}
