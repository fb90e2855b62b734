package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/application/usecase/expense"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/dto"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/middleware"
)

// ExpenseController handles expense endpoints.
type ExpenseController struct {
	listUseCase   *expense.ListExpensesUseCase
	createUseCase *expense.CreateExpenseUseCase
	getUseCase    *expense.GetExpenseUseCase
	updateUseCase *expense.UpdateExpenseUseCase
	deleteUseCase *expense.DeleteExpenseUseCase
}

// NewExpenseController creates a new expense controller instance.
func NewExpenseController(
	listUseCase *expense.ListExpensesUseCase,
	createUseCase *expense.CreateExpenseUseCase,
	getUseCase *expense.GetExpenseUseCase,
	updateUseCase *expense.UpdateExpenseUseCase,
	deleteUseCase *expense.DeleteExpenseUseCase,
) *ExpenseController {
	return &ExpenseController{
		listUseCase:   listUseCase,
		createUseCase: createUseCase,
		getUseCase:    getUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// List handles GET /api/v1/expenses requests.
func (c *ExpenseController) List(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var query dto.ListExpensesQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid query parameters",
		})
		return
	}

	input := expense.ListExpensesInput{
		UserID:   userID,
		Category: query.Category,
	}

	var err error
	if input.StartDate, err = optionalDate(domainerror.FieldStartDate, query.StartDate); err != nil {
		c.handleExpenseError(ctx, err)
		return
	}
	if input.EndDate, err = optionalDate(domainerror.FieldEndDate, query.EndDate); err != nil {
		c.handleExpenseError(ctx, err)
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleExpenseError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExpenseListResponse(output.Expenses, output.Total))
}

// Create handles POST /api/v1/expenses requests.
func (c *ExpenseController) Create(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.handleBindError(ctx, err)
		return
	}

	date, err := dto.ParseDate(domainerror.FieldTransactionDate, *req.TransactionDate)
	if err != nil {
		c.handleExpenseError(ctx, err)
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), expense.CreateExpenseInput{
		UserID:          userID,
		Amount:          req.Amount.Decimal,
		Category:        *req.Category,
		TransactionDate: date,
	})
	if err != nil {
		c.handleExpenseError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToExpenseResponse(output.Expense))
}

// Get handles GET /api/v1/expenses/:id requests.
func (c *ExpenseController) Get(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := c.expenseID(ctx)
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), expense.GetExpenseInput{
		ID:     id,
		UserID: userID,
	})
	if err != nil {
		c.handleExpenseError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExpenseResponse(output.Expense))
}

// Update handles PUT /api/v1/expenses/:id requests.
func (c *ExpenseController) Update(ctx *gin.Context) {
	c.update(ctx, false)
}

// Patch handles PATCH /api/v1/expenses/:id requests.
func (c *ExpenseController) Patch(ctx *gin.Context) {
	c.update(ctx, true)
}

func (c *ExpenseController) update(ctx *gin.Context, partial bool) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := c.expenseID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.handleBindError(ctx, err)
		return
	}

	input := expense.UpdateExpenseInput{
		ID:       id,
		UserID:   userID,
		Category: req.Category,
		Partial:  partial,
	}
	if req.Amount != nil {
		amount := req.Amount.Decimal
		input.Amount = &amount
	}
	if req.TransactionDate != nil {
		date, err := dto.ParseDate(domainerror.FieldTransactionDate, *req.TransactionDate)
		if err != nil {
			c.handleExpenseError(ctx, err)
			return
		}
		input.TransactionDate = &date
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleExpenseError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExpenseResponse(output.Expense))
}

// Delete handles DELETE /api/v1/expenses/:id requests.
func (c *ExpenseController) Delete(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := c.expenseID(ctx)
	if !ok {
		return
	}

	if _, err := c.deleteUseCase.Execute(ctx.Request.Context(), expense.DeleteExpenseInput{
		ID:     id,
		UserID: userID,
	}); err != nil {
		c.handleExpenseError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// expenseID parses the path ID. A malformed ID cannot name an expense, so it is a 404.
func (c *ExpenseController) expenseID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "Expense not found",
			Code:  string(domainerror.ErrCodeExpenseNotFound),
		})
		return uuid.Nil, false
	}
	return id, true
}

func (c *ExpenseController) handleBindError(ctx *gin.Context, err error) {
	field := dto.BindingErrorField(err)

	var fieldErr *dto.FieldError
	if errors.As(err, &fieldErr) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: fieldErr.Message,
			Code:  string(codeForField(fieldErr.Field)),
			Field: fieldErr.Field,
		})
		return
	}

	message := "Invalid request body"
	if field != "" {
		message = "This field is required."
	}
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: message,
		Code:  string(domainerror.ErrCodeMissingExpenseFields),
		Field: field,
	})
}

// handleExpenseError handles expense errors and returns appropriate HTTP responses.
func (c *ExpenseController) handleExpenseError(ctx *gin.Context, err error) {
	var fieldErr *dto.FieldError
	if errors.As(err, &fieldErr) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: fieldErr.Message,
			Code:  string(codeForField(fieldErr.Field)),
			Field: fieldErr.Field,
		})
		return
	}

	var expErr *domainerror.ExpenseError
	if errors.As(err, &expErr) {
		ctx.JSON(statusForExpenseError(expErr), dto.ErrorResponse{
			Error: expErr.Message,
			Code:  string(expErr.Code),
			Field: expErr.Field,
		})
		return
	}

	respondInternalError(ctx, err)
}

func statusForExpenseError(err *domainerror.ExpenseError) int {
	switch {
	case err.Code == domainerror.ErrCodeExpenseNotFound:
		return http.StatusNotFound
	case err.IsValidation(), err.Code == domainerror.ErrCodeInvalidDateRange:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func codeForField(field string) domainerror.ExpenseErrorCode {
	switch field {
	case domainerror.FieldAmount:
		return domainerror.ErrCodeInvalidAmount
	case domainerror.FieldCategory:
		return domainerror.ErrCodeEmptyCategory
	default:
		return domainerror.ErrCodeInvalidTransactionDate
	}
}

func optionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	date, err := dto.ParseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

// requireUserID reads the authenticated owner set by the auth middleware.
func requireUserID(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "Authentication credentials were not provided",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, false
	}
	return userID, true
}
