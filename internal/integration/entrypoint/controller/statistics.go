package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/expense-tracker/backend/internal/application/usecase/statistics"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/dto"
)

// StatisticsController serves the spend summary of the authenticated user.
type StatisticsController struct {
	getStatisticsUseCase *statistics.GetStatisticsUseCase
}

// NewStatisticsController creates a new statistics controller instance.
func NewStatisticsController(getStatisticsUseCase *statistics.GetStatisticsUseCase) *StatisticsController {
	return &StatisticsController{
		getStatisticsUseCase: getStatisticsUseCase,
	}
}

// Get handles GET /api/v1/expenses/statistics requests.
func (c *StatisticsController) Get(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.getStatisticsUseCase.Execute(ctx.Request.Context(), statistics.GetStatisticsInput{
		UserID: userID,
	})
	if err != nil {
		respondInternalError(ctx, err)
		return
	}

	slog.Debug("Statistics computed",
		"user_id", userID,
		"expense_count", output.ExpenseCount,
		"years", len(output.Summary),
	)

	ctx.Header(dto.StatisticsSchemaHeader, dto.StatisticsSchemaVersion)
	ctx.JSON(http.StatusOK, dto.ToStatisticsResponse(output.Summary))
}
