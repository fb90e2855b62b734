package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

// StatisticsSchemaVersion is sent in the StatisticsSchemaHeader of every statistics response.
const (
	StatisticsSchemaHeader  = "X-Statistics-Schema"
	StatisticsSchemaVersion = "1"
)

// StatisticsResponse maps a year ("2024") to its totals.
type StatisticsResponse map[string]YearStatisticsResponse

// YearStatisticsResponse holds one year's totals. Amounts are JSON numbers with two fraction digits.
type YearStatisticsResponse struct {
	Yearly  json.Number            `json:"yearly"`
	Monthly map[string]json.Number `json:"monthly"`
	Weekly  map[string]json.Number `json:"weekly"`
}

// ToStatisticsResponse converts a summary to its wire form.
func ToStatisticsResponse(summary valueobject.StatisticsSummary) StatisticsResponse {
	resp := make(StatisticsResponse, len(summary))
	for year, stats := range summary {
		resp[year] = YearStatisticsResponse{
			Yearly:  amountNumber(stats.Yearly),
			Monthly: amountNumbers(stats.Monthly),
			Weekly:  amountNumbers(stats.Weekly),
		}
	}
	return resp
}

func amountNumber(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func amountNumbers(buckets map[string]decimal.Decimal) map[string]json.Number {
	out := make(map[string]json.Number, len(buckets))
	for k, v := range buckets {
		out[k] = amountNumber(v)
	}
	return out
}
