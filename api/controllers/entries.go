package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"
)

// entrySummary totals a filtered entry listing so clients do not have to
// re-sum amounts themselves.
type entrySummary struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type entryListResponse[T any] struct {
	Entries []T          `json:"entries"`
	Summary entrySummary `json:"summary"`
}

func wantSummary(r *http.Request) bool {
	return r.URL.Query().Get("summary") == "true"
}

func summarize[T any](rows []T, amount func(T) decimal.Decimal) entryListResponse[T] {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(amount(row))
	}
	return entryListResponse[T]{Entries: rows, Summary: entrySummary{Count: len(rows), Total: total}}
}
