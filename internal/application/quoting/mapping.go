package quoting

import (
	"github.com/jhoicas/Tapiceria-api/internal/application/dto"
	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
)

// ToQuoteResponse convierte la cotización a DTO.
func ToQuoteResponse(q *entity.Quote) *dto.QuoteResponse {
	if q == nil {
		return nil
	}
	items := make([]dto.QuoteLineItemResponse, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, dto.QuoteLineItemResponse{
			MaterialID:   it.MaterialID,
			MaterialName: it.MaterialName,
			UnitCost:     it.UnitCost,
			Quantity:     it.Quantity,
			Unit:         it.Unit.String(),
			TotalCost:    it.TotalCost,
		})
	}
	return &dto.QuoteResponse{
		ID:                 q.ID,
		Number:             q.Number(),
		ClientName:         q.ClientName,
		ProjectDescription: q.ProjectDescription,
		CreatedAt:          q.CreatedAt,
		LaborCost:          q.LaborCost,
		MaterialsCost:      q.MaterialsCost,
		TotalCost:          q.TotalCost,
		Items:              items,
	}
}

// ToQuoteSummary resumen sin líneas para listados y dashboard.
func ToQuoteSummary(q *entity.Quote) dto.QuoteSummaryResponse {
	return dto.QuoteSummaryResponse{
		ID:         q.ID,
		Number:     q.Number(),
		ClientName: q.ClientName,
		CreatedAt:  q.CreatedAt,
		ItemCount:  len(q.Items),
		TotalCost:  q.TotalCost,
	}
}
