package http

import (
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func toTransactionResponse(t *entity.TransactionRecord) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:                t.ID,
		Type:              string(t.Type),
		ProductID:         t.ProductID,
		SourceWarehouseID: t.SourceWarehouseID,
		TargetWarehouseID: t.TargetWarehouseID,
		Quantity:          t.Quantity,
		Note:              t.Note,
		Timestamp:         t.Timestamp,
	}
}

func toTransactionList(list []*entity.TransactionRecord) []dto.TransactionResponse {
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTransactionResponse(t))
	}
	return out
}
