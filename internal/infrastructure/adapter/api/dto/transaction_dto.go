package dto

import (
	"encoding/json"
	"time"

	"github.com/amirhossein-jamali/wallet-service/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// TransferRequest is the body of POST /transactions. Amount accepts a JSON
// number or a numeric string.
type TransferRequest struct {
	FromUserID  uint64          `json:"from_user_id" binding:"required,gt=0"`
	ToUsername  string          `json:"to_username" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// TransferResponse is returned by a successful transfer
type TransferResponse struct {
	Success       bool        `json:"success"`
	TransactionID uint64      `json:"transaction_id"`
	NewBalance    json.Number `json:"new_balance"`
}

// PartyResponse identifies one side of a history entry
type PartyResponse struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// TransactionItem is one history entry
type TransactionItem struct {
	ID          uint64         `json:"id"`
	Amount      json.Number    `json:"amount"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Date        string         `json:"date"`
	FromUser    *PartyResponse `json:"from_user"`
	ToUser      *PartyResponse `json:"to_user"`
}

// HistoryResponse is returned by GET /transactions
type HistoryResponse struct {
	Transactions []TransactionItem `json:"transactions"`
}

// NewHistoryResponse converts history entries; an empty history renders as []
func NewHistoryResponse(entries []entity.HistoryEntry) HistoryResponse {
	items := make([]TransactionItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, TransactionItem{
			ID:          e.ID,
			Amount:      Money(e.Amount),
			Type:        string(e.Type),
			Description: e.Description,
			Date:        e.CreatedAt.UTC().Format(time.RFC3339Nano),
			FromUser:    newParty(e.From),
			ToUser:      newParty(e.To),
		})
	}
	return HistoryResponse{Transactions: items}
}

func newParty(p *entity.Party) *PartyResponse {
	if p == nil {
		return nil
	}
	return &PartyResponse{ID: p.ID, Username: p.Username, FullName: p.FullName}
}
