package dto

import "encoding/json"

// UserQuery carries the user_id query parameter of GET /balance and GET /transactions
type UserQuery struct {
	UserID uint64 `form:"user_id" binding:"required,gt=0"`
}

// BalanceResponse represents the API response for a user's balance
type BalanceResponse struct {
	Balance json.Number `json:"balance"`
}
