package dto

import (
	"encoding/json"

	"github.com/amirhossein-jamali/wallet-service/internal/domain/entity"
)

// Auth actions
const (
	ActionLogin    = "login"
	ActionRegister = "register"
)

// AuthRequest is the body of POST /auth. An empty action means login.
type AuthRequest struct {
	Action   string `json:"action" binding:"omitempty,oneof=register login"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required_if=Action register"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID       uint64      `json:"id"`
	Username string      `json:"username"`
	FullName string      `json:"full_name"`
	Balance  json.Number `json:"balance"`
}

// AuthResponse is returned by a successful register or login
type AuthResponse struct {
	Success bool         `json:"success"`
	User    UserResponse `json:"user"`
}

// NewAuthResponse builds the response from a user profile
func NewAuthResponse(p *entity.UserProfile) AuthResponse {
	return AuthResponse{
		Success: true,
		User: UserResponse{
			ID:       p.ID,
			Username: p.Username,
			FullName: p.FullName,
			Balance:  Money(p.Balance),
		},
	}
}
