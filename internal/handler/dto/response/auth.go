package response

import (
	"time"

	"conftix/internal/usecase/queries"

	"github.com/google/uuid"
)

type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UserID       uuid.UUID `json:"user_id"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func FromUserView(view *queries.UserView) *UserResponse {
	return &UserResponse{
		ID:        view.ID,
		Email:     view.Email,
		Role:      view.Role,
		IsActive:  view.IsActive,
		LastLogin: view.LastLogin,
		CreatedAt: view.CreatedAt,
	}
}
