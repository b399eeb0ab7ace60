package dto

import (
	"time"

	"github.com/evan2110/web-application/internal/auth/domain"
)

type UserOutput struct {
	ID          int        `json:"id"`
	Email       string     `json:"email"`
	UserType    string     `json:"user_type"`
	CreatedAt   time.Time  `json:"created_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
}

func NewUserOutput(u *domain.User) *UserOutput {
	return &UserOutput{
		ID:          u.ID,
		Email:       u.Email,
		UserType:    u.Role.String(),
		CreatedAt:   u.CreatedAt,
		ConfirmedAt: u.ConfirmedAt,
	}
}

// TokenResponse is returned by login, step-up verification and refresh.
// User is omitted on refresh.
type TokenResponse struct {
	User         *UserOutput `json:"user,omitempty"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}
