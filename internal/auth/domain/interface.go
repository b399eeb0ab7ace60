package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../../mocks/mock_repository.go -package=mocks github.com/evan2110/web-application/internal/auth/domain UserRepository,RefreshTokenRepository,BlacklistRepository,VerificationCodeRepository,Mailer

// Lookup methods return (nil, nil) when no row matches.

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	List(ctx context.Context) ([]User, error)
}

type RefreshTokenRepository interface {
	GetByValue(ctx context.Context, token string) (*RefreshToken, error)
	StoreRefreshToken(ctx context.Context, rt *RefreshToken) error
	Revoke(ctx context.Context, id int, at time.Time) error
}

type BlacklistRepository interface {
	GetByToken(ctx context.Context, token string) (*BlacklistedToken, error)
	StoreBlacklistedToken(ctx context.Context, bt *BlacklistedToken) error
	Delete(ctx context.Context, id int) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type VerificationCodeRepository interface {
	GetByUserID(ctx context.Context, userID int) (*VerificationCode, error)
	StoreVerificationCode(ctx context.Context, vc *VerificationCode) error
	UpdateCode(ctx context.Context, id int, code string) error
}

// Mailer delivers notification emails. Transport details live behind it.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
