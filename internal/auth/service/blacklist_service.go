package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/evan2110/web-application/internal/auth/domain"
)

// BlacklistService is the revocation registry for access tokens invalidated
// before their natural expiry.
type BlacklistService struct {
	repo             domain.BlacklistRepository
	defaultExpiryMin int
	logger           *slog.Logger
}

func NewBlacklistService(repo domain.BlacklistRepository, defaultExpiryMin int, logger *slog.Logger) *BlacklistService {
	return &BlacklistService{
		repo:             repo,
		defaultExpiryMin: defaultExpiryMin,
		logger:           logger,
	}
}

// IsBlacklisted looks the raw token up by exact value. Entries found past
// their recorded expiry are deleted on the spot and reported as not
// blacklisted.
func (s *BlacklistService) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	bt, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return false, err
	}
	if bt == nil {
		return false, nil
	}

	if bt.ExpiresAt != nil && !bt.ExpiresAt.After(time.Now()) {
		if err := s.repo.Delete(ctx, bt.ID); err != nil {
			s.logger.Warn("failed to prune expired blacklist entry", "id", bt.ID, "error", err)
		}

		return false, nil
	}

	return true, nil
}

// Add stores the raw token string. Expiry mirrors the token's own exp claim
// when it can be decoded; otherwise the configured default applies so the
// entry cannot outlive pruning.
func (s *BlacklistService) Add(ctx context.Context, token string, userID *int, reason string) error {
	now := time.Now()
	expiresAt := s.expiryFromToken(token)
	if expiresAt == nil {
		fallback := now.Add(time.Duration(s.defaultExpiryMin) * time.Minute)
		expiresAt = &fallback
	}

	bt := &domain.BlacklistedToken{
		Token:         token,
		BlacklistedAt: now,
		ExpiresAt:     expiresAt,
		UserID:        userID,
		Reason:        reason,
	}

	if err := s.repo.StoreBlacklistedToken(ctx, bt); err != nil {
		return err
	}

	s.logger.Info("token blacklisted", "user_id", userID, "reason", reason)

	return nil
}

// expiryFromToken extracts the exp claim without verifying the signature; a
// token is blacklisted regardless of who signed it.
func (s *BlacklistService) expiryFromToken(token string) *time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		s.logger.Warn("could not extract expiration from token, using default expiration", "error", err)
		return nil
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}

	return &exp.Time
}

// CleanupExpired deletes every entry whose recorded expiry has passed and
// reports how many were removed.
func (s *BlacklistService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, time.Now())
}
