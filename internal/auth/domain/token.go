package domain

import "time"

// RefreshToken is the stored row backing an opaque refresh token value.
// Once RevokedAt is set it is never cleared; revoked rows are kept as an
// audit trail and can never satisfy another refresh.
type RefreshToken struct {
	ID        int
	UserID    int
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// Revoked reports whether the token has been rotated or logged out.
func (rt *RefreshToken) Revoked() bool {
	return rt.RevokedAt != nil
}

// BlacklistedToken records an access token invalidated before its natural
// expiry. ExpiresAt mirrors the token's own exp claim when it could be
// decoded, else a configured default.
type BlacklistedToken struct {
	ID            int
	Token         string
	BlacklistedAt time.Time
	ExpiresAt     *time.Time
	UserID        *int
	Reason        string
}

// VerificationCode is the single live step-up code for a user. It is
// overwritten, never versioned, on each regeneration.
type VerificationCode struct {
	ID     int
	UserID int
	Code   string
	Status int
}
