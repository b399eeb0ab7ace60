// Package errors declares the sentinel values for every expected business
// outcome of the auth subsystem. Handlers map these to HTTP statuses exactly
// once at the boundary; anything not listed here is treated as internal.
package errors

import (
	"errors"
)

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrEmailAlreadyInUse    = errors.New("email already exists")
	ErrVerificationRequired = errors.New("verification required")
	ErrUserNotFound         = errors.New("user not found")
	ErrVerifyCodeMismatch   = errors.New("verify code not matching")
	ErrInvalidRole          = errors.New("invalid role")

	ErrRefreshTokenInvalid  = errors.New("invalid or expired refresh token")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenRevoked  = errors.New("refresh token already revoked")

	ErrEmailNotConfirmed   = errors.New("email not confirmed")
	ErrPurposeTokenInvalid = errors.New("invalid or expired token")
	ErrTokenBlacklisted    = errors.New("token is blacklisted")
)
