package constant

import "time"

const (
	// Purpose claim values carried in the "typ" claim of stateless tokens.
	PurposePasswordReset = "pwdreset"
	PurposeEmailVerify   = "emailverify"

	PasswordResetTokenTTL = 15 * time.Minute
	EmailVerifyTokenTTL   = 24 * time.Hour

	// RememberMeExpiryDays is the refresh-token lifetime when the caller asks
	// to be remembered, regardless of the configured default.
	RememberMeExpiryDays = 30

	VerificationCodeLength = 6

	// VerificationCodeAlphabet intentionally excludes zero.
	VerificationCodeAlphabet = "123456789"

	RefreshTokenEntropyBytes = 64

	BlacklistReasonLogout = "User logout"
)
