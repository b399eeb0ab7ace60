package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/evan2110/web-application/config"
	"github.com/evan2110/web-application/internal/auth/domain"
	"github.com/evan2110/web-application/internal/auth/dto"
	autherror "github.com/evan2110/web-application/internal/errors"
	"github.com/evan2110/web-application/pkg/constant"
)

// UserService orchestrates the session lifecycle: registration, login with
// admin step-up, refresh rotation, logout, email confirmation and password
// reset. It holds no state beyond its collaborators; every call is a fresh
// read-then-write against the credential store.
type UserService struct {
	users        domain.UserRepository
	refreshRepo  domain.RefreshTokenRepository
	codes        domain.VerificationCodeRepository
	tokenService TokenGenerator
	blacklist    Blacklister
	mailer       domain.Mailer
	cfg          *config.Config
	logger       *slog.Logger
}

func NewUserService(
	users domain.UserRepository,
	refreshRepo domain.RefreshTokenRepository,
	codes domain.VerificationCodeRepository,
	tokenService TokenGenerator,
	blacklist Blacklister,
	mailer domain.Mailer,
	cfg *config.Config,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:        users,
		refreshRepo:  refreshRepo,
		codes:        codes,
		tokenService: tokenService,
		blacklist:    blacklist,
		mailer:       mailer,
		cfg:          cfg,
		logger:       logger,
	}
}

// Register creates the user and dispatches the email-verification link. It
// never issues a session.
func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	existingUser, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		s.logger.Info("email already exists", "email", input.Email)
		return nil, autherror.ErrEmailAlreadyInUse
	}

	role, err := domain.ParseRole(input.UserType)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created", "user_id", user.ID, "email", user.Email)

	verifyToken, err := s.tokenService.GeneratePurposeToken(user.Email, constant.PurposeEmailVerify, constant.EmailVerifyTokenTTL)
	if err != nil {
		return nil, err
	}

	verifyLink := fmt.Sprintf("%s/verify-email?token=%s", s.cfg.FrontendBaseURL, url.QueryEscape(verifyToken))
	if err := s.sendEmailVerificationLink(ctx, user.Email, verifyLink); err != nil {
		return nil, err
	}

	return user, nil
}

// Login checks the password first. Admin users then get a fresh step-up code
// by email and a verification-required outcome instead of tokens; everyone
// else gets a full token pair.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	// Same outcome for unknown email and wrong password.
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, autherror.ErrInvalidCredentials
	}

	if user.Role == domain.RoleAdmin {
		if err := s.regenerateAndSendCode(ctx, user); err != nil {
			return nil, err
		}

		return nil, autherror.ErrVerificationRequired
	}

	return s.issueTokenPair(ctx, user, input.RememberMe, true)
}

// VerifyUser completes the admin step-up challenge and issues the token pair
// exactly as a plain login would. The supplied code must match the most
// recently generated one for the account, compared after trimming.
func (s *UserService) VerifyUser(ctx context.Context, input dto.VerifyInput) (*dto.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	code, err := s.codes.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if code == nil || strings.TrimSpace(code.Code) == "" ||
		strings.TrimSpace(code.Code) != strings.TrimSpace(input.UserCodeVerify) {
		s.logger.Warn("verify code not matching", "user_id", user.ID)
		return nil, autherror.ErrVerifyCodeMismatch
	}

	s.logger.Info("user verified successfully", "user_id", user.ID)

	return s.issueTokenPair(ctx, user, input.RememberMe, true)
}

// Refresh rotates the refresh token: the presented value is revoked and a new
// pair is issued for the same user. Rotation is single-use; once revoked the
// old value can never satisfy Refresh again.
//
// Known limitation: there is no optimistic-lock check between reading the
// token and writing the revocation, so two concurrent calls presenting the
// same not-yet-rotated value can both observe it as valid before either
// revocation lands.
func (s *UserService) Refresh(ctx context.Context, refreshTokenValue string) (*dto.TokenResponse, error) {
	token, err := s.refreshRepo.GetByValue(ctx, refreshTokenValue)
	if err != nil {
		return nil, err
	}

	// The boundary instant counts as expired.
	if token == nil || token.Revoked() || !token.ExpiresAt.After(time.Now()) {
		s.logger.Warn("refresh token invalid or expired")
		return nil, autherror.ErrRefreshTokenInvalid
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.logger.Warn("user for refresh token not found", "user_id", token.UserID)
		return nil, autherror.ErrRefreshTokenInvalid
	}

	if err := s.refreshRepo.Revoke(ctx, token.ID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to revoke token: %w", err)
	}

	s.logger.Info("revoked old refresh token", "user_id", user.ID)

	return s.issueTokenPair(ctx, user, false, false)
}

// Logout revokes the refresh token and blacklists the supplied access token.
// Repeat logouts are detectable: a missing token and an already-revoked token
// yield distinct outcomes, never a second success.
func (s *UserService) Logout(ctx context.Context, refreshTokenValue, accessToken string) error {
	token, err := s.refreshRepo.GetByValue(ctx, refreshTokenValue)
	if err != nil {
		return err
	}
	if token == nil {
		s.logger.Warn("refresh token not found during logout")
		return autherror.ErrRefreshTokenNotFound
	}
	if token.Revoked() {
		s.logger.Warn("refresh token already revoked during logout")
		return autherror.ErrRefreshTokenRevoked
	}

	if strings.TrimSpace(accessToken) != "" {
		userID := token.UserID
		if err := s.blacklist.Add(ctx, accessToken, &userID, constant.BlacklistReasonLogout); err != nil {
			// The session still ends; a blacklist write failure must not
			// keep the refresh token alive.
			s.logger.Warn("failed to blacklist access token during logout", "user_id", userID, "error", err)
		}
	}

	if err := s.refreshRepo.Revoke(ctx, token.ID, time.Now()); err != nil {
		return err
	}

	s.logger.Info("refresh token revoked", "user_id", token.UserID)

	return nil
}

// ResendVerificationCode regenerates and resends the step-up code for an
// existing user, unconditionally overwriting the previous code.
func (s *UserService) ResendVerificationCode(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	return s.regenerateAndSendCode(ctx, user)
}

// ConfirmEmail validates an email-verification purpose token and marks the
// account confirmed.
func (s *UserService) ConfirmEmail(ctx context.Context, purposeToken string) error {
	email, err := s.tokenService.VerifyPurposeToken(purposeToken, constant.PurposeEmailVerify)
	if err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	now := time.Now()
	user.ConfirmedAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("email confirmed", "user_id", user.ID)

	return nil
}

// RequestPasswordReset mails a reset link to an existing, already-confirmed
// user. The reset token is stateless and expires on its own.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}
	if user.ConfirmedAt == nil {
		return autherror.ErrEmailNotConfirmed
	}

	resetToken, err := s.tokenService.GeneratePurposeToken(email, constant.PurposePasswordReset, constant.PasswordResetTokenTTL)
	if err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.FrontendBaseURL, url.QueryEscape(resetToken))

	return s.sendPasswordResetEmail(ctx, email, resetLink)
}

// ResetPassword overwrites the password hash after validating the pwdreset
// purpose token. Existing sessions are not invalidated on password change.
func (s *UserService) ResetPassword(ctx context.Context, purposeToken, newPassword string) error {
	email, err := s.tokenService.VerifyPurposeToken(purposeToken, constant.PurposePasswordReset)
	if err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("password reset successfully", "user_id", user.ID)

	return nil
}

// issueTokenPair is shared by login, step-up verification and refresh.
func (s *UserService) issueTokenPair(ctx context.Context, user *domain.User, rememberMe, includeUser bool) (*dto.TokenResponse, error) {
	accessToken, err := s.tokenService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	refreshTokenValue, err := s.tokenService.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expiryDays := s.cfg.RefreshExpiryDay
	if rememberMe {
		expiryDays = constant.RememberMeExpiryDays
	}

	refreshToken := &domain.RefreshToken{
		UserID:    user.ID,
		Token:     refreshTokenValue,
		CreatedAt: now,
		ExpiresAt: now.AddDate(0, 0, expiryDays),
	}

	if err := s.refreshRepo.StoreRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	s.logger.Info("issued token pair", "user_id", user.ID)

	resp := &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenValue,
	}
	if includeUser {
		resp.User = dto.NewUserOutput(user)
	}

	return resp, nil
}

// regenerateAndSendCode overwrites the user's single live verification code
// (creating the row on first use) and emails the new value.
func (s *UserService) regenerateAndSendCode(ctx context.Context, user *domain.User) error {
	code, err := generateVerificationCode()
	if err != nil {
		return err
	}

	existing, err := s.codes.GetByUserID(ctx, user.ID)
	if err != nil {
		return err
	}

	if existing != nil {
		if err := s.codes.UpdateCode(ctx, existing.ID, code); err != nil {
			return err
		}
		s.logger.Info("updated verification code", "user_id", user.ID)
	} else {
		vc := &domain.VerificationCode{
			UserID: user.ID,
			Code:   code,
			Status: 1,
		}
		if err := s.codes.StoreVerificationCode(ctx, vc); err != nil {
			return err
		}
		s.logger.Info("created verification code", "user_id", user.ID)
	}

	return s.sendVerificationEmail(ctx, user.Email, code)
}

func (s *UserService) sendVerificationEmail(ctx context.Context, toEmail, code string) error {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	sb.WriteString("<h1>Login authentication</h1>")
	sb.WriteString("<p>Hello " + toEmail + ",</p>")
	sb.WriteString("<p>Welcome back to login!</p>")
	sb.WriteString("<p>Your verification code is: <strong>" + code + "</strong></p>")
	sb.WriteString("</body></html>")

	return s.mailer.Send(ctx, toEmail, "Verify account", sb.String())
}

func (s *UserService) sendEmailVerificationLink(ctx context.Context, toEmail, verifyLink string) error {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	sb.WriteString("<h1>Email verification</h1>")
	sb.WriteString("<p>Hello " + toEmail + ",</p>")
	sb.WriteString("<p>Please confirm your email by clicking the link below:</p>")
	sb.WriteString(fmt.Sprintf("<p><a href=%q>Verify your email</a></p>", verifyLink))
	sb.WriteString("</body></html>")

	return s.mailer.Send(ctx, toEmail, "Verify your email", sb.String())
}

func (s *UserService) sendPasswordResetEmail(ctx context.Context, toEmail, resetLink string) error {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	sb.WriteString("<h1>Password reset</h1>")
	sb.WriteString("<p>Hello " + toEmail + ",</p>")
	sb.WriteString("<p>We received a request to reset your password.</p>")
	sb.WriteString("<p>Click the link below to set a new password (valid for 15 minutes):</p>")
	sb.WriteString(fmt.Sprintf("<p><a href=%q>Reset your password</a></p>", resetLink))
	sb.WriteString("</body></html>")

	return s.mailer.Send(ctx, toEmail, "Reset your password", sb.String())
}
