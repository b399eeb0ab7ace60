package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/evan2110/web-application/config"
	"github.com/evan2110/web-application/internal/auth/dto"
	"github.com/evan2110/web-application/internal/auth/service"
	autherror "github.com/evan2110/web-application/internal/errors"
)

type AuthHandler struct {
	userService *service.UserService
	cfg         *config.Config
	logger      *slog.Logger
}

func NewAuthHandler(userService *service.UserService, cfg *config.Config, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{userService: userService, cfg: cfg, logger: logger}
}

// statusForError is the single place expected business outcomes are mapped to
// HTTP statuses. Anything unmapped is an internal error.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, autherror.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "Invalid email or password."
	case errors.Is(err, autherror.ErrEmailAlreadyInUse):
		return fiber.StatusConflict, "Email already exists."
	case errors.Is(err, autherror.ErrVerificationRequired):
		return fiber.StatusConflict, "Please authenticate your login."
	case errors.Is(err, autherror.ErrUserNotFound):
		return fiber.StatusUnauthorized, "User not found."
	case errors.Is(err, autherror.ErrVerifyCodeMismatch):
		return fiber.StatusBadRequest, "Verify code not matching."
	case errors.Is(err, autherror.ErrInvalidRole):
		return fiber.StatusBadRequest, "Invalid role."
	case errors.Is(err, autherror.ErrRefreshTokenInvalid):
		return fiber.StatusUnauthorized, "Invalid or expired refresh token."
	case errors.Is(err, autherror.ErrRefreshTokenNotFound):
		return fiber.StatusNotFound, "Refresh token not found."
	case errors.Is(err, autherror.ErrRefreshTokenRevoked):
		return fiber.StatusBadRequest, "Refresh token already revoked."
	case errors.Is(err, autherror.ErrEmailNotConfirmed):
		return fiber.StatusUnauthorized, "Email not confirmed."
	case errors.Is(err, autherror.ErrPurposeTokenInvalid):
		return fiber.StatusUnauthorized, "Invalid or expired token."
	default:
		return fiber.StatusInternalServerError, "An internal server error occurred."
	}
}

// fail maps err and writes the response. Internal errors are logged with full
// detail here; only the generic message crosses the boundary.
func (h *AuthHandler) fail(c *fiber.Ctx, err error) error {
	status, message := statusForError(err)
	if status == fiber.StatusInternalServerError {
		h.logger.Error("unhandled error", "path", c.Path(), "error", err)
	}

	return c.Status(status).JSON(fiber.Map{"message": message})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input."})
	}
	if err := input.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	user, err := h.userService.Register(c.UserContext(), input)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.NewUserOutput(user))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input."})
	}
	if err := input.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	tokenPair, err := h.userService.Login(c.UserContext(), input)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokenPair)
}

// Verify completes the admin step-up challenge.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var input dto.VerifyInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input."})
	}
	if err := input.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	tokenPair, err := h.userService.VerifyUser(c.UserContext(), input)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokenPair)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input dto.RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input."})
	}
	if err := input.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	tokens, err := h.userService.Refresh(c.UserContext(), input.RefreshToken)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var input dto.LogoutInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input."})
	}
	if err := input.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if err := h.userService.Logout(c.UserContext(), input.RefreshToken, input.AccessToken); err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Logged out successfully."})
}

// SendMail resends the step-up verification code.
func (h *AuthHandler) SendMail(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Email is required."})
	}
	if err := (dto.ForgotPasswordInput{Email: email}).Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Email is wrong format."})
	}

	if err := h.userService.ResendVerificationCode(c.UserContext(), email); err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "A new verification code has been sent to your email !"})
}

// VerifyEmail consumes the emailed confirmation link and redirects to the
// front-end with a success flag either way.
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	base := h.cfg.FrontendBaseURL
	if base == "" {
		base = c.BaseURL()
	}

	token := c.Query("token")
	if token == "" {
		return c.Redirect(base+"/login?verified=0", fiber.StatusFound)
	}

	if err := h.userService.ConfirmEmail(c.UserContext(), token); err != nil {
		h.logger.Warn("email confirmation failed", "error", err)
		return c.Redirect(base+"/login?verified=0", fiber.StatusFound)
	}

	return c.Redirect(base+"/login?verified=1", fiber.StatusFound)
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var input dto.ForgotPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input."})
	}
	if err := input.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if err := h.userService.RequestPasswordReset(c.UserContext(), input.Email); err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "A password reset link has been sent to your email."})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input dto.ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input."})
	}
	if err := input.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if err := h.userService.ResetPassword(c.UserContext(), input.Token, input.NewPassword); err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Password has been reset successfully."})
}
