package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler, uh *UsersHandler) {
	auth := app.Group("/api/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/verify", h.Verify)
	auth.Post("/refresh", h.Refresh)
	auth.Post("/logout", h.Logout)
	auth.Get("/sendMail", h.SendMail)
	auth.Get("/verify-email", h.VerifyEmail)
	auth.Post("/forgot-password", h.ForgotPassword)
	auth.Post("/reset-password", h.ResetPassword)

	// Admin-only endpoints; the ingress gate has already validated the token.
	app.Get("/api/users", RequireRole("admin"), uh.GetUsers)
}
