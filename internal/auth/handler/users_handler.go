package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/evan2110/web-application/internal/auth/domain"
	"github.com/evan2110/web-application/internal/auth/dto"
)

type UsersHandler struct {
	users  domain.UserRepository
	logger *slog.Logger
}

func NewUsersHandler(users domain.UserRepository, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{users: users, logger: logger}
}

// GetUsers lists all users. Admin-only; RequireRole guards the route.
func (h *UsersHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		h.logger.Error("failed to get users", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	out := make([]*dto.UserOutput, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserOutput(&users[i]))
	}

	return c.Status(fiber.StatusOK).JSON(out)
}
