package handler_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evan2110/web-application/internal/auth/domain"
	"github.com/evan2110/web-application/internal/auth/handler"
	"github.com/evan2110/web-application/internal/mocks"
)

func newUsersApp(ctrl *gomock.Controller) (*fiber.App, *mocks.MockUserRepository) {
	mockUsers := mocks.NewMockUserRepository(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := fiber.New()
	uh := handler.NewUsersHandler(mockUsers, logger)
	app.Get("/api/users", uh.GetUsers)

	return app, mockUsers
}

func TestUsersHandler_GetUsers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, mockUsers := newUsersApp(ctrl)

	confirmed := time.Now().Add(-time.Hour)
	mockUsers.EXPECT().List(gomock.Any()).Return([]domain.User{
		{ID: 1, Email: "a@example.com", Role: domain.RoleUser, CreatedAt: time.Now()},
		{ID: 2, Email: "b@example.com", Role: domain.RoleAdmin, CreatedAt: time.Now(), ConfirmedAt: &confirmed},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out []map[string]any
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 2)
	assert.Equal(t, "a@example.com", out[0]["email"])
	assert.Equal(t, "admin", out[1]["user_type"])
	assert.NotContains(t, out[0], "password")
}

func TestUsersHandler_GetUsers_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, mockUsers := newUsersApp(ctrl)

	mockUsers.EXPECT().List(gomock.Any()).Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out []map[string]any
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Empty(t, out)
}

func TestUsersHandler_GetUsers_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, mockUsers := newUsersApp(ctrl)

	mockUsers.EXPECT().List(gomock.Any()).Return(nil, errors.New("db down"))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
