package postgres_test

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evan2110/web-application/internal/auth/domain"
	"github.com/evan2110/web-application/internal/auth/repository/postgres"
)

func newRepo(t *testing.T) (*postgres.PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	return postgres.NewPostgresRepository(mockDB), mockDB
}

func TestPostgresRepository_GetByEmail(t *testing.T) {
	repo, mockDB := newRepo(t)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		createdAt := time.Now()
		rows := pgxmock.NewRows([]string{"id", "email", "password", "user_type", "created_at", "confirmed_at"}).
			AddRow(1, "test@example.com", "hashed", domain.RoleUser, createdAt, nil)

		mockDB.ExpectQuery("SELECT id, email, password, user_type, created_at, confirmed_at FROM users WHERE email").
			WithArgs("test@example.com").
			WillReturnRows(rows)

		user, err := repo.GetByEmail(ctx, "test@example.com")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, 1, user.ID)
		assert.Equal(t, "test@example.com", user.Email)
		assert.Equal(t, domain.RoleUser, user.Role)
		assert.Nil(t, user.ConfirmedAt)
	})

	t.Run("not found returns nil user", func(t *testing.T) {
		mockDB.ExpectQuery("SELECT id, email, password, user_type, created_at, confirmed_at FROM users WHERE email").
			WithArgs("nobody@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password", "user_type", "created_at", "confirmed_at"}))

		user, err := repo.GetByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestPostgresRepository_GetByID(t *testing.T) {
	repo, mockDB := newRepo(t)
	ctx := context.Background()

	confirmed := time.Now().Add(-time.Hour)
	rows := pgxmock.NewRows([]string{"id", "email", "password", "user_type", "created_at", "confirmed_at"}).
		AddRow(2, "admin@example.com", "hashed", domain.RoleAdmin, time.Now(), &confirmed)

	mockDB.ExpectQuery("SELECT id, email, password, user_type, created_at, confirmed_at FROM users WHERE id").
		WithArgs(2).
		WillReturnRows(rows)

	user, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	require.NotNil(t, user.ConfirmedAt)

	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestPostgresRepository_CreateUser(t *testing.T) {
	repo, mockDB := newRepo(t)
	ctx := context.Background()

	user := &domain.User{
		Email:        "new@example.com",
		PasswordHash: "hashed",
		Role:         domain.RoleUser,
		CreatedAt:    time.Now(),
	}

	mockDB.ExpectQuery("INSERT INTO users").
		WithArgs(user.Email, user.PasswordHash, user.Role, user.CreatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(42))

	err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 42, user.ID)

	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestPostgresRepository_UpdateUser(t *testing.T) {
	repo, mockDB := newRepo(t)
	ctx := context.Background()

	confirmed := time.Now()
	user := &domain.User{
		ID:           1,
		Email:        "test@example.com",
		PasswordHash: "rehashed",
		Role:         domain.RoleUser,
		ConfirmedAt:  &confirmed,
	}

	mockDB.ExpectExec("UPDATE users SET").
		WithArgs(user.ID, user.Email, user.PasswordHash, user.Role, user.ConfirmedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(ctx, user)
	assert.NoError(t, err)

	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestPostgresRepository_ListUsers(t *testing.T) {
	repo, mockDB := newRepo(t)
	ctx := context.Background()

	rows := pgxmock.NewRows([]string{"id", "email", "password", "user_type", "created_at", "confirmed_at"}).
		AddRow(1, "a@example.com", "hashed", domain.RoleUser, time.Now(), nil).
		AddRow(2, "b@example.com", "hashed", domain.RoleAdmin, time.Now(), nil)

	mockDB.ExpectQuery("SELECT id, email, password, user_type, created_at, confirmed_at FROM users ORDER BY id").
		WillReturnRows(rows)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "a@example.com", users[0].Email)
	assert.Equal(t, domain.RoleAdmin, users[1].Role)

	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestPostgresRepository_RefreshTokens(t *testing.T) {
	repo, mockDB := newRepo(t)
	ctx := context.Background()

	t.Run("get by value", func(t *testing.T) {
		now := time.Now()
		rows := pgxmock.NewRows([]string{"id", "user_id", "token", "created_at", "expires_at", "revoked_at"}).
			AddRow(3, 1, "opaque-value", now, now.Add(7*24*time.Hour), nil)

		mockDB.ExpectQuery("SELECT id, user_id, token, created_at, expires_at, revoked_at FROM refresh_tokens WHERE token").
			WithArgs("opaque-value").
			WillReturnRows(rows)

		rt, err := repo.GetByValue(ctx, "opaque-value")
		require.NoError(t, err)
		require.NotNil(t, rt)
		assert.Equal(t, 3, rt.ID)
		assert.False(t, rt.Revoked())
	})

	t.Run("get by value not found", func(t *testing.T) {
		mockDB.ExpectQuery("SELECT id, user_id, token, created_at, expires_at, revoked_at FROM refresh_tokens WHERE token").
			WithArgs("missing").
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "token", "created_at", "expires_at", "revoked_at"}))

		rt, err := repo.GetByValue(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, rt)
	})

	t.Run("store", func(t *testing.T) {
		now := time.Now()
		rt := &domain.RefreshToken{UserID: 1, Token: "opaque-value", CreatedAt: now, ExpiresAt: now.Add(7 * 24 * time.Hour)}

		mockDB.ExpectQuery("INSERT INTO refresh_tokens").
			WithArgs(rt.UserID, rt.Token, rt.CreatedAt, rt.ExpiresAt, rt.RevokedAt).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(9))

		err := repo.StoreRefreshToken(ctx, rt)
		require.NoError(t, err)
		assert.Equal(t, 9, rt.ID)
	})

	t.Run("revoke", func(t *testing.T) {
		at := time.Now()

		mockDB.ExpectExec("UPDATE refresh_tokens SET revoked_at").
			WithArgs(9, at).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.Revoke(ctx, 9, at)
		assert.NoError(t, err)
	})

	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestPostgresRepository_BlacklistedTokens(t *testing.T) {
	repo, mockDB := newRepo(t)
	ctx := context.Background()

	t.Run("get by token", func(t *testing.T) {
		expires := time.Now().Add(time.Hour)
		userID := 1
		rows := pgxmock.NewRows([]string{"id", "token", "blacklisted_at", "expires_at", "user_id", "reason"}).
			AddRow(4, "jwt-value", time.Now(), &expires, &userID, "User logout")

		mockDB.ExpectQuery("SELECT id, token, blacklisted_at, expires_at, user_id, reason FROM blacklisted_tokens WHERE token").
			WithArgs("jwt-value").
			WillReturnRows(rows)

		bt, err := repo.GetByToken(ctx, "jwt-value")
		require.NoError(t, err)
		require.NotNil(t, bt)
		assert.Equal(t, "User logout", bt.Reason)
	})

	t.Run("get by token not found", func(t *testing.T) {
		mockDB.ExpectQuery("SELECT id, token, blacklisted_at, expires_at, user_id, reason FROM blacklisted_tokens WHERE token").
			WithArgs("missing").
			WillReturnRows(pgxmock.NewRows([]string{"id", "token", "blacklisted_at", "expires_at", "user_id", "reason"}))

		bt, err := repo.GetByToken(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, bt)
	})

	t.Run("store", func(t *testing.T) {
		now := time.Now()
		expires := now.Add(time.Hour)
		userID := 1
		bt := &domain.BlacklistedToken{Token: "jwt-value", BlacklistedAt: now, ExpiresAt: &expires, UserID: &userID, Reason: "User logout"}

		mockDB.ExpectQuery("INSERT INTO blacklisted_tokens").
			WithArgs(bt.Token, bt.BlacklistedAt, bt.ExpiresAt, bt.UserID, bt.Reason).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(4))

		err := repo.StoreBlacklistedToken(ctx, bt)
		require.NoError(t, err)
		assert.Equal(t, 4, bt.ID)
	})

	t.Run("delete", func(t *testing.T) {
		mockDB.ExpectExec("DELETE FROM blacklisted_tokens WHERE id").
			WithArgs(4).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := repo.Delete(ctx, 4)
		assert.NoError(t, err)
	})

	t.Run("delete expired reports count", func(t *testing.T) {
		before := time.Now()

		mockDB.ExpectExec("DELETE FROM blacklisted_tokens WHERE expires_at").
			WithArgs(before).
			WillReturnResult(pgxmock.NewResult("DELETE", 3))

		removed, err := repo.DeleteExpired(ctx, before)
		require.NoError(t, err)
		assert.Equal(t, int64(3), removed)
	})

	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestPostgresRepository_VerificationCodes(t *testing.T) {
	repo, mockDB := newRepo(t)
	ctx := context.Background()

	t.Run("get by user id", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "user_id", "verify_code", "status"}).
			AddRow(5, 1, "123456", 1)

		mockDB.ExpectQuery("SELECT id, user_id, verify_code, status FROM verification_codes WHERE user_id").
			WithArgs(1).
			WillReturnRows(rows)

		vc, err := repo.GetByUserID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, vc)
		assert.Equal(t, "123456", vc.Code)
	})

	t.Run("get by user id not found", func(t *testing.T) {
		mockDB.ExpectQuery("SELECT id, user_id, verify_code, status FROM verification_codes WHERE user_id").
			WithArgs(99).
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "verify_code", "status"}))

		vc, err := repo.GetByUserID(ctx, 99)
		require.NoError(t, err)
		assert.Nil(t, vc)
	})

	t.Run("store", func(t *testing.T) {
		vc := &domain.VerificationCode{UserID: 1, Code: "654321", Status: 1}

		mockDB.ExpectQuery("INSERT INTO verification_codes").
			WithArgs(vc.UserID, vc.Code, vc.Status).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(5))

		err := repo.StoreVerificationCode(ctx, vc)
		require.NoError(t, err)
		assert.Equal(t, 5, vc.ID)
	})

	t.Run("update", func(t *testing.T) {
		mockDB.ExpectExec("UPDATE verification_codes SET verify_code").
			WithArgs(5, "999111").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateCode(ctx, 5, "999111")
		assert.NoError(t, err)
	})

	assert.NoError(t, mockDB.ExpectationsWereMet())
}
