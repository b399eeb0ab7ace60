package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/evan2110/web-application/internal/auth/domain"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository implements the credential-store interfaces for users,
// refresh tokens, blacklisted tokens and verification codes.
type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, password, user_type, created_at, confirmed_at
		FROM users
		WHERE email = $1
		LIMIT 1;
	`
	row := r.db.QueryRow(ctx, query, email)

	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt, &user.ConfirmedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	query := `
		SELECT id, email, password, user_type, created_at, confirmed_at
		FROM users
		WHERE id = $1
		LIMIT 1;
	`
	row := r.db.QueryRow(ctx, query, id)

	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt, &user.ConfirmedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (email, password, user_type, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`
	err := r.db.QueryRow(ctx, query, user.Email, user.PasswordHash, user.Role, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET email = $2, password = $3, user_type = $4, confirmed_at = $5
		WHERE id = $1;
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.Email, user.PasswordHash, user.Role, user.ConfirmedAt)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT id, email, password, user_type, created_at, confirmed_at
		FROM users
		ORDER BY id;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role,
			&user.CreatedAt, &user.ConfirmedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *PostgresRepository) GetByValue(ctx context.Context, token string) (*domain.RefreshToken, error) {
	query := `
		SELECT id, user_id, token, created_at, expires_at, revoked_at
		FROM refresh_tokens
		WHERE token = $1
		LIMIT 1;
	`
	row := r.db.QueryRow(ctx, query, token)

	var rt domain.RefreshToken
	err := row.Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.CreatedAt, &rt.ExpiresAt, &rt.RevokedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return &rt, nil
}

func (r *PostgresRepository) StoreRefreshToken(ctx context.Context, rt *domain.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (user_id, token, created_at, expires_at, revoked_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
	`
	err := r.db.QueryRow(ctx, query, rt.UserID, rt.Token, rt.CreatedAt, rt.ExpiresAt, rt.RevokedAt).Scan(&rt.ID)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Revoke(ctx context.Context, id int, at time.Time) error {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = $2
		WHERE id = $1 AND revoked_at IS NULL;
	`
	_, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*domain.BlacklistedToken, error) {
	query := `
		SELECT id, token, blacklisted_at, expires_at, user_id, reason
		FROM blacklisted_tokens
		WHERE token = $1
		LIMIT 1;
	`
	row := r.db.QueryRow(ctx, query, token)

	var bt domain.BlacklistedToken
	err := row.Scan(&bt.ID, &bt.Token, &bt.BlacklistedAt, &bt.ExpiresAt, &bt.UserID, &bt.Reason)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get blacklisted token: %w", err)
	}

	return &bt, nil
}

func (r *PostgresRepository) StoreBlacklistedToken(ctx context.Context, bt *domain.BlacklistedToken) error {
	query := `
		INSERT INTO blacklisted_tokens (token, blacklisted_at, expires_at, user_id, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
	`
	err := r.db.QueryRow(ctx, query, bt.Token, bt.BlacklistedAt, bt.ExpiresAt, bt.UserID, bt.Reason).Scan(&bt.ID)
	if err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	query := `
		DELETE FROM blacklisted_tokens
		WHERE id = $1;
	`
	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete blacklisted token: %w", err)
	}

	return nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	query := `
		DELETE FROM blacklisted_tokens
		WHERE expires_at IS NOT NULL AND expires_at <= $1;
	`
	tag, err := r.db.Exec(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired blacklisted tokens: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID int) (*domain.VerificationCode, error) {
	query := `
		SELECT id, user_id, verify_code, status
		FROM verification_codes
		WHERE user_id = $1
		LIMIT 1;
	`
	row := r.db.QueryRow(ctx, query, userID)

	var vc domain.VerificationCode
	err := row.Scan(&vc.ID, &vc.UserID, &vc.Code, &vc.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get verification code: %w", err)
	}

	return &vc, nil
}

func (r *PostgresRepository) StoreVerificationCode(ctx context.Context, vc *domain.VerificationCode) error {
	query := `
		INSERT INTO verification_codes (user_id, verify_code, status)
		VALUES ($1, $2, $3)
		RETURNING id;
	`
	err := r.db.QueryRow(ctx, query, vc.UserID, vc.Code, vc.Status).Scan(&vc.ID)
	if err != nil {
		return fmt.Errorf("failed to create verification code: %w", err)
	}

	return nil
}

func (r *PostgresRepository) UpdateCode(ctx context.Context, id int, code string) error {
	query := `
		UPDATE verification_codes
		SET verify_code = $2
		WHERE id = $1;
	`
	_, err := r.db.Exec(ctx, query, id, code)
	if err != nil {
		return fmt.Errorf("failed to update verification code: %w", err)
	}

	return nil
}
