package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/evan2110/web-application/internal/auth/service TokenGenerator,Blacklister

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/evan2110/web-application/internal/auth/domain"
	autherror "github.com/evan2110/web-application/internal/errors"
	"github.com/evan2110/web-application/pkg/constant"
)

// TokenGenerator issues and validates the credentials handed to clients:
// signed access tokens, opaque refresh values and purpose-bound stateless
// tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID int, email string, role domain.Role) (string, error)
	GenerateRefreshToken() (string, error)
	VerifyAccessToken(tokenString string) (*JWTCustomClaims, error)
	VerifyAccessTokenWithBlacklist(ctx context.Context, tokenString string) (*JWTCustomClaims, error)
	GeneratePurposeToken(email, purpose string, ttl time.Duration) (string, error)
	VerifyPurposeToken(tokenString, purpose string) (string, error)
}

// Blacklister is the revocation registry consulted by
// VerifyAccessTokenWithBlacklist.
type Blacklister interface {
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	Add(ctx context.Context, token string, userID *int, reason string) error
	CleanupExpired(ctx context.Context) (int64, error)
}

type TokenService struct {
	secret       []byte
	issuer       string
	audience     string
	accessExpiry time.Duration
	blacklist    Blacklister
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// PurposeClaims back the stateless password-reset and email-verification
// tokens. Purpose travels in the "typ" claim; validity is signature+claims
// only, there is no server-side record.
type PurposeClaims struct {
	jwt.RegisteredClaims
	Email   string `json:"email"`
	Purpose string `json:"typ"`
}

func NewTokenService(secret, issuer, audience string, accessMinutes int, blacklist Blacklister) *TokenService {
	return &TokenService{
		secret:       []byte(secret),
		issuer:       issuer,
		audience:     audience,
		accessExpiry: time.Duration(accessMinutes) * time.Minute,
		blacklist:    blacklist,
	}
}

func (ts *TokenService) AccessTokenExpiry() time.Duration {
	return ts.accessExpiry
}

func (ts *TokenService) GenerateAccessToken(userID int, email string, role domain.Role) (string, error) {
	now := time.Now()

	claims := JWTCustomClaims{
		UserID: userID,
		Email:  email,
		Role:   role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Audience:  jwt.ClaimStrings{ts.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
}

// GenerateRefreshToken returns an opaque random value. It carries no claims;
// resolving it always goes through the credential store.
func (ts *TokenService) GenerateRefreshToken() (string, error) {
	randomBytes := make([]byte, constant.RefreshTokenEntropyBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return base64.StdEncoding.EncodeToString(randomBytes), nil
}

// VerifyAccessToken checks signature, issuer, audience and lifetime with zero
// clock-skew tolerance.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ts.issuer),
		jwt.WithAudience(ts.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// VerifyAccessTokenWithBlacklist performs structural validation and then a
// revocation-registry lookup. A registry infrastructure error admits the
// token (fail open): availability is favored over strict denial.
func (ts *TokenService) VerifyAccessTokenWithBlacklist(ctx context.Context, tokenString string) (*JWTCustomClaims, error) {
	claims, err := ts.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	blacklisted, err := ts.blacklist.IsBlacklisted(ctx, tokenString)
	if err != nil {
		return claims, nil
	}
	if blacklisted {
		return nil, autherror.ErrTokenBlacklisted
	}

	return claims, nil
}

func (ts *TokenService) GeneratePurposeToken(email, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := PurposeClaims{
		Email:   email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Audience:  jwt.ClaimStrings{ts.audience},
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
}

// VerifyPurposeToken returns the email the token was issued for, rejecting
// tokens whose "typ" claim does not match the expected purpose.
func (ts *TokenService) VerifyPurposeToken(tokenString, purpose string) (string, error) {
	claims := &PurposeClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ts.issuer),
		jwt.WithAudience(ts.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", autherror.ErrPurposeTokenInvalid
	}

	if !token.Valid || claims.Purpose != purpose || claims.Email == "" {
		return "", autherror.ErrPurposeTokenInvalid
	}

	return claims.Email, nil
}
