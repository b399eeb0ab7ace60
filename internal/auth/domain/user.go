package domain

import (
	"strings"
	"time"

	autherror "github.com/evan2110/web-application/internal/errors"
)

// Role is the closed set of user roles. Raw strings from the outside are
// parsed exactly once at the boundary via ParseRole.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole normalizes a free-form role string. An empty value defaults to
// RoleUser; anything outside the closed set is rejected.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return RoleUser, nil
	case string(RoleUser):
		return RoleUser, nil
	case string(RoleAdmin):
		return RoleAdmin, nil
	default:
		return "", autherror.ErrInvalidRole
	}
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID           int
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	// ConfirmedAt stays nil until the email verification link is followed.
	ConfirmedAt *time.Time
}
