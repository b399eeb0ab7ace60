package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type LoginInput struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

func (i LoginInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, validation.Length(0, 255), is.Email),
		validation.Field(&i.Password, validation.Required),
	)
}

// VerifyInput completes the admin step-up challenge.
type VerifyInput struct {
	Email          string `json:"email"`
	UserCodeVerify string `json:"userCodeVerify"`
	RememberMe     bool   `json:"rememberMe"`
}

func (i VerifyInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email),
		validation.Field(&i.UserCodeVerify, validation.Required),
	)
}
