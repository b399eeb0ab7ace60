package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type RefreshInput struct {
	RefreshToken string `json:"refreshToken"`
}

func (i RefreshInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.RefreshToken, validation.Required),
	)
}

type LogoutInput struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (i LogoutInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.RefreshToken, validation.Required),
	)
}
