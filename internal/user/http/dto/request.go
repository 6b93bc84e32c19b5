// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/cardvault/internal/user/usecase"
	appValidation "github.com/allisson/cardvault/internal/validation"
)

// SignUpRequest represents the API request for user registration.
// Password strength is enforced by the use case.
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks required fields and the email format.
func (r *SignUpRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), appValidation.NotBlank),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
		),
		validation.Field(&r.Password, validation.Required.Error("password is required")),
	)
	return appValidation.WrapValidationError(err)
}

// ToInput converts the request to the use case input.
func (r *SignUpRequest) ToInput() usecase.SignUpInput {
	return usecase.SignUpInput{Name: r.Name, Email: r.Email, Password: r.Password}
}

// SignInRequest represents the API request for sign-in.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks required fields.
func (r *SignInRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required.Error("email is required"), appValidation.NotBlank),
		validation.Field(&r.Password, validation.Required.Error("password is required")),
	)
	return appValidation.WrapValidationError(err)
}

// ToInput converts the request to the use case input.
func (r *SignInRequest) ToInput() usecase.SignInInput {
	return usecase.SignInInput{Email: r.Email, Password: r.Password}
}
