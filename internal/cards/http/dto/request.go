// Package dto provides data transfer objects for the card HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/cardvault/internal/cards/usecase"
	appValidation "github.com/allisson/cardvault/internal/validation"
)

// CardRequest is the body of create and update requests. Length rules are enforced by
// the use case.
type CardRequest struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Notes       string `json:"notes"`
}

// Validate checks required fields and the email format.
func (r *CardRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.FullName, validation.Required.Error("full name is required"), appValidation.NotBlank),
		validation.Field(&r.PhoneNumber,
			validation.Required.Error("phone number is required"),
			appValidation.NotBlank,
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
		),
		validation.Field(&r.Address, validation.Required.Error("address is required"), appValidation.NotBlank),
	)
	return appValidation.WrapValidationError(err)
}

// ToInput converts the request to the use case input.
func (r *CardRequest) ToInput() usecase.CardInput {
	return usecase.CardInput{
		FullName:    r.FullName,
		PhoneNumber: r.PhoneNumber,
		Email:       r.Email,
		Address:     r.Address,
		Notes:       r.Notes,
	}
}
