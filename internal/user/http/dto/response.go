package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/cardvault/internal/user/domain"
)

// UserResponse is the public view of a user; the password hash is never exposed.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SignInResponse carries the bearer token. It is the only time the plain token is returned.
type SignInResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MapUserToResponse converts a domain user to its response.
func MapUserToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// MapSignInOutputToResponse converts a sign-in output to its response.
func MapSignInOutputToResponse(output *domain.SignInOutput) SignInResponse {
	return SignInResponse{Token: output.PlainToken, ExpiresAt: output.ExpiresAt}
}
