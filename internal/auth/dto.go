package auth

import "github.com/grambazaar/storefront-backend/internal/users"

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone,omitempty"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdate applies only the non-empty fields.
type ProfileUpdate struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// UserList is the admin view of every account.
type UserList struct {
	Count int             `json:"count"`
	Users []users.UserDTO `json:"users"`
}

// AuthResponse contains the bearer token and the signed-in user.
type AuthResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}
