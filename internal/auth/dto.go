package auth

import (
	"github.com/aurumjoyeria/aurum-backend/internal/users"
	"github.com/aurumjoyeria/aurum-backend/pkg/enums"
)

// RegisterRequest contains the payload required to create an account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=1,max=120"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest carries the credential pair.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is the bearer-token envelope returned by register and login.
type TokenResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	User        *users.UserDTO `json:"user"`
}

// LoginResult pairs the token envelope with the opaque browser session ID.
// The session ID travels only in the cookie, never in the body.
type LoginResult struct {
	TokenResponse
	SessionID string `json:"-"`
}

// UpdateProfileRequest updates the display name.
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// ChangePasswordRequest swaps the password for a logged-in user.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// VerifyCodeRequest carries a pasted one-time code.
type VerifyCodeRequest struct {
	Code string `json:"code" validate:"required"`
}

// RequestPasswordResetRequest starts the recovery flow.
type RequestPasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the recovery flow.
type ResetPasswordRequest struct {
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// RequestEmailChangeRequest stages a new address.
type RequestEmailChangeRequest struct {
	NewEmail string `json:"new_email" validate:"required,email"`
}

// PromoteRequest assigns a role to a user.
type PromoteRequest struct {
	Role enums.Role `json:"role" validate:"required"`
}

// UserListResponse is the admin listing envelope.
type UserListResponse struct {
	Users  []users.UserDTO `json:"users"`
	Total  int64           `json:"total"`
	Offset int             `json:"offset"`
	Limit  int             `json:"limit"`
}

// VerifyLinkStatus classifies the outcome of the unauthenticated link flow.
type VerifyLinkStatus string

const (
	VerifyLinkOK      VerifyLinkStatus = "ok"
	VerifyLinkExpired VerifyLinkStatus = "expired"
	VerifyLinkError   VerifyLinkStatus = "error"
)
