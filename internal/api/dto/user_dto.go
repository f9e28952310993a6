package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// RegisterRequest is the account creation payload. No role field: every new
// account starts as USER and nothing else.
type RegisterRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ChangePasswordRequest swaps the caller's password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// PasswordResetRequest starts a reset flow.
type PasswordResetRequest struct {
	Name string `json:"name"`
}

// PasswordResetConfirmRequest redeems a reset token.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// UpdateRightsRequest replaces a user's role set.
type UpdateRightsRequest struct {
	Roles []string `json:"roles"`
}

// UserResponse is the public projection of an account.
type UserResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Roles     []domain.Role `json:"roles"`
	CreatedAt time.Time     `json:"created_at"`
}

// UserProfileResponse is an account with its ticket relations.
type UserProfileResponse struct {
	UserResponse
	Posted   []TicketSummary `json:"posted"`
	Assigned []TicketSummary `json:"assigned"`
}
