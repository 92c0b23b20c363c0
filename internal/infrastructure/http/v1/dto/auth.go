package dto

import (
	"time"

	"pdv/internal/core/security"
	"pdv/internal/domain/auth"
)

// --- Request DTOs ---

// LoginRequest for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ToCredentials converts to domain credentials.
func (r *LoginRequest) ToCredentials() auth.Credentials {
	return auth.Credentials{
		Email:    r.Email,
		Password: r.Password,
	}
}

// CreateUserRequest is used by admins to add operators.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required,max=100"`
	Role     string `json:"role" binding:"omitempty,oneof=admin operator viewer"`
}

// ToDomain converts to the service request.
func (r *CreateUserRequest) ToDomain() auth.CreateUserRequest {
	return auth.CreateUserRequest{
		Email:    r.Email,
		Password: r.Password,
		Name:     r.Name,
		Role:     security.Role(r.Role),
	}
}

// SetActiveRequest enables or disables a user.
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// --- Response DTOs ---

// UserResponse represents user in API response.
type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// FromUser creates response from domain user.
func FromUser(u *auth.User) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		Name:        u.DisplayName(),
		Role:        string(u.Role),
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// MeResponse is the current user with the permission matrix of the role,
// so the front-end can hide what the user cannot do.
type MeResponse struct {
	UserResponse
	Permissions map[string][]security.Action `json:"permissions"`
}

// NewMeResponse builds the /auth/me body.
func NewMeResponse(u *auth.User) MeResponse {
	resources := []string{
		security.ResourceProducts,
		security.ResourceClients,
		security.ResourceSellers,
		security.ResourceSales,
		security.ResourceCashRegisters,
		security.ResourceReports,
		security.ResourceUsers,
	}
	perms := make(map[string][]security.Action, len(resources))
	for _, r := range resources {
		if actions := security.Actions(u.Role, r); len(actions) > 0 {
			perms[r] = actions
		}
	}
	return MeResponse{UserResponse: FromUser(u), Permissions: perms}
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}

// FromLoginResult maps the service result.
func FromLoginResult(r *auth.LoginResult) LoginResponse {
	return LoginResponse{
		AccessToken: r.AccessToken,
		TokenType:   r.TokenType,
		ExpiresAt:   r.ExpiresAt,
		User:        FromUser(r.User),
	}
}
