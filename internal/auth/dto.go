// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (t *TokenPair) IsZero() bool {
	return t == nil || (t.AccessToken == "" && t.RefreshToken == "")
}

// User is the record returned by /auth/me. Tier lives in
// stripe_subscription_tier and defaults to free when the backend
// omits it.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	FullName    string    `json:"full_name"`
	IsActive    bool      `json:"is_active"`
	IsVerified  bool      `json:"is_verified"`
	IsSuperuser bool      `json:"is_superuser"`
	Role        string    `json:"role"`
	Tier        string    `json:"stripe_subscription_tier"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	RoleUser    = "user"
	RoleSupport = "support"
	RoleAdmin   = "admin"
)

// IsElevated reports whether the user may reach admin/support surfaces.
func (u *User) IsElevated() bool {
	if u == nil {
		return false
	}
	return u.IsSuperuser || u.Role == RoleAdmin || u.Role == RoleSupport
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=100"`
	Username *string `json:"username,omitempty"  validate:"omitempty,min=3,max=50"`
}
