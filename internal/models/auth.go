package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	IP       string `json:"-"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        UserInfo  `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Role     UserRole `json:"role"`

	// Privileged callers see every subject and may run period-wide operations.
	Privileged bool `json:"privileged"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}

// AuthContext identifies the caller of one operation. It is resolved once
// per request and passed down explicitly.
type AuthContext struct {
	UserID string
	Role   UserRole
}

// AuthContext extracts the caller identity from token claims.
func (c *JWTClaims) AuthContext() AuthContext {
	if c == nil {
		return AuthContext{}
	}
	return AuthContext{UserID: c.UserID, Role: c.Role}
}

// IsPrivileged reports whether the caller may see every record.
func (a AuthContext) IsPrivileged() bool {
	return a.Role.IsPrivileged()
}

// CanAccess reports whether the caller may read or write a record owned by ownerID.
func (a AuthContext) CanAccess(ownerID string) bool {
	return a.IsPrivileged() || (a.UserID != "" && a.UserID == ownerID)
}
