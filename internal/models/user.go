package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRole determines which operations a caller may perform. Applicants and
// recruiters are conversation participants; admins hold the moderation
// capability and are never participants.
type UserRole string

const (
	RoleApplicant UserRole = "applicant"
	RoleRecruiter UserRole = "recruiter"
	RoleAdmin     UserRole = "admin"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	Role         UserRole  `json:"role" db:"role"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Validate checks basic user fields
func (u *User) Validate() error {
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("invalid email")
	}
	if u.DisplayName == "" {
		return fmt.Errorf("display name is required")
	}
	if len(u.DisplayName) < 2 || len(u.DisplayName) > 100 {
		return fmt.Errorf("display name length invalid")
	}
	switch u.Role {
	case RoleApplicant, RoleRecruiter, RoleAdmin:
	default:
		return fmt.Errorf("unknown role %q", u.Role)
	}
	return nil
}

type CreateUserRequest struct {
	Email       string   `json:"email" binding:"required,email"`
	Password    string   `json:"password" binding:"required,min=8"`
	DisplayName string   `json:"display_name" binding:"required"`
	Role        UserRole `json:"role" binding:"required,oneof=applicant recruiter"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
