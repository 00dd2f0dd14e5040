package domain

import (
	"context"
	"errors"
	"time"
)

// Common domain errors
var ErrNotFound = errors.New("resource not found")

// User roles
const (
	RoleCandidate = "candidate"
	RoleEmployer  = "employer"
	RoleAdmin     = "admin"
)

type User struct {
	ID             string     `json:"id" validate:"required"`
	Fullname       string     `json:"fullname" validate:"max=200"`
	Email          string     `json:"email" validate:"omitempty,email"`
	Role           string     `json:"role" validate:"omitempty,oneof=candidate employer admin"`
	Skills         []string   `json:"skills" validate:"dive,skill_token"`
	Bio            *string    `json:"bio,omitempty"`
	IsJobSeeking   bool       `json:"is_job_seeking"`
	IsPublic       bool       `json:"is_public"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// BioText returns the bio or an empty string.
func (u *User) BioText() string {
	if u.Bio == nil {
		return ""
	}
	return *u.Bio
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	// FetchJobSeekers returns every user flagged as job-seeking in one read.
	FetchJobSeekers(ctx context.Context) ([]User, error)
}

type AuthUsecase interface {
	GetCurrentUser(ctx context.Context, id string) (*User, error)
}

// CtxKey names the values AuthMiddleware stores on the request context for
// the authenticated caller.
type CtxKey string

const (
	KeyUserID    CtxKey = "user_id"
	KeyUserEmail CtxKey = "user_email"
	KeyUserRole  CtxKey = "user_role"
)
