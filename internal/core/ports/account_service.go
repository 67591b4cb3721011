package ports

import (
	"context"

	"github.com/usermgmt/accounts-api/internal/core/domain"
)

// CreatePrincipalInput carries the fields for a new principal. IsAdmin is
// only stored for users and IsSuperAdmin only for admins.
type CreatePrincipalInput struct {
	Username     string
	Email        string
	Password     string
	IsAdmin      bool
	IsSuperAdmin bool
}

// UpdatePrincipalInput carries a partial update. Empty strings and a nil
// IsAdmin leave the stored value unchanged.
type UpdatePrincipalInput struct {
	Username string
	Email    string
	Password string
	IsAdmin  *bool
}

// AccountService is the CRUD surface over the credential store.
type AccountService interface {
	Create(ctx context.Context, kind domain.Kind, in CreatePrincipalInput) (*domain.Principal, error)
	// Profile resolves the principal a token refers to.
	Profile(ctx context.Context, ref domain.PrincipalRef) (*domain.Principal, error)
	GetUser(ctx context.Context, id uint) (*domain.Principal, error)
	ListUsers(ctx context.Context, skip, limit int) ([]*domain.Principal, error)
	// UpdateUser and DeleteUser allow admins to touch any user and users to
	// touch only themselves.
	UpdateUser(ctx context.Context, actor domain.PrincipalRef, id uint, in UpdatePrincipalInput) (*domain.Principal, error)
	DeleteUser(ctx context.Context, actor domain.PrincipalRef, id uint) error
}
