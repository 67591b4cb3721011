package ports

import (
	"context"
	"fmt"

	"github.com/usermgmt/accounts-api/internal/core/domain"
)

// PrincipalRepository persists principals of a single kind.
//
// Create and Update return domain.ErrUniqueViolation when the username or
// email is already taken; FindByID, Update and Delete return
// domain.ErrNotFound for unknown ids.
type PrincipalRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Principal, error)
	FindByID(ctx context.Context, id uint) (*domain.Principal, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Principal, error)
	Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error)
	Update(ctx context.Context, p *domain.Principal) (*domain.Principal, error)
	Delete(ctx context.Context, id uint) error
}

// CredentialStore routes each principal kind to its own repository.
type CredentialStore struct {
	Users  PrincipalRepository
	Admins PrincipalRepository
}

// For returns the repository holding principals of the given kind.
func (s CredentialStore) For(kind domain.Kind) (PrincipalRepository, error) {
	var repo PrincipalRepository
	switch kind {
	case domain.KindUser:
		repo = s.Users
	case domain.KindAdmin:
		repo = s.Admins
	default:
		return nil, fmt.Errorf("credential store: unknown principal kind %q", kind)
	}
	if repo == nil {
		return nil, fmt.Errorf("credential store: no repository configured for %s", kind)
	}
	return repo, nil
}
