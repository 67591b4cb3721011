package ports

import (
	"context"
	"time"

	"github.com/usermgmt/accounts-api/internal/core/domain"
)

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Principal *domain.Principal
}

type AuthService interface {
	Login(ctx context.Context, kind domain.Kind, username, password string) (*LoginResult, error)
}

// LoginThrottle counts failed logins per (kind, username) and locks the pair
// out once a threshold is reached.
type LoginThrottle interface {
	Locked(ctx context.Context, kind domain.Kind, username string) (bool, error)
	RecordFailure(ctx context.Context, kind domain.Kind, username string) (int64, error)
	Reset(ctx context.Context, kind domain.Kind, username string) error
}
