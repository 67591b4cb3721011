package ports

import (
	"time"

	"github.com/usermgmt/accounts-api/internal/core/domain"
)

// PasswordHasher hashes and checks passwords. Verify never reports success
// for a malformed hash.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenIssuer mints bearer tokens.
type TokenIssuer interface {
	Issue(ref domain.PrincipalRef, issuedAt time.Time) (token string, expiresAt time.Time, err error)
}

// TokenVerifier checks a bearer token and returns the principal it carries.
type TokenVerifier interface {
	Verify(token string, now time.Time) (*domain.PrincipalRef, error)
}
