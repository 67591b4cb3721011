package domain

import (
	"fmt"
	"strings"
	"time"
)

// Kind distinguishes the two disjoint principal spaces. Users and admins live
// in separate stores with independent id sequences.
type Kind string

const (
	KindUser  Kind = "user"
	KindAdmin Kind = "admin"
)

// Role is the privilege carried in a token.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

const (
	maxUsernameLen = 50
	maxEmailLen    = 100
)

// Principal is a stored identity of either kind. IsAdmin only applies to
// users, IsSuperAdmin only to admins.
type Principal struct {
	ID           uint      `json:"id"`
	Kind         Kind      `json:"kind"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	IsSuperAdmin bool      `json:"is_super_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Role derives the token role from kind and privilege flag.
func (p *Principal) Role() Role {
	if p.Kind == KindAdmin {
		if p.IsSuperAdmin {
			return RoleSuperAdmin
		}
		return RoleAdmin
	}
	return RoleUser
}

// Ref returns the reference that gets encoded into a token for p.
func (p *Principal) Ref() PrincipalRef {
	return PrincipalRef{ID: p.ID, Role: p.Role()}
}

// PrincipalRef is what a verified token vouches for. It is trusted as-is;
// nothing re-reads the store to confirm it.
type PrincipalRef struct {
	ID      uint
	Role    Role
	TokenID string
}

// Kind maps the role back to its principal space. Unknown roles yield "".
func (r PrincipalRef) Kind() Kind {
	switch r.Role {
	case RoleUser:
		return KindUser
	case RoleAdmin, RoleSuperAdmin:
		return KindAdmin
	default:
		return ""
	}
}

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleAdmin || r == RoleSuperAdmin
}

// ValidateEmail applies the account email rule: non-empty, contains '@',
// ends in ".com".
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if len(email) > maxEmailLen {
		return fmt.Errorf("%w: email must be at most %d characters", ErrValidation, maxEmailLen)
	}
	if !strings.Contains(email, "@") || !strings.HasSuffix(email, ".com") {
		return fmt.Errorf("%w: email must contain '@' and end with '.com'", ErrValidation)
	}
	return nil
}

// ValidateUsername rejects empty, padded or oversized usernames.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	if strings.TrimSpace(username) != username {
		return fmt.Errorf("%w: username must not start or end with whitespace", ErrValidation)
	}
	if len(username) > maxUsernameLen {
		return fmt.Errorf("%w: username must be at most %d characters", ErrValidation, maxUsernameLen)
	}
	return nil
}
