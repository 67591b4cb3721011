package security

import "github.com/usermgmt/accounts-api/internal/core/domain"

// Requirement is the minimum privilege an endpoint declares.
type Requirement int

const (
	RequireNone Requirement = iota
	RequireUser
	RequireAdmin
	RequireSuperAdmin
)

func (r Requirement) String() string {
	switch r {
	case RequireNone:
		return "none"
	case RequireUser:
		return "user"
	case RequireAdmin:
		return "admin"
	case RequireSuperAdmin:
		return "super_admin"
	default:
		return "unknown"
	}
}

// Authorize decides whether ref may pass req.
//
//	user        → any user or admin
//	admin       → admins only
//	super_admin → admins carrying the super-admin flag
//
// A nil ref on a gated endpoint is an authentication failure; a known
// principal without the privilege gets domain.ErrForbidden. Unknown
// requirements deny.
func Authorize(ref *domain.PrincipalRef, req Requirement) error {
	if req == RequireNone {
		return nil
	}
	if ref == nil {
		return domain.ErrUnauthenticated
	}

	kind := ref.Kind()
	switch req {
	case RequireUser:
		if kind == domain.KindUser || kind == domain.KindAdmin {
			return nil
		}
	case RequireAdmin:
		if kind == domain.KindAdmin {
			return nil
		}
	case RequireSuperAdmin:
		if ref.Role == domain.RoleSuperAdmin {
			return nil
		}
	}
	return domain.ErrForbidden
}
