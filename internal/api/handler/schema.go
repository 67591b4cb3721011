package handler

import (
	"time"

	"github.com/usermgmt/accounts-api/internal/core/domain"
)

type createUserRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email"    validate:"required,max=100,dotcom"`
	Password string `json:"password" validate:"required,max=72"`
	IsAdmin  bool   `json:"is_admin"`
}

type createAdminRequest struct {
	Username     string `json:"username"       validate:"required,max=50"`
	Email        string `json:"email"          validate:"required,max=100,dotcom"`
	Password     string `json:"password"       validate:"required,max=72"`
	IsSuperAdmin bool   `json:"is_super_admin"`
}

// updateUserRequest fields are all optional; omitted fields keep their value.
type updateUserRequest struct {
	Username string `json:"username" validate:"omitempty,max=50"`
	Email    string `json:"email"    validate:"omitempty,max=100,dotcom"`
	Password string `json:"password" validate:"omitempty,max=72"`
	IsAdmin  *bool  `json:"is_admin"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type userResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type adminResponse struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	IsSuperAdmin bool      `json:"is_super_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

type dashboardResponse struct {
	Message            string            `json:"message"`
	AvailableEndpoints map[string]string `json:"available_endpoints"`
	Note               string            `json:"note"`
}

func toUserResponse(p *domain.Principal) userResponse {
	return userResponse{
		ID:        p.ID,
		Username:  p.Username,
		Email:     p.Email,
		IsAdmin:   p.IsAdmin,
		CreatedAt: p.CreatedAt,
	}
}

func toUserResponses(ps []*domain.Principal) []userResponse {
	out := make([]userResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toUserResponse(p))
	}
	return out
}

func toAdminResponse(p *domain.Principal) adminResponse {
	return adminResponse{
		ID:           p.ID,
		Username:     p.Username,
		Email:        p.Email,
		IsSuperAdmin: p.IsSuperAdmin,
		CreatedAt:    p.CreatedAt,
	}
}

// toProfileResponse renders a principal in the shape of its kind.
func toProfileResponse(p *domain.Principal) any {
	if p.Kind == domain.KindAdmin {
		return toAdminResponse(p)
	}
	return toUserResponse(p)
}
