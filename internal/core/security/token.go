// Package security holds the authentication core: password hashing, token
// issuance and verification, and the role gate applied to endpoints.
package security

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/usermgmt/accounts-api/internal/core/domain"
)

// claims is the signed token payload.
type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HMAC-signed JWTs. It holds no mutable
// state and is safe for concurrent use.
type TokenService struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	parser *jwt.Parser
}

// NewTokenService builds a TokenService. algorithm must name an HMAC method
// (HS256, HS384 or HS512). A zero ttl is allowed and yields tokens that
// expire in the second they are issued.
func NewTokenService(secret, algorithm string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token service: secret is required")
	}
	if ttl < 0 {
		return nil, fmt.Errorf("token service: negative lifetime %s", ttl)
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("token service: unsupported signing algorithm %q", algorithm)
	}

	return &TokenService{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{method.Alg()}),
			// expiry is checked against the caller's clock in Verify
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// Lifetime returns how long issued tokens stay valid.
func (s *TokenService) Lifetime() time.Duration {
	return s.ttl
}

// Issue signs a token for ref that expires at issuedAt + lifetime.
func (s *TokenService) Issue(ref domain.PrincipalRef, issuedAt time.Time) (string, time.Time, error) {
	if !domain.ValidRole(ref.Role) {
		return "", time.Time{}, fmt.Errorf("issue token: unknown role %q", ref.Role)
	}

	exp := jwt.NewNumericDate(issuedAt.Add(s.ttl))
	c := claims{
		Role: string(ref.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(ref.ID), 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: exp,
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, c).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}
	return signed, exp.Time, nil
}

// Verify checks the signature first and only then interprets the payload, so
// any tampering with header or payload bytes surfaces as
// domain.ErrTokenSignature. A token is valid while now <= exp.
func (s *TokenService) Verify(token string, now time.Time) (*domain.PrincipalRef, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return nil, domain.ErrTokenMalformed
	}

	sig, err := s.parser.DecodeSegment(parts[2])
	if err != nil {
		return nil, domain.ErrTokenMalformed
	}
	if err := s.method.Verify(parts[0]+"."+parts[1], sig, s.secret); err != nil {
		return nil, domain.ErrTokenSignature
	}

	var c claims
	if _, err := s.parser.ParseWithClaims(token, &c, s.key); err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, domain.ErrTokenSignature
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}

	if c.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing exp", domain.ErrTokenMalformed)
	}
	id, err := strconv.ParseUint(c.Subject, 10, 0)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("%w: bad subject", domain.ErrTokenMalformed)
	}
	role := domain.Role(c.Role)
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: bad role", domain.ErrTokenMalformed)
	}

	if now.Unix() > c.ExpiresAt.Unix() {
		return nil, domain.ErrTokenExpired
	}

	return &domain.PrincipalRef{ID: uint(id), Role: role, TokenID: c.ID}, nil
}

func (s *TokenService) key(*jwt.Token) (interface{}, error) {
	return s.secret, nil
}
