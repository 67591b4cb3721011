package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usermgmt/accounts-api/internal/core/domain"
)

var issuedAt = time.Unix(1_700_000_000, 0).UTC()

func newTokenService(t *testing.T, ttl time.Duration) *TokenService {
	t.Helper()
	svc, err := NewTokenService("test-secret", "HS256", ttl)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_Validation(t *testing.T) {
	_, err := NewTokenService("", "HS256", time.Minute)
	assert.Error(t, err, "empty secret")

	_, err = NewTokenService("secret", "RS256", time.Minute)
	assert.Error(t, err, "non-HMAC algorithm")

	_, err = NewTokenService("secret", "none", time.Minute)
	assert.Error(t, err, "none algorithm")

	_, err = NewTokenService("secret", "HS256", -time.Second)
	assert.Error(t, err, "negative lifetime")

	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		_, err = NewTokenService("secret", alg, 0)
		assert.NoError(t, err, alg)
	}
}

func TestTokenService_IssueVerify_RoundTrip(t *testing.T) {
	svc := newTokenService(t, 30*time.Minute)

	for _, role := range []domain.Role{domain.RoleUser, domain.RoleAdmin, domain.RoleSuperAdmin} {
		token, exp, err := svc.Issue(domain.PrincipalRef{ID: 42, Role: role}, issuedAt)
		require.NoError(t, err)
		assert.Equal(t, issuedAt.Add(30*time.Minute).Unix(), exp.Unix())

		ref, err := svc.Verify(token, issuedAt.Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, uint(42), ref.ID)
		assert.Equal(t, role, ref.Role)
		assert.NotEmpty(t, ref.TokenID)
	}
}

func TestTokenService_Issue_UnknownRole(t *testing.T) {
	svc := newTokenService(t, time.Minute)
	_, _, err := svc.Issue(domain.PrincipalRef{ID: 1, Role: "root"}, issuedAt)
	assert.Error(t, err)
}

func TestTokenService_Verify_ExpiryBoundary(t *testing.T) {
	svc := newTokenService(t, 30*time.Minute)
	token, exp, err := svc.Issue(domain.PrincipalRef{ID: 7, Role: domain.RoleUser}, issuedAt)
	require.NoError(t, err)

	_, err = svc.Verify(token, exp)
	assert.NoError(t, err, "valid at exactly exp")

	_, err = svc.Verify(token, exp.Add(time.Second))
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestTokenService_Verify_ZeroLifetimeExpiresAfterOneSecond(t *testing.T) {
	svc := newTokenService(t, 0)
	token, _, err := svc.Issue(domain.PrincipalRef{ID: 7, Role: domain.RoleUser}, issuedAt)
	require.NoError(t, err)

	_, err = svc.Verify(token, issuedAt.Add(time.Second))
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestTokenService_Verify_TamperedPayload(t *testing.T) {
	svc := newTokenService(t, time.Hour)
	token, _, err := svc.Issue(domain.PrincipalRef{ID: 3, Role: domain.RoleUser}, issuedAt)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	payload := []byte(parts[1])
	for i := range payload {
		mutated := make([]byte, len(payload))
		copy(mutated, payload)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		tampered := parts[0] + "." + string(mutated) + "." + parts[2]

		_, err := svc.Verify(tampered, issuedAt)
		assert.ErrorIs(t, err, domain.ErrTokenSignature, "byte %d", i)
	}
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	other, err := NewTokenService("other-secret", "HS256", time.Hour)
	require.NoError(t, err)
	token, _, err := other.Issue(domain.PrincipalRef{ID: 3, Role: domain.RoleAdmin}, issuedAt)
	require.NoError(t, err)

	_, err = newTokenService(t, time.Hour).Verify(token, issuedAt)
	assert.ErrorIs(t, err, domain.ErrTokenSignature)
}

func TestTokenService_Verify_AlgorithmMismatch(t *testing.T) {
	other, err := NewTokenService("test-secret", "HS512", time.Hour)
	require.NoError(t, err)
	token, _, err := other.Issue(domain.PrincipalRef{ID: 3, Role: domain.RoleAdmin}, issuedAt)
	require.NoError(t, err)

	_, err = newTokenService(t, time.Hour).Verify(token, issuedAt)
	assert.ErrorIs(t, err, domain.ErrTokenSignature)
}

func TestTokenService_Verify_Malformed(t *testing.T) {
	svc := newTokenService(t, time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b", "a.b.c.d", ".payload.sig", "eyJhbGciOiJIUzI1NiJ9.e30.***"} {
		_, err := svc.Verify(token, issuedAt)
		assert.ErrorIs(t, err, domain.ErrTokenMalformed, "token %q", token)
	}
}

func TestTokenService_Verify_SignedButBadClaims(t *testing.T) {
	svc := newTokenService(t, time.Hour)
	exp := jwt.NewNumericDate(issuedAt.Add(time.Hour))

	cases := map[string]jwt.Claims{
		"non-numeric subject": claims{Role: "user", RegisteredClaims: jwt.RegisteredClaims{Subject: "alice", ExpiresAt: exp}},
		"zero subject":        claims{Role: "user", RegisteredClaims: jwt.RegisteredClaims{Subject: "0", ExpiresAt: exp}},
		"unknown role":        claims{Role: "root", RegisteredClaims: jwt.RegisteredClaims{Subject: "1", ExpiresAt: exp}},
		"missing exp":         claims{Role: "user", RegisteredClaims: jwt.RegisteredClaims{Subject: "1"}},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("test-secret"))
			require.NoError(t, err)

			_, err = svc.Verify(token, issuedAt)
			assert.ErrorIs(t, err, domain.ErrTokenMalformed)
		})
	}
}

func TestTokenService_Verify_NoneAlgorithm(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims{
		Role:             "super_admin",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1", ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTokenService(t, time.Hour).Verify(token, issuedAt)
	assert.ErrorIs(t, err, domain.ErrTokenSignature)
}
