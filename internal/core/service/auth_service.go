package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/usermgmt/accounts-api/internal/core/domain"
	"github.com/usermgmt/accounts-api/internal/core/ports"
	"github.com/usermgmt/accounts-api/pkg/metrics"
)

// AuthService implements login for both principal kinds.
type AuthService struct {
	store    ports.CredentialStore
	hasher   ports.PasswordHasher
	issuer   ports.TokenIssuer
	throttle ports.LoginThrottle
	audit    ports.AuditPublisher
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthService wires the login flow. throttle and audit may be nil.
func NewAuthService(
	store ports.CredentialStore,
	hasher ports.PasswordHasher,
	issuer ports.TokenIssuer,
	throttle ports.LoginThrottle,
	audit ports.AuditPublisher,
	log zerolog.Logger,
) *AuthService {
	if throttle == nil {
		throttle = nopThrottle{}
	}
	if audit == nil {
		audit = nopAudit{}
	}
	return &AuthService{
		store:    store,
		hasher:   hasher,
		issuer:   issuer,
		throttle: throttle,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
}

// Login verifies username/password against the store for kind and mints a
// token. Unknown usernames and wrong passwords both yield
// domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, kind domain.Kind, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues(string(kind), "invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	repo, err := s.store.For(kind)
	if err != nil {
		return nil, err
	}

	locked, err := s.throttle.Locked(ctx, kind, username)
	if err != nil {
		s.log.Warn().Err(err).Str("kind", string(kind)).Msg("login throttle check failed, continuing")
	} else if locked {
		metrics.LoginsTotal.WithLabelValues(string(kind), "throttled").Inc()
		return nil, domain.ErrTooManyAttempts
	}

	p, err := repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.fail(ctx, kind, username, "unknown username")
			return nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues(string(kind), "error").Inc()
		return nil, err
	}

	if !s.hasher.Verify(password, p.PasswordHash) {
		s.fail(ctx, kind, username, "wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.throttle.Reset(ctx, kind, username); err != nil {
		s.log.Warn().Err(err).Str("kind", string(kind)).Msg("failed to reset login throttle")
	}

	token, expiresAt, err := s.issuer.Issue(p.Ref(), s.now())
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(string(kind), "error").Inc()
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues(string(kind), "success").Inc()
	s.audit.Publish(domain.AuditEvent{
		Action:     domain.AuditLoginSucceeded,
		Kind:       kind,
		SubjectID:  p.ID,
		Username:   p.Username,
		ActorID:    p.ID,
		ActorRole:  p.Role(),
		OccurredAt: s.now().UTC(),
	})
	s.log.Info().Str("kind", string(kind)).Uint("id", p.ID).Msg("login succeeded")

	return &ports.LoginResult{Token: token, ExpiresAt: expiresAt, Principal: p}, nil
}

func (s *AuthService) fail(ctx context.Context, kind domain.Kind, username, reason string) {
	metrics.LoginsTotal.WithLabelValues(string(kind), "invalid_credentials").Inc()

	n, err := s.throttle.RecordFailure(ctx, kind, username)
	if err != nil {
		s.log.Warn().Err(err).Str("kind", string(kind)).Msg("failed to record login failure")
	}

	s.audit.Publish(domain.AuditEvent{
		Action:     domain.AuditLoginFailed,
		Kind:       kind,
		Username:   username,
		Detail:     reason,
		OccurredAt: s.now().UTC(),
	})
	s.log.Info().Str("kind", string(kind)).Int64("failures", n).Str("reason", reason).Msg("login failed")
}

type nopThrottle struct{}

func (nopThrottle) Locked(context.Context, domain.Kind, string) (bool, error) { return false, nil }
func (nopThrottle) RecordFailure(context.Context, domain.Kind, string) (int64, error) {
	return 0, nil
}
func (nopThrottle) Reset(context.Context, domain.Kind, string) error { return nil }

type nopAudit struct{}

func (nopAudit) Publish(domain.AuditEvent) {}
