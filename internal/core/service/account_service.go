package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/usermgmt/accounts-api/internal/core/domain"
	"github.com/usermgmt/accounts-api/internal/core/ports"
	"github.com/usermgmt/accounts-api/pkg/metrics"
)

const (
	defaultListLimit = 100
	maxListLimit     = 100
)

// AccountService implements ports.AccountService.
type AccountService struct {
	store  ports.CredentialStore
	hasher ports.PasswordHasher
	audit  ports.AuditPublisher
	log    zerolog.Logger
	now    func() time.Time
}

// NewAccountService wires account CRUD. audit may be nil.
func NewAccountService(store ports.CredentialStore, hasher ports.PasswordHasher, audit ports.AuditPublisher, log zerolog.Logger) *AccountService {
	if audit == nil {
		audit = nopAudit{}
	}
	return &AccountService{store: store, hasher: hasher, audit: audit, log: log, now: time.Now}
}

// Create validates the input, hashes the password and stores a new
// principal of the given kind. Nothing is written if validation or hashing
// fails.
func (s *AccountService) Create(ctx context.Context, kind domain.Kind, in ports.CreatePrincipalInput) (*domain.Principal, error) {
	repo, err := s.store.For(kind)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := domain.ValidateEmail(in.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := &domain.Principal{
		Kind:         kind,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	switch kind {
	case domain.KindUser:
		p.IsAdmin = in.IsAdmin
	case domain.KindAdmin:
		p.IsSuperAdmin = in.IsSuperAdmin
	}

	created, err := repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}

	metrics.PrincipalMutationsTotal.WithLabelValues(string(kind), "create").Inc()
	s.audit.Publish(domain.AuditEvent{
		Action:     domain.AuditPrincipalCreated,
		Kind:       kind,
		SubjectID:  created.ID,
		Username:   created.Username,
		OccurredAt: now,
	})
	s.log.Info().Str("kind", string(kind)).Uint("id", created.ID).Msg("principal created")

	return created, nil
}

// Profile loads the record behind a verified token.
func (s *AccountService) Profile(ctx context.Context, ref domain.PrincipalRef) (*domain.Principal, error) {
	repo, err := s.store.For(ref.Kind())
	if err != nil {
		return nil, err
	}
	return repo.FindByID(ctx, ref.ID)
}

func (s *AccountService) GetUser(ctx context.Context, id uint) (*domain.Principal, error) {
	repo, err := s.store.For(domain.KindUser)
	if err != nil {
		return nil, err
	}
	return repo.FindByID(ctx, id)
}

// ListUsers returns up to limit users after skipping skip. limit defaults to
// and is capped at 100.
func (s *AccountService) ListUsers(ctx context.Context, skip, limit int) ([]*domain.Principal, error) {
	repo, err := s.store.For(domain.KindUser)
	if err != nil {
		return nil, err
	}
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return repo.List(ctx, skip, limit)
}

// UpdateUser applies a partial update. A user actor may only update itself
// and cannot change its own is_admin flag.
func (s *AccountService) UpdateUser(ctx context.Context, actor domain.PrincipalRef, id uint, in ports.UpdatePrincipalInput) (*domain.Principal, error) {
	if err := mayModifyUser(actor, id); err != nil {
		return nil, err
	}
	repo, err := s.store.For(domain.KindUser)
	if err != nil {
		return nil, err
	}

	if in.Username != "" {
		if err := domain.ValidateUsername(in.Username); err != nil {
			return nil, err
		}
	}
	if in.Email != "" {
		if err := domain.ValidateEmail(in.Email); err != nil {
			return nil, err
		}
	}

	p, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Username != "" {
		p.Username = in.Username
	}
	if in.Email != "" {
		p.Email = in.Email
	}
	if in.Password != "" {
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return nil, err
		}
		p.PasswordHash = hash
	}
	if in.IsAdmin != nil && actor.Kind() == domain.KindAdmin {
		p.IsAdmin = *in.IsAdmin
	}
	p.UpdatedAt = s.now().UTC()

	updated, err := repo.Update(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}

	metrics.PrincipalMutationsTotal.WithLabelValues(string(domain.KindUser), "update").Inc()
	s.audit.Publish(domain.AuditEvent{
		Action:     domain.AuditPrincipalUpdated,
		Kind:       domain.KindUser,
		SubjectID:  updated.ID,
		Username:   updated.Username,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		OccurredAt: p.UpdatedAt,
	})
	s.log.Info().Uint("id", id).Str("actor_role", string(actor.Role)).Uint("actor_id", actor.ID).Msg("user updated")

	return updated, nil
}

// DeleteUser removes a user immediately. Same actor rule as UpdateUser.
func (s *AccountService) DeleteUser(ctx context.Context, actor domain.PrincipalRef, id uint) error {
	if err := mayModifyUser(actor, id); err != nil {
		return err
	}
	repo, err := s.store.For(domain.KindUser)
	if err != nil {
		return err
	}

	if err := repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	metrics.PrincipalMutationsTotal.WithLabelValues(string(domain.KindUser), "delete").Inc()
	s.audit.Publish(domain.AuditEvent{
		Action:     domain.AuditPrincipalDeleted,
		Kind:       domain.KindUser,
		SubjectID:  id,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		OccurredAt: s.now().UTC(),
	})
	s.log.Info().Uint("id", id).Str("actor_role", string(actor.Role)).Uint("actor_id", actor.ID).Msg("user deleted")

	return nil
}

func mayModifyUser(actor domain.PrincipalRef, id uint) error {
	switch actor.Kind() {
	case domain.KindAdmin:
		return nil
	case domain.KindUser:
		if actor.ID == id {
			return nil
		}
	}
	return domain.ErrForbidden
}
