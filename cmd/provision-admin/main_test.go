package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usermgmt/accounts-api/internal/core/domain"
	"github.com/usermgmt/accounts-api/internal/core/ports"
)

type adminRepo struct {
	ports.PrincipalRepository
	created []*domain.Principal
	err     error
}

func (r *adminRepo) Create(_ context.Context, p *domain.Principal) (*domain.Principal, error) {
	if r.err != nil {
		return nil, r.err
	}
	cp := *p
	cp.ID = uint(len(r.created) + 1)
	r.created = append(r.created, &cp)
	return &cp, nil
}

func TestResolvePassword(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")

	pw, err := resolvePassword(options{passwordStdin: true}, strings.NewReader("s3cret\nignored\n"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)

	pw, err = resolvePassword(options{passwordStdin: true}, strings.NewReader("no-newline"))
	require.NoError(t, err)
	assert.Equal(t, "no-newline", pw)

	_, err = resolvePassword(options{passwordStdin: true}, strings.NewReader("\n"))
	assert.Error(t, err)

	pw, err = resolvePassword(options{password: "flag"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "flag", pw)

	_, err = resolvePassword(options{}, nil)
	assert.Error(t, err)

	t.Setenv("ADMIN_PASSWORD", "from-env")
	pw, err = resolvePassword(options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", pw)
}

func TestCreateAdmin(t *testing.T) {
	repo := &adminRepo{}
	store := ports.CredentialStore{Admins: repo}

	admin, err := createAdmin(context.Background(), store, options{
		username: "root", email: "root@corp.com", password: "pw", superAdmin: true,
	}, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, domain.RoleSuperAdmin, admin.Role())
	require.Len(t, repo.created, 1)
	assert.NotEqual(t, "pw", repo.created[0].PasswordHash)
}

func TestCreateAdmin_Errors(t *testing.T) {
	_, err := createAdmin(context.Background(), ports.CredentialStore{Admins: &adminRepo{}}, options{
		username: "root", email: "root@corp.org", password: "pw",
	}, zerolog.Nop())
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = createAdmin(context.Background(), ports.CredentialStore{Admins: &adminRepo{err: domain.ErrUniqueViolation}}, options{
		username: "root", email: "root@corp.com", password: "pw",
	}, zerolog.Nop())
	assert.True(t, errors.Is(err, domain.ErrUniqueViolation))
}

func TestCommand_RequiresFlags(t *testing.T) {
	cmd := newCommand()
	cmd.SetArgs([]string{"--username", "root"})
	cmd.SetOut(&strings.Builder{})
	cmd.SetErr(&strings.Builder{})
	assert.Error(t, cmd.Execute())
}
