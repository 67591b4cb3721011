// Command provision-admin creates an admin record in the admin store. Admins
// cannot register over HTTP, so the first one is created with this tool.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/usermgmt/accounts-api/internal/core/domain"
	"github.com/usermgmt/accounts-api/internal/core/ports"
	"github.com/usermgmt/accounts-api/internal/core/security"
	"github.com/usermgmt/accounts-api/internal/core/service"
	"github.com/usermgmt/accounts-api/internal/infrastructure/config"
	mysqlstore "github.com/usermgmt/accounts-api/internal/infrastructure/db/mysql"
	"github.com/usermgmt/accounts-api/pkg/logger"
)

type options struct {
	username      string
	email         string
	password      string
	passwordStdin bool
	superAdmin    bool
}

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "provision-admin",
		Short: "Create an admin account in ADMIN_DATABASE_URL",
		Example: `  provision-admin --username root --email root@corp.com --super-admin --password-stdin < secret.txt
  ADMIN_PASSWORD=... provision-admin --username ops --email ops@corp.com`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := resolvePassword(opts, cmd.InOrStdin())
			if err != nil {
				return err
			}
			opts.password = password
			return provision(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.username, "username", "", "admin username (required)")
	f.StringVar(&opts.email, "email", "", "admin email, must contain '@' and end with '.com' (required)")
	f.StringVar(&opts.password, "password", "", "admin password; prefer --password-stdin or ADMIN_PASSWORD")
	f.BoolVar(&opts.passwordStdin, "password-stdin", false, "read the password from the first line of stdin")
	f.BoolVar(&opts.superAdmin, "super-admin", false, "grant the super admin flag")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")

	return cmd
}

func resolvePassword(opts options, stdin io.Reader) (string, error) {
	switch {
	case opts.passwordStdin:
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return "", errors.New("empty password on stdin")
		}
		return line, nil
	case opts.password != "":
		return opts.password, nil
	case os.Getenv("ADMIN_PASSWORD") != "":
		return os.Getenv("ADMIN_PASSWORD"), nil
	default:
		return "", errors.New("no password given: use --password-stdin, --password or ADMIN_PASSWORD")
	}
}

func provision(ctx context.Context, opts options, out io.Writer) error {
	log := logger.Init(logger.Options{Level: "warn", Service: "provision-admin", Output: os.Stderr})

	dbCfg, err := config.LoadDatabase(ctx)
	if err != nil {
		return err
	}
	db, err := mysqlstore.Connect(ctx, mysqlstore.Config{DSN: dbCfg.AdminsDSN, MaxOpenConns: 1})
	if err != nil {
		return err
	}
	defer mysqlstore.Close(db)

	if err := mysqlstore.MigrateAdmins(db); err != nil {
		return err
	}

	store := ports.CredentialStore{Admins: mysqlstore.NewAdminRepository(db)}
	admin, err := createAdmin(ctx, store, opts, log)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "created admin %q (id=%d, role=%s)\n", admin.Username, admin.ID, admin.Role())
	return err
}

func createAdmin(ctx context.Context, store ports.CredentialStore, opts options, log zerolog.Logger) (*domain.Principal, error) {
	accounts := service.NewAccountService(store, security.NewBcryptHasher(bcrypt.DefaultCost), nil, log)
	return accounts.Create(ctx, domain.KindAdmin, ports.CreatePrincipalInput{
		Username:     opts.username,
		Email:        opts.email,
		Password:     opts.password,
		IsSuperAdmin: opts.superAdmin,
	})
}
