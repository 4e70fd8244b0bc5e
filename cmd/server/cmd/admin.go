package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pankhokiudaan/server/internal/apperr"
	"github.com/pankhokiudaan/server/internal/auth"
	"github.com/pankhokiudaan/server/internal/config"
	"github.com/pankhokiudaan/server/internal/domain/admins"
	"github.com/pankhokiudaan/server/internal/storage/postgres"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newAdminCommand(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
		Long: `Manage the accounts that can sign in to the admin panel.

Examples:
  # Create an admin (password read from stdin when --password is omitted)
  server admin create --username asha --email asha@example.org --role superadmin

  # Block an admin from signing in
  server admin deactivate asha

  # Print a bcrypt hash for a password
  echo -n 's3cret!' | server admin hash-password`,
	}
	cmd.AddCommand(
		newAdminCreateCommand(global),
		newAdminSetActiveCommand(global, "activate", true),
		newAdminSetActiveCommand(global, "deactivate", false),
		newHashPasswordCommand(),
	)
	return cmd
}

type adminCreateOptions struct {
	username string
	email    string
	password string
	role     string
}

func newAdminCreateCommand(global *globalOptions) *cobra.Command {
	opts := &adminCreateOptions{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.password == "" {
				password, err := readSecret(cmd.InOrStdin())
				if err != nil {
					return err
				}
				opts.password = password
			}
			cfg, err := global.loadConfig()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			return createAdmin(cmd, cfg, *opts)
		},
	}
	cmd.Flags().StringVar(&opts.username, "username", "", "admin username")
	cmd.Flags().StringVar(&opts.email, "email", "", "admin email address")
	cmd.Flags().StringVar(&opts.password, "password", "", "admin password (read from stdin when empty)")
	cmd.Flags().StringVar(&opts.role, "role", string(auth.RoleAdmin), "admin or superadmin")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func createAdmin(cmd *cobra.Command, cfg config.Config, opts adminCreateOptions) error {
	ctx := cmd.Context()
	logger := config.NewLogger(cfg.Logging)

	pool, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return err
	}

	var created admins.Summary
	err = repo.WithTx(ctx, func(ctx context.Context, tx *postgres.Repository) error {
		var regErr error
		created, regErr = adminService(cfg, tx, logger).Provision(ctx, admins.RegisterParams{
			Username: opts.username,
			Email:    opts.email,
			Password: opts.password,
			Role:     opts.role,
		})
		return regErr
	})
	if err != nil {
		return cliError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s)\n", created.Role, created.Username, created.ID)
	return nil
}

func newAdminSetActiveCommand(global *globalOptions, use string, active bool) *cobra.Command {
	short := "Allow an admin to sign in again"
	if !active {
		short = "Block an admin from signing in"
	}
	return &cobra.Command{
		Use:   use + " <username>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.loadConfig()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			ctx := cmd.Context()
			pool, err := postgres.Open(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("database connection failed: %w", err)
			}
			defer pool.Close()

			repo, err := postgres.NewRepository(pool)
			if err != nil {
				return err
			}
			admin, err := adminService(cfg, repo, config.NewLogger(cfg.Logging)).SetActive(ctx, args[0], active)
			if err != nil {
				return cliError(err)
			}
			state := "active"
			if !active {
				state = "inactive"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", admin.Username, state)
			return nil
		},
	}
}

// newHashPasswordCommand prints a bcrypt hash for seeding or resetting an
// admin by hand. It needs no configuration.
func newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for a password",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				var err error
				if password, err = readSecret(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func adminService(cfg config.Config, repo *postgres.Repository, logger zerolog.Logger) *admins.Service {
	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.Issuer)
	return admins.NewService(repo.Admins(), tokens, logger)
}

// readSecret reads the first line of r.
func readSecret(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password is required")
	}
	return line, nil
}

// cliError turns a classified error into its user-facing message.
func cliError(err error) error {
	if kind := apperr.KindOf(err); kind != apperr.KindInternal {
		return errors.New(apperr.MessageOf(err, err.Error()))
	}
	return err
}
