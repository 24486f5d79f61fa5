package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/suhelali14/SafarWay-sub004/internal/auth"
	"github.com/suhelali14/SafarWay-sub004/internal/domain"
	"github.com/suhelali14/SafarWay-sub004/internal/models"
	"github.com/suhelali14/SafarWay-sub004/internal/store"
)

func createAdminCmd() *cobra.Command {
	var email, name, password string
	var reset bool
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the site administrator account from ADMIN_* settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = cfg.Admin.Email
			}
			if name == "" {
				name = cfg.Admin.Name
			}
			if password == "" {
				password = cfg.Admin.Password
			}
			if len(password) < auth.MinPasswordLength {
				return fmt.Errorf("admin password must be at least %d characters", auth.MinPasswordLength)
			}

			db, st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			_, err = ensureAdmin(cmd.Context(), st, email, name, password, reset)
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email (default ADMIN_EMAIL)")
	cmd.Flags().StringVar(&name, "name", "", "admin display name (default ADMIN_NAME)")
	cmd.Flags().StringVar(&password, "password", "", "admin password (default ADMIN_PASSWORD)")
	cmd.Flags().BoolVar(&reset, "reset-password", false, "overwrite the password when the admin already exists")
	return cmd
}

// ensureAdmin creates the administrator. An existing account is left alone
// unless reset is set, in which case its password is replaced.
func ensureAdmin(ctx context.Context, st *store.Store, email, name, password string, reset bool) (models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	u, err := st.CreateUser(ctx, models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	})
	if err == nil {
		log.Info().Int("user_id", u.ID).Str("email", u.Email).Msg("admin created")
		return u, nil
	}
	if !errors.Is(err, store.ErrAlreadyExists) {
		return models.User{}, err
	}

	existing, err := st.GetUserByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}
	if !reset {
		log.Warn().Str("email", existing.Email).Msg("admin already exists, pass --reset-password to change it")
		return existing, nil
	}
	if err := st.UpdateUserPassword(ctx, existing.ID, hash); err != nil {
		return models.User{}, fmt.Errorf("reset admin password: %w", err)
	}
	existing.PasswordHash = hash
	log.Info().Int("user_id", existing.ID).Str("email", existing.Email).Msg("admin password reset")
	return existing, nil
}
