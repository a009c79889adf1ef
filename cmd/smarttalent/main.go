// The smarttalent binary is the operational CLI: schema and seed-data
// installation and first-admin provisioning.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	authservice "smarttalent/internal/auth/service"
	authstore "smarttalent/internal/auth/store"
	jwttoken "smarttalent/internal/jwt_token"
	"smarttalent/internal/platform/config"
	"smarttalent/internal/platform/logger"
	"smarttalent/internal/platform/postgres"
	taxonomyservice "smarttalent/internal/taxonomy/service"
	taxonomystore "smarttalent/internal/taxonomy/store"
	"smarttalent/pkg/platform/tx"
)

func main() {
	root := &cobra.Command{
		Use:           "smarttalent",
		Short:         "Operational commands for the verification platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(seedCmd(), createAdminCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install the schema, built-in roles and the document-type catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			authSvc, taxonomySvc, cleanup, err := services(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := authSvc.SeedRoles(ctx); err != nil {
				return fmt.Errorf("seed roles: %w", err)
			}
			if err := taxonomySvc.Seed(ctx); err != nil {
				return fmt.Errorf("seed catalog: %w", err)
			}
			fmt.Println("seed completed")
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an account with the ADMIN role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			authSvc, _, cleanup, err := services(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			user, err := authSvc.CreateAdmin(ctx, username, email, password)
			if err != nil {
				return err
			}
			fmt.Printf("admin created: %s (%s)\n", user.Username, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "display name for the account")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func services(ctx context.Context) (*authservice.Service, *taxonomyservice.Service, func(), error) {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("ensure schema: %w", err)
	}

	jwtService := jwttoken.NewJWTService(cfg.JWT.SigningKey, "smarttalent", cfg.JWT.Expiry)
	authSvc := authservice.New(authstore.NewPostgres(db), jwtService,
		authservice.WithLogger(log),
		authservice.WithTxRunner(tx.NewSQLRunner(db)),
	)
	taxonomySvc := taxonomyservice.New(taxonomystore.NewPostgres(db),
		taxonomyservice.WithLogger(log))

	return authSvc, taxonomySvc, func() { db.Close() }, nil
}
