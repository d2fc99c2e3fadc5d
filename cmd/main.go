package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/practicefeed-backend/internal/app"
	"github.com/yungbote/practicefeed-backend/internal/importer"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
	"github.com/yungbote/practicefeed-backend/internal/services"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "practicefeed",
		Short:         "Practice question feed API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), importCmd(), tokenCmd())
	return root
}

// withApp loads config, builds the app and closes it once fn returns.
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withApp(ctx, func(a *app.App) error {
				return a.Serve(ctx)
			})
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and feed indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				return a.Migrate()
			})
		},
	}
}

func importCmd() *cobra.Command {
	var (
		file  string
		sheet string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Upsert questions from an .xlsx or .csv bank",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				res, n, err := a.Import(cmd.Context(), file, sheet)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "processed %d rows, imported %d questions, skipped %d\n", res.Processed, n, res.Skipped)
				for _, msg := range res.Errors {
					fmt.Fprintln(out, "  "+msg)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "question bank (.xlsx or .csv)")
	cmd.Flags().StringVar(&sheet, "sheet", importer.DefaultSheet, "worksheet name for .xlsx files")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// tokenCmd mints an access token for local testing against the API.
func tokenCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a user id",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			id := uuid.New()
			if userID != "" {
				if id, err = uuid.Parse(userID); err != nil {
					return fmt.Errorf("invalid --user: %w", err)
				}
			}
			auth, err := services.NewAuthService(logger.Nop(), cfg.JWTSecretKey, cfg.JWTIssuer, cfg.AccessTokenTTL)
			if err != nil {
				return err
			}
			tok, err := auth.IssueAccessToken(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %s\n%s\n", id, tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user uuid (random when empty)")
	return cmd
}
