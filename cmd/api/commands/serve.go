package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/suhelali14/SafarWay-sub004/internal/analytics"
	"github.com/suhelali14/SafarWay-sub004/internal/auth"
	"github.com/suhelali14/SafarWay-sub004/internal/catalog"
	"github.com/suhelali14/SafarWay-sub004/internal/geocode"
	"github.com/suhelali14/SafarWay-sub004/internal/handler"
	"github.com/suhelali14/SafarWay-sub004/internal/newsletter"
	"github.com/suhelali14/SafarWay-sub004/internal/reports"
	"github.com/suhelali14/SafarWay-sub004/internal/store"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "TOML catalogue file (default: built-in)")
	return cmd
}

func loadCatalog() (*catalog.Catalog, error) {
	if catalogPath != "" {
		return catalog.LoadFile(catalogPath)
	}
	return catalog.Default()
}

func newAuthenticator(st *store.Store) auth.Authenticator {
	if cfg.Auth.Mode == "demo" {
		log.Warn().Dur("delay", cfg.Auth.DemoDelay).Msg("demo authentication enabled: any credentials are accepted")
		return auth.NewDemoAuthenticator(cfg.Auth.DemoDelay)
	}
	return auth.NewStoreAuthenticator(st)
}

func serve(ctx context.Context) error {
	db, st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	tmpl, err := handler.ParseTemplates()
	if err != nil {
		return err
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expiration)
	session := auth.NewSession(newAuthenticator(st), tokens, cfg.IsProduction())
	if cfg.Auth.Mode != "demo" {
		session.RefreshFrom(st)
	}
	h := &handler.Handler{
		Config:     cfg,
		Store:      st,
		Catalog:    cat,
		Session:    session,
		Newsletter: newsletter.NewService(st),
		Geocoder:   geocode.NewClient(cfg.Maps.APIKey, cfg.Maps.GeocodeURL, &http.Client{Timeout: 5 * time.Second}),
		Reports:    reports.NewGenerator(st, st),
		Analytics:  analytics.NewService(st, cat),
		Tmpl:       tmpl,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           h.Routes(log.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().
			Str("addr", srv.Addr).
			Str("env", cfg.Server.Env).
			Str("auth_mode", cfg.Auth.Mode).
			Int("packages", len(cat.Packages())).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
