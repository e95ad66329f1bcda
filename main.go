package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/planify/planify/authenticator"
	"github.com/planify/planify/callback"
	"github.com/planify/planify/config"
	"github.com/planify/planify/controllers"
	"github.com/planify/planify/database"
	"github.com/planify/planify/log"
	authmiddleware "github.com/planify/planify/middleware"
	"github.com/planify/planify/repositories"
	"github.com/planify/planify/services"
)

const pruneInterval = time.Hour

func main() {
	logger := log.New("planify")
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.IntoContext(ctx, logger)

	if err := run(ctx, logger); err != nil {
		logger.Error("planify exited", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize database
	db, err := database.InitializeDatabase(ctx, cfg.Server.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	repos := repositories.NewRepositories(db)
	srvs := services.NewServices(repos, log.SubLogger(logger, "audit"))

	ctrl := controllers.NewControllers(srvs, controllers.Options{
		Provider: newProvider(ctx, cfg, logger),
		Sessions: authmiddleware.NewSessionStore([]byte(cfg.Server.CookieSecret), cfg.Server.UseHTTPS),
		Policy:   policyFromConfig(cfg.Callback),
		Routes: callback.Routes{
			Landing: cfg.Callback.LandingPath,
			SignIn:  cfg.Callback.SignInPath,
		},
		Logger: log.SubLogger(logger, "callback"),
	})

	r := setupRouter(cfg, ctrl, srvs, logger)

	srv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go pruneTokens(ctx, srvs.Tokens, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("planify starting", "addr", cfg.Server.ListenAddr, "db", cfg.Server.DBPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newProvider returns nil when the provider cannot be set up, so callbacks
// resolve to config_error instead of the process refusing to start.
func newProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) authenticator.Provider {
	if !cfg.OIDCConfigured() {
		logger.Warn("oidc provider not configured; sign-in is disabled")
		return nil
	}

	p, err := authenticator.NewOpenIDProvider(ctx, authenticator.Config{
		Issuer:       cfg.OIDC.Issuer,
		ClientID:     cfg.OIDC.ClientID,
		ClientSecret: cfg.OIDC.ClientSecret,
		RedirectURL:  cfg.OIDC.CallbackURL,
	})
	if err != nil {
		logger.Error("failed to initialize oidc provider; sign-in is disabled", "err", err)
		return nil
	}
	return p
}

func policyFromConfig(c config.CallbackConfig) callback.Policy {
	return callback.Policy{
		MaxAttempts:      c.MaxAttempts,
		BaseDelay:        c.BaseDelay,
		Growth:           c.Growth,
		MaxDelay:         c.MaxDelay,
		InFlightAttempts: c.InFlightAttempts,
	}
}

func pruneTokens(ctx context.Context, tokens *services.TokenService, logger *slog.Logger) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := tokens.Prune(ctx)
			if err != nil {
				logger.Error("failed to prune expired tokens", "err", err)
				continue
			}
			if n > 0 {
				logger.Debug("pruned expired tokens", "count", n)
			}
		}
	}
}

// setupRouter configures all routes
func setupRouter(cfg *config.Config, ctrl *controllers.Controllers, srvs *services.Services, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout)) // covers the full callback backoff
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "service": "planify"}`)
	})

	sessions := ctrl.Auth.Sessions()

	// Browser routes carry a device id.
	r.Group(func(r chi.Router) {
		r.Use(authmiddleware.Device(sessions, logger))

		// PUBLIC ROUTES (no authentication required)
		r.Get("/", ctrl.Dashboard.Index)
		r.Get(cfg.Callback.SignInPath, ctrl.Auth.SignIn)

		r.Group(func(r chi.Router) {
			r.Use(authmiddleware.AuditLogger(srvs.Audit))

			r.Get("/auth/login", ctrl.Auth.Login)
			r.Post("/logout", ctrl.Auth.Logout)
			r.Group(func(r chi.Router) {
				r.Use(middleware.Throttle(cfg.Callback.Concurrency))
				r.Get("/auth/callback", ctrl.Auth.Callback)
				r.Post("/auth/callback", ctrl.Auth.Callback)
			})
		})

		// PROTECTED ROUTES (authentication required)
		r.With(authmiddleware.RequireAuth(srvs.Tokens, cfg.Callback.SignInPath)).
			Get(cfg.Callback.LandingPath, ctrl.Dashboard.Dashboard)
		r.With(authmiddleware.RequireAPIAuth(srvs.Tokens)).
			Get("/api/session", ctrl.Dashboard.Session)
	})

	return r
}
