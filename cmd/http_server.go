package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/hours-portal/internal"
	"github.com/frahmantamala/hours-portal/internal/auth"
	"github.com/frahmantamala/hours-portal/internal/core/events"
	"github.com/frahmantamala/hours-portal/internal/emaildraft"
	"github.com/frahmantamala/hours-portal/internal/employee"
	"github.com/frahmantamala/hours-portal/internal/mailer"
	"github.com/frahmantamala/hours-portal/internal/session"
	"github.com/frahmantamala/hours-portal/internal/settings"
	"github.com/frahmantamala/hours-portal/internal/sheetsink"
	"github.com/frahmantamala/hours-portal/internal/state"
	"github.com/frahmantamala/hours-portal/internal/submission"
	"github.com/frahmantamala/hours-portal/internal/supervisor"
	"github.com/frahmantamala/hours-portal/internal/timesheet"
	"github.com/frahmantamala/hours-portal/internal/transport"
	"github.com/frahmantamala/hours-portal/internal/transport/rest"
	"github.com/frahmantamala/hours-portal/internal/transport/swagger"
	"github.com/frahmantamala/hours-portal/pkg/logger"
)

var autoMigrate bool

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP API that supervisors use to enter and submit weekly hours.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return startHTTPServer()
	},
}

func init() {
	httpServerCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "apply pending migrations before serving (SQL backends only)")
}

type Dependencies struct {
	Config  *internal.Config
	Storage *storage
	Bus     *events.EventBus
	Router  *chi.Mux
	Logger  *slog.Logger
}

func startHTTPServer() error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := initializeDependencies(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Storage.Close()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		deps.Logger.Info("starting HTTP server", "address", addr, "storage", cfg.Storage.Backend)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		deps.Logger.Info("shutdown signal received")
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		deps.Logger.Error("server shutdown error", "error", err)
	}
	deps.Bus.Wait()

	deps.Logger.Info("server stopped")
	return nil
}

func initializeDependencies(ctx context.Context, cfg *internal.Config) (*Dependencies, error) {
	lg := logger.LoggerWrapper()

	if _, err := swagger.Load(ctx); err != nil {
		return nil, err
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if autoMigrate && store.DB != nil {
		if err := migrate(ctx, store.DB.DB, cfg.Database.Driver, false); err != nil {
			store.Close()
			return nil, err
		}
	}

	bus := events.NewEventBus(lg)
	for _, eventType := range []string{events.EventTypeLoggedIn, events.EventTypeTimeSheetUpdated, events.EventTypeSubmissionCompleted} {
		bus.Subscribe(eventType, events.LogHandler(lg))
	}

	submitter, err := newSubmissionService(ctx, cfg, bus, lg)
	if err != nil {
		store.Close()
		return nil, err
	}

	repo := state.NewRepository(store.KV, cfg.Submission.DefaultEndpointURL, lg)
	controller, err := session.NewController(ctx, repo, submitter, bus, lg)
	if err != nil {
		store.Close()
		return nil, err
	}

	tokens := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration)
	base := transport.NewBaseHandler(lg)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.Handlers{
		Auth:       auth.NewHandler(base, auth.NewService(controller, tokens, lg)),
		Employee:   employee.NewHandler(base, controller),
		Supervisor: supervisor.NewHandler(base, controller),
		TimeSheet:  timesheet.NewHandler(base, controller),
		Submission: submission.NewHandler(base, controller),
		Settings:   settings.NewHandler(base, controller),
		Health:     rest.NewHealthHandler(store.Checks),
	}, cfg.Server.Origins(), lg)

	return &Dependencies{
		Config:  cfg,
		Storage: store,
		Bus:     bus,
		Router:  router,
		Logger:  lg,
	}, nil
}

// newSubmissionService wires the sink, the drafter and, when configured, the
// Gemini generator and SMTP delivery.
func newSubmissionService(ctx context.Context, cfg *internal.Config, bus *events.EventBus, lg *slog.Logger) (*submission.Service, error) {
	var generator emaildraft.TextGenerator
	if cfg.Drafting.APIKey != "" {
		gemini, err := emaildraft.NewGemini(ctx, cfg.Drafting.APIKey, cfg.Drafting.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to create text generator: %w", err)
		}
		generator = gemini
	} else {
		lg.Warn("drafting API key not set; submissions will use the fallback email draft")
	}

	var deliverer submission.Deliverer
	if cfg.Mail.Enabled {
		sender, err := mailer.NewSender(cfg.Mail, lg)
		if err != nil {
			return nil, fmt.Errorf("failed to create mail sender: %w", err)
		}
		deliverer = sender
	}

	return submission.NewService(submission.Config{
		CompanyLabel:    cfg.Submission.CompanyLabel,
		Mailbox:         cfg.Submission.Mailbox,
		SinkTimeout:     cfg.Submission.SinkTimeout,
		DraftTimeout:    cfg.Drafting.Timeout,
		DeliveryTimeout: cfg.Mail.SendTimeout,
	},
		sheetsink.NewClient(sheetsink.Config{Timeout: cfg.Submission.SinkTimeout}, lg),
		emaildraft.NewDrafter(generator, lg),
		deliverer,
		bus,
		lg,
	), nil
}
