package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ihc-secops/officer/internal/config"
	"github.com/ihc-secops/officer/internal/infrastructure/auth"
	"github.com/ihc-secops/officer/internal/infrastructure/cluster"
	"github.com/ihc-secops/officer/internal/infrastructure/gitlab"
	"github.com/ihc-secops/officer/internal/infrastructure/logger"
	"github.com/ihc-secops/officer/internal/interfaces/httpserver"
	"github.com/ihc-secops/officer/internal/interfaces/httpserver/handlers/clusterhandler"
	"github.com/ihc-secops/officer/internal/interfaces/httpserver/handlers/oauthhandler"
	"github.com/ihc-secops/officer/internal/interfaces/httpserver/middlewares"
	"github.com/ihc-secops/officer/internal/interfaces/httpserver/routes"
	"github.com/ihc-secops/officer/internal/interfaces/httpserver/session"
)

// @title Officer API
// @version 1.0
// @description Authentication gateway and cluster action service
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
type Application struct {
	httpServer *httpserver.HttpServer
	cfg        *config.Config
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, cfg *config.Config, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		cfg:        cfg,
		log:        log,
	}
}

// Start runs the API listener and the prometheus listener until the context
// is cancelled or either fails.
func (a *Application) Start(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return a.httpServer.Run(ctx)
	})

	group.Go(func() error {
		return a.runMetricsServer(ctx)
	})

	return group.Wait()
}

func (a *Application) runMetricsServer(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:    a.cfg.MetricsAddr(),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", a.cfg.MetricsAddr()).Msg("metrics server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	codec, err := auth.NewTokenCodec([]byte(cfg.SigningSecret), cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize token codec")
	}

	clientset, err := cluster.NewClientset(cfg.Kubeconfig)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize kubernetes client")
	}

	gitlabClient := gitlab.NewClient(
		cfg.GitLabBaseURL,
		cfg.GitLabClientID,
		cfg.GitLabClientSecret,
		cfg.OAuthRedirectURL,
		cfg.UpstreamTimeout,
	)

	sessions := session.NewCookieStore([]byte(cfg.SigningSecret), cfg.Environment == "production")
	allowList := auth.NewAllowList(cfg.AllowedUsers)

	oauthHandler := oauthhandler.NewHandler(gitlabClient, sessions, allowList, codec, log)
	clusterHandler := clusterhandler.NewHandler(cluster.NewExecutor(clientset), cfg.ClusterTimeout, log)
	gateway := middlewares.AuthMiddleware(cfg.APIKey, codec, log)

	httpServer := httpserver.New(cfg, log, routes.NewRoutes(oauthHandler, clusterHandler, gateway))
	app := NewApplication(httpServer, cfg, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
