// Package server wires configuration, storage and the HTTP and gRPC servers
// into one application and runs it until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/kracker/internal/cryptox"
	"github.com/dmitrijs2005/kracker/internal/logging"
	"github.com/dmitrijs2005/kracker/internal/server/auth"
	"github.com/dmitrijs2005/kracker/internal/server/config"
	"github.com/dmitrijs2005/kracker/internal/server/httpserver"
	"github.com/dmitrijs2005/kracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/kracker/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/kracker/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	repos      repomanager.RepositoryManager
	httpServer *httpserver.HTTPServer
	grpcServer *gs.GRPCServer
}

func NewApp(c *config.Config) (*App, error) {
	return newApp(c, os.Stdout)
}

func newApp(c *config.Config, logOut io.Writer) (*App, error) {
	logger, err := logging.New(logOut, c.LogFormat, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	repos, err := repomanager.New(c.DatabaseDSN, repomanager.PoolOptions{
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	tokens, err := auth.NewTokenService([]byte(c.SecretKey), c.AccessTokenValidityDuration)
	if err != nil {
		repos.Close()
		return nil, fmt.Errorf("token service init error: %w", err)
	}

	hasher, err := cryptox.NewArgon2Hasher(cryptox.Params{
		Time:    c.Argon2Time,
		Memory:  c.Argon2Memory,
		Threads: c.Argon2Threads,
	})
	if err != nil {
		repos.Close()
		return nil, fmt.Errorf("password hasher init error: %w", err)
	}

	us, err := services.NewUserService(repos.Users(), hasher, tokens, c.HashConcurrency)
	if err != nil {
		repos.Close()
		return nil, fmt.Errorf("user service init error: %w", err)
	}

	hs := httpserver.NewHTTPServer(c.EndpointAddrHTTP, httpserver.Options{
		Auth:                   us,
		Tokens:                 tokens,
		DB:                     repos,
		Logger:                 logger,
		EnableDevRoutes:        c.EnableDevRoutes,
		ExposeStoreDiagnostics: c.ExposeStoreDiagnostics,
		AllowedOrigins:         c.AllowedOrigins,
	})

	grpcServer := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, repos, c.HealthCheckInterval)

	return &App{
		config:     c,
		logger:     logger,
		repos:      repos,
		httpServer: hs,
		grpcServer: grpcServer,
	}, nil
}

func (app *App) warnInsecureDefaults(ctx context.Context) {
	if app.config.UsesDefaultSecret() {
		app.logger.Warn(ctx, "using the built-in development JWT secret; set JWT_SECRET in production")
	}
	if app.config.EnableDevRoutes {
		app.logger.Warn(ctx, "development routes are enabled", "route", "/dev/token")
	}
	if app.config.ExposeStoreDiagnostics {
		app.logger.Warn(ctx, "store diagnostics are exposed to clients")
	}
}

// Run migrates the store if configured and serves HTTP and gRPC until ctx is
// cancelled, a shutdown signal arrives or either server fails.
func (app *App) Run(ctx context.Context) error {

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	app.warnInsecureDefaults(ctx)

	defer func() {
		if err := app.repos.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}()

	if app.config.RunMigrations {
		if err := app.repos.RunMigrations(ctx); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return app.httpServer.Run(gctx) })
	g.Go(func() error { return app.grpcServer.Run(gctx) })

	err := g.Wait()

	app.logger.Info(context.WithoutCancel(ctx), "App stopped")

	return err
}
