// Package httpserver exposes the auth API over HTTP using gin: health probes,
// register/login, the bearer-token gate and the development token route.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/kracker/internal/logging"
	"github.com/dmitrijs2005/kracker/internal/server/auth"
	"github.com/dmitrijs2005/kracker/internal/server/services"
	"github.com/gin-gonic/gin"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 5 * time.Second
)

// AuthService is the register/login flow the handlers drive.
type AuthService interface {
	Register(ctx context.Context, userName, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, login, password string) (*services.AuthResult, error)
	Me(ctx context.Context) (auth.Identity, error)
	IssueDevToken(subject, userName string) (*services.DevToken, error)
}

// TokenVerifier checks bearer tokens for the auth gate.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configure the router.
type Options struct {
	Auth   AuthService
	Tokens TokenVerifier
	DB     Pinger
	Logger logging.Logger

	// EnableDevRoutes mounts GET /dev/token.
	EnableDevRoutes bool
	// ExposeStoreDiagnostics adds sqlstate/detail to register_failed and the
	// driver error text to /db/health.
	ExposeStoreDiagnostics bool
	// AllowedOrigins enables CORS for the listed origins when non-empty.
	AllowedOrigins []string
}

type HTTPServer struct {
	address string
	logger  logging.Logger
	engine  *gin.Engine
}

func NewHTTPServer(address string, opts Options) *HTTPServer {
	logger := opts.Logger.With("module", "http_server")
	opts.Logger = logger
	return &HTTPServer{
		address: address,
		logger:  logger,
		engine:  NewRouter(opts),
	}
}

// Handler returns the configured gin engine.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *HTTPServer) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}
