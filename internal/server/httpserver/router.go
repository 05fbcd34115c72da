package httpserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with middleware and all routes mounted.
func NewRouter(opts Options) *gin.Engine {
	h := &handler{
		auth:              opts.Auth,
		db:                opts.DB,
		logger:            opts.Logger,
		exposeDiagnostics: opts.ExposeStoreDiagnostics,
	}

	r := gin.New()
	r.Use(RequestID(), AccessLog(opts.Logger), Recovery(opts.Logger))

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  opts.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Content-Type", "Authorization", "X-Request-Id"},
			ExposeHeaders: []string{"X-Request-Id"},
			MaxAge:        12 * time.Hour,
		}))
	}

	r.GET("/health", h.health)
	r.GET("/db/health", h.dbHealth)

	api := r.Group("/api/v1")
	{
		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)
		api.GET("/me", AuthGate(opts.Tokens), h.me)
	}

	if opts.EnableDevRoutes {
		r.GET("/dev/token", h.devToken)
	}

	return r
}
