package http

import (
	"log/slog"

	"github.com/geocoder89/taskhub/internal/auth"
	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/http/handlers"
	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/geocoder89/taskhub/internal/ratelimit"
	"github.com/geocoder89/taskhub/internal/security"
	"github.com/geocoder89/taskhub/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps is everything the router needs. Prom and Gatherer may be nil, which
// disables metrics; RateLimiter nil falls back to an in-memory fixed window.
type Deps struct {
	Log         *slog.Logger
	Config      config.Config
	Users       UserStore
	Tasks       service.TaskStore
	Hasher      security.Hasher
	RateLimiter ratelimit.Policy
	Prom        *observability.Prom
	Gatherer    prometheus.Gatherer
	Ready       map[string]handlers.Pinger
}

// UserStore is the union of what sign-up/sign-in and the token strategy need.
type UserStore interface {
	service.UserStore
	auth.UserFinder
}

func NewRouter(d Deps) *gin.Engine {
	if !d.Config.IsDevLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	if d.Log == nil {
		d.Log = slog.Default()
	}

	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORS(d.Config.CORSAllowedOrigins))

	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	if d.Config.OtelEnabled {
		r.Use(otelgin.Middleware("taskhub-api"))
	}

	// health and metrics sit outside the throttle
	h := handlers.NewHealthHandler(d.Ready)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	limiter := d.RateLimiter
	if limiter == nil {
		limiter = ratelimit.NewFixedWindow(d.Config.RateLimit.Requests, d.Config.RateLimit.Window)
	}

	// wire up services
	jwtManager := auth.NewManager(d.Config.JWT.Secret, d.Config.JWT.ExpiresIn)
	strategy := auth.NewStrategy(jwtManager, d.Users)
	authMiddleware := middlewares.NewAuthMiddleware(strategy, d.Prom)

	authHandler := handlers.NewAuthHandler(service.NewAuthService(d.Users, d.Hasher, jwtManager))
	tasksHandler := handlers.NewTasksHandler(service.NewTaskService(d.Tasks))

	api := r.Group("/")
	api.Use(middlewares.RateLimit(limiter, middlewares.KeyByIP, d.Prom))
	api.Use(middlewares.MaxBodyBytes(d.Config.MaxBodyBytes))
	api.Use(middlewares.RequireJSON())

	api.GET("/", h.Root)
	api.GET("/docs", handlers.SwaggerUI)
	api.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	authGroup := api.Group("/auth")
	authGroup.POST("/sign-up", authHandler.SignUp)
	authGroup.POST("/sign-in", authHandler.SignIn)
	authGroup.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)

	tasks := api.Group("/tasks", authMiddleware.RequireAuth())
	tasks.POST("", tasksHandler.Create)
	tasks.GET("", tasksHandler.List)
	tasks.GET("/:id", tasksHandler.Get)
	tasks.PATCH("/:id", tasksHandler.Update)
	tasks.DELETE("/:id", tasksHandler.Delete)

	return r
}
