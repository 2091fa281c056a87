package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/deepmetric/institute-portal/internal/api/handler"
	"github.com/deepmetric/institute-portal/internal/api/middleware"
	"github.com/deepmetric/institute-portal/internal/core/domain"
	"github.com/deepmetric/institute-portal/internal/core/ports"
	"github.com/deepmetric/institute-portal/internal/infrastructure/http/handlers"
)

// Deps is everything the router needs to serve the portal.
type Deps struct {
	Enrollment   ports.EnrollmentService
	Catalog      ports.CatalogService
	Advisor      ports.AdvisorService
	Certificates ports.CertificateService
	Feed         ports.NotificationFeed
	Tokens       ports.TokenIssuer

	JWTSecret   string
	AdminEmails []string
	// Readiness lists the dependencies probed by /health/ready.
	Readiness map[string]handlers.Pinger
	// Registry receives the HTTP metrics; nil uses the default registry.
	Registry *prometheus.Registry

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(metricsConfig(d.Registry)))

	// --- Operational endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness
	e.GET("/metrics", metricsHandler(d.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Handlers ---
	sessionHandler := handler.NewSessionHandler(d.Enrollment, d.Tokens, d.AdminEmails)
	courseHandler := handler.NewCourseHandler(d.Catalog)
	enrollmentHandler := handler.NewEnrollmentHandler(d.Enrollment, d.Catalog)
	advisorHandler := handler.NewAdvisorHandler(d.Advisor)
	certificateHandler := handler.NewCertificateHandler(d.Certificates)
	notificationHandler := handler.NewNotificationHandler(d.Feed)

	v1 := e.Group("/v1")
	v1.POST("/session", sessionHandler.Create)

	// Every other route needs a token that belongs to the active session.
	authed := v1.Group("", middleware.Auth(d.JWTSecret), middleware.ActiveSession(d.Enrollment))
	admin := middleware.RBAC(domain.RoleAdmin)

	authed.GET("/session", sessionHandler.Get)
	authed.DELETE("/session", sessionHandler.Delete)

	authed.GET("/courses", courseHandler.List)
	authed.GET("/courses/:id", courseHandler.Get)
	authed.POST("/courses", courseHandler.Create, admin)
	authed.PUT("/courses/:id", courseHandler.Update, admin)
	authed.DELETE("/courses/:id", courseHandler.Delete, admin)
	authed.POST("/courses/:id/reviews", courseHandler.SubmitReview)
	authed.GET("/courses/:id/reviews", courseHandler.Reviews)

	authed.POST("/enrollments/:courseId", enrollmentHandler.Register)
	authed.PUT("/enrollments/:courseId/progress", enrollmentHandler.SetProgress)
	authed.POST("/enrollments/:courseId/completion", enrollmentHandler.RequestCompletion)

	authed.GET("/certificates/:courseId", certificateHandler.Download)

	authed.GET("/admin/completions", enrollmentHandler.Pending, admin)
	authed.POST("/admin/completions/:userId/:courseId/approve", enrollmentHandler.Approve, admin)
	authed.POST("/admin/completions/:userId/:courseId/reject", enrollmentHandler.Reject, admin)

	authed.POST("/advisor/chat", advisorHandler.Chat)
	authed.GET("/advisor/chat", advisorHandler.Transcript)
	authed.POST("/advisor/tags", advisorHandler.SuggestTags, admin)

	authed.GET("/notifications", notificationHandler.List)
	authed.DELETE("/notifications/:id", notificationHandler.Dismiss)

	return e
}

func metricsConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	conf := echoprometheus.MiddlewareConfig{Subsystem: "portal"}
	if reg != nil {
		conf.Registerer = reg
	}
	return conf
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

// requestLogger writes one structured line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
