package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authctrl "github.com/tourcube/guideportal/internal/http/controllers/auth"
	healthctrl "github.com/tourcube/guideportal/internal/http/controllers/health"
	portalctrl "github.com/tourcube/guideportal/internal/http/controllers/portal"
	mw "github.com/tourcube/guideportal/internal/http/middlewares"
	"github.com/tourcube/guideportal/internal/rate"
	"github.com/tourcube/guideportal/internal/session"
	"github.com/tourcube/guideportal/internal/tenant"
	"github.com/tourcube/guideportal/web"
)

// RouterDeps agrupa todo lo que necesita el router del portal.
type RouterDeps struct {
	Auth   *authctrl.Controller
	Portal *portalctrl.Controller
	Health *healthctrl.Controller

	Sessions *session.Manager
	Resolver *tenant.Resolver

	// LoginLimiter frena fuerza bruta en los POST de auth. Puede ser nil.
	LoginLimiter rate.Limiter

	// MetricsHandler sirve /metrics. Puede ser nil si no se exponen métricas.
	MetricsHandler http.Handler

	CORSAllowedOrigins []string

	// ForceHTTPS redirige HTTP a HTTPS (apagado en desarrollo).
	ForceHTTPS bool
}

// NewRouter arma el router completo con su cadena de middlewares.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithHTTPSRedirect(deps.ForceHTTPS),
		mw.WithSecurityHeaders(),
		mw.WithCORS(deps.CORSAllowedOrigins),
		WithMetrics,
	)

	// ── Público ──
	r.Get("/", deps.Auth.Root)
	r.Get("/auth", deps.Auth.Root)
	r.Get("/auth/login", deps.Auth.LoginPage)
	r.Get("/auth/logout", deps.Auth.Logout)
	r.Get("/auth/forgot-username", deps.Auth.ForgotUsernamePage)
	r.Get("/auth/support", deps.Auth.SupportAccess)

	// Los POST de auth pasan por el rate limiter por IP+path.
	r.Group(func(g chi.Router) {
		g.Use(mw.WithRateLimit(deps.LoginLimiter, mw.IPPathRateKey))
		g.Post("/auth/login", deps.Auth.LoginSubmit)
		g.Post("/auth/forgot-username", deps.Auth.ForgotUsernameSubmit)
	})

	// ── Autenticado ──
	r.Group(func(g chi.Router) {
		g.Use(
			mw.RequireSession(deps.Sessions),
			mw.WithTenant(deps.Resolver, deps.Sessions),
			mw.WithNoStore(),
		)

		g.With(mw.RequireRole(session.RoleGuide)).Get("/guide/home", deps.Portal.GuideHome)
		g.With(mw.RequireRole(session.RoleVendor)).Get("/vendor/home", deps.Portal.VendorHome)

		g.Get("/departure/{id}", deps.Portal.Departure)
		g.Get("/trip/{id}", deps.Portal.Trip)
		g.Get("/client/{id}", deps.Portal.Client)
	})

	// ── Operacional ──
	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Handle("/static/*", http.StripPrefix("/static/", web.StaticHandler()))

	return r
}
