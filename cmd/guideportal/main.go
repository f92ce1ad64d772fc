package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/tourcube/guideportal/internal/cache"
	"github.com/tourcube/guideportal/internal/config"
	httpserver "github.com/tourcube/guideportal/internal/http"
	authctrl "github.com/tourcube/guideportal/internal/http/controllers/auth"
	healthctrl "github.com/tourcube/guideportal/internal/http/controllers/health"
	portalctrl "github.com/tourcube/guideportal/internal/http/controllers/portal"
	authsvc "github.com/tourcube/guideportal/internal/http/services/auth"
	guidesvc "github.com/tourcube/guideportal/internal/http/services/guide"
	vendorsvc "github.com/tourcube/guideportal/internal/http/services/vendor"
	"github.com/tourcube/guideportal/internal/observability/logger"
	"github.com/tourcube/guideportal/internal/rate"
	"github.com/tourcube/guideportal/internal/security/supporttoken"
	"github.com/tourcube/guideportal/internal/session"
	"github.com/tourcube/guideportal/internal/tenant"
	"github.com/tourcube/guideportal/internal/tourcube"
	"github.com/tourcube/guideportal/internal/view"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "ruta del YAML de configuración (opcional, env manda)")
	flag.Parse()

	// .env local si existe; en producción las vars vienen del entorno.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	defer func() { _ = logger.Sync() }()
	lg := logger.L()

	// ── Tenants ──
	registry, err := tenant.LoadRegistry(cfg.Tenants.RegistryPath)
	if err != nil {
		lg.Fatal("tenant registry load failed", logger.Err(err))
	}
	resolver := tenant.NewResolver(registry, cfg.Tenants.DefaultCompany, cfg.Tenants.DefaultMode)

	// ── Cache ──
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	cacheClient, err := cache.New(ctx, cache.Config{
		Kind:       cfg.Cache.Kind,
		Addr:       cfg.Cache.Redis.Addr,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: 2 * time.Minute,
	})
	cancel()
	if err != nil {
		lg.Fatal("cache init failed", logger.Err(err))
	}
	defer func() { _ = cacheClient.Close() }()

	// ── Sesiones ──
	codec, err := session.NewCodec(cfg.Session.SecretKey)
	if err != nil {
		lg.Fatal("session codec init failed", logger.Err(err))
	}
	sessions := session.NewManager(codec, session.CookieConfig{
		Name:     cfg.Session.CookieName,
		Domain:   cfg.Session.Domain,
		SameSite: cfg.Session.SameSite,
		Secure:   !cfg.App.Debug,
		TTL:      cfg.SessionMaxAge(),
	})

	// ── Upstream ──
	tc := tourcube.New(tourcube.Options{
		Timeout:   cfg.UpstreamTimeout(),
		SSLVerify: cfg.SSLVerify(),
		AppName:   cfg.App.Name,
		Version:   cfg.App.Version,
	})
	tc.Observe = httpserver.ObserveUpstream

	// ── Soporte ──
	support, err := supporttoken.NewIssuer(cfg.Session.SecretKey, cfg.SupportTokenTTL(), cacheClient)
	if err != nil {
		lg.Fatal("support token issuer init failed", logger.Err(err))
	}

	// ── Rate limiting ──
	var loginLimiter rate.Limiter
	if cfg.Rate.Enabled {
		loginLimiter = rate.NewFixedWindowLimiter(cacheClient, "login", cfg.Rate.Login.Limit, cfg.LoginRateWindow())
	}

	// ── Vistas y controllers ──
	views, err := view.New()
	if err != nil {
		lg.Fatal("view templates failed", logger.Err(err))
	}

	metricsHandler, err := httpserver.RegisterMetrics(nil)
	if err != nil {
		lg.Fatal("metrics init failed", logger.Err(err))
	}

	authController := authctrl.NewController(authsvc.NewService(tc), sessions, resolver, views, support)
	authController.OnLogin = httpserver.RecordLoginAttempt

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Auth:               authController,
		Portal:             portalctrl.NewController(guidesvc.NewService(tc), vendorsvc.NewService(tc), sessions, views),
		Health:             healthctrl.NewController(cfg.App.Version, cacheClient, registry),
		Sessions:           sessions,
		Resolver:           resolver,
		LoginLimiter:       loginLimiter,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		ForceHTTPS:         !cfg.App.Debug,
	})

	lg.Info("portal up",
		logger.Op("main"),
		logger.Any("addr", cfg.Server.Addr),
		logger.Any("env", cfg.App.Env),
		logger.Any("tenants", registry.Size()),
		logger.Any("cache", cfg.Cache.Kind),
	)

	if err := httpserver.Start(cfg.Server.Addr, router); err != nil {
		lg.Fatal("http server failed", logger.Err(err))
	}
}
