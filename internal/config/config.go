package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config agrupa toda la configuración del portal.
// Se carga desde YAML y se pisa con variables de entorno (env gana).
type Config struct {
	App struct {
		// dev | staging | prod
		Env     string `yaml:"app_env"`
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
		Debug   bool   `yaml:"debug"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	// Session: cookie firmada (no cifrada). El secreto es obligatorio.
	Session struct {
		SecretKey  string `yaml:"secret_key"`
		CookieName string `yaml:"cookie_name"`
		Domain     string `yaml:"domain"`
		SameSite   string `yaml:"samesite"`
		MaxAge     string `yaml:"max_age"`
	} `yaml:"session"`

	// Tenants: registro JSON de compañías (apikey.json) + defaults de proceso.
	Tenants struct {
		RegistryPath   string `yaml:"registry_path"`
		DefaultCompany string `yaml:"default_company"`
		DefaultMode    string `yaml:"default_mode"`
	} `yaml:"tenants"`

	// Upstream: API de reservas (Tourcube).
	Upstream struct {
		Timeout   string `yaml:"timeout"`
		SSLVerify *bool  `yaml:"ssl_verify"`
	} `yaml:"upstream"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Login   struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
	} `yaml:"rate"`

	// Support: tokens firmados de acceso de soporte (reemplazo del guide_hash crudo).
	Support struct {
		TokenTTL string `yaml:"token_ttl"`
	} `yaml:"support"`
}

// Load lee el YAML (si path no está vacío), aplica defaults, pisa con env
// y valida. Con path vacío arma la config solo desde env + defaults.
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	// sane defaults
	if c.App.Name == "" {
		c.App.Name = "Tourcube Guide Portal"
	}
	if c.App.Version == "" {
		c.App.Version = "1.0.0"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "guide_portal_session"
	}
	if c.Session.SameSite == "" {
		c.Session.SameSite = "Lax"
	}
	if c.Session.MaxAge == "" {
		c.Session.MaxAge = "24h"
	}
	if c.Tenants.RegistryPath == "" {
		c.Tenants.RegistryPath = "./config/apikey.json"
	}
	if c.Tenants.DefaultCompany == "" {
		c.Tenants.DefaultCompany = "WTGUIDE"
	}
	if c.Tenants.DefaultMode == "" {
		c.Tenants.DefaultMode = "Test"
	}
	if c.Upstream.Timeout == "" {
		c.Upstream.Timeout = "30s"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "2m"
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}
	if c.Support.TokenTTL == "" {
		c.Support.TokenTTL = "15m"
	}

	// Overrides por env
	c.applyEnvOverrides()

	// Guardia dura: en prod el portal nunca corre en modo debug.
	if strings.EqualFold(c.App.Env, "prod") {
		c.App.Debug = false
	}

	// Normalizar ruta del registry (si relativa) respecto al directorio del YAML
	if path != "" {
		if p := strings.TrimSpace(c.Tenants.RegistryPath); p != "" && !filepath.IsAbs(p) {
			base := filepath.Dir(path)
			c.Tenants.RegistryPath = filepath.Clean(filepath.Join(base, p))
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate chequea los valores críticos de configuración.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Session.SecretKey) == "" {
		return fmt.Errorf("config: session secret_key es requerido (env SECRET_KEY)")
	}
	if m := c.Tenants.DefaultMode; m != "Test" && m != "Production" {
		return fmt.Errorf("config: default_mode debe ser Test o Production, obtuvo %q", m)
	}
	for _, d := range []string{c.Session.MaxAge, c.Upstream.Timeout, c.Rate.Login.Window, c.Support.TokenTTL, c.Cache.Memory.DefaultTTL} {
		if d == "" {
			continue
		}
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("config: duración inválida %q: %w", d, err)
		}
	}
	return nil
}

// SessionMaxAge devuelve el max-age de sesión ya parseado.
func (c *Config) SessionMaxAge() time.Duration {
	d, _ := time.ParseDuration(c.Session.MaxAge)
	return d
}

// UpstreamTimeout devuelve el timeout de llamadas upstream ya parseado.
func (c *Config) UpstreamTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Upstream.Timeout)
	return d
}

// LoginRateWindow devuelve la ventana del rate limit de login ya parseada.
func (c *Config) LoginRateWindow() time.Duration {
	d, _ := time.ParseDuration(c.Rate.Login.Window)
	return d
}

// SupportTokenTTL devuelve el TTL de los tokens de soporte ya parseado.
func (c *Config) SupportTokenTTL() time.Duration {
	d, _ := time.ParseDuration(c.Support.TokenTTL)
	return d
}

// SSLVerify: verificación de certificados upstream (default true).
func (c *Config) SSLVerify() bool {
	if c.Upstream.SSLVerify == nil {
		return true
	}
	return *c.Upstream.SSLVerify
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		if strings.TrimSpace(s) == "" {
			return []string{}, true
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides pisa el YAML con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("APP_NAME"); ok {
		c.App.Name = v
	}
	if v, ok := getEnvBool("DEBUG"); ok {
		c.App.Debug = v
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}

	// LOG
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	// SESSION
	if v, ok := getEnvStr("SECRET_KEY"); ok {
		c.Session.SecretKey = v
	}
	if v, ok := getEnvStr("SESSION_COOKIE_NAME"); ok {
		c.Session.CookieName = v
	}
	if v, ok := getEnvStr("SESSION_DOMAIN"); ok {
		c.Session.Domain = v
	}
	if v, ok := getEnvStr("SESSION_SAMESITE"); ok {
		c.Session.SameSite = v
	}
	if v, ok := getEnvInt("SESSION_MAX_AGE"); ok {
		// compat: la config legada usaba segundos
		c.Session.MaxAge = (time.Duration(v) * time.Second).String()
	}

	// TENANTS
	if v, ok := getEnvStr("API_KEY_JSON_PATH"); ok {
		c.Tenants.RegistryPath = v
	}
	if v, ok := getEnvStr("COMPANY_CODE"); ok {
		c.Tenants.DefaultCompany = v
	}
	if v, ok := getEnvStr("MODE"); ok {
		c.Tenants.DefaultMode = v
	}

	// UPSTREAM
	if v, ok := getEnvInt("API_TIMEOUT"); ok {
		c.Upstream.Timeout = (time.Duration(v) * time.Second).String()
	}
	if v, ok := getEnvBool("SSL_VERIFY"); ok {
		c.Upstream.SSLVerify = &v
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}
	if v, ok := getEnvStr("CACHE_MEMORY_DEFAULT_TTL"); ok {
		c.Cache.Memory.DefaultTTL = v
	}

	// RATE
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvInt("RATE_LOGIN_LIMIT"); ok {
		c.Rate.Login.Limit = v
	}
	if v, ok := getEnvStr("RATE_LOGIN_WINDOW"); ok {
		c.Rate.Login.Window = v
	}

	// SUPPORT
	if v, ok := getEnvStr("SUPPORT_TOKEN_TTL"); ok {
		c.Support.TokenTTL = v
	}
}
