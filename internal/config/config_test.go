package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempYAML(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("escribiendo yaml temporal: %v", err)
	}
	return p
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Server.Addr != ":8000" {
		t.Errorf("addr default = %q, esperaba :8000", c.Server.Addr)
	}
	if c.Session.CookieName != "guide_portal_session" {
		t.Errorf("cookie name default = %q", c.Session.CookieName)
	}
	if got := c.SessionMaxAge(); got != 24*time.Hour {
		t.Errorf("session max-age = %v, esperaba 24h", got)
	}
	if c.Tenants.DefaultCompany != "WTGUIDE" || c.Tenants.DefaultMode != "Test" {
		t.Errorf("tenant defaults = %q/%q", c.Tenants.DefaultCompany, c.Tenants.DefaultMode)
	}
	if got := c.UpstreamTimeout(); got != 30*time.Second {
		t.Errorf("upstream timeout = %v, esperaba 30s", got)
	}
	if !c.SSLVerify() {
		t.Error("ssl_verify default debe ser true")
	}
}

func TestLoadMissingSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	if _, err := Load(""); err == nil {
		t.Fatal("esperaba error por secret_key ausente")
	}
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	p := writeTempYAML(t, `
app:
  app_env: dev
  debug: true
server:
  addr: ":9000"
session:
  secret_key: from-yaml
  cookie_name: custom_session
upstream:
  timeout: 10s
  ssl_verify: false
`)
	t.Setenv("SECRET_KEY", "from-env")
	t.Setenv("SERVER_ADDR", ":9100")

	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Session.SecretKey != "from-env" {
		t.Errorf("env debe pisar yaml, secret = %q", c.Session.SecretKey)
	}
	if c.Server.Addr != ":9100" {
		t.Errorf("addr = %q, esperaba :9100", c.Server.Addr)
	}
	if c.Session.CookieName != "custom_session" {
		t.Errorf("cookie name = %q", c.Session.CookieName)
	}
	if c.UpstreamTimeout() != 10*time.Second {
		t.Errorf("timeout = %v", c.UpstreamTimeout())
	}
	if c.SSLVerify() {
		t.Error("ssl_verify debía quedar en false")
	}
}

func TestLoadInvalidMode(t *testing.T) {
	t.Setenv("SECRET_KEY", "s")
	t.Setenv("MODE", "Staging")
	if _, err := Load(""); err == nil {
		t.Fatal("esperaba error por modo inválido")
	}
}

func TestProdForcesDebugOff(t *testing.T) {
	t.Setenv("SECRET_KEY", "s")
	t.Setenv("MODE", "Production")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("DEBUG", "true")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.App.Debug {
		t.Error("debug debe forzarse a false en prod")
	}
}

func TestRegistryPathRelativeToYAML(t *testing.T) {
	p := writeTempYAML(t, `
session:
  secret_key: s
tenants:
  registry_path: ./apikey.json
`)
	t.Setenv("MODE", "Test")
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := filepath.Join(filepath.Dir(p), "apikey.json")
	if c.Tenants.RegistryPath != want {
		t.Errorf("registry path = %q, esperaba %q", c.Tenants.RegistryPath, want)
	}
}
