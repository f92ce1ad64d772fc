package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tourcube/guideportal/internal/cache"
	authctrl "github.com/tourcube/guideportal/internal/http/controllers/auth"
	healthctrl "github.com/tourcube/guideportal/internal/http/controllers/health"
	portalctrl "github.com/tourcube/guideportal/internal/http/controllers/portal"
	authsvc "github.com/tourcube/guideportal/internal/http/services/auth"
	guidesvc "github.com/tourcube/guideportal/internal/http/services/guide"
	vendorsvc "github.com/tourcube/guideportal/internal/http/services/vendor"
	"github.com/tourcube/guideportal/internal/rate"
	"github.com/tourcube/guideportal/internal/session"
	"github.com/tourcube/guideportal/internal/tenant"
	"github.com/tourcube/guideportal/internal/tourcube"
	"github.com/tourcube/guideportal/internal/view"
)

// fakeTourcube imita los endpoints del API que tocan estos tests.
func fakeTourcube(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/tourcube/guidePortal/login", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]string
		_ = json.Unmarshal(body, &req)

		w.Header().Set("Content-Type", "application/json")
		if req["portalUserName"] == "ana" && req["portalPassword"] == "secreta" {
			_, _ = w.Write([]byte(`{"LoginFailed":false,"Type":1,"GuideClientID":42,"GuideFirstName":"Ana","GuideLastName":"García","GuideEmail":"ana@example.com"}`))
			return
		}
		_, _ = w.Write([]byte(`{"LoginFailed":true}`))
	})

	mux.HandleFunc("/tourcube/guidePortal/getGuideHomepage/42", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name":"Ana García",
			"FutureTrips":[{"Trip_DepartureID":101,"TripID":7,"Trip_Name":"Patagonia Trek","dates":"Mar 1 - Mar 12","Departure_Date":"20270301","SignUps":8,"Trip_Leaders":"Ana García"}],
			"PastTrips":[]
		}`))
	})

	mux.HandleFunc("/tourcube/guidePortal/getGuideForms/42/0", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"requestStatus":"ok","forms":[]}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeRegistry(t *testing.T, upstreamURL string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "apikey.json")
	reg := `{"TourcubeAPIKey":[{
		"CompanyID":"WTGUIDE",
		"Logo":"wt-logo.png",
		"HTMLHeader":"blue",
		"Test":"test-key",
		"TestURL":"` + upstreamURL + `",
		"Production":"prod-key",
		"ProductionURL":"` + upstreamURL + `"
	}]}`
	if err := os.WriteFile(path, []byte(reg), 0o600); err != nil {
		t.Fatalf("escribiendo registro: %v", err)
	}
	return path
}

func newTestRouter(t *testing.T, upstreamURL string) http.Handler {
	t.Helper()

	reg, err := tenant.LoadRegistry(writeRegistry(t, upstreamURL))
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	resolver := tenant.NewResolver(reg, "WTGUIDE", "Test")

	codec, err := session.NewCodec("clave-de-prueba-router")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	sessions := session.NewManager(codec, session.CookieConfig{TTL: time.Hour})

	views, err := view.New()
	if err != nil {
		t.Fatalf("view.New: %v", err)
	}

	tc := tourcube.New(tourcube.Options{Timeout: 5 * time.Second, SSLVerify: true, AppName: "guideportal", Version: "test"})

	c, err := cache.New(context.Background(), cache.Config{Kind: "memory", DefaultTTL: time.Minute})
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}

	return NewRouter(RouterDeps{
		Auth:         authctrl.NewController(authsvc.NewService(tc), sessions, resolver, views, nil),
		Portal:       portalctrl.NewController(guidesvc.NewService(tc), vendorsvc.NewService(tc), sessions, views),
		Health:       healthctrl.NewController("test", c, reg),
		Sessions:     sessions,
		Resolver:     resolver,
		LoginLimiter: rate.NewFixedWindowLimiter(c, "login", 100, time.Minute),
	})
}

func TestRootRedirectsToLogin(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, fakeTourcube(t).URL)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, se esperaba 302", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.Contains(loc, "company_code=WTGUIDE") || !strings.Contains(loc, "mode=Test") {
		t.Fatalf("Location = %q", loc)
	}
}

func TestLoginPageRendersBranding(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, fakeTourcube(t).URL)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/login?company_code=WTGUIDE&mode=Test", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "wt-logo.png") {
		t.Fatal("falta el logo del tenant")
	}
	if !strings.Contains(body, "theme-bluelite") {
		t.Fatal("falta el skin inferido del header azul")
	}
}

func TestLoginPageUnknownCompany(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, fakeTourcube(t).URL)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/login?company_code=NOPE&mode=Test", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, se esperaba 404", rec.Code)
	}
}

func loginForm(user, pass string) *http.Request {
	form := url.Values{
		"username":     {user},
		"password":     {pass},
		"company_code": {"WTGUIDE"},
		"mode":         {"Test"},
	}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLoginSubmitBadCredentials(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, fakeTourcube(t).URL)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, loginForm("ana", "incorrecta"))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, se esperaba 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=invalid_credentials") {
		t.Fatalf("Location = %q", loc)
	}
}

func TestLoginFlowAndGuideHome(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, fakeTourcube(t).URL)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, loginForm("ana", "secreta"))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d, se esperaba 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/guide/home" {
		t.Fatalf("Location = %q, se esperaba /guide/home", loc)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("el login no emitió cookie de sesión")
	}

	home := httptest.NewRequest(http.MethodGet, "/guide/home", nil)
	for _, c := range cookies {
		home.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, home)

	if rec.Code != http.StatusOK {
		t.Fatalf("home status = %d, body=%q", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Patagonia Trek") {
		t.Fatal("falta el viaje del homepage")
	}
	if !strings.Contains(body, "Ana García") {
		t.Fatal("falta el nombre del guía")
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("Cache-Control = %q en página autenticada", got)
	}
}

func TestProtectedPageWithoutSession(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, fakeTourcube(t).URL)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guide/home", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, se esperaba redirect", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/?error=unauthorized" {
		t.Fatalf("Location = %q", loc)
	}
}

func TestVendorRouteRejectsGuideSession(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, fakeTourcube(t).URL)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, loginForm("ana", "secreta"))
	cookies := rec.Result().Cookies()

	req := httptest.NewRequest(http.MethodGet, "/vendor/home", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, se esperaba redirect por rol", rec.Code)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, fakeTourcube(t).URL)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, loginForm("ana", "secreta"))
	cookies := rec.Result().Cookies()

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, se esperaba 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "company_code=WTGUIDE") {
		t.Fatalf("Location = %q", loc)
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("el logout no borró la cookie de sesión")
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, fakeTourcube(t).URL)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Fatalf("status = %v", resp["status"])
	}
}
