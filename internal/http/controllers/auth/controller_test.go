package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tourcube/guideportal/internal/cache"
	svc "github.com/tourcube/guideportal/internal/http/services/auth"
	"github.com/tourcube/guideportal/internal/security/supporttoken"
	"github.com/tourcube/guideportal/internal/session"
	"github.com/tourcube/guideportal/internal/tenant"
	"github.com/tourcube/guideportal/internal/tourcube"
	"github.com/tourcube/guideportal/internal/view"
)

func newFixture(t *testing.T, upstreamURL string) (*Controller, *supporttoken.Issuer) {
	t.Helper()

	dir := t.TempDir()
	regPath := filepath.Join(dir, "apikey.json")
	require.NoError(t, os.WriteFile(regPath, []byte(`{"TourcubeAPIKey":[{
		"CompanyID":"WTGUIDE",
		"HTMLHeader":"blue",
		"Test":"k",
		"TestURL":"`+upstreamURL+`",
		"Production":"k",
		"ProductionURL":"`+upstreamURL+`"
	}]}`), 0o600))

	reg, err := tenant.LoadRegistry(regPath)
	require.NoError(t, err)

	codec, err := session.NewCodec("secreto-controller-test")
	require.NoError(t, err)

	views, err := view.New()
	require.NoError(t, err)

	mem, err := cache.New(context.Background(), cache.Config{Kind: "memory", DefaultTTL: time.Minute})
	require.NoError(t, err)

	issuer, err := supporttoken.NewIssuer("secreto-controller-test", 10*time.Minute, mem)
	require.NoError(t, err)

	tc := tourcube.New(tourcube.Options{Timeout: 5 * time.Second, SSLVerify: true, AppName: "guideportal", Version: "test"})

	ctrl := NewController(
		svc.NewService(tc),
		session.NewManager(codec, session.CookieConfig{TTL: time.Hour}),
		tenant.NewResolver(reg, "WTGUIDE", "Test"),
		views,
		issuer,
	)
	return ctrl, issuer
}

func TestRootRedirectUsesDefaults(t *testing.T) {
	t.Parallel()

	ctrl, _ := newFixture(t, "http://127.0.0.1:1")

	rec := httptest.NewRecorder()
	ctrl.Root(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "company_code=WTGUIDE")
	require.Contains(t, rec.Header().Get("Location"), "mode=Test")
}

func TestLoginPageUnknownTenantIs404(t *testing.T) {
	t.Parallel()

	ctrl, _ := newFixture(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodGet, "/auth/login?company_code=NADIE&mode=Test", nil)
	rec := httptest.NewRecorder()
	ctrl.LoginPage(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Company Not Found")
}

func TestSupportAccessGrantsGuideSession(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/tourcube/v1/clientHash/abc123", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"guide_id":42}`))
	})
	mux.HandleFunc("/tourcube/guidePortal/getGuideHomepage/42", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Ana García"}`))
	})
	upstream := httptest.NewServer(mux)
	t.Cleanup(upstream.Close)

	ctrl, issuer := newFixture(t, upstream.URL)

	token, err := issuer.Mint("abc123", "WTGUIDE", "Test")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/support?token="+token, nil)
	rec := httptest.NewRecorder()
	ctrl.SupportAccess(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/guide/home", rec.Header().Get("Location"))
	require.NotEmpty(t, rec.Result().Cookies(), "el acceso de soporte debe emitir cookie de sesión")

	// El mismo token no puede usarse dos veces.
	rec = httptest.NewRecorder()
	ctrl.SupportAccess(rec, httptest.NewRequest(http.MethodGet, "/auth/support?token="+token, nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "error=support_token")
}

func TestLoginSubmitUpstreamDownIsAPIError(t *testing.T) {
	t.Parallel()

	ctrl, _ := newFixture(t, "http://127.0.0.1:1")

	form := "username=ana&password=secreta&company_code=WTGUIDE&mode=Test"
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	ctrl.LoginSubmit(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "error=api_error",
		"upstream caído debe reportarse como api_error, no como unexpected_error")
}

func TestLoginSubmitUpstreamRejectionIsAPIError(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(upstream.Close)

	ctrl, _ := newFixture(t, upstream.URL)

	form := "username=ana&password=secreta&company_code=WTGUIDE&mode=Test"
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	ctrl.LoginSubmit(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "error=api_error")
}

func TestSupportAccessRejectsGarbageToken(t *testing.T) {
	t.Parallel()

	ctrl, _ := newFixture(t, "http://127.0.0.1:1")

	rec := httptest.NewRecorder()
	ctrl.SupportAccess(rec, httptest.NewRequest(http.MethodGet, "/auth/support?token=basura", nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "error=support_token")
}

func TestLogoutWithoutSessionUsesDefaults(t *testing.T) {
	t.Parallel()

	ctrl, _ := newFixture(t, "http://127.0.0.1:1")

	rec := httptest.NewRecorder()
	ctrl.Logout(rec, httptest.NewRequest(http.MethodGet, "/auth/logout", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "company_code=WTGUIDE")
}
