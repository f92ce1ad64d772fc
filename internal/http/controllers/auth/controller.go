// Package auth contiene los controllers del flujo de login del portal.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tourcube/guideportal/internal/observability/logger"
	"github.com/tourcube/guideportal/internal/security/supporttoken"
	"github.com/tourcube/guideportal/internal/session"
	"github.com/tourcube/guideportal/internal/tenant"
	"github.com/tourcube/guideportal/internal/tourcube"
	"github.com/tourcube/guideportal/internal/view"

	httperrors "github.com/tourcube/guideportal/internal/http/errors"
	svc "github.com/tourcube/guideportal/internal/http/services/auth"
)

// LoginMetric registra el resultado de un intento de login (ok|rejected|error).
type LoginMetric func(company, result string)

// Controller maneja login, logout, forgot-username y acceso de soporte.
type Controller struct {
	Auth     *svc.Service
	Sessions *session.Manager
	Resolver *tenant.Resolver
	Views    *view.Renderer
	Support  *supporttoken.Issuer

	OnLogin LoginMetric
}

func NewController(auth *svc.Service, sessions *session.Manager, resolver *tenant.Resolver, views *view.Renderer, support *supporttoken.Issuer) *Controller {
	return &Controller{
		Auth:     auth,
		Sessions: sessions,
		Resolver: resolver,
		Views:    views,
		Support:  support,
	}
}

func (c *Controller) recordLogin(company, result string) {
	if c.OnLogin != nil {
		c.OnLogin(company, result)
	}
}

// loginURL arma la URL del login con company/mode y parámetros extra.
func loginURL(companyCode, mode string, extra url.Values) string {
	q := url.Values{}
	q.Set("company_code", companyCode)
	q.Set("mode", mode)
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return "/auth/login?" + q.Encode()
}

// Root redirige / al login con los parámetros resueltos para el host.
// GET /
func (c *Controller) Root(w http.ResponseWriter, r *http.Request) {
	code, mode := c.Resolver.Resolve("", "", r.Host)

	extra := url.Values{}
	if e := r.URL.Query().Get("error"); e != "" {
		extra.Set("error", e)
	}
	http.Redirect(w, r, loginURL(code, mode, extra), http.StatusFound)
}

// LoginPage muestra el formulario de login con el branding del tenant.
// GET /auth/login?company_code=...&mode=...&error=...
func (c *Controller) LoginPage(w http.ResponseWriter, r *http.Request) {
	// Sesión vigente: directo al home que corresponda.
	if s, err := c.Sessions.Read(r); err == nil {
		if s.IsVendor() {
			http.Redirect(w, r, "/vendor/home", http.StatusFound)
		} else {
			http.Redirect(w, r, "/guide/home", http.StatusFound)
		}
		return
	}

	q := r.URL.Query()
	co, err := c.Resolver.ResolveCompany(q.Get("company_code"), q.Get("mode"), r.Host)
	if err != nil {
		c.renderTenantError(w, r, err)
		return
	}

	c.Views.Render(w, http.StatusOK, "login", view.Page{
		Title:    "Log In",
		Error:    q.Get("error"),
		Branding: branding(co),
	})
}

// LoginSubmit procesa el POST del formulario de login.
// POST /auth/login (username, password, company_code, mode)
func (c *Controller) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Op("auth.login"))

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/?error=bad_request", http.StatusSeeOther)
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	companyCode := strings.TrimSpace(r.PostFormValue("company_code"))
	mode := strings.TrimSpace(r.PostFormValue("mode"))

	co, err := c.Resolver.ResolveCompany(companyCode, mode, r.Host)
	if err != nil {
		c.renderTenantError(w, r, err)
		return
	}
	back := func(code string) {
		http.Redirect(w, r, loginURL(co.CompanyID, co.Mode, url.Values{"error": {code}}), http.StatusSeeOther)
	}

	if username == "" || password == "" {
		back("invalid_credentials")
		return
	}

	res, err := c.Auth.Login(ctx, co, username, password)
	_, rejected := tourcube.IsRejected(err)
	switch {
	case err == nil:
		// sigue abajo
	case errors.Is(err, svc.ErrBadCredentials):
		c.recordLogin(co.CompanyID, "rejected")
		back("invalid_credentials")
		return
	case errors.Is(err, tourcube.ErrUpstreamUnavailable) || rejected:
		log.Warn("login upstream failure", logger.Company(co.CompanyID), logger.Err(err))
		c.recordLogin(co.CompanyID, "error")
		back("api_error")
		return
	default:
		log.Error("login failed", logger.Company(co.CompanyID), logger.Err(err))
		c.recordLogin(co.CompanyID, "error")
		back("unexpected_error")
		return
	}

	var s session.Session
	var home string
	if res.IsVendor {
		s = session.NewVendorSession(co.CompanyID, co.Mode, res.VendorID, res.VendorName, c.Sessions.TTL())
		home = "/vendor/home"
	} else {
		s = session.NewGuideSession(co.CompanyID, co.Mode, res.GuideID, res.FirstName, res.LastName, res.Email, c.Sessions.TTL())
		home = "/guide/home"
	}

	if err := c.Sessions.Issue(w, s); err != nil {
		log.Error("session issue failed", logger.Err(err))
		back("unexpected_error")
		return
	}

	c.recordLogin(co.CompanyID, "ok")
	log.Info("login ok",
		logger.Company(co.CompanyID),
		logger.Mode(co.Mode),
		logger.Role(string(s.Role)),
	)
	http.Redirect(w, r, home, http.StatusSeeOther)
}

// Logout limpia la sesión y vuelve al login del tenant de la sesión.
// GET /auth/logout
func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	code, mode := c.Resolver.Defaults()
	if s, err := c.Sessions.Read(r); err == nil {
		code, mode = s.CompanyCode, s.Mode
	}

	c.Sessions.Clear(w)
	http.Redirect(w, r, loginURL(code, mode, nil), http.StatusFound)
}

// ForgotUsernamePage muestra el formulario de recuperación de usuario.
// GET /auth/forgot-username?company_code=...&mode=...&success=...
func (c *Controller) ForgotUsernamePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	co, err := c.Resolver.ResolveCompany(q.Get("company_code"), q.Get("mode"), r.Host)
	if err != nil {
		c.renderTenantError(w, r, err)
		return
	}

	msg := ""
	switch q.Get("success") {
	case "true":
		msg = "sent"
	case "false":
		msg = "failed"
	}

	c.Views.Render(w, http.StatusOK, "forgot_username", view.Page{
		Title:    "Forgot Username",
		Message:  msg,
		Branding: branding(co),
	})
}

// ForgotUsernameSubmit dispara el recordatorio de usuario por email.
// POST /auth/forgot-username (email, company_code, mode)
func (c *Controller) ForgotUsernameSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/?error=bad_request", http.StatusSeeOther)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	co, err := c.Resolver.ResolveCompany(
		strings.TrimSpace(r.PostFormValue("company_code")),
		strings.TrimSpace(r.PostFormValue("mode")),
		r.Host,
	)
	if err != nil {
		c.renderTenantError(w, r, err)
		return
	}

	success := "true"
	if err := c.Auth.ForgotUsername(ctx, co, email); err != nil {
		logger.From(ctx).Warn("forgot username failed",
			logger.Op("auth.forgot_username"),
			logger.Company(co.CompanyID),
			logger.Err(err),
		)
		success = "false"
	}

	http.Redirect(w, r, fmt.Sprintf(
		"/auth/forgot-username?company_code=%s&mode=%s&success=%s",
		url.QueryEscape(co.CompanyID), url.QueryEscape(co.Mode), success,
	), http.StatusSeeOther)
}

// SupportAccess abre una sesión de guía a partir de un token de soporte
// de un solo uso. GET /auth/support?token=...
func (c *Controller) SupportAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Op("auth.support"))

	token := r.URL.Query().Get("token")
	if token == "" || c.Support == nil {
		http.Redirect(w, r, "/?error=support_token", http.StatusSeeOther)
		return
	}

	claims, err := c.Support.Verify(ctx, token)
	if err != nil {
		log.Warn("support token rejected", logger.Err(err))
		http.Redirect(w, r, "/?error=support_token", http.StatusSeeOther)
		return
	}

	co, err := c.Resolver.ResolveCompany(claims.CompanyCode, claims.Mode, r.Host)
	if err != nil {
		c.renderTenantError(w, r, err)
		return
	}

	res, err := c.Auth.SupportLogin(ctx, co, claims)
	if err != nil {
		log.Error("support login failed", logger.Company(co.CompanyID), logger.Err(err))
		http.Redirect(w, r, loginURL(co.CompanyID, co.Mode, url.Values{"error": {"support_token"}}), http.StatusSeeOther)
		return
	}

	s := session.NewGuideSession(co.CompanyID, co.Mode, res.GuideID, res.FirstName, res.LastName, res.Email, c.Sessions.TTL())
	if err := c.Sessions.Issue(w, s); err != nil {
		log.Error("session issue failed", logger.Err(err))
		http.Redirect(w, r, "/?error=unexpected_error", http.StatusSeeOther)
		return
	}

	log.Info("support access granted",
		logger.Company(co.CompanyID),
		logger.UserID(res.GuideID),
	)
	http.Redirect(w, r, "/guide/home", http.StatusSeeOther)
}

// renderTenantError responde con la página de error genérica; el status
// sale de la taxonomía HTTP (404 compañía desconocida, 400 modo inválido).
func (c *Controller) renderTenantError(w http.ResponseWriter, r *http.Request, err error) {
	ae := httperrors.Map(err)
	logger.From(r.Context()).Warn("tenant resolution failed",
		logger.Op("auth.tenant"),
		logger.Any("code", ae.Code),
		logger.Err(err),
	)

	code, mode := c.Resolver.Defaults()
	p := view.Page{
		Title:   "Company Not Found",
		Message: "We could not find a portal for that company and mode.",
		Branding: view.Branding{
			CompanyCode: code,
			Mode:        mode,
			Logo:        "logo.png",
			SkinName:    "theme-bluelite",
		},
	}
	c.Views.Render(w, ae.HTTPStatus, "error", p)
}

// branding construye los datos de marca del layout a partir del tenant.
func branding(co tenant.Company) view.Branding {
	return view.Branding{
		CompanyCode: co.CompanyID,
		Mode:        co.Mode,
		Logo:        co.Logo,
		SkinName:    co.SkinName,
		HTMLHeader:  co.HTMLHeader,
	}
}
