// Package portal contiene los controllers de las páginas autenticadas:
// homes de guía y vendor, salidas, viajes y fichas de cliente.
package portal

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tourcube/guideportal/internal/observability/logger"
	"github.com/tourcube/guideportal/internal/session"
	"github.com/tourcube/guideportal/internal/tenant"
	"github.com/tourcube/guideportal/internal/tourcube"
	"github.com/tourcube/guideportal/internal/view"

	httperrors "github.com/tourcube/guideportal/internal/http/errors"
	mw "github.com/tourcube/guideportal/internal/http/middlewares"
	guidesvc "github.com/tourcube/guideportal/internal/http/services/guide"
	vendorsvc "github.com/tourcube/guideportal/internal/http/services/vendor"
)

// Controller sirve las páginas del portal. Todas las rutas que atiende
// exigen sesión y tenant resueltos (RequireSession + WithTenant corren antes).
type Controller struct {
	Guide    *guidesvc.Service
	Vendor   *vendorsvc.Service
	Sessions *session.Manager
	Views    *view.Renderer
}

func NewController(guide *guidesvc.Service, vendor *vendorsvc.Service, sessions *session.Manager, views *view.Renderer) *Controller {
	return &Controller{
		Guide:    guide,
		Vendor:   vendor,
		Sessions: sessions,
		Views:    views,
	}
}

// pageContext arma lo común de toda página autenticada: sesión, tenant
// y el sobre del template, todo desde el contexto del request.
func (c *Controller) pageContext(w http.ResponseWriter, r *http.Request) (session.Session, tenant.Company, view.Page, bool) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/?error=unauthorized", http.StatusSeeOther)
		return session.Session{}, tenant.Company{}, view.Page{}, false
	}

	co, ok := mw.GetCompany(r.Context())
	if !ok {
		http.Redirect(w, r, "/?error=unauthorized", http.StatusSeeOther)
		return session.Session{}, tenant.Company{}, view.Page{}, false
	}

	p := view.Page{
		UserName:  s.UserName,
		UserImage: s.UserImage,
		UserRole:  string(s.Role),
		Branding: view.Branding{
			CompanyCode: co.CompanyID,
			Mode:        co.Mode,
			Logo:        co.Logo,
			SkinName:    co.SkinName,
			HTMLHeader:  co.HTMLHeader,
		},
	}
	return s, co, p, true
}

func creds(co tenant.Company) tourcube.Credentials {
	return tourcube.Credentials{BaseURL: co.APIURL, APIKey: co.APIKey}
}

// renderUpstreamError muestra la página de error genérica cuando el
// upstream no responde o devuelve basura. El status sale de la taxonomía
// HTTP; el detalle del error queda sólo en los logs.
func (c *Controller) renderUpstreamError(w http.ResponseWriter, r *http.Request, p view.Page, what string, err error) {
	ae := httperrors.Map(err)
	logger.From(r.Context()).Error("upstream page load failed",
		logger.Op("portal."+what),
		logger.Any("code", ae.Code),
		logger.Err(err),
	)
	p.Title = "Service Unavailable"
	p.Message = "Unable to load " + what + " information. Please try again later."
	c.Views.Render(w, ae.HTTPStatus, "error", p)
}

// GuideHome renderiza el home del guía con viajes y formularios.
// GET /guide/home?tab=future|past
func (c *Controller) GuideHome(w http.ResponseWriter, r *http.Request) {
	s, co, p, ok := c.pageContext(w, r)
	if !ok {
		return
	}

	home, err := c.Guide.Homepage(r.Context(), creds(co), co.CompanyID, s.GuideID)
	if err != nil {
		c.renderUpstreamError(w, r, p, "guide", err)
		return
	}

	// La foto del guía viene del homepage; se persiste en la cookie para
	// que el header la muestre en el resto de las páginas.
	if home.GuideImage != "" && home.GuideImage != s.UserImage {
		s.UserImage = home.GuideImage
		_ = c.Sessions.Issue(w, s)
		p.UserImage = home.GuideImage
	}

	p.Title = "Guide Home"
	p.ActiveTab = activeTab(r, "future")
	p.Data = *home
	c.Views.Render(w, http.StatusOK, "guide_home", p)
}

// VendorHome renderiza el home del vendor.
// GET /vendor/home?tab=future|past
func (c *Controller) VendorHome(w http.ResponseWriter, r *http.Request) {
	s, co, p, ok := c.pageContext(w, r)
	if !ok {
		return
	}

	home, err := c.Vendor.Homepage(r.Context(), creds(co), co.CompanyID, s.VendorID)
	if err != nil {
		c.renderUpstreamError(w, r, p, "vendor", err)
		return
	}

	p.Title = "Vendor Home"
	p.ActiveTab = activeTab(r, "future")
	p.Data = *home
	c.Views.Render(w, http.StatusOK, "vendor_home", p)
}

// Departure renderiza la página de una salida. Guías y vendors comparten
// la ruta; el upstream filtra los formularios según el userId que recibe.
// GET /departure/{id}?tab=clients|documents|forms
func (c *Controller) Departure(w http.ResponseWriter, r *http.Request) {
	s, co, p, ok := c.pageContext(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, c, p)
	if !ok {
		return
	}

	dep, err := c.Guide.TripDeparture(r.Context(), creds(co), co.CompanyID, id, s.UserID(), s.IsVendor())
	if err != nil {
		c.renderUpstreamError(w, r, p, "trip", err)
		return
	}

	p.Title = dep.TripName
	p.ActiveTab = activeTab(r, "clients")
	p.Data = *dep
	c.Views.Render(w, http.StatusOK, "departure", p)
}

// Trip renderiza la página de un viaje con todas sus salidas.
// GET /trip/{id}?tab=future|past|documents
func (c *Controller) Trip(w http.ResponseWriter, r *http.Request) {
	s, co, p, ok := c.pageContext(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, c, p)
	if !ok {
		return
	}

	trip, err := c.Guide.Trip(r.Context(), creds(co), id, s.UserID())
	if err != nil {
		c.renderUpstreamError(w, r, p, "trip", err)
		return
	}

	p.Title = trip.TripName
	p.ActiveTab = activeTab(r, "future")
	p.Data = *trip
	c.Views.Render(w, http.StatusOK, "trip", p)
}

// Client renderiza la ficha de un pasajero.
// GET /client/{id}
func (c *Controller) Client(w http.ResponseWriter, r *http.Request) {
	s, co, p, ok := c.pageContext(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, c, p)
	if !ok {
		return
	}

	client, err := c.Guide.Client(r.Context(), creds(co), id, s.UserID())
	if err != nil {
		c.renderUpstreamError(w, r, p, "client", err)
		return
	}

	p.Title = client.FirstName + " " + client.LastName
	p.Data = *client
	c.Views.Render(w, http.StatusOK, "client", p)
}

func activeTab(r *http.Request, def string) string {
	if tab := r.URL.Query().Get("tab"); tab != "" {
		return tab
	}
	return def
}

// pathID parsea el {id} de la ruta; un id no numérico es un 404.
func pathID(w http.ResponseWriter, r *http.Request, c *Controller, p view.Page) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		p.Title = "Not Found"
		p.Message = "That page does not exist."
		c.Views.Render(w, http.StatusNotFound, "error", p)
		return 0, false
	}
	return id, true
}
