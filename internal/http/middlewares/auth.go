package middlewares

import (
	"net/http"

	"github.com/tourcube/guideportal/internal/observability/logger"
	"github.com/tourcube/guideportal/internal/session"
	"github.com/tourcube/guideportal/internal/tenant"
)

// RequireSession valida la cookie de sesión y la inyecta en el contexto.
// Si la sesión falta, expiró o fue manipulada, redirige al login con
// el error en query string (las rutas protegidas son páginas HTML).
func RequireSession(mgr *session.Manager) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := mgr.Read(r)
			if err != nil {
				logger.From(r.Context()).Debug("session rejected",
					logger.Op("require_session"),
					logger.Err(err),
				)
				mgr.Clear(w)
				http.Redirect(w, r, "/?error=unauthorized", http.StatusSeeOther)
				return
			}

			ctx := session.ToContext(r.Context(), s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithTenant resuelve la compañía de la sesión y la inyecta en el contexto.
// Debe aplicarse después de RequireSession: si el tenant desapareció del
// registro con la sesión viva, la sesión se invalida.
func WithTenant(resolver *tenant.Resolver, mgr *session.Manager) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := session.FromContext(r.Context())
			if !ok {
				http.Redirect(w, r, "/?error=unauthorized", http.StatusSeeOther)
				return
			}

			co, err := resolver.ResolveCompany(s.CompanyCode, s.Mode, r.Host)
			if err != nil {
				logger.From(r.Context()).Warn("session tenant missing",
					logger.Op("with_tenant"),
					logger.Company(s.CompanyCode),
					logger.Err(err),
				)
				mgr.Clear(w)
				http.Redirect(w, r, "/?error=unauthorized", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCompany(r.Context(), co)))
		})
	}
}

// RequireRole exige que la sesión del contexto tenga el rol indicado.
// Debe aplicarse después de RequireSession.
func RequireRole(role session.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := session.FromContext(r.Context())
			if !ok || s.Role != role {
				http.Redirect(w, r, "/?error=unauthorized", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
