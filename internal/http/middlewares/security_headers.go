package middlewares

import (
	"net/http"
	"strings"
)

// isHTTPS detecta si el request llegó por HTTPS (directo o detrás de proxy).
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		return true
	}
	return false
}

// WithSecurityHeaders inyecta cabeceras de seguridad por defecto.
// La CSP permite estilos inline y assets remotos porque el portal
// sirve páginas HTML con skins por tenant.
func WithSecurityHeaders() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()

			// Referrer y MIME sniffing
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("X-Content-Type-Options", "nosniff")

			// DNS prefetch y cross-domain policies
			h.Set("X-DNS-Prefetch-Control", "off")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")

			// Clickjacking
			h.Set("X-Frame-Options", "DENY")

			// CSP para páginas server-rendered: los logos y hojas de estilo
			// de cada tenant pueden venir de CDNs externas.
			h.Set("Content-Security-Policy",
				"default-src 'self'; img-src 'self' https: data:; "+
					"style-src 'self' 'unsafe-inline' https:; "+
					"script-src 'self' https:; font-src 'self' https: data:; "+
					"frame-ancestors 'none'; base-uri 'none'; form-action 'self'")

			// Permissions-Policy: deshabilitar superficies no usadas
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")

			// HSTS si HTTPS
			if isHTTPS(r) {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WithHTTPSRedirect redirige a HTTPS cuando el request llega por HTTP.
// Se activa solo fuera de modo debug (en local no hay TLS).
func WithHTTPSRedirect(enabled bool) Middleware {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isHTTPS(r) {
				target := "https://" + r.Host + r.URL.RequestURI()
				http.Redirect(w, r, target, http.StatusTemporaryRedirect)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
