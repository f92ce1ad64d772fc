package session

import (
	"net/http"
	"strings"
	"time"
)

// CookieConfig son los atributos de la cookie de sesión.
type CookieConfig struct {
	Name     string
	Domain   string
	SameSite string
	Secure   bool
	TTL      time.Duration
}

// Manager emite, lee y borra la cookie de sesión.
type Manager struct {
	codec *Codec
	cfg   CookieConfig
}

// NewManager arma un manager con el codec y los atributos de cookie dados.
func NewManager(codec *Codec, cfg CookieConfig) *Manager {
	if cfg.Name == "" {
		cfg.Name = "guide_portal_session"
	}
	return &Manager{codec: codec, cfg: cfg}
}

// CookieName expone el nombre configurado (lo usan los handlers de logout).
func (m *Manager) CookieName() string { return m.cfg.Name }

// TTL expone la vida útil configurada de la sesión.
func (m *Manager) TTL() time.Duration { return m.cfg.TTL }

// Issue firma la sesión y setea la cookie en la respuesta.
func (m *Manager) Issue(w http.ResponseWriter, s Session) error {
	value, err := m.codec.Encode(s)
	if err != nil {
		return err
	}
	http.SetCookie(w, buildCookie(m.cfg, value, m.cfg.TTL))
	return nil
}

// Read extrae y verifica la sesión del request. Sin cookie, firma rota o
// sesión vencida devuelve ErrInvalidSession/ErrExpiredSession.
func (m *Manager) Read(r *http.Request) (Session, error) {
	ck, err := r.Cookie(m.cfg.Name)
	if err != nil || ck.Value == "" {
		return Session{}, ErrInvalidSession
	}
	return m.codec.Decode(ck.Value)
}

// Clear manda la cookie de borrado (MaxAge -1, Expires en epoch).
func (m *Manager) Clear(w http.ResponseWriter) {
	ck := &http.Cookie{
		Name:     m.cfg.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: parseSameSite(m.cfg.SameSite),
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
	}
	if strings.TrimSpace(m.cfg.Domain) != "" {
		ck.Domain = m.cfg.Domain
	}
	http.SetCookie(w, ck)
}

func buildCookie(cfg CookieConfig, value string, ttl time.Duration) *http.Cookie {
	ck := &http.Cookie{
		Name:     cfg.Name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: parseSameSite(cfg.SameSite),
	}
	if strings.TrimSpace(cfg.Domain) != "" {
		ck.Domain = cfg.Domain
	}
	if ttl > 0 {
		ck.Expires = time.Now().Add(ttl).UTC()
		ck.MaxAge = int(ttl.Seconds())
	}
	return ck
}

func parseSameSite(s string) http.SameSite {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
