package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec("test-secret-key")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func TestCodecRoundTripGuide(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	s := NewGuideSession("WTGUIDE", "Test", 12345, "Ada", "Lovelace", "ada@example.com", time.Hour)
	value, err := c.Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := c.Decode(value)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !got.IsGuide() || got.GuideID != 12345 || got.VendorID != 0 {
		t.Errorf("sesión decodificada: %+v", got)
	}
	if got.UserName != "Ada Lovelace" {
		t.Errorf("UserName = %q", got.UserName)
	}
	if got.CompanyCode != "WTGUIDE" || got.Mode != "Test" {
		t.Errorf("tenant = %q/%q", got.CompanyCode, got.Mode)
	}
}

func TestCodecRoundTripVendor(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	s := NewVendorSession("CJ", "Production", 77, "Vendor SA", time.Hour)
	value, err := c.Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := c.Decode(value)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !got.IsVendor() || got.VendorID != 77 || got.GuideID != 0 {
		t.Errorf("sesión decodificada: %+v", got)
	}
}

func TestCodecRejectsTampering(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	s := NewGuideSession("WTGUIDE", "Test", 1, "A", "B", "", time.Hour)
	value, _ := c.Encode(s)

	// Alterar el payload manteniendo la firma original.
	p64, sig, _ := strings.Cut(value, ".")
	payload, _ := base64.RawURLEncoding.DecodeString(p64)
	var raw map[string]any
	_ = json.Unmarshal(payload, &raw)
	raw["guide_id"] = 999
	mut, _ := json.Marshal(raw)
	tampered := base64.RawURLEncoding.EncodeToString(mut) + "." + sig

	if _, err := c.Decode(tampered); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("esperaba ErrInvalidSession, obtuvo %v", err)
	}
}

func TestCodecRejectsWrongSecret(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)
	other, _ := NewCodec("otro-secreto")

	value, _ := c.Encode(NewGuideSession("WTGUIDE", "Test", 1, "A", "B", "", time.Hour))
	if _, err := other.Decode(value); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("esperaba ErrInvalidSession, obtuvo %v", err)
	}
}

func TestCodecRejectsExpired(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	s := NewGuideSession("WTGUIDE", "Test", 1, "A", "B", "", -time.Minute)
	value, _ := c.Encode(s)
	if _, err := c.Decode(value); !errors.Is(err, ErrExpiredSession) {
		t.Fatalf("esperaba ErrExpiredSession, obtuvo %v", err)
	}
}

func TestCodecRejectsMalformed(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)
	for _, in := range []string{"", "sin-punto", ".", "a.", ".b", "!!!.???"} {
		if _, err := c.Decode(in); err == nil {
			t.Errorf("Decode(%q): esperaba error", in)
		}
	}
}

func TestCodecRejectsInvalidRoleShape(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	// Guía sin GuideID viola el invariante estructural.
	s := Session{Role: RoleGuide, CompanyCode: "WTGUIDE", Mode: "Test",
		IssuedAt: time.Now().Unix(), ExpiresAt: time.Now().Add(time.Hour).Unix()}
	value, _ := c.Encode(s)
	if _, err := c.Decode(value); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("esperaba ErrInvalidSession, obtuvo %v", err)
	}
}

func TestManagerIssueReadClear(t *testing.T) {
	t.Parallel()
	m := NewManager(newTestCodec(t), CookieConfig{
		Name: "guide_portal_session", SameSite: "Lax", TTL: time.Hour,
	})

	rec := httptest.NewRecorder()
	s := NewGuideSession("WTGUIDE", "Test", 5, "Ada", "Lovelace", "", time.Hour)
	if err := m.Issue(rec, s); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cks := rec.Result().Cookies()
	if len(cks) != 1 {
		t.Fatalf("esperaba 1 cookie, obtuvo %d", len(cks))
	}
	ck := cks[0]
	if !ck.HttpOnly || ck.Path != "/" || ck.SameSite != http.SameSiteLaxMode {
		t.Errorf("atributos de cookie: %+v", ck)
	}
	if ck.MaxAge != 3600 {
		t.Errorf("MaxAge = %d", ck.MaxAge)
	}

	req := httptest.NewRequest(http.MethodGet, "/guide/home", nil)
	req.AddCookie(ck)
	got, err := m.Read(req)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.GuideID != 5 {
		t.Errorf("GuideID = %d", got.GuideID)
	}

	del := httptest.NewRecorder()
	m.Clear(del)
	dck := del.Result().Cookies()[0]
	if dck.MaxAge != -1 || dck.Value != "" {
		t.Errorf("cookie de borrado: %+v", dck)
	}
}

func TestManagerSecureCookie(t *testing.T) {
	t.Parallel()
	m := NewManager(newTestCodec(t), CookieConfig{
		Name: "guide_portal_session", SameSite: "Lax", Secure: true, TTL: time.Hour,
	})

	rec := httptest.NewRecorder()
	if err := m.Issue(rec, NewGuideSession("WTGUIDE", "Test", 5, "Ada", "Lovelace", "", time.Hour)); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if ck := rec.Result().Cookies()[0]; !ck.Secure {
		t.Error("la cookie de sesión debe ser Secure fuera de debug")
	}

	del := httptest.NewRecorder()
	m.Clear(del)
	if dck := del.Result().Cookies()[0]; !dck.Secure {
		t.Error("la cookie de borrado debe conservar Secure")
	}
}

func TestManagerReadWithoutCookie(t *testing.T) {
	t.Parallel()
	m := NewManager(newTestCodec(t), CookieConfig{TTL: time.Hour})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := m.Read(req); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("esperaba ErrInvalidSession, obtuvo %v", err)
	}
}
