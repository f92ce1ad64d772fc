package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tourcube/guideportal/internal/tenant"
	"github.com/tourcube/guideportal/internal/tourcube"
)

func newService() *Service {
	return NewService(tourcube.New(tourcube.Options{Timeout: 5 * time.Second, SSLVerify: true}))
}

func companyFor(srv *httptest.Server) tenant.Company {
	return tenant.Company{CompanyID: "WTGUIDE", APIURL: srv.URL, APIKey: "k"}
}

func TestLoginGuide(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"LoginFailed": false, "Type": 1, "GuideClientID": 4521,
			"GuideFirstName": "Ada", "GuideLastName": "Lovelace", "GuideEmail": "ada@example.com",
		})
	}))
	defer srv.Close()

	res, err := newService().Login(context.Background(), companyFor(srv), "ada", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.IsVendor || res.GuideID != 4521 || res.FirstName != "Ada" || res.Email != "ada@example.com" {
		t.Errorf("resultado: %+v", res)
	}
}

func TestLoginVendorFetchesName(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "getVendorHomepage") {
			_ = json.NewEncoder(w).Encode(map[string]any{"name": "Alpine Adventures"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"LoginFailed": false, "Type": 2, "GuideVendorID": 77,
		})
	}))
	defer srv.Close()

	res, err := newService().Login(context.Background(), companyFor(srv), "alpine", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !res.IsVendor || res.VendorID != 77 || res.VendorName != "Alpine Adventures" {
		t.Errorf("resultado: %+v", res)
	}
}

func TestLoginVendorNameFallback(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "getVendorHomepage") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"LoginFailed": false, "Type": 2, "GuideVendorID": 77,
		})
	}))
	defer srv.Close()

	res, err := newService().Login(context.Background(), companyFor(srv), "alpine", "pw")
	if err != nil {
		t.Fatalf("el login no debe caerse por el nombre: %v", err)
	}
	if res.VendorName != "Vendor" {
		t.Errorf("VendorName = %q, esperaba fallback", res.VendorName)
	}
}

func TestLoginFailed(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"LoginFailed": true})
	}))
	defer srv.Close()

	if _, err := newService().Login(context.Background(), companyFor(srv), "x", "y"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("esperaba ErrBadCredentials, obtuvo %v", err)
	}
}

func TestLoginUnknownType(t *testing.T) {
	t.Parallel()
	cases := []map[string]any{
		{"LoginFailed": false, "Type": 3},
		{"LoginFailed": false, "Type": 1},                      // guía sin ID
		{"LoginFailed": false, "Type": 2, "GuideVendorID": 0},  // vendor sin ID
	}
	for _, body := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(body)
		}))
		_, err := newService().Login(context.Background(), companyFor(srv), "x", "y")
		srv.Close()
		if !errors.Is(err, ErrUnknownUserType) {
			t.Errorf("cuerpo %v: esperaba ErrUnknownUserType, obtuvo %v", body, err)
		}
	}
}

func TestLoginUpstreamDown(t *testing.T) {
	t.Parallel()
	company := tenant.Company{CompanyID: "WTGUIDE", APIURL: "http://127.0.0.1:1", APIKey: "k"}
	if _, err := newService().Login(context.Background(), company, "x", "y"); !errors.Is(err, tourcube.ErrUpstreamUnavailable) {
		t.Fatalf("esperaba ErrUpstreamUnavailable, obtuvo %v", err)
	}
}
