// Package tourcube es el cliente del API de reservas Tourcube. El portal es
// un gateway sin datos propios: todo lo que muestra sale de estos endpoints.
package tourcube

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tourcube/guideportal/internal/observability/logger"
)

// Credentials son la URL base y la API key activas de una compañía/modo.
// Cada request las recibe del resolver de tenants.
type Credentials struct {
	BaseURL string
	APIKey  string
}

// Client llama al API de reservas. Un solo Client sirve a todas las
// compañías: las credenciales viajan por llamada, no en el cliente.
type Client struct {
	http      *http.Client
	userAgent string

	// Observe, si está seteado, recibe cada request terminada (métricas).
	Observe func(path string, status int, d time.Duration)
}

// Options de construcción del cliente.
type Options struct {
	Timeout   time.Duration
	SSLVerify bool
	AppName   string
	Version   string
}

// New arma el cliente upstream compartido del proceso.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !opts.SSLVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	name := opts.AppName
	if name == "" {
		name = "guideportal"
	}
	return &Client{
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		userAgent: fmt.Sprintf("%s/%s", name, opts.Version),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Transporte
// ─────────────────────────────────────────────────────────────────────────────

func (c *Client) do(ctx context.Context, creds Credentials, method, path string, query url.Values, body any) ([]byte, error) {
	u := strings.TrimRight(creds.BaseURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("serializando request %s: %w", path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("armando request %s: %w", path, err)
	}
	req.Header.Set("tc-api-key", creds.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)

	log := logger.From(ctx)
	if err != nil {
		if c.Observe != nil {
			c.Observe(path, 0, elapsed)
		}
		log.Warn("upstream inaccesible",
			logger.UpstreamPath(path),
			logger.UpstreamDuration(elapsed),
			logger.Err(err))
		return nil, fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, path, err)
	}
	defer resp.Body.Close()

	if c.Observe != nil {
		c.Observe(path, resp.StatusCode, elapsed)
	}
	log.Debug("upstream respondió",
		logger.UpstreamPath(path),
		logger.UpstreamStatus(resp.StatusCode),
		logger.UpstreamDuration(elapsed))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: leyendo cuerpo de %s: %v", ErrUpstreamUnavailable, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("upstream rechazó el request",
			logger.UpstreamPath(path),
			logger.UpstreamStatus(resp.StatusCode),
			zap.Int("body_len", len(raw)))
		return nil, &RejectedError{Status: resp.StatusCode, Path: path}
	}
	return raw, nil
}

func (c *Client) getJSON(ctx context.Context, creds Credentials, path string, query url.Values, out any) error {
	raw, err := c.do(ctx, creds, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrResponseParse, path, err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Endpoints del guide portal
// ─────────────────────────────────────────────────────────────────────────────

// Login autentica contra POST /tourcube/guidePortal/login.
func (c *Client) Login(ctx context.Context, creds Credentials, username, password string) (*LoginResponse, error) {
	body := map[string]string{
		"portalUserName": username,
		"portalPassword": password,
	}
	raw, err := c.do(ctx, creds, http.MethodPost, "/tourcube/guidePortal/login", nil, body)
	if err != nil {
		return nil, err
	}
	var out LoginResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: login: %v", ErrResponseParse, err)
	}
	return &out, nil
}

// GuideHomepage trae los datos del home de un guía.
func (c *Client) GuideHomepage(ctx context.Context, creds Credentials, guideID int64) (*GuideHomepage, error) {
	var out GuideHomepage
	path := fmt.Sprintf("/tourcube/guidePortal/getGuideHomepage/%d", guideID)
	if err := c.getJSON(ctx, creds, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GuideForms trae los formularios de un guía. departureID 0 = todos.
func (c *Client) GuideForms(ctx context.Context, creds Credentials, guideID, departureID int64) (*FormsResponse, error) {
	var out FormsResponse
	path := fmt.Sprintf("/tourcube/guidePortal/getGuideForms/%d/%d", guideID, departureID)
	if err := c.getJSON(ctx, creds, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VendorHomepage trae los datos del home de un vendor.
func (c *Client) VendorHomepage(ctx context.Context, creds Credentials, vendorID int64) (*VendorHomepage, error) {
	var out VendorHomepage
	path := fmt.Sprintf("/tourcube/guidePortal/getVendorHomepage/%d", vendorID)
	if err := c.getJSON(ctx, creds, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VendorForms trae los formularios de un vendor. El endpoint devuelve un
// array pelado, a veces serializado como string.
func (c *Client) VendorForms(ctx context.Context, creds Credentials, vendorID, departureID int64) (FormList, error) {
	path := fmt.Sprintf("/tourcube/guidePortal/getVendorForms/%d/%d", vendorID, departureID)
	raw, err := c.do(ctx, creds, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	var forms FormList
	if err := json.Unmarshal(raw, &forms); err != nil {
		// Variante con envoltorio {"forms": [...]}
		var wrapped FormsResponse
		if err2 := json.Unmarshal(raw, &wrapped); err2 != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrResponseParse, path, err)
		}
		forms = wrapped.Forms
	}
	return forms, nil
}

// DeparturePage trae el detalle de una salida (pasajeros, docs, contactos).
func (c *Client) DeparturePage(ctx context.Context, creds Credentials, departureID, userID int64) (*DeparturePage, error) {
	var out DeparturePage
	path := fmt.Sprintf("/tourcube/guidePortal/getDeparturePage/%d", departureID)
	q := url.Values{"userId": []string{strconv.FormatInt(userID, 10)}}
	if err := c.getJSON(ctx, creds, path, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TripPage trae el detalle de un viaje con sus salidas.
func (c *Client) TripPage(ctx context.Context, creds Credentials, tripID, userID int64) (*TripPage, error) {
	var out TripPage
	path := fmt.Sprintf("/tourcube/guidePortal/getTripPage/%d", tripID)
	q := url.Values{"userId": []string{strconv.FormatInt(userID, 10)}}
	if err := c.getJSON(ctx, creds, path, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClientDetail trae la ficha de un cliente/pasajero.
func (c *Client) ClientDetail(ctx context.Context, creds Credentials, clientID, userID int64) (*ClientPage, error) {
	var out ClientPage
	path := fmt.Sprintf("/tourcube/guidePortal/getClientPage/%d", clientID)
	q := url.Values{"userId": []string{strconv.FormatInt(userID, 10)}}
	if err := c.getJSON(ctx, creds, path, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotUsername dispara el mail de recupero de usuario. Devuelve el texto
// crudo del upstream.
func (c *Client) ForgotUsername(ctx context.Context, creds Credentials, email string) (string, error) {
	path := "/tourcube/guidePortal/forgotUserName/" + url.PathEscape(email)
	raw, err := c.do(ctx, creds, http.MethodGet, path, nil, nil)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ResolveClientHash resuelve un guide_hash a guide ID vía
// /tourcube/v1/clientHash/{hash}. El upstream responde un entero pelado,
// un string numérico o un objeto con alguna variante de clave.
func (c *Client) ResolveClientHash(ctx context.Context, creds Credentials, hash string) (int64, error) {
	path := "/tourcube/v1/clientHash/" + url.PathEscape(hash)
	raw, err := c.do(ctx, creds, http.MethodGet, path, nil, nil)
	if err != nil {
		return 0, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return 0, fmt.Errorf("%w: clientHash: %v", ErrResponseParse, err)
		}
		for _, k := range []string{"guide_id", "GuideID", "guideID", "client_id", "ClientID", "clientID"} {
			if v, ok := obj[k]; ok {
				var id FlexInt
				if err := json.Unmarshal(v, &id); err == nil && id > 0 {
					return id.Int64(), nil
				}
			}
		}
		return 0, fmt.Errorf("%w: clientHash sin ID reconocible", ErrResponseParse)
	}

	var id FlexInt
	if err := json.Unmarshal(trimmed, &id); err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: clientHash no resolvió a un ID", ErrResponseParse)
	}
	return id.Int64(), nil
}
