package tenant

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/tourcube/guideportal/internal/observability/logger"
	"github.com/tourcube/guideportal/internal/security/secretbox"
)

// encPrefix marca una API key cifrada en reposo dentro del registro.
const encPrefix = "enc:v1:"

// registryFile es la forma en disco de apikey.json.
type registryFile struct {
	TourcubeAPIKey []registryEntry `json:"TourcubeAPIKey"`
}

type registryEntry struct {
	CompanyID         string   `json:"CompanyID"`
	Logo              string   `json:"Logo"`
	TourcubeOnline    *bool    `json:"TourcubeOnline"`
	SkinName          string   `json:"SkinName"`
	HTMLHeader        string   `json:"HTMLHeader"`
	Test              string   `json:"Test"`
	TestURL           string   `json:"TestURL"`
	Production        string   `json:"Production"`
	ProductionURL     string   `json:"ProductionURL"`
	TestDomains       []string `json:"TestDomains"`
	ProductionDomains []string `json:"ProductionDomains"`
}

// domainTarget es el destino de un dominio mapeado: compañía + modo.
type domainTarget struct {
	CompanyID string
	Mode      string
}

// snapshot es la vista inmutable de un registro cargado. Registry la publica
// atómicamente: los lectores nunca ven un registro a medio recargar.
type snapshot struct {
	companies map[string]Company
	domains   map[string]domainTarget
}

// Registry mantiene el registro de compañías cargado desde apikey.json.
// Es seguro para lectura concurrente; Reload reemplaza el snapshot completo.
type Registry struct {
	path string
	snap atomic.Pointer[snapshot]
}

// LoadRegistry lee y parsea el archivo de registro.
func LoadRegistry(path string) (*Registry, error) {
	r := &Registry{path: path}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload vuelve a leer el archivo y publica el snapshot nuevo de forma
// atómica. Si la lectura falla, el snapshot anterior queda vigente.
func (r *Registry) Reload() error {
	b, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("registro de compañías: %w", err)
	}
	snap, err := parseRegistry(b)
	if err != nil {
		return fmt.Errorf("registro de compañías %s: %w", r.path, err)
	}
	r.snap.Store(snap)
	logger.L().Info("registro de compañías cargado",
		zap.String("path", r.path),
		zap.Int("companies", len(snap.companies)),
		zap.Int("domains", len(snap.domains)))
	return nil
}

func parseRegistry(b []byte) (*snapshot, error) {
	var file registryFile
	if err := json.Unmarshal(b, &file); err != nil {
		return nil, fmt.Errorf("json inválido: %w", err)
	}

	snap := &snapshot{
		companies: make(map[string]Company, len(file.TourcubeAPIKey)),
		domains:   make(map[string]domainTarget),
	}
	for _, e := range file.TourcubeAPIKey {
		if e.CompanyID == "" {
			// Entradas sin CompanyID se ignoran (registro legado las tiene).
			continue
		}

		testKey, err := maybeDecryptKey(e.CompanyID, e.Test)
		if err != nil {
			return nil, err
		}
		prodKey, err := maybeDecryptKey(e.CompanyID, e.Production)
		if err != nil {
			return nil, err
		}

		online := true
		if e.TourcubeOnline != nil {
			online = *e.TourcubeOnline
		}
		logo := e.Logo
		if logo == "" {
			logo = "logo.png"
		}

		c := Company{
			CompanyID:         e.CompanyID,
			Logo:              logo,
			TourcubeOnline:    online,
			SkinName:          inferSkin(e.SkinName, e.HTMLHeader),
			HTMLHeader:        e.HTMLHeader,
			TestAPIKey:        testKey,
			TestURL:           e.TestURL,
			ProductionAPIKey:  prodKey,
			ProductionURL:     e.ProductionURL,
			TestDomains:       e.TestDomains,
			ProductionDomains: e.ProductionDomains,
		}
		snap.companies[c.CompanyID] = c

		for _, d := range c.TestDomains {
			if h := NormalizeHost(d); h != "" {
				snap.domains[h] = domainTarget{CompanyID: c.CompanyID, Mode: ModeTest}
			}
		}
		for _, d := range c.ProductionDomains {
			if h := NormalizeHost(d); h != "" {
				snap.domains[h] = domainTarget{CompanyID: c.CompanyID, Mode: ModeProduction}
			}
		}
	}
	return snap, nil
}

// maybeDecryptKey descifra claves con prefijo enc:v1:; las demás pasan tal cual.
func maybeDecryptKey(companyID, key string) (string, error) {
	if !strings.HasPrefix(key, encPrefix) {
		return key, nil
	}
	plain, err := secretbox.Decrypt(strings.TrimPrefix(key, encPrefix))
	if err != nil {
		return "", fmt.Errorf("descifrando api key de %s: %w", companyID, err)
	}
	return plain, nil
}

// inferSkin: si SkinName viene vacío, se deduce del HTMLHeader legado.
func inferSkin(skinName, htmlHeader string) string {
	if skinName != "" {
		return skinName
	}
	h := strings.ToLower(htmlHeader)
	switch {
	case strings.Contains(h, "red"):
		return "theme-red"
	case strings.Contains(h, "egyptian"):
		return "theme-egyptian"
	case strings.Contains(h, "green"):
		return "theme-green"
	case strings.Contains(h, "purple"):
		return "theme-purple"
	case strings.Contains(h, "blue"):
		return "theme-bluelite"
	default:
		return "theme-bluelite"
	}
}

// Company devuelve la configuración activa de una compañía para un modo.
func (r *Registry) Company(companyCode, mode string) (Company, error) {
	snap := r.snap.Load()
	c, ok := snap.companies[companyCode]
	if !ok {
		return Company{}, fmt.Errorf("%w: %q", ErrUnknownTenant, companyCode)
	}
	return c.withMode(mode)
}

// Size devuelve la cantidad de compañías cargadas.
func (r *Registry) Size() int {
	return len(r.snap.Load().companies)
}

// Has reporta si la compañía existe en el registro.
func (r *Registry) Has(companyCode string) bool {
	_, ok := r.snap.Load().companies[companyCode]
	return ok
}

// lookupDomain busca un host ya normalizado en el mapa de dominios.
func (r *Registry) lookupDomain(host string) (domainTarget, bool) {
	t, ok := r.snap.Load().domains[host]
	return t, ok
}

// NormalizeHost baja a minúsculas y quita el puerto.
func NormalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return host
}
