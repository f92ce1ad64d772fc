// Package tenant carga y resuelve la configuración multi-compañía del portal.
// El registro (apikey.json) define, por compañía, credenciales de API para
// modos Test y Production, branding y dominios de acceso.
package tenant

import (
	"errors"
	"fmt"
)

// Mode selecciona el juego de credenciales contra el upstream.
const (
	ModeTest       = "Test"
	ModeProduction = "Production"
)

var (
	// ErrUnknownTenant: el código de compañía no existe en el registro.
	ErrUnknownTenant = errors.New("compañía desconocida")
	// ErrInvalidMode: el modo no es Test ni Production.
	ErrInvalidMode = errors.New("modo inválido: debe ser Test o Production")
)

// Company es la entrada de registro de una compañía, ya con los valores
// activos (APIURL/APIKey) resueltos según el modo pedido.
type Company struct {
	CompanyID      string
	Logo           string
	TourcubeOnline bool
	SkinName       string
	HTMLHeader     string

	TestAPIKey       string
	TestURL          string
	ProductionAPIKey string
	ProductionURL    string

	TestDomains       []string
	ProductionDomains []string

	// Activos según el modo con el que se resolvió.
	Mode   string
	APIURL string
	APIKey string
}

// ValidMode reporta si m es un modo aceptado.
func ValidMode(m string) bool {
	return m == ModeTest || m == ModeProduction
}

// withMode devuelve una copia de c con las credenciales activas del modo dado.
func (c Company) withMode(mode string) (Company, error) {
	if !ValidMode(mode) {
		return Company{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	c.Mode = mode
	if mode == ModeProduction {
		c.APIURL = c.ProductionURL
		c.APIKey = c.ProductionAPIKey
	} else {
		c.APIURL = c.TestURL
		c.APIKey = c.TestAPIKey
	}
	return c, nil
}
