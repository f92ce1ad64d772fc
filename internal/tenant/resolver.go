package tenant

// Resolver decide qué compañía y modo atienden un request entrante.
// Precedencia: parámetros explícitos > mapa de dominios (Host) > defaults.
type Resolver struct {
	reg            *Registry
	defaultCompany string
	defaultMode    string
}

// NewResolver arma un resolver con los defaults de proceso (p.ej. WTGUIDE/Test).
func NewResolver(reg *Registry, defaultCompany, defaultMode string) *Resolver {
	return &Resolver{reg: reg, defaultCompany: defaultCompany, defaultMode: defaultMode}
}

// Resolve aplica la precedencia y devuelve (companyCode, mode) sin validar
// existencia: eso lo hace Company() al buscar credenciales.
func (rv *Resolver) Resolve(companyCode, mode, host string) (string, string) {
	// Explícitos completos ganan siempre.
	if companyCode != "" && mode != "" {
		return companyCode, mode
	}

	// El mapeo por dominio aplica cuando falta alguno de los dos explícitos.
	if h := NormalizeHost(host); h != "" {
		if t, ok := rv.reg.lookupDomain(h); ok {
			return t.CompanyID, t.Mode
		}
	}

	// Fallback a defaults, conservando el explícito parcial que hubiera.
	if companyCode == "" {
		companyCode = rv.defaultCompany
	}
	if mode == "" {
		mode = rv.defaultMode
	}
	return companyCode, mode
}

// ResolveCompany resuelve y además busca la configuración activa.
func (rv *Resolver) ResolveCompany(companyCode, mode, host string) (Company, error) {
	code, m := rv.Resolve(companyCode, mode, host)
	return rv.reg.Company(code, m)
}

// Defaults expone los valores de fallback (para logout y branding de /).
func (rv *Resolver) Defaults() (company, mode string) {
	return rv.defaultCompany, rv.defaultMode
}
