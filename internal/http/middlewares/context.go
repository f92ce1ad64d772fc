package middlewares

import (
	"context"

	"github.com/tourcube/guideportal/internal/tenant"
)

type ctxKey string

const (
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
	// ctxCompanyKey guarda la compañía resuelta para el request
	ctxCompanyKey ctxKey = "company"
)

// setRequestID inyecta el request ID en el contexto (interno).
func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetRequestID obtiene el request ID del contexto.
// Retorna cadena vacía si no hay request ID.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(ctxRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithCompany inyecta la compañía resuelta en el contexto.
func WithCompany(ctx context.Context, c tenant.Company) context.Context {
	return context.WithValue(ctx, ctxCompanyKey, c)
}

// GetCompany obtiene la compañía del contexto.
// El segundo valor es false si el middleware de tenant no se aplicó.
func GetCompany(ctx context.Context) (tenant.Company, bool) {
	if v := ctx.Value(ctxCompanyKey); v != nil {
		if c, ok := v.(tenant.Company); ok {
			return c, true
		}
	}
	return tenant.Company{}, false
}
