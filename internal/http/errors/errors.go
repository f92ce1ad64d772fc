package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tourcube/guideportal/internal/security/supporttoken"
	"github.com/tourcube/guideportal/internal/session"
	"github.com/tourcube/guideportal/internal/tenant"
	"github.com/tourcube/guideportal/internal/tourcube"
)

// errorResponse estructura interna para la serialización JSON.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// WriteError escribe una respuesta JSON basada en el error proporcionado.
// Se usa en endpoints de API; las páginas HTML redirigen en vez de esto.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	resp := errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(resp)
}

// Map traduce los errores de las capas de dominio a la taxonomía HTTP.
// Errores ya mapeados pasan tal cual.
func Map(err error) *AppError {
	switch {
	case err == nil:
		return nil

	case errors.Is(err, tenant.ErrUnknownTenant):
		return ErrTenantNotFound.WithCause(err)
	case errors.Is(err, tenant.ErrInvalidMode):
		return ErrInvalidMode.WithCause(err)

	case errors.Is(err, session.ErrExpiredSession):
		return ErrSessionExpired.WithCause(err)
	case errors.Is(err, session.ErrInvalidSession):
		return ErrUnauthorized.WithCause(err)

	case errors.Is(err, supporttoken.ErrTokenUsed):
		return ErrSupportTokenUsed.WithCause(err)
	case errors.Is(err, supporttoken.ErrTokenExpired),
		errors.Is(err, supporttoken.ErrTokenInvalid):
		return ErrSupportTokenInvalid.WithCause(err)

	case errors.Is(err, tourcube.ErrUpstreamUnavailable):
		return ErrUpstreamUnavailable.WithCause(err)
	case errors.Is(err, tourcube.ErrResponseParse):
		return ErrUpstreamParse.WithCause(err)
	}

	if re, ok := tourcube.IsRejected(err); ok {
		return ErrUpstreamRejected.
			WithDetail(fmt.Sprintf("status upstream %d", re.Status)).
			WithCause(err)
	}
	return FromError(err)
}
