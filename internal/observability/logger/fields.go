package logger

import (
	"time"

	"go.uber.org/zap"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// Bytes crea un campo para los bytes de respuesta.
func Bytes(v int) zap.Field {
	return zap.Int("bytes", v)
}

// DurationMs crea un campo para la duración en milisegundos.
func DurationMs(v int64) zap.Field {
	return zap.Int64("duration_ms", v)
}

// ClientIP crea un campo para la IP del cliente.
func ClientIP(v string) zap.Field {
	return zap.String("client_ip", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - NEGOCIO
// =================================================================================

// Company crea un campo para el código de compañía (tenant).
func Company(v string) zap.Field {
	return zap.String("company_code", v)
}

// Mode crea un campo para el modo activo (Test/Production).
func Mode(v string) zap.Field {
	return zap.String("mode", v)
}

// Role crea un campo para el rol de la sesión (Guide/Vendor).
func Role(v string) zap.Field {
	return zap.String("role", v)
}

// UserID crea un campo para el guideID/vendorID de la sesión.
func UserID(v int64) zap.Field {
	return zap.Int64("user_id", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - UPSTREAM
// =================================================================================

// UpstreamPath crea un campo para el path del API upstream.
func UpstreamPath(v string) zap.Field {
	return zap.String("upstream_path", v)
}

// UpstreamStatus crea un campo para el status devuelto por el upstream.
func UpstreamStatus(v int) zap.Field {
	return zap.Int("upstream_status", v)
}

// UpstreamDuration crea un campo para la latencia de la llamada upstream.
func UpstreamDuration(v time.Duration) zap.Field {
	return zap.Duration("upstream_duration", v)
}

// Op crea un campo para el nombre de la operación.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// Any crea un campo para un valor arbitrario.
func Any(key string, v any) zap.Field {
	return zap.Any(key, v)
}
