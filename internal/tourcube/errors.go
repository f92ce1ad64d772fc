package tourcube

import (
	"errors"
	"fmt"
)

// Taxonomía de errores upstream. Los handlers la traducen a respuestas:
// unavailable => 502, rejected => 502 con status, parse => 502.
var (
	// ErrUpstreamUnavailable: timeout, DNS, conexión rechazada.
	ErrUpstreamUnavailable = errors.New("api de reservas inaccesible")
	// ErrResponseParse: el upstream respondió 2xx pero el cuerpo no parsea.
	ErrResponseParse = errors.New("respuesta upstream no parseable")
)

// RejectedError: el upstream respondió con un status no exitoso.
type RejectedError struct {
	Status int
	Path   string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("api de reservas rechazó %s con status %d", e.Path, e.Status)
}

// IsRejected extrae el RejectedError de una cadena de errores.
func IsRejected(err error) (*RejectedError, bool) {
	var re *RejectedError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
