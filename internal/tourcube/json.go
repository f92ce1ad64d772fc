package tourcube

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Tipos tolerantes: el upstream mezcla números, strings numéricos y strings
// vacíos en los mismos campos, y a veces serializa listas como JSON embebido
// en un string.
// ─────────────────────────────────────────────────────────────────────────────

// FlexInt acepta 12, "12", "" y null. Vacío/null decodifica a 0.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			// Campos legados traen basura no numérica; se trata como ausente.
			*f = 0
			return nil
		}
		*f = FlexInt(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		// Floats ocasionales ("age": 45.0)
		var fl float64
		if err2 := json.Unmarshal(b, &fl); err2 != nil {
			return err
		}
		n = int64(fl)
	}
	*f = FlexInt(n)
	return nil
}

// Int64 devuelve el valor como int64.
func (f FlexInt) Int64() int64 { return int64(f) }

// FormList acepta un array JSON o un string con el array serializado adentro.
type FormList []Form

func (fl *FormList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var embedded string
		if err := json.Unmarshal(b, &embedded); err != nil {
			return err
		}
		b = []byte(embedded)
	}
	if len(b) == 0 || string(b) == "null" || string(b) == `""` {
		*fl = nil
		return nil
	}
	var forms []Form
	if err := json.Unmarshal(b, &forms); err != nil {
		return err
	}
	*fl = forms
	return nil
}

// dateFormats: los que el backend legado emite según la pantalla.
var dateFormats = []string{
	"2006-01-02", // ISO
	"20060102",   // WebDev
	"01/02/2006", // US
	"02/01/2006", // internacional
}

// ParseDate intenta los formatos de fecha conocidos del upstream.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, f := range dateFormats {
		if t, err := time.Parse(f, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
