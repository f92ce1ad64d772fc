// Package session implementa la sesión firmada del portal: una cookie con
// payload JSON en claro y firma HMAC-SHA256. Firmada, no cifrada: el cliente
// puede leer su contenido pero no modificarlo.
package session

import (
	"errors"
	"strings"
	"time"
)

// Role distingue el tipo de usuario autenticado.
type Role string

const (
	RoleGuide  Role = "Guide"
	RoleVendor Role = "Vendor"
)

var (
	// ErrInvalidSession cubre firma inválida, payload corrupto o formato roto.
	ErrInvalidSession = errors.New("sesión inválida")
	// ErrExpiredSession: la sesión venció.
	ErrExpiredSession = errors.New("sesión vencida")
)

// Session es el estado autenticado de un usuario. Exactamente uno de
// GuideID/VendorID está presente según Role; los constructores lo garantizan.
type Session struct {
	Role        Role   `json:"role"`
	CompanyCode string `json:"company_code"`
	Mode        string `json:"mode"`

	GuideID  int64 `json:"guide_id,omitempty"`
	VendorID int64 `json:"vendor_id,omitempty"`

	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email,omitempty"`
	UserImage string `json:"user_image,omitempty"`

	IssuedAt  int64 `json:"iat"`
	ExpiresAt int64 `json:"exp"`
}

// NewGuideSession arma la sesión de un guía autenticado.
func NewGuideSession(companyCode, mode string, guideID int64, firstName, lastName, email string, ttl time.Duration) Session {
	now := time.Now()
	return Session{
		Role:        RoleGuide,
		CompanyCode: companyCode,
		Mode:        mode,
		GuideID:     guideID,
		UserName:    strings.TrimSpace(firstName + " " + lastName),
		UserEmail:   email,
		IssuedAt:    now.Unix(),
		ExpiresAt:   now.Add(ttl).Unix(),
	}
}

// NewVendorSession arma la sesión de un vendor autenticado. Los vendors no
// tienen email ni imagen en la API actual.
func NewVendorSession(companyCode, mode string, vendorID int64, vendorName string, ttl time.Duration) Session {
	now := time.Now()
	return Session{
		Role:        RoleVendor,
		CompanyCode: companyCode,
		Mode:        mode,
		VendorID:    vendorID,
		UserName:    vendorName,
		IssuedAt:    now.Unix(),
		ExpiresAt:   now.Add(ttl).Unix(),
	}
}

// IsGuide reporta si la sesión pertenece a un guía.
func (s Session) IsGuide() bool { return s.Role == RoleGuide }

// IsVendor reporta si la sesión pertenece a un vendor.
func (s Session) IsVendor() bool { return s.Role == RoleVendor }

// UserID devuelve el identificador del usuario según el rol. El upstream
// acepta el mismo parámetro userId para guías y vendors.
func (s Session) UserID() int64 {
	if s.Role == RoleVendor {
		return s.VendorID
	}
	return s.GuideID
}

// Expired reporta si la sesión ya venció.
func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt > 0 && now.Unix() >= s.ExpiresAt
}

// valid chequea los invariantes estructurales de una sesión decodificada.
func (s Session) valid() bool {
	switch s.Role {
	case RoleGuide:
		return s.GuideID > 0 && s.VendorID == 0
	case RoleVendor:
		return s.VendorID > 0 && s.GuideID == 0
	default:
		return false
	}
}
