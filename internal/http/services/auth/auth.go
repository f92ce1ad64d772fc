// Package auth implementa el flujo de autenticación del portal: login
// contra el API de reservas, acceso de soporte y recupero de usuario.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/tourcube/guideportal/internal/observability/logger"
	"github.com/tourcube/guideportal/internal/security/supporttoken"
	"github.com/tourcube/guideportal/internal/tenant"
	"github.com/tourcube/guideportal/internal/tourcube"
)

var (
	// ErrBadCredentials: el upstream reportó LoginFailed.
	ErrBadCredentials = errors.New("usuario o contraseña inválidos")
	// ErrUnknownUserType: login OK pero sin Type reconocible o sin ID.
	ErrUnknownUserType = errors.New("tipo de usuario desconocido")
)

// Service orquesta la autenticación contra el upstream.
type Service struct {
	TC *tourcube.Client
}

func NewService(tc *tourcube.Client) *Service {
	return &Service{TC: tc}
}

// Result es el resultado de un login exitoso, listo para armar la sesión.
type Result struct {
	IsVendor bool

	GuideID   int64
	FirstName string
	LastName  string
	Email     string

	VendorID   int64
	VendorName string
}

// Login autentica al usuario. La compañía ya viene resuelta con credenciales
// activas. Para vendors se busca el nombre en el homepage; si esa llamada
// falla el login sigue con el nombre genérico "Vendor".
func (s *Service) Login(ctx context.Context, company tenant.Company, username, password string) (*Result, error) {
	creds := tourcube.Credentials{BaseURL: company.APIURL, APIKey: company.APIKey}

	resp, err := s.TC.Login(ctx, creds, username, password)
	if err != nil {
		return nil, err
	}
	if resp.LoginFailed {
		return nil, ErrBadCredentials
	}

	switch resp.Type {
	case tourcube.LoginTypeGuide:
		if resp.GuideClientID.Int64() <= 0 {
			return nil, ErrUnknownUserType
		}
		return &Result{
			GuideID:   resp.GuideClientID.Int64(),
			FirstName: resp.GuideFirstName,
			LastName:  resp.GuideLastName,
			Email:     resp.GuideEmail,
		}, nil

	case tourcube.LoginTypeVendor:
		vendorID := resp.GuideVendorID.Int64()
		if vendorID <= 0 {
			return nil, ErrUnknownUserType
		}
		name := s.vendorName(ctx, creds, vendorID)
		return &Result{
			IsVendor:   true,
			VendorID:   vendorID,
			VendorName: name,
		}, nil

	default:
		return nil, ErrUnknownUserType
	}
}

func (s *Service) vendorName(ctx context.Context, creds tourcube.Credentials, vendorID int64) string {
	home, err := s.TC.VendorHomepage(ctx, creds, vendorID)
	if err != nil || strings.TrimSpace(home.Name) == "" {
		if err != nil {
			logger.From(ctx).Warn("no se pudo obtener el nombre del vendor",
				logger.UserID(vendorID),
				logger.Err(err))
		}
		return "Vendor"
	}
	return home.Name
}

// SupportLogin canjea un token de soporte ya verificado por los datos de un
// guía: resuelve el hash a guide ID y trae el nombre del homepage.
func (s *Service) SupportLogin(ctx context.Context, company tenant.Company, claims *supporttoken.Claims) (*Result, error) {
	creds := tourcube.Credentials{BaseURL: company.APIURL, APIKey: company.APIKey}

	guideID, err := s.TC.ResolveClientHash(ctx, creds, claims.GuideHash)
	if err != nil {
		return nil, err
	}

	res := &Result{GuideID: guideID}
	home, err := s.TC.GuideHomepage(ctx, creds, guideID)
	if err != nil {
		// El nombre es cosmético: el acceso de soporte no se cae por esto.
		logger.From(ctx).Warn("homepage no disponible durante acceso de soporte",
			logger.UserID(guideID),
			logger.Err(err))
		return res, nil
	}
	first, last, _ := strings.Cut(home.Name, " ")
	res.FirstName = first
	res.LastName = last
	return res, nil
}

// ForgotUsername dispara el mail de recupero vía upstream.
func (s *Service) ForgotUsername(ctx context.Context, company tenant.Company, email string) error {
	creds := tourcube.Credentials{BaseURL: company.APIURL, APIKey: company.APIKey}
	_, err := s.TC.ForgotUsername(ctx, creds, email)
	return err
}
