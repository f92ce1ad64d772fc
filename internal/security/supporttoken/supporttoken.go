// Package supporttoken emite y verifica los tokens de acceso de soporte.
// Reemplazan al viejo enlace con guide_hash crudo: un JWT HS256 de vida
// corta, single-use, que el equipo de soporte genera por CLI y el portal
// canjea por una sesión de guía.
package supporttoken

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tourcube/guideportal/internal/cache"
)

// Audience esperado en los tokens de soporte.
const Audience = "guide-portal-support"

// MaxTTL: tope duro sobre la vida del token, sin importar la config.
const MaxTTL = 15 * time.Minute

// Claims son los claims propios de un token de soporte.
type Claims struct {
	GuideHash   string `json:"guide_hash"`
	CompanyCode string `json:"company_code"`
	Mode        string `json:"mode"`
	jwtv5.RegisteredClaims
}

// Errores de verificación.
var (
	ErrTokenInvalid = errors.New("token de soporte inválido")
	ErrTokenExpired = errors.New("token de soporte vencido")
	ErrTokenUsed    = errors.New("token de soporte ya consumido")
)

// Issuer firma y verifica tokens de soporte. El cache marca cada jti como
// consumido para que el enlace sirva una sola vez.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	cache  cache.Client
}

// NewIssuer arma un issuer. ttl se recorta a MaxTTL.
func NewIssuer(secret string, ttl time.Duration, c cache.Client) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("supporttoken: secreto vacío")
	}
	if ttl <= 0 || ttl > MaxTTL {
		ttl = MaxTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, cache: c}, nil
}

// TTL expone la vida efectiva de los tokens emitidos.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Mint emite un token de soporte para un guía puntual.
func (i *Issuer) Mint(guideHash, companyCode, mode string) (string, error) {
	if guideHash == "" {
		return "", fmt.Errorf("supporttoken: guide_hash vacío")
	}
	now := time.Now().UTC()
	claims := Claims{
		GuideHash:   guideHash,
		CompanyCode: companyCode,
		Mode:        mode,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.NewString(),
			Audience:  jwtv5.ClaimStrings{Audience},
			IssuedAt:  jwtv5.NewNumericDate(now),
			NotBefore: jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify valida firma, audience y vencimiento, y consume el jti. La segunda
// verificación del mismo token devuelve ErrTokenUsed.
func (i *Issuer) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	var claims Claims
	tk, err := jwtv5.ParseWithClaims(tokenString, &claims, func(*jwtv5.Token) (any, error) {
		return i.secret, nil
	},
		jwtv5.WithValidMethods([]string{"HS256"}),
		jwtv5.WithAudience(Audience),
	)
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tk.Valid || claims.GuideHash == "" || claims.ID == "" {
		return nil, ErrTokenInvalid
	}

	// Single-use: marcar el jti hasta que el token venza solo.
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil, ErrTokenExpired
	}
	ok, err := i.cache.SetNX(ctx, "support:jti:"+claims.ID, "1", ttl)
	if err != nil {
		return nil, fmt.Errorf("supporttoken: marcando jti: %w", err)
	}
	if !ok {
		return nil, ErrTokenUsed
	}
	return &claims, nil
}
