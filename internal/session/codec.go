package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Codec firma y verifica sesiones. El valor de cookie es
// base64url(payload JSON) + "." + base64url(HMAC-SHA256(payload)).
type Codec struct {
	secret []byte
}

// NewCodec crea un codec con el secreto de firma del proceso.
func NewCodec(secret string) (*Codec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("session: secreto de firma vacío")
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Encode serializa y firma la sesión.
func (c *Codec) Encode(s Session) (string, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("session encode: %w", err)
	}
	p64 := base64.RawURLEncoding.EncodeToString(payload)
	return p64 + "." + c.sign(p64), nil
}

// Decode verifica la firma y los invariantes, y rechaza sesiones vencidas.
func (c *Codec) Decode(value string) (Session, error) {
	p64, sig, ok := strings.Cut(value, ".")
	if !ok || p64 == "" || sig == "" {
		return Session{}, ErrInvalidSession
	}
	if !hmac.Equal([]byte(sig), []byte(c.sign(p64))) {
		return Session{}, ErrInvalidSession
	}

	payload, err := base64.RawURLEncoding.DecodeString(p64)
	if err != nil {
		return Session{}, ErrInvalidSession
	}
	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return Session{}, ErrInvalidSession
	}
	if !s.valid() {
		return Session{}, ErrInvalidSession
	}
	if s.Expired(time.Now()) {
		return Session{}, ErrExpiredSession
	}
	return s, nil
}

func (c *Codec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
