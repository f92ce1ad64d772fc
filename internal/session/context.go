package session

import "context"

type ctxKey struct{}

// ToContext adjunta la sesión verificada al contexto del request.
func ToContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext recupera la sesión adjuntada por el middleware de autenticación.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
