package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ratehub/ratehub/internal/platform/httpx"
)

// Authentication failure kinds surfaced by the middleware.
var (
	ErrTokenMissing = errors.New("access token missing")
	ErrTokenInvalid = errors.New("invalid token")
)

// Middleware is the single bearer-token gate shared by every protected
// route. Verification is local to the signing secret; no storage access.
type Middleware struct {
	Codec  *TokenCodec
	Logger *slog.Logger
}

// Authenticate decodes the Authorization header and attaches the resulting
// claims to the request context, or rejects with 401.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.authenticate(r.Header.Get("Authorization"))
		if err != nil {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

func (m Middleware) authenticate(header string) (*Claims, error) {
	token, ok := bearerToken(header)
	if !ok {
		return nil, ErrTokenMissing
	}
	claims, err := m.Codec.Decode(token)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Debug("token rejected", slog.Any("error", err))
		}
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
