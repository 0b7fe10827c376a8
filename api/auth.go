package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/rpupo63/portfolio-site-backend/errs"
)

const adminTokenIssuer = "portfolio-site-backend"

// IssueAdminToken signs an HS256 token that unlocks the project write routes.
func IssueAdminToken(secret, subject string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("ADMIN_JWT_SECRET is required to issue tokens")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive")
	}

	claims := jwt.RegisteredClaims{
		Issuer:    adminTokenIssuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseAdminToken(secret, tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(adminTokenIssuer),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

type adminAuthMiddleware struct {
	secret    string
	responder Responder
	logger    zerolog.Logger
}

func newAdminAuthMiddleware(secret string, responder Responder, logger zerolog.Logger) adminAuthMiddleware {
	return adminAuthMiddleware{secret: secret, responder: responder, logger: logger}
}

// authenticate lets every request through when no secret is configured.
func (m adminAuthMiddleware) authenticate(next http.Handler) http.Handler {
	if m.secret == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			m.responder.WriteError(w, errs.NewUnauthorizedError("missing bearer token"))
			return
		}

		claims, err := parseAdminToken(m.secret, strings.TrimSpace(parts[1]))
		if err != nil {
			m.logger.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("Admin token rejected")
			m.responder.WriteError(w, errs.NewUnauthorizedError("invalid or expired token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(ctxWithAdminSubject(r.Context(), claims.Subject)))
	})
}
