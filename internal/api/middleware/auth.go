package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// RevocationChecker reports whether a token has been revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Auth validates the JWT, rejects revoked tokens, and injects claims into context.
// Claims exposed to handlers: user_id (int64), email, tipo_usuario, roles ([]string).
func Auth(jwtSecret string, revoked RevocationChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if revoked != nil {
				isRevoked, err := revoked.IsRevoked(c.Request().Context(), parts[1])
				if err == nil && isRevoked {
					return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
				}
			}

			c.Set("token", parts[1])
			c.Set("user_id", subjectID(claims))
			c.Set("email", claims["email"])
			c.Set("tipo_usuario", claims["tipo_usuario"])
			c.Set("roles", roleStrings(claims))

			return next(c)
		}
	}
}

// subjectID extracts the numeric user id; JSON numbers decode as float64.
func subjectID(claims jwt.MapClaims) int64 {
	if f, ok := claims["sub"].(float64); ok {
		return int64(f)
	}
	return 0
}

func roleStrings(claims jwt.MapClaims) []string {
	raw, _ := claims["roles"].([]interface{})
	roles := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			roles = append(roles, s)
		}
	}
	return roles
}
