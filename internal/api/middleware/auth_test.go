package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

type stubRevoker struct {
	revoked bool
	err     error
}

func (s *stubRevoker) IsRevoked(ctx context.Context, token string) (bool, error) {
	return s.revoked, s.err
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func defaultClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":          float64(7),
		"email":        "ana@example.com",
		"tipo_usuario": "CLIENTE",
		"roles":        []string{"USER"},
		"exp":          time.Now().Add(time.Hour).Unix(),
	}
}

func runAuth(t *testing.T, header string, revoker RevocationChecker) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cosechaencope/pedidos", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(testSecret, revoker)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, handler(c)
}

func TestAuth_ValidToken(t *testing.T) {
	token := signToken(t, testSecret, defaultClaims())
	c, err := runAuth(t, "Bearer "+token, &stubRevoker{})
	if err != nil {
		t.Fatalf("expected request to pass, got %v", err)
	}

	if got := c.Get("user_id").(int64); got != 7 {
		t.Errorf("expected user_id 7, got %d", got)
	}
	if got := c.Get("email").(string); got != "ana@example.com" {
		t.Errorf("expected email ana@example.com, got %s", got)
	}
	if got := c.Get("tipo_usuario").(string); got != "CLIENTE" {
		t.Errorf("expected tipo_usuario CLIENTE, got %s", got)
	}
	roles := c.Get("roles").([]string)
	if len(roles) != 1 || roles[0] != "USER" {
		t.Errorf("expected roles [USER], got %v", roles)
	}
	if got := c.Get("token").(string); got != token {
		t.Errorf("expected raw token in context")
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	_, err := runAuth(t, "", nil)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth_InvalidHeaderFormat(t *testing.T) {
	for _, header := range []string{"Token abc", "Bearer"} {
		_, err := runAuth(t, header, nil)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401, got %v", header, err)
		}
	}
}

func TestAuth_InvalidSignature(t *testing.T) {
	token := signToken(t, "other-secret", defaultClaims())
	_, err := runAuth(t, "Bearer "+token, nil)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad signature, got %v", err)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	claims := defaultClaims()
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	token := signToken(t, testSecret, claims)

	_, err := runAuth(t, "Bearer "+token, nil)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %v", err)
	}
}

func TestAuth_RevokedToken(t *testing.T) {
	token := signToken(t, testSecret, defaultClaims())
	_, err := runAuth(t, "Bearer "+token, &stubRevoker{revoked: true})
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for revoked token, got %v", err)
	}
}

func TestAuth_RevocationStoreErrorDoesNotBlock(t *testing.T) {
	// A Redis outage must not lock every user out.
	token := signToken(t, testSecret, defaultClaims())
	_, err := runAuth(t, "Bearer "+token, &stubRevoker{err: context.DeadlineExceeded})
	if err != nil {
		t.Fatalf("expected request to pass when the denylist is unreachable, got %v", err)
	}
}
