package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// User types as they travel on the wire (tipoUsuario).
const (
	UserTypeClient   = "CLIENTE"
	UserTypeProducer = "PRODUCTOR"
)

// Audience selects which login endpoint an exchange targets.
type Audience int

const (
	// AudienceGeneric uses POST /auth/login, admitting any account.
	AudienceGeneric Audience = iota
	// AudienceProducer uses POST /auth/login/productores, rejecting
	// non-producer accounts.
	AudienceProducer
)

// Credentials is the login input. It is used for the exchange and discarded;
// the SDK never persists it.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest carries the fields for account creation.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"nombre"`
}

type jwtResponse struct {
	Token    string   `json:"token"`
	Type     string   `json:"type"`
	UserID   int64    `json:"idUsuario"`
	Email    string   `json:"email"`
	UserType string   `json:"tipoUsuario"`
	Roles    []string `json:"roles"`
}

// AuthClient performs the authentication exchanges and keeps the SessionStore
// and TokenStore synchronized on success. Failed exchanges leave both
// untouched.
type AuthClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	session *SessionStore
	nav     Navigator
}

// Login exchanges credentials for a token and identity. On success the token
// is persisted, the session replaced, and the resolved identity returned; on
// failure the error propagates and no state changes.
func (a *AuthClient) Login(ctx context.Context, creds Credentials, audience Audience) (*Identity, error) {
	path := "/auth/login"
	if audience == AudienceProducer {
		path += "/productores"
	}

	var res jwtResponse
	if err := a.post(ctx, path, creds, &res); err != nil {
		return nil, err
	}
	if res.Token == "" || res.UserType == "" {
		return nil, fmt.Errorf("login: malformed exchange response (missing token or user type)")
	}

	if err := a.tokens.Save(res.Token); err != nil {
		return nil, fmt.Errorf("login: persist token: %w", err)
	}

	identity := &Identity{
		Token:    res.Token,
		ID:       res.UserID,
		Email:    res.Email,
		UserType: res.UserType,
		Roles:    res.Roles,
	}
	a.session.Set(identity)
	return identity, nil
}

// RegisterClient creates a client account. The session is not affected; the
// caller must log in afterwards.
func (a *AuthClient) RegisterClient(ctx context.Context, req RegisterRequest) error {
	return a.post(ctx, "/auth/registro/clientes", req, nil)
}

// RegisterProducer creates a producer account. The session is not affected.
func (a *AuthClient) RegisterProducer(ctx context.Context, req RegisterRequest) error {
	return a.post(ctx, "/auth/registro/productores", req, nil)
}

// Logout revokes the token server-side on a best-effort basis, then deletes
// the persisted token, clears the session, and navigates to the login
// surface. Calling it without an active session is harmless.
func (a *AuthClient) Logout(ctx context.Context) {
	if token, ok := a.tokens.Read(); ok {
		// Auth endpoints are outside the authorizer's scope, so the token to
		// revoke travels explicitly.
		_ = a.postAuthorized(ctx, "/auth/logout", token)
	}

	_ = a.tokens.Delete()
	a.session.Clear()
	if a.nav != nil {
		a.nav.NavigateTo(PathLogin)
	}
}

func (a *AuthClient) postAuthorized(ctx context.Context, path, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	return nil
}

func (a *AuthClient) post(ctx context.Context, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
