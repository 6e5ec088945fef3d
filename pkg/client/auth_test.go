package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T) (*httptest.Server, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, mux
}

func loginOK(w http.ResponseWriter, userType string) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"token":       "T",
		"type":        "Bearer",
		"idUsuario":   7,
		"email":       "ana@example.com",
		"tipoUsuario": userType,
		"roles":       []string{"USER"},
	})
}

func TestAuthClient_Login_RoundTrip(t *testing.T) {
	srv, mux := newTestServer(t)
	mux.HandleFunc("/cosechaencope/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatalf("decode credentials: %v", err)
		}
		if creds.Email != "ana@example.com" || creds.Password != "s3cret" {
			t.Fatalf("unexpected credentials: %+v", creds)
		}
		if r.Header.Get("Authorization") != "" {
			t.Fatalf("login must not carry credentials")
		}
		loginOK(w, UserTypeClient)
	})

	c := New(srv.URL + "/cosechaencope")
	id, err := c.Auth.Login(context.Background(), Credentials{Email: "ana@example.com", Password: "s3cret"}, AudienceGeneric)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Token persisted exactly as returned.
	if tok, ok := c.Tokens.Read(); !ok || tok != "T" {
		t.Fatalf("expected persisted token T, got %q (ok=%v)", tok, ok)
	}

	// Session holds the resolved identity with the response fields.
	current := c.Session.Current()
	if current == nil || current != id {
		t.Fatalf("expected session to hold the returned identity")
	}
	if current.Token != "T" || current.ID != 7 || current.Email != "ana@example.com" ||
		current.UserType != UserTypeClient || len(current.Roles) != 1 || current.Roles[0] != "USER" {
		t.Fatalf("unexpected identity: %+v", current)
	}
}

func TestAuthClient_LoginProducer_UsesProducerEndpoint(t *testing.T) {
	srv, mux := newTestServer(t)
	called := false
	mux.HandleFunc("/cosechaencope/auth/login/productores", func(w http.ResponseWriter, r *http.Request) {
		called = true
		loginOK(w, UserTypeProducer)
	})

	c := New(srv.URL + "/cosechaencope")
	if _, err := c.Auth.Login(context.Background(), Credentials{Email: "p@example.com", Password: "x"}, AudienceProducer); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !called {
		t.Fatalf("expected producer endpoint to be used")
	}
}

func TestAuthClient_LoginFailure_LeavesStateUntouched(t *testing.T) {
	srv, mux := newTestServer(t)
	mux.HandleFunc("/cosechaencope/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
	})

	c := New(srv.URL + "/cosechaencope")
	_, err := c.Auth.Login(context.Background(), Credentials{Email: "ana@example.com", Password: "wrong"}, AudienceGeneric)
	if err == nil {
		t.Fatalf("expected error on rejected exchange")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
	if _, ok := c.Tokens.Read(); ok {
		t.Fatalf("failed login must not persist a token")
	}
	if c.Session.Current() != nil {
		t.Fatalf("failed login must not populate the session")
	}
}

func TestAuthClient_MalformedResponseRejected(t *testing.T) {
	srv, mux := newTestServer(t)
	mux.HandleFunc("/cosechaencope/auth/login", func(w http.ResponseWriter, r *http.Request) {
		// Missing token and user type.
		_ = json.NewEncoder(w).Encode(map[string]any{"idUsuario": 7})
	})

	c := New(srv.URL + "/cosechaencope")
	if _, err := c.Auth.Login(context.Background(), Credentials{Email: "a@b.c", Password: "x"}, AudienceGeneric); err == nil {
		t.Fatalf("expected error on response missing token/userType")
	}
	if _, ok := c.Tokens.Read(); ok {
		t.Fatalf("malformed exchange must not persist a token")
	}
}

func TestAuthClient_Register_DoesNotTouchSession(t *testing.T) {
	srv, mux := newTestServer(t)
	mux.HandleFunc("/cosechaencope/auth/registro/clientes", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"idUsuario": 9})
	})

	c := New(srv.URL + "/cosechaencope")
	if err := c.Auth.RegisterClient(context.Background(), RegisterRequest{Email: "n@example.com", Password: "passw0rd1", Name: "Nieves"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if c.Session.Current() != nil {
		t.Fatalf("registration must not populate the session")
	}
	if _, ok := c.Tokens.Read(); ok {
		t.Fatalf("registration must not persist a token")
	}
}

func TestAuthClient_Logout_Idempotent(t *testing.T) {
	srv, mux := newTestServer(t)
	mux.HandleFunc("/cosechaencope/auth/login", func(w http.ResponseWriter, r *http.Request) {
		loginOK(w, UserTypeClient)
	})
	revocations := 0
	mux.HandleFunc("/cosechaencope/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		revocations++
		if got := r.Header.Get("Authorization"); got != "Bearer T" {
			t.Errorf("expected the revoked token on the logout call, got %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	nav := &recordingNav{}
	c := New(srv.URL+"/cosechaencope", WithNavigator(nav))
	if _, err := c.Auth.Login(context.Background(), Credentials{Email: "a@b.c", Password: "x"}, AudienceGeneric); err != nil {
		t.Fatalf("login: %v", err)
	}

	c.Auth.Logout(context.Background())
	c.Auth.Logout(context.Background()) // second call must be harmless

	if c.Session.Current() != nil {
		t.Fatalf("expected no session after logout")
	}
	if _, ok := c.Tokens.Read(); ok {
		t.Fatalf("expected no token after logout")
	}
	if len(nav.paths) != 2 || nav.paths[0] != PathLogin || nav.paths[1] != PathLogin {
		t.Fatalf("expected navigation to %s on each logout, got %v", PathLogin, nav.paths)
	}
	if revocations != 1 {
		t.Fatalf("expected exactly one server revocation, got %d", revocations)
	}
}
