package client

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Navigator is how the SDK asks the host application to change surface after
// an authorization failure. Implementations must not block.
type Navigator interface {
	NavigateTo(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

func (f NavigatorFunc) NavigateTo(path string) { f(path) }

// Transport authorises every outbound call to the backend. Public calls pass
// through untouched; protected calls get the persisted bearer token attached.
// A 401 response invalidates the session centrally (token deleted, session
// cleared, navigation to the login surface); a 403 navigates to the error
// surface. Successful calls never mutate session state.
type Transport struct {
	// Base is the underlying round tripper. Defaults to http.DefaultTransport.
	Base http.RoundTripper
	// Tokens is the credential persistence consulted per call.
	Tokens TokenStore
	// Session is cleared when a 401 proves the identity stale. Optional.
	Session *SessionStore
	// Navigate receives redirect requests on 401/403. Optional.
	Navigate Navigator
}

// Endpoint prefixes and read-only catalogue paths that never carry
// credentials. GETs under the catalogue roots (listings, details, category
// articles, images) are public; mutations on the same paths are not.
var (
	publicPrefixes = []string{"/cosechaencope/auth/", "/swagger"}
	publicGetRoots = []string{"/cosechaencope/articulos", "/cosechaencope/categorias"}
)

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if isPublic(req) {
		return t.base().RoundTrip(req)
	}

	token, ok := t.Tokens.Read()
	if ok {
		// Clone before mutating: RoundTrippers must not modify the caller's request.
		clone := req.Clone(req.Context())
		clone.Header.Set("Authorization", "Bearer "+token)
		if clone.Header.Get("Content-Type") == "" && clone.Body != nil && !isMultipart(req) {
			clone.Header.Set("Content-Type", "application/json")
		}
		req = clone
	}
	// Without a token the request proceeds uncredentialled; the server rejects it.

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		// The token is authoritatively invalid; last write wins on the session.
		_ = t.Tokens.Delete()
		if t.Session != nil {
			t.Session.Clear()
		}
		t.navigateTo(PathLogin)
	case http.StatusForbidden:
		t.navigateTo(errorSurface(http.StatusForbidden, "Acceso denegado"))
	}

	return resp, nil
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) navigateTo(path string) {
	if t.Navigate != nil {
		t.Navigate.NavigateTo(path)
	}
}

// isPublic classifies an outbound call against the static allow-list:
// authentication endpoints, API docs, and the read-only catalogue GETs.
func isPublic(req *http.Request) bool {
	path := req.URL.Path
	for _, p := range publicPrefixes {
		if strings.Contains(path, p) {
			return true
		}
	}
	if req.Method == http.MethodGet {
		for _, p := range publicGetRoots {
			if path == p || strings.HasPrefix(path, p+"/") {
				return true
			}
		}
	}
	return false
}

// isMultipart reports whether the request carries a multipart file payload,
// whose Content-Type (with its boundary) must be left to the transport.
func isMultipart(req *http.Request) bool {
	return strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/")
}

func errorSurface(code int, message string) string {
	q := url.Values{}
	q.Set("code", strconv.Itoa(code))
	q.Set("m", message)
	return PathError + "?" + q.Encode()
}
