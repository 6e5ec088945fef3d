package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// APIError is a non-2xx response from the backend, surfaced verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Message string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Message == "" {
		body.Message = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: body.Message}
}

// Client is the SDK entry point. It owns the session store, the credential
// persistence, and an http.Client whose transport authorises every call.
type Client struct {
	Session *SessionStore
	Tokens  TokenStore
	Auth    *AuthClient
	Guard   *Guard

	baseURL string
	http    *http.Client
	nav     Navigator
	base    http.RoundTripper
}

// Option customises a Client.
type Option func(*Client)

// WithTokenStore replaces the default in-memory credential persistence.
func WithTokenStore(store TokenStore) Option {
	return func(c *Client) { c.Tokens = store }
}

// WithNavigator installs the navigation hook invoked on 401/403 and logout.
func WithNavigator(nav Navigator) Option {
	return func(c *Client) { c.nav = nav }
}

// WithBaseTransport replaces the underlying round tripper (for testing or
// custom TLS settings).
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.base = rt }
}

// New builds a Client for the API rooted at baseURL (e.g.
// "https://api.example.com/cosechaencope").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		Session: NewSessionStore(),
		Tokens:  NewMemoryTokenStore(),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = &http.Client{
		Timeout: 30 * time.Second,
		Transport: &Transport{
			Base:     c.base,
			Tokens:   c.Tokens,
			Session:  c.Session,
			Navigate: c.nav,
		},
	}

	c.Auth = &AuthClient{
		baseURL: c.baseURL,
		http:    c.http,
		tokens:  c.Tokens,
		session: c.Session,
		nav:     c.nav,
	}
	c.Guard = NewGuard(c.Session)
	return c
}

// --- Catalogue wire types ---

// Article is a product as served by the catalogue endpoints.
type Article struct {
	ID          int64   `json:"idArticulo"`
	Name        string  `json:"nombre"`
	Description string  `json:"descripcion"`
	Price       float64 `json:"precio"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"imagenUrl,omitempty"`
	CategoryID  int64   `json:"idCategoria"`
	ProducerID  int64   `json:"idProductor"`
}

// Category groups articles for browsing.
type Category struct {
	ID          int64  `json:"idCategoria"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
}

// ArticleInput carries the fields for creating or replacing an article.
type ArticleInput struct {
	Name        string  `json:"nombre"`
	Description string  `json:"descripcion"`
	Price       float64 `json:"precio"`
	Stock       int     `json:"stock"`
	CategoryID  int64   `json:"idCategoria"`
}

// --- Catalogue operations ---

// ListArticles fetches the public article listing.
func (c *Client) ListArticles(ctx context.Context) ([]Article, error) {
	var out []Article
	return out, c.get(ctx, "/articulos", &out)
}

// GetArticle fetches a single article.
func (c *Client) GetArticle(ctx context.Context, id int64) (*Article, error) {
	var out Article
	if err := c.get(ctx, fmt.Sprintf("/articulos/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCategories fetches the public category listing.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	return out, c.get(ctx, "/categorias", &out)
}

// ListCategoryArticles fetches the articles in a category.
func (c *Client) ListCategoryArticles(ctx context.Context, categoryID int64) ([]Article, error) {
	var out []Article
	return out, c.get(ctx, fmt.Sprintf("/categorias/%d/articulos", categoryID), &out)
}

// CreateArticle creates an article on behalf of the logged-in producer.
func (c *Client) CreateArticle(ctx context.Context, in ArticleInput) (*Article, error) {
	var out Article
	if err := c.do(ctx, http.MethodPost, "/articulos", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateArticle replaces an article owned by the logged-in producer.
func (c *Client) UpdateArticle(ctx context.Context, id int64, in ArticleInput) (*Article, error) {
	var out Article
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/articulos/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteArticle removes an article owned by the logged-in producer.
func (c *Client) DeleteArticle(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/articulos/%d", id), nil, nil)
}

// ListProducerArticles fetches the articles belonging to a producer.
func (c *Client) ListProducerArticles(ctx context.Context, producerID int64) ([]Article, error) {
	var out []Article
	return out, c.get(ctx, fmt.Sprintf("/usuarios/productores/%d/articulos", producerID), &out)
}

// UploadArticleImage uploads an image for an article as multipart form data.
// The multipart boundary is left to the transport; the authorizer never
// overrides it.
func (c *Client) UploadArticleImage(ctx context.Context, id int64, filename string, data io.Reader) (*Article, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("imagen", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+fmt.Sprintf("/articulos/%d/imagen", id), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp)
	}

	var out Article
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
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
