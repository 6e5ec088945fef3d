package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/cosechaencope/marketplace/internal/core/domain"
	"github.com/cosechaencope/marketplace/internal/core/ports"
)

type stubArticleService struct {
	article *domain.Article
	getErr  error
}

func (s *stubArticleService) List(ctx context.Context) ([]domain.Article, error) { return nil, nil }

func (s *stubArticleService) Get(ctx context.Context, id int64) (*domain.Article, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.article, nil
}

func (s *stubArticleService) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Article, error) {
	return nil, nil
}

func (s *stubArticleService) ListByProducer(ctx context.Context, producerID int64) ([]domain.Article, error) {
	return nil, nil
}

func (s *stubArticleService) Create(ctx context.Context, in ports.ArticleInput, actor ports.Actor) (*domain.Article, error) {
	return nil, nil
}

func (s *stubArticleService) Update(ctx context.Context, id int64, in ports.ArticleInput, actor ports.Actor) (*domain.Article, error) {
	return nil, nil
}

func (s *stubArticleService) Delete(ctx context.Context, id int64, actor ports.Actor) error {
	return nil
}

func (s *stubArticleService) AttachImage(ctx context.Context, id int64, filename string, data io.Reader, actor ports.Actor) (*domain.Article, error) {
	return nil, nil
}

type stubImages struct {
	data    []byte
	openErr error
}

func (s *stubImages) Save(ctx context.Context, name string, data io.Reader) (string, error) {
	return "", nil
}

func (s *stubImages) Open(ctx context.Context, name string, w io.Writer) error {
	if s.openErr != nil {
		return s.openErr
	}
	_, err := w.Write(s.data)
	return err
}

func getImageRequest(t *testing.T, svc ports.ArticleService, images ports.ImageStore) (echo.Context, *httptest.ResponseRecorder, *ArticleHandler) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cosechaencope/articulos/5/imagen", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("5")
	return c, rec, NewArticleHandler(svc, images)
}

func TestArticleHandler_GetImage_StreamsBytes(t *testing.T) {
	svc := &stubArticleService{article: &domain.Article{ID: 5, ImageURL: "/media/imagenes/articulo-5.png"}}
	c, rec, h := getImageRequest(t, svc, &stubImages{data: []byte("pngbytes")})

	if err := h.GetImage(c); err != nil {
		t.Fatalf("get image: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "pngbytes" {
		t.Fatalf("expected image bytes, got %q", got)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "application/octet-stream" {
		t.Fatalf("expected octet-stream content type, got %q", ct)
	}
}

func TestArticleHandler_GetImage_MissingBlobNotCommitted(t *testing.T) {
	// The stored blob can be gone even when the article still references it.
	// The failure must surface before any byte of a 200 is written.
	svc := &stubArticleService{article: &domain.Article{ID: 5, ImageURL: "/media/imagenes/articulo-5.png"}}
	c, rec, h := getImageRequest(t, svc, &stubImages{openErr: domain.ErrArticleNotFound})

	err := h.GetImage(c)
	if !errors.Is(err, domain.ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound, got %v", err)
	}
	if c.Response().Committed {
		t.Fatalf("response must not be committed on a failed blob read")
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected no body written, got %q", rec.Body.String())
	}
}

func TestArticleHandler_GetImage_NoImageURL(t *testing.T) {
	svc := &stubArticleService{article: &domain.Article{ID: 5}}
	c, _, h := getImageRequest(t, svc, &stubImages{})

	err := h.GetImage(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an article without image, got %v", err)
	}
}
