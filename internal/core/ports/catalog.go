package ports

import (
	"context"
	"io"

	"github.com/cosechaencope/marketplace/internal/core/domain"
)

// Actor identifies the authenticated caller of a catalogue operation,
// extracted from the JWT claims by the transport layer.
type Actor struct {
	UserID   int64
	Email    string
	UserType string
	Roles    []string
}

// HasRole reports whether the actor holds the given role.
func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ArticleInput is the DTO for creating or replacing an article.
type ArticleInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	CategoryID  int64
}

// ArticleService exposes the public catalogue and producer self-service.
type ArticleService interface {
	List(ctx context.Context) ([]domain.Article, error)
	Get(ctx context.Context, id int64) (*domain.Article, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]domain.Article, error)
	ListByProducer(ctx context.Context, producerID int64) ([]domain.Article, error)

	Create(ctx context.Context, in ArticleInput, actor Actor) (*domain.Article, error)
	Update(ctx context.Context, id int64, in ArticleInput, actor Actor) (*domain.Article, error)
	Delete(ctx context.Context, id int64, actor Actor) error

	// AttachImage stores the uploaded image and records its URL on the article.
	AttachImage(ctx context.Context, id int64, filename string, data io.Reader, actor Actor) (*domain.Article, error)
}

// ArticleRepository defines persistence for articles.
type ArticleRepository interface {
	FindAll(ctx context.Context) ([]domain.Article, error)
	FindByID(ctx context.Context, id int64) (*domain.Article, error)
	FindByCategory(ctx context.Context, categoryID int64) ([]domain.Article, error)
	FindByProducer(ctx context.Context, producerID int64) ([]domain.Article, error)
	Create(ctx context.Context, a *domain.Article) (*domain.Article, error)
	Update(ctx context.Context, a *domain.Article) error
	Delete(ctx context.Context, id int64) error
}

// CategoryInput is the DTO for creating or replacing a category.
type CategoryInput struct {
	Name        string
	Description string
}

// CategoryService exposes category browsing and admin maintenance.
type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, in CategoryInput, actor Actor) (*domain.Category, error)
	Update(ctx context.Context, id int64, in CategoryInput, actor Actor) (*domain.Category, error)
	Delete(ctx context.Context, id int64, actor Actor) error
}

// CategoryRepository defines persistence for categories.
type CategoryRepository interface {
	FindAll(ctx context.Context) ([]domain.Category, error)
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id int64) error
}

// ImageStore persists uploaded article images and serves them back.
type ImageStore interface {
	Save(ctx context.Context, name string, data io.Reader) (url string, err error)
	Open(ctx context.Context, name string, w io.Writer) error
}
