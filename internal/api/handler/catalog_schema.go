package handler

import (
	"time"

	"github.com/cosechaencope/marketplace/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type articleRequest struct {
	Name        string  `json:"nombre"      validate:"required"`
	Description string  `json:"descripcion" validate:"required"`
	Price       float64 `json:"precio"      validate:"required,gt=0"`
	Stock       int     `json:"stock"       validate:"gte=0"`
	CategoryID  int64   `json:"idCategoria" validate:"required,gt=0"`
}

type articleResponse struct {
	ID          int64     `json:"idArticulo"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion"`
	Price       float64   `json:"precio"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"imagenUrl,omitempty"`
	CategoryID  int64     `json:"idCategoria"`
	ProducerID  int64     `json:"idProductor"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type categoryRequest struct {
	Name        string `json:"nombre"      validate:"required"`
	Description string `json:"descripcion"`
}

type categoryResponse struct {
	ID          int64  `json:"idCategoria"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
}

func toArticleResponse(a *domain.Article) articleResponse {
	return articleResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Price:       a.Price,
		Stock:       a.Stock,
		ImageURL:    a.ImageURL,
		CategoryID:  a.CategoryID,
		ProducerID:  a.ProducerID,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toArticleResponses(articles []domain.Article) []articleResponse {
	out := make([]articleResponse, 0, len(articles))
	for i := range articles {
		out = append(out, toArticleResponse(&articles[i]))
	}
	return out
}

func toCategoryResponse(c *domain.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}
