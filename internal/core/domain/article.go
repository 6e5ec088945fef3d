package domain

import (
	"errors"
	"time"
)

var (
	ErrArticleNotFound  = errors.New("article not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrForbidden        = errors.New("access forbidden")
	ErrOutOfStock       = errors.New("article out of stock")
)

// Article is a product listed by a producer.
type Article struct {
	ID          int64     `json:"idArticulo" bson:"article_id"`
	Name        string    `json:"nombre" bson:"name"`
	Description string    `json:"descripcion" bson:"description"`
	Price       float64   `json:"precio" bson:"price"`
	Stock       int       `json:"stock" bson:"stock"`
	ImageURL    string    `json:"imagenUrl,omitempty" bson:"image_url,omitempty"`
	CategoryID  int64     `json:"idCategoria" bson:"category_id"`
	ProducerID  int64     `json:"idProductor" bson:"producer_id"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

// Category groups articles for browsing.
type Category struct {
	ID          int64  `json:"idCategoria" bson:"category_id"`
	Name        string `json:"nombre" bson:"name"`
	Description string `json:"descripcion" bson:"description"`
}
