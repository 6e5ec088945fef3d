package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/rs/zerolog"

	"github.com/cosechaencope/marketplace/internal/core/domain"
	"github.com/cosechaencope/marketplace/internal/core/ports"
)

type articleService struct {
	articles   ports.ArticleRepository
	categories ports.CategoryRepository
	images     ports.ImageStore
	audit      ports.AuditSink
	log        zerolog.Logger
}

// NewArticleService returns an ArticleService implementation.
func NewArticleService(
	articles ports.ArticleRepository,
	categories ports.CategoryRepository,
	images ports.ImageStore,
	audit ports.AuditSink,
	log zerolog.Logger,
) ports.ArticleService {
	return &articleService{
		articles:   articles,
		categories: categories,
		images:     images,
		audit:      audit,
		log:        log,
	}
}

func (s *articleService) List(ctx context.Context) ([]domain.Article, error) {
	return s.articles.FindAll(ctx)
}

func (s *articleService) Get(ctx context.Context, id int64) (*domain.Article, error) {
	return s.articles.FindByID(ctx, id)
}

func (s *articleService) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Article, error) {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.articles.FindByCategory(ctx, categoryID)
}

func (s *articleService) ListByProducer(ctx context.Context, producerID int64) ([]domain.Article, error) {
	return s.articles.FindByProducer(ctx, producerID)
}

func (s *articleService) Create(ctx context.Context, in ports.ArticleInput, actor ports.Actor) (*domain.Article, error) {
	if !actor.HasRole(domain.RoleProducer) {
		return nil, domain.ErrForbidden
	}
	if _, err := s.categories.FindByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	article := &domain.Article{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
		ProducerID:  actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.articles.Create(ctx, article)
	if err != nil {
		return nil, err
	}

	s.recordAudit(created.ID, domain.AuditCreated, actor)
	return created, nil
}

func (s *articleService) Update(ctx context.Context, id int64, in ports.ArticleInput, actor ports.Actor) (*domain.Article, error) {
	article, err := s.owned(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if in.CategoryID != article.CategoryID {
		if _, err := s.categories.FindByID(ctx, in.CategoryID); err != nil {
			return nil, err
		}
	}

	article.Name = in.Name
	article.Description = in.Description
	article.Price = in.Price
	article.Stock = in.Stock
	article.CategoryID = in.CategoryID
	article.UpdatedAt = time.Now().UTC()

	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}

	s.recordAudit(id, domain.AuditUpdated, actor)
	return article, nil
}

func (s *articleService) Delete(ctx context.Context, id int64, actor ports.Actor) error {
	if _, err := s.owned(ctx, id, actor); err != nil {
		return err
	}
	if err := s.articles.Delete(ctx, id); err != nil {
		return err
	}

	s.recordAudit(id, domain.AuditDeleted, actor)
	return nil
}

func (s *articleService) AttachImage(ctx context.Context, id int64, filename string, data io.Reader, actor ports.Actor) (*domain.Article, error) {
	article, err := s.owned(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("articulo-%d%s", id, path.Ext(filename))
	url, err := s.images.Save(ctx, name, data)
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	article.ImageURL = url
	article.UpdatedAt = time.Now().UTC()
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}

	s.recordAudit(id, domain.AuditUpdated, actor)
	return article, nil
}

// owned loads the article and enforces that the actor may mutate it:
// the owning producer, or an admin.
func (s *articleService) owned(ctx context.Context, id int64, actor ports.Actor) (*domain.Article, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.ProducerID != actor.UserID && !actor.HasRole(domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	return article, nil
}

func (s *articleService) recordAudit(id int64, action string, actor ports.Actor) {
	s.audit.Enqueue(ports.AuditInput{
		EntityType: "articulo",
		EntityID:   id,
		Action:     action,
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Timestamp:  time.Now().UTC(),
	})
}
