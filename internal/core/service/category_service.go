package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/cosechaencope/marketplace/internal/core/domain"
	"github.com/cosechaencope/marketplace/internal/core/ports"
)

type categoryService struct {
	categories ports.CategoryRepository
	audit      ports.AuditSink
	log        zerolog.Logger
}

// NewCategoryService returns a CategoryService implementation.
func NewCategoryService(categories ports.CategoryRepository, audit ports.AuditSink, log zerolog.Logger) ports.CategoryService {
	return &categoryService{categories: categories, audit: audit, log: log}
}

func (s *categoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.categories.FindAll(ctx)
}

func (s *categoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categories.FindByID(ctx, id)
}

func (s *categoryService) Create(ctx context.Context, in ports.CategoryInput, actor ports.Actor) (*domain.Category, error) {
	if !actor.HasRole(domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}

	created, err := s.categories.Create(ctx, &domain.Category{
		Name:        in.Name,
		Description: in.Description,
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(created.ID, domain.AuditCreated, actor)
	return created, nil
}

func (s *categoryService) Update(ctx context.Context, id int64, in ports.CategoryInput, actor ports.Actor) (*domain.Category, error) {
	if !actor.HasRole(domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}

	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = in.Name
	category.Description = in.Description
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}

	s.recordAudit(id, domain.AuditUpdated, actor)
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id int64, actor ports.Actor) error {
	if !actor.HasRole(domain.RoleAdmin) {
		return domain.ErrForbidden
	}
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}

	s.recordAudit(id, domain.AuditDeleted, actor)
	return nil
}

func (s *categoryService) recordAudit(id int64, action string, actor ports.Actor) {
	s.audit.Enqueue(ports.AuditInput{
		EntityType: "categoria",
		EntityID:   id,
		Action:     action,
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Timestamp:  time.Now().UTC(),
	})
}
