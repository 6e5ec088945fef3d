package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cosechaencope/marketplace/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService implementation.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single audit record.
func (s *auditService) Process(ctx context.Context, in ports.AuditInput) error {
	if err := s.repo.Insert(ctx, in); err != nil {
		return fmt.Errorf("audit insert: %w", err)
	}

	s.log.Debug().
		Str("entity", in.EntityType).
		Int64("entity_id", in.EntityID).
		Str("action", in.Action).
		Msg("audit event recorded")

	return nil
}
