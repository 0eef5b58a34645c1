package audit

import (
	"context"

	common_models "go-hrms/internal/common/models"

	"go.uber.org/zap"
)

type AuditService interface {
	Record(ctx context.Context, entry *common_models.AuditLog) error
	List(ctx context.Context, filter Filter, page, limit int64) ([]common_models.AuditLog, int64, error)
	Trail(ctx context.Context, kind string, id uint) ([]common_models.AuditLog, error)
}

type AuditServiceImpl struct {
	repo   AuditRepository
	logger *zap.Logger
}

func NewAuditService(repo AuditRepository, logger *zap.Logger) AuditService {
	return &AuditServiceImpl{repo: repo, logger: logger}
}

func (s *AuditServiceImpl) Record(ctx context.Context, entry *common_models.AuditLog) error {
	if err := s.repo.Create(ctx, entry); err != nil {
		// An unreachable audit store must not fail the business action.
		s.logger.Error("audit write failed",
			zap.String("action", string(entry.Action)),
			zap.String("kind", entry.RequestKind),
			zap.Uint("requestId", entry.RequestID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *AuditServiceImpl) List(ctx context.Context, filter Filter, page, limit int64) ([]common_models.AuditLog, int64, error) {
	return s.repo.List(ctx, filter, page, limit)
}

func (s *AuditServiceImpl) Trail(ctx context.Context, kind string, id uint) ([]common_models.AuditLog, error) {
	return s.repo.ListForRequest(ctx, kind, id)
}
