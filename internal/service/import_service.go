package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/StellarBearX/stanlendar-sub003/internal/domain"
	"github.com/StellarBearX/stanlendar-sub003/internal/repository"
)

var ErrInvalidImportSource = errors.New("invalid import source")

// ImportService registra import jobs que el worker procesará en segundo plano.
type ImportService struct {
	logger *zap.Logger
	jobs   repository.ImportJobRepository
}

func NewImportService(logger *zap.Logger, jobs repository.ImportJobRepository) *ImportService {
	return &ImportService{logger: logger, jobs: jobs}
}

// RegisterJob encola un roster para importar. Acepta rutas locales o s3://
// con extensión .json.
func (s *ImportService) RegisterJob(ctx context.Context, userID, sourcePath string) (domain.ImportJob, error) {
	sourcePath = strings.TrimSpace(sourcePath)
	if sourcePath == "" || strings.ToLower(filepath.Ext(sourcePath)) != ".json" {
		return domain.ImportJob{}, ErrInvalidImportSource
	}

	job := domain.ImportJob{
		ID:         uuid.NewString(),
		UserID:     userID,
		SourcePath: sourcePath,
		Status:     domain.JobStatusQueued,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return domain.ImportJob{}, err
	}

	s.logger.Info("import job queued",
		zap.String("job_id", job.ID),
		zap.String("user_id", userID),
		zap.String("source_path", sourcePath),
	)
	return job, nil
}
