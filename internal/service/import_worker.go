package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/StellarBearX/stanlendar-sub003/internal/domain"
	"github.com/StellarBearX/stanlendar-sub003/internal/event"
	"github.com/StellarBearX/stanlendar-sub003/internal/repository"
	"github.com/StellarBearX/stanlendar-sub003/internal/source"
)

// ImportWorkerConfig controla el pool de workers de import.
type ImportWorkerConfig struct {
	Workers      int
	ChunkSize    int
	PollInterval time.Duration
}

// ImportWorker procesa import jobs encolados: lee el roster de su source,
// materializa las filas como import items y las sincroniza al horario del
// usuario.
type ImportWorker struct {
	logger   *zap.Logger
	jobs     repository.ImportJobRepository
	items    repository.ImportItemRepository
	schedule repository.ScheduleEventRepository
	source   source.ImportSource
	events   event.Publisher
	cfg      ImportWorkerConfig

	once sync.Once
}

func NewImportWorker(
	logger *zap.Logger,
	jobs repository.ImportJobRepository,
	items repository.ImportItemRepository,
	schedule repository.ScheduleEventRepository,
	src source.ImportSource,
	events event.Publisher,
	cfg ImportWorkerConfig,
) *ImportWorker {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 500
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if events == nil {
		events = event.NewDisabledPublisher()
	}
	return &ImportWorker{
		logger:   logger,
		jobs:     jobs,
		items:    items,
		schedule: schedule,
		source:   src,
		events:   events,
		cfg:      cfg,
	}
}

// Start lanza los loops de polling. Idempotente.
func (w *ImportWorker) Start(ctx context.Context) {
	w.once.Do(func() {
		for i := 0; i < w.cfg.Workers; i++ {
			go w.loop(ctx)
		}
	})
}

func (w *ImportWorker) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.jobs.ClaimNext(ctx)
		if err != nil {
			w.logger.Error("claim next import job failed", zap.Error(err))
			if !sleepWithContext(ctx, w.cfg.PollInterval) {
				return
			}
			continue
		}
		if job == nil {
			if !sleepWithContext(ctx, w.cfg.PollInterval) {
				return
			}
			continue
		}

		if err := w.ProcessJob(ctx, *job); err != nil {
			w.logger.Error("process import job failed",
				zap.Error(err), zap.String("job_id", job.ID))
		}
	}
}

// rosterRow es una fila del payload JSON de un roster.
type rosterRow struct {
	CourseCode string `json:"course_code"`
	CourseName string `json:"course_name"`
	DayOfWeek  int    `json:"day_of_week"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Room       string `json:"room"`
	Teacher    string `json:"teacher"`
}

// ProcessJob ejecuta un job reclamado de punta a punta: ingesta de filas y
// sincronización al horario.
func (w *ImportWorker) ProcessJob(ctx context.Context, job domain.ImportJob) error {
	counters, err := w.ingestRows(ctx, job)
	if err != nil {
		return w.failJob(ctx, job, counters, err)
	}

	if err := w.syncItems(ctx, job, &counters); err != nil {
		return w.failJob(ctx, job, counters, err)
	}

	if err := w.jobs.Complete(ctx, job.ID, counters); err != nil {
		return fmt.Errorf("complete job: %w", err)
	}

	w.publish(ctx, job, domain.JobStatusCompleted, counters, "")
	w.logger.Info("import job completed",
		zap.String("job_id", job.ID),
		zap.Int64("processed", counters.Processed),
		zap.Int64("imported", counters.Imported),
		zap.Int64("failed", counters.Failed),
		zap.Int64("skipped", counters.Skipped),
	)
	return nil
}

// ingestRows streamea el JSON del roster y persiste las filas como items
// pendientes, en lotes atómicos.
func (w *ImportWorker) ingestRows(ctx context.Context, job domain.ImportJob) (domain.ImportCounters, error) {
	var counters domain.ImportCounters

	reader, err := w.source.Open(ctx, job.SourcePath)
	if err != nil {
		return counters, fmt.Errorf("open import source: %w", err)
	}
	defer reader.Close()

	dec := json.NewDecoder(reader)
	token, err := dec.Token()
	if err != nil {
		return counters, fmt.Errorf("read json start token: %w", err)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '[' {
		return counters, errors.New("import payload must be a JSON array")
	}

	chunk := make([]domain.ImportItem, 0, w.cfg.ChunkSize)
	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		if _, err := w.items.BulkCreate(ctx, chunk); err != nil {
			return fmt.Errorf("flush chunk: %w", err)
		}
		chunk = chunk[:0]
		return nil
	}

	var rowIndex int64
	for dec.More() {
		if err := ctx.Err(); err != nil {
			return counters, err
		}

		var raw rosterRow
		if err := dec.Decode(&raw); err != nil {
			return counters, fmt.Errorf("decode row at index %d: %w", rowIndex, err)
		}

		chunk = append(chunk, domain.ImportItem{
			ImportJobID: job.ID,
			RowIndex:    rowIndex,
			Status:      domain.ItemStatusPending,
			CourseCode:  raw.CourseCode,
			CourseName:  raw.CourseName,
			DayOfWeek:   raw.DayOfWeek,
			StartTime:   raw.StartTime,
			EndTime:     raw.EndTime,
			Room:        raw.Room,
			Teacher:     raw.Teacher,
		})
		counters.Processed++
		rowIndex++

		if len(chunk) >= w.cfg.ChunkSize {
			if err := flush(); err != nil {
				return counters, err
			}
			if err := w.jobs.UpdateCounters(ctx, job.ID, counters); err != nil {
				return counters, err
			}
		}
	}
	if _, err := dec.Token(); err != nil {
		return counters, fmt.Errorf("read json end token: %w", err)
	}
	return counters, flush()
}

// syncItems procesa los items pendientes del job: valida cada fila y la
// upserta como evento del horario. Filas duplicadas dentro del mismo job se
// marcan skipped, filas inválidas failed.
func (w *ImportWorker) syncItems(ctx context.Context, job domain.ImportJob, counters *domain.ImportCounters) error {
	pending, err := w.items.ListByJobAndStatus(ctx, job.ID, domain.ItemStatusPending)
	if err != nil {
		return fmt.Errorf("list pending items: %w", err)
	}

	seen := make(map[string]bool, len(pending))
	for i, item := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}

		ev, verr := domain.NewScheduleEvent(job.UserID, item)
		if verr != nil {
			counters.Failed++
			if err := w.markItemFailed(ctx, item.ID, verr); err != nil {
				return err
			}
			continue
		}

		key := fmt.Sprintf("%s|%d|%s", ev.CourseCode, ev.DayOfWeek, ev.StartTime)
		if seen[key] {
			counters.Skipped++
			if err := w.items.UpdateStatus(ctx, item.ID, domain.ItemStatusSkipped); err != nil {
				return fmt.Errorf("mark item skipped: %w", err)
			}
			continue
		}
		seen[key] = true

		ev.ID = uuid.NewString()
		if _, err := w.schedule.Upsert(ctx, ev); err != nil {
			return fmt.Errorf("upsert schedule event: %w", err)
		}
		if err := w.items.UpdateStatus(ctx, item.ID, domain.ItemStatusImported); err != nil {
			return fmt.Errorf("mark item imported: %w", err)
		}
		counters.Imported++

		if (i+1)%w.cfg.ChunkSize == 0 {
			if err := w.jobs.UpdateCounters(ctx, job.ID, *counters); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *ImportWorker) markItemFailed(ctx context.Context, itemID int64, cause error) error {
	status := domain.ItemStatusFailed
	reason := cause.Error()
	if _, err := w.items.Update(ctx, itemID, domain.ImportItemPatch{
		Status:       &status,
		ErrorMessage: &reason,
	}); err != nil {
		return fmt.Errorf("mark item failed: %w", err)
	}
	return nil
}

func (w *ImportWorker) failJob(ctx context.Context, job domain.ImportJob, counters domain.ImportCounters, cause error) error {
	if err := w.jobs.Fail(ctx, job.ID, cause.Error()); err != nil {
		w.logger.Error("mark job failed", zap.Error(err), zap.String("job_id", job.ID))
	}
	w.publish(ctx, job, domain.JobStatusFailed, counters, cause.Error())
	return cause
}

func (w *ImportWorker) publish(ctx context.Context, job domain.ImportJob, status string, counters domain.ImportCounters, reason string) {
	ev := event.JobEvent{
		JobID:      job.ID,
		UserID:     job.UserID,
		Status:     status,
		Processed:  counters.Processed,
		Imported:   counters.Imported,
		Failed:     counters.Failed,
		Skipped:    counters.Skipped,
		Error:      reason,
		OccurredAt: time.Now().UTC(),
	}
	if err := w.events.PublishJobEvent(ctx, ev); err != nil {
		w.logger.Warn("publish job event failed", zap.Error(err), zap.String("job_id", job.ID))
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
