package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/StellarBearX/stanlendar-sub003/internal/domain"
)

// ScheduleEventRepository define el contrato de persistencia para eventos
// del horario sincronizado.
type ScheduleEventRepository interface {
	// Upsert inserta o actualiza el evento según su clave natural
	// (user, course_code, day_of_week, start_time).
	Upsert(ctx context.Context, event domain.ScheduleEvent) (domain.ScheduleEvent, error)
	ListByUser(ctx context.Context, userID string) ([]domain.ScheduleEvent, error)
}

const scheduleEventColumns = `
	id, user_id, course_code, course_name, day_of_week,
	start_time, end_time, room, teacher, created_at, updated_at
`

// PgScheduleEventRepository implementa ScheduleEventRepository usando pgxpool.
type PgScheduleEventRepository struct {
	pool *pgxpool.Pool
}

func NewPgScheduleEventRepository(pool *pgxpool.Pool) *PgScheduleEventRepository {
	return &PgScheduleEventRepository{pool: pool}
}

func (r *PgScheduleEventRepository) Upsert(ctx context.Context, event domain.ScheduleEvent) (domain.ScheduleEvent, error) {
	query := `
		INSERT INTO schedule_events
			(id, user_id, course_code, course_name, day_of_week,
			 start_time, end_time, room, teacher)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, course_code, day_of_week, start_time)
		DO UPDATE SET
			course_name = EXCLUDED.course_name,
			end_time    = EXCLUDED.end_time,
			room        = EXCLUDED.room,
			teacher     = EXCLUDED.teacher,
			updated_at  = now()
		RETURNING ` + scheduleEventColumns
	return scanScheduleEvent(r.pool.QueryRow(ctx, query,
		event.ID,
		event.UserID,
		event.CourseCode,
		event.CourseName,
		event.DayOfWeek,
		event.StartTime,
		event.EndTime,
		event.Room,
		event.Teacher,
	))
}

func (r *PgScheduleEventRepository) ListByUser(ctx context.Context, userID string) ([]domain.ScheduleEvent, error) {
	query := `
		SELECT ` + scheduleEventColumns + `
		FROM schedule_events
		WHERE user_id = $1
		ORDER BY day_of_week, start_time, course_code
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []domain.ScheduleEvent{}
	for rows.Next() {
		event, err := scanScheduleEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func scanScheduleEvent(row pgx.Row) (domain.ScheduleEvent, error) {
	var e domain.ScheduleEvent
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.CourseCode,
		&e.CourseName,
		&e.DayOfWeek,
		&e.StartTime,
		&e.EndTime,
		&e.Room,
		&e.Teacher,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}
