package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyCourse     = errors.New("course code and name are required")
	ErrInvalidDay      = errors.New("day of week must be between 0 and 6")
	ErrInvalidTime     = errors.New("time must use HH:MM format")
	ErrInvalidInterval = errors.New("end time must be after start time")
)

// ScheduleEvent es una entrada sincronizada del horario de un usuario.
// Única por (user, course_code, day_of_week, start_time); re-importar upserta.
type ScheduleEvent struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CourseCode string    `json:"course_code"`
	CourseName string    `json:"course_name"`
	DayOfWeek  int       `json:"day_of_week"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	Room       string    `json:"room,omitempty"`
	Teacher    string    `json:"teacher,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewScheduleEvent construye el evento de horario para una fila de import
// válida. Devuelve el primer error de validación encontrado.
func NewScheduleEvent(userID string, item ImportItem) (ScheduleEvent, error) {
	code := strings.TrimSpace(item.CourseCode)
	name := strings.TrimSpace(item.CourseName)
	if code == "" || name == "" {
		return ScheduleEvent{}, ErrEmptyCourse
	}
	if item.DayOfWeek < 0 || item.DayOfWeek > 6 {
		return ScheduleEvent{}, ErrInvalidDay
	}

	start, err := parseClock(item.StartTime)
	if err != nil {
		return ScheduleEvent{}, fmt.Errorf("%w: start_time %q", ErrInvalidTime, item.StartTime)
	}
	end, err := parseClock(item.EndTime)
	if err != nil {
		return ScheduleEvent{}, fmt.Errorf("%w: end_time %q", ErrInvalidTime, item.EndTime)
	}
	if !end.After(start) {
		return ScheduleEvent{}, ErrInvalidInterval
	}

	return ScheduleEvent{
		UserID:     userID,
		CourseCode: code,
		CourseName: name,
		DayOfWeek:  item.DayOfWeek,
		StartTime:  start.Format("15:04"),
		EndTime:    end.Format("15:04"),
		Room:       strings.TrimSpace(item.Room),
		Teacher:    strings.TrimSpace(item.Teacher),
	}, nil
}

func parseClock(s string) (time.Time, error) {
	return time.Parse("15:04", strings.TrimSpace(s))
}
