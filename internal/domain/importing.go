package domain

import "time"

// Estados de un import job.
const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// Estados de un import item.
const (
	ItemStatusPending    = "pending"
	ItemStatusProcessing = "processing"
	ItemStatusImported   = "imported"
	ItemStatusFailed     = "failed"
	ItemStatusSkipped    = "skipped"
)

// ValidItemStatus indica si el status pertenece al conjunto permitido.
func ValidItemStatus(status string) bool {
	switch status {
	case ItemStatusPending, ItemStatusProcessing, ItemStatusImported, ItemStatusFailed, ItemStatusSkipped:
		return true
	}
	return false
}

type ImportJob struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	SourcePath     string     `json:"source_path"`
	Status         string     `json:"status"`
	ProcessedCount int64      `json:"processed_count"`
	ImportedCount  int64      `json:"imported_count"`
	FailedCount    int64      `json:"failed_count"`
	SkippedCount   int64      `json:"skipped_count"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ImportCounters acumula el progreso de filas de un job.
type ImportCounters struct {
	Processed int64
	Imported  int64
	Failed    int64
	Skipped   int64
}

// ImportItem es una fila de un roster importado, rastreada por status.
// El listado por job es estable por id ascendente.
type ImportItem struct {
	ID           int64     `json:"id"`
	ImportJobID  string    `json:"import_job_id"`
	RowIndex     int64     `json:"row_index"`
	Status       string    `json:"status"`
	CourseCode   string    `json:"course_code"`
	CourseName   string    `json:"course_name"`
	DayOfWeek    int       `json:"day_of_week"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	Room         string    `json:"room,omitempty"`
	Teacher      string    `json:"teacher,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ImportItemPatch describe un update parcial: solo los campos no nil se aplican.
type ImportItemPatch struct {
	Status       *string
	CourseCode   *string
	CourseName   *string
	DayOfWeek    *int
	StartTime    *string
	EndTime      *string
	Room         *string
	Teacher      *string
	ErrorMessage *string
}
