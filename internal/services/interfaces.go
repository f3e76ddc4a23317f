package services

import (
	"context"

	"github.com/usha-institute/exam-registry/internal/models"
	"github.com/usha-institute/exam-registry/internal/validator"
)

// Drafts are defined next to their validation tags.
type StudentDraft = validator.StudentDraft
type ExamDraft = validator.ExamDraft

// StudentService manages student registration and the derived-field
// lifecycle: roll numbers are assigned once at registration, username and
// email are recomputed from their source fields on every save.
type StudentService interface {
	NextRollNumber(ctx context.Context) (int, error)
	Register(ctx context.Context, draft *StudentDraft) (*models.Student, error)
	Update(ctx context.Context, id string, draft *StudentDraft) (*models.Student, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context) ([]models.Student, error)
}

// ExamService manages exam scheduling and student assignment.
type ExamService interface {
	Create(ctx context.Context, draft *ExamDraft) (*models.Exam, error)
	Update(ctx context.Context, id string, draft *ExamDraft) (*models.Exam, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Exam, error)
	GetWithStudents(ctx context.Context, id string) (*models.ExamWithStudents, error)
	List(ctx context.Context) ([]models.Exam, error)
	AssignedNames(ctx context.Context, exam models.Exam) string
}

// HallTicketResult pairs the matched student with their first assigned exam.
type HallTicketResult struct {
	Student models.Student
	Exam    models.Exam
}

// LookupService resolves a (name, date of birth) pair for self-service hall
// ticket retrieval.
type LookupService interface {
	FindHallTicket(ctx context.Context, name, dateOfBirth string) (*HallTicketResult, error)
}

// JSONMode selects between the minimal and the richer JSON projection.
type JSONMode string

const (
	JSONSummary JSONMode = "summary"
	JSONFull    JSONMode = "full"
)

// ExportFile is a rendered export artifact ready to hand to the caller.
type ExportFile struct {
	Name string
	MIME string
	Data []byte
}

// ExportService projects the current record set into downloadable artifacts
// and the printable hall ticket.
type ExportService interface {
	StudentsCSV(ctx context.Context, examID string) (*ExportFile, error)
	StudentsJSON(ctx context.Context, mode JSONMode) (*ExportFile, error)
	RosterXLSX(ctx context.Context, examID string) (*ExportFile, error)
	HallTicket(student models.Student, exam models.Exam) models.HallTicket
	RenderHallTicketHTML(ticket models.HallTicket) ([]byte, error)
}
