package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/usha-institute/exam-registry/internal/identifier"
	"github.com/usha-institute/exam-registry/internal/models"
	"github.com/usha-institute/exam-registry/internal/registry"
	"github.com/usha-institute/exam-registry/internal/validator"
)

type examService struct {
	reg       *registry.Registry
	logger    *slog.Logger
	validator *validator.Validator
	publisher message.Publisher
}

func NewExamService(reg *registry.Registry, logger *slog.Logger, v *validator.Validator, publisher message.Publisher) ExamService {
	return &examService{
		reg:       reg,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

func (s *examService) Create(ctx context.Context, draft *ExamDraft) (*models.Exam, error) {
	if err := s.validator.Validate(draft); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	studentIDs, err := s.checkAssignment(draft.StudentIDs)
	if err != nil {
		return nil, err
	}

	exam := models.Exam{
		ID:         draft.ID,
		ExamCode:   identifier.NewExamCode(),
		ExamDate:   draft.ExamDate,
		ExamTime:   draft.ExamTime,
		ExamCenter: draft.ExamCenter,
		StudentIDs: studentIDs,
	}
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	if exam.ExamDate == "" {
		exam.ExamDate = time.Now().Format("2006-01-02")
	}

	if err := s.reg.UpsertExam(ctx, exam); err != nil {
		return nil, fmt.Errorf("failed to create exam: %w", err)
	}

	s.logger.Info("exam created",
		"exam_id", exam.ID,
		"exam_code", exam.ExamCode,
		"students", len(exam.StudentIDs))
	publishEvent(s.publisher, s.logger, TopicExamSaved, RecordEvent{
		ID:     exam.ID,
		Title:  "Exam Added",
		Detail: fmt.Sprintf("Exam %s has been created with %d assigned students.", exam.ExamCode, len(exam.StudentIDs)),
	})
	return &exam, nil
}

func (s *examService) Update(ctx context.Context, id string, draft *ExamDraft) (*models.Exam, error) {
	existing, ok := s.reg.ExamByID(id)
	if !ok {
		return nil, ErrExamNotFound
	}
	if err := s.validator.Validate(draft); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	studentIDs, err := s.checkAssignment(draft.StudentIDs)
	if err != nil {
		return nil, err
	}

	// The exam code is assigned at creation and never rewritten.
	updated := existing
	updated.ExamTime = draft.ExamTime
	updated.ExamCenter = draft.ExamCenter
	updated.StudentIDs = studentIDs
	if draft.ExamDate != "" {
		updated.ExamDate = draft.ExamDate
	}

	if err := s.reg.UpsertExam(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update exam: %w", err)
	}

	s.logger.Info("exam updated", "exam_id", id, "exam_code", updated.ExamCode)
	publishEvent(s.publisher, s.logger, TopicExamSaved, RecordEvent{
		ID:     updated.ID,
		Title:  "Exam Updated",
		Detail: fmt.Sprintf("Exam %s has been updated.", updated.ExamCode),
	})
	return &updated, nil
}

func (s *examService) Delete(ctx context.Context, id string) error {
	existing, ok := s.reg.ExamByID(id)
	if !ok {
		return nil
	}
	if err := s.reg.DeleteExam(ctx, id); err != nil {
		return fmt.Errorf("failed to delete exam: %w", err)
	}

	s.logger.Info("exam deleted", "exam_id", id, "exam_code", existing.ExamCode)
	publishEvent(s.publisher, s.logger, TopicExamDeleted, RecordEvent{
		ID:     id,
		Title:  "Exam Deleted",
		Detail: fmt.Sprintf("Exam %s has been removed.", existing.ExamCode),
	})
	return nil
}

func (s *examService) Get(_ context.Context, id string) (*models.Exam, error) {
	exam, ok := s.reg.ExamByID(id)
	if !ok {
		return nil, ErrExamNotFound
	}
	return &exam, nil
}

func (s *examService) GetWithStudents(_ context.Context, id string) (*models.ExamWithStudents, error) {
	exam, ok := s.reg.ExamByID(id)
	if !ok {
		return nil, ErrExamNotFound
	}
	return &models.ExamWithStudents{
		Exam:     exam,
		Students: registry.StudentsForExam(exam, s.reg.Students()),
	}, nil
}

func (s *examService) List(_ context.Context) ([]models.Exam, error) {
	return s.reg.Exams(), nil
}

// AssignedNames renders the assigned-student summary shown in exam listings:
// up to two resolved names, then a count of the rest. Stale references are
// silently excluded.
func (s *examService) AssignedNames(_ context.Context, exam models.Exam) string {
	assigned := registry.StudentsForExam(exam, s.reg.Students())
	switch {
	case len(assigned) == 0:
		return "No students assigned"
	case len(assigned) == 1:
		return assigned[0].StudentName
	case len(assigned) == 2:
		return assigned[0].StudentName + ", " + assigned[1].StudentName
	default:
		return fmt.Sprintf("%s, %s, and %d more",
			assigned[0].StudentName, assigned[1].StudentName, len(assigned)-2)
	}
}

// checkAssignment dedupes the selection (order preserved) and enforces the
// save-time invariants: the selection is non-empty and every id references a
// student currently in the registry.
func (s *examService) checkAssignment(studentIDs []string) ([]string, error) {
	seen := make(map[string]bool, len(studentIDs))
	deduped := make([]string, 0, len(studentIDs))
	for _, id := range studentIDs {
		if !seen[id] {
			seen[id] = true
			deduped = append(deduped, id)
		}
	}
	if len(deduped) == 0 {
		return nil, ErrEmptyStudentList
	}
	for _, id := range deduped {
		if _, ok := s.reg.StudentByID(id); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStudent, id)
		}
	}
	return deduped, nil
}
