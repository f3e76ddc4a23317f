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

type studentService struct {
	reg       *registry.Registry
	logger    *slog.Logger
	validator *validator.Validator
	publisher message.Publisher
}

func NewStudentService(reg *registry.Registry, logger *slog.Logger, v *validator.Validator, publisher message.Publisher) StudentService {
	return &studentService{
		reg:       reg,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

// NextRollNumber computes the roll number a new registration would receive.
// It is evaluated against the live collection each time a draft is opened;
// the result must not be cached across registrations.
func (s *studentService) NextRollNumber(_ context.Context) (int, error) {
	return identifier.NextRollNumber(s.reg.Students()), nil
}

func (s *studentService) Register(ctx context.Context, draft *StudentDraft) (*models.Student, error) {
	if err := s.validator.Validate(draft); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	student := models.Student{
		ID:           draft.ID,
		RollNumber:   identifier.NextRollNumber(s.reg.Students()),
		StudentName:  draft.StudentName,
		FatherName:   draft.FatherName,
		JoinDate:     draft.JoinDate,
		MobileNumber: draft.MobileNumber,
		CourseName:   draft.CourseName,
		DateOfBirth:  draft.DateOfBirth,
	}
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if student.JoinDate == "" {
		student.JoinDate = time.Now().Format("2006-01-02")
	}
	deriveStudentFields(&student)

	if err := s.reg.UpsertStudent(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to register student: %w", err)
	}

	s.logger.Info("student registered",
		"student_id", student.ID,
		"roll_number", student.RollNumber,
		"course", student.CourseName)
	publishEvent(s.publisher, s.logger, TopicStudentSaved, RecordEvent{
		ID:     student.ID,
		Title:  "Student Added",
		Detail: fmt.Sprintf("%s has been successfully registered.", student.StudentName),
	})
	return &student, nil
}

func (s *studentService) Update(ctx context.Context, id string, draft *StudentDraft) (*models.Student, error) {
	existing, ok := s.reg.StudentByID(id)
	if !ok {
		return nil, ErrStudentNotFound
	}
	if err := s.validator.Validate(draft); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Identity and roll number survive every edit; the derived fields are
	// recomputed from whatever the source fields now say.
	updated := existing
	updated.StudentName = draft.StudentName
	updated.FatherName = draft.FatherName
	updated.MobileNumber = draft.MobileNumber
	updated.CourseName = draft.CourseName
	updated.DateOfBirth = draft.DateOfBirth
	if draft.JoinDate != "" {
		updated.JoinDate = draft.JoinDate
	}
	deriveStudentFields(&updated)

	if err := s.reg.UpsertStudent(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	s.logger.Info("student updated", "student_id", id, "roll_number", updated.RollNumber)
	publishEvent(s.publisher, s.logger, TopicStudentSaved, RecordEvent{
		ID:     updated.ID,
		Title:  "Student Updated",
		Detail: fmt.Sprintf("%s's information has been updated.", updated.StudentName),
	})
	return &updated, nil
}

func (s *studentService) Delete(ctx context.Context, id string) error {
	existing, ok := s.reg.StudentByID(id)
	if !ok {
		// Deleting an unknown id is a no-op, matching the store contract.
		return nil
	}
	if err := s.reg.DeleteStudent(ctx, id); err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	s.logger.Info("student deleted", "student_id", id, "roll_number", existing.RollNumber)
	publishEvent(s.publisher, s.logger, TopicStudentDeleted, RecordEvent{
		ID:     id,
		Title:  "Student Deleted",
		Detail: fmt.Sprintf("%s has been removed.", existing.StudentName),
	})
	return nil
}

func (s *studentService) Get(_ context.Context, id string) (*models.Student, error) {
	student, ok := s.reg.StudentByID(id)
	if !ok {
		return nil, ErrStudentNotFound
	}
	return &student, nil
}

func (s *studentService) List(_ context.Context) ([]models.Student, error) {
	return s.reg.Students(), nil
}

// deriveStudentFields recomputes username and email from their four source
// fields. It runs on every save so the derived fields can never drift from
// the sources they are a function of.
func deriveStudentFields(student *models.Student) {
	student.Username = identifier.Username(student.CourseName, student.RollNumber)
	student.Email = identifier.Email(student.StudentName, student.DateOfBirth)
}
