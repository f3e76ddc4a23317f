package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/usha-institute/exam-registry/internal/registry"
)

type lookupService struct {
	reg    *registry.Registry
	logger *slog.Logger
}

func NewLookupService(reg *registry.Registry, logger *slog.Logger) LookupService {
	return &lookupService{reg: reg, logger: logger}
}

// FindHallTicket resolves a (name, date of birth) pair to the student and
// their first assigned exam in collection order. The name match is exact but
// case-insensitive; the date of birth must match as a string. The two miss
// cases stay distinct: ErrStudentNotFound when no record matches, and
// ErrNoExamAssigned when the student exists but no exam references them.
func (s *lookupService) FindHallTicket(_ context.Context, name, dateOfBirth string) (*HallTicketResult, error) {
	for _, student := range s.reg.Students() {
		if !strings.EqualFold(student.StudentName, name) || student.DateOfBirth != dateOfBirth {
			continue
		}
		exams := registry.ExamsForStudent(student.ID, s.reg.Exams())
		if len(exams) == 0 {
			s.logger.Info("hall ticket lookup: no exam assigned",
				"student_id", student.ID, "roll_number", student.RollNumber)
			return nil, ErrNoExamAssigned
		}
		return &HallTicketResult{Student: student, Exam: exams[0]}, nil
	}
	s.logger.Info("hall ticket lookup: student not found", "name", name)
	return nil, ErrStudentNotFound
}
