package services

import (
	"context"
	"errors"
	"testing"
)

func TestFindHallTicket(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry()
	studentSvc := newTestStudentService(reg)
	examSvc := newTestExamService(reg)

	jane := ashaDraft()
	jane.StudentName = "Jane Doe"
	jane.DateOfBirth = "1999-01-01"
	janeStudent, err := studentSvc.Register(ctx, jane)
	if err != nil {
		t.Fatal(err)
	}
	unassigned := ashaDraft()
	unassigned.StudentName = "Ravi Kumar"
	raviStudent, err := studentSvc.Register(ctx, unassigned)
	if err != nil {
		t.Fatal(err)
	}

	firstExam, err := examSvc.Create(ctx, examDraft(janeStudent.ID))
	if err != nil {
		t.Fatal(err)
	}
	// A second exam also references Jane; the first in collection order wins.
	if _, err := examSvc.Create(ctx, examDraft(janeStudent.ID)); err != nil {
		t.Fatal(err)
	}

	svc := NewLookupService(reg, testLogger())

	t.Run("case-insensitive name, exact dob", func(t *testing.T) {
		got, err := svc.FindHallTicket(ctx, "jane doe", "1999-01-01")
		if err != nil {
			t.Fatalf("FindHallTicket() error = %v", err)
		}
		if got.Student.ID != janeStudent.ID {
			t.Errorf("matched student %s, want %s", got.Student.ID, janeStudent.ID)
		}
		if got.Exam.ID != firstExam.ID {
			t.Errorf("matched exam %s, want first exam %s", got.Exam.ID, firstExam.ID)
		}
	})

	t.Run("substring does not match", func(t *testing.T) {
		_, err := svc.FindHallTicket(ctx, "jane", "1999-01-01")
		if !errors.Is(err, ErrStudentNotFound) {
			t.Errorf("FindHallTicket() error = %v, want ErrStudentNotFound", err)
		}
	})

	t.Run("dob mismatch is student-not-found", func(t *testing.T) {
		_, err := svc.FindHallTicket(ctx, "Jane Doe", "1999-01-02")
		if !errors.Is(err, ErrStudentNotFound) {
			t.Errorf("FindHallTicket() error = %v, want ErrStudentNotFound", err)
		}
	})

	t.Run("student without exam is a distinct miss", func(t *testing.T) {
		_, err := svc.FindHallTicket(ctx, "Ravi Kumar", raviStudent.DateOfBirth)
		if !errors.Is(err, ErrNoExamAssigned) {
			t.Errorf("FindHallTicket() error = %v, want ErrNoExamAssigned", err)
		}
	})
}
