package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/usha-institute/exam-registry/internal/models"
	"github.com/usha-institute/exam-registry/internal/registry"
	"github.com/usha-institute/exam-registry/internal/storage/memory"
	"github.com/usha-institute/exam-registry/internal/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestRegistry() *registry.Registry {
	return registry.New(memory.NewStore(), testLogger())
}

func newTestStudentService(reg *registry.Registry) StudentService {
	return NewStudentService(reg, testLogger(), validator.New(), nil)
}

func ashaDraft() *StudentDraft {
	return &StudentDraft{
		StudentName:  "Asha Rao",
		FatherName:   "Mohan Rao",
		JoinDate:     "2025-01-15",
		MobileNumber: "9876543210",
		CourseName:   models.CourseDCA,
		DateOfBirth:  "2000-03-12",
	}
}

func TestRegisterDerivesFields(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry()
	svc := newTestStudentService(reg)

	student, err := svc.Register(ctx, ashaDraft())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if student.RollNumber != 1 {
		t.Errorf("RollNumber = %d, want 1", student.RollNumber)
	}
	if student.Username != "UI-DCA-1001" {
		t.Errorf("Username = %q, want UI-DCA-1001", student.Username)
	}
	if student.Email != "Asha2000@examui.com" {
		t.Errorf("Email = %q, want Asha2000@examui.com", student.Email)
	}
	if student.ID == "" {
		t.Error("ID is empty, want generated id")
	}

	// The record is durable immediately after Register returns.
	if _, ok := reg.StudentByID(student.ID); !ok {
		t.Error("registered student not in registry")
	}
}

func TestRegisterAssignsSequentialRollNumbers(t *testing.T) {
	ctx := context.Background()
	svc := newTestStudentService(newTestRegistry())

	first, err := svc.Register(ctx, ashaDraft())
	if err != nil {
		t.Fatal(err)
	}
	second := ashaDraft()
	second.StudentName = "Ravi Kumar"
	got, err := svc.Register(ctx, second)
	if err != nil {
		t.Fatal(err)
	}
	if first.RollNumber != 1 || got.RollNumber != 2 {
		t.Errorf("roll numbers = %d, %d, want 1, 2", first.RollNumber, got.RollNumber)
	}

	roll, err := svc.NextRollNumber(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if roll != 3 {
		t.Errorf("NextRollNumber() = %d, want 3", roll)
	}
}

func TestRegisterRejectsIncompleteDraft(t *testing.T) {
	ctx := context.Background()
	svc := newTestStudentService(newTestRegistry())

	draft := ashaDraft()
	draft.DateOfBirth = ""
	_, err := svc.Register(ctx, draft)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Register() error = %v, want ValidationErrors", err)
	}
}

func TestUpdateRecomputesDerivedFields(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry()
	svc := newTestStudentService(reg)

	student, err := svc.Register(ctx, ashaDraft())
	if err != nil {
		t.Fatal(err)
	}

	edit := ashaDraft()
	edit.StudentName = "Johnathan Doe"
	edit.CourseName = models.CourseADCA
	edit.DateOfBirth = "2001-05-10"
	updated, err := svc.Update(ctx, student.ID, edit)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	// Roll number and id survive the edit; username and email follow the new
	// source fields.
	if updated.RollNumber != student.RollNumber || updated.ID != student.ID {
		t.Errorf("identity changed: %+v", updated)
	}
	if updated.Username != "UI-ADCA-1001" {
		t.Errorf("Username = %q, want UI-ADCA-1001", updated.Username)
	}
	if updated.Email != "John2001@examui.com" {
		t.Errorf("Email = %q, want John2001@examui.com", updated.Email)
	}
}

func TestUpdateUnknownStudent(t *testing.T) {
	svc := newTestStudentService(newTestRegistry())
	_, err := svc.Update(context.Background(), "missing", ashaDraft())
	if !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("Update() error = %v, want ErrStudentNotFound", err)
	}
}

func TestDeleteStudent(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry()
	svc := newTestStudentService(reg)

	student, err := svc.Register(ctx, ashaDraft())
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, student.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := reg.StudentByID(student.ID); ok {
		t.Error("student still present after delete")
	}

	// Unknown id deletes are a no-op.
	if err := svc.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) error = %v, want nil", err)
	}
}

func TestRegisterPublishesNotification(t *testing.T) {
	ctx := context.Background()
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer bus.Close()

	messages, err := bus.Subscribe(ctx, TopicStudentSaved)
	if err != nil {
		t.Fatal(err)
	}

	svc := NewStudentService(newTestRegistry(), testLogger(), validator.New(), bus)
	if _, err := svc.Register(ctx, ashaDraft()); err != nil {
		t.Fatal(err)
	}

	select {
	case msg := <-messages:
		var ev RecordEvent
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		msg.Ack()
		if ev.Title != "Student Added" {
			t.Errorf("event title = %q, want Student Added", ev.Title)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no notification published on student.saved")
	}
}
