package registry

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"testing"

	"github.com/usha-institute/exam-registry/internal/models"
	"github.com/usha-institute/exam-registry/internal/storage"
	"github.com/usha-institute/exam-registry/internal/storage/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestRegistry(t *testing.T) (*Registry, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return New(store, testLogger()), store
}

func sampleStudents() []models.Student {
	return []models.Student{
		{ID: "s1", RollNumber: 1, StudentName: "Asha Rao", CourseName: models.CourseDCA, DateOfBirth: "2000-03-12", Username: "UI-DCA-1001", Email: "Asha2000@examui.com"},
		{ID: "s2", RollNumber: 2, StudentName: "Jane Doe", CourseName: models.CourseADCA, DateOfBirth: "1999-01-01", Username: "UI-ADCA-1002", Email: "Jane1999@examui.com"},
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	reg := New(store, testLogger())

	students := sampleStudents()
	exams := []models.Exam{
		{ID: "e1", ExamCode: "EX-20250309-AB12C", ExamDate: "2025-04-01", ExamTime: "10:00", ExamCenter: "Main Campus", StudentIDs: []string{"s1", "s2"}},
	}
	if err := reg.SaveStudents(ctx, students); err != nil {
		t.Fatalf("SaveStudents() error = %v", err)
	}
	if err := reg.SaveExams(ctx, exams); err != nil {
		t.Fatalf("SaveExams() error = %v", err)
	}

	// A fresh registry over the same store must load exactly what was saved,
	// order preserved.
	reloaded := New(store, testLogger())
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := reloaded.Students(); !reflect.DeepEqual(got, students) {
		t.Errorf("Students() = %+v, want %+v", got, students)
	}
	if got := reloaded.Exams(); !reflect.DeepEqual(got, exams) {
		t.Errorf("Exams() = %+v, want %+v", got, exams)
	}
}

func TestLoadDefaultsToEmpty(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing persisted", func(t *testing.T) {
		reg, _ := newTestRegistry(t)
		if err := reg.Load(ctx); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got := reg.Students(); len(got) != 0 {
			t.Errorf("Students() = %+v, want empty", got)
		}
		if got := reg.Exams(); len(got) != 0 {
			t.Errorf("Exams() = %+v, want empty", got)
		}
	})

	t.Run("malformed document", func(t *testing.T) {
		store := memory.NewStore()
		if err := store.Save(ctx, storage.BucketStudents, []byte(`{"not":"an array"`)); err != nil {
			t.Fatal(err)
		}
		if err := store.Save(ctx, storage.BucketExams, []byte(`garbage`)); err != nil {
			t.Fatal(err)
		}
		reg := New(store, testLogger())
		if err := reg.Load(ctx); err != nil {
			t.Fatalf("Load() error = %v, want graceful recovery", err)
		}
		if got := reg.Students(); len(got) != 0 {
			t.Errorf("Students() = %+v, want empty after malformed document", got)
		}
		if got := reg.Exams(); len(got) != 0 {
			t.Errorf("Exams() = %+v, want empty after malformed document", got)
		}
	})
}

func TestUpsertStudent(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(t)
	students := sampleStudents()
	if err := reg.SaveStudents(ctx, students); err != nil {
		t.Fatal(err)
	}

	t.Run("replace in place preserves order", func(t *testing.T) {
		updated := students[0]
		updated.StudentName = "Asha R. Rao"
		if err := reg.UpsertStudent(ctx, updated); err != nil {
			t.Fatalf("UpsertStudent() error = %v", err)
		}
		got := reg.Students()
		if len(got) != 2 {
			t.Fatalf("len(Students()) = %d, want 2", len(got))
		}
		if got[0].StudentName != "Asha R. Rao" || got[1].ID != "s2" {
			t.Errorf("Students() = %+v, want s1 replaced in place", got)
		}
	})

	t.Run("unknown id appends", func(t *testing.T) {
		next := models.Student{ID: "s3", RollNumber: 3, StudentName: "Ravi Kumar"}
		if err := reg.UpsertStudent(ctx, next); err != nil {
			t.Fatalf("UpsertStudent() error = %v", err)
		}
		got := reg.Students()
		if len(got) != 3 || got[2].ID != "s3" {
			t.Errorf("Students() = %+v, want s3 appended", got)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		record := models.Student{ID: "s3", RollNumber: 3, StudentName: "Ravi Kumar"}
		if err := reg.UpsertStudent(ctx, record); err != nil {
			t.Fatal(err)
		}
		if err := reg.UpsertStudent(ctx, record); err != nil {
			t.Fatal(err)
		}
		count := 0
		for _, s := range reg.Students() {
			if s.ID == "s3" {
				count++
			}
		}
		if count != 1 {
			t.Errorf("got %d records for s3, want exactly 1", count)
		}
	})
}

func TestDeleteStudent(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(t)
	if err := reg.SaveStudents(ctx, sampleStudents()); err != nil {
		t.Fatal(err)
	}
	exam := models.Exam{ID: "e1", ExamCode: "EX-20250309-AB12C", StudentIDs: []string{"s1", "s2"}}
	if err := reg.SaveExams(ctx, []models.Exam{exam}); err != nil {
		t.Fatal(err)
	}

	if err := reg.DeleteStudent(ctx, "s1"); err != nil {
		t.Fatalf("DeleteStudent() error = %v", err)
	}
	if _, ok := reg.StudentByID("s1"); ok {
		t.Error("StudentByID(s1) still present after delete")
	}

	// The exam keeps its now-stale reference; integrity filtering excludes it.
	got, _ := reg.ExamByID("e1")
	if !reflect.DeepEqual(got.StudentIDs, []string{"s1", "s2"}) {
		t.Errorf("exam StudentIDs = %v, want stale reference retained", got.StudentIDs)
	}
	valid := ValidStudentIDs(got, reg.Students())
	if !reflect.DeepEqual(valid, []string{"s2"}) {
		t.Errorf("ValidStudentIDs() = %v, want [s2]", valid)
	}

	// Deleting an unknown id is a no-op, not an error.
	if err := reg.DeleteStudent(ctx, "missing"); err != nil {
		t.Errorf("DeleteStudent(missing) error = %v, want nil", err)
	}
}

type failingStore struct {
	saveErr error
}

func (f *failingStore) Load(context.Context, storage.Bucket) ([]byte, error) { return nil, nil }
func (f *failingStore) Save(_ context.Context, bucket storage.Bucket, _ []byte) error {
	return &storage.Error{Op: "save", Bucket: bucket, Err: f.saveErr}
}
func (f *failingStore) Close() error { return nil }

func TestWriteFailureSurfacesAndLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	reg := New(&failingStore{saveErr: errors.New("disk full")}, testLogger())

	err := reg.UpsertStudent(ctx, models.Student{ID: "s1"})
	if err == nil {
		t.Fatal("UpsertStudent() error = nil, want persistence failure")
	}
	var storageErr *storage.Error
	if !errors.As(err, &storageErr) {
		t.Errorf("error %v does not unwrap to *storage.Error", err)
	}
	if got := reg.Students(); len(got) != 0 {
		t.Errorf("Students() = %+v, want unchanged after failed write", got)
	}
}

func TestIntegrityHelpers(t *testing.T) {
	students := sampleStudents()
	exams := []models.Exam{
		{ID: "e1", StudentIDs: []string{"s2", "s1"}},
		{ID: "e2", StudentIDs: []string{"s2"}},
		{ID: "e3", StudentIDs: []string{"ghost"}},
	}

	t.Run("ExamsForStudent follows collection order", func(t *testing.T) {
		got := ExamsForStudent("s2", exams)
		if len(got) != 2 || got[0].ID != "e1" || got[1].ID != "e2" {
			t.Errorf("ExamsForStudent(s2) = %+v, want [e1 e2]", got)
		}
		if got := ExamsForStudent("ghost2", exams); got != nil {
			t.Errorf("ExamsForStudent(ghost2) = %+v, want nil", got)
		}
	})

	t.Run("StudentsForExam follows exam id order", func(t *testing.T) {
		got := StudentsForExam(exams[0], students)
		if len(got) != 2 || got[0].ID != "s2" || got[1].ID != "s1" {
			t.Errorf("StudentsForExam(e1) = %+v, want [s2 s1]", got)
		}
	})

	t.Run("stale and duplicate ids dropped", func(t *testing.T) {
		exam := models.Exam{ID: "e4", StudentIDs: []string{"s1", "ghost", "s1", "s2"}}
		if got := ValidStudentIDs(exam, students); !reflect.DeepEqual(got, []string{"s1", "s2"}) {
			t.Errorf("ValidStudentIDs() = %v, want [s1 s2]", got)
		}
		if got := StudentsForExam(exam, students); len(got) != 2 {
			t.Errorf("StudentsForExam() = %+v, want 2 students", got)
		}
	})
}
