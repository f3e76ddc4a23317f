// Package registry owns the in-memory student and exam collections and keeps
// them durable-consistent with the persistence store: every mutation writes
// the full collection back before returning, so after any call the store
// matches the in-memory view exactly.
//
// The registry is the single writer in a single-user session; it serializes
// its own access so callers never observe a half-applied mutation.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/usha-institute/exam-registry/internal/models"
	"github.com/usha-institute/exam-registry/internal/storage"
)

type Registry struct {
	store  storage.Store
	logger *slog.Logger

	mu       sync.Mutex
	students []models.Student
	exams    []models.Exam
}

func New(store storage.Store, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{store: store, logger: logger}
}

// Load reads both collections from the store. A missing or malformed
// document degrades to an empty collection — stored data can never prevent
// the application from starting. Storage read failures are returned as-is.
func (r *Registry) Load(ctx context.Context) error {
	students, err := loadDocument[models.Student](ctx, r, storage.BucketStudents)
	if err != nil {
		return err
	}
	exams, err := loadDocument[models.Exam](ctx, r, storage.BucketExams)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.students = students
	r.exams = exams
	return nil
}

func loadDocument[T any](ctx context.Context, r *Registry, bucket storage.Bucket) ([]T, error) {
	payload, err := r.store.Load(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", bucket, err)
	}
	if len(payload) == 0 {
		return nil, nil
	}
	var records []T
	if err := json.Unmarshal(payload, &records); err != nil {
		r.logger.Warn("malformed persisted document, starting empty",
			"bucket", bucket, "error", err)
		return nil, nil
	}
	return records, nil
}

// Students returns a copy of the student collection in storage order.
func (r *Registry) Students() []models.Student {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Student, len(r.students))
	copy(out, r.students)
	return out
}

// Exams returns a copy of the exam collection in storage order.
func (r *Registry) Exams() []models.Exam {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Exam, len(r.exams))
	copy(out, r.exams)
	return out
}

// StudentByID looks up a student by id.
func (r *Registry) StudentByID(id string) (models.Student, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.students {
		if s.ID == id {
			return s, true
		}
	}
	return models.Student{}, false
}

// ExamByID looks up an exam by id.
func (r *Registry) ExamByID(id string) (models.Exam, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.exams {
		if e.ID == id {
			return e, true
		}
	}
	return models.Exam{}, false
}

// SaveStudents replaces the whole student collection and persists it.
func (r *Registry) SaveStudents(ctx context.Context, students []models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	replacement := make([]models.Student, len(students))
	copy(replacement, students)
	return r.commitStudents(ctx, replacement)
}

// SaveExams replaces the whole exam collection and persists it.
func (r *Registry) SaveExams(ctx context.Context, exams []models.Exam) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	replacement := make([]models.Exam, len(exams))
	copy(replacement, exams)
	return r.commitExams(ctx, replacement)
}

// UpsertStudent replaces the record with the same id in place, or appends
// when no such record exists, then persists the collection.
func (r *Registry) UpsertStudent(ctx context.Context, student models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := make([]models.Student, len(r.students))
	copy(next, r.students)
	replaced := false
	for i, s := range next {
		if s.ID == student.ID {
			next[i] = student
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, student)
	}
	return r.commitStudents(ctx, next)
}

// UpsertExam replaces the record with the same id in place, or appends when
// no such record exists, then persists the collection.
func (r *Registry) UpsertExam(ctx context.Context, exam models.Exam) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := make([]models.Exam, len(r.exams))
	copy(next, r.exams)
	replaced := false
	for i, e := range next {
		if e.ID == exam.ID {
			next[i] = exam
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, exam)
	}
	return r.commitExams(ctx, next)
}

// DeleteStudent removes a student by id and persists. Deleting an unknown id
// is a no-op. References to the deleted id held by existing exams are left
// in place; dependent views exclude them via ValidStudentIDs.
func (r *Registry) DeleteStudent(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := make([]models.Student, 0, len(r.students))
	for _, s := range r.students {
		if s.ID != id {
			next = append(next, s)
		}
	}
	if len(next) == len(r.students) {
		return nil
	}
	return r.commitStudents(ctx, next)
}

// DeleteExam removes an exam by id and persists. Deleting an unknown id is a
// no-op.
func (r *Registry) DeleteExam(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := make([]models.Exam, 0, len(r.exams))
	for _, e := range r.exams {
		if e.ID != id {
			next = append(next, e)
		}
	}
	if len(next) == len(r.exams) {
		return nil
	}
	return r.commitExams(ctx, next)
}

// commitStudents persists the replacement collection and only then installs
// it in memory, so a failed write leaves the previous state visible.
// Callers must hold r.mu.
func (r *Registry) commitStudents(ctx context.Context, students []models.Student) error {
	payload, err := json.Marshal(students)
	if err != nil {
		return fmt.Errorf("encode %s: %w", storage.BucketStudents, err)
	}
	if err := r.store.Save(ctx, storage.BucketStudents, payload); err != nil {
		return fmt.Errorf("persist %s: %w", storage.BucketStudents, err)
	}
	r.students = students
	return nil
}

// commitExams is the exam counterpart of commitStudents. Callers must hold r.mu.
func (r *Registry) commitExams(ctx context.Context, exams []models.Exam) error {
	payload, err := json.Marshal(exams)
	if err != nil {
		return fmt.Errorf("encode %s: %w", storage.BucketExams, err)
	}
	if err := r.store.Save(ctx, storage.BucketExams, payload); err != nil {
		return fmt.Errorf("persist %s: %w", storage.BucketExams, err)
	}
	r.exams = exams
	return nil
}
