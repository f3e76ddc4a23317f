package sqlite

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/usha-institute/exam-registry/internal/storage"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	// Unwritten bucket loads as absent, not as an error.
	payload, err := s.Load(ctx, storage.BucketStudents)
	if err != nil {
		t.Fatalf("Load(empty) error = %v", err)
	}
	if payload != nil {
		t.Fatalf("Load(empty) = %q, want nil", payload)
	}

	doc := []byte(`[{"id":"s1","rollNumber":1}]`)
	if err := s.Save(ctx, storage.BucketStudents, doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := s.Load(ctx, storage.BucketStudents)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !bytes.Equal(got, doc) {
		t.Errorf("Load() = %s, want %s", got, doc)
	}

	// A second save overwrites wholesale.
	doc2 := []byte(`[]`)
	if err := s.Save(ctx, storage.BucketStudents, doc2); err != nil {
		t.Fatalf("Save(overwrite) error = %v", err)
	}
	got, err = s.Load(ctx, storage.BucketStudents)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !bytes.Equal(got, doc2) {
		t.Errorf("Load() after overwrite = %s, want %s", got, doc2)
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")
	ctx := context.Background()

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	doc := []byte(`[{"id":"e1","examCode":"EX-20250309-AB12C"}]`)
	if err := s.Save(ctx, storage.BucketExams, doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore(reopen) error = %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Load(ctx, storage.BucketExams)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !bytes.Equal(got, doc) {
		t.Errorf("Load() after reopen = %s, want %s", got, doc)
	}
}
