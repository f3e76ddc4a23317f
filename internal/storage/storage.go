// Package storage defines the durable key-value persistence port backing the
// record registry. Each bucket holds one whole JSON document that is
// overwritten wholesale on every save; there is no partial merge.
package storage

import "context"

// Bucket names one persisted JSON document.
type Bucket string

const (
	BucketStudents Bucket = "students"
	BucketExams    Bucket = "exams"
)

// Store is the persistence capability handed to the registry. Load returns a
// nil payload and nil error when the bucket has never been written. Save
// replaces the bucket's payload atomically with respect to the running
// process; failures surface as *Error so callers can report them, they are
// never retried here.
type Store interface {
	Load(ctx context.Context, bucket Bucket) ([]byte, error)
	Save(ctx context.Context, bucket Bucket, payload []byte) error
	Close() error
}

// Error wraps an underlying storage failure with the operation and bucket it
// occurred on.
type Error struct {
	Op     string
	Bucket Bucket
	Err    error
}

func (e *Error) Error() string {
	return "storage: " + e.Op + " " + string(e.Bucket) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
