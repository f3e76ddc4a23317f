package validator

import "github.com/usha-institute/exam-registry/internal/models"

// StudentDraft is the complete student form a caller submits. RollNumber,
// Username and Email never appear here: the service derives them. Every
// source field the derived fields depend on must be present and well-formed
// before a save is accepted.
type StudentDraft struct {
	ID           string        `json:"id"`
	StudentName  string        `json:"studentName" validate:"required,min=2,max=100"`
	FatherName   string        `json:"fatherName" validate:"required,min=2,max=100"`
	JoinDate     string        `json:"joinDate" validate:"omitempty,datetime=2006-01-02"`
	MobileNumber string        `json:"mobileNumber" validate:"required,min=7,max=15"`
	CourseName   models.Course `json:"courseName" validate:"required,course"`
	DateOfBirth  string        `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
}

// ExamDraft is the complete exam form a caller submits. ExamCode never
// appears here; it is generated at creation and immutable afterwards. The
// empty-student-selection rule is enforced by the exam service, not by a tag,
// so the failure stays a distinct signal.
type ExamDraft struct {
	ID         string   `json:"id"`
	ExamDate   string   `json:"examDate" validate:"omitempty,datetime=2006-01-02"`
	ExamTime   string   `json:"examTime" validate:"required"`
	ExamCenter string   `json:"examCenter" validate:"required,min=2,max=200"`
	StudentIDs []string `json:"studentIds"`
}
