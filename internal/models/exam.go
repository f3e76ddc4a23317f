package models

// Exam is a scheduled exam instance. StudentIDs is order-preserving for
// display but semantically a set; duplicates are rejected at save time.
//
// ExamCode is assigned once at creation and never changes. Deleting a student
// does not purge their id from existing exams, so StudentIDs may carry stale
// references; dependent views resolve them through the registry's integrity
// helpers instead of assuming every id is live.
type Exam struct {
	ID         string   `json:"id"`
	ExamCode   string   `json:"examCode"`
	ExamDate   string   `json:"examDate"`
	ExamCenter string   `json:"examCenter"`
	ExamTime   string   `json:"examTime"`
	StudentIDs []string `json:"studentIds"`
}

// ExamWithStudents is an exam joined with its resolved (non-stale) students.
type ExamWithStudents struct {
	Exam
	Students []Student `json:"students"`
}

// HallTicket is the printable projection of a student and their assigned
// exam. It is a pure combination of both records' display fields; building
// one never mutates either source record.
type HallTicket struct {
	StudentName  string `json:"studentName"`
	RollNumber   int    `json:"rollNumber"`
	CourseName   Course `json:"courseName"`
	Username     string `json:"username"`
	FatherName   string `json:"fatherName"`
	MobileNumber string `json:"mobileNumber"`

	ExamCode   string `json:"examCode"`
	ExamDate   string `json:"examDate"`
	ExamTime   string `json:"examTime"`
	ExamCenter string `json:"examCenter"`
}
