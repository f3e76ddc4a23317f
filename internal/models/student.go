package models

type Course string

const (
	CourseADCA Course = "ADCA"
	CourseDCA  Course = "DCA"
)

// Valid reports whether the course is one of the offered courses.
func (c Course) Valid() bool {
	return c == CourseADCA || c == CourseDCA
}

// Student is a registered student record. JSON field names match the
// persisted document layout, so records written by earlier versions of the
// registry load unchanged.
//
// Username and Email are derived fields: they are a deterministic function of
// (StudentName, DateOfBirth, CourseName, RollNumber) and are recomputed on
// every save that touches one of those four source fields.
type Student struct {
	ID           string `json:"id"`
	RollNumber   int    `json:"rollNumber"`
	StudentName  string `json:"studentName"`
	FatherName   string `json:"fatherName"`
	JoinDate     string `json:"joinDate"`
	MobileNumber string `json:"mobileNumber"`
	CourseName   Course `json:"courseName"`
	DateOfBirth  string `json:"dateOfBirth"`
	Username     string `json:"username"`
	Email        string `json:"email"`
}
