package models

import "strconv"

// StudentSummary is the minimal export projection used by the JSON viewer and
// the all-students download. Field names (and the string-typed roll number)
// match the document format consumed downstream.
type StudentSummary struct {
	RollNumber  string `json:"Roll Number"`
	StudentName string `json:"Student Name"`
	Username    string `json:"Username"`
}

// StudentDetail is the richer export projection carrying contact and course
// fields alongside the identifiers.
type StudentDetail struct {
	ID           string `json:"id"`
	RollNumber   int    `json:"rollNumber"`
	StudentName  string `json:"studentName"`
	FatherName   string `json:"fatherName"`
	MobileNumber string `json:"mobileNumber"`
	Email        string `json:"email"`
	DateOfBirth  string `json:"dateOfBirth"`
	CourseName   Course `json:"courseName"`
	Username     string `json:"username"`
}

// StudentSummaryDocument wraps summaries under a "students" key, the shape of
// the exported JSON document.
type StudentSummaryDocument struct {
	Students []StudentSummary `json:"students"`
}

// StudentDetailDocument wraps detail projections under a "students" key.
type StudentDetailDocument struct {
	Students []StudentDetail `json:"students"`
}

// Summarize projects a student into its summary form.
func Summarize(s Student) StudentSummary {
	return StudentSummary{
		RollNumber:  strconv.Itoa(s.RollNumber),
		StudentName: s.StudentName,
		Username:    s.Username,
	}
}

// Detail projects a student into its detail form.
func Detail(s Student) StudentDetail {
	return StudentDetail{
		ID:           s.ID,
		RollNumber:   s.RollNumber,
		StudentName:  s.StudentName,
		FatherName:   s.FatherName,
		MobileNumber: s.MobileNumber,
		Email:        s.Email,
		DateOfBirth:  s.DateOfBirth,
		CourseName:   s.CourseName,
		Username:     s.Username,
	}
}
