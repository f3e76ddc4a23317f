package registry

import "github.com/usha-institute/exam-registry/internal/models"

// ValidStudentIDs filters an exam's student ids down to those present in the
// given student collection, preserving the exam's order and dropping
// duplicates. Stale references (students deleted after the exam was saved)
// are excluded rather than treated as errors, so dependent views degrade
// gracefully.
func ValidStudentIDs(exam models.Exam, students []models.Student) []string {
	known := make(map[string]bool, len(students))
	for _, s := range students {
		known[s.ID] = true
	}
	var valid []string
	seen := make(map[string]bool, len(exam.StudentIDs))
	for _, id := range exam.StudentIDs {
		if known[id] && !seen[id] {
			valid = append(valid, id)
			seen[id] = true
		}
	}
	return valid
}

// ExamsForStudent returns every exam referencing the student, in the exam
// collection's iteration order.
func ExamsForStudent(studentID string, exams []models.Exam) []models.Exam {
	var matched []models.Exam
	for _, e := range exams {
		for _, id := range e.StudentIDs {
			if id == studentID {
				matched = append(matched, e)
				break
			}
		}
	}
	return matched
}

// StudentsForExam resolves an exam's student ids to student records in the
// exam's id order, skipping stale references and duplicates.
func StudentsForExam(exam models.Exam, students []models.Student) []models.Student {
	byID := make(map[string]models.Student, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}
	var resolved []models.Student
	seen := make(map[string]bool, len(exam.StudentIDs))
	for _, id := range exam.StudentIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if s, ok := byID[id]; ok {
			resolved = append(resolved, s)
		}
	}
	return resolved
}
