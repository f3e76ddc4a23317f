// Package identifier derives student and exam identifiers from entity
// fields. Everything here is a pure function of its inputs except
// NewExamCode, which draws its random suffix from math/rand and stamps the
// date of generation.
package identifier

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/usha-institute/exam-registry/internal/models"
)

const (
	emailDomain    = "@examui.com"
	usernamePrefix = "UI"
	examCodePrefix = "EX"
	dateLayout     = "2006-01-02"

	codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLength   = 5
)

// NextRollNumber returns the roll number a newly opened student draft should
// carry: 1 for an empty collection, otherwise one past the highest assigned
// roll number. Callers must evaluate it against the current collection when
// the draft is opened, not against a cached copy.
func NextRollNumber(students []models.Student) int {
	next := 1
	for _, s := range students {
		if s.RollNumber >= next {
			next = s.RollNumber + 1
		}
	}
	return next
}

// Username derives the login username, UI-{course}-{1000+roll}.
func Username(course models.Course, rollNumber int) string {
	return fmt.Sprintf("%s-%s-%d", usernamePrefix, course, 1000+rollNumber)
}

// Email derives the login email: the first four characters of the
// whitespace-stripped student name (case preserved as typed), the four-digit
// birth year, and the institute domain. An unparseable date of birth yields
// an empty string; drafts in that state fail validation before they can be
// persisted.
func Email(studentName, dateOfBirth string) string {
	dob, err := time.Parse(dateLayout, dateOfBirth)
	if err != nil {
		return ""
	}
	name := strings.Join(strings.Fields(studentName), "")
	if runes := []rune(name); len(runes) > 4 {
		name = string(runes[:4])
	}
	return fmt.Sprintf("%s%d%s", name, dob.Year(), emailDomain)
}

// NewExamCode generates a fresh exam code, EX-{yyyyMMdd}-{5 random base-36
// uppercase chars}, dated to the moment of generation rather than the exam
// date. Codes are unique by convention only; the five-character suffix makes
// collisions negligible and the registry does not re-check on insert.
func NewExamCode() string {
	return newExamCodeAt(time.Now())
}

func newExamCodeAt(now time.Time) string {
	suffix := make([]byte, codeLength)
	for i := range suffix {
		suffix[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return fmt.Sprintf("%s-%s-%s", examCodePrefix, now.Format("20060102"), suffix)
}
