package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/usha-institute/exam-registry/internal/models"
	"github.com/usha-institute/exam-registry/internal/registry"
)

// Branding carries the institute identity printed on hall tickets.
type Branding struct {
	InstituteName string
	Tagline       string
}

const (
	mimeCSV  = "text/csv"
	mimeJSON = "application/json"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// The roster column set is fixed by the consumer of these files. Section,
	// Address, Father's Phone and Password are not collected by the registry
	// and export as literal placeholders.
	csvHeader = "Student Name,Roll Number,Class,Section,Phone Number,Address,Father's Name,Father's Phone,Login Email,Username,Password"

	defaultSection  = "A"
	notCollected    = "N/A"
	defaultPassword = "changeme123"
)

type exportService struct {
	reg      *registry.Registry
	logger   *slog.Logger
	branding Branding
}

func NewExportService(reg *registry.Registry, logger *slog.Logger, branding Branding) ExportService {
	return &exportService{reg: reg, logger: logger, branding: branding}
}

// StudentsCSV renders the roster of one exam's assigned students. Fields are
// joined with bare commas and not escaped; a name containing a comma shifts
// its row's columns. Known limitation carried over from the consumer's
// expected format.
func (s *exportService) StudentsCSV(_ context.Context, examID string) (*ExportFile, error) {
	exam, ok := s.reg.ExamByID(examID)
	if !ok {
		return nil, ErrExamNotFound
	}
	students := registry.StudentsForExam(exam, s.reg.Students())

	lines := make([]string, 0, len(students)+1)
	lines = append(lines, csvHeader)
	for _, st := range students {
		lines = append(lines, strings.Join(rosterRow(st), ","))
	}

	s.logger.Info("csv export", "exam_code", exam.ExamCode, "students", len(students))
	return &ExportFile{
		Name: fmt.Sprintf("Students_%s.csv", exam.ExamCode),
		MIME: mimeCSV,
		Data: []byte(strings.Join(lines, "\n")),
	}, nil
}

// StudentsJSON renders all registered students, pretty-printed with 2-space
// indentation. Summary mode carries the three viewer fields; full mode the
// richer projection.
func (s *exportService) StudentsJSON(_ context.Context, mode JSONMode) (*ExportFile, error) {
	students := s.reg.Students()

	var (
		doc  any
		name string
	)
	switch mode {
	case JSONFull:
		details := make([]models.StudentDetail, 0, len(students))
		for _, st := range students {
			details = append(details, models.Detail(st))
		}
		doc = models.StudentDetailDocument{Students: details}
		name = "students_data.json"
	case JSONSummary:
		summaries := make([]models.StudentSummary, 0, len(students))
		for _, st := range students {
			summaries = append(summaries, models.Summarize(st))
		}
		doc = models.StudentSummaryDocument{Students: summaries}
		name = "all_students.json"
	default:
		return nil, fmt.Errorf("unknown json export mode %q", mode)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode students: %w", err)
	}
	s.logger.Info("json export", "mode", mode, "students", len(students))
	return &ExportFile{Name: name, MIME: mimeJSON, Data: data}, nil
}

// RosterXLSX renders the same roster as StudentsCSV as a spreadsheet.
func (s *exportService) RosterXLSX(_ context.Context, examID string) (*ExportFile, error) {
	exam, ok := s.reg.ExamByID(examID)
	if !ok {
		return nil, ErrExamNotFound
	}
	students := registry.StudentsForExam(exam, s.reg.Students())

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Sheet1"

	header := strings.Split(csvHeader, ",")
	headerCells := make([]interface{}, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}
	for i, st := range students {
		row := rosterRow(st)
		cells := make([]interface{}, len(row))
		for j, c := range row {
			cells[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	s.logger.Info("xlsx export", "exam_code", exam.ExamCode, "students", len(students))
	return &ExportFile{
		Name: fmt.Sprintf("Students_%s.xlsx", exam.ExamCode),
		MIME: mimeXLSX,
		Data: buf.Bytes(),
	}, nil
}

// HallTicket combines a student and exam into the printable view model. Both
// arguments are assumed present; absence is resolved upstream by the lookup
// service.
func (s *exportService) HallTicket(student models.Student, exam models.Exam) models.HallTicket {
	return models.HallTicket{
		StudentName:  student.StudentName,
		RollNumber:   student.RollNumber,
		CourseName:   student.CourseName,
		Username:     student.Username,
		FatherName:   student.FatherName,
		MobileNumber: student.MobileNumber,
		ExamCode:     exam.ExamCode,
		ExamDate:     exam.ExamDate,
		ExamTime:     exam.ExamTime,
		ExamCenter:   exam.ExamCenter,
	}
}

// rosterRow flattens a student into the fixed export column order.
func rosterRow(st models.Student) []string {
	return []string{
		st.StudentName,
		strconv.Itoa(st.RollNumber),
		string(st.CourseName),
		defaultSection,
		st.MobileNumber,
		notCollected,
		st.FatherName,
		notCollected,
		st.Email,
		st.Username,
		defaultPassword,
	}
}
