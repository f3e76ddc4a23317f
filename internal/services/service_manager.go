package services

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/usha-institute/exam-registry/internal/registry"
	"github.com/usha-institute/exam-registry/internal/validator"
)

// ServiceManager wires the services over one shared registry, validator and
// notification publisher.
type ServiceManager interface {
	Student() StudentService
	Exam() ExamService
	Lookup() LookupService
	Export() ExportService
	Shutdown(ctx context.Context) error
}

type serviceManager struct {
	reg       *registry.Registry
	logger    *slog.Logger
	publisher message.Publisher

	studentService StudentService
	examService    ExamService
	lookupService  LookupService
	exportService  ExportService
}

func NewServiceManager(reg *registry.Registry, logger *slog.Logger, v *validator.Validator, publisher message.Publisher, branding Branding) ServiceManager {
	return &serviceManager{
		reg:            reg,
		logger:         logger,
		publisher:      publisher,
		studentService: NewStudentService(reg, logger, v, publisher),
		examService:    NewExamService(reg, logger, v, publisher),
		lookupService:  NewLookupService(reg, logger),
		exportService:  NewExportService(reg, logger, branding),
	}
}

func (m *serviceManager) Student() StudentService { return m.studentService }
func (m *serviceManager) Exam() ExamService       { return m.examService }
func (m *serviceManager) Lookup() LookupService   { return m.lookupService }
func (m *serviceManager) Export() ExportService   { return m.exportService }

// Shutdown closes the notification bus; pending subscriber deliveries drain
// before Close returns.
func (m *serviceManager) Shutdown(_ context.Context) error {
	if m.publisher == nil {
		return nil
	}
	if err := m.publisher.Close(); err != nil {
		m.logger.Warn("failed to close notification publisher", "error", err)
		return err
	}
	return nil
}
