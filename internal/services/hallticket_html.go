package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/usha-institute/exam-registry/internal/models"
)

// hallTicketTmpl is a standalone printable document: all styles are inlined
// so the file renders the same with no stylesheet available.
var hallTicketTmpl = template.Must(template.New("hallticket").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Hall Ticket - {{.Ticket.StudentName}}</title>
    <style>
      body { font-family: Arial, sans-serif; }
      .container { max-width: 800px; margin: 0 auto; padding: 20px; }
      .header { display: flex; justify-content: space-between; border-bottom: 1px solid #ccc; padding-bottom: 15px; margin-bottom: 20px; }
      .grid { display: grid; grid-template-columns: 1fr 1fr; gap: 15px; margin-bottom: 20px; }
      .label { font-size: 13px; color: #666; }
      .value { font-weight: 600; }
      .exam-details { background: #f9f9f9; padding: 15px; border-radius: 5px; margin-bottom: 20px; }
      .footer { border-top: 1px solid #ccc; padding-top: 15px; display: flex; justify-content: space-between; }
      .signature { text-align: center; }
      .signature-line { height: 20px; width: 120px; border-bottom: 1px solid black; margin: 40px auto 5px; }
      .instructions ul { padding-left: 20px; font-size: 14px; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header">
        <div>
          <h1>{{.Branding.InstituteName}}</h1>
          <p>{{.Branding.Tagline}}</p>
        </div>
        <div style="text-align: right;">
          <p class="value">Exam Hall Ticket</p>
          <p class="label">Date: {{.Ticket.ExamDate}}</p>
        </div>
      </div>
      <div class="grid">
        <div><p class="label">Student Name</p><p class="value">{{.Ticket.StudentName}}</p></div>
        <div><p class="label">Roll Number</p><p class="value">{{.Ticket.RollNumber}}</p></div>
        <div><p class="label">Course</p><p class="value">{{.Ticket.CourseName}}</p></div>
        <div><p class="label">Username</p><p class="value">{{.Ticket.Username}}</p></div>
        <div><p class="label">Father's Name</p><p class="value">{{.Ticket.FatherName}}</p></div>
        <div><p class="label">Contact</p><p class="value">{{.Ticket.MobileNumber}}</p></div>
      </div>
      <div class="exam-details">
        <h3>Exam Details</h3>
        <div class="grid">
          <div><p class="label">Exam Code</p><p class="value">{{.Ticket.ExamCode}}</p></div>
          <div><p class="label">Exam Date</p><p class="value">{{.Ticket.ExamDate}}</p></div>
          <div><p class="label">Exam Time</p><p class="value">{{.Ticket.ExamTime}}</p></div>
          <div><p class="label">Exam Center</p><p class="value">{{.Ticket.ExamCenter}}</p></div>
        </div>
      </div>
      <div class="footer">
        <div class="instructions">
          <p class="value">Instructions:</p>
          <ul>
            <li>Please arrive 30 minutes before the exam time</li>
            <li>Bring your ID proof along with this hall ticket</li>
            <li>No electronic devices are allowed in the exam hall</li>
          </ul>
        </div>
        <div class="signature">
          <div class="signature-line"></div>
          <p class="label">Authorized Signature</p>
        </div>
      </div>
    </div>
  </body>
</html>
`))

// RenderHallTicketHTML renders the ticket as a self-contained HTML document
// ready to open and hand to the platform print dialog.
func (s *exportService) RenderHallTicketHTML(ticket models.HallTicket) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		Branding Branding
		Ticket   models.HallTicket
	}{Branding: s.branding, Ticket: ticket}
	if err := hallTicketTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render hall ticket: %w", err)
	}
	return buf.Bytes(), nil
}
