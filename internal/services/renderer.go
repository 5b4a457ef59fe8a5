package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"logbiz/recruitment-api/internal/models"
)

type CertificateData struct {
	CandidateName     string
	AssignmentTitle   string
	ProjectName       string
	ProjectDomain     string
	DifficultyLevel   string
	Skills            []string
	Score             int
	CertificateNumber string
	IssueDate         time.Time
}

type CertificateRenderer interface {
	Render(data CertificateData) ([]byte, error)
}

type pdfCertificateRenderer struct {
	issuer string
}

func NewCertificateRenderer() CertificateRenderer {
	return &pdfCertificateRenderer{issuer: "Logbiz Group"}
}

// Render implements CertificateRenderer.
func (r *pdfCertificateRenderer) Render(data CertificateData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(0, 0, 139)
	pdf.CellFormat(0, 20, "Certificate of Completion", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 100, 0)
	pdf.CellFormat(0, 10, r.issuer, "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(0, 7, fmt.Sprintf(
		"This is to certify that %s has successfully completed the assignment:",
		data.CandidateName), "", "L", false)
	pdf.Ln(6)

	domain := data.ProjectDomain
	if domain == "" {
		domain = "N/A"
	}

	details := [][2]string{
		{"Assignment:", data.AssignmentTitle},
		{"Project:", data.ProjectName},
		{"Domain:", domain},
		{"Difficulty Level:", strings.Title(data.DifficultyLevel)},
		{"Skills Demonstrated:", strings.Join(data.Skills, ", ")},
		{"Score Achieved:", fmt.Sprintf("%d%%", data.Score)},
		{"Certificate Number:", data.CertificateNumber},
		{"Date Issued:", data.IssueDate.Format("January 2, 2006")},
	}

	for _, row := range details {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetFillColor(211, 211, 211)
		pdf.CellFormat(50, 8, row[0], "1", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, row[1], "1", 1, "L", false, 0, "")
	}
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	if data.Score >= models.PassingScore {
		pdf.MultiCell(0, 7, fmt.Sprintf(
			"Congratulations! %s has demonstrated excellent proficiency in the required skills and has successfully completed this assignment with a score of %d%%.",
			data.CandidateName, data.Score), "", "L", false)
	} else {
		pdf.MultiCell(0, 7, fmt.Sprintf(
			"%s has completed this assignment with a score of %d%%. While this represents progress, further development in the required skills is recommended.",
			data.CandidateName, data.Score), "", "L", false)
	}
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "", 10)
	for _, label := range []string{"_________________", "_________________", "_________________"} {
		pdf.CellFormat(63, 6, label, "", 0, "C", false, 0, "")
	}
	pdf.Ln(6)
	for _, label := range []string{"HR Manager", "Technical Lead", "Date"} {
		pdf.CellFormat(63, 6, label, "", 0, "C", false, 0, "")
	}
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.MultiCell(0, 5, fmt.Sprintf(
		"This certificate is issued by %s. For verification, please visit our certificate verification portal.",
		r.issuer), "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render certificate PDF: %w", err)
	}

	return buf.Bytes(), nil
}
