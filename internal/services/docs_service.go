package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"projectdesk/internal/domain/models"
	"projectdesk/internal/utils"
)

const sheetMaxRows = 25

// DocsService renders printable PDF sheets.
type DocsService struct {
	Projects  ProjectStore
	Now       func() time.Time
	RequestID string
}

// ProjectSheet renders a one-page summary of a project. Lookup errors are those of GetProjectDetails.
func (s DocsService) ProjectSheet(ctx context.Context, projectID string) ([]byte, string, error) {
	env, err := ProjectService{Projects: s.Projects, RequestID: s.RequestID}.GetProjectDetails(ctx, projectID)
	if err != nil {
		return nil, "", err
	}
	now := utils.NowUTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}
	utils.LogEvent(s.RequestID, "docs", "project_sheet", "project_id="+env.Data.ID)

	pdfBytes, filename, err := buildProjectSheetPDF(env.Data, now)
	if err != nil {
		return nil, "", classify(s.RequestID, "docs", "project_sheet", err)
	}
	return pdfBytes, filename, nil
}

func buildProjectSheetPDF(d *models.ProjectDetails, now time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Project sheet - "+d.Name), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(safe(d.Name, "Untitled project")))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	manager := "-"
	if d.ProjectManager != nil {
		manager = fmt.Sprintf("%s <%s>", d.ProjectManager.Name, d.ProjectManager.Email)
	}
	location := "-"
	if d.Location != nil {
		location = d.Location.Name
	}
	lines := []string{
		fmt.Sprintf("Status      : %s", safe(d.Status, "-")),
		fmt.Sprintf("Risk level  : %s", safe(d.RiskLevel, "-")),
		fmt.Sprintf("Period      : %s -> %s", safe(utils.FormatDate(d.StartDate), "-"), safe(utils.FormatDate(d.EndDate), "-")),
		fmt.Sprintf("Budget      : %s", utils.FormatAmount(d.Budget)),
		fmt.Sprintf("Progress    : %.1f%%", d.Progress),
		fmt.Sprintf("Client      : %s", safe(utils.Deref(d.Client, ""), "-")),
		fmt.Sprintf("Funder      : %s", safe(utils.Deref(d.Funder, ""), "-")),
		fmt.Sprintf("Manager     : %s", manager),
		fmt.Sprintf("Location    : %s", location),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, tr(l))
		pdf.Ln(7)
	}

	if desc := utils.Deref(d.Description, ""); desc != "" {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, tr(desc), "", "", false)
	}

	section(pdf, tr, fmt.Sprintf("Tasks (%d)", len(d.Tasks)))
	for i, t := range d.Tasks {
		if i == sheetMaxRows {
			pdf.Cell(0, 6, fmt.Sprintf("... %d more", len(d.Tasks)-sheetMaxRows))
			pdf.Ln(6)
			break
		}
		due := "-"
		if t.DueDate != nil {
			due = utils.FormatDate(*t.DueDate)
		}
		pdf.Cell(0, 6, tr(fmt.Sprintf("[%s] %s (due %s)", safe(t.Status, "-"), safe(t.Title, "-"), due)))
		pdf.Ln(6)
	}

	section(pdf, tr, fmt.Sprintf("KPIs (%d)", len(d.Kpis)))
	for i, k := range d.Kpis {
		if i == sheetMaxRows {
			break
		}
		target := "-"
		if k.Target != nil {
			target = fmt.Sprintf("%g", *k.Target)
		}
		pdf.Cell(0, 6, tr(fmt.Sprintf("%s: %g / %s %s", safe(k.Name, "-"), k.Value, target, utils.Deref(k.Unit, ""))))
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, "Generated "+now.Format("2006-01-02 15:04")+" UTC")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("PROJECT_%s_%s.pdf", safeFilenamePart(d.Name), now.Format("20060102"))
	return buf.Bytes(), filename, nil
}

func section(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, tr(title))
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
