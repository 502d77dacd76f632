package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Sheet is the printable summary of one task's evaluation chain.
type Sheet struct {
	TaskTitle   string
	Assignee    string
	Status      string
	GeneratedAt time.Time
	Stages      []StageRow
}

type StageRow struct {
	Stage     string
	Evaluator string
	Score     float64
	MaxScore  float64
	Band      string
	Color     [3]int
	Comment   string
	CreatedAt time.Time
	History   []HistoryRow
}

type HistoryRow struct {
	UpdatedBy string
	Previous  float64
	New       float64
	At        time.Time
}

func RenderEvaluationSheet(w io.Writer, sheet Sheet) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Evaluation sheet")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Task: %s", sheet.TaskTitle))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Assignee: %s", sheet.Assignee))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", sheet.Status))
	pdf.Ln(7)
	generated := sheet.GeneratedAt
	if generated.IsZero() {
		generated = time.Now().UTC()
	}
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", generated.Format("2006-01-02 15:04")))
	pdf.Ln(12)

	if len(sheet.Stages) == 0 {
		pdf.Cell(0, 8, "No evaluations recorded yet.")
		pdf.Ln(7)
	}

	for _, row := range sheet.Stages {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, row.Stage)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 7, fmt.Sprintf("Evaluator: %s", row.Evaluator))
		pdf.Ln(6)
		pdf.Cell(0, 7, fmt.Sprintf("Score: %g / %g", row.Score, row.MaxScore))
		pdf.Ln(6)
		pdf.SetTextColor(row.Color[0], row.Color[1], row.Color[2])
		pdf.Cell(0, 7, fmt.Sprintf("Band: %s", row.Band))
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(6)
		if !row.CreatedAt.IsZero() {
			pdf.Cell(0, 7, fmt.Sprintf("Recorded: %s", row.CreatedAt.Format("2006-01-02")))
			pdf.Ln(6)
		}
		if row.Comment != "" {
			pdf.MultiCell(0, 6, "Comment: "+row.Comment, "", "L", false)
		}
		for _, h := range row.History {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.Cell(0, 6, fmt.Sprintf("%s: %g -> %g by %s", h.At.Format("2006-01-02"), h.Previous, h.New, h.UpdatedBy))
			pdf.Ln(5)
		}
		pdf.Ln(6)
	}

	return pdf.Output(w)
}
