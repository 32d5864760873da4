package export

import (
	"fmt"
	"sort"

	"github.com/go-pdf/fpdf"
	"github.com/sadopc/studymate/internal/progress"
	"github.com/sadopc/studymate/internal/store"
)

// ProgressReportPDF renders level, achievements and per-subject study time.
func ProgressReportPDF(tasks []store.Task, sessions []store.StudySession, path string) error {
	snap := progress.ComputeSnapshot(tasks, sessions)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Study Progress: Level %d", snap.Level))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Experience: %d XP (%d XP to level %d)", snap.TotalExperience, snap.Remaining(), snap.Level+1))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Level progress: %.0f%%", snap.Fraction*100))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Achievements")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	for _, a := range progress.Catalog() {
		mark := "[ ]"
		if snap.Has(a.Key) {
			mark = "[x]"
		}
		pdf.Cell(0, 8, fmt.Sprintf("  %s %s - %s", mark, a.Title, a.Description))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Study Time by Subject")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	writeSubjectTable(pdf, subjectMinutes(sessions))

	completed := 0
	for _, t := range tasks {
		if t.Completed() {
			completed++
		}
	}
	pdf.Ln(10)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Tasks Completed: %d of %d", completed, len(tasks)))

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// Column widths in mm for the subject table.
const (
	subjectColWidth  = 90.0
	timeColWidth     = 35.0
	sessionsColWidth = 35.0
)

func writeSubjectTable(pdf *fpdf.Fpdf, subjects []store.StudyTotal) {
	if len(subjects) == 0 {
		pdf.Cell(0, 8, "  - No study sessions yet.")
		pdf.Ln(8)
		return
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(subjectColWidth, 8, "Subject", "B", 0, "L", false, 0, "")
	pdf.CellFormat(timeColWidth, 8, "Time", "B", 0, "R", false, 0, "")
	pdf.CellFormat(sessionsColWidth, 8, "Sessions", "B", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	for _, st := range subjects {
		label := st.Label
		if label == "" {
			label = "(none)"
		}
		pdf.CellFormat(subjectColWidth, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(timeColWidth, 7, formatMinutes(st.Minutes), "", 0, "R", false, 0, "")
		pdf.CellFormat(sessionsColWidth, 7, fmt.Sprintf("%d", st.Sessions), "", 1, "R", false, 0, "")
	}
}

func subjectMinutes(sessions []store.StudySession) []store.StudyTotal {
	idx := make(map[string]int)
	var totals []store.StudyTotal
	for _, s := range sessions {
		i, ok := idx[s.Subject]
		if !ok {
			i = len(totals)
			idx[s.Subject] = i
			totals = append(totals, store.StudyTotal{Label: s.Subject})
		}
		if s.Duration > 0 {
			totals[i].Minutes += int64(s.Duration)
		}
		totals[i].Sessions++
	}
	sort.SliceStable(totals, func(a, b int) bool { return totals[a].Minutes > totals[b].Minutes })
	return totals
}
