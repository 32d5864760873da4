package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/studymate/internal/store"
)

// SessionsToCSV writes one row per study session.
func SessionsToCSV(sessions []store.StudySession, path string) error {
	return writeCSV(path,
		[]string{"ID", "Started", "Minutes", "Duration", "Subject", "Focus", "Type"},
		len(sessions),
		func(i int) []string {
			s := sessions[i]
			return []string{
				strconv.FormatInt(s.ID, 10),
				s.StartedAt.Local().Format(time.RFC3339),
				strconv.Itoa(s.Duration),
				formatMinutes(int64(s.Duration)),
				s.Subject,
				strconv.Itoa(s.FocusScore),
				string(s.Type),
			}
		},
	)
}

// TasksToCSV writes one row per task.
func TasksToCSV(tasks []store.Task, path string) error {
	return writeCSV(path,
		[]string{"ID", "Title", "Subject", "Priority", "Estimated (min)", "Actual (min)", "Deadline", "Status", "Tags"},
		len(tasks),
		func(i int) []string {
			t := tasks[i]
			return []string{
				strconv.FormatInt(t.ID, 10),
				t.Title,
				t.Subject,
				string(t.Priority),
				strconv.Itoa(t.EstimatedMinutes),
				strconv.Itoa(t.ActualMinutes),
				t.Deadline.Format("2006-01-02"),
				string(t.Status),
				strings.Join(t.Tags, ";"),
			}
		},
	)
}

func writeCSV(path string, header []string, n int, row func(int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatMinutes(mins int64) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
