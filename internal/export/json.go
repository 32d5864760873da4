package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/studymate/internal/progress"
	"github.com/sadopc/studymate/internal/store"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Progress   jsonProgress  `json:"progress"`
	Tasks      []jsonTask    `json:"tasks"`
	Sessions   []jsonSession `json:"sessions"`
}

type jsonProgress struct {
	Experience   int64    `json:"experience"`
	Level        int64    `json:"level"`
	NextLevelAt  int64    `json:"next_level_at"`
	Achievements []string `json:"achievements"`
}

type jsonTask struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	Subject          string   `json:"subject,omitempty"`
	Priority         string   `json:"priority"`
	EstimatedMinutes int      `json:"estimated_minutes"`
	ActualMinutes    int      `json:"actual_minutes"`
	Deadline         string   `json:"deadline"`
	Status           string   `json:"status"`
	Tags             []string `json:"tags,omitempty"`
}

type jsonSession struct {
	ID         int64  `json:"id"`
	StartedAt  string `json:"started_at"`
	Minutes    int    `json:"minutes"`
	Subject    string `json:"subject,omitempty"`
	FocusScore int    `json:"focus_score"`
	Type       string `json:"type"`
}

// ToJSON writes tasks, sessions and the derived progression snapshot.
func ToJSON(tasks []store.Task, sessions []store.StudySession, path string) error {
	snap := progress.ComputeSnapshot(tasks, sessions)
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Progress: jsonProgress{
			Experience:   snap.TotalExperience,
			Level:        snap.Level,
			NextLevelAt:  snap.Ceiling,
			Achievements: []string{},
		},
		Tasks:    []jsonTask{},
		Sessions: []jsonSession{},
	}
	for _, k := range snap.Unlocked {
		export.Progress.Achievements = append(export.Progress.Achievements, string(k))
	}

	for _, t := range tasks {
		export.Tasks = append(export.Tasks, jsonTask{
			ID:               t.ID,
			Title:            t.Title,
			Subject:          t.Subject,
			Priority:         string(t.Priority),
			EstimatedMinutes: t.EstimatedMinutes,
			ActualMinutes:    t.ActualMinutes,
			Deadline:         t.Deadline.Format("2006-01-02"),
			Status:           string(t.Status),
			Tags:             t.Tags,
		})
	}
	for _, s := range sessions {
		export.Sessions = append(export.Sessions, jsonSession{
			ID:         s.ID,
			StartedAt:  s.StartedAt.Local().Format(time.RFC3339),
			Minutes:    s.Duration,
			Subject:    s.Subject,
			FocusScore: s.FocusScore,
			Type:       string(s.Type),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
