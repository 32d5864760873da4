package store

import (
	"fmt"
	"strings"
	"time"
)

const sessionColumns = `id, started_at, duration_minutes, subject, focus_score, type`

func (ss StudySession) validate() error {
	if ss.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidSession)
	}
	if ss.FocusScore < 1 || ss.FocusScore > 10 {
		return fmt.Errorf("%w: focus score %d outside 1-10", ErrInvalidSession, ss.FocusScore)
	}
	if ss.Type != SessionPomodoro && ss.Type != SessionManual {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidSession, ss.Type)
	}
	return nil
}

// AddSession appends a finished study session. Sessions are never updated.
// A zero StartedAt is recorded as now.
func (s *Store) AddSession(ss StudySession) (*StudySession, error) {
	if err := ss.validate(); err != nil {
		return nil, err
	}
	if ss.StartedAt.IsZero() {
		ss.StartedAt = time.Now()
	}
	subject := strings.TrimSpace(ss.Subject)
	res, err := s.db.Exec(
		`INSERT INTO study_sessions (started_at, duration_minutes, subject, focus_score, type) VALUES (?, ?, ?, ?, ?)`,
		ss.StartedAt.UTC().Format(time.RFC3339), ss.Duration, subject, ss.FocusScore, string(ss.Type),
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetSession(id)
}

func scanSession(r rowScanner) (StudySession, error) {
	var ss StudySession
	var startedAt, typ string
	if err := r.Scan(&ss.ID, &startedAt, &ss.Duration, &ss.Subject, &ss.FocusScore, &typ); err != nil {
		return ss, err
	}
	ss.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	ss.Type = SessionType(typ)
	return ss, nil
}

func (s *Store) GetSession(id int64) (*StudySession, error) {
	ss, err := scanSession(s.db.QueryRow(`SELECT `+sessionColumns+` FROM study_sessions WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "session", id)
	}
	return &ss, nil
}

// ListSessions returns all sessions, newest first. A positive limit caps
// the result.
func (s *Store) ListSessions(limit int) ([]StudySession, error) {
	query := `SELECT ` + sessionColumns + ` FROM study_sessions ORDER BY started_at DESC, id DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []StudySession
	for rows.Next() {
		ss, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, ss)
	}
	return sessions, rows.Err()
}

func (s *Store) DeleteSession(id int64) error {
	res, err := s.db.Exec(`DELETE FROM study_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session %d: %w", id, err)
	}
	return expectRow(res, "session", id)
}

// GetStudyByWeekday totals minutes per weekday in [from, to). Labels are
// SQLite weekday numbers, 0 = Sunday.
func (s *Store) GetStudyByWeekday(from, to time.Time) ([]StudyTotal, error) {
	return s.studyTotals(`strftime('%w', started_at)`, from, to)
}

// GetStudyBySubject totals minutes per subject in [from, to), largest first.
func (s *Store) GetStudyBySubject(from, to time.Time) ([]StudyTotal, error) {
	return s.studyTotals(`subject`, from, to)
}

func (s *Store) studyTotals(groupExpr string, from, to time.Time) ([]StudyTotal, error) {
	rows, err := s.db.Query(`
		SELECT `+groupExpr+` AS label, COALESCE(SUM(duration_minutes), 0), COUNT(*)
		FROM study_sessions
		WHERE started_at >= ? AND started_at < ?
		GROUP BY label
		ORDER BY 2 DESC, label`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("study totals: %w", err)
	}
	defer rows.Close()

	var totals []StudyTotal
	for rows.Next() {
		var t StudyTotal
		if err := rows.Scan(&t.Label, &t.Minutes, &t.Sessions); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (s *Store) GetTodayMinutes() (int64, error) {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	var total int64
	err := s.db.QueryRow(`
		SELECT COALESCE(SUM(duration_minutes), 0)
		FROM study_sessions
		WHERE started_at >= ? AND started_at < ?`,
		dayStart.Format(time.RFC3339), dayStart.Add(24*time.Hour).Format(time.RFC3339),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("today minutes: %w", err)
	}
	return total, nil
}
