package store

import (
	"fmt"
	"strings"
	"time"
)

const noteColumns = `id, title, content, subject, tags, summary, updated_at`

func scanNote(r rowScanner) (Note, error) {
	var n Note
	var tags, updatedAt string
	if err := r.Scan(&n.ID, &n.Title, &n.Content, &n.Subject, &tags, &n.Summary, &updatedAt); err != nil {
		return n, err
	}
	n.Tags = splitTags(tags)
	n.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return n, nil
}

func (s *Store) CreateNote(title, content, subject string, tags []string) (*Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("insert note: title is required")
	}
	res, err := s.db.Exec(
		`INSERT INTO notes (title, content, subject, tags, updated_at) VALUES (?, ?, ?, ?, ?)`,
		title, content, subject, joinTags(tags), nowString(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetNote(id)
}

func (s *Store) GetNote(id int64) (*Note, error) {
	n, err := scanNote(s.db.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "note", id)
	}
	return &n, nil
}

// ListNotes returns notes, most recently updated first.
func (s *Store) ListNotes() ([]Note, error) {
	return s.queryNotes(`SELECT ` + noteColumns + ` FROM notes ORDER BY updated_at DESC, id DESC`)
}

// SearchNotes matches query against title, content, subject and tags.
func (s *Store) SearchNotes(query string) ([]Note, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListNotes()
	}
	like := "%" + query + "%"
	return s.queryNotes(`SELECT `+noteColumns+` FROM notes
		WHERE title LIKE ? OR content LIKE ? OR subject LIKE ? OR tags LIKE ?
		ORDER BY updated_at DESC, id DESC`, like, like, like, like)
}

func (s *Store) queryNotes(query string, args ...any) ([]Note, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// UpdateNote rewrites a note's body. A stale summary is cleared.
func (s *Store) UpdateNote(id int64, title, content, subject string, tags []string) error {
	res, err := s.db.Exec(
		`UPDATE notes SET title = ?, content = ?, subject = ?, tags = ?, summary = '', updated_at = ? WHERE id = ?`,
		strings.TrimSpace(title), content, subject, joinTags(tags), nowString(), id,
	)
	if err != nil {
		return fmt.Errorf("update note %d: %w", id, err)
	}
	return expectRow(res, "note", id)
}

func (s *Store) SetNoteSummary(id int64, summary string) error {
	res, err := s.db.Exec(`UPDATE notes SET summary = ? WHERE id = ?`, summary, id)
	if err != nil {
		return fmt.Errorf("set note %d summary: %w", id, err)
	}
	return expectRow(res, "note", id)
}

func (s *Store) DeleteNote(id int64) error {
	res, err := s.db.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note %d: %w", id, err)
	}
	return expectRow(res, "note", id)
}
