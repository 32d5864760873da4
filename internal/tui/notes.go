package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studymate/internal/mentor"
	"github.com/sadopc/studymate/internal/store"
)

const aiTimeout = 90 * time.Second

type notesModel struct {
	store  *store.Store
	gen    mentor.Generator
	width  int
	height int

	notes  []store.Note
	cursor int

	search    textinput.Model
	searching bool
	query     string

	summarizing bool

	formActive bool
	form       *huh.Form
	editingID  int64

	// Form field pointers (survive value copies)
	formTitle   *string
	formSubject *string
	formTags    *string
	formContent *string
}

func newNotesModel(s *store.Store, gen mentor.Generator) notesModel {
	ti := textinput.New()
	ti.Placeholder = "search notes"
	ti.Prompt = "/ "
	ti.CharLimit = 120

	title, subject, tags, content := "", "", "", ""
	return notesModel{
		store:       s,
		gen:         gen,
		search:      ti,
		formTitle:   &title,
		formSubject: &subject,
		formTags:    &tags,
		formContent: &content,
	}
}

func (n *notesModel) setSize(w, h int) {
	n.width = w
	n.height = h
	n.search.Width = max(10, w-12)
}

// capturing reports whether the view is consuming raw key input.
func (n notesModel) capturing() bool {
	return n.formActive || n.searching
}

type notesDataMsg struct {
	notes []store.Note
}

type noteSummarizedMsg struct {
	id  int64
	err error
}

func (n notesModel) refresh() tea.Cmd {
	query := n.query
	return func() tea.Msg {
		var notes []store.Note
		var err error
		if query != "" {
			notes, err = n.store.SearchNotes(query)
		} else {
			notes, err = n.store.ListNotes()
		}
		if err != nil {
			return errStatus("Load notes", err)
		}
		return notesDataMsg{notes: notes}
	}
}

func (n notesModel) selected() (store.Note, bool) {
	if n.cursor < 0 || n.cursor >= len(n.notes) {
		return store.Note{}, false
	}
	return n.notes[n.cursor], true
}

func (n notesModel) update(msg tea.Msg) (notesModel, tea.Cmd) {
	if n.formActive && n.form != nil {
		return n.updateForm(msg)
	}

	switch msg := msg.(type) {
	case notesDataMsg:
		n.notes = msg.notes
		if n.cursor >= len(n.notes) {
			n.cursor = max(0, len(n.notes)-1)
		}
		return n, nil

	case noteSummarizedMsg:
		n.summarizing = false
		if msg.err != nil {
			err := msg.err
			return n, func() tea.Msg { return errStatus("Summarize", err) }
		}
		return n, tea.Batch(n.refresh(), func() tea.Msg { return statusMsg{text: "Summary saved"} })

	case tea.KeyMsg:
		if n.searching {
			return n.updateSearch(msg)
		}
		switch {
		case key.Matches(msg, keys.Up):
			if n.cursor > 0 {
				n.cursor--
			}
		case key.Matches(msg, keys.Down):
			if n.cursor < len(n.notes)-1 {
				n.cursor++
			}
		case key.Matches(msg, keys.New):
			return n.showForm(nil)
		case key.Matches(msg, keys.Edit):
			if note, ok := n.selected(); ok {
				return n.showForm(&note)
			}
		case key.Matches(msg, keys.Delete):
			if note, ok := n.selected(); ok {
				if err := n.store.DeleteNote(note.ID); err != nil {
					return n, func() tea.Msg { return errStatus("Delete note", err) }
				}
				return n, n.refresh()
			}
		case key.Matches(msg, keys.Search):
			n.searching = true
			n.search.SetValue(n.query)
			return n, n.search.Focus()
		case key.Matches(msg, keys.Back):
			if n.query != "" {
				n.query = ""
				return n, n.refresh()
			}
		case key.Matches(msg, keys.Summarize):
			if note, ok := n.selected(); ok {
				return n.summarize(note)
			}
		}
	}
	return n, nil
}

func (n notesModel) updateSearch(msg tea.KeyMsg) (notesModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		n.searching = false
		n.search.Blur()
		n.query = strings.TrimSpace(n.search.Value())
		n.cursor = 0
		return n, n.refresh()
	case "esc":
		n.searching = false
		n.search.Blur()
		return n, nil
	}
	var cmd tea.Cmd
	n.search, cmd = n.search.Update(msg)
	return n, cmd
}

func (n notesModel) summarize(note store.Note) (notesModel, tea.Cmd) {
	if n.gen == nil {
		return n, func() tea.Msg {
			return statusMsg{text: "AI is not configured. Set GEMINI_API_KEY.", isError: true}
		}
	}
	if n.summarizing {
		return n, nil
	}
	if strings.TrimSpace(note.Content) == "" {
		return n, func() tea.Msg { return statusMsg{text: "Note is empty", isError: true} }
	}
	n.summarizing = true
	gen, s := n.gen, n.store
	return n, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), aiTimeout)
		defer cancel()
		summary, err := gen.Summarize(ctx, note.Content)
		if err == nil {
			err = s.SetNoteSummary(note.ID, summary)
		}
		return noteSummarizedMsg{id: note.ID, err: err}
	}
}

func (n notesModel) showForm(existing *store.Note) (notesModel, tea.Cmd) {
	n.editingID = 0
	*n.formTitle = ""
	*n.formSubject = ""
	*n.formTags = ""
	*n.formContent = ""
	formTitle := "New Note"
	if existing != nil {
		formTitle = "Edit Note"
		n.editingID = existing.ID
		*n.formTitle = existing.Title
		*n.formSubject = existing.Subject
		*n.formTags = strings.Join(existing.Tags, ", ")
		*n.formContent = existing.Content
	}

	n.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(n.formTitle).Validate(requireText("title")),
			huh.NewInput().Title("Subject").Value(n.formSubject),
			huh.NewInput().Title("Tags (comma-separated)").Value(n.formTags),
			huh.NewText().Title("Content").Lines(10).Value(n.formContent),
		).Title(formTitle),
	).WithShowHelp(true).WithShowErrors(true)

	n.formActive = true
	return n, n.form.Init()
}

func (n notesModel) updateForm(msg tea.Msg) (notesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			n.formActive = false
			n.form = nil
			return n, nil
		}
	}

	form, cmd := n.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		n.form = f
	}

	if n.form.State == huh.StateCompleted {
		n.formActive = false
		if err := n.save(); err != nil {
			return n, func() tea.Msg { return errStatus("Save note", err) }
		}
		return n, n.refresh()
	}

	return n, cmd
}

func (n notesModel) save() error {
	tags := store.ParseTags(*n.formTags)
	subject := strings.TrimSpace(*n.formSubject)
	if n.editingID != 0 {
		return n.store.UpdateNote(n.editingID, *n.formTitle, *n.formContent, subject, tags)
	}
	_, err := n.store.CreateNote(*n.formTitle, *n.formContent, subject, tags)
	return err
}

func (n notesModel) view() string {
	w := n.width - 4

	if n.formActive && n.form != nil {
		return activePanelStyle.Width(w).Render(n.form.View())
	}

	header := titleStyle.Render("Notes")
	if n.query != "" {
		header += mutedStyle.Render(fmt.Sprintf("  matching %q (esc to clear)", n.query))
	}
	rows := []string{header}
	if n.searching {
		rows = append(rows, n.search.View())
	}
	rows = append(rows, "")

	if len(n.notes) == 0 {
		rows = append(rows, mutedStyle.Render("  No notes. Press n to write one."))
	}
	for i, note := range n.notes {
		cursor := "  "
		style := normalItemStyle
		if i == n.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		mark := " "
		if note.Summary != "" {
			mark = successStyle.Render("✦")
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %-32s %-14s %s",
			cursor, mark, truncate(note.Title, 32), truncate(note.Subject, 14),
			mutedStyle.Render(note.UpdatedAt.Local().Format("Jan 02")),
		)))
	}

	list := panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return lipgloss.JoinVertical(lipgloss.Left, list, n.renderPreview(w))
}

func (n notesModel) renderPreview(w int) string {
	note, ok := n.selected()
	if !ok {
		return ""
	}
	body := note.Content
	if lines := strings.Split(body, "\n"); len(lines) > 8 {
		body = strings.Join(lines[:8], "\n") + "\n…"
	}
	parts := []string{titleStyle.Render(note.Title)}
	if len(note.Tags) > 0 {
		parts = append(parts, mutedStyle.Render("#"+strings.Join(note.Tags, " #")))
	}
	parts = append(parts, "", body)

	switch {
	case n.summarizing:
		parts = append(parts, "", warningStyle.Render("Summarizing…"))
	case note.Summary != "":
		parts = append(parts, "", accentStyle.Render("AI Summary"), note.Summary)
	}
	parts = append(parts, "", mutedStyle.Render("n: new  enter: edit  d: delete  s: summarize  /: search"))

	return panelStyle.Width(w).Render(lipgloss.NewStyle().Width(w - 6).Render(strings.Join(parts, "\n")))
}
