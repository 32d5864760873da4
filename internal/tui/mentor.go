package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studymate/internal/mentor"
)

type mentorTool int

const (
	toolChat mentorTool = iota
	toolQuiz
	toolCareer
	toolIdeas
)

var toolNames = []string{"Chat", "Quiz", "Career", "Ideas"}

var toolPrompts = map[mentorTool]string{
	toolChat:   "Ask your mentor anything",
	toolQuiz:   "Quiz topic, or an option number to answer",
	toolCareer: "interests | strengths",
	toolIdeas:  "interests | focus area",
}

type transcriptEntry struct {
	speaker string // "you", "mentor" or "" for system lines
	text    string
	sources []mentor.Source
}

type mentorModel struct {
	gen    mentor.Generator
	width  int
	height int

	tool mentorTool
	mode int // index into mentor.Modes

	input  textinput.Model
	typing bool
	busy   bool

	history    []mentor.Message
	transcript []transcriptEntry
	viewport   viewport.Model

	quiz      *mentor.Quiz
	quizIndex int
	quizScore int
}

func newMentorModel(gen mentor.Generator) mentorModel {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 2000
	ti.Placeholder = toolPrompts[toolChat]

	return mentorModel{
		gen:      gen,
		input:    ti,
		viewport: viewport.New(60, 10),
	}
}

func (m *mentorModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.input.Width = max(10, w-12)
	m.viewport.Width = max(10, w-8)
	m.viewport.Height = max(3, h-12)
	m.syncViewport()
}

func (m mentorModel) currentMode() mentor.Mode {
	return mentor.Modes[m.mode%len(mentor.Modes)]
}

// mentorResultMsg carries the outcome of one asynchronous generator call.
type mentorResultMsg struct {
	tool    mentorTool
	prompt  string
	text    string
	sources []mentor.Source
	quiz    *mentor.Quiz
	err     error
}

func (m mentorModel) update(msg tea.Msg) (mentorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case mentorResultMsg:
		return m.handleResult(msg)

	case tea.KeyMsg:
		if m.typing {
			return m.updateInput(msg)
		}
		switch {
		case key.Matches(msg, keys.Focus), key.Matches(msg, keys.Enter):
			if m.gen == nil {
				return m, nil
			}
			m.typing = true
			return m, m.input.Focus()
		case key.Matches(msg, keys.Mode):
			m.mode = (m.mode + 1) % len(mentor.Modes)
			return m, nil
		case key.Matches(msg, keys.Tool):
			m.tool = (m.tool + 1) % mentorTool(len(toolNames))
			m.input.Placeholder = toolPrompts[m.tool]
			return m, nil
		case key.Matches(msg, keys.Delete):
			m.history = nil
			m.transcript = nil
			m.quiz = nil
			m.syncViewport()
			return m, nil
		case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m mentorModel) updateInput(msg tea.KeyMsg) (mentorModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.typing = false
		m.input.Blur()
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" || m.busy {
			return m, nil
		}
		m.input.SetValue("")
		return m.submit(text)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m mentorModel) submit(text string) (mentorModel, tea.Cmd) {
	if m.tool == toolQuiz && m.quiz != nil && m.quizIndex < len(m.quiz.Questions) {
		m.answerQuiz(text)
		m.syncViewport()
		return m, nil
	}

	m.transcript = append(m.transcript, transcriptEntry{speaker: "you", text: text})
	m.busy = true
	m.syncViewport()

	gen, tool, mode := m.gen, m.tool, m.currentMode()
	history := append([]mentor.Message(nil), m.history...)
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), aiTimeout)
		defer cancel()

		res := mentorResultMsg{tool: tool, prompt: text}
		switch tool {
		case toolChat:
			reply, err := gen.Chat(ctx, mode, history, text)
			res.text, res.sources, res.err = reply.Text, reply.Sources, err
		case toolQuiz:
			quiz, err := gen.Quiz(ctx, text)
			res.quiz, res.err = &quiz, err
		case toolCareer:
			interests, strengths := splitPair(text)
			res.text, res.err = gen.CareerAdvice(ctx, interests, strengths)
		case toolIdeas:
			interests, focus := splitPair(text)
			ideas, err := gen.Ideas(ctx, interests, focus)
			res.text, res.err = formatIdeas(ideas), err
		}
		return res
	}
}

func (m mentorModel) handleResult(msg mentorResultMsg) (mentorModel, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		m.transcript = append(m.transcript, transcriptEntry{text: "⚠ " + msg.err.Error()})
		m.syncViewport()
		err := msg.err
		return m, func() tea.Msg { return errStatus("Mentor", err) }
	}

	switch msg.tool {
	case toolChat:
		m.history = append(m.history,
			mentor.Message{Role: mentor.RoleUser, Text: msg.prompt},
			mentor.Message{Role: mentor.RoleModel, Text: msg.text},
		)
		m.transcript = append(m.transcript, transcriptEntry{speaker: "mentor", text: msg.text, sources: msg.sources})
	case toolQuiz:
		m.quiz = msg.quiz
		m.quizIndex = 0
		m.quizScore = 0
		if m.quiz == nil || len(m.quiz.Questions) == 0 {
			m.quiz = nil
			m.transcript = append(m.transcript, transcriptEntry{text: "No questions came back. Try another topic."})
			break
		}
		m.transcript = append(m.transcript, transcriptEntry{
			text: fmt.Sprintf("Quiz on %q: %d questions", msg.prompt, len(m.quiz.Questions)),
		})
		m.askQuestion()
	default:
		m.transcript = append(m.transcript, transcriptEntry{speaker: "mentor", text: msg.text})
	}
	m.syncViewport()
	return m, nil
}

func (m *mentorModel) askQuestion() {
	q := m.quiz.Questions[m.quizIndex]
	lines := []string{fmt.Sprintf("Q%d. %s", m.quizIndex+1, q.Question)}
	for i, opt := range q.Options {
		lines = append(lines, fmt.Sprintf("  %d) %s", i+1, opt))
	}
	m.transcript = append(m.transcript, transcriptEntry{speaker: "mentor", text: strings.Join(lines, "\n")})
}

// answerQuiz grades an answer given as an option number or the option text.
func (m *mentorModel) answerQuiz(answer string) {
	q := m.quiz.Questions[m.quizIndex]
	chosen := answer
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(q.Options) {
		chosen = q.Options[n-1]
	}
	m.transcript = append(m.transcript, transcriptEntry{speaker: "you", text: chosen})

	result := "✗ The answer was " + q.CorrectAnswer
	if strings.EqualFold(strings.TrimSpace(chosen), strings.TrimSpace(q.CorrectAnswer)) {
		m.quizScore++
		result = "✓ Correct"
	}
	if q.Explanation != "" {
		result += ". " + q.Explanation
	}
	m.transcript = append(m.transcript, transcriptEntry{text: result})

	m.quizIndex++
	if m.quizIndex < len(m.quiz.Questions) {
		m.askQuestion()
		return
	}
	m.transcript = append(m.transcript, transcriptEntry{
		text: fmt.Sprintf("Quiz finished: %d/%d correct", m.quizScore, len(m.quiz.Questions)),
	})
	m.quiz = nil
}

func (m *mentorModel) syncViewport() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m mentorModel) renderTranscript() string {
	if len(m.transcript) == 0 {
		return mutedStyle.Render("No conversation yet. Press i to start typing.")
	}
	wrap := lipgloss.NewStyle().Width(max(10, m.viewport.Width-2))
	var blocks []string
	for _, e := range m.transcript {
		var block string
		switch e.speaker {
		case "you":
			block = highlightStyle.Render("You") + "\n" + wrap.Render(e.text)
		case "mentor":
			block = accentStyle.Render("Mentor") + "\n" + wrap.Render(e.text)
			for _, src := range e.sources {
				title := src.Title
				if title == "" {
					title = src.URI
				}
				block += "\n" + mutedStyle.Render("  ↗ "+title+" "+src.URI)
			}
		default:
			block = mutedStyle.Render(wrap.Render(e.text))
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n")
}

func (m mentorModel) view() string {
	w := m.width - 4

	if m.gen == nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("AI Mentor"),
			"",
			warningStyle.Render("The mentor is offline."),
			mutedStyle.Render("Set GEMINI_API_KEY (or STUDYMATE_API_KEY) and restart to enable chat,"),
			mutedStyle.Render("quizzes, career advice, project ideas and note summaries."),
		))
	}

	var tabs []string
	for i, name := range toolNames {
		if mentorTool(i) == m.tool {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		append([]string{titleStyle.Render("AI Mentor"), "  "}, tabs...)...,
	)
	if m.tool == toolChat {
		header = lipgloss.JoinHorizontal(lipgloss.Bottom, header, "  ",
			mutedStyle.Render("mode "), levelStyle.Render(string(m.currentMode())))
	}

	status := mutedStyle.Render("i: type  t: tool  m: mode  d: clear  ↑/↓: scroll")
	if m.typing {
		status = mutedStyle.Render("enter: send  esc: stop typing")
	}
	if m.busy {
		status = warningStyle.Render("Thinking…")
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.viewport.View(),
		"",
		m.input.View(),
		status,
	))
}

// splitPair splits "a | b" input for tools that take two fields.
func splitPair(s string) (string, string) {
	a, b, _ := strings.Cut(s, "|")
	return strings.TrimSpace(a), strings.TrimSpace(b)
}

func formatIdeas(ideas []mentor.Idea) string {
	if len(ideas) == 0 {
		return "No ideas came back."
	}
	var parts []string
	for i, idea := range ideas {
		lines := []string{fmt.Sprintf("%d. %s", i+1, idea.Title)}
		var meta []string
		if idea.Type != "" {
			meta = append(meta, idea.Type)
		}
		if idea.Difficulty != "" {
			meta = append(meta, idea.Difficulty)
		}
		if len(meta) > 0 {
			lines[0] += " [" + strings.Join(meta, ", ") + "]"
		}
		if idea.Description != "" {
			lines = append(lines, "   "+idea.Description)
		}
		if len(idea.TechStack) > 0 {
			lines = append(lines, "   Stack: "+strings.Join(idea.TechStack, ", "))
		}
		if len(idea.LearningOutcomes) > 0 {
			lines = append(lines, "   You'll learn: "+strings.Join(idea.LearningOutcomes, "; "))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return strings.Join(parts, "\n\n")
}
