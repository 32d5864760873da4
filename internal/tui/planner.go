package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studymate/internal/progress"
	"github.com/sadopc/studymate/internal/store"
)

const deadlineLayout = "2006-01-02"

var priorities = []store.Priority{store.PriorityHigh, store.PriorityMedium, store.PriorityLow}

type plannerModel struct {
	store  *store.Store
	width  int
	height int

	tasks  []store.Task
	cursor int

	formActive bool
	form       *huh.Form
	editingID  int64 // 0 when creating

	// Form field pointers (survive value copies)
	formTitle    *string
	formSubject  *string
	formPriority *store.Priority
	formEstimate *string
	formActual   *string
	formDeadline *string
	formTags     *string
}

func newPlannerModel(s *store.Store) plannerModel {
	title, subject, estimate, actual, deadline, tags := "", "", "", "", "", ""
	prio := store.PriorityMedium
	return plannerModel{
		store:        s,
		formTitle:    &title,
		formSubject:  &subject,
		formPriority: &prio,
		formEstimate: &estimate,
		formActual:   &actual,
		formDeadline: &deadline,
		formTags:     &tags,
	}
}

func (p *plannerModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type tasksDataMsg struct {
	tasks []store.Task
}

type taskToggledMsg struct {
	task *store.Task
}

type taskDeletedMsg struct {
	task store.Task
}

func (p plannerModel) refresh() tea.Cmd {
	return func() tea.Msg {
		tasks, err := p.store.ListTasks()
		if err != nil {
			return errStatus("Load tasks", err)
		}
		return tasksDataMsg{tasks: tasks}
	}
}

func (p plannerModel) selected() (store.Task, bool) {
	if p.cursor < 0 || p.cursor >= len(p.tasks) {
		return store.Task{}, false
	}
	return p.tasks[p.cursor], true
}

func (p plannerModel) update(msg tea.Msg) (plannerModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		p.tasks = msg.tasks
		if p.cursor >= len(p.tasks) {
			p.cursor = max(0, len(p.tasks)-1)
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, keys.Down):
			if p.cursor < len(p.tasks)-1 {
				p.cursor++
			}
		case key.Matches(msg, keys.New):
			return p.showForm(nil)
		case key.Matches(msg, keys.Edit):
			if t, ok := p.selected(); ok {
				return p.showForm(&t)
			}
		case key.Matches(msg, keys.Pause):
			if t, ok := p.selected(); ok {
				return p, p.toggle(t.ID)
			}
		case key.Matches(msg, keys.Delete):
			if t, ok := p.selected(); ok {
				if err := p.store.DeleteTask(t.ID); err != nil {
					return p, func() tea.Msg { return errStatus("Delete task", err) }
				}
				return p, tea.Batch(p.refresh(), func() tea.Msg { return taskDeletedMsg{task: t} })
			}
		}
	}
	return p, nil
}

func (p plannerModel) toggle(id int64) tea.Cmd {
	return func() tea.Msg {
		t, err := p.store.ToggleTaskStatus(id)
		if err != nil {
			return errStatus("Toggle task", err)
		}
		return taskToggledMsg{task: t}
	}
}

func (p plannerModel) showForm(existing *store.Task) (plannerModel, tea.Cmd) {
	p.editingID = 0
	*p.formTitle = ""
	*p.formSubject = ""
	*p.formPriority = store.PriorityMedium
	*p.formEstimate = "30"
	*p.formActual = "0"
	*p.formDeadline = time.Now().AddDate(0, 0, 7).Format(deadlineLayout)
	*p.formTags = ""

	formTitle := "New Task"
	if existing != nil {
		formTitle = "Edit Task"
		p.editingID = existing.ID
		*p.formTitle = existing.Title
		*p.formSubject = existing.Subject
		*p.formPriority = existing.Priority
		*p.formEstimate = strconv.Itoa(existing.EstimatedMinutes)
		*p.formActual = strconv.Itoa(existing.ActualMinutes)
		*p.formDeadline = existing.Deadline.Format(deadlineLayout)
		*p.formTags = strings.Join(existing.Tags, ", ")
	}

	prioOptions := make([]huh.Option[store.Priority], len(priorities))
	for i, pr := range priorities {
		prioOptions[i] = huh.NewOption(string(pr), pr)
	}

	fields := []huh.Field{
		huh.NewInput().Title("Title").Value(p.formTitle).Validate(requireText("title")),
		huh.NewInput().Title("Subject").Value(p.formSubject),
		huh.NewSelect[store.Priority]().Title("Priority").Options(prioOptions...).Value(p.formPriority),
		huh.NewInput().Title("Estimated minutes").Value(p.formEstimate).Validate(positiveInt),
		huh.NewInput().Title("Deadline (YYYY-MM-DD)").Value(p.formDeadline).Validate(validDate),
		huh.NewInput().Title("Tags (comma-separated)").Value(p.formTags),
	}
	if existing != nil {
		fields = append(fields, huh.NewInput().Title("Actual minutes").Value(p.formActual).Validate(nonNegativeInt))
	}

	p.form = huh.NewForm(
		huh.NewGroup(fields...).Title(formTitle),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p plannerModel) updateForm(msg tea.Msg) (plannerModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		if err := p.save(); err != nil {
			return p, func() tea.Msg { return errStatus("Save task", err) }
		}
		return p, p.refresh()
	}

	return p, cmd
}

func (p plannerModel) input() (store.TaskInput, error) {
	estimate, err := strconv.Atoi(strings.TrimSpace(*p.formEstimate))
	if err != nil {
		return store.TaskInput{}, fmt.Errorf("estimate: %w", err)
	}
	actual, _ := strconv.Atoi(strings.TrimSpace(*p.formActual))
	deadline, err := time.Parse(deadlineLayout, strings.TrimSpace(*p.formDeadline))
	if err != nil {
		return store.TaskInput{}, fmt.Errorf("deadline: %w", err)
	}
	return store.TaskInput{
		Title:            *p.formTitle,
		Subject:          strings.TrimSpace(*p.formSubject),
		Priority:         *p.formPriority,
		EstimatedMinutes: estimate,
		ActualMinutes:    actual,
		Deadline:         deadline,
		Tags:             store.ParseTags(*p.formTags),
	}, nil
}

func (p plannerModel) save() error {
	in, err := p.input()
	if err != nil {
		return err
	}
	if p.editingID != 0 {
		return p.store.UpdateTask(p.editingID, in)
	}
	_, err = p.store.CreateTask(in)
	return err
}

func (p plannerModel) view() string {
	w := p.width - 4

	if p.formActive && p.form != nil {
		return activePanelStyle.Width(w).Render(p.form.View())
	}

	title := titleStyle.Render("Study Planner")
	pending := 0
	for _, t := range p.tasks {
		if !t.Completed() {
			pending++
		}
	}
	header := fmt.Sprintf("%s  %s", title, mutedStyle.Render(fmt.Sprintf("%d pending, %d total", pending, len(p.tasks))))

	rows := []string{header, ""}
	if len(p.tasks) == 0 {
		rows = append(rows, mutedStyle.Render("  No tasks yet. Press n to add one."))
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i, t := range p.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		check := "[ ]"
		if t.Completed() {
			check = successStyle.Render("[✓]")
		}
		deadline := t.Deadline.Format("Jan 02")
		if !t.Completed() && t.Deadline.Before(today) {
			deadline = errorStyle.Render(deadline)
		}
		reward := ""
		if !t.Completed() {
			reward = successStyle.Render(fmt.Sprintf("+%d XP", progress.TaskReward(t.EstimatedMinutes)))
		}

		line := fmt.Sprintf("%s%s %s %s  %-30s %-14s %5dm  %s",
			cursor,
			check,
			priorityStyles[t.Priority].Render("●"),
			deadline,
			truncate(t.Title, 30),
			truncate(t.Subject, 14),
			t.EstimatedMinutes,
			reward,
		)
		rows = append(rows, style.Render(line))
		if i == p.cursor && len(t.Tags) > 0 {
			rows = append(rows, mutedStyle.Render("      #"+strings.Join(t.Tags, " #")))
		}
	}

	rows = append(rows, "", mutedStyle.Render("  n: new  enter: edit  space: toggle done  d: delete"))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// --- Form validators ---

func requireText(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("enter a positive whole number")
	}
	return nil
}

func nonNegativeInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return errors.New("enter zero or a positive whole number")
	}
	return nil
}

func validDate(s string) error {
	if _, err := time.Parse(deadlineLayout, strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}
