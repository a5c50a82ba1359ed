// Package tui provides the Bubble Tea training interface.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/paomem/internal/ledger"
	"github.com/verte-zerg/paomem/internal/model"
	"github.com/verte-zerg/paomem/internal/quiz"
	"github.com/verte-zerg/paomem/internal/report"
)

type phase int

const (
	phaseStudy phase = iota
	phaseAnswer
	phaseResult
	phaseStats
)

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	okStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	missStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	challengeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// Model implements the Bubble Tea training UI.
type Model struct {
	data    map[string]model.Association
	ledger  *ledger.Ledger
	session *quiz.Session

	prompt  quiz.Prompt
	phase   phase
	inputs  []textinput.Model
	focus   int
	command textinput.Model

	result  quiz.Result
	correct bool

	statsView  viewport.Model
	statsReady bool

	width  int
	height int
}

// NewModel constructs a training TUI model positioned at its first prompt.
func NewModel(data map[string]model.Association, l *ledger.Ledger, session *quiz.Session) *Model {
	m := &Model{
		data:    data,
		ledger:  l,
		session: session,
	}
	m.command = textinput.New()
	m.command.Prompt = "> "
	m.command.Placeholder = "Enter for next, 'stats' or 'quit'"
	m.command.CharLimit = 32
	m.advance()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statsView.Width = msg.Width
		m.statsView.Height = maxInt(msg.Height-2, 1)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.phase {
		case phaseStudy:
			return m.updateStudy(msg)
		case phaseAnswer:
			return m.updateAnswer(msg)
		case phaseResult:
			return m.updateResult(msg)
		case phaseStats:
			return m.updateStats(msg)
		}
	}
	return m, nil
}

func (m *Model) updateStudy(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		m.setupInputs()
		m.phase = phaseAnswer
		return m, textinput.Blink
	}
	return m, nil
}

func (m *Model) updateAnswer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if m.focus < len(m.inputs)-1 {
			m.setFocus(m.focus + 1)
			return m, nil
		}
		m.grade()
		m.phase = phaseResult
		m.command.SetValue("")
		m.command.Focus()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.setFocus((m.focus + 1) % len(m.inputs))
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.setFocus((m.focus - 1 + len(m.inputs)) % len(m.inputs))
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		switch strings.ToLower(strings.TrimSpace(m.command.Value())) {
		case "quit":
			return m, tea.Quit
		case "stats":
			m.openStats()
			return m, nil
		default:
			m.advance()
			return m, textinput.Blink
		}
	}
	var cmd tea.Cmd
	m.command, cmd = m.command.Update(msg)
	return m, cmd
}

func (m *Model) updateStats(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.advance()
		return m, textinput.Blink
	}
	var cmd tea.Cmd
	m.statsView, cmd = m.statsView.Update(msg)
	return m, cmd
}

// advance pulls the next prompt and resets per-item state.
func (m *Model) advance() {
	m.prompt = m.session.Next()
	m.result = quiz.Result{}
	m.correct = false
	if m.prompt.Mode == quiz.ModeStudy {
		m.phase = phaseStudy
		return
	}
	m.setupInputs()
	m.phase = phaseAnswer
}

func (m *Model) setupInputs() {
	if m.prompt.Mode == quiz.ModeReverse {
		in := textinput.New()
		in.Prompt = "Number: "
		in.CharLimit = 8
		m.inputs = []textinput.Model{in}
	} else {
		prompts := []string{"Person: ", "Action: ", "Object: "}
		m.inputs = make([]textinput.Model, len(prompts))
		for i, p := range prompts {
			in := textinput.New()
			in.Prompt = p
			in.CharLimit = 64
			m.inputs[i] = in
		}
	}
	m.setFocus(0)
}

func (m *Model) setFocus(idx int) {
	m.focus = idx
	for i := range m.inputs {
		if i == idx {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *Model) grade() {
	switch m.prompt.Mode {
	case quiz.ModeReverse:
		m.correct = quiz.GradeReverse(m.inputs[0].Value(), m.prompt.Key)
	case quiz.ModeSequence:
		person, action, object := m.prompt.Expected()
		m.result = quiz.GradeSequence(m.answer(), person, action, object)
		m.correct = m.result.All()
	default:
		m.result = quiz.GradeForward(m.answer(), m.prompt.Assoc)
		m.correct = m.result.All()
	}
	m.session.Commit(m.prompt, m.correct)
}

func (m *Model) answer() quiz.Answer {
	return quiz.Answer{
		Person: m.inputs[0].Value(),
		Action: m.inputs[1].Value(),
		Object: m.inputs[2].Value(),
	}
}

func (m *Model) openStats() {
	var b strings.Builder
	if err := report.RenderSummary(&b, m.data, m.ledger); err != nil {
		b.WriteString(fmt.Sprintf("failed to render summary: %v\n", err))
	}
	b.WriteString("\n")
	width := m.width
	if width <= 0 {
		width = 80
	}
	if err := report.RenderBreakdownWithWidth(&b, m.data, m.ledger, width); err != nil {
		b.WriteString(fmt.Sprintf("failed to render breakdown: %v\n", err))
	}
	if !m.statsReady {
		m.statsView = viewport.New(maxInt(m.width, 40), maxInt(m.height-2, 10))
		m.statsReady = true
	}
	m.statsView.SetContent(b.String())
	m.statsView.GotoTop()
	m.phase = phaseStats
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	switch m.phase {
	case phaseStudy:
		m.viewStudy(&b)
	case phaseAnswer:
		m.viewAnswer(&b)
	case phaseResult:
		m.viewResult(&b)
	case phaseStats:
		b.WriteString(titleStyle.Render("Detailed Statistics"))
		b.WriteString("\n")
		b.WriteString(m.statsView.View())
		b.WriteString("\n")
		b.WriteString(footerStyle.Render("Enter/Esc to continue training"))
		return b.String()
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) viewStudy(b *strings.Builder) {
	fmt.Fprintf(b, "%s %s\n\n", titleStyle.Render("Number:"), valueStyle.Render(m.prompt.Key))
	b.WriteString(labelStyle.Render("First time seeing this number - study time!"))
	b.WriteString("\n\n")
	fmt.Fprintf(b, "%s %s\n", labelStyle.Render("Person:"), valueStyle.Render(m.prompt.Assoc.Person))
	fmt.Fprintf(b, "%s %s\n", labelStyle.Render("Action:"), valueStyle.Render(m.prompt.Assoc.Action))
	fmt.Fprintf(b, "%s %s\n", labelStyle.Render("Object:"), valueStyle.Render(m.prompt.Assoc.Object))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("Memorize the association, then press Enter to be tested"))
	b.WriteString("\n")
}

func (m *Model) viewAnswer(b *strings.Builder) {
	switch m.prompt.Mode {
	case quiz.ModeReverse:
		b.WriteString(titleStyle.Render("PAO → Number"))
		b.WriteString("\n\n")
		fmt.Fprintf(b, "%s %s\n", labelStyle.Render("Person:"), valueStyle.Render(m.prompt.Assoc.Person))
		fmt.Fprintf(b, "%s %s\n", labelStyle.Render("Action:"), valueStyle.Render(m.prompt.Assoc.Action))
		fmt.Fprintf(b, "%s %s\n", labelStyle.Render("Object:"), valueStyle.Render(m.prompt.Assoc.Object))
		b.WriteString("\n")
	case quiz.ModeSequence:
		b.WriteString(titleStyle.Render("Advanced Sequence: " + m.prompt.Seq.ID()))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("Numbers: %s + %s + %s", m.prompt.Seq.Keys[0], m.prompt.Seq.Keys[1], m.prompt.Seq.Keys[2])))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Person from 1st, Action from 2nd, Object from 3rd"))
		b.WriteString("\n\n")
	default:
		if m.prompt.Challenge {
			b.WriteString(challengeStyle.Render("Combination challenge! This number mixes components you've recently learned."))
			b.WriteString("\n")
		}
		fmt.Fprintf(b, "%s %s\n\n", titleStyle.Render("Number:"), valueStyle.Render(m.prompt.Key))
	}
	for i := range m.inputs {
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
}

func (m *Model) viewResult(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Results"))
	b.WriteString("\n\n")
	if m.prompt.Mode == quiz.ModeReverse {
		b.WriteString(markLine(m.correct, "Number", m.prompt.Key, ""))
	} else {
		person, action, object := m.prompt.Expected()
		var notes [3]string
		if m.prompt.Mode == quiz.ModeSequence {
			for i, key := range m.prompt.Seq.Keys {
				notes[i] = fmt.Sprintf(" (from %s)", key)
			}
		}
		b.WriteString(markLine(m.result.Person, "Person", person, notes[0]))
		b.WriteString(markLine(m.result.Action, "Action", action, notes[1]))
		b.WriteString(markLine(m.result.Object, "Object", object, notes[2]))
	}
	b.WriteString("\n")
	b.WriteString(m.resultMessage())
	b.WriteString("\n")
	if m.prompt.Mode != quiz.ModeSequence {
		fmt.Fprintf(b, "%s\n", labelStyle.Render(fmt.Sprintf(
			"Your accuracy for %s: %.0f%% (%d attempts)",
			m.prompt.Key, m.ledger.Accuracy(m.prompt.Key), m.ledger.Attempts(m.prompt.Key))))
	}
	fmt.Fprintf(b, "%s\n\n", labelStyle.Render("Selected for "+m.prompt.Reason.String()))
	b.WriteString(m.command.View())
	b.WriteString("\n")
}

func (m *Model) resultMessage() string {
	if m.correct {
		switch {
		case m.prompt.Mode == quiz.ModeStudy:
			return okStyle.Render("Excellent! You memorized it perfectly on first try!")
		case m.prompt.Mode == quiz.ModeSequence:
			return okStyle.Render("Excellent! You mastered the advanced combination!")
		case m.prompt.Challenge:
			return okStyle.Render("Amazing! You successfully mixed and matched components!")
		default:
			return okStyle.Render("Perfect! Correct answer!")
		}
	}
	var b strings.Builder
	switch {
	case m.prompt.Mode == quiz.ModeStudy:
		b.WriteString(missStyle.Render("Good first attempt! Study this association and try again later."))
	case m.prompt.Mode == quiz.ModeSequence:
		b.WriteString(missStyle.Render("Review the individual pairs and try combining them again."))
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("Breakdown:"))
		b.WriteString("\n")
		for i, key := range m.prompt.Seq.Keys {
			part := m.prompt.SeqParts[i]
			fmt.Fprintf(&b, "  %s: %s → %s → %s\n", key, part.Person, part.Action, part.Object)
		}
	case m.prompt.Challenge:
		b.WriteString(missStyle.Render("Combination challenge failed. Review the components you've learned."))
		b.WriteString("\n")
		b.WriteString(m.componentAnalysis())
	default:
		b.WriteString(missStyle.Render("Study this association and try again later."))
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("Review:"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s: %s → %s → %s\n",
			m.prompt.Key, m.prompt.Assoc.Person, m.prompt.Assoc.Action, m.prompt.Assoc.Object)
	}
	return b.String()
}

func (m *Model) componentAnalysis() string {
	person, action, object := m.session.RecentComponents(m.prompt.Assoc)
	var b strings.Builder
	b.WriteString(labelStyle.Render("Component analysis:"))
	b.WriteString("\n")
	if person {
		fmt.Fprintf(&b, "  Person %q - recently learned\n", m.prompt.Assoc.Person)
	}
	if action {
		fmt.Fprintf(&b, "  Action %q - recently learned\n", m.prompt.Assoc.Action)
	}
	if object {
		fmt.Fprintf(&b, "  Object %q - recently learned\n", m.prompt.Assoc.Object)
	}
	return b.String()
}

func (m *Model) renderFooter() string {
	session := m.ledger.Session()
	correct, incorrect := m.ledger.Totals()
	overall := 0.0
	if correct+incorrect > 0 {
		overall = float64(correct) / float64(correct+incorrect) * 100
	}
	segments := []string{
		fmt.Sprintf("Session %d/%d correct", session.Correct, session.Total),
		fmt.Sprintf("Overall %.1f%%", overall),
		"Ctrl+C saves and exits",
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func markLine(ok bool, label, value, note string) string {
	mark := okStyle.Render("✓")
	if !ok {
		mark = missStyle.Render("✗")
	}
	return fmt.Sprintf("  %s %s %s%s\n", mark, labelStyle.Render(label+":"), valueStyle.Render(value), labelStyle.Render(note))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
