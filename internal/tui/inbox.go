package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/triahq/tria/internal/entity"
	"github.com/triahq/tria/internal/priority"
	"github.com/triahq/tria/internal/ui"
)

// InboxAction represents a triage decision taken in the inbox TUI.
type InboxAction struct {
	Type string // "ack", "resolve", "snooze", "reopen", "delete", "quit"
	ID   string
}

// InboxModel is an interactive Bubbletea model for triaging the ranked inbox.
type InboxModel struct {
	ranked   []priority.Ranked
	cursor   int
	filter   string
	filtered []priority.Ranked
	mode     inboxMode

	// expanded holds the id of the entry whose score breakdown is open.
	expanded string

	width  int
	height int

	// pending actions to apply after quitting
	Actions []InboxAction

	quitting bool
}

type inboxMode int

const (
	inboxModeNormal inboxMode = iota
	inboxModeFilter
)

// NewInboxModel creates an InboxModel over an already-ranked inbox.
func NewInboxModel(ranked []priority.Ranked) *InboxModel {
	m := &InboxModel{
		ranked: ranked,
		width:  80,
		height: 24,
	}
	m.applyFilter()
	return m
}

// RunInbox launches the interactive inbox TUI. Returns triage actions for the
// caller to apply against the store.
func RunInbox(ranked []priority.Ranked) ([]InboxAction, error) {
	m := NewInboxModel(ranked)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	result, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("inbox tui: %w", err)
	}
	final := result.(*InboxModel)
	return final.Actions, nil
}

func (m *InboxModel) Init() tea.Cmd {
	return nil
}

func (m *InboxModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.mode == inboxModeFilter {
			return m.handleFilterKey(msg)
		}
		return m.handleNormalKey(msg)
	}
	return m, nil
}

func (m *InboxModel) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "g":
		m.cursor = 0

	case "G":
		if len(m.filtered) > 0 {
			m.cursor = len(m.filtered) - 1
		}

	case "enter", " ":
		if len(m.filtered) > 0 {
			id := m.filtered[m.cursor].Entity.ID
			if m.expanded == id {
				m.expanded = ""
			} else {
				m.expanded = id
			}
		}

	case "a":
		m.triage("ack", entity.TriageAcknowledged)

	case "x":
		m.triage("resolve", entity.TriageResolved)

	case "z":
		m.triage("snooze", entity.TriageSnoozed)

	case "o":
		m.triage("reopen", entity.TriageUnassigned)

	case "d":
		if len(m.filtered) > 0 {
			id := m.filtered[m.cursor].Entity.ID
			m.Actions = append(m.Actions, InboxAction{Type: "delete", ID: id})
			for i, rk := range m.ranked {
				if rk.Entity.ID == id {
					m.ranked = append(m.ranked[:i], m.ranked[i+1:]...)
					break
				}
			}
			m.applyFilter()
			m.clampCursor()
		}

	case "/":
		m.mode = inboxModeFilter
		m.filter = ""
		m.applyFilter()
		m.cursor = 0
	}

	return m, nil
}

// triage records an action and updates the local copy so the zone badge
// refreshes immediately.
func (m *InboxModel) triage(action string, state entity.TriageState) {
	if len(m.filtered) == 0 {
		return
	}
	id := m.filtered[m.cursor].Entity.ID
	m.Actions = append(m.Actions, InboxAction{Type: action, ID: id})
	for i, rk := range m.ranked {
		if rk.Entity.ID == id {
			m.ranked[i].Entity.TriageState = state
			m.ranked[i].Zone = priority.ZoneFor(state, rk.Score.Total)
			break
		}
	}
	m.applyFilter()
}

func (m *InboxModel) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = inboxModeNormal
		m.filter = ""
		m.applyFilter()
		m.cursor = 0

	case "enter":
		m.mode = inboxModeNormal

	case "backspace":
		if len(m.filter) > 0 {
			runes := []rune(m.filter)
			m.filter = string(runes[:len(runes)-1])
			m.applyFilter()
			m.cursor = 0
		}

	default:
		if len(msg.String()) == 1 {
			m.filter += msg.String()
			m.applyFilter()
			m.cursor = 0
		}
	}
	return m, nil
}

func (m *InboxModel) applyFilter() {
	m.filtered = nil
	q := strings.ToLower(m.filter)
	for _, rk := range m.ranked {
		if q == "" {
			m.filtered = append(m.filtered, rk)
			continue
		}
		haystack := rk.Entity.Subject + " " + rk.Entity.FromName + " " + rk.Entity.Category
		if ok, _ := FuzzyMatch(q, haystack); ok {
			m.filtered = append(m.filtered, rk)
		}
	}
}

func (m *InboxModel) clampCursor() {
	if m.cursor >= len(m.filtered) && m.cursor > 0 {
		m.cursor = len(m.filtered) - 1
	}
}

func (m *InboxModel) View() string {
	var b strings.Builder

	header := ui.Title.Render("  " + ui.IconInbox + " Inbox")
	if m.filter != "" {
		header += ui.Muted.Render(fmt.Sprintf("  filter: %q", m.filter))
	}
	b.WriteString(header + "\n\n")

	visHeight := m.height - 8 // reserve space for header, input, status bar
	if visHeight < 3 {
		visHeight = 3
	}

	offset := 0
	if m.cursor >= visHeight {
		offset = m.cursor - visHeight + 1
	}

	if len(m.filtered) == 0 {
		if m.filter != "" {
			b.WriteString("  " + ui.Muted.Render("No matches. Press esc to clear filter.") + "\n")
		} else {
			b.WriteString("  " + ui.Muted.Render("Inbox zero. Nothing to triage.") + "\n")
		}
	} else {
		end := offset + visHeight
		if end > len(m.filtered) {
			end = len(m.filtered)
		}
		for i := offset; i < end; i++ {
			rk := m.filtered[i]
			b.WriteString(m.renderEntry(rk, i == m.cursor) + "\n")
			if m.expanded == rk.Entity.ID {
				b.WriteString(ui.Breakdown(rk.Score))
			}
		}
	}

	b.WriteString("\n")

	if m.mode == inboxModeFilter {
		prompt := lipgloss.NewStyle().Foreground(ui.Ember).Bold(true).Render("/")
		b.WriteString("  " + prompt + " " + m.filter + "█\n")
	} else {
		b.WriteString("\n")
	}

	b.WriteString("\n")

	open := 0
	for _, rk := range m.ranked {
		if rk.Entity.TriageState != entity.TriageResolved {
			open++
		}
	}
	countStr := ui.Muted.Render(fmt.Sprintf("  %d/%d shown · %d open", len(m.filtered), len(m.ranked), open))
	b.WriteString(countStr + "\n")

	var help string
	if m.mode == inboxModeFilter {
		help = ui.Muted.Render("  esc clear · enter confirm")
	} else {
		help = ui.Muted.Render("  j/k move · enter breakdown · a ack · x resolve · z snooze · o reopen · d delete · / filter · q quit")
	}
	b.WriteString(help + "\n")

	return b.String()
}

func (m *InboxModel) renderEntry(rk priority.Ranked, selected bool) string {
	pointer := "  "
	subjectStyle := lipgloss.NewStyle()

	if selected {
		pointer = ui.Accent.Render(ui.IconArrow + " ")
		subjectStyle = lipgloss.NewStyle().Foreground(ui.Ember).Bold(true)
	}

	badge := ui.ZoneBadge(rk.Zone)
	score := ui.Muted.Render(fmt.Sprintf("%6.1f", rk.Score.Total))
	icon := ui.KindIcon(string(rk.Entity.Kind))

	subject := rk.Entity.Subject
	if rk.Entity.TriageState == entity.TriageResolved {
		subject = ui.Muted.Render(subject)
	} else {
		subject = subjectStyle.Render(subject)
	}

	line := fmt.Sprintf("  %s%s %s %s %s", pointer, badge, score, icon, subject)

	if rk.Entity.FromName != "" {
		line += ui.Muted.Render(" · " + rk.Entity.FromName)
	}
	if rk.Entity.Category != "" {
		line += ui.Muted.Render(" [" + rk.Entity.Category + "]")
	}

	return line
}
