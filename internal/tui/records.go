package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/swdrow/RowLab-sub010/internal/analysis"
	"github.com/swdrow/RowLab-sub010/internal/service"
	"github.com/swdrow/RowLab-sub010/internal/store"
)

// machineLabels maps machine tags to display names
var machineLabels = map[store.MachineType]string{
	store.MachineRower:   "RowErg",
	store.MachineSkiErg:  "SkiErg",
	store.MachineBikeErg: "BikeErg",
}

// RecordsModel is the personal records screen model
type RecordsModel struct {
	analytics *service.AnalyticsService
	ledger    map[store.MachineType][]analysis.RecordEntry
	viewport  viewport.Model
	loading   bool
	err       error
	width     int
	height    int
	ready     bool
}

// NewRecordsModel creates a new records model
func NewRecordsModel(analytics *service.AnalyticsService, width, height int) RecordsModel {
	m := RecordsModel{
		analytics: analytics,
		loading:   true,
		width:     width,
		height:    height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6)
		m.ready = true
	}

	return m
}

// Init initializes the records screen
func (m RecordsModel) Init() tea.Cmd {
	return m.loadRecords
}

type recordsLoadedMsg struct {
	ledger map[store.MachineType][]analysis.RecordEntry
	err    error
}

func (m RecordsModel) loadRecords() tea.Msg {
	ledger, err := m.analytics.GetPersonalRecords(context.Background())
	return recordsLoadedMsg{ledger: ledger, err: err}
}

// Update handles messages
func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.ledger = msg.ledger
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.ledger != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadRecords
		}
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the records screen
func (m RecordsModel) View() string {
	if m.loading {
		return "\n  Loading personal records..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("  j/k or arrows: scroll  r: refresh")

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m RecordsModel) renderContent() string {
	if len(m.ledger) == 0 {
		return "\n  No personal records yet. Run a sync to analyze your workouts."
	}

	var sections []string
	sections = append(sections, "")
	sections = append(sections, cardTitleStyle.Render("Personal Records"))

	for _, machine := range store.Machines {
		entries := m.ledger[machine]
		if len(entries) == 0 {
			continue
		}
		sections = append(sections, m.renderMachine(machine, entries))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m RecordsModel) renderMachine(machine store.MachineType, entries []analysis.RecordEntry) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionHeader(machineLabels[machine]))
	lines = append(lines, tableHeaderStyle.Render(fmt.Sprintf("%-6s  %10s  %9s  %7s  %10s  %s",
		"Dist", "Best", "Pace/500m", "Watts", "Date", "Notes")))

	for _, e := range entries {
		lines = append(lines, tableRowStyle.Render(m.formatEntry(e)))
		if e.BestSplit != nil {
			lines = append(lines, tableRowStyle.Render(m.formatBestSplit(e)))
		}
	}

	return strings.Join(lines, "\n")
}

func (m RecordsModel) formatEntry(e analysis.RecordEntry) string {
	if e.Best == nil {
		// Split-only entry: the benchmark exists only inside longer workouts
		return fmt.Sprintf("%-6s  %10s  %9s  %7s  %10s  %s",
			e.Label, "-", "-", "-", "-", "no standalone attempt")
	}

	watts := "-"
	if e.EstPower != nil {
		watts = fmt.Sprintf("%.0f", *e.EstPower)
	}

	notes := ""
	if e.Improvement != nil && *e.Improvement > 0 {
		notes = successStyle.Render(fmt.Sprintf("-%s vs previous", service.FormatDuration(*e.Improvement)))
	}

	return fmt.Sprintf("%-6s  %10s  %9s  %7s  %10s  %s",
		e.Label,
		service.FormatDuration(e.Best.TimeSec),
		service.FormatPace500(e.Best.TimeSec, e.Meters),
		watts,
		e.Best.Date.Format("2006-01-02"),
		notes,
	)
}

func (m RecordsModel) formatBestSplit(e analysis.RecordEntry) string {
	bs := e.BestSplit
	watts := "-"
	if bs.EstPower != nil {
		watts = fmt.Sprintf("%.0f", *bs.EstPower)
	}
	return helpDescStyle.Render(fmt.Sprintf("%-6s  %10s  %9s  %7s  %10s  within workout %d (splits %d-%d)",
		"  ↳",
		service.FormatDuration(bs.TimeSec),
		service.FormatPace500(bs.TimeSec, e.Meters),
		watts,
		bs.Date.Format("2006-01-02"),
		bs.WorkoutID, bs.StartIndex, bs.EndIndex,
	))
}

func sectionHeader(title string) string {
	titleLen := len([]rune(title))
	dividerLen := 64 - titleLen - 4
	if dividerLen < 0 {
		dividerLen = 0
	}
	divider := strings.Repeat("─", dividerLen)
	return lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render(fmt.Sprintf("── %s %s", title, divider))
}
