package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/swdrow/RowLab-sub010/internal/analysis"
	"github.com/swdrow/RowLab-sub010/internal/service"
)

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	analytics *service.AnalyticsService
	rangeName string

	pmc      *service.PMCData
	insights []analysis.Insight
	streak   analysis.Streak

	loading bool
	err     error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(analytics *service.AnalyticsService, rangeName string) DashboardModel {
	return DashboardModel{
		analytics: analytics,
		rangeName: rangeName,
		loading:   true,
	}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

type dashboardDataMsg struct {
	pmc      *service.PMCData
	insights []analysis.Insight
	streak   analysis.Streak
	err      error
}

func (m DashboardModel) loadData() tea.Msg {
	ctx := context.Background()

	pmc, err := m.analytics.GetPMC(ctx, m.rangeName, "")
	if err != nil {
		return dashboardDataMsg{err: err}
	}
	streak, err := m.analytics.GetTrainingStreak(ctx)
	if err != nil {
		return dashboardDataMsg{err: err}
	}

	insights := analysis.DeriveInsights(pmc.Result, pmc.Settings)
	return dashboardDataMsg{pmc: pmc, insights: insights, streak: streak}
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.pmc = msg.pmc
		m.insights = msg.insights
		m.streak = msg.streak
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		case "c":
			m.rangeName = nextRange(m.rangeName)
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.loading {
		return "\n  Loading dashboard..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.pmc == nil || len(m.pmc.Result.Points) == 0 {
		return "\n  No training data yet. Press 's' to sync with your logbook."
	}

	var sections []string

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, m.renderLoadCard(), "  ", m.renderStreakCard())
	sections = append(sections, topRow)

	if len(m.pmc.Result.Points) > 2 {
		sections = append(sections, m.renderChart())
	}

	if len(m.insights) > 0 {
		sections = append(sections, m.renderInsights())
	}

	help := statusStyle.Render(fmt.Sprintf("Range: %s   'c' cycle range, 'r' refresh, '3' for trends", m.rangeName))
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderLoadCard() string {
	title := cardTitleStyle.Render("Training Load")
	r := m.pmc.Result

	acwr := "-"
	acwrLine := RenderMetric("ACWR", acwr)
	if r.ACWR != nil {
		acwr = fmt.Sprintf("%.2f", *r.ACWR)
		acwrLine = RenderMetric("ACWR", acwr)
		if *r.ACWR > m.pmc.Settings.ACWRAlert {
			acwrLine = lipgloss.JoinHorizontal(lipgloss.Left,
				metricLabelStyle.Render("ACWR"),
				warningStyle.Bold(true).Render(acwr+" !"))
		}
	}

	tsbLine := RenderMetric("Form (TSB)", fmt.Sprintf("%.1f", r.CurrentTSB))
	if r.CurrentTSB < m.pmc.Settings.TSBAlert {
		tsbLine = lipgloss.JoinHorizontal(lipgloss.Left,
			metricLabelStyle.Render("Form (TSB)"),
			warningStyle.Bold(true).Render(fmt.Sprintf("%.1f !", r.CurrentTSB)))
	}

	lines := []string{
		RenderMetric("Fitness (CTL)", fmt.Sprintf("%.1f", r.CurrentCTL)),
		RenderMetric("Fatigue (ATL)", fmt.Sprintf("%.1f", r.CurrentATL)),
		tsbLine,
		acwrLine,
		"",
		helpDescStyle.Render(fmt.Sprintf("%d active days in window", r.DaysWithData)),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(36).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderStreakCard() string {
	title := cardTitleStyle.Render("Streak")

	last := "-"
	if m.streak.LastActivityDate != nil {
		last = m.streak.LastActivityDate.Format("Jan 02")
	}

	lines := []string{
		RenderMetric("Current", fmt.Sprintf("%d days", m.streak.Current)),
		RenderMetric("Longest", fmt.Sprintf("%d days", m.streak.Longest)),
		RenderMetric("Last session", last),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(30).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderChart() string {
	title := cardTitleStyle.Render("Fitness (CTL) - " + m.rangeName)

	points := m.pmc.Result.Points
	series := make([]float64, len(points))
	for i, p := range points {
		series[i] = p.CTL
	}

	graph := asciigraph.Plot(series,
		asciigraph.Height(6),
		asciigraph.Width(60),
		asciigraph.Precision(1),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func (m DashboardModel) renderInsights() string {
	title := cardTitleStyle.Render("Insights")

	var lines []string
	for _, ins := range m.insights {
		switch ins.Level {
		case analysis.LevelWarning:
			lines = append(lines, warningStyle.Render("▲ ")+ins.Message)
		default:
			lines = append(lines, successStyle.Render("● ")+ins.Message)
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

// nextRange cycles through the range presets in display order
func nextRange(current string) string {
	for i, r := range service.RangeOrder {
		if r == current {
			return service.RangeOrder[(i+1)%len(service.RangeOrder)]
		}
	}
	return service.RangeOrder[0]
}
