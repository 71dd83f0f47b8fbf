package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/swdrow/RowLab-sub010/internal/service"
	"github.com/swdrow/RowLab-sub010/internal/store"
)

// sportFilters cycles "" (all) then each sport tag
var sportFilters = []string{"", store.SportErg, store.SportOnWater, store.SportStrength, store.SportCardio}

// TrendsModel is the performance management chart screen
type TrendsModel struct {
	analytics *service.AnalyticsService
	rangeName string
	sportIdx  int

	pmc     *service.PMCData
	loading bool
	err     error
}

// NewTrendsModel creates a new trends model
func NewTrendsModel(analytics *service.AnalyticsService, rangeName string) TrendsModel {
	return TrendsModel{
		analytics: analytics,
		rangeName: rangeName,
		loading:   true,
	}
}

// Init initializes the trends screen
func (m TrendsModel) Init() tea.Cmd {
	return m.loadData
}

type trendsDataMsg struct {
	pmc *service.PMCData
	err error
}

func (m TrendsModel) loadData() tea.Msg {
	pmc, err := m.analytics.GetPMC(context.Background(), m.rangeName, sportFilters[m.sportIdx])
	return trendsDataMsg{pmc: pmc, err: err}
}

// Update handles messages
func (m TrendsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case trendsDataMsg:
		m.loading = false
		m.err = msg.err
		m.pmc = msg.pmc
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		case "c":
			m.rangeName = nextRange(m.rangeName)
			m.loading = true
			return m, m.loadData
		case "f":
			m.sportIdx = (m.sportIdx + 1) % len(sportFilters)
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the trends screen
func (m TrendsModel) View() string {
	if m.loading {
		return "\n  Loading trends..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.pmc == nil || len(m.pmc.Result.Points) < 3 {
		return "\n  Not enough data to chart. Press 's' to sync."
	}

	var sections []string
	sections = append(sections, m.renderChart("Fitness (CTL)", func(p int) float64 { return m.pmc.Result.Points[p].CTL }))
	sections = append(sections, m.renderChart("Form (TSB)", func(p int) float64 { return m.pmc.Result.Points[p].TSB }))
	if weekly := m.weeklyLoad(); len(weekly) > 1 {
		sections = append(sections, m.renderWeeklyChart(weekly))
	}

	sport := sportFilters[m.sportIdx]
	if sport == "" {
		sport = "all"
	}
	help := statusStyle.Render(fmt.Sprintf("Range: %s   Sport: %s   'c' cycle range, 'f' cycle sport, 'r' refresh",
		m.rangeName, sport))
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m TrendsModel) renderChart(title string, value func(i int) float64) string {
	points := m.pmc.Result.Points

	series := make([]float64, len(points))
	for i := range points {
		series[i] = value(i)
	}

	graph := asciigraph.Plot(series,
		asciigraph.Height(8),
		asciigraph.Width(64),
		asciigraph.Precision(1),
	)

	span := fmt.Sprintf("%s to %s",
		points[0].Date.Format("Jan 02"),
		points[len(points)-1].Date.Format("Jan 02"))

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render(title),
		graph,
		helpDescStyle.Render(span)))
}

// weeklyLoad sums the daily load series into calendar weeks (7-day bins
// anchored at the start of the range), oldest first.
func (m TrendsModel) weeklyLoad() []float64 {
	points := m.pmc.Result.Points
	if len(points) == 0 {
		return nil
	}

	var weekly []float64
	for i, p := range points {
		if i%7 == 0 {
			weekly = append(weekly, 0)
		}
		weekly[len(weekly)-1] += p.Load
	}
	return weekly
}

func (m TrendsModel) renderWeeklyChart(weekly []float64) string {
	graph := asciigraph.Plot(weekly,
		asciigraph.Height(6),
		asciigraph.Width(64),
		asciigraph.Precision(0),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render("Weekly Load"),
		graph))
}
