// Package tui renders a live run dashboard: energy/momentum history and
// neighbor/ghost counts updated every tick, scoped down from the
// teacher's internal/viz/live.go phase-space renderer (itself a full
// 2D/3D particle-trail GUI) to the handful of scalar streams an SPH run
// actually needs watching (spec.md §6, §8's conservation invariants).
// GIF recording, 3D camera control, and per-model canvas drawing are
// all teacher GUI surface with no SPH analog and are not carried over.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gosph/internal/diagnostics"
	"github.com/san-kum/gosph/internal/engine"
)

const historyCapacity = 300

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// TickMsg drives one engine step per frame, the same shape as the
// teacher's viz.TickMsg.
type TickMsg time.Time

// Model is the bubbletea model for a run's live dashboard. It owns the
// engine and steps it on every tick; Ctrl+C/q quits, space pauses.
type Model struct {
	eng     *engine.Engine
	running bool
	err     error

	energyHistory   []float64
	momentumHistory []float64
	neighborMean    []float64

	lastReport engine.StepReport
}

// NewModel wraps eng for interactive display.
func NewModel(eng *engine.Engine) Model {
	return Model{
		eng:             eng,
		running:         true,
		energyHistory:   make([]float64, 0, historyCapacity),
		momentumHistory: make([]float64, 0, historyCapacity),
		neighborMean:    make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		}
	case TickMsg:
		if m.running && m.err == nil && !m.eng.Done() {
			report, err := m.eng.Step(context.Background())
			if err != nil {
				m.err = err
			} else {
				m.lastReport = report
				m.pushHistory(report)
			}
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) pushHistory(report engine.StepReport) {
	rec := m.eng.LastEnergy()
	m.energyHistory = append(m.energyHistory, rec.Total)
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
	m.momentumHistory = append(m.momentumHistory, m.eng.MomentumDriftMax())
	if len(m.momentumHistory) > historyCapacity {
		m.momentumHistory = m.momentumHistory[1:]
	}
	m.neighborMean = append(m.neighborMean, report.NeighborStats.Mean)
	if len(m.neighborMean) > historyCapacity {
		m.neighborMean = m.neighborMean[1:]
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("gosph — live run") + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if m.err != nil {
		status = "ERROR: " + m.err.Error()
	}

	b.WriteString(labelStyle.Render("status") + valueStyle.Render(status) + "\n")
	b.WriteString(labelStyle.Render("time") + valueStyle.Render(fmt.Sprintf("%.6g", m.eng.Time())) + "\n")
	b.WriteString(labelStyle.Render("step") + valueStyle.Render(fmt.Sprintf("%d", m.eng.StepCount())) + "\n")
	b.WriteString(labelStyle.Render("ghosts") + valueStyle.Render(fmt.Sprintf("%d", m.lastReport.GhostCount)) + "\n")
	b.WriteString(labelStyle.Render("neighbor mean") + valueStyle.Render(fmt.Sprintf("%.2f ± %.2f", m.lastReport.NeighborStats.Mean, m.lastReport.NeighborStats.StdDev)) + "\n")
	b.WriteString(labelStyle.Render("momentum drift") + valueStyle.Render(fmt.Sprintf("%.3e", m.eng.MomentumDriftMax())) + "\n")

	diag := m.eng.Diagnostics()
	if n := diag.Count(diagnostics.Warn); n > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d warnings logged this run", n)) + "\n")
	}

	if len(m.energyHistory) > 1 {
		graph := asciigraph.Plot(m.energyHistory, asciigraph.Height(8), asciigraph.Width(70), asciigraph.Caption("total energy"))
		b.WriteString(graphStyle.Render(graph) + "\n")
	}
	if len(m.neighborMean) > 1 {
		graph := asciigraph.Plot(m.neighborMean, asciigraph.Height(6), asciigraph.Width(70), asciigraph.Caption("mean neighbor count"))
		b.WriteString(graphStyle.Render(graph) + "\n")
	}

	b.WriteString(helpStyle.Render("space: pause/resume  q: quit"))
	return b.String()
}
