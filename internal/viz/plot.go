// Package viz renders solved trajectories in the terminal, either as a
// static component plot or as an animated replay.
package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/diffeq/internal/solve"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

// Plot renders each state component of a solution as an ASCII chart,
// stacked vertically, with a run summary underneath.
func Plot(title string, sol *solve.Solution, width, height int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(strings.ToUpper(title)) + "\n")

	if len(sol.Ys) == 0 {
		return b.String() + warnStyle.Render("no saved points") + "\n"
	}

	dim := len(sol.Ys[0])
	for i := 0; i < dim; i++ {
		series := make([]float64, len(sol.Ys))
		for j, y := range sol.Ys {
			series[j] = y[i]
		}
		chart := asciigraph.Plot(series,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(fmt.Sprintf("y%d", i)),
		)
		b.WriteString(graphStyle.Render(chart) + "\n")
	}

	b.WriteString("\n" + Summary(sol))
	return b.String()
}

// Summary formats termination status and run counters as label/value rows.
func Summary(sol *solve.Solution) string {
	var b strings.Builder

	status := valueStyle.Render(sol.Status.String())
	if sol.Status != solve.StatusCompleted && sol.Status != solve.StatusEventTerminated {
		status = warnStyle.Render(sol.Status.String())
	}
	b.WriteString(labelStyle.Render("Status") + status + "\n")

	if sol.Status == solve.StatusEventTerminated {
		b.WriteString(labelStyle.Render("Event at") + valueStyle.Render(fmt.Sprintf("t=%.6g", sol.EventT)) + "\n")
	}
	if len(sol.Ts) > 0 {
		t, y := sol.Final()
		b.WriteString(labelStyle.Render("Final time") + valueStyle.Render(fmt.Sprintf("%.6g", t)) + "\n")
		b.WriteString(labelStyle.Render("Final state") + valueStyle.Render(formatState(y)) + "\n")
	}
	b.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d (%d rejected)", sol.Stats.Steps, sol.Stats.Rejected)) + "\n")
	b.WriteString(labelStyle.Render("Evaluations") + valueStyle.Render(fmt.Sprintf("%d", sol.Stats.Evaluations)) + "\n")
	if sol.Err != nil {
		b.WriteString(labelStyle.Render("Cause") + warnStyle.Render(sol.Err.Error()) + "\n")
	}

	return b.String()
}

func formatState(y []float64) string {
	parts := make([]string, 0, len(y))
	for i, v := range y {
		if i >= 6 {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, fmt.Sprintf("%.4g", v))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
