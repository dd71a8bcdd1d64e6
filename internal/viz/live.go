package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/diffeq/internal/solve"
)

const (
	liveWidth  = 60
	liveHeight = 12
	frameRate  = 30
)

var (
	liveChartStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 2)
	statsStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2)
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model replays a dense-output solution in the terminal. The trajectory
// is resampled on a uniform grid through the solution interpolant, so
// the playback speed is independent of the adaptive step sizes the solve
// actually took.
type Model struct {
	title string
	sol   *solve.Solution

	ts      []float64
	ys      [][]float64
	head    int
	running bool
}

// NewModel resamples the solution onto frames uniform points.
func NewModel(title string, sol *solve.Solution, frames int) (Model, error) {
	if frames < 2 {
		frames = 2
	}
	if len(sol.Records) == 0 {
		return Model{}, fmt.Errorf("viz: solution has no dense output")
	}

	t0 := sol.Records[0].T0
	t1 := sol.Records[len(sol.Records)-1].T1

	ts := make([]float64, frames)
	ys := make([][]float64, frames)
	for i := 0; i < frames; i++ {
		t := t0 + (t1-t0)*float64(i)/float64(frames-1)
		y, err := sol.Interpolate(t)
		if err != nil {
			return Model{}, err
		}
		ts[i] = t
		ys[i] = y
	}

	return Model{title: title, sol: sol, ts: ts, ys: ys, running: true}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.head = 0
		case "[":
			m.head -= 5
			if m.head < 0 {
				m.head = 0
			}
			m.running = false
		case "]":
			m.head += 5
			if m.head >= len(m.ts) {
				m.head = len(m.ts) - 1
			}
			m.running = false
		}
	case TickMsg:
		if m.running && m.head < len(m.ts)-1 {
			m.head++
		}
		return m, tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m Model) View() string {
	dim := len(m.ys[0])
	charts := make([]string, 0, dim)
	for i := 0; i < dim; i++ {
		series := make([]float64, m.head+1)
		for j := 0; j <= m.head; j++ {
			series[j] = m.ys[j][i]
		}
		if len(series) < 2 {
			series = append(series, series[0])
		}
		chart := asciigraph.Plot(series,
			asciigraph.Height(liveHeight/dim),
			asciigraph.Width(liveWidth),
			asciigraph.Caption(fmt.Sprintf("y%d", i)),
		)
		charts = append(charts, liveChartStyle.Render(chart))
	}

	status := "PLAYING"
	if !m.running {
		status = "PAUSED"
	}
	if m.head == len(m.ts)-1 {
		status = "DONE"
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(status + "\n\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.4g / %.4g", m.ts[m.head], m.ts[len(m.ts)-1])) + "\n")
	s.WriteString(labelStyle.Render("State") + valueStyle.Render(formatState(m.ys[m.head])) + "\n\n")
	s.WriteString(Summary(m.sol))
	s.WriteString(helpStyle.Render("\nSP:Pause R:Restart [ ]:Scrub Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		strings.Join(charts, "\n"),
		statsStyle.Render(s.String()),
	)
}

// Run starts the replay UI and blocks until the user quits.
func Run(title string, sol *solve.Solution, frames int) error {
	m, err := NewModel(title, sol, frames)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m).Run()
	return err
}
