package tui

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/afgany/rocket-clusters-dynamics/internal/analysis"
	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
	"github.com/afgany/rocket-clusters-dynamics/internal/config"
	"github.com/afgany/rocket-clusters-dynamics/internal/viz"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

var clusterInfo = map[string]string{
	"falcon_9":     "9 merlins, octaweb",
	"falcon_heavy": "27 merlins, three cores",
	"super_heavy":  "33 raptors, three rings",
	"starship":     "6 raptors, upper stage",
}

type state int

const (
	stateMenu state = iota
	stateConfig
	stateResults
)

type model struct {
	state    state
	cursor   int
	clusters []string
	selected string

	params      map[string]float64
	paramNames  []string
	paramCursor int
	editing     bool
	editBuf     string
	environment string

	report      *analysis.ClusterReport
	ringCursor  int
	showLayout  bool
	analysisErr error

	width  int
	height int
}

func NewInteractiveApp() *model {
	return &model{
		state:    stateMenu,
		clusters: config.ListClusters(),
		params: map[string]float64{
			"frequency": 0, "index": 0, "lag_ms": 0,
		},
		paramNames:  []string{"frequency", "index", "lag_ms"},
		environment: config.DefaultEnvironment,
		width:       80,
		height:      24,
	}
}

// Run starts the interactive terminal session and blocks until exit.
func Run() error {
	_, err := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen()).Run()
	return err
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateResults:
		return m.resultsKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.clusters)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.clusters[m.cursor]
		m.state = stateConfig
		m.paramCursor = 0
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			fmt.Sscanf(m.editBuf, "%f", &val)
			m.params[m.paramNames[m.paramCursor]] = val
			m.editing = false
			m.editBuf = ""
		case "escape":
			m.editing = false
			m.editBuf = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "escape":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.paramNames)-1 {
			m.paramCursor++
		}
	case "enter":
		m.editing = true
		m.editBuf = fmt.Sprintf("%.2f", m.params[m.paramNames[m.paramCursor]])
	case "e":
		m.toggleEnvironment()
	case "s", " ":
		m.start()
		m.state = stateResults
		return m, tea.ClearScreen
	case "left", "h":
		name := m.paramNames[m.paramCursor]
		m.params[name] -= paramStep(name)
		if m.params[name] < 0 {
			m.params[name] = 0
		}
	case "right", "l":
		name := m.paramNames[m.paramCursor]
		m.params[name] += paramStep(name)
	}
	return m, nil
}

func (m model) resultsKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "escape":
		m.state = stateMenu
		m.report = nil
		m.analysisErr = nil
		return m, tea.ClearScreen
	case "c":
		m.state = stateConfig
		return m, tea.ClearScreen
	case "e":
		m.toggleEnvironment()
		m.start()
	case "r":
		m.start()
	case "v":
		m.showLayout = !m.showLayout
		return m, tea.ClearScreen
	case "left", "h":
		if m.report != nil && m.ringCursor > 0 {
			m.ringCursor--
		}
	case "right", "l":
		if m.report != nil && m.ringCursor < len(m.report.Rings)-1 {
			m.ringCursor++
		}
	}
	return m, nil
}

func paramStep(name string) float64 {
	if name == "frequency" {
		return 5
	}
	return 0.1
}

func (m *model) toggleEnvironment() {
	if m.environment == "earth_sl" {
		m.environment = "lunar_vacuum"
	} else {
		m.environment = "earth_sl"
	}
}

// start runs the full cluster analysis for the selected preset. The
// closed-form pipeline finishes in microseconds, so there is no need for
// an async command.
func (m *model) start() {
	m.report = nil
	m.analysisErr = nil
	m.ringCursor = 0

	cl, err := config.ClusterByName(m.selected)
	if err != nil {
		m.analysisErr = err
		return
	}
	e, err := config.EngineByName(cl.EngineName)
	if err != nil {
		m.analysisErr = err
		return
	}
	if v := m.params["index"]; v > 0 {
		e = e.WithIndex(v)
	}
	if v := m.params["lag_ms"]; v > 0 {
		e = e.WithLag(v / 1000)
	}
	env, err := config.EnvironmentByName(m.environment)
	if err != nil {
		m.analysisErr = err
		return
	}

	a := analysis.NewAnalyzer(e, env, cluster.DefaultDamping())
	omega := analysis.ForcingFrequency(e, m.params["frequency"])
	m.report, m.analysisErr = a.AnalyzeCluster(context.Background(), cl, omega)
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateResults:
		return m.viewResults()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + cyan.Render("r c d y n") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range m.clusters {
		desc := clusterInfo[name]
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-16s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-16s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter configure   q quit") + "\n")

	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(m.selected) + "  " + dim.Render(clusterInfo[m.selected]) +
		"  " + yellow.Render(m.environment) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 34)) + "\n\n")

	for i, name := range m.paramNames {
		val := fmt.Sprintf("%8.3f", m.params[name])
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%8s", m.editBuf+"▋")
		}
		if i == m.paramCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-10s", name)) + magenta.Render(val) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-10s", name)) + dim.Render(val) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      zero keeps the preset operating point") + "\n")
	b.WriteString(dim.Render("      ↑↓ select  ←→ adjust  enter edit  e environment  s analyze  esc back") + "\n")

	return b.String()
}

func (m model) viewResults() string {
	var b strings.Builder

	if m.analysisErr != nil {
		b.WriteString("\n      " + red.Render("analysis failed") + "\n\n")
		b.WriteString("      " + dim.Render(m.analysisErr.Error()) + "\n\n")
		b.WriteString(dim.Render("      c config  esc menu") + "\n")
		return b.String()
	}
	rep := m.report
	if rep == nil {
		return "\n      " + dim.Render("no analysis yet") + "\n"
	}

	statusIcon, statusText := green.Render("●"), green.Render("stable")
	if !rep.Stable {
		statusIcon, statusText = red.Render("●"), red.Render("unstable")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s  %s  %s\n",
		statusIcon, cyan.Render(rep.Cluster), dim.Render(rep.Engine),
		yellow.Render(rep.Environment), statusText))
	b.WriteString(fmt.Sprintf("   %s %.1f Hz   %s %.4f\n\n",
		dim.Render("forcing"), rep.Omega/(2*math.Pi),
		dim.Render("min ζ"), rep.MinZeta))

	if m.showLayout {
		cl, err := config.ClusterByName(m.selected)
		if err == nil {
			canvas := viz.RingLayout(cl, min(m.width-8, 60), 14)
			for _, line := range strings.Split(canvas.String(), "\n") {
				b.WriteString("   " + dim.Render(line) + "\n")
			}
		}
	} else {
		ring := rep.Rings[m.ringCursor]
		canvas := viz.SpectrumBars([][]float64{ring.Damping.Zeta}, min(m.width-8, 60), 8)
		for _, line := range strings.Split(canvas.String(), "\n") {
			b.WriteString("   " + cyan.Render(line) + "\n")
		}
		b.WriteString("   " + dim.Render(fmt.Sprintf("ζ by mode, ring %d (%d engines); mode 0 is the breathing mode: ζ=%.4f, no coupling relief",
			ring.RingIndex, ring.Engines, ring.Damping.Zeta[0])) + "\n")
		b.WriteString("   " + dim.Render("ζ ") + cyan.Render(sparkline(ring.Damping.Zeta, 24)) + "\n")
	}
	b.WriteString("\n")

	for i, ring := range rep.Rings {
		icon := green.Render("✓")
		if !ring.Stable {
			icon = red.Render("✗")
		}
		line := fmt.Sprintf("ring %d  %2d engines  min ζ %8.4f  %s", ring.RingIndex, ring.Engines, ring.MinZeta, icon)
		if i == m.ringCursor && !m.showLayout {
			b.WriteString("   " + cyan.Render("▸ ") + white.Render(line) + "\n")
		} else {
			b.WriteString("     " + dim.Render(line) + "\n")
		}
	}

	rayleigh := dim.Render("neutral response")
	switch rep.Rings[m.ringCursor].Point.Rayleigh {
	case 1:
		rayleigh = yellow.Render("pressure-coupled driving")
	case -1:
		rayleigh = green.Render("response damping")
	}
	b.WriteString(fmt.Sprintf("\n   %s %.4f  %s\n", dim.Render("phase margin"), rep.Rings[m.ringCursor].Point.PhaseMargin, rayleigh))
	b.WriteString("   " + dimmer.Render(analysis.Disclaimer) + "\n")

	b.WriteString("\n" + dim.Render("   ←→ ring  e environment  v layout  r rerun  c config  esc menu") + "\n")

	return b.String()
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		v := data[i*step]
		idx := int((v - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}
