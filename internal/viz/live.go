package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/jakecoffman/cp"

	"github.com/san-kum/armsim/internal/interact"
	"github.com/san-kum/armsim/internal/scene"
)

const (
	defaultCols     = 100
	defaultRows     = 34
	panelWidth      = 40
	canvasPadX      = 2
	canvasPadY      = 1
	historyCapacity = 300
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives a scene at 60 Hz and forwards mouse input into it. Input is
// applied in Update, between ticks.
type Model struct {
	scene    *scene.Scene
	canvas   *Canvas
	viewport Viewport
	theme    Theme
	styles   styles

	running  bool
	showHelp bool
	pointer  cp.Vector
	hasPtr   bool
	history  []float64
	err      error
}

func NewModel(s *scene.Scene) Model {
	m := Model{scene: s, running: true, theme: Themes[0]}
	m.styles = newStyles(m.theme)
	m.resize(defaultCols, defaultRows)
	return m
}

func (m *Model) resize(cols, rows int) {
	w, h := m.scene.Bounds()
	m.canvas = NewCanvas(cols, rows)
	m.viewport = Viewport{WorldWidth: w, WorldHeight: h, Cols: cols, Rows: rows}
}

// Run opens the live view on the terminal until the user quits.
func Run(s *scene.Scene) error {
	p := tea.NewProgram(NewModel(s), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the scene.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.step()
			}
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		cols := max(20, msg.Width-panelWidth-2*canvasPadX-2)
		rows := max(10, msg.Height-2*canvasPadY)
		m.resize(cols, rows)
	case tea.MouseMsg:
		m.mouse(msg)
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.scene.Tick()
	m.history = append(m.history, m.scene.Arm().AftAngle())
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

// cell converts a terminal position to a canvas cell, reporting whether it
// falls on the canvas.
func (m *Model) cell(x, y int) (int, int, bool) {
	col, row := x-canvasPadX, y-canvasPadY
	ok := col >= 0 && row >= 0 && col < m.canvas.Width && row < m.canvas.Height
	return col, row, ok
}

func (m *Model) mouse(msg tea.MouseMsg) {
	col, row, onCanvas := m.cell(msg.X, msg.Y)
	p := m.viewport.ToWorld(col, row)

	switch msg.Action {
	case tea.MouseActionPress:
		if !onCanvas {
			return
		}
		btn := interact.Primary
		switch msg.Button {
		case tea.MouseButtonLeft:
		case tea.MouseButtonRight:
			btn = interact.Secondary
		default:
			return
		}
		if err := m.scene.Press(btn, p); err != nil {
			m.err = err
		}
	case tea.MouseActionRelease:
		// Most terminals report releases without a button.
		m.scene.Release(interact.Primary)
	case tea.MouseActionMotion:
		if m.hasPtr {
			m.scene.Move(p, p.Sub(m.pointer))
		}
	}
	m.pointer, m.hasPtr = p, true
}

// View renders the scene and the diagnostics panel, then reports how long
// that took back to the scene.
func (m Model) View() string {
	start := time.Now()

	frame := m.scene.Frame()
	Render(m.canvas, m.viewport, frame)
	canvasView := m.styles.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(m.styles.header.Render("ARMSIM") + "\n")
	switch {
	case m.err != nil:
		s.WriteString(m.styles.warn.Render(m.err.Error()) + "\n\n")
	case !m.running:
		s.WriteString(m.styles.warn.Render("PAUSED") + "\n\n")
	case m.scene.Dragging():
		s.WriteString(m.styles.status.Render("DRAGGING") + "\n\n")
	default:
		s.WriteString(m.styles.status.Render("RUNNING") + "\n\n")
	}

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("aft angle (rad)"))
		s.WriteString(m.styles.graph.Render(chart) + "\n\n")
	}

	diag := frame.Diagnostics
	s.WriteString(m.row("Time", fmt.Sprintf("%.2fs", frame.Time)))
	s.WriteString(m.row("Tick", fmt.Sprintf("%d", frame.Tick)))
	s.WriteString(m.row("Bodies", fmt.Sprintf("%d", m.scene.Live())))
	s.WriteString(m.row("Launched", fmt.Sprintf("%d", m.scene.Launched())))
	s.WriteString(m.row("Culled", fmt.Sprintf("%d", m.scene.Culled())))
	s.WriteString(m.row("Fore rel", fmt.Sprintf("%.3f rad", m.scene.Arm().ForeRelativeAngle())))
	s.WriteString(m.row("Physics", diag.ProcessingTime.Round(time.Microsecond).String()))
	s.WriteString(m.row("Draw", diag.DrawTime.Round(time.Microsecond).String()))
	s.WriteString(m.row("Theme", m.theme.Name))

	s.WriteString(m.styles.help.Render("─────────────────────\nL-drag:Move  R-click:Coin\nSP:Pause N:Step T:Theme Q:Quit"))
	view := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.panel.Render(s.String()))

	if m.showHelp {
		view = helpText + "\n" + view
	}

	m.scene.ReportDrawTime(time.Since(start))
	return view
}

func (m Model) row(label, value string) string {
	return m.styles.label.Render(label) + m.styles.value.Render(value) + "\n"
}

const helpText = `
  Left button   grab a segment and drag it
  Right button  launch a coin from the pointer
  Space         pause or resume
  N             single tick while paused
  T             cycle themes
  Q             quit`
