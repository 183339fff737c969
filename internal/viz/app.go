package viz

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/brownsim/internal/config"
	"github.com/san-kum/brownsim/internal/dynamo"
	"github.com/san-kum/brownsim/internal/physics"
	"github.com/san-kum/brownsim/internal/sim"
)

// distanceKey is the App-local parameter holding the calculator distance.
const distanceKey = "distance_um"

var appParams = append(append([]string{}, physics.ParamKeys...), distanceKey)

type TickMsg time.Time

// App is the Bubble Tea model for the interactive simulator. The controller
// must have been built with the App's Scene and Charts as its renderer and
// charter.
type App struct {
	ctrl   *sim.Controller
	scene  *Scene
	charts *Charts

	fps        int
	distanceUm float64
	running    bool
	selected   int
	chart      dynamo.ChartID
	showHelp   bool
	status     string
}

func NewApp(ctrl *sim.Controller, scene *Scene, charts *Charts, fps int, distanceUm float64) *App {
	if fps <= 0 || fps > config.MaxFPS {
		fps = config.DefaultFPS
	}
	return &App{
		ctrl:       ctrl,
		scene:      scene,
		charts:     charts,
		fps:        fps,
		distanceUm: distanceUm,
		running:    true,
		chart:      dynamo.ChartMSD,
	}
}

func (a *App) Running() bool               { return a.running }
func (a *App) Chart() dynamo.ChartID       { return a.chart }
func (a *App) Selected() string            { return appParams[a.selected] }
func (a *App) Status() string              { return a.status }
func (a *App) Controller() *sim.Controller { return a.ctrl }

func (a *App) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(a.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (a *App) Init() tea.Cmd {
	a.ctrl.Init()
	return a.tick()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	case TickMsg:
		if a.running {
			a.ctrl.Tick()
		}
		return a, a.tick()
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case " ":
		a.running = !a.running
	case "tab":
		a.selected = (a.selected + 1) % len(appParams)
	case "up", "k":
		a.adjust(1.05)
	case "down", "j":
		a.adjust(0.95)
	case "a":
		d := a.ctrl.ApplyPhysics()
		a.status = "D = " + physics.FormatD(d) + " m²/s"
	case "c":
		a.calculate()
	case "1":
		a.chart = dynamo.ChartMSD
	case "2":
		a.chart = dynamo.ChartDiffusionTime
	case "3":
		a.chart = dynamo.ChartComparison
	case "r":
		a.report(a.ctrl.SetN(a.ctrl.Params().N))
	case "t":
		NextTheme()
		a.status = "theme: " + CurrentTheme.Name
	case "?":
		a.showHelp = !a.showHelp
	case "+", "=":
		a.scene.Camera.ZoomIn()
		a.scene.Redraw()
	case "-", "_":
		a.scene.Camera.ZoomOut()
		a.scene.Redraw()
	case "x":
		a.scene.Camera.RotateX(0.1)
		a.scene.Redraw()
	case "y":
		a.scene.Camera.RotateY(0.1)
		a.scene.Redraw()
	case "z":
		a.scene.Camera.RotateZ(0.1)
		a.scene.Redraw()
	}
	return nil
}

// adjust scales the selected parameter. N always moves by at least one.
func (a *App) adjust(factor float64) {
	name := appParams[a.selected]
	if name == distanceKey {
		a.distanceUm *= factor
		a.status = fmt.Sprintf("distance = %.2f µm", a.distanceUm)
		return
	}

	p := a.ctrl.Params()
	value := p.GetParams()[name]
	next := value * factor
	if name == "N" {
		n := int(math.Round(next))
		switch {
		case factor > 1 && n <= p.N:
			n = p.N + 1
		case factor < 1 && n >= p.N:
			n = p.N - 1
		}
		next = float64(n)
	}
	if a.report(a.ctrl.SetParam(name, next)) {
		p = a.ctrl.Params()
		a.status = name + " = " + physics.FormatParam(name, p.GetParams()[name])
	}
}

func (a *App) calculate() {
	calc, ok := a.ctrl.Calculate(a.distanceUm)
	if !ok {
		a.status = "invalid distance"
		return
	}
	a.status = fmt.Sprintf("diffusion %s, transport %s",
		physics.FormatDiffusionTime(calc.DiffusionTime), physics.FormatTransportTime(calc.TransportTime))
}

// report shows a rejected input in the status line; it returns true on success.
func (a *App) report(err error) bool {
	if err == nil {
		return true
	}
	var pe *dynamo.ParamError
	if errors.As(err, &pe) {
		a.status = fmt.Sprintf("%s rejected: %g", pe.Name, pe.Value)
	} else {
		a.status = err.Error()
	}
	return false
}

func (a *App) View() string {
	left := canvasStyle.Render(a.scene.String())
	right := statsStyle.Render(a.stats())
	top := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	view := lipgloss.JoinVertical(lipgloss.Left, top, graphStyle.Render(a.charts.View(a.chart)))
	if a.showHelp {
		view = lipgloss.JoinVertical(lipgloss.Left, view, helpStyle.Render(helpText))
	}
	return view
}

func (a *App) stats() string {
	var b strings.Builder
	status := statusRunning.Render("● RUNNING")
	if !a.running {
		status = statusPaused.Render("❚❚ PAUSED")
	}
	b.WriteString(headerStyle.Render("BROWNIAN MOTION") + "  " + status + "\n")

	p := a.ctrl.Params()
	values := p.GetParams()
	for i, name := range appParams {
		var v string
		if name == distanceKey {
			v = fmt.Sprintf("%.2f", a.distanceUm)
		} else {
			v = physics.FormatParam(name, values[name])
		}
		row := labelStyle.Render(name) + valueStyle.Render(v)
		if i == a.selected {
			row = activeParamStyle.Render("▸ ") + row
		} else {
			row = "  " + row
		}
		b.WriteString(row + "\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("step") + valueStyle.Render(fmt.Sprintf("%d", a.ctrl.Steps())) + "\n")
	b.WriteString(labelStyle.Render("time") + valueStyle.Render(fmt.Sprintf("%.2f s", a.ctrl.Time())) + "\n")
	b.WriteString(labelStyle.Render("visible") + valueStyle.Render(fmt.Sprintf("%d/%d", a.scene.Visible(), a.scene.LiveObjects())) + "\n")

	series := a.ctrl.Series()
	if n := series.Len(); n > 0 {
		b.WriteString(labelStyle.Render("MSD") + valueStyle.Render(fmt.Sprintf("%.3e m²", series.MSD[n-1])) + "\n")
		b.WriteString(sparkStyle.Render(Sparkline(series.MSD, 30)) + "\n")
	}
	if fit, err := a.ctrl.Fit(); err == nil {
		b.WriteString(labelStyle.Render("fitted D") + valueStyle.Render(physics.FormatD(fit.EstimatedD)) + "\n")
	}
	if calc, ok := a.ctrl.LastCalculation(); ok {
		b.WriteString(resultStyle.Render(fmt.Sprintf("%.2f µm: %s / %s", calc.DistanceUm,
			physics.FormatDiffusionTime(calc.DiffusionTime), physics.FormatTransportTime(calc.TransportTime))) + "\n")
	}
	if a.status != "" {
		b.WriteString("\n" + resultStyle.Render(a.status) + "\n")
	}
	b.WriteString(helpStyle.Render("? help  q quit"))
	return b.String()
}

const helpText = `space pause  tab select  ↑/k ↓/j adjust ±5%  a derive D  c calculate
1 2 3 charts  r reset  t theme  +/- zoom  x y z rotate  q quit`

// Run starts the App in the alternate screen and blocks until it exits.
func Run(app *App) error {
	_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}
