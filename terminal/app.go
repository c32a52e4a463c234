// Package terminal hosts the graph viewer in a tcell screen: it runs the frame clock,
// maps mouse and keyboard input onto the viewer, and draws each frame.
package terminal

import (
	"context"
	"fmt"
	"time"

	"semgraph/canvas"
	"semgraph/graph"
	"semgraph/interaction"
	"semgraph/render"
	"semgraph/validation"
	"semgraph/viewer"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
)

// Config holds terminal host settings.
type Config struct {
	CellWidth  float64 `toml:"cell_width"`  // screen pixels per cell column
	CellHeight float64 `toml:"cell_height"` // screen pixels per cell row
	FPS        int     `toml:"fps"`
	Mode       string  `toml:"mode"` // "ascii", "unicode" or "" to detect
	Background string  `toml:"background"`
	FitPadding float64 `toml:"fit_padding"`
}

// DefaultConfig returns the stock terminal settings.
func DefaultConfig() Config {
	return Config{
		CellWidth:  8,
		CellHeight: 16,
		FPS:        30,
		Background: "#10131c",
		FitPadding: 40,
	}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.CellWidth <= 0 {
		c.CellWidth = d.CellWidth
	}
	if c.CellHeight <= 0 {
		c.CellHeight = d.CellHeight
	}
	if c.FPS <= 0 {
		c.FPS = d.FPS
	}
	if _, ok := render.ParseColor(c.Background); !ok {
		c.Background = d.Background
	}
	if c.FitPadding < 0 {
		c.FitPadding = d.FitPadding
	}
	return c
}

// quitSignal is posted to stop the event loop.
type quitSignal struct{}

// App is the interactive terminal viewer.
type App struct {
	cfg    Config
	screen tcell.Screen
	canvas *canvas.Canvas
	caps   canvas.Capabilities
	viewer *viewer.Viewer
	logger *zap.Logger
	bg     colorful.Color

	tooltip  *interaction.Tooltip
	selected *graph.Node
	message  string
	search   searchInput
	button   bool
	ready    bool
}

// New creates an app drawing into screen. The screen is initialized by Init or Run.
func New(screen tcell.Screen, cfg Config, vcfg viewer.Config, logger *zap.Logger) (*App, error) {
	if screen == nil {
		return nil, canvas.ErrNilScreen
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.normalized()
	bg, _ := render.ParseColor(cfg.Background)

	a := &App{cfg: cfg, screen: screen, logger: logger, bg: bg}
	switch cfg.Mode {
	case "ascii":
		a.caps = canvas.ForceASCII()
	case "unicode":
		a.caps = canvas.ForceUnicode()
	default:
		a.caps = canvas.DetectCapabilities()
	}
	a.viewer = viewer.New(vcfg, viewer.Events{
		OnNodeSelected:            a.onSelected,
		OnTooltip:                 a.onTooltip,
		OnHighlightClusterToggled: a.onClusterToggled,
	}, logger.Named("viewer"))
	return a, nil
}

func (a *App) onSelected(n graph.Node) {
	a.selected = &n
	a.logger.Info("node selected", zap.String("node", n.ID), zap.String("label", n.Label))
}

func (a *App) onTooltip(t *interaction.Tooltip) {
	a.tooltip = t
}

func (a *App) onClusterToggled(id graph.ClusterID, active bool) {
	label := fmt.Sprintf("cluster %d", id)
	if c, ok := a.viewer.Snapshot().Cluster(id); ok && c.Label != "" {
		label = c.Label
	}
	if active {
		a.message = "highlight: " + label
	} else {
		a.message = "highlight cleared"
	}
}

// Viewer returns the underlying viewer.
func (a *App) Viewer() *viewer.Viewer { return a.viewer }

// Load replaces the displayed snapshot.
func (a *App) Load(s graph.Snapshot) []validation.Issue {
	issues := a.viewer.LoadGraph(s)
	if len(issues) > 0 {
		a.message = fmt.Sprintf("%d snapshot issues", len(issues))
	}
	return issues
}

// Init prepares the screen for drawing and input. It is idempotent.
func (a *App) Init() error {
	if a.ready {
		return nil
	}
	if err := a.screen.Init(); err != nil {
		return fmt.Errorf("initialize screen: %w", err)
	}
	a.screen.EnableMouse(tcell.MouseMotionEvents)
	a.screen.HideCursor()
	a.screen.SetStyle(a.style(colorful.Color{R: 1, G: 1, B: 1}))

	c, err := canvas.New(a.screen, a.caps)
	if err != nil {
		return err
	}
	a.canvas = c
	a.ready = true
	a.resize()
	return nil
}

func (a *App) resize() {
	w, h := a.screen.Size()
	a.viewer.Resize(float64(w)*a.cfg.CellWidth, float64(h)*a.cfg.CellHeight)
}

// post delivers fn to the event loop.
func (a *App) post(fn func()) {
	if err := a.screen.PostEvent(tcell.NewEventInterrupt(fn)); err != nil {
		a.logger.Debug("frame dropped", zap.Error(err))
	}
}

// Run drives the app until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.Init(); err != nil {
		return err
	}
	defer a.screen.Fini()

	a.viewer.Start(viewer.TickerClock{
		Interval: time.Second / time.Duration(a.cfg.FPS),
		Post:     a.post,
	})
	defer a.viewer.Stop()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = a.screen.PostEvent(tcell.NewEventInterrupt(quitSignal{}))
		case <-done:
		}
	}()

	a.Draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if a.HandleEvent(ev) {
			a.logger.Debug("viewer closed")
			return ctx.Err()
		}
		a.Draw()
	}
}
