package terminal

import (
	"fmt"
	"strings"

	"semgraph/viewer"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r2"
)

// searchInput is the state of the "/" prompt.
type searchInput struct {
	active bool
	query  []rune
	last   string
}

// HandleEvent applies one tcell event. It returns true when the app should quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventInterrupt:
		switch data := ev.Data().(type) {
		case quitSignal:
			return true
		case func():
			if data != nil {
				data()
			}
		}
	case *tcell.EventResize:
		a.screen.Sync()
		a.resize()
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventKey:
		if a.search.active {
			a.handleSearchKey(ev)
			return false
		}
		return a.handleKey(ev)
	}
	return false
}

// pixel maps a cell to the screen-space pixel at its centre.
func (a *App) pixel(x, y int) r2.Vec {
	return r2.Vec{
		X: (float64(x) + 0.5) * a.cfg.CellWidth,
		Y: (float64(y) + 0.5) * a.cfg.CellHeight,
	}
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	p := a.pixel(x, y)
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		a.viewer.Wheel(p.X, p.Y, 1)
		return
	case buttons&tcell.WheelDown != 0:
		a.viewer.Wheel(p.X, p.Y, -1)
		return
	}

	down := buttons&tcell.Button1 != 0
	switch {
	case down && !a.button:
		a.viewer.PointerMove(p.X, p.Y)
		a.viewer.PointerPress(p.X, p.Y)
	case !down && a.button:
		a.viewer.PointerRelease(p.X, p.Y)
	default:
		a.viewer.PointerMove(p.X, p.Y)
	}
	a.button = down
}

func (a *App) centre() r2.Vec {
	w, h := a.viewer.Size()
	return r2.Vec{X: w / 2, Y: h / 2}
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	vp := a.viewer.Viewport()
	step := vp.Config().PanStep

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyEscape:
		a.viewer.ClearSearch()
		a.search.last = ""
		a.selected = nil
		a.message = ""
		return false
	case tcell.KeyLeft:
		vp.Pan(step, 0)
		return false
	case tcell.KeyRight:
		vp.Pan(-step, 0)
		return false
	case tcell.KeyUp:
		vp.Pan(0, step)
		return false
	case tcell.KeyDown:
		vp.Pan(0, -step)
		return false
	case tcell.KeyRune:
	default:
		return false
	}

	switch r := ev.Rune(); r {
	case 'q':
		return true
	case 'h':
		vp.Pan(step, 0)
	case 'l':
		vp.Pan(-step, 0)
	case 'k':
		vp.Pan(0, step)
	case 'j':
		vp.Pan(0, -step)
	case '+', '=':
		vp.ZoomIn(a.centre())
	case '-', '_':
		vp.ZoomOut(a.centre())
	case '0':
		a.viewer.Recenter()
	case 'f':
		a.viewer.Fit(a.cfg.FitPadding)
	case 'r':
		a.viewer.Reheat()
		a.message = "reheated"
	case '/':
		a.search.active = true
		a.search.query = a.search.query[:0]
	default:
		if r >= '1' && r <= '9' {
			if c, ok := a.viewer.ClusterAt(int(r - '1')); ok {
				a.viewer.ToggleHighlightCluster(c.ID)
			}
		}
	}
	return false
}

func (a *App) handleSearchKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		a.search.active = false
		q := strings.TrimSpace(string(a.search.query))
		if q == "" {
			a.viewer.ClearSearch()
			a.search.last = ""
			return
		}
		ids := viewer.Search(a.viewer.Snapshot(), q)
		a.search.last = q
		a.viewer.SetSearchResults(ids)
		a.message = fmt.Sprintf("%d matches", len(ids))
		if len(ids) == 0 {
			// empty results leave the filter off
			a.message = "no matches"
		}
	case tcell.KeyEscape:
		a.search.active = false
		a.search.query = a.search.query[:0]
		a.search.last = ""
		a.viewer.ClearSearch()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(a.search.query); n > 0 {
			a.search.query = a.search.query[:n-1]
		}
	case tcell.KeyRune:
		a.search.query = append(a.search.query, ev.Rune())
	}
}
