package terminal

import (
	"fmt"
	"math"
	"strings"

	"semgraph/interaction"
	"semgraph/render"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	white     = colorful.Color{R: 1, G: 1, B: 1}
	edgeColor = colorful.Color{R: 0.6, G: 0.64, B: 0.75}
	ringColor = colorful.Color{R: 1, G: 0.84, B: 0.3}
	dimText   = colorful.Color{R: 0.55, G: 0.58, B: 0.66}
)

// haloOpacity is how strongly halo outlines show against the background.
const haloOpacity = 0.45

func (a *App) style(fg colorful.Color) tcell.Style {
	st := tcell.StyleDefault
	if !a.caps.SupportsColor {
		return st
	}
	r, g, b := fg.Clamped().RGB255()
	br, bgc, bb := a.bg.RGB255()
	return st.
		Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b))).
		Background(tcell.NewRGBColor(int32(br), int32(bgc), int32(bb)))
}

// cell maps a world point to fractional cell coordinates.
func (a *App) cell(p r2.Vec) (float64, float64) {
	s := a.viewer.Viewport().Apply(p)
	return s.X / a.cfg.CellWidth, s.Y / a.cfg.CellHeight
}

func (a *App) cellInt(p r2.Vec) [2]int {
	x, y := a.cell(p)
	return [2]int{int(math.Floor(x)), int(math.Floor(y))}
}

// Draw renders the current frame, the tooltip and the status line.
func (a *App) Draw() {
	if !a.ready {
		return
	}
	c := a.canvas
	c.Clear()
	w, h := c.Size()
	c.FillRect(0, 0, w, h, ' ', a.style(white))

	frame := a.viewer.Current()
	g := c.Glyphs()
	k := a.viewer.Viewport().Scale()

	for _, halo := range frame.Halos {
		pts := make([][2]int, len(halo.Points))
		for i, p := range halo.Points {
			pts[i] = a.cellInt(p)
		}
		c.DrawPolygon(pts, 2, g.Halo, a.style(render.Fade(halo.Fill, a.bg, haloOpacity)))
	}

	for _, e := range frame.Edges {
		p1 := a.cellInt(r2.Vec{X: e.X1, Y: e.Y1})
		p2 := a.cellInt(r2.Vec{X: e.X2, Y: e.Y2})
		c.DrawLine(p1[0], p1[1], p2[0], p2[1], g.Edge, a.style(render.Fade(edgeColor, a.bg, e.Opacity*2)))
	}

	for _, n := range frame.Nodes {
		if n.Ring == 0 {
			continue
		}
		cx, cy := a.cell(n.Position())
		c.DrawEllipse(cx, cy, n.Ring*k/a.cfg.CellWidth, n.Ring*k/a.cfg.CellHeight, g.Ring, a.style(ringColor))
	}

	for _, n := range frame.Nodes {
		cx, cy := a.cell(n.Position())
		rx, ry := n.Radius*k/a.cfg.CellWidth, n.Radius*k/a.cfg.CellHeight
		glyph := g.Node
		if n.Pinned {
			glyph = g.Pinned
		}
		st := a.style(render.Fade(n.Color, a.bg, n.Opacity*frame.NodeOpacity))
		if n.Hovered {
			st = st.Bold(true)
		}
		c.FillEllipse(cx, cy, rx, ry, glyph, st)

		label := n.Label
		if n.Hovered {
			label = n.FullLabel
		}
		c.DrawTextCentered(int(math.Floor(cx)), int(math.Floor(cy+ry))+1, label, a.style(render.Fade(white, a.bg, n.Opacity)))
	}

	if a.tooltip != nil {
		a.drawTooltip(a.tooltip)
	}
	a.drawStatus(frame)
	c.Show()
}

// tooltipLines formats the hover card.
func tooltipLines(t *interaction.Tooltip) []string {
	lines := []string{t.Label}
	if t.ClusterLabel != "" {
		lines = append(lines, "cluster: "+t.ClusterLabel)
	}
	if len(t.Keywords) > 0 {
		lines = append(lines, "keywords: "+strings.Join(t.Keywords, ", "))
	}
	lines = append(lines, fmt.Sprintf("size: %.1f KB", t.SizeKB))
	if !t.Modified.IsZero() {
		lines = append(lines, "modified: "+t.Modified.Format("2006-01-02 15:04"))
	}
	return lines
}

func (a *App) drawTooltip(t *interaction.Tooltip) {
	c := a.canvas
	sw, sh := c.Size()
	maxInner := max(sw/2, 16)

	var lines []string
	for _, l := range tooltipLines(t) {
		if c.TextWidth(l) > maxInner {
			l = c.Truncate(l, maxInner, "…")
		}
		lines = append(lines, l)
	}
	inner := 0
	for _, l := range lines {
		inner = max(inner, c.TextWidth(l))
	}
	bw, bh := inner+2, len(lines)+2

	x := int(math.Floor(t.Position.X / a.cfg.CellWidth))
	y := int(math.Floor(t.Position.Y/a.cfg.CellHeight)) - bh + 1
	x = min(max(x, 0), max(sw-bw, 0))
	y = min(max(y, 0), max(sh-1-bh, 0))

	border := a.style(dimText)
	if col, ok := render.ParseColor(t.ClusterColor); ok {
		border = a.style(col)
	}
	c.DrawBox(x, y, bw, bh, border)
	for i, l := range lines {
		st := a.style(white)
		if i > 0 {
			st = a.style(dimText)
		}
		c.DrawText(x+1, y+1+i, l, st)
	}
}

func (a *App) statusText(frame render.Frame) string {
	if a.search.active {
		return "/" + string(a.search.query)
	}
	e := a.viewer.Engine()
	alpha, sep := "α", " · "
	if !a.caps.Unicode {
		alpha, sep = "alpha", " | "
	}
	parts := []string{
		fmt.Sprintf("%s %.3f", alpha, e.Alpha()),
		fmt.Sprintf("tick %d", e.Ticks()),
		fmt.Sprintf("%d nodes", len(frame.Nodes)),
		fmt.Sprintf("%d edges", len(frame.Edges)),
		fmt.Sprintf("zoom %.2f", a.viewer.Viewport().Scale()),
	}
	if id, ok := a.viewer.Highlight().Cluster(); ok {
		label := fmt.Sprintf("%d", id)
		if cl, ok := a.viewer.Snapshot().Cluster(id); ok {
			label = cl.Label
		}
		parts = append(parts, "cluster: "+label)
	}
	if a.search.last != "" {
		parts = append(parts, fmt.Sprintf("search: %s (%d)", a.search.last, len(a.viewer.Highlight().SearchResults())))
	}
	if a.selected != nil {
		parts = append(parts, "selected: "+a.selected.Label)
	}
	if a.message != "" {
		parts = append(parts, a.message)
	}
	return strings.Join(parts, sep)
}

func (a *App) drawStatus(frame render.Frame) {
	c := a.canvas
	w, h := c.Size()
	if h == 0 {
		return
	}
	text := c.Truncate(a.statusText(frame), w, "…")
	st := a.style(dimText).Reverse(true)
	c.FillRect(0, h-1, w, 1, ' ', st)
	c.DrawText(0, h-1, text, st)
}
