// Package canvas draws graph primitives into a tcell screen in character cells.
//
// Coordinate system:
//   - Origin (0,0) is the top-left cell
//   - X increases rightward, Y increases downward
//   - Discs and rings take fractional cell centres and radii so that callers can
//     compensate for the cell aspect ratio
//
// Canvas is NOT safe for concurrent use; draw from the goroutine that owns the screen.
package canvas

import (
	"errors"
	"math"

	"semgraph/geometry"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// ErrNilScreen is returned when a canvas is created without a screen.
var ErrNilScreen = errors.New("canvas: screen is nil")

// Canvas wraps a tcell screen with drawing primitives.
type Canvas struct {
	screen tcell.Screen
	glyphs Glyphs
	width  int
	cond   *runewidth.Condition
}

// New creates a canvas drawing into screen using the glyphs suited to caps.
func New(screen tcell.Screen, caps Capabilities) (*Canvas, error) {
	if screen == nil {
		return nil, ErrNilScreen
	}
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = caps.IsCJK
	c := &Canvas{screen: screen, glyphs: caps.Glyphs(), cond: cond}
	c.width, _ = screen.Size()
	return c, nil
}

// Glyphs returns the glyph set in use.
func (c *Canvas) Glyphs() Glyphs { return c.glyphs }

// Size returns the screen size in cells.
func (c *Canvas) Size() (width, height int) {
	w, h := c.screen.Size()
	c.width = w
	return w, h
}

// Clear blanks every cell.
func (c *Canvas) Clear() {
	c.screen.Clear()
}

// Show flushes pending changes to the terminal.
func (c *Canvas) Show() {
	c.screen.Show()
}

// InBounds reports whether the cell lies on the screen.
func (c *Canvas) InBounds(x, y int) bool {
	w, h := c.screen.Size()
	return x >= 0 && x < w && y >= 0 && y < h
}

// Set places a rune at a cell. Out-of-bounds cells are ignored; the return value
// reports whether the cell was drawn.
func (c *Canvas) Set(x, y int, r rune, style tcell.Style) bool {
	if !c.InBounds(x, y) {
		return false
	}
	c.screen.SetContent(x, y, r, nil, style)
	return true
}

// Get returns the rune and style at a cell.
func (c *Canvas) Get(x, y int) (rune, tcell.Style) {
	r, _, style, _ := c.screen.GetContent(x, y)
	return r, style
}

// DrawLine draws a straight line of r between two cells, both end points included.
func (c *Canvas) DrawLine(x1, y1, x2, y2 int, r rune, style tcell.Style) {
	if !c.lineVisible(x1, y1, x2, y2) {
		return
	}
	for _, p := range geometry.Line(x1, y1, x2, y2) {
		c.Set(p[0], p[1], r, style)
	}
}

// lineVisible rejects segments whose bounding box misses the screen entirely.
func (c *Canvas) lineVisible(x1, y1, x2, y2 int) bool {
	w, h := c.screen.Size()
	return max(x1, x2) >= 0 && min(x1, x2) < w && max(y1, y2) >= 0 && min(y1, y2) < h
}

// DrawPolygon outlines a closed polygon, drawing every stride-th cell of each side.
func (c *Canvas) DrawPolygon(points [][2]int, stride int, r rune, style tcell.Style) {
	if len(points) < 2 {
		return
	}
	if stride < 1 {
		stride = 1
	}
	for i := range points {
		a, b := points[i], points[(i+1)%len(points)]
		if !c.lineVisible(a[0], a[1], b[0], b[1]) {
			continue
		}
		for j, p := range geometry.Line(a[0], a[1], b[0], b[1]) {
			if j%stride == 0 {
				c.Set(p[0], p[1], r, style)
			}
		}
	}
}

// FillEllipse fills every cell whose centre lies inside the ellipse centred at
// (cx, cy) with radii rx and ry, all measured in cells. The cell holding the centre is
// always drawn.
func (c *Canvas) FillEllipse(cx, cy, rx, ry float64, r rune, style tcell.Style) {
	c.Set(int(math.Floor(cx)), int(math.Floor(cy)), r, style)
	if rx <= 0 || ry <= 0 {
		return
	}
	for y := int(math.Floor(cy - ry)); y <= int(math.Ceil(cy+ry)); y++ {
		for x := int(math.Floor(cx - rx)); x <= int(math.Ceil(cx+rx)); x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			dy := (float64(y) + 0.5 - cy) / ry
			if dx*dx+dy*dy <= 1 {
				c.Set(x, y, r, style)
			}
		}
	}
}

// DrawEllipse outlines an ellipse in cell units.
func (c *Canvas) DrawEllipse(cx, cy, rx, ry float64, r rune, style tcell.Style) {
	if rx <= 0 || ry <= 0 {
		return
	}
	steps := int(math.Ceil(2 * math.Pi * math.Max(rx, ry) * 2))
	steps = max(steps, 8)
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x := int(math.Floor(cx + rx*math.Cos(a)))
		y := int(math.Floor(cy + ry*math.Sin(a)))
		c.Set(x, y, r, style)
	}
}

// DrawText writes s starting at (x, y), advancing by each rune's cell width.
// It returns the number of cells used.
func (c *Canvas) DrawText(x, y int, s string, style tcell.Style) int {
	used := 0
	for _, r := range s {
		w := c.cond.RuneWidth(r)
		if w == 0 {
			continue
		}
		c.Set(x+used, y, r, style)
		used += w
	}
	return used
}

// DrawTextCentered writes s centred on column x.
func (c *Canvas) DrawTextCentered(x, y int, s string, style tcell.Style) int {
	return c.DrawText(x-c.TextWidth(s)/2, y, s, style)
}

// TextWidth returns the display width of s in cells.
func (c *Canvas) TextWidth(s string) int {
	return c.cond.StringWidth(s)
}

// Truncate shortens s to at most width cells, marking the cut with tail.
func (c *Canvas) Truncate(s string, width int, tail string) string {
	return c.cond.Truncate(s, width, tail)
}

// FillRect fills a rectangle of cells.
func (c *Canvas) FillRect(x, y, w, h int, r rune, style tcell.Style) {
	for j := y; j < y+h; j++ {
		for i := x; i < x+w; i++ {
			c.Set(i, j, r, style)
		}
	}
}

// DrawBox draws a bordered box with a blank interior.
func (c *Canvas) DrawBox(x, y, w, h int, style tcell.Style) {
	if w < 2 || h < 2 {
		return
	}
	g := c.glyphs
	c.FillRect(x+1, y+1, w-2, h-2, ' ', style)
	for i := x + 1; i < x+w-1; i++ {
		c.Set(i, y, g.Horizontal, style)
		c.Set(i, y+h-1, g.Horizontal, style)
	}
	for j := y + 1; j < y+h-1; j++ {
		c.Set(x, j, g.Vertical, style)
		c.Set(x+w-1, j, g.Vertical, style)
	}
	c.Set(x, y, g.TopLeft, style)
	c.Set(x+w-1, y, g.TopRight, style)
	c.Set(x, y+h-1, g.BottomLeft, style)
	c.Set(x+w-1, y+h-1, g.BottomRight, style)
}
