package export

import (
	"fmt"
	"io"
	"math"

	"semgraph/render"

	svg "github.com/ajstarks/svgo"
	"gonum.org/v1/gonum/spatial/r2"
)

// SVGExporter draws frames as SVG images.
type SVGExporter struct {
	Margin     float64 // world units of space around the frame bounds
	Background string  // fill colour of the backdrop, "" for transparent
	FontSize   int
}

// NewSVGExporter creates an SVG exporter with the stock margin and dark backdrop.
func NewSVGExporter() *SVGExporter {
	return &SVGExporter{Margin: 40, Background: "#10131c", FontSize: 11}
}

const (
	haloFillOpacity   = 0.12
	haloStrokeOpacity = 0.5
	labelColor        = "#e6e8ee"
	edgeStroke        = "#9aa3bf"
	ringStroke        = "#ffd54d"
)

// Export writes f as a standalone SVG document translated so the frame bounds sit
// inside the margin.
func (e *SVGExporter) Export(f render.Frame, w io.Writer) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)

	margin := math.Max(e.Margin, 0)
	b := f.Bounds()
	var origin r2.Vec
	width, height := 2*margin, 2*margin
	if !b.IsEmpty() {
		origin = b.Min
		width += b.Width()
		height += b.Height()
	}
	at := func(p r2.Vec) (int, int) {
		return int(math.Round(p.X - origin.X + margin)), int(math.Round(p.Y - origin.Y + margin))
	}

	canvas.Start(int(math.Ceil(width)), int(math.Ceil(height)))
	canvas.Title(fmt.Sprintf("%d nodes, %d edges", len(f.Nodes), len(f.Edges)))
	if c, ok := render.ParseColor(e.Background); ok {
		canvas.Rect(0, 0, int(math.Ceil(width)), int(math.Ceil(height)), "fill:"+c.Hex())
	}

	canvas.Gid("halos")
	for _, h := range f.Halos {
		xs, ys := make([]int, len(h.Points)), make([]int, len(h.Points))
		for i, p := range h.Points {
			xs[i], ys[i] = at(p)
		}
		canvas.Polygon(xs, ys, fmt.Sprintf("fill:%s;fill-opacity:%.2f;stroke:%s;stroke-opacity:%.2f;stroke-dasharray:4 4",
			h.Fill.Hex(), haloFillOpacity, h.Fill.Hex(), haloStrokeOpacity))
	}
	canvas.Gend()

	canvas.Gid("edges")
	for _, ed := range f.Edges {
		x1, y1 := at(r2.Vec{X: ed.X1, Y: ed.Y1})
		x2, y2 := at(r2.Vec{X: ed.X2, Y: ed.Y2})
		canvas.Line(x1, y1, x2, y2, fmt.Sprintf("stroke:%s;stroke-width:%.2f;stroke-opacity:%.2f",
			edgeStroke, ed.Width, ed.Opacity))
	}
	canvas.Gend()

	nodeOpacity := f.NodeOpacity
	if nodeOpacity <= 0 {
		nodeOpacity = 1
	}
	canvas.Gid("nodes")
	for _, n := range f.Nodes {
		x, y := at(n.Position())
		if n.Ring > 0 {
			canvas.Circle(x, y, int(math.Round(n.Ring)), "fill:none;stroke:"+ringStroke+";stroke-width:2")
		}
		canvas.Circle(x, y, int(math.Round(n.Radius)), fmt.Sprintf("fill:%s;fill-opacity:%.2f", n.Color.Hex(), n.Opacity*nodeOpacity))
	}
	canvas.Gend()

	canvas.Gid("labels")
	for _, n := range f.Nodes {
		x, y := at(n.Position())
		canvas.Text(x, y+int(math.Round(n.Radius))+e.FontSize+2, n.Label,
			fmt.Sprintf("fill:%s;fill-opacity:%.2f;font-size:%dpx;font-family:system-ui,sans-serif;text-anchor:middle",
				labelColor, n.Opacity, e.FontSize))
	}
	canvas.Gend()
	canvas.End()

	if ew.err != nil {
		return fmt.Errorf("write svg: %w", ew.err)
	}
	return nil
}

// Extension returns the file extension for SVG.
func (e *SVGExporter) Extension() string {
	return ".svg"
}

// Name returns the format name.
func (e *SVGExporter) Name() string {
	return "SVG"
}
