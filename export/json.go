package export

import (
	"encoding/json"
	"fmt"
	"io"

	"semgraph/render"
)

// JSONExporter exports frames to JSON.
type JSONExporter struct {
	Indent string
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{Indent: "  "}
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type nodeRecord struct {
	ID           string  `json:"id"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Radius       float64 `json:"radius"`
	Color        string  `json:"color"`
	Opacity      float64 `json:"opacity"`
	Label        string  `json:"label"`
	FullLabel    string  `json:"full_label,omitempty"`
	ClusterLabel string  `json:"cluster_label,omitempty"`
	SearchHit    bool    `json:"search_hit,omitempty"`
	Pinned       bool    `json:"pinned,omitempty"`
}

type edgeRecord struct {
	Source  string  `json:"source"`
	Target  string  `json:"target"`
	X1      float64 `json:"x1"`
	Y1      float64 `json:"y1"`
	X2      float64 `json:"x2"`
	Y2      float64 `json:"y2"`
	Weight  float64 `json:"weight"`
	Width   float64 `json:"width"`
	Opacity float64 `json:"opacity"`
}

type haloRecord struct {
	ClusterID int     `json:"cluster_id"`
	Color     string  `json:"color"`
	Points    []point `json:"points"`
}

type document struct {
	Nodes []nodeRecord `json:"nodes"`
	Edges []edgeRecord `json:"edges"`
	Halos []haloRecord `json:"halos"`
}

func newDocument(f render.Frame) document {
	doc := document{
		Nodes: make([]nodeRecord, 0, len(f.Nodes)),
		Edges: make([]edgeRecord, 0, len(f.Edges)),
		Halos: make([]haloRecord, 0, len(f.Halos)),
	}
	for _, n := range f.Nodes {
		full := n.FullLabel
		if full == n.Label {
			full = ""
		}
		doc.Nodes = append(doc.Nodes, nodeRecord{
			ID:           n.ID,
			X:            n.X,
			Y:            n.Y,
			Radius:       n.Radius,
			Color:        n.Color.Hex(),
			Opacity:      n.Opacity,
			Label:        n.Label,
			FullLabel:    full,
			ClusterLabel: n.ClusterLabel,
			SearchHit:    n.SearchHit,
			Pinned:       n.Pinned,
		})
	}
	for _, e := range f.Edges {
		doc.Edges = append(doc.Edges, edgeRecord{
			Source: e.Source, Target: e.Target,
			X1: e.X1, Y1: e.Y1, X2: e.X2, Y2: e.Y2,
			Weight: e.Weight, Width: e.Width, Opacity: e.Opacity,
		})
	}
	for _, h := range f.Halos {
		pts := make([]point, len(h.Points))
		for i, p := range h.Points {
			pts[i] = point{X: p.X, Y: p.Y}
		}
		doc.Halos = append(doc.Halos, haloRecord{ClusterID: int(h.ClusterID), Color: h.Fill.Hex(), Points: pts})
	}
	return doc
}

// Export writes f as a JSON document.
func (e *JSONExporter) Export(f render.Frame, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", e.Indent)
	if err := enc.Encode(newDocument(f)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// Extension returns the file extension for JSON.
func (e *JSONExporter) Extension() string {
	return ".json"
}

// Name returns the format name.
func (e *JSONExporter) Name() string {
	return "JSON"
}
