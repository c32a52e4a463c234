// Package validation filters a raw snapshot down to the subset the engine can simulate
// and reports everything it had to drop or patch.
package validation

import (
	"fmt"
	"math"

	"semgraph/graph"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Kind classifies a sanitizing issue.
type Kind int

const (
	DuplicateNode     Kind = iota // node id seen before; later copy dropped
	DuplicateCluster              // cluster id seen before; later copy dropped
	DanglingEdge                  // edge endpoint does not exist
	SelfLoop                      // edge from a node to itself
	InvalidWeight                 // weight NaN or <= 0, edge dropped
	ClampedWeight                 // weight > 1, clamped to 1
	UnresolvedCluster             // node cluster missing; kept with fallback colour
	InvalidSize                   // size NaN, infinite or negative; default radius used
)

// String returns the kind name for display.
func (k Kind) String() string {
	switch k {
	case DuplicateNode:
		return "duplicate-node"
	case DuplicateCluster:
		return "duplicate-cluster"
	case DanglingEdge:
		return "dangling-edge"
	case SelfLoop:
		return "self-loop"
	case InvalidWeight:
		return "invalid-weight"
	case ClampedWeight:
		return "clamped-weight"
	case UnresolvedCluster:
		return "unresolved-cluster"
	case InvalidSize:
		return "invalid-size"
	default:
		return "unknown"
	}
}

// Dropped reports whether issues of this kind remove the element from the snapshot.
func (k Kind) Dropped() bool {
	switch k {
	case DuplicateNode, DuplicateCluster, DanglingEdge, SelfLoop, InvalidWeight:
		return true
	default:
		return false
	}
}

// Issue describes one problem found in a snapshot.
type Issue struct {
	Kind    Kind
	Subject string // node id, cluster id or "source->target"
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s: %s", i.Kind, i.Subject, i.Message)
}

// Validator sanitizes snapshots.
type Validator struct {
	logger *zap.Logger
}

// New creates a validator. A nil logger discards output.
func New(logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{logger: logger}
}

// Sanitize returns a copy of s in which every retained edge references existing nodes,
// plus the list of issues found. It never fails; an empty snapshot stays empty.
func (v *Validator) Sanitize(s graph.Snapshot) (graph.Snapshot, []Issue) {
	var issues []Issue
	report := func(i Issue) {
		issues = append(issues, i)
		if i.Kind.Dropped() {
			v.logger.Warn("snapshot element dropped",
				zap.String("kind", i.Kind.String()),
				zap.String("subject", i.Subject),
				zap.String("reason", i.Message))
		} else {
			v.logger.Debug("snapshot element patched",
				zap.String("kind", i.Kind.String()),
				zap.String("subject", i.Subject),
				zap.String("reason", i.Message))
		}
	}

	out := graph.Snapshot{
		Nodes:    make([]graph.Node, 0, len(s.Nodes)),
		Edges:    make([]graph.Edge, 0, len(s.Edges)),
		Clusters: make([]graph.Cluster, 0, len(s.Clusters)),
	}

	clusterIDs := make(map[graph.ClusterID]bool, len(s.Clusters))
	for _, c := range s.Clusters {
		if clusterIDs[c.ID] {
			report(Issue{DuplicateCluster, fmt.Sprint(c.ID), "cluster id already defined"})
			continue
		}
		clusterIDs[c.ID] = true
		out.Clusters = append(out.Clusters, c)
	}

	nodeIDs := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if nodeIDs[n.ID] {
			report(Issue{DuplicateNode, n.ID, "node id already defined"})
			continue
		}
		nodeIDs[n.ID] = true
		if !clusterIDs[n.ClusterID] {
			report(Issue{UnresolvedCluster, n.ID, fmt.Sprintf("cluster %d not found", n.ClusterID)})
		}
		if math.IsNaN(n.SizeKB) || math.IsInf(n.SizeKB, 0) || n.SizeKB < 0 {
			report(Issue{InvalidSize, n.ID, fmt.Sprintf("size %v is not a usable size", n.SizeKB)})
		}
		out.Nodes = append(out.Nodes, n)
	}

	for _, e := range s.Edges {
		subject := e.Source + "->" + e.Target
		switch {
		case !nodeIDs[e.Source]:
			report(Issue{DanglingEdge, subject, fmt.Sprintf("source %q not found", e.Source)})
			continue
		case !nodeIDs[e.Target]:
			report(Issue{DanglingEdge, subject, fmt.Sprintf("target %q not found", e.Target)})
			continue
		case e.Source == e.Target:
			report(Issue{SelfLoop, subject, "edge connects a node to itself"})
			continue
		case math.IsNaN(e.Weight) || e.Weight <= 0:
			report(Issue{InvalidWeight, subject, fmt.Sprintf("weight %v outside (0, 1]", e.Weight)})
			continue
		case e.Weight > 1:
			report(Issue{ClampedWeight, subject, fmt.Sprintf("weight %v clamped to 1", e.Weight)})
			e.Weight = 1
		}
		out.Edges = append(out.Edges, e)
	}

	out.Index()
	return out, issues
}

// Sanitize runs a validator without logging.
func Sanitize(s graph.Snapshot) (graph.Snapshot, []Issue) {
	return New(nil).Sanitize(s)
}

// Count tallies issues by kind.
func Count(issues []Issue) map[Kind]int {
	return lo.CountValuesBy(issues, func(i Issue) Kind { return i.Kind })
}
