// Package highlight decides which nodes are dimmed by the cluster and search filters.
package highlight

import (
	"sort"

	"semgraph/graph"

	"github.com/samber/lo"
)

// Opacity levels.
const (
	Full       = 1.0
	DefaultDim = 0.12
)

// Config holds highlight settings.
type Config struct {
	DimOpacity float64 `toml:"dim_opacity"`
}

// DefaultConfig returns the stock highlight settings.
func DefaultConfig() Config {
	return Config{DimOpacity: DefaultDim}
}

// State holds the active highlight cluster and search result set.
// The zero value has neither filter active.
type State struct {
	dim     float64
	cluster *graph.ClusterID
	search  map[string]struct{}
}

// New returns a State using cfg.DimOpacity for dimmed nodes.
func New(cfg Config) *State {
	dim := cfg.DimOpacity
	if dim <= 0 || dim > 1 {
		dim = DefaultDim
	}
	return &State{dim: dim}
}

// Opacity returns Full for nodes that pass every active filter and the dim level
// for nodes that fail any of them.
func (s *State) Opacity(n graph.Node) float64 {
	if s.cluster != nil && n.ClusterID != *s.cluster {
		return s.dimOpacity()
	}
	if len(s.search) > 0 && !s.InSearch(n.ID) {
		return s.dimOpacity()
	}
	return Full
}

func (s *State) dimOpacity() float64 {
	if s.dim == 0 {
		return DefaultDim
	}
	return s.dim
}

// Dimmed reports whether n is drawn at the dim level.
func (s *State) Dimmed(n graph.Node) bool {
	return s.Opacity(n) != Full
}

// ToggleCluster sets the highlight cluster, or clears it when id is already highlighted.
// It returns the resulting cluster and whether one is set.
func (s *State) ToggleCluster(id graph.ClusterID) (graph.ClusterID, bool) {
	if s.cluster != nil && *s.cluster == id {
		s.cluster = nil
		return 0, false
	}
	s.cluster = &id
	return id, true
}

// ClearCluster removes the cluster filter.
func (s *State) ClearCluster() {
	s.cluster = nil
}

// Cluster returns the highlight cluster, if any.
func (s *State) Cluster() (graph.ClusterID, bool) {
	if s.cluster == nil {
		return 0, false
	}
	return *s.cluster, true
}

// SetSearchResults replaces the search result set. An empty set disables the filter.
func (s *State) SetSearchResults(ids []string) {
	if len(ids) == 0 {
		s.search = nil
		return
	}
	s.search = lo.SliceToMap(ids, func(id string) (string, struct{}) { return id, struct{}{} })
}

// ClearSearch disables the search filter.
func (s *State) ClearSearch() {
	s.search = nil
}

// InSearch reports whether id is in the search result set.
func (s *State) InSearch(id string) bool {
	_, ok := s.search[id]
	return ok
}

// SearchResults returns the search result ids in sorted order.
func (s *State) SearchResults() []string {
	ids := lo.Keys(s.search)
	sort.Strings(ids)
	return ids
}

// Active reports whether any filter is set.
func (s *State) Active() bool {
	return s.cluster != nil || len(s.search) > 0
}
