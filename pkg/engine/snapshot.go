package engine

import (
	"github.com/tomhans2/poc-palantir/pkg/graph"
	"github.com/tomhans2/poc-palantir/pkg/types"
)

// Snapshot is the deep copy of every node's attribute map taken at load
// time, keyed by node id. Edges and edge attributes are not snapshotted.
type Snapshot struct {
	nodeAttrs map[string]map[string]interface{}
}

// CaptureSnapshot deep-copies the attribute map of every node in the graph
func CaptureSnapshot(g *graph.Graph) *Snapshot {
	s := &Snapshot{nodeAttrs: make(map[string]map[string]interface{}, g.NodeCount())}
	for _, id := range g.Nodes() {
		s.nodeAttrs[id] = types.DeepCopyMap(g.NodeAttrs(id))
	}
	return s
}

// Restore clears each snapshotted node's live attribute map and
// repopulates it from a deep copy of the snapshot. Nodes absent from the
// snapshot are left untouched; the snapshot itself survives the restore
// so Reset can be called repeatedly.
func (s *Snapshot) Restore(g *graph.Graph) {
	if s == nil {
		return
	}
	for id, attrs := range s.nodeAttrs {
		g.ReplaceNodeAttrs(id, attrs)
	}
}

// NodeAttrs returns the snapshotted attribute map for a node, or nil.
// The returned map is a deep copy; mutating it cannot corrupt the snapshot.
func (s *Snapshot) NodeAttrs(id string) map[string]interface{} {
	attrs, ok := s.nodeAttrs[id]
	if !ok {
		return nil
	}
	return types.DeepCopyMap(attrs)
}

// Len returns the number of snapshotted nodes
func (s *Snapshot) Len() int {
	return len(s.nodeAttrs)
}
