package currency

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Harshitk-cp/currency/internal/domain"
	"go.uber.org/zap"
)

// NodeID is a node's position in the network arena, assigned in
// registration order.
type NodeID int

// Member registers a node together with the attributes of its parents.
type Member struct {
	Node    Node
	Parents []string
}

// Options tunes an estimation run.
type Options struct {
	// SkipNullObjects drops steps without an observation from the output.
	SkipNullObjects bool
}

// NodeInfo describes one node of a network.
type NodeInfo struct {
	ID        NodeID   `json:"id"`
	Attribute string   `json:"attribute"`
	Kind      Kind     `json:"kind"`
	Parents   []string `json:"parents"`
}

type (
	Point  = domain.Point
	Series = domain.Series
)

// CurrencyKey returns the series key of attribute.
func CurrencyKey(attribute string) string {
	return attribute + "_currency"
}

// Network drives its nodes in dependency order over a time axis.
type Network struct {
	nodes   []Node
	parents [][]NodeID
	order   []NodeID
	byAttr  map[string]NodeID
	opts    Options
	logger  *zap.Logger
}

// NewNetwork registers members, resolves parents by attribute and derives a
// dependency order. Duplicate attributes are a configuration error; unknown
// parents and cycles are dependency errors.
func NewNetwork(members []Member, opts Options, logger *zap.Logger) (*Network, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &Network{
		nodes:   make([]Node, 0, len(members)),
		parents: make([][]NodeID, len(members)),
		byAttr:  make(map[string]NodeID, len(members)),
		opts:    opts,
		logger:  logger,
	}

	for _, m := range members {
		if m.Node == nil {
			return nil, fmt.Errorf("%w: nil node", ErrConfiguration)
		}
		attr := m.Node.Attribute()
		if attr == "" {
			return nil, fmt.Errorf("%w: %s node without attribute", ErrConfiguration, m.Node.Kind())
		}
		if _, dup := n.byAttr[attr]; dup {
			return nil, fmt.Errorf("%w: duplicate attribute %q", ErrConfiguration, attr)
		}
		n.byAttr[attr] = NodeID(len(n.nodes))
		n.nodes = append(n.nodes, m.Node)
	}

	for i, m := range members {
		ids, err := n.resolve(m.Node.Attribute(), m.Parents)
		if err != nil {
			return nil, err
		}
		n.parents[i] = ids
		if pc, ok := m.Node.(parentChecker); ok {
			if err := pc.checkParents(n.parentNodes(NodeID(i))); err != nil {
				return nil, err
			}
		}
	}

	order, err := n.topologicalOrder()
	if err != nil {
		return nil, err
	}
	n.order = order

	logger.Debug("network built",
		zap.Int("nodes", len(n.nodes)),
		zap.Strings("order", n.orderedAttributes()))
	return n, nil
}

// resolve maps parent attributes to ids, sorted by attribute.
func (n *Network) resolve(child string, parents []string) ([]NodeID, error) {
	names := append([]string(nil), parents...)
	sort.Strings(names)

	ids := make([]NodeID, 0, len(names))
	for i, name := range names {
		if i > 0 && names[i-1] == name {
			continue
		}
		id, ok := n.byAttr[name]
		if !ok {
			return nil, fmt.Errorf("%w: parent %q of %q is not in the network", ErrDependency, name, child)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// topologicalOrder places parentless nodes first, then sweeps the remaining
// nodes placing any whose parents are all placed. A sweep that places
// nothing means the remaining nodes sit on or behind a cycle.
func (n *Network) topologicalOrder() ([]NodeID, error) {
	placed := make([]bool, len(n.nodes))
	order := make([]NodeID, 0, len(n.nodes))

	for i := range n.nodes {
		if len(n.parents[i]) == 0 {
			placed[i] = true
			order = append(order, NodeID(i))
		}
	}

	for len(order) < len(n.nodes) {
		progress := false
		for i := range n.nodes {
			if placed[i] || !n.parentsPlaced(NodeID(i), placed) {
				continue
			}
			placed[i] = true
			order = append(order, NodeID(i))
			progress = true
		}
		if !progress {
			var stuck []string
			for i, node := range n.nodes {
				if !placed[i] {
					stuck = append(stuck, node.Attribute())
				}
			}
			return nil, fmt.Errorf("%w: cycle among %s", ErrDependency, strings.Join(stuck, ", "))
		}
	}
	return order, nil
}

func (n *Network) parentsPlaced(id NodeID, placed []bool) bool {
	for _, p := range n.parents[id] {
		if !placed[p] {
			return false
		}
	}
	return true
}

func (n *Network) parentNodes(id NodeID) []Node {
	out := make([]Node, len(n.parents[id]))
	for i, p := range n.parents[id] {
		out[i] = n.nodes[p]
	}
	return out
}

func (n *Network) orderedAttributes() []string {
	out := make([]string, len(n.order))
	for i, id := range n.order {
		out[i] = n.nodes[id].Attribute()
	}
	return out
}

// Nodes describes every node in dependency order.
func (n *Network) Nodes() []NodeInfo {
	out := make([]NodeInfo, len(n.order))
	for i, id := range n.order {
		parents := make([]string, len(n.parents[id]))
		for j, p := range n.parents[id] {
			parents[j] = n.nodes[p].Attribute()
		}
		node := n.nodes[id]
		out[i] = NodeInfo{ID: id, Attribute: node.Attribute(), Kind: node.Kind(), Parents: parents}
	}
	return out
}

// Len returns the number of nodes.
func (n *Network) Len() int {
	return len(n.nodes)
}

// Node returns the node registered for attribute.
func (n *Network) Node(attribute string) (Node, bool) {
	id, ok := n.byAttr[attribute]
	if !ok {
		return nil, false
	}
	return n.nodes[id], true
}

// Estimate runs every node over each integer time step between the smallest
// and largest time in ds and returns the currency series of every
// age-tracking node. Node state carries over between calls until Clear.
// The run stops between steps once ctx is done.
func (n *Network) Estimate(ctx context.Context, ds domain.Dataset) (Series, error) {
	for _, node := range n.nodes {
		if !ds.HasColumn(node.Attribute()) {
			return nil, fmt.Errorf("%w: %q", ErrMissingAttribute, node.Attribute())
		}
	}

	series := make(Series)
	var trackers []AgeTracker
	for _, id := range n.order {
		if t, ok := n.nodes[id].(AgeTracker); ok {
			trackers = append(trackers, t)
			series[CurrencyKey(t.Attribute())] = []Point{}
		}
	}

	minT, maxT, ok := ds.TimeRange()
	if !ok {
		n.logger.Info("estimate skipped, dataset is empty")
		return series, nil
	}

	start := time.Now()
	for t := minT; ; t++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("step %d: %w", t, err)
		}
		obs := ds.At(t)
		for _, id := range n.order {
			node := n.nodes[id]
			if err := node.UpdateState(obs); err != nil {
				return nil, fmt.Errorf("step %d: update state of %q: %w", t, node.Attribute(), err)
			}
			if err := node.UpdateBelief(n.parentNodes(id)); err != nil {
				return nil, fmt.Errorf("step %d: update belief of %q: %w", t, node.Attribute(), err)
			}
		}

		if !obs.Empty() || !n.opts.SkipNullObjects {
			for _, tr := range trackers {
				key := CurrencyKey(tr.Attribute())
				series[key] = append(series[key], Point{Time: t, Value: tr.Currency()})
			}
		}

		if ce := n.logger.Check(zap.DebugLevel, "estimate step"); ce != nil {
			fields := []zap.Field{zap.Int64("time", t), zap.Bool("observed", !obs.Empty())}
			for _, tr := range trackers {
				fields = append(fields, zap.Float64(CurrencyKey(tr.Attribute()), tr.Currency()))
			}
			ce.Write(fields...)
		}

		// t++ would wrap past math.MaxInt64
		if t == maxT {
			break
		}
	}

	n.logger.Info("estimate complete",
		zap.Int("nodes", len(n.nodes)),
		zap.Uint64("steps", domain.Span(minT, maxT)),
		zap.Duration("duration", time.Since(start)))
	return series, nil
}

// Clear resets the mutable state of every node.
func (n *Network) Clear() {
	for _, node := range n.nodes {
		node.Clear()
	}
}
