package graph

import "fmt"

// Builder collects nodes before compilation.
type Builder struct {
	nodes map[NodeID]Node
	entry NodeID
}

func NewBuilder() *Builder {
	return &Builder{nodes: make(map[NodeID]Node)}
}

// AddNode registers a node. Duplicate IDs are a compile error.
func (b *Builder) AddNode(node Node) *Builder {
	id := node.ID()
	if _, exists := b.nodes[id]; exists {
		b.nodes[id] = nil // flagged in Compile
		return b
	}
	b.nodes[id] = node
	return b
}

// SetEntry declares the node the traversal starts at.
func (b *Builder) SetEntry(id NodeID) *Builder {
	b.entry = id
	return b
}

// Compile validates the graph and returns an immutable Graph. Compilation
// is idempotent: compiling the same builder twice yields graphs with the
// same node set, entry, and edges. A node referencing an undefined
// successor fails here, at startup, not at first request.
func (b *Builder) Compile() (*Graph, error) {
	if b.entry == "" {
		return nil, fmt.Errorf("graph compile: no entry node declared")
	}
	if _, ok := b.nodes[b.entry]; !ok {
		return nil, fmt.Errorf("graph compile: entry node %q not defined", b.entry)
	}

	for id, node := range b.nodes {
		if node == nil {
			return nil, fmt.Errorf("graph compile: node %q defined twice", id)
		}
		for _, successor := range node.Successors() {
			if successor == NodeEnd {
				continue
			}
			if _, ok := b.nodes[successor]; !ok {
				return nil, fmt.Errorf("graph compile: node %q references undefined successor %q", id, successor)
			}
		}
	}

	// Copy so later builder mutations cannot touch the compiled graph.
	nodes := make(map[NodeID]Node, len(b.nodes))
	for id, node := range b.nodes {
		nodes[id] = node
	}

	return &Graph{nodes: nodes, entry: b.entry}, nil
}

// Graph is the compiled workflow. It holds no per-request data, so one
// instance is shared read-only across all concurrent requests.
type Graph struct {
	nodes map[NodeID]Node
	entry NodeID
}

// Entry returns the traversal's starting node ID.
func (g *Graph) Entry() NodeID {
	return g.entry
}

// Node looks up a node by ID.
func (g *Graph) Node(id NodeID) (Node, bool) {
	node, ok := g.nodes[id]
	return node, ok
}

// NodeIDs returns the IDs of all compiled nodes.
func (g *Graph) NodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	return ids
}
