// Package circuit provides the interactive circuit diagram engine: the
// node/trace/pipeline model, fractional layout, hover hit-testing, Manhattan
// trace routing and the per-frame render loop.
//
// A diagram is built once from a declarative Config. Hosts supply a Surface
// to draw on, a Scheduler that delivers frame callbacks and an optional
// InfoPanel that receives hover reports. All mutation happens on the host's
// event loop; none of the types here are safe for concurrent use.
package circuit

import (
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultNodeRadius is the visual radius of a node in pixels.
const DefaultNodeRadius = 7.0

// Node is a single skill placed on the board.
//
// Identity fields are fixed at Build time and are read-only for callers;
// Diagram.Node hands out the shared node. The pixel centre is written only
// by the layout engine, the hover flag only by the Controller and the pulse
// phase only by the Renderer.
type Node struct {
	ID          string
	Name        string
	Group       string
	GroupColor  colorful.Color
	X, Y        float64 // fractional position in [0,1]
	Description string
	Radius      float64
	Slow        bool // pulses slower and keeps a permanent outer ring

	cx, cy  float64
	hovered bool
	phase   float64
}

// Center returns the node's pixel centre from the last layout.
func (n *Node) Center() Point {
	return Point{n.cx, n.cy}
}

// Hovered reports whether the pointer is currently over this node.
func (n *Node) Hovered() bool {
	return n.hovered
}

// Phase returns the pulse accumulator in radians.
func (n *Node) Phase() float64 {
	return n.phase
}

// Edge is a directed trace between two nodes. Packets travel From -> To.
type Edge struct {
	ID       string
	From, To int
}

// Pipeline is a named, coloured subset of nodes and traces.
// A nil *Pipeline is the "no highlight" pipeline: it contains nothing.
//
// Pipelines are shared by every Circuit built on the Diagram and must not be
// modified. Edges and Nodes are a sorted view for iteration; HasEdge and
// HasNode answer membership from sets fixed at Build time.
type Pipeline struct {
	ID    string
	Label string
	Color colorful.Color
	Edges []int // sorted trace indices
	Nodes []int // sorted node indices

	edgeSet map[int]bool
	nodeSet map[int]bool
}

// HasEdge reports whether trace i belongs to the pipeline.
func (p *Pipeline) HasEdge(i int) bool {
	if p == nil {
		return false
	}
	return p.edgeSet[i]
}

// HasNode reports whether node i belongs to the pipeline.
func (p *Pipeline) HasNode(i int) bool {
	if p == nil {
		return false
	}
	return p.nodeSet[i]
}

// Era is a static, non-interactive caption drawn over one region of the board.
type Era struct {
	Title    string
	Caption  string
	X        float64 // fractional x of the title
	CaptionX float64 // fractional x of the caption
	Color    colorful.Color
}

// Diagram owns the flattened node list, the trace list and the pipelines.
// Its structure is immutable after Build.
type Diagram struct {
	Name string

	nodes     []*Node
	edges     []Edge
	pipelines []*Pipeline
	byID      map[string]*Pipeline
	nodeByID  map[string]int
	eras      []Era
	def       string
}

// NodeCount returns the number of nodes.
func (d *Diagram) NodeCount() int { return len(d.nodes) }

// Node returns node i. The node is shared; do not modify it.
func (d *Diagram) Node(i int) *Node { return d.nodes[i] }

// NodeIndex returns the index of the node with the given ID, or -1.
func (d *Diagram) NodeIndex(id string) int {
	if i, ok := d.nodeByID[id]; ok {
		return i
	}
	return -1
}

// EdgeCount returns the number of traces.
func (d *Diagram) EdgeCount() int { return len(d.edges) }

// Edge returns trace i.
func (d *Diagram) Edge(i int) Edge { return d.edges[i] }

// Pipelines returns the pipelines in configuration order.
func (d *Diagram) Pipelines() []*Pipeline {
	out := make([]*Pipeline, len(d.pipelines))
	copy(out, d.pipelines)
	return out
}

// Pipeline returns the pipeline with the given ID, or nil when unknown.
func (d *Diagram) Pipeline(id string) *Pipeline {
	return d.byID[id]
}

// DefaultPipeline returns the ID of the pipeline active on startup.
func (d *Diagram) DefaultPipeline() string { return d.def }

// Eras returns the decorative era captions.
func (d *Diagram) Eras() []Era {
	out := make([]Era, len(d.eras))
	copy(out, d.eras)
	return out
}

// Route returns the Manhattan route of trace i at the current layout.
func (d *Diagram) Route(i int) Route {
	e := d.edges[i]
	return ManhattanRoute(d.nodes[e.From].Center(), d.nodes[e.To].Center())
}
