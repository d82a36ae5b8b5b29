package circuit

import "log/slog"

// DefaultHoverSlack is added to a node's radius when hit-testing.
const DefaultHoverSlack = 12.0

// NoHoverSlack in Options.HoverSlack hit-tests against the bare node radius.
const NoHoverSlack = -1.0

// NoNode is the hovered index when nothing is hovered.
const NoNode = -1

// Controller owns the interaction state of a diagram: which pipeline is
// active and which of its nodes the pointer is over.
type Controller struct {
	d      *Diagram
	panel  InfoPanel
	slack  float64
	hooks  Hooks
	logger *slog.Logger

	activeID string
	active   *Pipeline
	hovered  int
}

// NewController creates a controller with no active pipeline and no hover.
// It takes over the diagram's hover flags. A nil panel discards hover
// reports.
func NewController(d *Diagram, panel InfoPanel, slack float64) *Controller {
	if panel == nil {
		panel = nopPanel{}
	}
	for _, n := range d.nodes {
		n.hovered = false
	}
	return &Controller{
		d:       d,
		panel:   panel,
		slack:   slack,
		logger:  slog.New(slog.DiscardHandler),
		hovered: NoNode,
	}
}

// Slack returns the distance added to a node's radius when hit-testing.
func (c *Controller) Slack() float64 { return c.slack }

// ActivePipeline returns the active pipeline ID as last set, which may be
// unknown to the diagram.
func (c *Controller) ActivePipeline() string { return c.activeID }

// Active returns the active pipeline, or nil in the no-highlight state.
func (c *Controller) Active() *Pipeline { return c.active }

// HoveredIndex returns the hovered node index or NoNode.
func (c *Controller) HoveredIndex() int { return c.hovered }

// Hovered returns the hovered node or nil.
func (c *Controller) Hovered() *Node {
	if c.hovered == NoNode {
		return nil
	}
	return c.d.nodes[c.hovered]
}

// SetActivePipeline swaps the active pipeline. An unknown id selects the
// no-highlight state. A hovered node outside the new pipeline is released
// in the same call. Reports whether id names a pipeline.
func (c *Controller) SetActivePipeline(id string) bool {
	prev := c.activeID
	c.activeID = id
	c.active = c.d.byID[id]
	known := c.active != nil

	if c.hovered != NoNode && !c.active.HasNode(c.hovered) {
		c.setHover(NoNode)
	}

	c.logger.Debug("pipeline selected", "from", prev, "to", id, "known", known)
	if c.hooks.PipelineChanged != nil && prev != id {
		c.hooks.PipelineChanged(prev, id, known)
	}
	return known
}

// HitTest returns the first node, in node order, of the active pipeline
// whose centre lies strictly within radius+slack of p, or NoNode.
// Nodes outside the active pipeline are never hit.
func (c *Controller) HitTest(p Point) int {
	if c.active == nil {
		return NoNode
	}
	for i, n := range c.d.nodes {
		if !c.active.HasNode(i) {
			continue
		}
		if n.Center().Dist(p) < n.Radius+c.slack {
			return i
		}
	}
	return NoNode
}

// UpdateHover re-evaluates the hovered node for pointer position p and
// returns the new hovered index.
func (c *Controller) UpdateHover(p Point) int {
	c.setHover(c.HitTest(p))
	return c.hovered
}

// PointerLeave clears the hover state.
func (c *Controller) PointerLeave() {
	c.setHover(NoNode)
}

// setHover moves the hover flag from the current node to next. The old
// node is cleared before the new one is set, so at most one node is ever
// flagged, and the panel sees the exit before the enter.
func (c *Controller) setHover(next int) {
	if next == c.hovered {
		return
	}
	prev := c.hovered
	var prevNode, nextNode *Node
	if prev != NoNode {
		prevNode = c.d.nodes[prev]
		prevNode.hovered = false
	}
	if next != NoNode {
		nextNode = c.d.nodes[next]
		nextNode.hovered = true
	}
	c.hovered = next

	if prevNode != nil {
		c.panel.HoverExit()
	}
	if nextNode != nil {
		c.panel.HoverEnter(nextNode.Name, nextNode.Description)
	}

	if nextNode != nil {
		c.logger.Debug("hover", "node", nextNode.ID)
	} else {
		c.logger.Debug("hover cleared", "node", prevNode.ID)
	}
	if c.hooks.HoverChanged != nil {
		c.hooks.HoverChanged(prevNode, nextNode)
	}
}
