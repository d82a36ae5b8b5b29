package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newTestController(t *testing.T, cfg Config, w, h float64) (*Controller, *Diagram, *recordPanel) {
	t.Helper()
	d := mustBuild(t, cfg)
	d.Layout(w, h)
	panel := &recordPanel{}
	c := NewController(d, panel, DefaultHoverSlack)
	c.SetActivePipeline(d.DefaultPipeline())
	return c, d, panel
}

func hoveredCount(d *Diagram) int {
	n := 0
	for i := 0; i < d.NodeCount(); i++ {
		if d.Node(i).Hovered() {
			n++
		}
	}
	return n
}

func TestHoverEnterAndExit(t *testing.T) {
	c, d, panel := newTestController(t, threeNodeConfig(), 200, 200)

	assert.Equal(t, 1, c.UpdateHover(Point{105, 98}))
	assert.True(t, d.Node(1).Hovered())
	assert.Equal(t, []string{"enter:B"}, panel.events)

	// Still on the same node: no new reports.
	c.UpdateHover(Point{100, 100})
	assert.Equal(t, []string{"enter:B"}, panel.events)

	assert.Equal(t, NoNode, c.UpdateHover(Point{150, 20}))
	assert.False(t, d.Node(1).Hovered())
	assert.Equal(t, []string{"enter:B", "exit"}, panel.events)
}

func TestHoverSlackBoundary(t *testing.T) {
	c, _, _ := newTestController(t, threeNodeConfig(), 200, 200)
	reach := DefaultNodeRadius + DefaultHoverSlack

	assert.Equal(t, 1, c.HitTest(Point{100 + reach - 0.01, 100}))
	// The test is strict: exactly radius+slack away is outside.
	assert.Equal(t, NoNode, c.HitTest(Point{100 + reach, 100}))
}

func TestHoverMovesBetweenNodes(t *testing.T) {
	cfg := threeNodeConfig()
	c, d, panel := newTestController(t, cfg, 100, 100)
	// Nodes at (0,0), (50,50), (100,100).

	c.UpdateHover(Point{2, 2})
	panel.reset()
	c.UpdateHover(Point{49, 51})

	assert.Equal(t, []string{"exit", "enter:B"}, panel.events, "exit must precede enter")
	assert.Equal(t, 1, hoveredCount(d))
	assert.Equal(t, "b", c.Hovered().ID)
}

func TestNodeOutsidePipelineNeverHovers(t *testing.T) {
	c, d, panel := newTestController(t, threeNodeConfig(), 200, 200)
	require.True(t, c.SetActivePipeline("ends"))

	// Node 1 sits exactly under the pointer but is not in {0,2}.
	assert.Equal(t, NoNode, c.UpdateHover(d.Node(1).Center()))
	assert.Empty(t, panel.events)
	assert.False(t, d.Node(1).Hovered())
}

func TestPipelineSwitchReleasesHover(t *testing.T) {
	c, d, panel := newTestController(t, threeNodeConfig(), 200, 200)
	c.UpdateHover(d.Node(1).Center())
	panel.reset()

	c.SetActivePipeline("ends")

	assert.Equal(t, []string{"exit"}, panel.events)
	assert.Equal(t, NoNode, c.HoveredIndex())
	assert.Zero(t, hoveredCount(d))
}

func TestPipelineSwitchKeepsMemberHover(t *testing.T) {
	c, d, panel := newTestController(t, threeNodeConfig(), 200, 200)
	c.UpdateHover(d.Node(0).Center())
	panel.reset()

	c.SetActivePipeline("ends")

	assert.Empty(t, panel.events)
	assert.Equal(t, 0, c.HoveredIndex())
}

func TestUnknownPipelineHighlightsNothing(t *testing.T) {
	c, d, panel := newTestController(t, threeNodeConfig(), 200, 200)
	c.UpdateHover(d.Node(2).Center())
	panel.reset()

	assert.False(t, c.SetActivePipeline("nope"))
	assert.Nil(t, c.Active())
	assert.Equal(t, "nope", c.ActivePipeline())
	assert.Equal(t, []string{"exit"}, panel.events)
	assert.Equal(t, NoNode, c.UpdateHover(d.Node(2).Center()))
}

func TestPointerLeaveClearsHover(t *testing.T) {
	c, d, panel := newTestController(t, threeNodeConfig(), 200, 200)
	c.UpdateHover(d.Node(0).Center())
	c.PointerLeave()
	c.PointerLeave()

	assert.Equal(t, []string{"enter:A", "exit"}, panel.events)
	assert.Nil(t, c.Hovered())
}

func TestOverlapResolvesToFirstNode(t *testing.T) {
	cfg := Config{
		Groups: []GroupConfig{{Label: "G", Color: "#ffaa00", Nodes: []NodeConfig{
			{ID: "far", Name: "Far", X: 0.9, Y: 0.9},
			{ID: "left", Name: "Left", X: 0.5, Y: 0.5},
			{ID: "right", Name: "Right", X: 0.55, Y: 0.5},
		}}},
		Pipelines: []PipelineConfig{{ID: "p", Color: "#ffaa00", Nodes: []Ref{At(0), At(1), At(2)}}},
	}
	c, _, _ := newTestController(t, cfg, 200, 200)
	// left at (100,100), right at (110,100): both within reach of (108,100),
	// and right is the closer one.
	assert.Equal(t, 1, c.UpdateHover(Point{108, 100}))
}

func TestHoverHooks(t *testing.T) {
	c, d, _ := newTestController(t, threeNodeConfig(), 200, 200)
	var log []string
	c.hooks.HoverChanged = func(prev, next *Node) {
		from, to := "-", "-"
		if prev != nil {
			from = prev.ID
		}
		if next != nil {
			to = next.ID
		}
		log = append(log, from+">"+to)
	}
	c.hooks.PipelineChanged = func(from, to string, known bool) {
		log = append(log, "pipe:"+from+">"+to)
	}

	c.UpdateHover(d.Node(1).Center())
	c.SetActivePipeline("ends")

	assert.Equal(t, []string{"->b", "b>-", "pipe:all>ends"}, log)
}

// Pointers farther than radius+slack from every active node never hover,
// and a pointer within reach always hovers the first node in range.
func TestHoverMatchesBruteForce(t *testing.T) {
	c, d, panel := newTestController(t, threeNodeConfig(), 300, 300)

	rapid.Check(t, func(rt *rapid.T) {
		pipe := rapid.SampledFrom([]string{"all", "ends", "none"}).Draw(rt, "pipeline")
		c.SetActivePipeline(pipe)
		p := Point{rapid.Float64Range(-20, 320).Draw(rt, "x"), rapid.Float64Range(-20, 320).Draw(rt, "y")}

		want := NoNode
		for i := 0; i < d.NodeCount(); i++ {
			n := d.Node(i)
			if c.Active().HasNode(i) && n.Center().Dist(p) < n.Radius+DefaultHoverSlack {
				want = i
				break
			}
		}

		panel.reset()
		prev := c.HoveredIndex()
		got := c.UpdateHover(p)
		if got != want {
			rt.Fatalf("hover at %s on %q = %d, want %d", ptString(p), pipe, got, want)
		}
		if hoveredCount(d) > 1 {
			rt.Fatalf("%d nodes flagged hovered", hoveredCount(d))
		}
		if prev != got && prev != NoNode && (len(panel.events) == 0 || panel.events[0] != "exit") {
			rt.Fatalf("expected exit first, got %v", panel.events)
		}
	})
}
