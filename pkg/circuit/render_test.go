package circuit

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacketT(t *testing.T) {
	tests := []struct {
		edge    int
		elapsed float64
		want    float64
	}{
		{0, 0, 0},
		{1, 0, 0.37},
		{3, 0, 0.11}, // 1.11 mod 1
		{0, 1, 0.55},
		{0, 2, 0.10},
		{1, 1, 0.92},
	}
	for _, tt := range tests {
		if got := PacketT(tt.edge, tt.elapsed); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("PacketT(%d, %.1f) = %.4f, want %.4f", tt.edge, tt.elapsed, got, tt.want)
		}
	}
}

func TestPacketsDesynchronise(t *testing.T) {
	seen := map[float64]bool{}
	for i := 0; i < 5; i++ {
		seen[math.Round(PacketT(i, 3.2)*1e6)] = true
	}
	assert.Len(t, seen, 5)
}

func TestFrameDrawsPacketsOnActiveEdges(t *testing.T) {
	c, surf, _, _ := newTestCircuit(t, threeNodeConfig(), 200, 200)

	stats := c.Step(at(0))
	assert.Equal(t, 2, stats.Edges)
	assert.Equal(t, 2, stats.Packets)
	assert.Equal(t, 3, stats.Nodes)
	assert.Equal(t, 1, surf.clears)
	assert.Equal(t, []string{"A", "B", "C"}, surf.texts)
}

func TestFrameWithEmptyPipelineDrawsNoPackets(t *testing.T) {
	c, _, _, _ := newTestCircuit(t, threeNodeConfig(), 200, 200)
	require.True(t, c.SetActivePipeline("ends"))

	var stats FrameStats
	require.NotPanics(t, func() { stats = c.Step(at(1.5)) })
	assert.Equal(t, 0, stats.Packets)
	assert.Equal(t, 2, stats.Edges)
}

func TestFrameSkipsZeroLengthPacket(t *testing.T) {
	cfg := threeNodeConfig()
	cfg.Groups[0].Nodes[1].X, cfg.Groups[0].Nodes[1].Y = 0, 0 // b on top of a
	c, _, _, _ := newTestCircuit(t, cfg, 200, 200)

	stats := c.Step(at(0.25))
	assert.Equal(t, 1, stats.Packets, "a->b has no length and gets no packet")
}

func TestPacketPlacement(t *testing.T) {
	c, surf, _, _ := newTestCircuit(t, threeNodeConfig(), 200, 200)
	c.Renderer().SetGrid(false)

	// Edge 1 runs (100,100) -> (200,200) with runs of 50, 100 and 50.
	// At elapsed 0 its stagger of 0.37 puts the packet 74px along, 24px
	// into the vertical run.
	c.Step(at(0))
	assert.True(t, hasArcNear(surf.arcs, Point{150, 124}), "arcs: %v", surf.arcs)

	// One second later t = 0.92: 184px along, 34px into the last run.
	c.Step(at(1))
	assert.True(t, hasArcNear(surf.arcs, Point{184, 200}), "arcs: %v", surf.arcs)
}

func hasArcNear(arcs []Point, p Point) bool {
	for _, a := range arcs {
		if a.Dist(p) < 1e-6 {
			return true
		}
	}
	return false
}

func TestTiers(t *testing.T) {
	c, _, _, _ := newTestCircuit(t, threeNodeConfig(), 200, 200)
	r := c.Renderer()

	assert.Equal(t, TierActive, r.EdgeTier(0))
	assert.Equal(t, TierActive, r.NodeTier(1))

	c.PointerMove(100, 100) // hover b
	assert.Equal(t, TierHovered, r.NodeTier(1))
	assert.Equal(t, TierHovered, r.EdgeTier(0))
	assert.Equal(t, TierHovered, r.EdgeTier(1))

	c.SetActivePipeline("ends")
	assert.Equal(t, TierBaseline, r.EdgeTier(0))
	assert.Equal(t, TierBaseline, r.NodeTier(1))
	assert.Equal(t, TierActive, r.NodeTier(0))
}

func TestHoveredNodeLabelStyle(t *testing.T) {
	c, surf, _, _ := newTestCircuit(t, threeNodeConfig(), 200, 200)
	c.PointerMove(200, 200) // hover c, drawn last
	c.Step(at(0))

	// The label of the hovered node is painted in the on-node colour.
	assert.Equal(t, rgba(DefaultPalette().LabelOnNode, 1), surf.fill)
}

func TestBaselineLabelsAreDimmer(t *testing.T) {
	c, surf, _, _ := newTestCircuit(t, threeNodeConfig(), 200, 200)
	c.SetActivePipeline("ends")
	c.Step(at(0))
	// Node c is last and in "ends": bright label.
	assert.Equal(t, uint8(math.Round(0.95*255)), surf.fill.(color.NRGBA).A)

	c.SetActivePipeline("nope")
	c.Step(at(0))
	assert.Equal(t, uint8(math.Round(0.6*255)), surf.fill.(color.NRGBA).A)
}

func TestPhaseAdvancesEachFrame(t *testing.T) {
	c, _, _, _ := newTestCircuit(t, threeNodeConfig(), 200, 200)
	n := c.Diagram().Node(0)
	before := n.Phase()

	c.Step(at(0))
	c.Step(at(0.016))

	assert.InDelta(t, before+2*PulseStep, n.Phase(), 1e-12)
}

func TestSlowNodePulsesSlower(t *testing.T) {
	cfg := threeNodeConfig()
	cfg.Groups[0].Nodes[2].Slow = true
	c, _, _, _ := newTestCircuit(t, cfg, 200, 200)
	slow := c.Diagram().Node(2)
	before := slow.Phase()

	c.Step(at(0))
	assert.InDelta(t, before+PulseStep+SlowPulseExtra, slow.Phase(), 1e-12)
}

func TestSeededPhasesRepeat(t *testing.T) {
	a := NewRenderer(mustBuild(t, threeNodeConfig()), nil, DefaultPalette(), epoch, 7)
	b := NewRenderer(mustBuild(t, threeNodeConfig()), nil, DefaultPalette(), epoch, 7)
	for i := 0; i < 3; i++ {
		assert.Equal(t, a.d.Node(i).Phase(), b.d.Node(i).Phase())
	}
}

func TestRenderDoesNotTouchStructure(t *testing.T) {
	c, _, _, _ := newTestCircuit(t, threeNodeConfig(), 200, 200)
	d := c.Diagram()
	edges := []Edge{d.Edge(0), d.Edge(1)}

	for i := 0; i < 10; i++ {
		c.Step(at(float64(i) / 60))
	}

	assert.Equal(t, edges, []Edge{d.Edge(0), d.Edge(1)})
	assert.Equal(t, []int{0, 1}, d.Pipeline("all").Edges)
	assert.Equal(t, Point{100, 100}, d.Node(1).Center())
}

func TestRGBA(t *testing.T) {
	got := rgba(hex("#ffaa00"), 0.5)
	assert.Equal(t, color.NRGBA{R: 255, G: 170, B: 0, A: 128}, got)
	assert.Equal(t, uint8(255), rgba(hex("#000000"), 2).A)
}
