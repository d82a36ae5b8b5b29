package circuitfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBoard(t *testing.T) {
	d := DefaultDiagram()

	assert.Equal(t, 20, d.NodeCount())
	assert.Equal(t, 21, d.EdgeCount())
	assert.Len(t, d.Pipelines(), 3)
	assert.Len(t, d.Eras(), 2)
	assert.Equal(t, "xbrl", d.DefaultPipeline())

	// Positions and order follow the flattened group order.
	names := []string{
		"Linux", "Hadoop / HDFS", "Hive / Impala", "PySpark", "Python", "Scala", "MySQL", "PowerBI",
		"Git",
		"Azure Blob Storage", "Azure Databricks", "Delta Tables",
		"Azure VM", "VBScript", "Azure DevOps", "Pandas",
		"SQL Server", "Grafana", "Azure Data Factory", "MongoDB (WIP)",
	}
	for i, name := range names {
		assert.Equal(t, name, d.Node(i).Name, "node %d", i)
	}
	assert.Equal(t, 0.63, d.Node(11).X)
	assert.Equal(t, 0.55, d.Node(11).Y)
}

func TestDefaultBoardTraces(t *testing.T) {
	d := DefaultDiagram()
	want := [][2]int{
		{0, 1}, {1, 2}, {5, 3}, {6, 3}, {4, 3}, {3, 2}, {2, 7},
		{8, 10}, {9, 10}, {10, 11}, {11, 16}, {16, 17}, {16, 19},
		{4, 13}, {13, 12}, {8, 14}, {14, 12}, {12, 15}, {15, 16}, {16, 18}, {18, 10},
	}
	require.Equal(t, len(want), d.EdgeCount())
	for i, w := range want {
		e := d.Edge(i)
		assert.Equal(t, w, [2]int{e.From, e.To}, "trace %d", i)
	}
}

func TestDefaultBoardPipelines(t *testing.T) {
	d := DefaultDiagram()
	tests := []struct {
		id    string
		label string
		color string
		edges []int
		nodes []int
	}{
		{"xbrl", "XBRL → SDMX", "#cc8800", []int{0, 1, 2, 3, 4, 5, 6}, []int{0, 1, 2, 3, 4, 5, 6, 7}},
		{"reso", "RESO Lakehouse", "#ffaa00", []int{7, 8, 9, 10, 11, 12}, []int{8, 9, 10, 11, 16, 17, 19}},
		{"rets", "RETS Legacy XML", "#d4a000", []int{13, 14, 15, 16, 17, 18, 19, 20}, []int{4, 8, 10, 12, 13, 14, 15, 16, 18}},
	}
	for _, tt := range tests {
		p := d.Pipeline(tt.id)
		require.NotNil(t, p, tt.id)
		assert.Equal(t, tt.label, p.Label)
		assert.Equal(t, tt.color, p.Color.Hex())
		assert.Equal(t, tt.edges, p.Edges)
		assert.Equal(t, tt.nodes, p.Nodes)
	}
}

func TestDefaultBoardSlowNode(t *testing.T) {
	d := DefaultDiagram()
	for i := 0; i < d.NodeCount(); i++ {
		assert.Equal(t, i == 19, d.Node(i).Slow, d.Node(i).Name)
	}
}

func TestDefaultDiagramIsFresh(t *testing.T) {
	a, b := DefaultDiagram(), DefaultDiagram()
	a.Layout(100, 100)
	assert.NotEqual(t, a.Node(1).Center(), b.Node(1).Center())

	src := DefaultYAML()
	src[0] = 'X'
	assert.NotEqual(t, src[0], DefaultYAML()[0])
}
