package codegen

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
	"github.com/ha1tch/circuit-toolkit/pkg/circuitfile"
)

func TestGenerateGoDefaultBoard(t *testing.T) {
	src, err := GenerateGo(circuitfile.DefaultConfig(), "skills")
	require.NoError(t, err)

	_, err = parser.ParseFile(token.NewFileSet(), "board.go", src, parser.AllErrors)
	require.NoError(t, err, src)

	for _, want := range []string{
		"// Code generated from circuit definition. DO NOT EDIT.",
		"package skills",
		`import "github.com/ha1tch/circuit-toolkit/pkg/circuit"`,
		"func DataPlatformCircuitConfig() circuit.Config {",
		"func NewDataPlatformCircuit() *circuit.Diagram {",
		`NodeLinux`,
		`PipelineXbrl`,
		`From: circuit.Named("linux"), To: circuit.Named("hadoop")`,
		`Slow: true`,
		`Title: "ON-PREM HADOOP ERA"`,
	} {
		assert.Contains(t, src, want)
	}
	assert.Equal(t, 20, strings.Count(src, ", Y: "), "one literal per node")
}

func TestGenerateGoKeepsRefForms(t *testing.T) {
	cfg := circuit.Config{
		Groups: []circuit.GroupConfig{{Label: "G", Color: "#fff", Nodes: []circuit.NodeConfig{
			{Name: "Load Balancer", X: 0, Y: 1},
			{Name: "load-balancer 2", X: 0.5, Y: 0.25},
		}}},
		Edges: []circuit.EdgeConfig{{ID: "lb", From: circuit.At(0), To: circuit.Named("load-balancer-2")}},
		Pipelines: []circuit.PipelineConfig{
			{ID: "main", Color: "#fff", Edges: []circuit.Ref{circuit.Named("lb")}},
		},
	}
	src, err := GenerateGo(cfg, "")
	require.NoError(t, err)

	assert.Contains(t, src, "package board")
	assert.Contains(t, src, "func CircuitConfig() circuit.Config {")
	assert.Contains(t, src, `{ID: "lb", From: circuit.At(0), To: circuit.Named("load-balancer-2")}`)
	assert.Contains(t, src, `Edges: []circuit.Ref{circuit.Named("lb")}`)
	assert.Contains(t, src, "Nodes: nil")
	assert.Contains(t, src, "Y: 0.25")
	assert.Contains(t, src, `NodeLoadBalancer  = "load-balancer"`)
	assert.Contains(t, src, `NodeLoadBalancer2 = "load-balancer-2"`)
}

func TestGenerateGoRejectsBrokenConfig(t *testing.T) {
	cfg := circuit.Config{
		Groups: []circuit.GroupConfig{{Label: "G", Color: "#fff", Nodes: []circuit.NodeConfig{{Name: "A"}}}},
		Edges:  []circuit.EdgeConfig{{From: circuit.At(0), To: circuit.At(4)}},
	}
	_, err := GenerateGo(cfg, "x")
	assert.ErrorIs(t, err, circuit.ErrInvalidConfig)
}

func TestNames(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hadoop-hdfs", "HadoopHdfs"},
		{"Data Platform Circuit", "DataPlatformCircuit"},
		{"a/b.c", "ABC"},
		{"", "Unnamed"},
		{"--", "Unknown"},
		{"café", "Caf"},
	}
	for _, tt := range tests {
		if got := toPascalCase(sanitizeName(tt.in)); got != tt.want {
			t.Errorf("toPascalCase(sanitizeName(%q)) = %q, want %q", tt.in, got, tt.want)
		}
	}

	n := newNamer()
	assert.Equal(t, "X", n.get("X"))
	assert.Equal(t, "X2", n.get("X"))
	assert.Equal(t, "Y", n.get("Y"))
}
