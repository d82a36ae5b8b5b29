package circuitfile

import (
	"fmt"
	"strings"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
)

// GenerateDOT converts a diagram to Graphviz DOT. Nodes are pinned to their
// fractional positions scaled to a width x height inch board, clustered by
// group. When pipeline names a known pipeline its traces are coloured.
func GenerateDOT(d *circuit.Diagram, pipeline string, width, height float64) string {
	var sb strings.Builder

	sb.WriteString("digraph Circuit {\n")
	sb.WriteString("    bgcolor=\"#080708\";\n")
	sb.WriteString("    splines=ortho;\n")
	sb.WriteString("    node [shape=circle, style=filled, fixedsize=true, width=0.2, fontname=\"Helvetica\", fontsize=9, fontcolor=\"#f5f0e8\"];\n")
	sb.WriteString("    edge [color=\"#ffaa0040\", arrowsize=0.5];\n")
	sb.WriteString("\n")

	if d.Name != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(d.Name)))
		sb.WriteString("    fontcolor=\"#f5f0e8\";\n")
		sb.WriteString("\n")
	}

	active := d.Pipeline(pipeline)

	// Group nodes by their group, keeping first-seen order.
	var groups []string
	members := make(map[string][]int)
	for i := 0; i < d.NodeCount(); i++ {
		g := d.Node(i).Group
		if _, ok := members[g]; !ok {
			groups = append(groups, g)
		}
		members[g] = append(members[g], i)
	}

	for gi, g := range groups {
		sb.WriteString(fmt.Sprintf("    subgraph cluster_%d {\n", gi))
		sb.WriteString(fmt.Sprintf("        label=\"%s\";\n", escapeDOT(g)))
		sb.WriteString("        fontcolor=\"#f5f0e8\";\n")
		sb.WriteString(fmt.Sprintf("        color=\"%s\";\n", d.Node(members[g][0]).GroupColor.Hex()))
		for _, i := range members[g] {
			n := d.Node(i)
			fill := n.GroupColor.Hex() + "60"
			if active.HasNode(i) {
				fill = active.Color.Hex()
			}
			attrs := []string{
				fmt.Sprintf("label=\"%s\"", escapeDOT(n.Name)),
				fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.X*width, (1-n.Y)*height),
				fmt.Sprintf("fillcolor=\"%s\"", fill),
			}
			if n.Description != "" {
				attrs = append(attrs, fmt.Sprintf("tooltip=\"%s\"", escapeDOT(n.Description)))
			}
			if n.Slow {
				attrs = append(attrs, "peripheries=2")
			}
			sb.WriteString(fmt.Sprintf("        \"%s\" [%s];\n", escapeDOT(n.ID), strings.Join(attrs, ", ")))
		}
		sb.WriteString("    }\n")
	}
	sb.WriteString("\n")

	for i := 0; i < d.EdgeCount(); i++ {
		e := d.Edge(i)
		attrs := fmt.Sprintf("id=\"%s\"", escapeDOT(e.ID))
		if active.HasEdge(i) {
			attrs += fmt.Sprintf(", color=\"%s\", penwidth=1.6", active.Color.Hex())
		}
		sb.WriteString(fmt.Sprintf("    \"%s\" -> \"%s\" [%s];\n",
			escapeDOT(d.Node(e.From).ID), escapeDOT(d.Node(e.To).ID), attrs))
	}

	sb.WriteString("}\n")

	return sb.String()
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
