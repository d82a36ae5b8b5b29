package codegen

import (
	"fmt"
	"go/format"
	"strconv"
	"strings"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
)

// ImportPath is the package the generated code builds on.
const ImportPath = "github.com/ha1tch/circuit-toolkit/pkg/circuit"

// GenerateGo generates a Go source file that embeds cfg as a circuit.Config
// literal, with constants for node and pipeline identifiers. The config is
// built first so a broken definition is reported here rather than at the
// generated program's start-up. References are emitted as written.
func GenerateGo(cfg circuit.Config, packageName string) (string, error) {
	d, err := circuit.Build(cfg)
	if err != nil {
		return "", err
	}

	typeName := toPascalCase(sanitizeName(cfg.Name))
	if cfg.Name == "" {
		typeName = "Circuit"
	}
	if packageName == "" {
		packageName = "board"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf(`// Code generated from circuit definition. DO NOT EDIT.
// Circuit: %s

package %s

import "%s"

`, cfg.Name, packageName, ImportPath))

	// Node identifiers
	names := newNamer()
	sb.WriteString(fmt.Sprintf("// %s node identifiers.\n", typeName))
	sb.WriteString("const (\n")
	for i := 0; i < d.NodeCount(); i++ {
		n := d.Node(i)
		sb.WriteString(fmt.Sprintf("\t%s = %q\n", names.get("Node"+toPascalCase(sanitizeName(n.ID))), n.ID))
	}
	sb.WriteString(")\n\n")

	if ps := d.Pipelines(); len(ps) > 0 {
		sb.WriteString(fmt.Sprintf("// %s pipeline identifiers.\n", typeName))
		sb.WriteString("const (\n")
		for _, p := range ps {
			sb.WriteString(fmt.Sprintf("\t%s = %q\n", names.get("Pipeline"+toPascalCase(sanitizeName(p.ID))), p.ID))
		}
		sb.WriteString(")\n\n")
	}

	// Config literal
	sb.WriteString(fmt.Sprintf("// %sConfig returns the circuit definition.\n", typeName))
	sb.WriteString(fmt.Sprintf("func %sConfig() circuit.Config {\n", typeName))
	sb.WriteString("\treturn circuit.Config{\n")
	if cfg.Name != "" {
		sb.WriteString(fmt.Sprintf("\t\tName: %q,\n", cfg.Name))
	}
	if cfg.Default != "" {
		sb.WriteString(fmt.Sprintf("\t\tDefault: %q,\n", cfg.Default))
	}

	sb.WriteString("\t\tGroups: []circuit.GroupConfig{\n")
	for _, g := range cfg.Groups {
		sb.WriteString("\t\t\t{")
		if g.ID != "" {
			sb.WriteString(fmt.Sprintf("ID: %q, ", g.ID))
		}
		sb.WriteString(fmt.Sprintf("Label: %q, Color: %q, Nodes: []circuit.NodeConfig{\n", g.Label, g.Color))
		for _, n := range g.Nodes {
			sb.WriteString("\t\t\t\t{")
			if n.ID != "" {
				sb.WriteString(fmt.Sprintf("ID: %q, ", n.ID))
			}
			sb.WriteString(fmt.Sprintf("Name: %q, X: %s, Y: %s", n.Name, goFloat(n.X), goFloat(n.Y)))
			if n.Description != "" {
				sb.WriteString(fmt.Sprintf(", Description: %q", n.Description))
			}
			if n.Slow {
				sb.WriteString(", Slow: true")
			}
			sb.WriteString("},\n")
		}
		sb.WriteString("\t\t\t}},\n")
	}
	sb.WriteString("\t\t},\n")

	if len(cfg.Edges) > 0 {
		sb.WriteString("\t\tEdges: []circuit.EdgeConfig{\n")
		for _, e := range cfg.Edges {
			sb.WriteString("\t\t\t{")
			if e.ID != "" {
				sb.WriteString(fmt.Sprintf("ID: %q, ", e.ID))
			}
			sb.WriteString(fmt.Sprintf("From: %s, To: %s},\n", goRef(e.From), goRef(e.To)))
		}
		sb.WriteString("\t\t},\n")
	}

	if len(cfg.Pipelines) > 0 {
		sb.WriteString("\t\tPipelines: []circuit.PipelineConfig{\n")
		for _, p := range cfg.Pipelines {
			sb.WriteString(fmt.Sprintf("\t\t\t{ID: %q, Label: %q, Color: %q,\n", p.ID, p.Label, p.Color))
			sb.WriteString(fmt.Sprintf("\t\t\t\tEdges: %s,\n", goRefs(p.Edges)))
			sb.WriteString(fmt.Sprintf("\t\t\t\tNodes: %s},\n", goRefs(p.Nodes)))
		}
		sb.WriteString("\t\t},\n")
	}

	if len(cfg.Eras) > 0 {
		sb.WriteString("\t\tEras: []circuit.EraConfig{\n")
		for _, e := range cfg.Eras {
			sb.WriteString(fmt.Sprintf("\t\t\t{Title: %q, Caption: %q, X: %s, CaptionX: %s, Color: %q},\n",
				e.Title, e.Caption, goFloat(e.X), goFloat(e.CaptionX), e.Color))
		}
		sb.WriteString("\t\t},\n")
	}
	sb.WriteString("\t}\n")
	sb.WriteString("}\n\n")

	// Diagram constructor
	sb.WriteString(fmt.Sprintf("// New%s builds the diagram. The definition was validated when this file\n", typeName))
	sb.WriteString("// was generated, so it only panics if the file was edited by hand.\n")
	sb.WriteString(fmt.Sprintf("func New%s() *circuit.Diagram {\n", typeName))
	sb.WriteString(fmt.Sprintf("\treturn circuit.MustBuild(%sConfig())\n", typeName))
	sb.WriteString("}\n")

	src, err := format.Source([]byte(sb.String()))
	if err != nil {
		return "", fmt.Errorf("codegen: %w", err)
	}
	return string(src), nil
}

func goFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func goRef(r circuit.Ref) string {
	if r.IsNamed() {
		return fmt.Sprintf("circuit.Named(%q)", r.ID)
	}
	return fmt.Sprintf("circuit.At(%d)", r.Index)
}

func goRefs(refs []circuit.Ref) string {
	if len(refs) == 0 {
		return "nil"
	}
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = goRef(r)
	}
	return "[]circuit.Ref{" + strings.Join(parts, ", ") + "}"
}

// namer hands out unique identifiers, suffixing repeats with a counter.
type namer map[string]int

func newNamer() namer { return make(namer) }

func (n namer) get(name string) string {
	n[name]++
	if c := n[name]; c > 1 {
		return fmt.Sprintf("%s%d", name, c)
	}
	return name
}
