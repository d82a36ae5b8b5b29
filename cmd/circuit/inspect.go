package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/circuit-toolkit/pkg/circuitfile"
	"github.com/ha1tch/circuit-toolkit/pkg/codegen"
)

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [config]",
		Short: "Validate a circuit config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, name, err := a.loadDiagram(args)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: valid circuit with %d nodes, %d traces, %d pipelines\n",
				good.Sprint("ok"), name, d.NodeCount(), d.EdgeCount(), len(d.Pipelines()))
			return nil
		},
	}
}

func (a *app) infoCmd() *cobra.Command {
	var showNodes bool
	cmd := &cobra.Command{
		Use:   "info [config]",
		Short: "Show circuit information",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, name, err := a.loadDiagram(args)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "Source:      %s\n", name)
			if d.Name != "" {
				fmt.Fprintf(w, "Name:        %s\n", d.Name)
			}
			fmt.Fprintf(w, "Nodes:       %d\n", d.NodeCount())
			fmt.Fprintf(w, "Traces:      %d\n", d.EdgeCount())
			fmt.Fprintf(w, "Pipelines:   %d\n", len(d.Pipelines()))
			if def := d.DefaultPipeline(); def != "" {
				fmt.Fprintf(w, "Default:     %s\n", def)
			}
			fmt.Fprintln(w)

			for _, p := range d.Pipelines() {
				fmt.Fprintf(w, "  %-10s %-20s %s  %d traces, %d nodes\n",
					p.ID, p.Label, p.Color.Hex(), len(p.Edges), len(p.Nodes))
			}

			if showNodes {
				fmt.Fprintln(w)
				for i := 0; i < d.NodeCount(); i++ {
					n := d.Node(i)
					var flags []string
					if n.Slow {
						flags = append(flags, "slow")
					}
					for _, p := range d.Pipelines() {
						if p.HasNode(i) {
							flags = append(flags, p.ID)
						}
					}
					fmt.Fprintf(w, "  %2d %-20s %-8s (%.2f, %.2f) %s\n",
						i, n.ID, n.Group, n.X, n.Y, subtle.Sprint(strings.Join(flags, ",")))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showNodes, "nodes", false, "List every node")
	return cmd
}

func (a *app) dotCmd() *cobra.Command {
	var output, pipeline string
	var width, height float64
	cmd := &cobra.Command{
		Use:   "dot [config]",
		Short: "Generate Graphviz DOT output",
		Example: "  circuit dot board.yaml | neato -n -Tpng -o board.png\n" +
			"  circuit dot --pipeline reso -o reso.dot",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, _, err := a.loadDiagram(args)
			if err != nil {
				return err
			}
			if pipeline == "" {
				pipeline = d.DefaultPipeline()
			}
			return writeOutput(cmd, output, []byte(circuitfile.GenerateDOT(d, pipeline, width, height)))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVarP(&pipeline, "pipeline", "p", "", "Pipeline to highlight (default: the config default)")
	cmd.Flags().Float64Var(&width, "width", 12, "Board width in inches")
	cmd.Flags().Float64Var(&height, "height", 8, "Board height in inches")
	return cmd
}

func (a *app) genCmd() *cobra.Command {
	var output, pkg string
	cmd := &cobra.Command{
		Use:   "gen [config]",
		Short: "Generate Go source embedding the config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := a.loadConfig(args)
			if err != nil {
				return err
			}
			src, err := codegen.GenerateGo(cfg, pkg)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, []byte(src))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&pkg, "package", "board", "Package name of the generated file")
	return cmd
}

func (a *app) convertCmd() *cobra.Command {
	var output, to string
	cmd := &cobra.Command{
		Use:   "convert <config>",
		Short: "Convert between formats (json, yaml, toml)",
		Example: "  circuit convert board.yaml -o board.toml\n" +
			"  circuit convert board.json --to yaml",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, name, err := a.loadConfig(args)
			if err != nil {
				return err
			}

			var format circuitfile.Format
			switch {
			case output != "":
				format, err = circuitfile.FormatFromPath(output)
			case to != "":
				format, err = circuitfile.ParseFormat(to)
			default:
				// Default: JSON for anything else, YAML for JSON.
				format = circuitfile.FormatJSON
				if in, _ := circuitfile.FormatFromPath(name); in == circuitfile.FormatJSON {
					format = circuitfile.FormatYAML
				}
				output = swapExt(name, "."+string(format))
			}
			if err != nil {
				return err
			}

			data, err := circuitfile.Marshal(cfg, format)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file; its extension picks the format")
	cmd.Flags().StringVar(&to, "to", "", "Output format when writing to stdout")
	return cmd
}
