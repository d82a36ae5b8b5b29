package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
	"github.com/ha1tch/circuit-toolkit/pkg/circuitfile"
)

const exploreHelp = `Commands:
  pipeline [id]   Show or select the active pipeline
  pipelines       List pipelines
  hover <x> <y>   Move the pointer to a pixel position
  node <id>       Move the pointer onto a node
  leave           Move the pointer off the board
  step [seconds]  Advance the clock and draw one frame (default 1/60)
  nodes           List nodes and their positions
  status          Show current status
  save <file>     Write the current frame as SVG
  quit            Exit`

// textPanel prints hover reports.
type textPanel struct{ w io.Writer }

func (p textPanel) HoverEnter(name, desc string) {
	fmt.Fprintf(p.w, "%s %s\n", good.Sprint("enter"), brand.Sprint(name))
	if desc != "" {
		fmt.Fprintf(p.w, "      %s\n", subtle.Sprint(desc))
	}
}

func (p textPanel) HoverExit() { fmt.Fprintln(p.w, subtle.Sprint("exit")) }

// explorer drives one Circuit from text commands.
type explorer struct {
	c     *circuit.Circuit
	svg   *circuitfile.SVGSurface
	sched *circuit.ManualScheduler
	epoch time.Time
	now   time.Time
	out   io.Writer
}

func (a *app) exploreCmd() *cobra.Command {
	var width, height int
	cmd := &cobra.Command{
		Use:   "explore [config]",
		Short: "Drive a circuit interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, name, err := a.loadDiagram(args)
			if err != nil {
				return err
			}
			if width <= 0 || height <= 0 {
				return fmt.Errorf("board size must be positive, got %dx%d", width, height)
			}
			out := cmd.OutOrStdout()
			e := newExplorer(d, width, height, out, a)

			label := d.Name
			if label == "" {
				label = name
			}
			fmt.Fprintf(out, "Circuit: %s (%d nodes, %d traces)\n", label, d.NodeCount(), d.EdgeCount())
			fmt.Fprintln(out, `Type "help" for commands.`)
			fmt.Fprintln(out)
			e.printStatus()

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if !e.exec(line) {
					break
				}
			}
			e.c.Hide()
			return scanner.Err()
		},
	}
	cmd.Flags().IntVar(&width, "width", 900, "Board width in pixels")
	cmd.Flags().IntVar(&height, "height", 600, "Board height in pixels")
	return cmd
}

func newExplorer(d *circuit.Diagram, width, height int, out io.Writer, a *app) *explorer {
	e := &explorer{
		svg:   circuitfile.NewSVGSurface(width, height),
		sched: &circuit.ManualScheduler{},
		epoch: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		out:   out,
	}
	e.now = e.epoch
	opts := circuit.DefaultOptions()
	opts.Epoch = e.epoch
	opts.Panel = textPanel{w: out}
	opts.Logger = a.logger
	opts.Hooks.PipelineChanged = func(from, to string, known bool) {
		if !known {
			fmt.Fprintf(out, "%s unknown pipeline %q, nothing highlighted\n", bad.Sprint("!"), to)
		}
	}
	e.c = circuit.New(d, e.svg, e.sched, opts)
	e.c.Show()
	return e
}

// exec runs one command line. It returns false when the session should end.
func (e *explorer) exec(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "quit", "exit", "q":
		return false
	case "help", "?":
		fmt.Fprintln(e.out, exploreHelp)
	case "status":
		e.printStatus()
	case "pipelines":
		e.printPipelines()
	case "pipeline":
		if len(fields) < 2 {
			fmt.Fprintf(e.out, "Pipeline: %s\n", e.c.ActivePipeline())
			break
		}
		e.c.SetActivePipeline(fields[1])
		e.printStatus()
	case "hover":
		if len(fields) != 3 {
			e.errorf("usage: hover <x> <y>")
			break
		}
		x, errX := strconv.ParseFloat(fields[1], 64)
		y, errY := strconv.ParseFloat(fields[2], 64)
		if errX != nil || errY != nil {
			e.errorf("hover: bad position %q %q", fields[1], fields[2])
			break
		}
		e.c.PointerMove(x, y)
	case "node":
		if len(fields) != 2 {
			e.errorf("usage: node <id>")
			break
		}
		d := e.c.Diagram()
		i := d.NodeIndex(fields[1])
		if i < 0 {
			e.errorf("no node %q", fields[1])
			break
		}
		p := d.Node(i).Center()
		e.c.PointerMove(p.X, p.Y)
	case "leave":
		e.c.PointerLeave()
	case "step":
		dt := time.Second / 60
		if len(fields) > 1 {
			secs, err := strconv.ParseFloat(fields[1], 64)
			if err != nil || secs < 0 {
				e.errorf("step: bad duration %q", fields[1])
				break
			}
			dt = time.Duration(secs * float64(time.Second))
		}
		e.now = e.now.Add(dt)
		e.sched.Advance(e.now)
		st := e.c.LastFrame()
		fmt.Fprintf(e.out, "t=%.3fs  edges=%d packets=%d nodes=%d\n",
			e.now.Sub(e.epoch).Seconds(), st.Edges, st.Packets, st.Nodes)
	case "nodes":
		e.printNodes()
	case "save":
		if len(fields) != 2 {
			e.errorf("usage: save <file.svg>")
			break
		}
		e.c.Step(e.now)
		if err := os.WriteFile(fields[1], []byte(e.svg.String()), 0o644); err != nil {
			e.errorf("save: %v", err)
			break
		}
		fmt.Fprintf(e.out, "Written: %s\n", fields[1])
	default:
		e.errorf("unknown command %q", fields[0])
	}
	return true
}

func (e *explorer) errorf(format string, args ...any) {
	fmt.Fprintf(e.out, "%s %s\n", bad.Sprint("error:"), fmt.Sprintf(format, args...))
}

func (e *explorer) printStatus() {
	status := fmt.Sprintf("Pipeline: %s", e.c.ActivePipeline())
	if p := e.c.Diagram().Pipeline(e.c.ActivePipeline()); p != nil && p.Label != "" {
		status += fmt.Sprintf(" (%s)", p.Label)
	}
	if n := e.c.Hovered(); n != nil {
		status += fmt.Sprintf("  Hover: %s", n.Name)
	}
	status += fmt.Sprintf("  State: %s  t=%.3fs", e.c.State(), e.now.Sub(e.epoch).Seconds())
	fmt.Fprintln(e.out, status)
}

func (e *explorer) printPipelines() {
	active := e.c.ActivePipeline()
	for _, p := range e.c.Diagram().Pipelines() {
		mark := " "
		if p.ID == active {
			mark = "*"
		}
		fmt.Fprintf(e.out, "%s %-10s %s\n", mark, p.ID, p.Label)
	}
}

func (e *explorer) printNodes() {
	d := e.c.Diagram()
	for i := 0; i < d.NodeCount(); i++ {
		n := d.Node(i)
		p := n.Center()
		mark := " "
		if n.Hovered() {
			mark = "*"
		}
		fmt.Fprintf(e.out, "%s %-12s %-20s (%4.0f, %4.0f)\n", mark, n.ID, n.Name, p.X, p.Y)
	}
}
