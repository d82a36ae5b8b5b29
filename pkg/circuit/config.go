package circuit

import (
	"fmt"
	"strconv"
)

// Config is the declarative description a Diagram is built from.
type Config struct {
	Name      string
	Groups    []GroupConfig
	Edges     []EdgeConfig
	Pipelines []PipelineConfig
	Default   string // pipeline active on startup; first pipeline if empty
	Eras      []EraConfig
}

// GroupConfig is a coloured cluster of nodes.
type GroupConfig struct {
	ID    string // defaults to Label
	Label string
	Color string // hex, e.g. "#ffaa00"
	Nodes []NodeConfig
}

// NodeConfig places one skill on the board.
type NodeConfig struct {
	ID          string // defaults to a slug of Name
	Name        string
	X, Y        float64
	Description string
	Slow        bool
}

// EdgeConfig is a directed trace between two node references.
type EdgeConfig struct {
	ID       string // defaults to "<from-id>-><to-id>"
	From, To Ref
}

// PipelineConfig selects the traces and nodes highlighted by one pipeline.
type PipelineConfig struct {
	ID    string
	Label string
	Color string
	Edges []Ref
	Nodes []Ref
}

// EraConfig is a decorative caption.
type EraConfig struct {
	Title    string
	Caption  string
	X        float64
	CaptionX float64
	Color    string
}

// Ref points at a node or trace either by position in the flattened
// sequence or by identifier.
type Ref struct {
	Index int
	ID    string
	named bool
}

// At returns a positional reference.
func At(i int) Ref { return Ref{Index: i} }

// Named returns an identifier reference.
func Named(id string) Ref { return Ref{ID: id, named: true} }

// IsNamed reports whether r refers by identifier.
func (r Ref) IsNamed() bool { return r.named }

func (r Ref) String() string {
	if r.named {
		return strconv.Quote(r.ID)
	}
	return strconv.Itoa(r.Index)
}

// resolve maps r into [0,n) using ids for named references.
func (r Ref) resolve(n int, ids map[string]int) (int, error) {
	if r.named {
		i, ok := ids[r.ID]
		if !ok {
			return -1, fmt.Errorf("unknown identifier %q", r.ID)
		}
		return i, nil
	}
	if r.Index < 0 || r.Index >= n {
		return -1, fmt.Errorf("index %d out of range [0,%d)", r.Index, n)
	}
	return r.Index, nil
}
