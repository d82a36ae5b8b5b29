package circuit

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidConfig is matched by every configuration error returned by Build.
var ErrInvalidConfig = errors.New("invalid circuit config")

// ConfigError reports a defect in the static configuration.
type ConfigError struct {
	Path   string // e.g. "edges[3].to"
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidConfig) succeed.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

func configErr(path, reason string) *ConfigError {
	return &ConfigError{Path: path, Reason: reason}
}

// Build flattens the groups into a single node sequence in group order and
// resolves every trace and pipeline reference against it.
func Build(cfg Config) (*Diagram, error) {
	d := &Diagram{
		Name:     cfg.Name,
		byID:     make(map[string]*Pipeline),
		nodeByID: make(map[string]int),
	}

	for gi, g := range cfg.Groups {
		if g.Label == "" && g.ID == "" {
			return nil, configErr(fmt.Sprintf("groups[%d]", gi), "group has no label")
		}
		gid := g.ID
		if gid == "" {
			gid = g.Label
		}
		gc, err := colorful.Hex(g.Color)
		if err != nil {
			return nil, configErr(fmt.Sprintf("groups[%d].color", gi), fmt.Sprintf("bad colour %q", g.Color))
		}

		for ni, nc := range g.Nodes {
			path := fmt.Sprintf("groups[%d].nodes[%d]", gi, ni)
			if nc.Name == "" {
				return nil, configErr(path, "node has no name")
			}
			if !inUnit(nc.X) || !inUnit(nc.Y) {
				return nil, configErr(path, fmt.Sprintf("position (%g,%g) outside [0,1]", nc.X, nc.Y))
			}
			if nc.ID != "" {
				if _, dup := d.nodeByID[nc.ID]; dup {
					return nil, configErr(path, fmt.Sprintf("duplicate node id %q", nc.ID))
				}
				d.nodeByID[nc.ID] = len(d.nodes)
			}
			d.nodes = append(d.nodes, &Node{
				ID:          nc.ID,
				Name:        nc.Name,
				Group:       gid,
				GroupColor:  gc,
				X:           nc.X,
				Y:           nc.Y,
				Description: nc.Description,
				Radius:      DefaultNodeRadius,
				Slow:        nc.Slow,
			})
		}
	}

	// Derived IDs never collide with explicit ones; clashes get a suffix.
	for i, n := range d.nodes {
		if n.ID != "" {
			continue
		}
		base := Slug(n.Name)
		if base == "" {
			base = "node"
		}
		n.ID = uniqueID(base, d.nodeByID)
		d.nodeByID[n.ID] = i
	}

	edgeByID := make(map[string]int)
	for ei, ec := range cfg.Edges {
		from, err := ec.From.resolve(len(d.nodes), d.nodeByID)
		if err != nil {
			return nil, configErr(fmt.Sprintf("edges[%d].from", ei), err.Error())
		}
		to, err := ec.To.resolve(len(d.nodes), d.nodeByID)
		if err != nil {
			return nil, configErr(fmt.Sprintf("edges[%d].to", ei), err.Error())
		}
		if ec.ID != "" {
			if _, dup := edgeByID[ec.ID]; dup {
				return nil, configErr(fmt.Sprintf("edges[%d]", ei), fmt.Sprintf("duplicate edge id %q", ec.ID))
			}
			edgeByID[ec.ID] = len(d.edges)
		}
		d.edges = append(d.edges, Edge{ID: ec.ID, From: from, To: to})
	}
	for i := range d.edges {
		e := &d.edges[i]
		if e.ID != "" {
			continue
		}
		e.ID = uniqueID(d.nodes[e.From].ID+"->"+d.nodes[e.To].ID, edgeByID)
		edgeByID[e.ID] = i
	}

	for pi, pc := range cfg.Pipelines {
		path := fmt.Sprintf("pipelines[%d]", pi)
		if pc.ID == "" {
			return nil, configErr(path, "pipeline has no id")
		}
		if _, dup := d.byID[pc.ID]; dup {
			return nil, configErr(path, fmt.Sprintf("duplicate pipeline id %q", pc.ID))
		}
		c, err := colorful.Hex(pc.Color)
		if err != nil {
			return nil, configErr(path+".color", fmt.Sprintf("bad colour %q", pc.Color))
		}
		p := &Pipeline{
			ID:      pc.ID,
			Label:   pc.Label,
			Color:   c,
			edgeSet: make(map[int]bool),
			nodeSet: make(map[int]bool),
		}
		if p.Label == "" {
			p.Label = pc.ID
		}
		for ri, r := range pc.Edges {
			i, err := r.resolve(len(d.edges), edgeByID)
			if err != nil {
				return nil, configErr(fmt.Sprintf("%s.edges[%d]", path, ri), err.Error())
			}
			p.edgeSet[i] = true
		}
		for ri, r := range pc.Nodes {
			i, err := r.resolve(len(d.nodes), d.nodeByID)
			if err != nil {
				return nil, configErr(fmt.Sprintf("%s.nodes[%d]", path, ri), err.Error())
			}
			p.nodeSet[i] = true
		}
		p.Edges = sortedKeys(p.edgeSet)
		p.Nodes = sortedKeys(p.nodeSet)
		d.pipelines = append(d.pipelines, p)
		d.byID[p.ID] = p
	}

	switch {
	case cfg.Default != "":
		if d.byID[cfg.Default] == nil {
			return nil, configErr("default", fmt.Sprintf("unknown pipeline %q", cfg.Default))
		}
		d.def = cfg.Default
	case len(d.pipelines) > 0:
		d.def = d.pipelines[0].ID
	}

	for i, ec := range cfg.Eras {
		if !inUnit(ec.X) || !inUnit(ec.CaptionX) {
			return nil, configErr(fmt.Sprintf("eras[%d]", i), fmt.Sprintf("position (%g,%g) outside [0,1]", ec.X, ec.CaptionX))
		}
		c, err := colorful.Hex(ec.Color)
		if err != nil {
			return nil, configErr(fmt.Sprintf("eras[%d].color", i), fmt.Sprintf("bad colour %q", ec.Color))
		}
		d.eras = append(d.eras, Era{
			Title:    ec.Title,
			Caption:  ec.Caption,
			X:        ec.X,
			CaptionX: ec.CaptionX,
			Color:    c,
		})
	}

	return d, nil
}

// MustBuild is like Build but panics on a configuration error.
// Intended for configurations compiled into the binary.
func MustBuild(cfg Config) *Diagram {
	d, err := Build(cfg)
	if err != nil {
		panic(fmt.Sprintf("circuit: %v", err))
	}
	return d
}

// Slug derives a node identifier from a display name:
// "Hadoop / HDFS" becomes "hadoop-hdfs".
func Slug(name string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r)
			dash = false
		} else {
			dash = true
		}
	}
	return sb.String()
}

// inUnit reports whether f lies in [0,1]. NaN does not.
func inUnit(f float64) bool {
	return f >= 0 && f <= 1
}

// uniqueID returns base, or base with the first free "-N" suffix.
func uniqueID(base string, taken map[string]int) string {
	if _, ok := taken[base]; !ok {
		return base
	}
	for n := 2; ; n++ {
		id := fmt.Sprintf("%s-%d", base, n)
		if _, ok := taken[id]; !ok {
			return id
		}
	}
}

func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
