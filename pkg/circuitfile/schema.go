package circuitfile

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
)

// fileConfig is the on-disk representation of a circuit.Config. The same
// structure is read from JSON, YAML and TOML.
type fileConfig struct {
	Name      string         `json:"name,omitempty" yaml:"name,omitempty" toml:"name"`
	Default   string         `json:"default,omitempty" yaml:"default,omitempty" toml:"default"`
	Groups    []fileGroup    `json:"groups" yaml:"groups" toml:"groups" validate:"required,min=1,dive"`
	Traces    []fileTrace    `json:"traces" yaml:"traces" toml:"traces"`
	Pipelines []filePipeline `json:"pipelines" yaml:"pipelines" toml:"pipelines" validate:"dive"`
	Eras      []fileEra      `json:"eras,omitempty" yaml:"eras,omitempty" toml:"eras" validate:"dive"`
}

type fileGroup struct {
	ID     string      `json:"id,omitempty" yaml:"id,omitempty" toml:"id"`
	Name   string      `json:"name" yaml:"name" toml:"name" validate:"required"`
	Color  string      `json:"color" yaml:"color" toml:"color" validate:"required,hexcolor"`
	Skills []fileSkill `json:"skills" yaml:"skills" toml:"skills" validate:"dive"`
}

type fileSkill struct {
	ID   string  `json:"id,omitempty" yaml:"id,omitempty" toml:"id"`
	Name string  `json:"name" yaml:"name" toml:"name" validate:"required"`
	X    float64 `json:"x" yaml:"x" toml:"x" validate:"gte=0,lte=1"`
	Y    float64 `json:"y" yaml:"y" toml:"y" validate:"gte=0,lte=1"`
	Desc string  `json:"desc,omitempty" yaml:"desc,omitempty" toml:"desc"`
	Slow bool    `json:"slow,omitempty" yaml:"slow,omitempty" toml:"slow"`
}

type filePipeline struct {
	ID     string    `json:"id" yaml:"id" toml:"id" validate:"required"`
	Label  string    `json:"label,omitempty" yaml:"label,omitempty" toml:"label"`
	Color  string    `json:"color" yaml:"color" toml:"color" validate:"required,hexcolor"`
	Traces []fileRef `json:"traces" yaml:"traces" toml:"traces"`
	Nodes  []fileRef `json:"nodes" yaml:"nodes" toml:"nodes"`
}

type fileEra struct {
	Title    string  `json:"title" yaml:"title" toml:"title" validate:"required"`
	Caption  string  `json:"caption,omitempty" yaml:"caption,omitempty" toml:"caption"`
	X        float64 `json:"x" yaml:"x" toml:"x" validate:"gte=0,lte=1"`
	CaptionX float64 `json:"caption_x,omitempty" yaml:"caption_x,omitempty" toml:"caption_x" validate:"gte=0,lte=1"`
	Color    string  `json:"color" yaml:"color" toml:"color" validate:"required,hexcolor"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report paths with the file's field names, not the Go ones.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check runs the struct-level validation rules.
func (fc *fileConfig) check() error {
	err := validate.Struct(fc)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		path := fe.Namespace()
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:] // drop the root type name
		}
		reason := "failed " + fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		return &circuit.ConfigError{Path: path, Reason: reason}
	}
	return err
}

func (fc *fileConfig) toConfig() circuit.Config {
	cfg := circuit.Config{
		Name:    fc.Name,
		Default: fc.Default,
	}
	for _, g := range fc.Groups {
		gc := circuit.GroupConfig{ID: g.ID, Label: g.Name, Color: g.Color}
		for _, s := range g.Skills {
			gc.Nodes = append(gc.Nodes, circuit.NodeConfig{
				ID:          s.ID,
				Name:        s.Name,
				X:           s.X,
				Y:           s.Y,
				Description: s.Desc,
				Slow:        s.Slow,
			})
		}
		cfg.Groups = append(cfg.Groups, gc)
	}
	for _, t := range fc.Traces {
		cfg.Edges = append(cfg.Edges, circuit.EdgeConfig{ID: t.ID, From: t.From.Ref, To: t.To.Ref})
	}
	for _, p := range fc.Pipelines {
		pc := circuit.PipelineConfig{ID: p.ID, Label: p.Label, Color: p.Color}
		for _, r := range p.Traces {
			pc.Edges = append(pc.Edges, r.Ref)
		}
		for _, r := range p.Nodes {
			pc.Nodes = append(pc.Nodes, r.Ref)
		}
		cfg.Pipelines = append(cfg.Pipelines, pc)
	}
	for _, e := range fc.Eras {
		cfg.Eras = append(cfg.Eras, circuit.EraConfig{
			Title:    e.Title,
			Caption:  e.Caption,
			X:        e.X,
			CaptionX: e.CaptionX,
			Color:    e.Color,
		})
	}
	return cfg
}

func fromConfig(cfg circuit.Config) fileConfig {
	fc := fileConfig{Name: cfg.Name, Default: cfg.Default}
	for _, g := range cfg.Groups {
		fg := fileGroup{ID: g.ID, Name: g.Label, Color: g.Color}
		if fg.ID == g.Label {
			fg.ID = ""
		}
		for _, n := range g.Nodes {
			fg.Skills = append(fg.Skills, fileSkill{
				ID:   n.ID,
				Name: n.Name,
				X:    n.X,
				Y:    n.Y,
				Desc: n.Description,
				Slow: n.Slow,
			})
		}
		fc.Groups = append(fc.Groups, fg)
	}
	for _, e := range cfg.Edges {
		fc.Traces = append(fc.Traces, fileTrace{ID: e.ID, From: fileRef{e.From}, To: fileRef{e.To}})
	}
	for _, p := range cfg.Pipelines {
		fp := filePipeline{ID: p.ID, Label: p.Label, Color: p.Color}
		for _, r := range p.Edges {
			fp.Traces = append(fp.Traces, fileRef{r})
		}
		for _, r := range p.Nodes {
			fp.Nodes = append(fp.Nodes, fileRef{r})
		}
		fc.Pipelines = append(fc.Pipelines, fp)
	}
	for _, e := range cfg.Eras {
		fc.Eras = append(fc.Eras, fileEra{
			Title:    e.Title,
			Caption:  e.Caption,
			X:        e.X,
			CaptionX: e.CaptionX,
			Color:    e.Color,
		})
	}
	return fc
}
