// Package circuitfile reads and writes circuit diagram configs and renders
// diagrams to image files.
package circuitfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
)

// Format is a config file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unknown config extension %q (want .json, .yaml, .yml or .toml)", filepath.Ext(path))
}

// ParseFormat accepts a format name as given on a command line.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// LoadConfig reads a config file without building it.
func LoadConfig(path string) (circuit.Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return circuit.Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return circuit.Config{}, err
	}
	cfg, err := ParseConfig(data, format)
	if err != nil {
		return circuit.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Load reads and builds the diagram in path.
func Load(path string) (*circuit.Diagram, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	d, err := circuit.Build(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// ParseConfig decodes and validates a config. Structural problems are
// reported as *circuit.ConfigError; references are checked later by
// circuit.Build.
func ParseConfig(data []byte, format Format) (circuit.Config, error) {
	var fc fileConfig
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&fc)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&fc)
	case FormatTOML:
		var md toml.MetaData
		md, err = toml.Decode(string(data), &fc)
		if err == nil {
			for _, key := range md.Undecoded() {
				// Trace tables are consumed by fileTrace.UnmarshalTOML.
				if len(key) > 0 && key[0] == "traces" {
					continue
				}
				err = fmt.Errorf("unknown key %q", key.String())
				break
			}
		}
	default:
		return circuit.Config{}, fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return circuit.Config{}, fmt.Errorf("decode %s: %w", format, err)
	}
	if err := fc.check(); err != nil {
		return circuit.Config{}, err
	}
	return fc.toConfig(), nil
}

// Parse decodes, validates and builds a diagram.
func Parse(data []byte, format Format) (*circuit.Diagram, error) {
	cfg, err := ParseConfig(data, format)
	if err != nil {
		return nil, err
	}
	return circuit.Build(cfg)
}

// Marshal encodes cfg in the given format.
func Marshal(cfg circuit.Config, format Format) ([]byte, error) {
	fc := fromConfig(cfg)
	switch format {
	case FormatJSON:
		return json.MarshalIndent(fc, "", "  ")
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(fc); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatTOML:
		return marshalTOML(fc)
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// marshalTOML writes the TOML form. BurntSushi/toml cannot encode a
// reference as "int or string", so traces and refs go through plain values.
func marshalTOML(fc fileConfig) ([]byte, error) {
	type tomlTrace struct {
		ID   string `toml:"id,omitempty"`
		From any    `toml:"from"`
		To   any    `toml:"to"`
	}
	type tomlPipeline struct {
		ID     string `toml:"id"`
		Label  string `toml:"label,omitempty"`
		Color  string `toml:"color"`
		Traces []any  `toml:"traces"`
		Nodes  []any  `toml:"nodes"`
	}
	out := struct {
		Name      string         `toml:"name,omitempty"`
		Default   string         `toml:"default,omitempty"`
		Groups    []fileGroup    `toml:"groups"`
		Traces    []tomlTrace    `toml:"traces"`
		Pipelines []tomlPipeline `toml:"pipelines"`
		Eras      []fileEra      `toml:"eras,omitempty"`
	}{Name: fc.Name, Default: fc.Default, Groups: fc.Groups, Eras: fc.Eras}

	for _, t := range fc.Traces {
		out.Traces = append(out.Traces, tomlTrace{ID: t.ID, From: t.From.value(), To: t.To.value()})
	}
	for _, p := range fc.Pipelines {
		tp := tomlPipeline{ID: p.ID, Label: p.Label, Color: p.Color, Traces: []any{}, Nodes: []any{}}
		for _, r := range p.Traces {
			tp.Traces = append(tp.Traces, r.value())
		}
		for _, r := range p.Nodes {
			tp.Nodes = append(tp.Nodes, r.value())
		}
		out.Pipelines = append(out.Pipelines, tp)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
