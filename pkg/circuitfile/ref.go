package circuitfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
)

// fileRef is a node or trace reference as written in a config file:
// a bare integer position or a string identifier.
type fileRef struct {
	circuit.Ref
}

func refFromAny(v any) (fileRef, error) {
	switch x := v.(type) {
	case int64:
		return fileRef{circuit.At(int(x))}, nil
	case int:
		return fileRef{circuit.At(x)}, nil
	case float64:
		if x != float64(int(x)) {
			return fileRef{}, fmt.Errorf("reference %v is not an integer", x)
		}
		return fileRef{circuit.At(int(x))}, nil
	case string:
		return fileRef{circuit.Named(x)}, nil
	}
	return fileRef{}, fmt.Errorf("reference must be an integer or a string, got %T", v)
}

func (r fileRef) value() any {
	if r.IsNamed() {
		return r.ID
	}
	return r.Index
}

func (r *fileRef) UnmarshalJSON(data []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	if n, ok := v.(json.Number); ok {
		i, err := strconv.Atoi(n.String())
		if err != nil {
			return fmt.Errorf("reference %s is not an integer", n)
		}
		v = i
	}
	ref, err := refFromAny(v)
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

func (r fileRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.value())
}

func (r *fileRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: reference must be a scalar", node.Line)
	}
	if node.Tag == "!!int" {
		i, err := strconv.Atoi(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*r = fileRef{circuit.At(i)}
		return nil
	}
	*r = fileRef{circuit.Named(node.Value)}
	return nil
}

func (r fileRef) MarshalYAML() (any, error) {
	return r.value(), nil
}

func (r *fileRef) UnmarshalTOML(v any) error {
	ref, err := refFromAny(v)
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

// fileTrace is a directed trace. Files may spell it as an object
// {from, to, id} or as a two element array [from, to].
type fileTrace struct {
	ID   string  `json:"id,omitempty" yaml:"id,omitempty"`
	From fileRef `json:"from" yaml:"from"`
	To   fileRef `json:"to" yaml:"to"`
}

type traceObject fileTrace

func (t *fileTrace) setPair(pair []fileRef) error {
	if len(pair) != 2 {
		return fmt.Errorf("trace must have exactly two endpoints, got %d", len(pair))
	}
	*t = fileTrace{From: pair[0], To: pair[1]}
	return nil
}

func (t *fileTrace) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var pair []fileRef
		if err := json.Unmarshal(data, &pair); err != nil {
			return err
		}
		return t.setPair(pair)
	}
	var obj traceObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*t = fileTrace(obj)
	return nil
}

func (t *fileTrace) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var pair []fileRef
		if err := node.Decode(&pair); err != nil {
			return err
		}
		return t.setPair(pair)
	}
	var obj traceObject
	if err := node.Decode(&obj); err != nil {
		return err
	}
	*t = fileTrace(obj)
	return nil
}

func (t *fileTrace) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case []any:
		pair := make([]fileRef, 0, len(x))
		for _, e := range x {
			ref, err := refFromAny(e)
			if err != nil {
				return err
			}
			pair = append(pair, ref)
		}
		return t.setPair(pair)
	case map[string]any:
		var out fileTrace
		if id, ok := x["id"].(string); ok {
			out.ID = id
		}
		var err error
		if out.From, err = refFromAny(x["from"]); err != nil {
			return fmt.Errorf("from: %w", err)
		}
		if out.To, err = refFromAny(x["to"]); err != nil {
			return fmt.Errorf("to: %w", err)
		}
		*t = out
		return nil
	}
	return fmt.Errorf("trace must be an array or a table, got %T", v)
}
