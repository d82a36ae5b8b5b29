package circuitfile

import (
	_ "embed"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
)

//go:embed skills.yaml
var defaultYAML []byte

// DefaultYAML returns the source of the built-in board.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

// DefaultConfig returns the built-in board. It panics if the embedded file
// is broken, which the package tests rule out.
func DefaultConfig() circuit.Config {
	cfg, err := ParseConfig(defaultYAML, FormatYAML)
	if err != nil {
		panic("circuitfile: embedded board: " + err.Error())
	}
	return cfg
}

// DefaultDiagram builds a fresh copy of the built-in board.
func DefaultDiagram() *circuit.Diagram {
	return circuit.MustBuild(DefaultConfig())
}
