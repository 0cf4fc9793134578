package loader

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-planner/pkg/validation"
)

// DecodeYAML reads a `nodes: [{id, rate, tunnels}]` document. Unknown keys are
// rejected.
func DecodeYAML(r io.Reader) (*validation.GraphSpec, error) {
	var spec validation.GraphSpec

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyGraph
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	if len(spec.Nodes) == 0 {
		return nil, ErrEmptyGraph
	}
	return &spec, nil
}
