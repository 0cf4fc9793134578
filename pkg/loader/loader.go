package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/exp/mmap"

	"github.com/dd0wney/cluso-planner/pkg/graph"
	"github.com/dd0wney/cluso-planner/pkg/logging"
	"github.com/dd0wney/cluso-planner/pkg/metrics"
	"github.com/dd0wney/cluso-planner/pkg/validation"
)

// Format names a graph description format.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a format name. The empty string means "detect from
// the file name".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatYAML, "":
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath picks a format by file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".in", "":
		return FormatText, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
	}
}

// Decode reads a graph description in format f.
func Decode(r io.Reader, f Format) (*validation.GraphSpec, error) {
	switch f {
	case FormatText:
		return DecodeText(r)
	case FormatYAML:
		return DecodeYAML(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// Build validates spec and turns it into a graph.
func Build(spec *validation.GraphSpec) (*graph.Graph, error) {
	if err := validation.ValidateGraphSpec(spec); err != nil {
		return nil, err
	}

	nodes := make([]graph.Node, len(spec.Nodes))
	for i, n := range spec.Nodes {
		nodes[i] = graph.Node{ID: graph.NodeID(n.ID), Rate: n.Rate}
		for _, t := range n.Tunnels {
			nodes[i].Neighbors = append(nodes[i].Neighbors, graph.NodeID(t))
		}
	}
	return graph.New(nodes)
}

// Loader reads graph descriptions, logging and counting every load.
type Loader struct {
	logger  logging.Logger
	metrics *metrics.Registry
}

// New creates a loader. Both arguments may be nil.
func New(logger logging.Logger, reg *metrics.Registry) *Loader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Loader{logger: logger.With(logging.Component("loader")), metrics: reg}
}

// Load decodes and builds a graph from r.
func (l *Loader) Load(r io.Reader, f Format) (*graph.Graph, error) {
	g, err := l.load(r, f)
	l.record(f, g, err)
	return g, err
}

// LoadFile memory-maps path and builds a graph from it. An empty format is
// detected from the extension.
func (l *Loader) LoadFile(path string, f Format) (*graph.Graph, error) {
	if f == "" {
		detected, err := FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		f = detected
	}

	reader, err := mmap.Open(path)
	if err != nil {
		l.record(f, nil, err)
		return nil, fmt.Errorf("open graph file: %w", err)
	}
	defer reader.Close()

	g, err := l.load(io.NewSectionReader(reader, 0, int64(reader.Len())), f)
	l.record(f, g, err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l.logger.Info("graph loaded",
		logging.File(path),
		logging.String("format", string(f)),
		logging.Count(g.Len()),
		logging.Int("useful", len(g.Useful())),
	)
	return g, nil
}

func (l *Loader) load(r io.Reader, f Format) (*graph.Graph, error) {
	spec, err := Decode(r, f)
	if err != nil {
		return nil, err
	}
	return Build(spec)
}

func (l *Loader) record(f Format, g *graph.Graph, err error) {
	if l.metrics == nil {
		return
	}
	if err != nil {
		l.metrics.RecordGraphLoad(string(f), "error", 0, 0)
		return
	}
	l.metrics.RecordGraphLoad(string(f), "success", g.Len(), len(g.Useful()))
}
