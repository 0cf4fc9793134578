package loader

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-planner/pkg/validation"
)

// lineRx matches one node of the text format, singular or plural:
//
//	Valve AA has flow rate=0; tunnels lead to valves DD, II, BB
//	Valve HH has flow rate=22; tunnel leads to valve GG
var lineRx = regexp.MustCompile(`^Valve (\w+) has flow rate=(\d+); tunnels? leads? to valves? ([\w, ]+)$`)

// DecodeText reads the line-oriented text format. Blank lines are skipped.
func DecodeText(r io.Reader) (*validation.GraphSpec, error) {
	spec := &validation.GraphSpec{}
	scanner := bufio.NewScanner(r)

	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		m := lineRx.FindStringSubmatch(text)
		if m == nil {
			return nil, fmt.Errorf("%w %d: %q", ErrMalformedLine, line, text)
		}
		rate, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, fmt.Errorf("%w %d: rate %s: %v", ErrMalformedLine, line, m[2], err)
		}

		node := validation.NodeSpec{ID: m[1], Rate: rate}
		for _, t := range strings.Split(m[3], ",") {
			if t = strings.TrimSpace(t); t != "" {
				node.Tunnels = append(node.Tunnels, t)
			}
		}
		spec.Nodes = append(spec.Nodes, node)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(spec.Nodes) == 0 {
		return nil, ErrEmptyGraph
	}
	return spec, nil
}
