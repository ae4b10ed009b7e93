// Package filtergraph assembles filter_complex strings for the opening and
// content scene graphs (C4). Graphs are built as an ordered list of stages
// and serialised once at the end; stage bodies are never spliced into each
// other as raw strings mid-assembly.
package filtergraph

import "strings"

// Stage is one filter_complex link: a comma-joined chain of filters reading
// from Inputs labels and writing to Outputs labels.
type Stage struct {
	Inputs  []string
	Filters []string
	Outputs []string
}

// Graph is an ordered sequence of stages plus the final output/audio labels
// a caller maps with -map.
type Graph struct {
	Stages    []Stage
	VideoOut  string
	AudioOut  string
}

// Serialize renders the graph to a single filter_complex argument, joining
// stages with ';' per the external tool's filtergraph syntax.
func (g Graph) Serialize() string {
	parts := make([]string, 0, len(g.Stages))
	for _, s := range g.Stages {
		parts = append(parts, s.serialize())
	}
	return strings.Join(parts, ";")
}

func (s Stage) serialize() string {
	var b strings.Builder
	for _, in := range s.Inputs {
		b.WriteString("[")
		b.WriteString(in)
		b.WriteString("]")
	}
	b.WriteString(strings.Join(s.Filters, ","))
	for _, out := range s.Outputs {
		b.WriteString("[")
		b.WriteString(out)
		b.WriteString("]")
	}
	return b.String()
}

// appendStage is a small helper so callers build graphs by repeated
// append rather than inline slice literals spread across functions.
func appendStage(g *Graph, inputs []string, filters []string, outputs []string) {
	g.Stages = append(g.Stages, Stage{Inputs: inputs, Filters: filters, Outputs: outputs})
}
