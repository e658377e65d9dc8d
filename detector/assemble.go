package detector

import "sort"

// Assemble orders channel traces by detector id. The response stage may
// run channels in parallel; merging in a fixed, seed-independent order
// keeps the result bundle deterministic.
func Assemble(traces []*Trace) []*Trace {
	out := append([]*Trace(nil), traces...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].DetectorID < out[j].DetectorID
	})
	return out
}
