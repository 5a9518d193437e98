// Package obfuscate masks named fields in CSV, JSON and Parquet payloads.
//
// Every function here is pure: payloads and field lists are never modified,
// and nothing is logged. Fields that are absent from the data are reported in
// Result.Skipped so the caller can decide how to surface them.
package obfuscate

// Mask replaces the value of every obfuscated field.
const Mask = "***"

// Result is the output of an obfuscation.
type Result struct {
	// Data is the masked payload, in the same format as the input.
	Data []byte
	// Skipped lists requested fields not present in the data, in request order.
	Skipped []string
	// Malformed is set when a CSV or JSON payload could not be parsed and was
	// treated as empty. It is informational, not a failure.
	Malformed error
}

// schema maps field names to their positions, built once per payload.
type schema struct {
	names []string
	index map[string][]int
}

func newSchema(names []string) schema {
	s := schema{names: names, index: make(map[string][]int, len(names))}
	for i, n := range names {
		s.index[n] = append(s.index[n], i)
	}
	return s
}

func (s schema) has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// resolve splits the requested fields into the positions to mask and the
// names the schema does not know.
func (s schema) resolve(fields []string) (positions []int, skipped []string) {
	for _, f := range fields {
		p, ok := s.index[f]
		if !ok {
			skipped = append(skipped, f)
			continue
		}
		positions = append(positions, p...)
	}
	return positions, skipped
}
