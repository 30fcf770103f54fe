package core

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the composition as a flat object mapping
// element-specification strings to counts, e.g. {"C":6,"H":12,"O":6}.
func (c *Composition) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, c.Len())
	for _, e := range c.Entries() {
		out[e.Spec.String()] = e.Count
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the flat object form, replacing the composition's
// current entries. Specification strings are validated against the
// composition's table; zero counts are dropped so the round-trip reproduces
// the same non-zero entries.
func (c *Composition) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode composition: %w", err)
	}
	c.entries = nil
	c.ensure()
	for text, count := range raw {
		if count == 0 {
			continue
		}
		spec, err := ParseSpecWith(c.Table(), text)
		if err != nil {
			return err
		}
		if err := c.Set(spec, count); err != nil {
			return err
		}
	}
	return nil
}
