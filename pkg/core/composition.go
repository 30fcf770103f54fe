package core

import (
	"math"
	"sort"
	"strings"

	"github.com/mobiusklein/chemical-elements/pkg/isotopes"
)

// entry stores a signed atom count together with the per-atom mass resolved
// when the entry was created, so mass queries never need table lookups.
type entry struct {
	count int
	mass  float64
}

// Composition maps element specifications to signed atom counts. Counts may
// be negative to express difference formulae; a count that reaches zero
// removes its entry. The zero value is an empty composition bound to the
// default isotope table.
//
// A composition is owned by a single caller; concurrent use requires
// external synchronization, but distinct compositions may be used from
// distinct goroutines freely.
type Composition struct {
	table   *isotopes.Table
	entries map[ElementSpec]entry
}

// Entry is one (specification, count) pair of a composition.
type Entry struct {
	Spec  ElementSpec
	Count int
}

// NewComposition returns an empty composition bound to the default isotope
// table.
func NewComposition() *Composition {
	return &Composition{}
}

// NewCompositionWith returns an empty composition bound to an explicit
// isotope table.
func NewCompositionWith(table *isotopes.Table) *Composition {
	return &Composition{table: table}
}

// Table returns the isotope table the composition validates entries against.
func (c *Composition) Table() *isotopes.Table {
	if c.table == nil {
		return isotopes.Default()
	}
	return c.table
}

func (c *Composition) ensure() {
	if c.entries == nil {
		c.entries = make(map[ElementSpec]entry, 4)
	}
}

// Len returns the number of entries.
func (c *Composition) Len() int {
	return len(c.entries)
}

// IsEmpty reports whether the composition has no entries.
func (c *Composition) IsEmpty() bool {
	return len(c.entries) == 0
}

// Get returns the count for a specification, 0 when absent.
func (c *Composition) Get(spec ElementSpec) int {
	return c.entries[spec].count
}

// GetSymbol returns the count of the natural-mix entry for a symbol.
func (c *Composition) GetSymbol(symbol string) int {
	return c.Get(Spec(symbol))
}

// Set assigns the count for a specification, validating it against the
// composition's table. A count of 0 removes the entry.
func (c *Composition) Set(spec ElementSpec, count int) error {
	mass, err := resolveMass(c.Table(), spec)
	if err != nil {
		return err
	}
	c.ensure()
	if count == 0 {
		delete(c.entries, spec)
		return nil
	}
	c.entries[spec] = entry{count: count, mass: mass}
	return nil
}

// SetSymbol assigns the count of the natural-mix entry for a symbol.
func (c *Composition) SetSymbol(symbol string, count int) error {
	return c.Set(Spec(symbol), count)
}

// Inc adds delta to the count for a specification, creating the entry when
// absent and removing it when the count reaches zero.
func (c *Composition) Inc(spec ElementSpec, delta int) error {
	if e, ok := c.entries[spec]; ok {
		if next := e.count + delta; next == 0 {
			delete(c.entries, spec)
		} else {
			c.entries[spec] = entry{count: next, mass: e.mass}
		}
		return nil
	}
	if delta == 0 {
		_, err := resolveMass(c.Table(), spec)
		return err
	}
	return c.Set(spec, delta)
}

// Add combines another composition into this one entry-wise. Entries adopted
// from the other composition keep the per-atom masses they were resolved
// with.
func (c *Composition) Add(other *Composition) {
	if other == nil {
		return
	}
	c.ensure()
	for spec, oe := range other.entries {
		c.combine(spec, oe.count, oe.mass)
	}
}

// Sub subtracts another composition from this one entry-wise.
func (c *Composition) Sub(other *Composition) {
	if other == nil {
		return
	}
	c.ensure()
	for spec, oe := range other.entries {
		c.combine(spec, -oe.count, oe.mass)
	}
}

func (c *Composition) combine(spec ElementSpec, delta int, mass float64) {
	if e, ok := c.entries[spec]; ok {
		if next := e.count + delta; next == 0 {
			delete(c.entries, spec)
		} else {
			c.entries[spec] = entry{count: next, mass: e.mass}
		}
		return
	}
	if delta != 0 {
		c.entries[spec] = entry{count: delta, mass: mass}
	}
}

// ScaleBy multiplies every count by n. A factor of 0 empties the
// composition. Fails with ArithmeticOverflowError when any product exceeds
// the representable integer range, leaving the composition unchanged.
func (c *Composition) ScaleBy(n int) error {
	if n == 0 {
		c.entries = nil
		return nil
	}
	for _, e := range c.entries {
		if mulOverflows(e.count, n) {
			return &ArithmeticOverflowError{Count: e.count, Factor: n}
		}
	}
	for spec, e := range c.entries {
		c.entries[spec] = entry{count: e.count * n, mass: e.mass}
	}
	return nil
}

// Negate flips the sign of every count, turning a formula into its
// subtraction form.
func (c *Composition) Negate() error {
	return c.ScaleBy(-1)
}

func mulOverflows(a, b int) bool {
	if a == 0 || b == 0 {
		return false
	}
	if (a == math.MinInt && b == -1) || (b == math.MinInt && a == -1) {
		return true
	}
	p := a * b
	return p/b != a
}

// Clone returns an independent copy.
func (c *Composition) Clone() *Composition {
	out := &Composition{table: c.table}
	if len(c.entries) > 0 {
		out.entries = make(map[ElementSpec]entry, len(c.entries))
		for spec, e := range c.entries {
			out.entries[spec] = e
		}
	}
	return out
}

// Equal reports whether two compositions hold the same entries with the same
// counts.
func (c *Composition) Equal(other *Composition) bool {
	if other == nil {
		return c.IsEmpty()
	}
	if len(c.entries) != len(other.entries) {
		return false
	}
	for spec, e := range c.entries {
		if other.entries[spec].count != e.count {
			return false
		}
	}
	return true
}

// Entries returns the composition's entries in canonical order: by symbol,
// then isotope number.
func (c *Composition) Entries() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for spec, e := range c.entries {
		out = append(out, Entry{Spec: spec, Count: e.count})
	}
	sort.Slice(out, func(i, j int) bool {
		return specLess(out[i].Spec, out[j].Spec)
	})
	return out
}

// Mass returns the monoisotopic mass in Daltons: the sum over every entry of
// count times the per-atom mass, where natural-mix entries contribute the
// most abundant isotope's mass and explicit-isotope entries contribute that
// nuclide's exact mass.
func (c *Composition) Mass() float64 {
	total := 0.0
	for _, e := range c.entries {
		total += float64(e.count) * e.mass
	}
	return total
}

// String renders the composition in canonical formula notation, entries in
// canonical order with counts of 1 omitted. Only compositions whose counts
// are all positive round-trip through Parse.
func (c *Composition) String() string {
	var sb strings.Builder
	for _, e := range c.Entries() {
		formatEntry(&sb, e.Spec, e.Count)
	}
	return sb.String()
}
