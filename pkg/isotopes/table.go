package isotopes

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
)

//go:embed nist_mass.json
var embeddedDataset []byte

// UnknownElementError reports a symbol absent from the reference table.
type UnknownElementError struct {
	Symbol string
}

func (e *UnknownElementError) Error() string {
	return fmt.Sprintf("unknown element %q", e.Symbol)
}

// UnknownIsotopeError reports a mass number that is not a recognized nuclide
// of the element.
type UnknownIsotopeError struct {
	Symbol string
	Number int
}

func (e *UnknownIsotopeError) Error() string {
	return fmt.Sprintf("element %q has no isotope %d", e.Symbol, e.Number)
}

// Table is an immutable element lookup built once from a reference dataset.
// It is safe for unsynchronized concurrent reads.
type Table struct {
	elements map[string]*Element
}

// Lookup returns the element record for a symbol.
func (t *Table) Lookup(symbol string) (*Element, error) {
	elt, ok := t.elements[symbol]
	if !ok {
		return nil, &UnknownElementError{Symbol: symbol}
	}
	return elt, nil
}

// Isotope returns the nuclide with the given mass number for a symbol.
func (t *Table) Isotope(symbol string, number int) (Isotope, error) {
	elt, err := t.Lookup(symbol)
	if err != nil {
		return Isotope{}, err
	}
	iso, ok := elt.Isotope(number)
	if !ok {
		return Isotope{}, &UnknownIsotopeError{Symbol: symbol, Number: number}
	}
	return iso, nil
}

// DefaultIsotope returns the isotope record whose mass Element.Mass reports:
// the most abundant nuclide, or the averaged pseudo-entry for elements
// without stable-isotope data.
func (t *Table) DefaultIsotope(symbol string) (Isotope, error) {
	elt, err := t.Lookup(symbol)
	if err != nil {
		return Isotope{}, err
	}
	return elt.MostAbundant(), nil
}

// Len returns the number of elements in the table.
func (t *Table) Len() int {
	return len(t.elements)
}

// Symbols returns all element symbols in sorted order.
func (t *Table) Symbols() []string {
	out := make([]string, 0, len(t.elements))
	for sym := range t.elements {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// Dataset wire format.
type datasetFile struct {
	Elements []datasetElement `json:"elements"`
}

type datasetElement struct {
	Symbol       string           `json:"symbol"`
	MostAbundant int              `json:"mostAbundant"`
	Isotopes     []datasetIsotope `json:"isotopes"`
}

type datasetIsotope struct {
	Number    int     `json:"number"`
	Mass      float64 `json:"mass"`
	Abundance float64 `json:"abundance"`
}

// abundanceSumTolerance bounds how far an element's natural abundances may
// deviate from summing to 1.0 before the dataset is rejected.
const abundanceSumTolerance = 1e-4

// Load builds a table from a dataset in the embedded JSON shape. The input is
// validated: every element needs a non-empty isotope list containing its most
// abundant nuclide, and natural abundances must sum to 1.0.
func Load(r io.Reader) (*Table, error) {
	var file datasetFile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode isotope dataset: %w", err)
	}
	if len(file.Elements) == 0 {
		return nil, fmt.Errorf("isotope dataset contains no elements")
	}

	table := &Table{elements: make(map[string]*Element, len(file.Elements))}
	for _, raw := range file.Elements {
		if raw.Symbol == "" {
			return nil, fmt.Errorf("isotope dataset contains an element with an empty symbol")
		}
		if _, dup := table.elements[raw.Symbol]; dup {
			return nil, fmt.Errorf("isotope dataset defines element %q twice", raw.Symbol)
		}
		if len(raw.Isotopes) == 0 {
			return nil, fmt.Errorf("element %q has no isotopes", raw.Symbol)
		}

		elt := &Element{
			Symbol:       raw.Symbol,
			isotopes:     make(map[int]Isotope, len(raw.Isotopes)),
			mostAbundant: raw.MostAbundant,
		}
		sum := 0.0
		for _, iso := range raw.Isotopes {
			if _, dup := elt.isotopes[iso.Number]; dup {
				return nil, fmt.Errorf("element %q defines isotope %d twice", raw.Symbol, iso.Number)
			}
			if iso.Abundance < 0 || iso.Abundance > 1 {
				return nil, fmt.Errorf("element %q isotope %d has abundance %g outside [0, 1]",
					raw.Symbol, iso.Number, iso.Abundance)
			}
			elt.isotopes[iso.Number] = Isotope{
				Number:    iso.Number,
				Mass:      iso.Mass,
				Abundance: iso.Abundance,
			}
			sum += iso.Abundance
		}
		if _, ok := elt.isotopes[raw.MostAbundant]; !ok {
			return nil, fmt.Errorf("element %q declares most abundant isotope %d but does not define it",
				raw.Symbol, raw.MostAbundant)
		}
		if math.Abs(sum-1.0) > abundanceSumTolerance {
			return nil, fmt.Errorf("element %q abundances sum to %.6f, want 1.0", raw.Symbol, sum)
		}
		elt.index()
		table.elements[raw.Symbol] = elt
	}
	return table, nil
}

var (
	defaultTable *Table
	defaultOnce  sync.Once
)

// Default returns the process-wide table built from the embedded NIST-derived
// dataset. The table is constructed on first use and shared by all callers.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Load(bytes.NewReader(embeddedDataset))
		if err != nil {
			panic("isotopes: embedded dataset is invalid: " + err.Error())
		}
		defaultTable = t
	})
	return defaultTable
}
