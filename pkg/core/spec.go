// Package core implements the chemical-composition data model: element and
// isotope specifications, formula parsing and rendering, arithmetic over
// element counts, and monoisotopic mass computation.
package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mobiusklein/chemical-elements/pkg/isotopes"
)

// ElementSpec selects the isotope mix for one element: the natural mix when
// Isotope is 0, or one explicit nuclide by mass number. It is a comparable
// value type and serves as the key of a Composition; two specifications are
// equal exactly when symbol and isotope number match.
type ElementSpec struct {
	Symbol  string
	Isotope int
}

// Spec returns the natural-mix specification for a symbol.
func Spec(symbol string) ElementSpec {
	return ElementSpec{Symbol: symbol}
}

// IsotopeSpec returns the specification for one explicit nuclide.
func IsotopeSpec(symbol string, isotope int) ElementSpec {
	return ElementSpec{Symbol: symbol, Isotope: isotope}
}

// String renders the specification in formula notation: "C" for the natural
// mix, "C[13]" for an explicit nuclide.
func (s ElementSpec) String() string {
	if s.Isotope == 0 {
		return s.Symbol
	}
	return s.Symbol + "[" + strconv.Itoa(s.Isotope) + "]"
}

// ParseSpec parses "C" or "C[13]" notation and validates the result against
// the default isotope table.
func ParseSpec(text string) (ElementSpec, error) {
	return ParseSpecWith(isotopes.Default(), text)
}

// ParseSpecWith parses element-specification notation against an explicit
// table.
func ParseSpecWith(table *isotopes.Table, text string) (ElementSpec, error) {
	symbol := text
	isotope := 0
	if i := strings.IndexByte(text, '['); i >= 0 {
		if !strings.HasSuffix(text, "]") || i == 0 || i+1 >= len(text)-1 {
			return ElementSpec{}, &MalformedFormulaError{
				Formula: text,
				Offset:  i,
				Reason:  "invalid isotope annotation",
			}
		}
		number, err := strconv.Atoi(text[i+1 : len(text)-1])
		if err != nil || number <= 0 {
			return ElementSpec{}, &MalformedFormulaError{
				Formula: text,
				Offset:  i + 1,
				Reason:  "isotope annotation must be a positive integer",
			}
		}
		symbol = text[:i]
		isotope = number
	}

	spec := ElementSpec{Symbol: symbol, Isotope: isotope}
	if _, err := resolveMass(table, spec); err != nil {
		return ElementSpec{}, err
	}
	return spec, nil
}

// resolveMass looks up the per-atom mass a specification contributes: the
// monoisotopic mass for the natural mix, or the exact nuclide mass for an
// explicit isotope.
func resolveMass(table *isotopes.Table, spec ElementSpec) (float64, error) {
	if spec.Isotope == 0 {
		elt, err := table.Lookup(spec.Symbol)
		if err != nil {
			return 0, err
		}
		return elt.Mass(), nil
	}
	iso, err := table.Isotope(spec.Symbol, spec.Isotope)
	if err != nil {
		return 0, err
	}
	return iso.Mass, nil
}

// specLess is the canonical entry order: by symbol, then isotope number.
func specLess(a, b ElementSpec) bool {
	if a.Symbol != b.Symbol {
		return a.Symbol < b.Symbol
	}
	return a.Isotope < b.Isotope
}

// formatEntry renders one entry in formula notation, omitting a count of 1.
func formatEntry(sb *strings.Builder, spec ElementSpec, count int) {
	sb.WriteString(spec.String())
	if count != 1 {
		fmt.Fprintf(sb, "%d", count)
	}
}
