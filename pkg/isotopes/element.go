// Package isotopes provides the periodic-table reference data used for mass
// and isotopic-pattern calculations: per-element isotope masses and natural
// abundances, loaded once and read-only thereafter.
package isotopes

import "sort"

// Isotope describes a single nuclide of an element.
type Isotope struct {
	// Number is the nuclide mass number. 0 marks the averaged pseudo-entry
	// used for elements without stable-isotope data.
	Number int
	// Mass is the atomic mass in Daltons.
	Mass float64
	// Abundance is the natural relative frequency in [0, 1].
	Abundance float64
	// NeutronShift is the neutron count relative to the element's most
	// abundant nuclide.
	NeutronShift int
}

// Element holds one element's isotope records, indexed for lookup by mass
// number and by neutron shift.
type Element struct {
	Symbol string

	isotopes     map[int]Isotope
	byShift      map[int]int
	mostAbundant int
	minShift     int
	maxShift     int
}

// Mass returns the mass of the element's most abundant isotope, the value
// used for monoisotopic mass calculations.
func (e *Element) Mass() float64 {
	return e.isotopes[e.mostAbundant].Mass
}

// MostAbundant returns the element's most abundant isotope record.
func (e *Element) MostAbundant() Isotope {
	return e.isotopes[e.mostAbundant]
}

// Isotope returns the nuclide with the given mass number, if known.
func (e *Element) Isotope(number int) (Isotope, bool) {
	iso, ok := e.isotopes[number]
	return iso, ok
}

// ByShift returns the nuclide at the given neutron shift relative to the most
// abundant isotope, if known.
func (e *Element) ByShift(shift int) (Isotope, bool) {
	number, ok := e.byShift[shift]
	if !ok {
		return Isotope{}, false
	}
	return e.isotopes[number], true
}

// Isotopes returns the element's isotope records ordered by ascending mass
// number.
func (e *Element) Isotopes() []Isotope {
	out := make([]Isotope, 0, len(e.isotopes))
	for _, iso := range e.isotopes {
		out = append(out, iso)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Number < out[j].Number
	})
	return out
}

// MinNeutronShift returns the smallest neutron shift among the element's
// isotopes (negative when nuclides lighter than the most abundant exist).
func (e *Element) MinNeutronShift() int {
	return e.minShift
}

// MaxNeutronShift returns the largest neutron shift among the element's
// isotopes.
func (e *Element) MaxNeutronShift() int {
	return e.maxShift
}

// index computes neutron shifts and the shift lookup from the raw isotope set.
func (e *Element) index() {
	e.byShift = make(map[int]int, len(e.isotopes))
	first := true
	for number, iso := range e.isotopes {
		shift := number - e.mostAbundant
		if e.mostAbundant == 0 {
			shift = 0
		}
		iso.NeutronShift = shift
		e.isotopes[number] = iso
		e.byShift[shift] = number
		if first || shift < e.minShift {
			e.minShift = shift
		}
		if first || shift > e.maxShift {
			e.maxShift = shift
		}
		first = false
	}
}
