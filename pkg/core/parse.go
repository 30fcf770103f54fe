package core

import (
	"strconv"

	"github.com/mobiusklein/chemical-elements/pkg/isotopes"
)

// Parse builds a composition from formula text against the default isotope
// table.
//
// The grammar accepts case-sensitive element symbols (an uppercase letter
// followed by lowercase letters), an optional bracketed isotope annotation
// ("C[13]"), an optional positive repetition count (absent means 1), and
// parenthesized groups with their own trailing multiplier ("(CH2)6").
// Whitespace between tokens is ignored. Repeated mention of the same
// element accumulates.
func Parse(formula string) (*Composition, error) {
	return ParseWith(isotopes.Default(), formula)
}

// ParseWith parses formula text against an explicit isotope table.
func ParseWith(table *isotopes.Table, formula string) (*Composition, error) {
	p := &formulaParser{table: table, formula: formula}
	comp, err := p.parseGroup(0)
	if err != nil {
		return nil, err
	}
	return comp, nil
}

// MustParse is Parse for statically known formulae; it panics on error.
func MustParse(formula string) *Composition {
	comp, err := Parse(formula)
	if err != nil {
		panic("core: MustParse(" + strconv.Quote(formula) + "): " + err.Error())
	}
	return comp
}

// formulaParser walks the formula left to right in a single pass, recursing
// into parenthesized groups.
type formulaParser struct {
	table   *isotopes.Table
	formula string
	pos     int
}

func (p *formulaParser) fail(offset int, reason string) error {
	return &MalformedFormulaError{Formula: p.formula, Offset: offset, Reason: reason}
}

// parseGroup consumes tokens until the group's closing parenthesis (consumed)
// or, at depth 0, the end of input.
func (p *formulaParser) parseGroup(depth int) (*Composition, error) {
	comp := NewCompositionWith(p.table)
	for p.pos < len(p.formula) {
		switch ch := p.formula[p.pos]; {
		case ch == ' ' || ch == '\t':
			p.pos++

		case ch == '(':
			p.pos++
			sub, err := p.parseGroup(depth + 1)
			if err != nil {
				return nil, err
			}
			count, present, err := p.readCount()
			if err != nil {
				return nil, err
			}
			if present {
				if err := sub.ScaleBy(count); err != nil {
					return nil, err
				}
			}
			comp.Add(sub)

		case ch == ')':
			if depth == 0 {
				return nil, p.fail(p.pos, "unmatched closing parenthesis")
			}
			p.pos++
			return comp, nil

		case ch >= 'A' && ch <= 'Z':
			if err := p.parseElement(comp); err != nil {
				return nil, err
			}

		default:
			return nil, p.fail(p.pos, "unexpected character "+strconv.QuoteRune(rune(ch)))
		}
	}
	if depth > 0 {
		return nil, p.fail(len(p.formula), "unbalanced parentheses")
	}
	return comp, nil
}

// parseElement consumes one symbol with its optional isotope annotation and
// count, and accumulates it into comp.
func (p *formulaParser) parseElement(comp *Composition) error {
	start := p.pos
	p.pos++
	for p.pos < len(p.formula) && p.formula[p.pos] >= 'a' && p.formula[p.pos] <= 'z' {
		p.pos++
	}
	symbol := p.formula[start:p.pos]

	isotope := 0
	if p.pos < len(p.formula) && p.formula[p.pos] == '[' {
		open := p.pos
		p.pos++
		digits := p.pos
		for p.pos < len(p.formula) && isDigit(p.formula[p.pos]) {
			p.pos++
		}
		if p.pos == digits || p.pos >= len(p.formula) || p.formula[p.pos] != ']' {
			return p.fail(open, "invalid isotope annotation")
		}
		number, err := strconv.Atoi(p.formula[digits:p.pos])
		if err != nil || number == 0 {
			return p.fail(digits, "isotope annotation must be a positive integer")
		}
		isotope = number
		p.pos++
	}

	count, present, err := p.readCount()
	if err != nil {
		return err
	}
	if !present {
		count = 1
	}

	spec := ElementSpec{Symbol: symbol, Isotope: isotope}
	if _, err := resolveMass(p.table, spec); err != nil {
		return err
	}
	return comp.Inc(spec, count)
}

// readCount consumes an optional repetition count. A present count must be a
// positive integer.
func (p *formulaParser) readCount() (int, bool, error) {
	start := p.pos
	for p.pos < len(p.formula) && isDigit(p.formula[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return 0, false, nil
	}
	n, err := strconv.Atoi(p.formula[start:p.pos])
	if err != nil {
		return 0, false, p.fail(start, "repetition count out of range")
	}
	if n == 0 {
		return 0, false, p.fail(start, "repetition count must be positive")
	}
	return n, true, nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
