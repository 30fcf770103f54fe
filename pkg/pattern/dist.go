package pattern

import "sort"

// term is one outcome of an isotope distribution: a mass and its probability.
type term struct {
	mass float64
	prob float64
}

// dist is a discrete mass distribution, kept sorted by ascending mass with
// probability mass aggregated per distinct mass. A single-atom element
// distribution has one term per isotope; convolution combines distributions
// additively over masses and multiplicatively over probabilities.
type dist []term

// coalesceWidth is the mass window within which convolution terms are treated
// as the same isotopologue and aggregated. The narrowest real fine-structure
// gaps are around 1e-3 Da, three orders of magnitude wider.
const coalesceWidth = 1e-6

// convolve returns the cross product of two distributions: every pair of
// terms contributes (a.mass + b.mass, a.prob * b.prob). The result is raw and
// must be compacted before further use.
func convolve(a, b dist) dist {
	out := make(dist, 0, len(a)*len(b))
	for _, ta := range a {
		for _, tb := range b {
			out = append(out, term{mass: ta.mass + tb.mass, prob: ta.prob * tb.prob})
		}
	}
	return out
}

// compact sorts a raw distribution by mass, aggregates terms closer than the
// coalesce width, and drops terms whose probability falls below threshold
// times the largest aggregated probability. Compacting after every
// convolution step is what keeps term counts bounded for high-multiplicity
// elements.
func compact(d dist, threshold float64) dist {
	if len(d) == 0 {
		return d
	}
	sort.Slice(d, func(i, j int) bool { return d[i].mass < d[j].mass })

	out := d[:1]
	for _, t := range d[1:] {
		last := &out[len(out)-1]
		if t.mass-last.mass < coalesceWidth {
			last.prob += t.prob
		} else {
			out = append(out, t)
		}
	}

	max := 0.0
	for _, t := range out {
		if t.prob > max {
			max = t.prob
		}
	}
	cutoff := max * threshold
	kept := out[:0]
	for _, t := range out {
		if t.prob >= cutoff {
			kept = append(kept, t)
		}
	}
	return kept
}

// power raises a single-atom distribution to the n-th convolution power by
// square-and-multiply, compacting after every step. n must be positive.
func power(d dist, n int, threshold float64) dist {
	result := dist{{mass: 0, prob: 1}}
	base := compact(append(dist(nil), d...), threshold)
	for n > 0 {
		if n&1 == 1 {
			result = compact(convolve(result, base), threshold)
		}
		n >>= 1
		if n > 0 {
			base = compact(convolve(base, base), threshold)
		}
	}
	return result
}
