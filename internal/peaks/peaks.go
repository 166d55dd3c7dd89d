// Package peaks detects local maxima in a sampled signal by prominence,
// plateau size, and width. The renderer uses it to mark elution peak maxima
// on the UV absorbance series.
package peaks

import "math"

// Options controls which local maxima qualify as peaks.
type Options struct {
	// MinProminence discards maxima whose prominence is below this value.
	MinProminence float64

	// MaxPlateau is the longest flat top, in samples, still counted as a
	// single peak. Zero or negative means no plateau limit.
	MaxPlateau int

	// MaxWidth discards peaks wider than this many samples, measured at
	// half of the peak's prominence. Zero or negative means no width limit.
	MaxWidth float64
}

// Find returns the indices of peaks in y, in ascending order.
//
// A peak is a sample (or the midpoint of a plateau of equal samples) that is
// strictly higher than its neighbours on both sides. Prominence is the height
// of the peak above the higher of the two lowest points separating it from
// taller terrain, the usual topographic definition. NaN samples never
// participate in comparisons, so runs containing NaN produce no peaks.
func Find(y []float64, opts Options) []int {
	var found []int
	n := len(y)

	i := 1
	for i < n-1 {
		if !(y[i-1] < y[i]) {
			i++
			continue
		}

		// Extend over a flat top.
		j := i
		for j < n-1 && y[j+1] == y[i] {
			j++
		}
		if j < n-1 && y[j+1] < y[i] {
			plateau := j - i + 1
			if opts.MaxPlateau <= 0 || plateau <= opts.MaxPlateau {
				p := (i + j) / 2
				prom, lb, rb := prominence(y, p, i, j)
				if prom >= opts.MinProminence {
					if opts.MaxWidth <= 0 || width(y, p, lb, rb, prom) <= opts.MaxWidth {
						found = append(found, p)
					}
				}
			}
		}
		i = j + 1
	}

	return found
}

// prominence computes the peak's prominence and its left and right base
// indices. left and right delimit the plateau so the search skips over it.
func prominence(y []float64, p, left, right int) (prom float64, lb, rb int) {
	h := y[p]

	lmin, lb := h, p
	for i := left - 1; i >= 0; i-- {
		if y[i] > h {
			break
		}
		if y[i] < lmin {
			lmin, lb = y[i], i
		}
	}

	rmin, rb := h, p
	for i := right + 1; i < len(y); i++ {
		if y[i] > h {
			break
		}
		if y[i] < rmin {
			rmin, rb = y[i], i
		}
	}

	return h - math.Max(lmin, rmin), lb, rb
}

// width measures the peak's width in samples at half its prominence, with
// linear interpolation between samples at the crossing points.
func width(y []float64, p, lb, rb int, prom float64) float64 {
	h := y[p] - prom*0.5

	leftIP := float64(lb)
	for i := p; i > lb; i-- {
		if y[i-1] <= h {
			leftIP = float64(i - 1)
			if y[i] != y[i-1] {
				leftIP += (h - y[i-1]) / (y[i] - y[i-1])
			}
			break
		}
	}

	rightIP := float64(rb)
	for i := p; i < rb; i++ {
		if y[i+1] <= h {
			rightIP = float64(i + 1)
			if y[i] != y[i+1] {
				rightIP -= (h - y[i+1]) / (y[i] - y[i+1])
			}
			break
		}
	}

	return rightIP - leftIP
}
