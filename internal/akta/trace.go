// Package akta loads AKTA chromatography exports into a columnar Trace.
//
// Two export variants exist: "small" (UTF-8, comma- or tab-delimited) and
// "large" (UTF-16, tab-delimited). Both place the same semantic columns at
// fixed positions and carry three report header lines before the data.
package akta

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Variant selects the instrument control-software export convention.
type Variant string

const (
	// VariantSmall is the small-instrument export: UTF-8, three header
	// lines, comma- or tab-delimited, fraction labels prefixed with "T".
	VariantSmall Variant = "small"

	// VariantLarge is the large-instrument export: UTF-16, three header
	// lines, tab-delimited, plain numeric fraction labels.
	VariantLarge Variant = "large"
)

// FileType selects the delimiter convention of a small-variant export.
type FileType string

const (
	// FileTypeCSV is a comma-delimited ".csv" export.
	FileTypeCSV FileType = "csv"

	// FileTypeASC is a tab-delimited ".asc" export.
	FileTypeASC FileType = "asc"
)

// Trace is one chromatography run as parallel measurement columns. The UV
// and gradient detectors sample at different rates, so the gradient columns
// carry their own volume axis. Fraction columns are sparse: most rows hold
// NaN / "" and only tube-change rows carry a boundary volume and label.
// A Trace is immutable after load.
type Trace struct {
	Volume       []float64 // elution volume at the UV sample (mL)
	UV           []float64 // UV absorbance (mAU)
	GradVolume   []float64 // elution volume at the gradient sample (mL)
	GradPercentB []float64 // buffer B percentage at GradVolume, 0-100
	FracVolume   []float64 // volume of a fraction boundary; NaN elsewhere
	FracLabel    []string  // fraction label at the boundary; "" elsewhere
	Cond         []float64 // conductivity (mS/cm)
}

// Boundary is one fraction tube change recorded in the trace.
type Boundary struct {
	Volume float64
	Label  string
}

// Len returns the number of rows in the trace.
func (t *Trace) Len() int { return len(t.Volume) }

// MaxVolume returns the largest finite elution volume, or false when the
// trace holds no finite volume samples.
func (t *Trace) MaxVolume() (float64, bool) {
	f := finite(t.Volume)
	if len(f) == 0 {
		return 0, false
	}
	return floats.Max(f), true
}

// UVRange returns the minimum and maximum finite absorbance, considering
// only rows at index >= skip for the minimum. The maximum is always taken
// over the whole series. Returns false when no finite samples remain.
func (t *Trace) UVRange(skip int) (min, max float64, ok bool) {
	all := finite(t.UV)
	if len(all) == 0 {
		return 0, 0, false
	}
	max = floats.Max(all)

	if skip < 0 {
		skip = 0
	}
	if skip >= len(t.UV) {
		return 0, 0, false
	}
	tail := finite(t.UV[skip:])
	if len(tail) == 0 {
		return 0, 0, false
	}
	return floats.Min(tail), max, true
}

// MaxCond returns the largest finite conductivity reading, or false when
// the trace holds none.
func (t *Trace) MaxCond() (float64, bool) {
	f := finite(t.Cond)
	if len(f) == 0 {
		return 0, false
	}
	return floats.Max(f), true
}

// Boundaries returns all fraction boundaries present in the trace, in row
// order. Rows without a boundary volume or label are skipped.
func (t *Trace) Boundaries() []Boundary {
	var out []Boundary
	for i := range t.FracVolume {
		if math.IsNaN(t.FracVolume[i]) || t.FracLabel[i] == "" {
			continue
		}
		out = append(out, Boundary{Volume: t.FracVolume[i], Label: t.FracLabel[i]})
	}
	return out
}

// FractionLabel formats fraction number n the way the given variant labels
// its tubes: "T{n}" for small instruments, "{n}" for large ones. Labels are
// compared as exact strings, never numerically.
func FractionLabel(variant Variant, n int) string {
	if variant == VariantSmall {
		return fmt.Sprintf("T%d", n)
	}
	return fmt.Sprintf("%d", n)
}

// FractionSpan returns the volume interval covered by fraction n: the
// boundary labelled n gives the left edge and the boundary labelled n+1 the
// right edge. Returns false when either boundary is absent.
func (t *Trace) FractionSpan(variant Variant, n int) (lo, hi float64, ok bool) {
	lo, okLo := t.boundaryVolume(FractionLabel(variant, n))
	hi, okHi := t.boundaryVolume(FractionLabel(variant, n+1))
	return lo, hi, okLo && okHi
}

// boundaryVolume returns the volume of the first boundary row whose label
// matches exactly.
func (t *Trace) boundaryVolume(label string) (float64, bool) {
	for i := range t.FracLabel {
		if t.FracLabel[i] == label && !math.IsNaN(t.FracVolume[i]) {
			return t.FracVolume[i], true
		}
	}
	return 0, false
}

// finite copies the finite values of xs, dropping NaN and infinities.
func finite(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	return out
}
