package chromaplot

import (
	"fmt"
	"math"

	"gonum.org/v1/plot/plotter"

	"github.com/proteinlab/elution.report/internal/akta"
	"github.com/proteinlab/elution.report/internal/monitoring"
	"github.com/proteinlab/elution.report/internal/peaks"
)

// Legend entry names, in the fixed display order UV, conductivity, buffer.
const (
	legendUV           = "UV Absorption (mAU)"
	legendConductivity = "Conductivity (mS/cm)"
	legendBuffer       = "Buffer B (%)"
)

// Fraction labels the instrument emits for non-collected eluate. They never
// get tick markers.
var reservedFractionLabels = map[string]bool{
	"Waste": true,
	"Frac":  true,
}

// overlayKind distinguishes the two secondary axes.
type overlayKind int

const (
	overlayBuffer overlayKind = iota
	overlaySalt
)

// overlaySeries is one secondary-axis curve in its native units. slot 0 is
// the innermost right-hand axis; higher slots sit further out.
type overlaySeries struct {
	kind     overlayKind
	legend   string
	xys      plotter.XYs
	min, max float64
	dashed   bool
	slot     int
}

// fractionBand is a shaded interval highlighting one collected fraction.
type fractionBand struct {
	lo, hi float64
	label  string
}

// fractionTick marks one tube change near the x-axis.
type fractionTick struct {
	volume float64
	label  string
}

// peakMark is one detected UV maximum with its annotation text.
type peakMark struct {
	x, y float64
	note string
}

// scene is everything the draw step needs, derived from one trace and one
// configuration. Building it is pure, so the rendering contract (marker
// counts, band presence, axis ranges, legend entries) is testable without
// rasterizing anything.
type scene struct {
	title      string
	uv         plotter.XYs
	xMax       float64
	yMin, yMax float64
	labelY     float64 // y position of band labels, in data units
	overlays   []overlaySeries
	bands      []fractionBand
	ticks      []fractionTick
	peaks      []peakMark
	legend     []string
}

// buildScene derives the scene from the trace. cfg must already be validated.
func buildScene(tr *akta.Trace, variant akta.Variant, cfg *PlotConfig) (*scene, error) {
	uv := finiteXY(tr.Volume, tr.UV)
	if len(uv) == 0 {
		return nil, fmt.Errorf("trace has no finite UV samples")
	}

	uvMin, uvMax, ok := tr.UVRange(cfg.GetBaselineSkipRows())
	if !ok {
		return nil, fmt.Errorf("no UV samples remain after skipping %d baseline rows",
			cfg.GetBaselineSkipRows())
	}
	span := uvMax - uvMin

	sc := &scene{
		title: cfg.GetTitle(),
		uv:    uv,
		yMin:  uvMin - span*0.02,
		yMax:  uvMax * 1.2,
	}
	sc.labelY = sc.yMin + cfg.GetFractionTextHeight()*(sc.yMax-sc.yMin)

	if cfg.XAxisLimit != nil {
		sc.xMax = *cfg.XAxisLimit
	} else {
		maxVol, ok := tr.MaxVolume()
		if !ok {
			return nil, fmt.Errorf("trace has no finite volume samples")
		}
		sc.xMax = maxVol
	}

	if cfg.GetMarkMaxima() {
		sc.peaks = detectPeaks(uv, cfg)
	}

	for _, f := range cfg.Fractions {
		lo, hi, ok := tr.FractionSpan(variant, f)
		if !ok {
			monitoring.Warnf("fraction %d has no complete boundary pair, band skipped", f)
			continue
		}
		sc.bands = append(sc.bands, fractionBand{lo: lo, hi: hi, label: fmt.Sprintf("F%d", f)})
	}

	excluded := make(map[string]bool, len(cfg.ExcludedFractionLabels))
	for _, l := range cfg.ExcludedFractionLabels {
		excluded[l] = true
	}
	for _, b := range tr.Boundaries() {
		if excluded[b.Label] || reservedFractionLabels[b.Label] {
			continue
		}
		sc.ticks = append(sc.ticks, fractionTick{volume: b.Volume, label: b.Label})
	}

	sc.legend = []string{legendUV}

	if cfg.GetShowSalt() {
		maxCond, ok := tr.MaxCond()
		if !ok {
			return nil, fmt.Errorf("show_salt is set but the trace has no finite conductivity samples")
		}
		sc.overlays = append(sc.overlays, overlaySeries{
			kind:   overlaySalt,
			legend: legendConductivity,
			xys:    finiteXY(tr.Volume, tr.Cond),
			min:    0,
			max:    maxCond * 1.2,
		})
		sc.legend = append(sc.legend, legendConductivity)
	}

	if cfg.GetShowBuffer() {
		sc.overlays = append(sc.overlays, overlaySeries{
			kind:   overlayBuffer,
			legend: legendBuffer,
			xys:    finiteXY(tr.GradVolume, tr.GradPercentB),
			min:    0,
			max:    105, // headroom above 100% keeps the plateau visible
			dashed: true,
		})
		sc.legend = append(sc.legend, legendBuffer)
	}

	// The buffer axis sits against the frame; the conductivity axis moves
	// outward when both are shown.
	if len(sc.overlays) == 2 {
		for i := range sc.overlays {
			if sc.overlays[i].kind == overlaySalt {
				sc.overlays[i].slot = 1
			}
		}
	}

	return sc, nil
}

// detectPeaks runs peak detection over the finite UV series and formats the
// annotations per the configured maxima type.
func detectPeaks(uv plotter.XYs, cfg *PlotConfig) []peakMark {
	ys := make([]float64, len(uv))
	for i := range uv {
		ys[i] = uv[i].Y
	}

	idxs := peaks.Find(ys, peaks.Options{
		MinProminence: cfg.GetMaximaProminenceThreshold(),
		MaxPlateau:    10,
		MaxWidth:      cfg.GetMaxPeakWidth(),
	})

	marks := make([]peakMark, 0, len(idxs))
	for _, i := range idxs {
		m := peakMark{x: uv[i].X, y: uv[i].Y}
		if cfg.GetMaximaType() == MaximaTypeMAU {
			m.note = fmt.Sprintf("%.1f mAU", m.y)
		} else {
			m.note = fmt.Sprintf("%.1f mL", m.x)
		}
		marks = append(marks, m)
	}
	return marks
}

// finiteXY pairs the two columns and drops rows where either value is
// missing or non-finite. The detectors sample at different rates, so the
// shorter column bounds the result.
func finiteXY(xs, ys []float64) plotter.XYs {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	out := make(plotter.XYs, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(xs[i]) || math.IsInf(xs[i], 0) || math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
			continue
		}
		out = append(out, plotter.XY{X: xs[i], Y: ys[i]})
	}
	return out
}
