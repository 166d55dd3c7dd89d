package chromaplot

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/proteinlab/elution.report/internal/akta"
	"github.com/proteinlab/elution.report/internal/fsutil"
)

// Renderer writes elution trace figures. The zero value is not usable;
// construct one with NewRenderer or NewRendererWithFS.
type Renderer struct {
	fs fsutil.FileSystem
}

// NewRenderer returns a Renderer writing to the OS filesystem.
func NewRenderer() *Renderer {
	return &Renderer{fs: fsutil.OSFileSystem{}}
}

// NewRendererWithFS returns a Renderer writing to the given filesystem.
// Tests use this with a memory filesystem.
func NewRendererWithFS(fs fsutil.FileSystem) *Renderer {
	return &Renderer{fs: fs}
}

// Render composes the figure for the trace and writes it to
// {name}.{output_format}. The variant controls how fraction numbers in the
// configuration are matched against the trace's labels. A nil cfg renders
// with all defaults.
func (r *Renderer) Render(name string, tr *akta.Trace, variant akta.Variant, cfg *PlotConfig) error {
	if cfg == nil {
		cfg = &PlotConfig{}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("plot config: %w", err)
	}
	if _, err := (akta.LoadOptions{}).Normalize(variant); err != nil {
		return err
	}

	sc, err := buildScene(tr, variant, cfg)
	if err != nil {
		return err
	}

	p, err := r.compose(sc, cfg)
	if err != nil {
		return err
	}

	return r.write(p, name, cfg, len(sc.overlays))
}

// compose maps the scene onto a gonum plot.
func (r *Renderer) compose(sc *scene, cfg *PlotConfig) (*plot.Plot, error) {
	uvColor, err := parseHexColor(cfg.GetUVColor())
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = sc.title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Elution Volume (mL)"
	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.Text = legendUV
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.TextStyle.Color = uvColor
	p.Y.Tick.Label.Color = uvColor

	// Bands go in first so every line draws on top of them.
	if len(sc.bands) > 0 {
		p.Add(&bandsPlotter{bands: sc.bands, labelY: sc.labelY})
	}

	uvLine, err := plotter.NewLine(sc.uv)
	if err != nil {
		return nil, fmt.Errorf("uv line: %w", err)
	}
	uvLine.Color = uvColor
	uvLine.Width = vg.Points(2)
	p.Add(uvLine)

	legendLines := map[string]*plotter.Line{legendUV: uvLine}

	for _, o := range sc.overlays {
		line, err := r.addOverlay(p, sc, o, cfg)
		if err != nil {
			return nil, err
		}
		legendLines[o.legend] = line
	}

	if len(sc.ticks) > 0 {
		p.Add(&ticksPlotter{ticks: sc.ticks})
	}

	if len(sc.peaks) > 0 {
		markerColor, err := parseHexColor(cfg.GetMarkerColor())
		if err != nil {
			return nil, err
		}
		p.Add(&peaksPlotter{marks: sc.peaks, color: markerColor})
	}

	// One combined legend in the scene's fixed order.
	for _, name := range sc.legend {
		p.Legend.Add(name, legendLines[name])
	}
	p.Legend.Top = true
	p.Legend.Left = true

	// Axis limits come last: they override anything the data ranges set.
	p.X.Min, p.X.Max = 0, sc.xMax
	p.Y.Min, p.Y.Max = sc.yMin, sc.yMax

	return p, nil
}

// addOverlay rescales one secondary series into the primary y-range, adds
// its line, and adds its right-hand axis.
func (r *Renderer) addOverlay(p *plot.Plot, sc *scene, o overlaySeries, cfg *PlotConfig) (*plotter.Line, error) {
	hex := cfg.GetBufferColor()
	if o.kind == overlaySalt {
		hex = cfg.GetConductivityColor()
	}
	col, err := parseHexColor(hex)
	if err != nil {
		return nil, err
	}

	scaled := make(plotter.XYs, len(o.xys))
	scale := (sc.yMax - sc.yMin) / (o.max - o.min)
	for i, xy := range o.xys {
		scaled[i] = plotter.XY{X: xy.X, Y: sc.yMin + (xy.Y-o.min)*scale}
	}

	line, err := plotter.NewLine(scaled)
	if err != nil {
		return nil, fmt.Errorf("%s line: %w", o.legend, err)
	}
	line.Color = col
	line.Width = vg.Points(2)
	if o.dashed {
		line.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	}
	p.Add(line)

	p.Add(&rightAxisPlotter{
		min:   o.min,
		max:   o.max,
		label: o.legend,
		color: col,
		slot:  o.slot,
	})

	return line, nil
}

// write rasterizes the plot and writes {name}.{format}, reserving room on
// the right for the secondary axes.
func (r *Renderer) write(p *plot.Plot, name string, cfg *PlotConfig, numAxes int) error {
	format := cfg.GetOutputFormat()
	width := vg.Length(cfg.GetFigureWidthInches()) * vg.Inch
	height := vg.Length(cfg.GetFigureHeightInches()) * vg.Inch

	canvas, err := draw.NewFormattedCanvas(width, height, format)
	if err != nil {
		return fmt.Errorf("create %s canvas: %w", format, err)
	}

	dc := draw.New(canvas)
	if numAxes > 0 {
		dc = draw.Crop(dc, 0, -vg.Length(numAxes)*axisSpace, 0, 0)
	}
	p.Draw(dc)

	path := fmt.Sprintf("%s.%s", name, format)
	f, err := r.fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := canvas.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
