package chromaplot

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// bandFill is the translucent gray used for fraction highlight bands.
var bandFill = color.NRGBA{R: 128, G: 128, B: 128, A: 77}

// tickGray is the color of fraction tick marks near the x-axis.
var tickGray = color.NRGBA{R: 128, G: 128, B: 128, A: 128}

// bandsPlotter shades the configured fraction intervals across the full
// y-range and centers each band's label at labelY (data units).
type bandsPlotter struct {
	bands  []fractionBand
	labelY float64
}

func (b *bandsPlotter) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	sty := plt.X.Tick.Label
	sty.Color = color.Black
	sty.Font.Size = vg.Points(6)
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YCenter

	for _, band := range b.bands {
		x0, x1 := trX(band.lo), trX(band.hi)
		c.FillPolygon(bandFill, []vg.Point{
			{X: x0, Y: c.Min.Y},
			{X: x1, Y: c.Min.Y},
			{X: x1, Y: c.Max.Y},
			{X: x0, Y: c.Max.Y},
		})
		c.FillText(sty, vg.Point{X: (x0 + x1) / 2, Y: trY(b.labelY)}, band.label)
	}
}

// ticksPlotter draws a short dotted tick at each fraction boundary and a
// rotated label just above it.
type ticksPlotter struct {
	ticks []fractionTick
}

func (t *ticksPlotter) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, _ := plt.Transforms(&c)

	line := draw.LineStyle{
		Color:  tickGray,
		Width:  vg.Points(1),
		Dashes: []vg.Length{vg.Points(1), vg.Points(2)},
	}

	sty := plt.X.Tick.Label
	sty.Font.Size = vg.Points(8)
	sty.Rotation = math.Pi / 2
	sty.XAlign = draw.XLeft
	sty.YAlign = draw.YCenter

	tickTop := c.Min.Y + 0.04*(c.Max.Y-c.Min.Y)
	for _, tk := range t.ticks {
		x := trX(tk.volume)
		c.StrokeLine2(line, x, c.Min.Y, x, tickTop)
		c.FillText(sty, vg.Point{X: x, Y: tickTop + vg.Points(2)}, tk.label)
	}
}

// peaksPlotter draws a dot on each detected maximum and its annotation
// offset up and to the right, so the text clears the curve.
type peaksPlotter struct {
	marks []peakMark
	color color.Color
}

func (p *peaksPlotter) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	glyph := draw.GlyphStyle{
		Color:  p.color,
		Radius: vg.Points(3),
		Shape:  draw.CircleGlyph{},
	}

	sty := plt.X.Tick.Label
	sty.Color = p.color
	sty.Font.Size = vg.Points(8)
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YBottom

	for _, m := range p.marks {
		pt := vg.Point{X: trX(m.x), Y: trY(m.y)}
		c.DrawGlyph(glyph, pt)
		c.FillText(sty, vg.Point{X: pt.X + vg.Points(10), Y: pt.Y + vg.Points(10)}, m.note)
	}
}

// axisSpace is the horizontal room reserved to the right of the frame for
// each secondary axis.
const axisSpace = 0.8 * vg.Inch

// rightAxisPlotter draws a secondary y-axis along the right edge of the data
// area, with its own value range. slot 0 hugs the frame; each further slot
// moves one axisSpace outward. The overlay curve itself is rescaled into the
// primary range before plotting, so this plotter only draws the scale.
type rightAxisPlotter struct {
	min, max float64
	label    string
	color    color.Color
	slot     int
}

func (a *rightAxisPlotter) Plot(c draw.Canvas, plt *plot.Plot) {
	x := c.Max.X + vg.Length(a.slot)*axisSpace

	line := draw.LineStyle{Color: a.color, Width: vg.Points(1)}
	c.StrokeLine2(line, x, c.Min.Y, x, c.Max.Y)

	tickSty := plt.Y.Tick.Label
	tickSty.Color = a.color
	tickSty.XAlign = draw.XLeft
	tickSty.YAlign = draw.YCenter

	height := c.Max.Y - c.Min.Y
	const tickLen = vg.Length(4)
	for _, t := range (plot.DefaultTicks{}).Ticks(a.min, a.max) {
		if t.IsMinor() {
			continue
		}
		y := c.Min.Y + vg.Length((t.Value-a.min)/(a.max-a.min))*height
		c.StrokeLine2(line, x, y, x+tickLen, y)
		c.FillText(tickSty, vg.Point{X: x + tickLen + vg.Points(2), Y: y}, t.Label)
	}

	labelSty := plt.Y.Label.TextStyle
	labelSty.Color = a.color
	labelSty.Rotation = math.Pi / 2
	labelSty.XAlign = draw.XCenter
	labelSty.YAlign = draw.YTop
	c.FillText(labelSty, vg.Point{X: x + axisSpace - vg.Points(6), Y: (c.Min.Y + c.Max.Y) / 2}, a.label)
}
