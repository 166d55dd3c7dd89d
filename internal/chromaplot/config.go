// Package chromaplot renders AKTA elution traces: UV absorbance against
// elution volume, optionally overlaid with conductivity and buffer-gradient
// axes, fraction markers, and detected peak maxima.
package chromaplot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"path/filepath"
	"strconv"

	"github.com/proteinlab/elution.report/internal/fsutil"
)

// Maxima annotation modes: label detected peaks with their elution volume
// or with their absorbance.
const (
	MaximaTypeML  = "mL"
	MaximaTypeMAU = "mAU"
)

// Default line and marker colors.
const (
	DefaultUVColor           = "#1F77B4"
	DefaultConductivityColor = "#FF7F0E"
	DefaultBufferColor       = "#2CA02C"
	DefaultMarkerColor       = "#D62728"
)

// supportedFormats are the output formats the plot canvas can write.
var supportedFormats = map[string]bool{
	"eps": true, "jpg": true, "jpeg": true, "pdf": true,
	"png": true, "svg": true, "tex": true, "tif": true, "tiff": true,
}

// PlotConfig holds every rendering option. All fields are optional; the
// Get* methods provide the defaults, so a partial JSON config is safe. The
// same structure serves direct calls and the strict JSON config file.
type PlotConfig struct {
	// Title is drawn above the figure.
	Title *string `json:"title,omitempty"`

	// Fractions lists fraction numbers to highlight as shaded bands.
	Fractions []int `json:"fractions,omitempty"`

	// FractionTextHeight positions each band label, as a fraction of the
	// y-range above the axis minimum.
	FractionTextHeight *float64 `json:"fraction_text_height,omitempty"`

	// ExcludedFractionLabels suppresses tick labels for these fractions.
	ExcludedFractionLabels []string `json:"excluded_fraction_labels,omitempty"`

	UVColor           *string `json:"uv_color,omitempty"`
	ConductivityColor *string `json:"conductivity_color,omitempty"`
	BufferColor       *string `json:"buffer_color,omitempty"`
	MarkerColor       *string `json:"marker_color,omitempty"`

	// MarkMaxima enables peak detection and annotation on the UV series.
	MarkMaxima *bool `json:"mark_maxima,omitempty"`

	// MaximaType selects the peak annotation, "mL" or "mAU".
	MaximaType *string `json:"maxima_type,omitempty"`

	// MaximaProminenceThreshold is the minimum peak prominence, in mAU.
	MaximaProminenceThreshold *float64 `json:"maxima_prominence_threshold,omitempty"`

	// MaxPeakWidth rejects peaks wider than this many samples at half
	// prominence.
	MaxPeakWidth *float64 `json:"max_peak_width,omitempty"`

	// ShowSalt adds a secondary conductivity axis.
	ShowSalt *bool `json:"show_salt,omitempty"`

	// ShowBuffer adds a secondary buffer B percentage axis.
	ShowBuffer *bool `json:"show_buffer,omitempty"`

	// OutputFormat is the image format and file extension.
	OutputFormat *string `json:"output_format,omitempty"`

	FigureWidthInches  *float64 `json:"figure_width_inches,omitempty"`
	FigureHeightInches *float64 `json:"figure_height_inches,omitempty"`

	// XAxisLimit overrides the x-axis upper bound. When unset the limit is
	// derived per call from the trace's largest finite volume.
	XAxisLimit *float64 `json:"x_axis_limit,omitempty"`

	// BaselineSkipRows excludes the first N rows when computing the y-axis
	// minimum. Zero considers the whole series.
	BaselineSkipRows *int `json:"baseline_skip_rows,omitempty"`
}

// GetTitle returns the chart title or the empty default.
func (c *PlotConfig) GetTitle() string {
	if c.Title == nil {
		return ""
	}
	return *c.Title
}

// GetFractionTextHeight returns the band label height fraction.
func (c *PlotConfig) GetFractionTextHeight() float64 {
	if c.FractionTextHeight == nil {
		return 0.7
	}
	return *c.FractionTextHeight
}

// GetUVColor returns the UV line color as hex.
func (c *PlotConfig) GetUVColor() string {
	if c.UVColor == nil {
		return DefaultUVColor
	}
	return *c.UVColor
}

// GetConductivityColor returns the conductivity line color as hex.
func (c *PlotConfig) GetConductivityColor() string {
	if c.ConductivityColor == nil {
		return DefaultConductivityColor
	}
	return *c.ConductivityColor
}

// GetBufferColor returns the buffer line color as hex.
func (c *PlotConfig) GetBufferColor() string {
	if c.BufferColor == nil {
		return DefaultBufferColor
	}
	return *c.BufferColor
}

// GetMarkerColor returns the peak marker color as hex.
func (c *PlotConfig) GetMarkerColor() string {
	if c.MarkerColor == nil {
		return DefaultMarkerColor
	}
	return *c.MarkerColor
}

// GetMarkMaxima reports whether peak marking is enabled.
func (c *PlotConfig) GetMarkMaxima() bool {
	if c.MarkMaxima == nil {
		return false
	}
	return *c.MarkMaxima
}

// GetMaximaType returns the peak annotation mode.
func (c *PlotConfig) GetMaximaType() string {
	if c.MaximaType == nil {
		return MaximaTypeML
	}
	return *c.MaximaType
}

// GetMaximaProminenceThreshold returns the minimum peak prominence.
func (c *PlotConfig) GetMaximaProminenceThreshold() float64 {
	if c.MaximaProminenceThreshold == nil {
		return 50
	}
	return *c.MaximaProminenceThreshold
}

// GetMaxPeakWidth returns the peak width cap in samples.
func (c *PlotConfig) GetMaxPeakWidth() float64 {
	if c.MaxPeakWidth == nil {
		return 10000
	}
	return *c.MaxPeakWidth
}

// GetShowSalt reports whether the conductivity overlay is enabled.
func (c *PlotConfig) GetShowSalt() bool {
	if c.ShowSalt == nil {
		return false
	}
	return *c.ShowSalt
}

// GetShowBuffer reports whether the buffer overlay is enabled.
func (c *PlotConfig) GetShowBuffer() bool {
	if c.ShowBuffer == nil {
		return false
	}
	return *c.ShowBuffer
}

// GetOutputFormat returns the output image format.
func (c *PlotConfig) GetOutputFormat() string {
	if c.OutputFormat == nil {
		return "svg"
	}
	return *c.OutputFormat
}

// GetFigureWidthInches returns the figure width.
func (c *PlotConfig) GetFigureWidthInches() float64 {
	if c.FigureWidthInches == nil {
		return 12
	}
	return *c.FigureWidthInches
}

// GetFigureHeightInches returns the figure height.
func (c *PlotConfig) GetFigureHeightInches() float64 {
	if c.FigureHeightInches == nil {
		return 7
	}
	return *c.FigureHeightInches
}

// GetBaselineSkipRows returns the y-minimum row skip.
func (c *PlotConfig) GetBaselineSkipRows() int {
	if c.BaselineSkipRows == nil {
		return 0
	}
	return *c.BaselineSkipRows
}

// Validate checks that the configuration values are usable. Invalid values
// are hard errors; nothing falls back silently.
func (c *PlotConfig) Validate() error {
	if h := c.GetFractionTextHeight(); h < 0 || h > 1 {
		return fmt.Errorf("fraction_text_height must be between 0 and 1, got %v", h)
	}

	switch c.GetMaximaType() {
	case MaximaTypeML, MaximaTypeMAU:
	default:
		return fmt.Errorf("maxima_type must be %q or %q, got %q",
			MaximaTypeML, MaximaTypeMAU, c.GetMaximaType())
	}

	if t := c.GetMaximaProminenceThreshold(); t <= 0 {
		return fmt.Errorf("maxima_prominence_threshold must be positive, got %v", t)
	}
	if w := c.GetMaxPeakWidth(); w <= 0 {
		return fmt.Errorf("max_peak_width must be positive, got %v", w)
	}

	if f := c.GetOutputFormat(); !supportedFormats[f] {
		return fmt.Errorf("unsupported output_format %q", f)
	}

	for _, hex := range []string{
		c.GetUVColor(), c.GetConductivityColor(), c.GetBufferColor(), c.GetMarkerColor(),
	} {
		if _, err := parseHexColor(hex); err != nil {
			return err
		}
	}

	if c.FigureWidthInches != nil && *c.FigureWidthInches <= 0 {
		return fmt.Errorf("figure_width_inches must be positive, got %v", *c.FigureWidthInches)
	}
	if c.FigureHeightInches != nil && *c.FigureHeightInches <= 0 {
		return fmt.Errorf("figure_height_inches must be positive, got %v", *c.FigureHeightInches)
	}
	if c.XAxisLimit != nil && *c.XAxisLimit <= 0 {
		return fmt.Errorf("x_axis_limit must be positive, got %v", *c.XAxisLimit)
	}
	if c.BaselineSkipRows != nil && *c.BaselineSkipRows < 0 {
		return fmt.Errorf("baseline_skip_rows must be non-negative, got %d", *c.BaselineSkipRows)
	}

	return nil
}

// LoadConfig loads a PlotConfig from a JSON file. Unknown keys are
// configuration errors: a typo can never silently fall back to defaults.
func LoadConfig(fsys fsutil.FileSystem, path string) (*PlotConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &PlotConfig{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// parseHexColor parses a "#RRGGBB" color.
func parseHexColor(s string) (color.Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return nil, fmt.Errorf("invalid color %q: expected #RRGGBB", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}
