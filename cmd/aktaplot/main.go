// Command aktaplot renders one AKTA chromatography export as an elution
// trace figure.
//
// The export is read from {name}.csv or {name}.asc depending on the variant
// and the figure is written next to it as {name}.{format}. Plot options can
// come from a strict JSON config file, from flags, or both; flags win.
package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/proteinlab/elution.report/internal/akta"
	"github.com/proteinlab/elution.report/internal/chromaplot"
	"github.com/proteinlab/elution.report/internal/fsutil"
)

var (
	runName      = flag.String("name", "", "base filename of the export, without extension (required)")
	aktaType     = flag.String("type", "small", "instrument export variant: small or large")
	fileType     = flag.String("filetype", "", "small-variant delimiter convention: csv or asc (default csv)")
	configPath   = flag.String("config", "", "optional JSON plot config file")
	title        = flag.String("title", "", "chart title")
	outputFormat = flag.String("format", "", "output image format (svg, png, pdf, ...)")
	fractionsArg = flag.String("fractions", "", "comma-separated fraction numbers to highlight")
	excludeArg   = flag.String("exclude", "", "comma-separated fraction labels to leave unlabelled")
	markMaxima   = flag.Bool("mark-maxima", false, "detect and annotate UV peak maxima")
	maximaType   = flag.String("maxima-type", "", "peak annotation: mL or mAU")
	showBuffer   = flag.Bool("buffer", false, "overlay the buffer B gradient on a secondary axis")
	showSalt     = flag.Bool("salt", false, "overlay conductivity on a secondary axis")
	xLimit       = flag.Float64("x-limit", 0, "x-axis upper bound in mL (default: trace maximum)")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		log.Fatalf("aktaplot: %v", err)
	}
}

func run() error {
	if *runName == "" {
		return fmt.Errorf("-name is required")
	}

	fs := fsutil.OSFileSystem{}

	cfg := &chromaplot.PlotConfig{}
	if *configPath != "" {
		loaded, err := chromaplot.LoadConfig(fs, *configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := applyFlags(cfg); err != nil {
		return err
	}

	variant := akta.Variant(*aktaType)
	opts := akta.LoadOptions{FileType: akta.FileType(*fileType)}

	tr, err := akta.Load(fs, *runName, variant, opts)
	if err != nil {
		return err
	}
	log.Printf("loaded %s: %d rows, %d fraction boundaries",
		*runName, tr.Len(), len(tr.Boundaries()))

	r := chromaplot.NewRenderer()
	if err := r.Render(*runName, tr, variant, cfg); err != nil {
		return err
	}
	log.Printf("wrote %s.%s", *runName, cfg.GetOutputFormat())
	return nil
}

// applyFlags folds the command-line overrides into the config.
func applyFlags(cfg *chromaplot.PlotConfig) error {
	if *title != "" {
		cfg.Title = title
	}
	if *outputFormat != "" {
		cfg.OutputFormat = outputFormat
	}
	if *markMaxima {
		cfg.MarkMaxima = markMaxima
	}
	if *maximaType != "" {
		cfg.MaximaType = maximaType
	}
	if *showBuffer {
		cfg.ShowBuffer = showBuffer
	}
	if *showSalt {
		cfg.ShowSalt = showSalt
	}
	if *xLimit > 0 {
		cfg.XAxisLimit = xLimit
	}
	if *excludeArg != "" {
		cfg.ExcludedFractionLabels = splitList(*excludeArg)
	}
	if *fractionsArg != "" {
		for _, s := range splitList(*fractionsArg) {
			n, err := strconv.Atoi(s)
			if err != nil {
				return fmt.Errorf("invalid fraction number %q", s)
			}
			cfg.Fractions = append(cfg.Fractions, n)
		}
	}
	return nil
}

// splitList splits a comma-separated flag value, trimming whitespace and
// dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
