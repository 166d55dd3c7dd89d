package chromaplot

import (
	"fmt"
	"strings"
	"testing"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/proteinlab/elution.report/internal/akta"
	"github.com/proteinlab/elution.report/internal/fsutil"
)

func TestRenderMinimal(t *testing.T) {
	m := fsutil.NewMemoryFileSystem()
	r := NewRendererWithFS(m)

	if err := r.Render("run", testTrace(), akta.VariantSmall, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}

	data, err := m.ReadFile("run.svg")
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("output file is empty")
	}
}

func TestRenderFormats(t *testing.T) {
	for _, format := range []string{"svg", "png", "pdf"} {
		t.Run(format, func(t *testing.T) {
			m := fsutil.NewMemoryFileSystem()
			r := NewRendererWithFS(m)
			cfg := &PlotConfig{OutputFormat: &format}

			if err := r.Render("run", testTrace(), akta.VariantLarge, cfg); err != nil {
				t.Fatalf("Render(%s): %v", format, err)
			}
			if !m.Exists("run." + format) {
				t.Fatalf("run.%s not written", format)
			}
		})
	}
}

func TestRenderFullyDecorated(t *testing.T) {
	m := fsutil.NewMemoryFileSystem()
	r := NewRendererWithFS(m)

	on := true
	title := "SEC run 7"
	cfg := &PlotConfig{
		Title:      &title,
		Fractions:  []int{1, 2},
		MarkMaxima: &on,
		ShowBuffer: &on,
		ShowSalt:   &on,
	}
	if err := r.Render("decorated", testTrace(), akta.VariantSmall, cfg); err != nil {
		t.Fatalf("Render: %v", err)
	}

	data, err := m.ReadFile("decorated.svg")
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	// Legend text and annotations end up verbatim in the SVG.
	svg := string(data)
	for _, want := range []string{legendUV, legendConductivity, legendBuffer, "F1", "2.0 mL"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg output missing %q", want)
		}
	}
}

func TestRenderEmptyTrace(t *testing.T) {
	r := NewRendererWithFS(fsutil.NewMemoryFileSystem())
	if err := r.Render("run", &akta.Trace{}, akta.VariantSmall, nil); err == nil {
		t.Fatal("expected an error for an empty trace")
	}
}

func TestRenderInvalidConfig(t *testing.T) {
	bad := "bmp"
	r := NewRendererWithFS(fsutil.NewMemoryFileSystem())
	err := r.Render("run", testTrace(), akta.VariantSmall, &PlotConfig{OutputFormat: &bad})
	if err == nil {
		t.Fatal("expected a configuration error for an unsupported format")
	}
}

func TestRenderUnknownVariant(t *testing.T) {
	r := NewRendererWithFS(fsutil.NewMemoryFileSystem())
	if err := r.Render("run", testTrace(), akta.Variant("medium"), nil); err == nil {
		t.Fatal("expected a configuration error for an unknown variant")
	}
}

// TestLoadThenRender exercises the loader-to-renderer round trip for each of
// the three export variants with minimal configuration.
func TestLoadThenRender(t *testing.T) {
	exportRow := func(sep string, i int) string {
		v := float64(i) * 0.5
		cells := []string{
			fmt.Sprintf("%.2f", v),         // Volume_ml
			fmt.Sprintf("%.2f", 5+50*gauss(v, 2.5)), // mAU
			"0",
			"0.40",                    // Cond
			fmt.Sprintf("%.2f", v),    // Volume_grad
			fmt.Sprintf("%.1f", 10*v), // Gradient_percentB
			"", "", "", "", "", "",
		}
		return strings.Join(cells, sep)
	}
	export := func(sep string) string {
		lines := []string{"header one", "header two", "header three"}
		for i := 0; i <= 10; i++ {
			lines = append(lines, exportRow(sep, i))
		}
		return strings.Join(lines, "\n") + "\n"
	}

	cases := []struct {
		name    string
		variant akta.Variant
		opts    akta.LoadOptions
		file    string
		data    []byte
	}{
		{"small csv", akta.VariantSmall, akta.LoadOptions{}, "run.csv", []byte(export(","))},
		{"small asc", akta.VariantSmall, akta.LoadOptions{FileType: akta.FileTypeASC}, "run.asc", []byte(export("\t"))},
		{"large", akta.VariantLarge, akta.LoadOptions{}, "run.asc", utf16Bytes(t, export("\t"))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := fsutil.NewMemoryFileSystem()
			if err := m.WriteFile(tc.file, tc.data, 0644); err != nil {
				t.Fatal(err)
			}

			tr, err := akta.Load(m, "run", tc.variant, tc.opts)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}

			r := NewRendererWithFS(m)
			if err := r.Render("run", tr, tc.variant, nil); err != nil {
				t.Fatalf("Render: %v", err)
			}
			if !m.Exists("run.svg") {
				t.Fatal("run.svg not written")
			}
		})
	}
}

// gauss is a unit-height bell centered on c, used to synthesize a UV peak.
func gauss(x, c float64) float64 {
	d := x - c
	return 1 / (1 + d*d*4)
}

func utf16Bytes(t *testing.T, s string) []byte {
	t.Helper()
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	out, _, err := transform.Bytes(enc, []byte(s))
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return out
}
