package akta

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/proteinlab/elution.report/internal/fsutil"
)

// Positional columns of an export row. Both variants share this layout.
const (
	colVolume       = 0
	colUV           = 1
	colCond         = 3
	colGradVolume   = 4
	colGradPercentB = 5
	colFracVolume   = 10
	colFracLabel    = 11
)

// headerLines is the number of report lines preceding the data in every
// export variant. There is no column header row.
const headerLines = 3

// LoadOptions configures how an export file is read.
type LoadOptions struct {
	// FileType selects the small-variant delimiter convention. Ignored for
	// the large variant, which is always tab-delimited. Defaults to CSV.
	FileType FileType `json:"file_type,omitempty"`
}

// Normalize validates the options against the variant and applies defaults.
// An unrecognized variant or file type is a configuration error, never a
// silent fallback.
func (o LoadOptions) Normalize(variant Variant) (LoadOptions, error) {
	opts := o

	switch variant {
	case VariantSmall, VariantLarge:
	default:
		return opts, fmt.Errorf("unrecognized akta variant %q: expected %q or %q",
			variant, VariantSmall, VariantLarge)
	}

	if opts.FileType == "" {
		opts.FileType = FileTypeCSV
	}
	switch opts.FileType {
	case FileTypeCSV, FileTypeASC:
	default:
		return opts, fmt.Errorf("unrecognized small akta file type %q: expected %q or %q",
			opts.FileType, FileTypeCSV, FileTypeASC)
	}

	return opts, nil
}

// Load reads the export for the named run and returns its Trace. name is the
// base filename without extension; the extension is implied by the variant
// and file type (.csv for small CSV exports, .asc otherwise).
func Load(fsys fsutil.FileSystem, name string, variant Variant, opts LoadOptions) (*Trace, error) {
	opts, err := opts.Normalize(variant)
	if err != nil {
		return nil, err
	}

	path := name + ".asc"
	comma := '\t'
	if variant == VariantSmall && opts.FileType == FileTypeCSV {
		path = name + ".csv"
		comma = ','
	}

	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if variant == VariantLarge {
		// Large-instrument exports are UTF-16 with a BOM; little-endian
		// when the BOM is absent.
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		r = transform.NewReader(f, dec)
	}

	tr, err := parseExport(r, comma)
	if err != nil {
		return nil, fmt.Errorf("parse export %s: %w", path, err)
	}
	return tr, nil
}

// parseExport reads delimited rows into a Trace, skipping the report header.
func parseExport(r io.Reader, comma rune) (*Trace, error) {
	br := bufio.NewReader(r)
	for i := 0; i < headerLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			return nil, fmt.Errorf("skipping %d header lines: %w", headerLines, err)
		}
	}

	cr := csv.NewReader(br)
	cr.Comma = comma
	cr.FieldsPerRecord = -1 // rows are ragged past the shortest sensor series
	cr.LazyQuotes = true
	// TrimLeadingSpace would swallow tab delimiters and collapse empty
	// cells, shifting the positional columns. Cells are trimmed per field
	// instead.

	tr := &Trace{}
	for line := headerLines + 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		vol, err := floatField(rec, colVolume, line)
		if err != nil {
			return nil, err
		}
		uv, err := floatField(rec, colUV, line)
		if err != nil {
			return nil, err
		}
		cond, err := floatField(rec, colCond, line)
		if err != nil {
			return nil, err
		}
		gvol, err := floatField(rec, colGradVolume, line)
		if err != nil {
			return nil, err
		}
		gpb, err := floatField(rec, colGradPercentB, line)
		if err != nil {
			return nil, err
		}
		fvol, err := floatField(rec, colFracVolume, line)
		if err != nil {
			return nil, err
		}

		tr.Volume = append(tr.Volume, vol)
		tr.UV = append(tr.UV, uv)
		tr.Cond = append(tr.Cond, cond)
		tr.GradVolume = append(tr.GradVolume, gvol)
		tr.GradPercentB = append(tr.GradPercentB, gpb)
		tr.FracVolume = append(tr.FracVolume, fvol)
		tr.FracLabel = append(tr.FracLabel, labelField(rec, colFracLabel))
	}

	return tr, nil
}

// floatField parses the numeric column at idx. Absent or empty cells are
// missing values and parse to NaN; a non-empty cell that is not a number is
// a data error.
func floatField(rec []string, idx, line int) (float64, error) {
	if idx >= len(rec) {
		return math.NaN(), nil
	}
	s := strings.TrimSpace(rec[idx])
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d column %d: %q is not a number", line, idx, s)
	}
	return v, nil
}

// labelField returns the fraction label at idx with surrounding quotes and
// whitespace stripped, or "" when the cell is absent or empty.
func labelField(rec []string, idx int) string {
	if idx >= len(rec) {
		return ""
	}
	return strings.Trim(strings.TrimSpace(rec[idx]), `"`)
}
