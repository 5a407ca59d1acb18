// Package tabular reads wall coordinates from CSV and writes parameter
// tables as CSV or aligned text.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/internal/d3"
	"github.com/paracore/curvegen/internal/monitoring"
	"gonum.org/v1/gonum/spatial/r3"
)

// Options control ReadSegments.
type Options struct {
	// Unit of the coordinates in the file. The zero value is metres.
	Unit curvegen.Unit
	// Elevation assigned to every segment, in metres.
	Elevation float64
	// Comma is the field delimiter. Defaults to ','.
	Comma rune
}

// RowError is a row that could not be imported.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap makes errors.Is(err, curvegen.ErrImportParse) report true.
func (e *RowError) Unwrap() []error { return []error{curvegen.ErrImportParse, e.Err} }

// Import is the result of reading a coordinate table.
type Import struct {
	Segments []curvegen.Segment
	// Lines holds the source line of each segment.
	Lines []int
	// Rows counts data rows, excluding the header.
	Rows   int
	Header bool
	Errors []*RowError
}

// ReadSegments reads x1,y1,x2,y2 rows. A first row mentioning x1 is a header.
// Rows with fewer than four columns or unparsable numbers are skipped and
// recorded in Import.Errors; only read failures of r are returned as error.
func ReadSegments(r io.Reader, opts Options) (*Import, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	imp := &Import{}
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			imp.Rows++
			imp.fail(perr.Line, perr.Err)
			first = false
			continue
		}
		if err != nil {
			return imp, err
		}
		line, _ := cr.FieldPos(0)
		if first {
			first = false
			if isHeader(rec) {
				imp.Header = true
				continue
			}
		}
		imp.Rows++
		if len(rec) < 4 {
			imp.fail(line, fmt.Errorf("got %d columns, need 4", len(rec)))
			continue
		}
		var v [4]float64
		for i := range v {
			v[i], err = strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
			if err != nil {
				break
			}
			v[i] = curvegen.ToInternalLength(v[i], opts.Unit)
		}
		if err != nil {
			imp.fail(line, err)
			continue
		}
		z := opts.Elevation
		start, end := r3.Vec{X: v[0], Y: v[1], Z: z}, r3.Vec{X: v[2], Y: v[3], Z: z}
		if !d3.Finite(start) || !d3.Finite(end) {
			imp.fail(line, fmt.Errorf("non-finite coordinate in %q", strings.Join(rec[:4], ",")))
			continue
		}
		imp.Segments = append(imp.Segments, curvegen.Seg(start, end))
		imp.Lines = append(imp.Lines, line)
	}
	return imp, nil
}

func (imp *Import) fail(line int, err error) {
	re := &RowError{Line: line, Err: err}
	monitoring.Logf("tabular: skipping %v", re)
	imp.Errors = append(imp.Errors, re)
}

func isHeader(rec []string) bool {
	for _, f := range rec {
		if strings.Contains(strings.ToLower(f), "x1") {
			return true
		}
	}
	return false
}
