package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/model"
)

// ParameterHeader names the columns of ParameterRows.
var ParameterHeader = []string{"element", "category", "parameter", "kind", "value", "read only"}

// ParameterRows returns one row per parameter of each element, lengths
// formatted in u.
func ParameterRows(elements []model.Element, u curvegen.Unit) [][]string {
	var rows [][]string
	for _, e := range elements {
		for _, p := range e.Params {
			rows = append(rows, []string{
				string(e.ID),
				string(e.Category),
				p.Name,
				p.Kind.String(),
				p.Format(u),
				strconv.FormatBool(p.ReadOnly),
			})
		}
	}
	return rows
}

// WriteParameters writes the parameters of elements as CSV with a header row.
func WriteParameters(w io.Writer, elements []model.Element, u curvegen.Unit) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ParameterHeader); err != nil {
		return err
	}
	if err := cw.WriteAll(ParameterRows(elements, u)); err != nil {
		return err
	}
	return cw.Error()
}

// Show writes rows as an aligned text table under a title line.
func Show(w io.Writer, title string, header []string, rows [][]string) error {
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if len(header) > 0 {
		fmt.Fprintln(tw, strings.Join(header, "\t"))
		sep := make([]string, len(header))
		for i, h := range header {
			sep[i] = strings.Repeat("-", len(h))
		}
		fmt.Fprintln(tw, strings.Join(sep, "\t"))
	}
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}
