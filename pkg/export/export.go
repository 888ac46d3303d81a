// Package export writes simulation reports for scripts and spreadsheets.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/kilianp07/cabs/app"
)

// WriteJSON writes the report to w as indented JSON.
func WriteJSON(w io.Writer, rep app.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WriteCSV writes the report to w as metric,value rows.
func WriteCSV(w io.Writer, rep app.Report) error {
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"metric", "value"},
		{"requested", strconv.Itoa(rep.Requested)},
		{"matched", strconv.Itoa(rep.Matched)},
		{"rejected", strconv.Itoa(rep.Rejected)},
		{"mean_fare", strconv.FormatFloat(rep.MeanFare, 'f', -1, 64)},
		{"stddev_fare", strconv.FormatFloat(rep.StdDevFare, 'f', -1, 64)},
		{"mean_distance", strconv.FormatFloat(rep.MeanDistance, 'f', -1, 64)},
		{"divergent", strconv.Itoa(rep.Divergent)},
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// Write dispatches on format, which is json or csv.
func Write(w io.Writer, format string, rep app.Report) error {
	switch format {
	case "", "json":
		return WriteJSON(w, rep)
	case "csv":
		return WriteCSV(w, rep)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
