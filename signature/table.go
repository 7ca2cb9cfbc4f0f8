package signature

import (
	"io"
	"math"
	"strconv"

	"github.com/gocarina/gocsv"
)

// SignatureRow is one selected marker of one population.
type SignatureRow struct {
	Marker         string
	Log2FoldChange float64
	PValue         float64
	PAdjusted      float64
	Threshold      Threshold
	Population     string
}

// SignatureTable concatenates the markers of all populations, in population
// order and then rank order.
type SignatureTable []SignatureRow

func rowsFor(res PopulationResult) []SignatureRow {
	out := make([]SignatureRow, 0, len(res.Markers))
	for _, s := range res.Markers {
		out = append(out, SignatureRow{
			Marker:         s.Molecule,
			Log2FoldChange: s.Log2FoldChange,
			PValue:         s.PValue,
			PAdjusted:      s.PAdjusted,
			Threshold:      s.Threshold,
			Population:     res.Population,
		})
	}

	return out
}

// nullNA is how WriteCSV prints NaN values.
const nullNA = "NA"

// formatFloat prints the shortest representation that round-trips, and null
// for NaN.
func formatFloat(f float64, null string) string {
	if math.IsNaN(f) {
		return null
	}

	return strconv.FormatFloat(f, 'g', -1, 64)
}

type csvRow struct {
	Marker         string `csv:"Marker"`
	Log2FoldChange string `csv:"Log2FoldChange"`
	PValue         string `csv:"PValue"`
	PAdjusted      string `csv:"PAdjusted"`
	Threshold      string `csv:"Threshold"`
	Population     string `csv:"Population"`
}

// WriteCSV writes the table with a header row, printing NaN as NA. An empty
// table still gets its header.
func (t SignatureTable) WriteCSV(w io.Writer) error {
	return t.writeCSV(w, nullNA)
}

func (t SignatureTable) writeCSV(w io.Writer, null string) error {
	if len(t) == 0 {
		_, err := io.WriteString(w, "Marker,Log2FoldChange,PValue,PAdjusted,Threshold,Population\n")
		return err
	}

	rows := make([]*csvRow, 0, len(t))
	for _, r := range t {
		rows = append(rows, &csvRow{
			Marker:         r.Marker,
			Log2FoldChange: formatFloat(r.Log2FoldChange, null),
			PValue:         formatFloat(r.PValue, null),
			PAdjusted:      formatFloat(r.PAdjusted, null),
			Threshold:      string(r.Threshold),
			Population:     r.Population,
		})
	}

	return gocsv.Marshal(&rows, w)
}

// Population returns the rows of one population, in rank order.
func (t SignatureTable) Population(population string) SignatureTable {
	var out SignatureTable
	for _, r := range t {
		if r.Population == population {
			out = append(out, r)
		}
	}

	return out
}
