package expression

import (
	"math"
	"strconv"
	"strings"
)

// IdentifierColumn is the required name of the first header cell of an
// expression matrix. The column holds the molecule ids.
const IdentifierColumn = "Identifier"

// Matrix is an immutable molecule-by-sample table of expression levels. Rows
// are molecules and columns are samples, both in file order.
type Matrix struct {
	molecules []string
	samples   []string
	values    [][]float64

	sampleIndex map[string]int
}

// NewMatrix builds a Matrix, checking that ids are non-empty and unique and
// that every row has one value per sample. values is retained, not copied.
func NewMatrix(molecules, samples []string, values [][]float64) (*Matrix, error) {
	if len(samples) == 0 {
		return nil, validationErrorf(nil, "The expression matrix has no sample columns")
	}
	if len(molecules) == 0 {
		return nil, validationErrorf(nil, "The expression matrix has no molecule rows")
	}
	if len(molecules) != len(values) {
		return nil, validationErrorf(nil, "Got %d molecule ids but %d rows of values", len(molecules), len(values))
	}

	sampleIndex := make(map[string]int, len(samples))
	var duplicated []string
	for i, s := range samples {
		if s == "" {
			return nil, validationErrorf(nil, "Sample column %d of the expression matrix has an empty name", i+2)
		}
		if _, exists := sampleIndex[s]; exists {
			duplicated = append(duplicated, s)
			continue
		}
		sampleIndex[s] = i
	}
	if len(duplicated) > 0 {
		return nil, validationErrorf(duplicated, "The expression matrix has duplicated sample columns")
	}

	seen := make(map[string]struct{}, len(molecules))
	for i, id := range molecules {
		if id == "" {
			return nil, validationErrorf(nil, "Row %d of the expression matrix has an empty %s", i+2, IdentifierColumn)
		}
		if _, exists := seen[id]; exists {
			return nil, validationErrorf(nil, "Molecule %q appears more than once in the expression matrix", id)
		}
		seen[id] = struct{}{}

		if len(values[i]) != len(samples) {
			return nil, validationErrorf(nil, "Molecule %q has %d values, expected %d", id, len(values[i]), len(samples))
		}
	}

	return &Matrix{
		molecules:   molecules,
		samples:     samples,
		values:      values,
		sampleIndex: sampleIndex,
	}, nil
}

// Dims returns the number of molecules and samples.
func (m *Matrix) Dims() (molecules, samples int) {
	return len(m.molecules), len(m.samples)
}

// Molecules returns the molecule ids in row order. The slice must not be
// modified.
func (m *Matrix) Molecules() []string { return m.molecules }

// Samples returns the sample ids in column order. The slice must not be
// modified.
func (m *Matrix) Samples() []string { return m.samples }

// Row returns the expression values of molecule i, one per sample. The slice
// must not be modified.
func (m *Matrix) Row(i int) []float64 { return m.values[i] }

// SampleIndex returns the column of sample s.
func (m *Matrix) SampleIndex(s string) (int, bool) {
	i, ok := m.sampleIndex[s]
	return i, ok
}

// parseMatrix converts raw records, header first, into a Matrix.
func parseMatrix(records [][]string) (*Matrix, error) {
	if len(records) == 0 {
		return nil, validationErrorf(nil, "The expression matrix is empty")
	}

	header := records[0]
	if len(header) == 0 || cleanCell(header[0]) != IdentifierColumn {
		return nil, validationErrorf(nil, "The first column of the expression matrix must be named %s", IdentifierColumn)
	}

	samples := make([]string, 0, len(header)-1)
	for _, cell := range header[1:] {
		samples = append(samples, cleanCell(cell))
	}

	molecules := make([]string, 0, len(records)-1)
	values := make([][]float64, 0, len(records)-1)

	for i, rec := range records[1:] {
		line := i + 2

		if len(rec) != len(header) {
			return nil, validationErrorf(nil, "Line %d of the expression matrix has %d fields, expected %d", line, len(rec), len(header))
		}

		id := cleanCell(rec[0])
		row := make([]float64, len(samples))
		for j, cell := range rec[1:] {
			v, err := parseValue(cell)
			if err != nil {
				return nil, validationErrorf([]string{samples[j]}, "Line %d of the expression matrix (%s) has a non-numeric value %q", line, id, cell)
			}
			row[j] = v
		}

		molecules = append(molecules, id)
		values = append(values, row)
	}

	return NewMatrix(molecules, samples, values)
}

// parseValue reads one expression value. Missing markers become NaN; they are
// carried through, not imputed.
func parseValue(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)

	switch strings.ToUpper(cell) {
	case "", "NA", "NAN", "N/A":
		return math.NaN(), nil
	}

	return strconv.ParseFloat(cell, 64)
}

func cleanCell(cell string) string {
	return strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
}
