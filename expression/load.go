package expression

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/cellscribe"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// LoadOptions controls where inputs are read from.
type LoadOptions struct {
	// Storage is used for gs:// paths. It may be nil when all inputs are
	// local.
	Storage *storage.Client
}

type fileFormat int

const (
	formatUnknown fileFormat = iota
	formatCSV
	formatTSV
	formatTXT
	formatXLS
)

// compressionSuffixes are stripped before the format extension is examined.
// The actual compression is detected from the stream's leading bytes.
var compressionSuffixes = []string{".gz", ".bz2", ".zip", ".xz", ".z"}

// detectFormat derives the table format from a file name such as
// "counts.tsv.gz". An .xls workbook cannot be compressed because it is read
// through a seeker.
func detectFormat(name string) fileFormat {
	lower := strings.ToLower(path.Base(name))

	compressed := false
	for _, suffix := range compressionSuffixes {
		if strings.HasSuffix(lower, suffix) {
			lower = strings.TrimSuffix(lower, suffix)
			compressed = true
			break
		}
	}

	switch path.Ext(lower) {
	case ".csv":
		return formatCSV
	case ".tsv":
		return formatTSV
	case ".txt":
		return formatTXT
	case ".xls":
		if !compressed {
			return formatXLS
		}
	}

	return formatUnknown
}

// LoadMatrix reads an expression matrix from a .csv, .tsv or .txt file
// (optionally compressed) or from the first sheet of an .xls workbook. The
// header must start with IdentifierColumn followed by one column per sample.
func LoadMatrix(ctx context.Context, filePath string, opts LoadOptions) (*Matrix, error) {
	format := detectFormat(filePath)
	if format == formatUnknown {
		return nil, validationErrorf(nil, "The expression matrix should be in csv, tsv, txt or xls format (got %s)", path.Base(filePath))
	}

	rsc, _, err := cellscribe.OpenSeeker(ctx, filePath, opts.Storage)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer rsc.Close()

	var records [][]string
	if format == formatXLS {
		records, err = readXLS(rsc)
	} else {
		records, err = readDelimited(rsc, format)
	}
	if err != nil {
		return nil, validationErrorf(nil, "Could not read the expression matrix %s: %v", path.Base(filePath), err)
	}

	return parseMatrix(records)
}

// LoadMapping reads a population file: a .csv, .tsv or .txt table
// (optionally compressed) with at least the LabelColumn and PopulationColumn
// columns. Other columns are ignored.
func LoadMapping(ctx context.Context, filePath string, opts LoadOptions) (*Mapping, error) {
	format := detectFormat(filePath)
	if format == formatUnknown || format == formatXLS {
		return nil, validationErrorf(nil, "The population file should be in csv, tsv or txt format (got %s)", path.Base(filePath))
	}

	rsc, _, err := cellscribe.OpenSeeker(ctx, filePath, opts.Storage)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer rsc.Close()

	body, comma, err := readBody(rsc, format)
	if err != nil {
		return nil, validationErrorf(nil, "Could not read the population file %s: %v", path.Base(filePath), err)
	}

	return decodeMapping(body, comma)
}

func decodeMapping(body []byte, comma rune) (*Mapping, error) {
	header, err := newCSVReader(bytes.NewReader(body), comma).Read()
	if err == io.EOF {
		return nil, validationErrorf(nil, "The population file is empty")
	} else if err != nil {
		return nil, validationErrorf(nil, "Could not parse the population file header: %v", err)
	}

	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[cleanCell(h)] = true
	}
	var missing []string
	for _, required := range []string{LabelColumn, PopulationColumn} {
		if !present[required] {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, validationErrorf(missing, "The population file is missing required columns")
	}

	rows := []*Assignment{}
	if err := gocsv.UnmarshalCSV(newCSVReader(bytes.NewReader(body), comma), &rows); err != nil {
		return nil, validationErrorf(nil, "Could not parse the population file: %v", err)
	}

	assignments := make([]Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, Assignment{
			Label:      cleanCell(row.Label),
			Population: cleanCell(row.Population),
		})
	}

	return NewMapping(assignments)
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// readBody decompresses the whole stream into memory and picks the field
// delimiter: comma for .csv, tab for .tsv, and a sniffed delimiter for .txt.
func readBody(rsc cellscribe.ReadSeekCloser, format fileFormat) ([]byte, rune, error) {
	rc, _, err := cellscribe.MaybeDecompress(rsc)
	if err != nil {
		return nil, 0, err
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		return nil, 0, err
	}
	body = bytes.TrimPrefix(body, utf8BOM)

	var comma rune
	switch format {
	case formatCSV:
		comma = ','
	case formatTSV:
		comma = '\t'
	default:
		comma = cellscribe.DetermineDelimiter(bytes.NewReader(body), '\t')
	}

	return body, comma, nil
}

func readDelimited(rsc cellscribe.ReadSeekCloser, format fileFormat) ([][]string, error) {
	body, comma, err := readBody(rsc, format)
	if err != nil {
		return nil, err
	}

	return newCSVReader(bytes.NewReader(body), comma).ReadAll()
}

// newCSVReader leaves field counts unchecked so that ragged lines surface as
// ValidationErrors naming the line.
func newCSVReader(r io.Reader, comma rune) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}
