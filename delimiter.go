package cellscribe

import (
	"io"
	"strings"

	"github.com/csimplestring/go-csv/detector"
)

// plausibleDelimiters are the field separators accepted from detection. The
// detector ranks any character that appears equally often on every sampled
// line, which in numeric tables includes '.' and '-'.
const plausibleDelimiters = "\t,;| "

// DetermineDelimiter sniffs the field delimiter of a delimited text table. The
// best ranked plausible candidate wins; otherwise fallback is returned.
func DetermineDelimiter(r io.Reader, fallback rune) rune {
	candidates := detector.New().DetectDelimiter(r, '"')

	for _, c := range candidates {
		if len(c) == 1 && strings.ContainsRune(plausibleDelimiters, rune(c[0])) {
			return rune(c[0])
		}
	}

	return fallback
}
