// Package expression loads and validates the two inputs of a signature run: a
// molecule-by-sample expression matrix and a sample-to-population mapping.
//
// Both loaders accept local paths (with ~ expansion) and gs:// URLs, and
// transparently decompress gzip, bzip2, zip, xz and zlib streams. Problems
// with the content of the inputs are reported as *ValidationError.
package expression
