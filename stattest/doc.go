// Package stattest implements the two-group hypothesis tests and the
// multiple-testing correction used to build marker signatures: Levene's test
// for equal variances, Student's and Welch's two-sample t-tests, and the
// Benjamini-Hochberg false discovery rate adjustment.
//
// All functions are pure and safe to call from concurrent goroutines.
// Undefined results (too few observations, zero variance with identical
// means, NaN input) are reported as NaN rather than as errors, so that a
// caller testing thousands of molecules can classify them and move on.
package stattest
