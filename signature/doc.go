// Package signature computes one-vs-rest differential-expression marker
// signatures.
//
// For every population of a validated mapping the Engine compares the
// population's samples against all other samples, molecule by molecule:
// Levene's test picks between Student's and Welch's t-test, the P values are
// corrected with Benjamini-Hochberg across molecules, and each molecule is
// classified Up, Down or NS. The Up molecules are ranked by effect size
// (descending) and adjusted P value (ascending) and the top ones become the
// population's markers.
//
// Outcomes that do not abort a run (no significant markers, fewer markers
// than requested, populations that cannot be tested, rendering problems) are
// returned as Diagnostics on each PopulationResult.
package signature
