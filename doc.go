// Package cellscribe holds the stream helpers shared by the CellScribe
// packages: opening local or gs:// inputs, sniffing compression and guessing
// delimiters. The statistics live in stattest and signature, input parsing in
// expression and plotting in volcano.
package cellscribe
