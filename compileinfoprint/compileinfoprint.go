// Package compileinfoprint prints the cellscribe build (version, Go release
// and commit) to stderr when a binary that imports it starts. Import it for
// its side effect only.
package compileinfoprint

import "github.com/carbocation/cellscribe/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}
