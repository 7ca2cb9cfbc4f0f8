// cellscribe builds differential-expression marker signatures for predefined
// sample populations. Each population is compared against all remaining
// samples, molecule by molecule, and the most upregulated molecules become
// its markers. Results are written as signatures.csv, one volcano plot per
// population and a param.yaml recording how the run was made.
package main

import (
	"log"

	_ "github.com/carbocation/cellscribe/compileinfoprint"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalln(err)
	}
}
