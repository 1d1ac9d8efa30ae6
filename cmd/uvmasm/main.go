// Command uvmasm drives the parser and type-checker pipeline from the
// command line. It is the thin CLI shell spec.md §1 names as an
// external collaborator; the cobra wiring is grounded on the asmCmd in
// the yarc example (gmofishsauce-yarc__asm.go), and logging uses
// logrus as an ecosystem-standard pick.
package main

import (
	"os"

	"uvmasm/cmd/uvmasm/cmdutil"
)

func main() {
	if err := cmdutil.Execute(); err != nil {
		os.Exit(1)
	}
}
