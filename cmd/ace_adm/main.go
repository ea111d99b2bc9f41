// Binary ace_adm applies transforms and lint checks to ADM modules
// (spec.md §6.3).
package main

import "github.com/dtnma-project/ace-ari/cmd/ace_adm/cmd"

func main() {
	cmd.Execute()
}
