// Binary ace_ari transcodes Application Resource Identifiers between the
// text and CBOR wire forms, one value per input line (spec.md §6.3).
package main

import "github.com/dtnma-project/ace-ari/cmd/ace_ari/cmd"

func main() {
	cmd.Execute()
}
