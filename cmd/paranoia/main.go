// Command paranoia is the security-hardening policy layer daemon and CLI.
package main

import "github.com/paranoialabs/paranoia/cmd/paranoia/cmd"

func main() {
	cmd.Execute()
}
