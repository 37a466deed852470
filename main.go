// The main package for the allowlist executable.
package main

import (
	"github.com/sgtrust/trusted-sites-allowlist/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
