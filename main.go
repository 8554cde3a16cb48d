// The main package for the blogforge executable.
package main

import (
	"github.com/nichtagentur/blogforge/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
