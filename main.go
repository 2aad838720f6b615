package main

import (
	"fmt"
	"os"

	"soriblog/mvc"
)

// CliVersion is reported by the version command.
const CliVersion = "1.0.0"

// exit is replaced in tests.
var exit = os.Exit

func main() {
	RealMain()
}

// RealMain runs the command line and exits non-zero on failure.
func RealMain() {
	if err := mvc.NewRootCommand(CliVersion).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}
}
