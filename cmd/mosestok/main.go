package main

import (
	"fmt"
	"os"
)

func main() {
	root := NewRootCmd()
	root.SetArgs(normalizeLegacyArgs(os.Args[1:]))

	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}
