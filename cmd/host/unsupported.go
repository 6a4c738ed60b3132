//go:build !(darwin || linux)

package main

import (
	"fmt"
	"os"
	"runtime"
)

func main() {
	fmt.Fprintf(os.Stderr, "scriptbridge-host: the native engine library is not supported on %s\n", runtime.GOOS)
	os.Exit(1)
}
