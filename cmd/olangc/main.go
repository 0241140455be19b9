// Command olangc compiles olang (the Language) source into Target Assembly.
package main

import (
	"fmt"
	"os"

	"github.com/go-olang/olangc/cmd/olangc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cmd.ExitCode(err))
	}
}
