// Command sellbot runs the Telegram shop bot and its maintenance tools.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/sellbot/internal/cli"
)

func main() {
	err := cli.NewRootCommand().ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "sellbot:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
