// Command pricefetch fetches and caches cryptocurrency prices from CoinMarketCap.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/pricefetch/internal/cli"
	"github.com/rshade/pricefetch/pkg/version"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command tree with args and returns the process exit code.
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
