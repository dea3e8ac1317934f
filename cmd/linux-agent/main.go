package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/doeshing/linux-agent/internal/infrastructure/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCmd(cli.Options{
		Verbose:     cli.DebugFromEnv(),
		Interactive: cli.IsTerminal(os.Stderr),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
