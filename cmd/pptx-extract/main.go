package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joseph-ayodele/office-extract/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := cli.NewCommand(cli.PPTXTool, cli.Deps{}).ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	if code := cli.ExitCode(err); code != cli.ExitOK {
		cancel()
		os.Exit(code)
	}
}
