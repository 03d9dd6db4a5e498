package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/VinMeld/feishu-voice/internal/client"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and maps the outcome to an exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := client.NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		if errors.Is(err, client.ErrInvalidConfig) {
			fmt.Fprintln(stderr, "\nRun with --help for usage information.")
		}
		return 1
	}
	return 0
}
