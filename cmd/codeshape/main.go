// Package main provides the entry point for the codeshape CLI.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/Sumatoshi-tech/codeshape/cmd/codeshape/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	code := commands.Execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}
