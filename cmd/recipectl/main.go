package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"recipe-plaza/internal/cli"
	"recipe-plaza/internal/pkg/common"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	common.Sync()
	if err != nil {
		os.Exit(1)
	}
}
