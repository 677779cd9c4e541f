package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	ramismine "github.com/arhuaco/ram-is-mine"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <pid>", os.Args[0])
	}

	flow, err := ramismine.Conf("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := flow.Run(ctx, os.Args[1]); err != nil {
		log.Fatalf("sampler exited: %v", err)
	}
}
