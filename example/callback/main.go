package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/arhuaco/ram-is-mine/pkg/usage"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <pid>", os.Args[0])
	}

	flow, err := usage.ConfFromConfig(usage.DefaultConfig())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	callback := func(s usage.Sample) error {
		fmt.Printf("%s pid=%s rss_kb=%s vsz_kb=%s\n",
			s.Timestamp.Format(time.RFC3339Nano),
			s.PID,
			s.Resident,
			s.Virtual,
		)
		return nil
	}

	reason, err := flow.Run(ctx, os.Args[1], usage.StreamOutCallback("stdout", callback))
	if err != nil {
		log.Fatalf("runtime error: %v", err)
	}
	log.Printf("stopped: %s", reason)
}
