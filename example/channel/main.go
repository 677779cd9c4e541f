package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	ramismine "github.com/arhuaco/ram-is-mine"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <pid>", os.Args[0])
	}

	flow, err := ramismine.ConfFromConfig(ramismine.DefaultConfig())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	sink, samples, closeSamples := ramismine.NewChannelSink("fanout", 32)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		peakWatcher("peak", samples)
	}()

	_, err = flow.Run(context.Background(), os.Args[1], ramismine.StreamOutSink(sink))
	closeSamples()
	wg.Wait()
	if err != nil {
		log.Fatalf("runtime error: %v", err)
	}
}

// peakWatcher reports every new resident-memory high-water mark.
func peakWatcher(name string, samples <-chan ramismine.Sample) {
	var peak string
	for s := range samples {
		if len(s.Resident) > len(peak) || (len(s.Resident) == len(peak) && s.Resident > peak) {
			peak = s.Resident
			fmt.Printf("[%s] pid=%s new peak rss=%s kB\n", name, s.PID, peak)
		}
	}
}
