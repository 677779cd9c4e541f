package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

var statsTargets = []string{
	"usage_samples_total",
	"usage_resident_kb",
	"usage_virtual_kb",
	"usage_status_read_errors_total",
}

func statsCommand(url string, interval time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fmt.Printf("Streaming metrics from %s (Ctrl+C to stop)\n", url)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := printMetricsSnapshot(url); err != nil {
				fmt.Fprintf(os.Stderr, "stats error: %v\n", err)
			}
		}
	}
}

func printMetricsSnapshot(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	values, err := scanMetrics(bufio.NewScanner(resp.Body))
	if err != nil {
		return err
	}

	fmt.Printf("[%s] samples=%.0f rss_kb=%.0f vsz_kb=%.0f read_errors=%.0f\n",
		time.Now().Format(time.RFC3339),
		values["usage_samples_total"],
		values["usage_resident_kb"],
		values["usage_virtual_kb"],
		values["usage_status_read_errors_total"],
	)
	return nil
}

func scanMetrics(scanner *bufio.Scanner) (map[string]float64, error) {
	values := make(map[string]float64, len(statsTargets))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		for _, key := range statsTargets {
			if strings.HasPrefix(line, key+" ") {
				var value float64
				if _, err := fmt.Sscanf(line, key+" %g", &value); err == nil {
					values[key] = value
				}
			}
		}
	}
	return values, scanner.Err()
}
