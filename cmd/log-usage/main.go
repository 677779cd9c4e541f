package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	log "github.com/sirupsen/logrus"

	ramismine "github.com/arhuaco/ram-is-mine"
)

var (
	app = kingpin.New("log-usage", "Print the resident and virtual memory (kB) of a process once per second until it exits.")

	configPath  = app.Flag("config", "Optional YAML configuration file.").String()
	metricsAddr = app.Flag("metrics-addr", "Serve Prometheus metrics on this address while sampling.").String()
	debug       = app.Flag("debug", "Enable debug logging on stderr.").Bool()

	runCmd = app.Command("run", "Sample a process until it exits (default).").Default()
	runPid = runCmd.Arg("pid", "Process id to sample.").Required().String()

	validateCmd = app.Command("validate", "Load and validate a config file without sampling.")

	statsCmd      = app.Command("stats", "Poll the metrics endpoint and print live counters.")
	statsURL      = statsCmd.Flag("url", "Prometheus metrics endpoint.").Default("http://localhost:9100/metrics").String()
	statsInterval = statsCmd.Flag("interval", "Refresh interval.").Default("2s").Duration()
)

var errNoConfig = errors.New("--config is required")

func main() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	var err error
	switch cmd {
	case runCmd.FullCommand():
		err = runCommand(*runPid)
	case validateCmd.FullCommand():
		err = validateCommand()
	case statsCmd.FullCommand():
		err = statsCommand(*statsURL, *statsInterval)
	}

	if err != nil {
		log.Fatalf("log-usage %s: %v", cmd, err)
	}
}

func loadConfig() (*ramismine.Config, error) {
	cfg := ramismine.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = ramismine.LoadConfig(*configPath); err != nil {
			return nil, err
		}
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if *debug {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	return cfg, nil
}

func runCommand(pid string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flow, err := ramismine.ConfFromConfig(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reason, err := flow.Run(ctx, pid)
	if err != nil {
		return err
	}
	log.WithField("pid", pid).Debugf("stopped: %s", reason)

	if reason == ramismine.ReasonCancelled {
		stop()
		os.Exit(1)
	}
	return nil
}

func validateCommand() error {
	if *configPath == "" {
		return errNoConfig
	}
	if _, err := loadConfig(); err != nil {
		return err
	}
	log.Infof("config %s looks good", *configPath)
	return nil
}
