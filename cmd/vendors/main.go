// Command vendors runs the vendor panel terminal client against a
// game-script host bridge.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peleg-development/peleg-vendors/backend"
	"github.com/peleg-development/peleg-vendors/bridge"
	"github.com/peleg-development/peleg-vendors/config"
	"github.com/peleg-development/peleg-vendors/panel"
	"github.com/peleg-development/peleg-vendors/runtime"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	hostURL := flag.String("host", "", "override the host websocket URL")
	flag.Parse()

	logger := log.New(os.Stderr, "[vendors] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *hostURL != "" {
		cfg.Host = *hostURL
		if err := cfg.Validate(); err != nil {
			logger.Fatalf("%v", err)
		}
	}

	client, err := dialWithRetry(cfg, logger)
	if err != nil {
		logger.Fatalf("connect to host: %v", err)
	}
	defer client.Close()

	ctrl := panel.NewController(client, log.New(os.Stderr, "[panel] ", log.LstdFlags|log.Lmicroseconds))
	ctrl.SetThemeOverride(cfg.Theme)

	app := runtime.NewApp(runtime.AppConfig{
		Backend: backend.NewTcellBackend(),
		Root:    panel.NewPanel(ctrl),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A dead bridge takes the UI down with it.
	go func() {
		<-client.Done()
		stop()
	}()

	logger.Printf("%s connected to %s", cfg.Resource, cfg.Host)
	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatalf("run: %v", err)
	}
}

// dialWithRetry dials the host with the configured backoff.
func dialWithRetry(cfg config.Config, logger *log.Logger) (*bridge.Client, error) {
	delay := cfg.Reconnect.MinDelay
	var lastErr error
	for attempt := 1; attempt <= cfg.Reconnect.Attempts; attempt++ {
		client, err := bridge.Dial(cfg.Host)
		if err == nil {
			return client, nil
		}
		lastErr = err
		logger.Printf("dial attempt %d/%d failed: %v", attempt, cfg.Reconnect.Attempts, err)
		if attempt < cfg.Reconnect.Attempts {
			time.Sleep(delay)
			delay *= 2
			if delay > cfg.Reconnect.MaxDelay {
				delay = cfg.Reconnect.MaxDelay
			}
		}
	}
	return nil, lastErr
}
