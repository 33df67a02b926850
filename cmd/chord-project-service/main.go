package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/c3g/chord-project-service/pkg/config"
	"github.com/c3g/chord-project-service/pkg/server"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	logger := logrus.StandardLogger()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(Version)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatalf("Invalid LOG_LEVEL %q: %v", cfg.LogLevel, err)
	}

	logger.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Launch(ctx, logger, cfg); err != nil {
		logger.Errorf("Project service stopped: %v", err)
		stop()
		os.Exit(1)
	}
}
