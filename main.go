package main

import (
	"context"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/homielab/asnblock/pkg/config"
	"github.com/homielab/asnblock/pkg/runner"
)

func main() {
	// .env is optional; deployments normally pass credentials through the
	// environment directly
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %v", err)
	}

	options, err := config.ParseOptions()
	if err != nil {
		log.Fatalf("main: failed to parse options: %v", err)
	}

	if level, err := log.ParseLevel(*options.LogLevel); err != nil {
		log.Errorf("invalid log level %q, defaulting to info", *options.LogLevel)
		log.SetLevel(log.InfoLevel)
	} else {
		log.SetLevel(level)
	}

	cfg, err := config.ParseConfig(*options.ConfigPath)
	if err != nil {
		log.Fatalf("main: failed to load configuration: %v", err)
	}

	log.Info(color.CyanString("starting ASN blocklist sync"))

	if err := runner.StartSync(context.Background(), options, cfg); err != nil {
		log.Fatalf("main: sync failed: %v", err)
	}
}
