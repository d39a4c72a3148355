// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"

	"gradi-client/shared/config"

	log "github.com/sirupsen/logrus"
)

// Setup applies level and format from cfg. Output goes to stderr so that
// command output on stdout stays machine readable.
func Setup(cfg config.LoggingConfig) error {
	return SetupWriter(cfg, os.Stderr)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(cfg config.LoggingConfig, w io.Writer) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetOutput(w)

	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
