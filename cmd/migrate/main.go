package main

import (
	"os" // Exit codes

	"github.com/sirupsen/logrus" // Structured logging
)

// Main entry point for migration
func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithField("error", err.Error()).Error("Migration failed")
		os.Exit(1)
	}
}
