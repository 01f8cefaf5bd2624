package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
)

// newLogger creates a per-command logger. The verbose flag forces DebugLevel;
// otherwise the level follows the LOG_LEVEL environment variable, defaulting
// to InfoLevel.
func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()

	if verbose {
		log.SetLevel(logrus.DebugLevel)
		return log
	}

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}
