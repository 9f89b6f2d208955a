// Package logging configures zerolog for importkit binaries.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures a console logger on stderr and installs it as the
// global logger. Stdout stays free for command output.
func Setup(environment string) zerolog.Logger {
	return SetupWithWriter(environment, zerolog.ConsoleWriter{Out: os.Stderr})
}

// SetupWithWriter is Setup writing to w.
func SetupWithWriter(environment string, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(w).With().Timestamp().Logger().Level(Level(environment))
	log.Logger = logger
	return logger
}

// Level maps an environment name to a log level: debug in development,
// info otherwise.
func Level(environment string) zerolog.Level {
	if environment == "development" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
