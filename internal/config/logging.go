package config

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// SetupLogging configures the global logrus logger for one of the two
// output modes. Interactive runs keep diagnostics away from the console:
// they go to the --log file when given and are discarded otherwise. JSON
// mode sends diagnostics to stderr so stdout stays a clean row stream.
// Returns the log file handle (caller must close it) or nil if no file.
func SetupLogging(logPath, logLevel string, jsonMode bool) (*os.File, error) {
	var writers []io.Writer
	var logFile *os.File

	// Add file writer if specified
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		logFile = f
		writers = append(writers, f)
	}

	if jsonMode {
		// JSON mode: diagnostics to stderr, data to stdout
		writers = append(writers, os.Stderr)
	} else if len(writers) == 0 {
		// Interactive mode: only log to file (or discard if no file)
		writers = append(writers, io.Discard)
	}

	if len(writers) == 1 {
		log.SetOutput(writers[0])
	} else {
		log.SetOutput(io.MultiWriter(writers...))
	}

	if jsonMode {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level := parseLogLevel(logLevel)
	log.SetLevel(level)
	if level == log.DebugLevel {
		log.SetReportCaller(true)
	}

	return logFile, nil
}

// parseLogLevel converts string to logrus.Level
func parseLogLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
