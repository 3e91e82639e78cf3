package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"lnr/internal/config"
)

const (
	logLevelEnvKey  = "LNR_LOG_LEVEL"
	logFormatEnvKey = "LNR_LOG_FORMAT"
)

type levelSource int

const (
	sourceDefault levelSource = iota
	sourceFlag
	sourceEnv
	sourceConfig
)

// configureLoggerForCLI installs the default slog logger. An invalid flag is
// an error; an invalid env or config value falls back to the default level
// and returns a warning for the user.
func configureLoggerForCLI(flagLevel, configLevel string) (string, error) {
	envLevel := os.Getenv(logLevelEnvKey)
	rawLevel, source := selectedLogLevel(flagLevel, envLevel, configLevel)

	level, err := parseLogLevel(rawLevel)
	if err == nil {
		slog.SetDefault(newLogger(os.Stderr, level, os.Getenv(logFormatEnvKey)))
		return "", nil
	}

	slog.SetDefault(newLogger(os.Stderr, slog.LevelDebug, os.Getenv(logFormatEnvKey)))
	switch source {
	case sourceFlag:
		return "", fmt.Errorf("invalid --log-level %q", flagLevel)
	case sourceEnv:
		return fmt.Sprintf("warning: invalid %s=%q; defaulting to %s", logLevelEnvKey, envLevel, config.DefaultLogLevel), nil
	case sourceConfig:
		return fmt.Sprintf("warning: invalid log_level=%q; defaulting to %s", configLevel, config.DefaultLogLevel), nil
	}
	return "", nil
}

func selectedLogLevel(flagLevel, envLevel, configLevel string) (string, levelSource) {
	switch {
	case strings.TrimSpace(flagLevel) != "":
		return flagLevel, sourceFlag
	case strings.TrimSpace(envLevel) != "":
		return envLevel, sourceEnv
	case strings.TrimSpace(configLevel) != "":
		return configLevel, sourceConfig
	}
	return "", sourceDefault
}

func parseLogLevel(raw string) (slog.Level, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "":
		return slog.LevelDebug, nil
	case "warning":
		value = "warn"
	}

	if numeric, err := strconv.Atoi(value); err == nil {
		return slog.Level(numeric), nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelDebug, fmt.Errorf("invalid log level %q", raw)
	}
	return level, nil
}

// newLogger builds a stderr logger. format "json" selects the JSON handler;
// anything else uses text.
func newLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
