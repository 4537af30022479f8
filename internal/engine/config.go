package engine

import "log/slog"

// LogFormat selects how a Driver's logger renders records.
type LogFormat string

const (
	// LogFormatRaw writes plain JSON lines, suited to log aggregation.
	LogFormatRaw LogFormat = "raw"
	// LogFormatPretty writes colorized, human-readable lines to a terminal.
	LogFormatPretty LogFormat = "pretty"
	// LogFormatZap routes records through a zap core, for embedding this
	// driver's log output inside a larger zap-based harness.
	LogFormatZap LogFormat = "zap"
)

// Config configures a Driver. Unlike the teacher this configuration is a
// plain struct, not package-level flag.Value state: this package is a
// library with no process entry point of its own (see SPEC_FULL.md OQ-1).
type Config struct {
	// LogLevel is the minimum slog level recorded. The zero value is
	// slog.LevelInfo.
	LogLevel slog.Level
	// LogFormat selects the console rendering. Defaults to LogFormatPretty.
	LogFormat LogFormat
	// Trace is a comma-separated list of debug trace flags to enable, e.g.
	// "schedule,conflict". See traceflag.go for the known names.
	Trace string
	// CombinationalPaths maps an output signal to the input signals it is
	// combinationally derived from, for conflict propagation in Timestep.
	CombinationalPaths map[Signal][]Signal
	// DataNames maps a signal to a human-readable name used in diagnostics.
	// A signal missing from this map is displayed as string(Signal).
	DataNames map[Signal]string
}

func (c Config) logLevel() slog.Level {
	return c.LogLevel
}

func (c Config) logFormat() LogFormat {
	if c.LogFormat == "" {
		return LogFormatPretty
	}
	return c.LogFormat
}

func (c Config) displayName(s Signal) string {
	if name, ok := c.DataNames[s]; ok {
		return name
	}
	return string(s)
}
