package bridge

import "fmt"

// LogLevel matches the engine's log level bitmask.
type LogLevel int32

const (
	LogDebug LogLevel = 1 << 0
	LogInfo  LogLevel = 1 << 1
	LogWarn  LogLevel = 1 << 2
	LogError LogLevel = 1 << 3
)

func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "debug"
	case LogInfo:
		return "info"
	case LogWarn:
		return "warn"
	case LogError:
		return "error"
	}
	return fmt.Sprintf("level(%d)", int32(l))
}

// ParseLogLevel maps a level name to its LogLevel.
func ParseLogLevel(s string) (LogLevel, bool) {
	switch s {
	case "debug":
		return LogDebug, true
	case "info":
		return LogInfo, true
	case "warn", "warning":
		return LogWarn, true
	case "error":
		return LogError, true
	}
	return 0, false
}
