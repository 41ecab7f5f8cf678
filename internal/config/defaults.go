package config

import (
	"time"

	"wallshift/internal/rotation"
)

const defaultSwwwBinary = "swww"

func builtinSettings() OutputSettings {
	return OutputSettings{
		Duration:         5 * time.Minute,
		QueueSize:        10,
		Sorting:          rotation.SortRandom,
		TransitionType:   "wipe",
		TransitionStep:   90,
		TransitionAngle:  90.0,
		TransitionPos:    "center",
		TransitionBezier: "0.25,0.1,0.25,1",
		TransitionFPS:    30,
		TransitionWave:   "20,20",
		Resize:           "crop",
		FillColor:        "000000",
		Filter:           "Lanczos3",
		InvertY:          false,
	}
}

// Default returns a configuration with built-in defaults applied. Values
// parsed from a config file overlay these.
func Default() Config {
	return Config{
		MonitorBehavior: "independent",
		Daemon: Daemon{
			SwwwBinary: defaultSwwwBinary,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
		State: State{
			MaxAge: Duration(168 * time.Hour),
		},
		Outputs: make(map[string]OutputOverride),
	}
}
