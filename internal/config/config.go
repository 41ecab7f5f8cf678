package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"wallshift/internal/rotation"
)

//go:embed sample_config.toml
var sampleConfig string

// Duration decodes human-readable TOML strings such as "5m" or "90s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Daemon contains runtime knobs for the wallshiftd process itself.
type Daemon struct {
	SwwwBinary  string `toml:"swww_binary"`
	Socket      string `toml:"socket"`
	WatchConfig bool   `toml:"watch_config"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// State configures the persisted snapshot store.
type State struct {
	Path   string   `toml:"path"`
	MaxAge Duration `toml:"max_age"`
}

// OutputOverride holds the per-section settings of the three-level override
// chain. Nil fields mean "inherit from the level below".
type OutputOverride struct {
	Path             *string           `toml:"path"`
	Duration         *Duration         `toml:"duration"`
	QueueSize        *int              `toml:"queue_size"`
	Sorting          *rotation.Sorting `toml:"sorting"`
	TransitionType   *string           `toml:"transition_type"`
	TransitionStep   *int              `toml:"transition_step"`
	TransitionAngle  *float64          `toml:"transition_angle"`
	TransitionPos    *string           `toml:"transition_pos"`
	TransitionBezier *string           `toml:"transition_bezier"`
	TransitionFPS    *int              `toml:"transition_fps"`
	TransitionWave   *string           `toml:"transition_wave"`
	Resize           *string           `toml:"resize"`
	FillColor        *string           `toml:"fill_color"`
	Filter           *string           `toml:"filter"`
	InvertY          *bool             `toml:"invert_y"`
}

// OutputSettings is a fully resolved settings record for one output.
type OutputSettings struct {
	Path             string
	Duration         time.Duration
	QueueSize        int
	Sorting          rotation.Sorting
	TransitionType   string
	TransitionStep   int
	TransitionAngle  float64
	TransitionPos    string
	TransitionBezier string
	TransitionFPS    int
	TransitionWave   string
	Resize           string
	FillColor        string
	Filter           string
	InvertY          bool
}

// Config encapsulates all configuration values for wallshift.
//
// Sections by subsystem:
//   - monitor_behavior / monitor_groups: rotation policy across outputs
//   - daemon: swww binary, control socket path, config watching
//   - logging: log level and format
//   - state: snapshot path and staleness threshold
//   - defaults: settings applied to every output
//   - outputs."NAME": per-output overrides of the defaults
type Config struct {
	MonitorBehavior string                    `toml:"monitor_behavior"`
	MonitorGroups   [][]string                `toml:"monitor_groups"`
	Daemon          Daemon                    `toml:"daemon"`
	Logging         Logging                   `toml:"logging"`
	State           State                     `toml:"state"`
	Defaults        OutputOverride            `toml:"defaults"`
	Outputs         map[string]OutputOverride `toml:"outputs"`
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string { return sampleConfig }

// Load locates, parses, and validates a configuration file. An empty path
// selects the default XDG location. The resolved path is returned alongside
// the config so reload can re-read the same file.
func Load(path string) (*Config, string, error) {
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		var err error
		resolved, err = DefaultConfigPath()
		if err != nil {
			return nil, "", err
		}
	}
	resolved, err := expandPath(resolved)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, resolved, fmt.Errorf("read config %s: %w", resolved, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, resolved, fmt.Errorf("parse config %s: %w", resolved, err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, resolved, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, resolved, fmt.Errorf("config %s: %w", resolved, err)
	}
	return &cfg, resolved, nil
}

func (c *Config) normalize() error {
	if c.Outputs == nil {
		c.Outputs = make(map[string]OutputOverride)
	}
	if c.Defaults.Path != nil {
		expanded, err := expandPath(*c.Defaults.Path)
		if err != nil {
			return err
		}
		c.Defaults.Path = &expanded
	}
	for name, override := range c.Outputs {
		if override.Path != nil {
			expanded, err := expandPath(*override.Path)
			if err != nil {
				return err
			}
			override.Path = &expanded
			c.Outputs[name] = override
		}
	}
	return nil
}

// OutputSettings resolves the effective settings for one output through the
// override chain: built-in defaults, then the [defaults] section, then the
// matching [outputs."NAME"] section.
func (c *Config) OutputSettings(name string) OutputSettings {
	settings := builtinSettings()
	settings.merge(c.Defaults)
	if override, ok := c.Outputs[name]; ok {
		settings.merge(override)
	}
	return settings
}

func (s *OutputSettings) merge(o OutputOverride) {
	if o.Path != nil {
		s.Path = *o.Path
	}
	if o.Duration != nil {
		s.Duration = o.Duration.Std()
	}
	if o.QueueSize != nil {
		s.QueueSize = *o.QueueSize
	}
	if o.Sorting != nil {
		s.Sorting = *o.Sorting
	}
	if o.TransitionType != nil {
		s.TransitionType = *o.TransitionType
	}
	if o.TransitionStep != nil {
		s.TransitionStep = *o.TransitionStep
	}
	if o.TransitionAngle != nil {
		s.TransitionAngle = *o.TransitionAngle
	}
	if o.TransitionPos != nil {
		s.TransitionPos = *o.TransitionPos
	}
	if o.TransitionBezier != nil {
		s.TransitionBezier = *o.TransitionBezier
	}
	if o.TransitionFPS != nil {
		s.TransitionFPS = *o.TransitionFPS
	}
	if o.TransitionWave != nil {
		s.TransitionWave = *o.TransitionWave
	}
	if o.Resize != nil {
		s.Resize = *o.Resize
	}
	if o.FillColor != nil {
		s.FillColor = *o.FillColor
	}
	if o.Filter != nil {
		s.Filter = *o.Filter
	}
	if o.InvertY != nil {
		s.InvertY = *o.InvertY
	}
}

// SocketPath returns the configured control socket path or the XDG default.
func (c *Config) SocketPath() string {
	if strings.TrimSpace(c.Daemon.Socket) != "" {
		return c.Daemon.Socket
	}
	return DefaultSocketPath()
}

// StatePath returns the configured snapshot path or the XDG default.
func (c *Config) StatePath() string {
	if strings.TrimSpace(c.State.Path) != "" {
		return c.State.Path
	}
	return DefaultStatePath()
}

// SwwwBinary returns the wallpaper tool binary name or path.
func (c *Config) SwwwBinary() string {
	if strings.TrimSpace(c.Daemon.SwwwBinary) != "" {
		return c.Daemon.SwwwBinary
	}
	return defaultSwwwBinary
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("empty path")
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return trimmed, nil
}
