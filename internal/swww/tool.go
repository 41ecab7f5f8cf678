package swww

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"wallshift/internal/config"
	"wallshift/internal/logging"
)

var commandContext = exec.CommandContext

// Tool wraps the swww command-line wallpaper setter.
type Tool struct {
	binary string
	logger *slog.Logger
}

// Option configures the tool wrapper.
type Option func(*Tool)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(t *Tool) {
		if binary != "" {
			t.binary = binary
		}
	}
}

// WithLogger attaches a logger for debug-level command tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tool) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// New constructs a Tool using defaults.
func New(opts ...Option) *Tool {
	tool := &Tool{binary: "swww", logger: logging.NewNop()}
	for _, opt := range opts {
		opt(tool)
	}
	return tool
}

// BuildArgs assembles the `swww img` argument list for one output. The image
// path goes last so paths starting with a dash cannot be taken for flags.
func BuildArgs(image, output string, settings config.OutputSettings) []string {
	args := []string{
		"img",
		"-o", output,
		"--transition-type", settings.TransitionType,
		"--transition-step", strconv.Itoa(settings.TransitionStep),
		"--transition-angle", strconv.FormatFloat(settings.TransitionAngle, 'f', -1, 64),
		"--transition-pos", settings.TransitionPos,
		"--transition-bezier", settings.TransitionBezier,
		"--transition-fps", strconv.Itoa(settings.TransitionFPS),
		"--transition-wave", settings.TransitionWave,
		"--resize", settings.Resize,
		"--fill-color", settings.FillColor,
		"-f", settings.Filter,
	}
	if settings.InvertY {
		args = append(args, "--invert-y")
	}
	return append(args, image)
}

// Apply sets image as the wallpaper on output.
func (t *Tool) Apply(ctx context.Context, image, output string, settings config.OutputSettings) error {
	args := BuildArgs(image, output, settings)
	t.logger.Debug("running swww",
		logging.String("binary", t.binary),
		logging.String("output", output),
		logging.String("image", image))

	cmd := commandContext(ctx, t.binary, args...)
	cmd.Env = commandEnv()

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("swww img on %s: %w: %s", output, err, detail)
		}
		return fmt.Errorf("swww img on %s: %w", output, err)
	}
	return nil
}

// Check verifies the swww daemon is reachable by issuing a query.
func (t *Tool) Check(ctx context.Context) error {
	cmd := commandContext(ctx, t.binary, "query")
	cmd.Env = commandEnv()

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("swww query: %w: %s", err, detail)
		}
		return fmt.Errorf("swww query: %w", err)
	}
	return nil
}

// Outputs queries swww for the connected display outputs.
func (t *Tool) Outputs(ctx context.Context) ([]string, error) {
	cmd := commandContext(ctx, t.binary, "query")
	cmd.Env = commandEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("swww query: %w: %s", err, detail)
		}
		return nil, fmt.Errorf("swww query: %w", err)
	}

	outputs := ParseQueryOutput(stdout.String())
	if len(outputs) == 0 {
		return nil, fmt.Errorf("swww query reported no outputs")
	}
	return outputs, nil
}

// ParseQueryOutput extracts output names from `swww query` lines, which look
// like "DP-1: 2560x1440, scale: 1, currently displaying: image: ...".
func ParseQueryOutput(raw string) []string {
	var outputs []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, _, found := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if found && name != "" {
			outputs = append(outputs, name)
		}
	}
	return outputs
}

// commandEnv builds the environment for swww invocations. The Wayland
// variables must survive into the child even when the daemon was launched
// from a systemd unit that scrubbed them.
func commandEnv() []string {
	env := os.Environ()
	if os.Getenv("WAYLAND_DISPLAY") == "" {
		env = append(env, "WAYLAND_DISPLAY=wayland-0")
	}
	if os.Getenv("XDG_RUNTIME_DIR") == "" {
		env = append(env, fmt.Sprintf("XDG_RUNTIME_DIR=/run/user/%d", os.Getuid()))
	}
	if os.Getenv("XDG_SESSION_TYPE") == "" {
		env = append(env, "XDG_SESSION_TYPE=wayland")
	}
	return env
}
