package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"wallshift/internal/rotation"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[defaults]
path = "/wallpapers"
`)
	cfg, resolved, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	settings := cfg.OutputSettings("DP-1")
	if settings.Path != "/wallpapers" {
		t.Fatalf("path = %q", settings.Path)
	}
	if settings.Duration != 5*time.Minute {
		t.Fatalf("duration = %v, want 5m", settings.Duration)
	}
	if settings.QueueSize != 10 {
		t.Fatalf("queue size = %d, want 10", settings.QueueSize)
	}
	if settings.Sorting != rotation.SortRandom {
		t.Fatalf("sorting = %v, want random", settings.Sorting)
	}
	if settings.TransitionType != "wipe" {
		t.Fatalf("transition type = %q, want wipe", settings.TransitionType)
	}
}

func TestOutputOverrideWinsOverDefaults(t *testing.T) {
	path := writeConfig(t, `
[defaults]
path = "/wallpapers"
duration = "5m"
sorting = "random"

[outputs."DP-1"]
path = "/other"
duration = "90s"
sorting = "ascending"
`)
	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	overridden := cfg.OutputSettings("DP-1")
	if overridden.Path != "/other" {
		t.Fatalf("path = %q, want /other", overridden.Path)
	}
	if overridden.Duration != 90*time.Second {
		t.Fatalf("duration = %v, want 90s", overridden.Duration)
	}
	if overridden.Sorting != rotation.SortAscending {
		t.Fatalf("sorting = %v, want ascending", overridden.Sorting)
	}

	inherited := cfg.OutputSettings("HDMI-A-1")
	if inherited.Path != "/wallpapers" {
		t.Fatalf("inherited path = %q, want /wallpapers", inherited.Path)
	}
	if inherited.Duration != 5*time.Minute {
		t.Fatalf("inherited duration = %v, want 5m", inherited.Duration)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{
			name: "bad behavior",
			content: `
monitor_behavior = "mirrored"
[defaults]
path = "/w"
`,
			want: "monitor_behavior",
		},
		{
			name: "sub-second duration",
			content: `
[defaults]
path = "/w"
duration = "500ms"
`,
			want: "duration",
		},
		{
			name: "zero queue size",
			content: `
[defaults]
path = "/w"
queue_size = 0
`,
			want: "queue_size",
		},
		{
			name: "angle out of range",
			content: `
[defaults]
path = "/w"
transition_angle = 400.0
`,
			want: "transition_angle",
		},
		{
			name: "duplicate group member",
			content: `
monitor_behavior = "grouped"
monitor_groups = [["DP-1", "DP-2"], ["DP-1"]]
[defaults]
path = "/w"
`,
			want: "monitor_groups",
		},
		{
			name: "empty group",
			content: `
monitor_behavior = "grouped"
monitor_groups = [[]]
[defaults]
path = "/w"
`,
			want: "monitor_groups",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Load(writeConfig(t, tc.content))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEffectiveBehavior(t *testing.T) {
	cfg := Default()
	cfg.MonitorBehavior = "synchronized"
	behavior, degraded := cfg.EffectiveBehavior()
	if behavior.Kind != BehaviorSynchronized || degraded {
		t.Fatalf("got %v degraded=%v", behavior.Kind, degraded)
	}

	cfg.MonitorBehavior = "grouped"
	behavior, degraded = cfg.EffectiveBehavior()
	if behavior.Kind != BehaviorIndependent || !degraded {
		t.Fatalf("grouped without groups should degrade, got %v degraded=%v", behavior.Kind, degraded)
	}

	cfg.MonitorGroups = [][]string{{"DP-1", "DP-2"}}
	behavior, degraded = cfg.EffectiveBehavior()
	if behavior.Kind != BehaviorGrouped || degraded {
		t.Fatalf("got %v degraded=%v", behavior.Kind, degraded)
	}
	if len(behavior.Groups) != 1 {
		t.Fatalf("groups = %v", behavior.Groups)
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	expanded, err := expandPath("~/pics")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if expanded != filepath.Join(home, "pics") {
		t.Fatalf("expanded = %q", expanded)
	}
}

func TestSampleConfigParsesAndValidates(t *testing.T) {
	if _, _, err := Load(writeConfig(t, SampleConfig())); err != nil {
		t.Fatalf("sample config rejected: %v", err)
	}
}
