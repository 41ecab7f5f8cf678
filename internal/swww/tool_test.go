package swww

import (
	"slices"
	"testing"

	"wallshift/internal/config"
	"wallshift/internal/rotation"
)

func testSettings() config.OutputSettings {
	return config.OutputSettings{
		Sorting:          rotation.SortRandom,
		TransitionType:   "wipe",
		TransitionStep:   90,
		TransitionAngle:  90,
		TransitionPos:    "center",
		TransitionBezier: "0.25,0.1,0.25,1",
		TransitionFPS:    30,
		TransitionWave:   "20,20",
		Resize:           "crop",
		FillColor:        "000000",
		Filter:           "Lanczos3",
	}
}

func TestBuildArgs(t *testing.T) {
	args := BuildArgs("/pics/a.jpg", "DP-1", testSettings())

	if args[0] != "img" {
		t.Fatalf("first arg = %q, want img", args[0])
	}
	if args[len(args)-1] != "/pics/a.jpg" {
		t.Fatalf("image path not last: %v", args)
	}

	wantPairs := map[string]string{
		"-o":                  "DP-1",
		"--transition-type":   "wipe",
		"--transition-step":   "90",
		"--transition-angle":  "90",
		"--transition-fps":    "30",
		"--resize":            "crop",
		"--fill-color":        "000000",
		"-f":                  "Lanczos3",
		"--transition-bezier": "0.25,0.1,0.25,1",
	}
	for flag, want := range wantPairs {
		i := slices.Index(args, flag)
		if i < 0 || i+1 >= len(args) {
			t.Fatalf("flag %s missing from %v", flag, args)
		}
		if args[i+1] != want {
			t.Fatalf("%s = %q, want %q", flag, args[i+1], want)
		}
	}

	if slices.Contains(args, "--invert-y") {
		t.Fatal("--invert-y present without being enabled")
	}
}

func TestBuildArgsInvertY(t *testing.T) {
	settings := testSettings()
	settings.InvertY = true
	args := BuildArgs("/pics/a.jpg", "DP-1", settings)
	if !slices.Contains(args, "--invert-y") {
		t.Fatalf("--invert-y missing: %v", args)
	}
}

func TestParseQueryOutput(t *testing.T) {
	raw := `DP-1: 2560x1440, scale: 1, currently displaying: image: /pics/a.jpg
HDMI-A-1: 1920x1080, scale: 1, currently displaying: color: 000000

`
	outputs := ParseQueryOutput(raw)
	want := []string{"DP-1", "HDMI-A-1"}
	if !slices.Equal(outputs, want) {
		t.Fatalf("outputs = %v, want %v", outputs, want)
	}
}

func TestParseQueryOutputEmpty(t *testing.T) {
	if outputs := ParseQueryOutput("  \n\n"); outputs != nil {
		t.Fatalf("expected nil, got %v", outputs)
	}
}
