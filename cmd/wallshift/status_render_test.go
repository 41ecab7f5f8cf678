package main

import (
	"strings"
	"testing"

	"wallshift/internal/ipc"
)

func sampleResponse() *ipc.Response {
	return &ipc.Response{
		Status: ipc.StatusReport,
		Outputs: []ipc.OutputStatus{
			{
				Output:           "DP-1",
				Queue:            "DP-1",
				CurrentImage:     "/pics/a.jpg",
				QueuePosition:    2,
				QueueSize:        12,
				RemainingSeconds: 200,
			},
			{
				Output:           "HDMI-A-1",
				Queue:            "group_0",
				CurrentImage:     "/pics/b.jpg",
				QueuePosition:    0,
				QueueSize:        12,
				RemainingSeconds: 0,
			},
		},
	}
}

func TestRenderStatusPlain(t *testing.T) {
	out := renderStatus(sampleResponse(), false)

	if !strings.Contains(out, "Rotation: running") {
		t.Fatalf("missing run state: %q", out)
	}
	if !strings.Contains(out, "DP-1\tDP-1\t/pics/a.jpg\t3/12\t3m20s") {
		t.Fatalf("missing DP-1 row: %q", out)
	}
	if !strings.Contains(out, "HDMI-A-1\tgroup_0\t/pics/b.jpg\t1/12\tready") {
		t.Fatalf("missing HDMI-A-1 row: %q", out)
	}
}

func TestRenderStatusPaused(t *testing.T) {
	resp := sampleResponse()
	resp.Paused = true
	out := renderStatus(resp, false)

	if !strings.Contains(out, "Rotation: paused") {
		t.Fatalf("missing pause state: %q", out)
	}
	if !strings.Contains(out, "paused") {
		t.Fatalf("rows should show paused instead of a countdown: %q", out)
	}
}

func TestRenderStatusTable(t *testing.T) {
	out := renderStatus(sampleResponse(), true)

	for _, want := range []string{"OUTPUT", "QUEUE", "CURRENT IMAGE", "DP-1", "group_0", "3/12"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q: %q", want, out)
		}
	}
}

func TestRenderStatusNoOutputs(t *testing.T) {
	out := renderStatus(&ipc.Response{Status: ipc.StatusReport}, false)
	if !strings.Contains(out, "No outputs.") {
		t.Fatalf("missing empty marker: %q", out)
	}
}
