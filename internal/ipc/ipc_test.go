package ipc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wallshift/internal/config"
	"wallshift/internal/daemon"
	"wallshift/internal/logging"
	"wallshift/internal/rotation"
	"wallshift/internal/state"
)

type nopTool struct{}

func (nopTool) Apply(context.Context, string, string, config.OutputSettings) error { return nil }

func (nopTool) Check(context.Context) error { return nil }

func (nopTool) Outputs(context.Context) ([]string, error) { return []string{"DP-1"}, nil }

var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

func startServer(t *testing.T) (string, *daemon.Daemon) {
	t.Helper()

	dir := t.TempDir()
	for i := 0; i < 3; i++ {
		path := filepath.Join(dir, fmt.Sprintf("img-%d.jpg", i))
		if err := os.WriteFile(path, jpegHeader, 0o644); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}

	cfg := config.Default()
	sorting := rotation.SortAscending
	duration := config.Duration(time.Hour)
	cfg.Defaults.Path = &dir
	cfg.Defaults.Sorting = &sorting
	cfg.Defaults.Duration = &duration

	store := state.NewStore(filepath.Join(t.TempDir(), "state.json"))
	d := daemon.New(&cfg, "", logging.NewNop(), nopTool{}, store)
	if err := d.Initialize(context.Background(), []string{"DP-1"}, nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	// Unix socket paths have a small length limit, so avoid t.TempDir.
	sockDir, err := os.MkdirTemp("", "ws")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(sockDir) })
	socket := filepath.Join(sockDir, "ctl.sock")

	srv, err := NewServer(context.Background(), socket, d, logging.NewNop())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(srv.Close)
	return socket, d
}

func TestStatusRoundTrip(t *testing.T) {
	socket, _ := startServer(t)

	resp, err := Send(socket, Request{Command: CommandStatus})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.Status != StatusReport {
		t.Fatalf("status = %q, want %q", resp.Status, StatusReport)
	}
	if len(resp.Outputs) != 1 || resp.Outputs[0].Output != "DP-1" {
		t.Fatalf("unexpected outputs: %+v", resp.Outputs)
	}
	if resp.Outputs[0].CurrentImage == "" {
		t.Fatal("current image missing from status")
	}
}

func TestNextChangesImage(t *testing.T) {
	socket, d := startServer(t)

	before := d.Status().Outputs[0].CurrentImage
	if _, err := Send(socket, Request{Command: CommandNext, Output: "DP-1"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if after := d.Status().Outputs[0].CurrentImage; after == before {
		t.Fatal("next command did not advance the queue")
	}
}

func TestPauseResumeToggle(t *testing.T) {
	socket, d := startServer(t)

	if _, err := Send(socket, Request{Command: CommandPause}); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if !d.Paused() {
		t.Fatal("daemon not paused")
	}
	if _, err := Send(socket, Request{Command: CommandResume}); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if d.Paused() {
		t.Fatal("daemon still paused after resume")
	}

	resp, err := Send(socket, Request{Command: CommandTogglePause})
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !resp.Paused || !d.Paused() {
		t.Fatal("toggle did not pause")
	}
}

func TestErrorsForBadTarget(t *testing.T) {
	socket, _ := startServer(t)

	resp, err := Send(socket, Request{Command: CommandNext, Output: "DP-9"})
	if err == nil {
		t.Fatal("expected error for unknown output")
	}
	if resp == nil || resp.Status != StatusError {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestClientRejectsUnknownCommand(t *testing.T) {
	if _, err := Send("/nonexistent.sock", Request{Command: "restart"}); err == nil {
		t.Fatal("expected validation error before dialing")
	}
}

func TestRequestValidate(t *testing.T) {
	if err := (Request{Command: CommandStatus}).Validate(); err != nil {
		t.Fatalf("valid command rejected: %v", err)
	}
	if err := (Request{}).Validate(); err == nil {
		t.Fatal("empty command accepted")
	}
	if err := (Request{Command: "bogus"}).Validate(); err == nil {
		t.Fatal("unknown command accepted")
	}
}
