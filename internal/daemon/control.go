package daemon

import (
	"context"
	"fmt"
	"slices"
	"time"

	"wallshift/internal/config"
	"wallshift/internal/logging"
)

// OutputStatus describes one output's rotation state for status reporting.
// Queue names the schedule driving the output: its own name when it rotates
// independently, a group name, or the shared key in synchronized mode.
type OutputStatus struct {
	Output        string
	Queue         string
	CurrentImage  string
	QueuePosition int
	QueueSize     int
	Remaining     time.Duration
	Paused        bool
}

// Report is a point-in-time view of the whole daemon.
type Report struct {
	Paused  bool
	Outputs []OutputStatus
}

// Next advances to the following wallpaper. An empty output advances every
// queue; naming an output advances only that output's independent queue.
func (d *Daemon) Next(ctx context.Context, output string) error {
	jobs, err := d.step(output, func(e *entry) (string, bool) { return e.queue.Advance() })
	if err != nil {
		return err
	}
	d.applier.submit(ctx, jobs)
	return nil
}

// Previous steps back to the most recently shown wallpaper. Stepping back
// past the start of history leaves the current image in place.
func (d *Daemon) Previous(ctx context.Context, output string) error {
	jobs, err := d.step(output, func(e *entry) (string, bool) { return e.queue.Retreat() })
	if err != nil {
		return err
	}
	d.applier.submit(ctx, jobs)
	return nil
}

func (d *Daemon) step(output string, move func(*entry) (string, bool)) ([]applyJob, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	targets := d.entries
	if output != "" {
		e, ok := d.byOutput[output]
		if !ok {
			return nil, fmt.Errorf("unknown output %q", output)
		}
		if e.name != output {
			return nil, fmt.Errorf("output %q does not rotate independently", output)
		}
		targets = []*entry{e}
	}

	now := time.Now()
	var jobs []applyJob
	for _, e := range targets {
		image, ok := move(e)
		if !ok {
			continue
		}
		e.lastRotation = now
		d.snapshot.Record(e.name, e.queue)
		for _, out := range e.outputs {
			jobs = append(jobs, applyJob{image: image, output: out, settings: e.settings})
		}
	}
	return jobs, nil
}

// Pause stops automatic rotation. Manual next/previous still work and state
// keeps being saved.
func (d *Daemon) Pause() {
	d.setPaused(true)
}

// Resume restarts automatic rotation. Rotation timers restart from now so a
// long pause does not trigger an immediate change on every output.
func (d *Daemon) Resume() {
	d.setPaused(false)
}

// TogglePause flips the pause state and reports the new value.
func (d *Daemon) TogglePause() bool {
	d.mu.Lock()
	paused := !d.paused
	d.applyPauseLocked(paused)
	d.mu.Unlock()

	d.save()
	return paused
}

func (d *Daemon) setPaused(paused bool) {
	d.mu.Lock()
	d.applyPauseLocked(paused)
	d.mu.Unlock()

	d.save()
}

func (d *Daemon) applyPauseLocked(paused bool) {
	if !paused && d.paused {
		now := time.Now()
		for _, e := range d.entries {
			e.lastRotation = now
		}
	}
	d.paused = paused
	d.snapshot.GlobalPaused = paused
	d.logger.Info("pause state changed", logging.Bool("paused", paused))
}

// Paused reports whether automatic rotation is stopped.
func (d *Daemon) Paused() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.paused
}

// Reload re-reads the configuration and re-enumerates the connected
// outputs. When the monitor behavior variant is unchanged the running
// queues are left alone and only the stored config is swapped; a variant
// change rebuilds every queue. The running state is left untouched when
// the config fails to parse or validate, names grouped behavior without
// any groups, the wallpaper tool is unreachable, no outputs can be
// enumerated, or no queue can be built from the new settings.
func (d *Daemon) Reload(ctx context.Context) error {
	cfg, _, err := config.Load(d.configPath)
	if err != nil {
		return fmt.Errorf("reload rejected: %w", err)
	}
	behavior, degraded := cfg.EffectiveBehavior()
	if degraded {
		return fmt.Errorf("reload rejected: monitor_behavior is grouped but monitor_groups is empty")
	}
	if err := d.tool.Check(ctx); err != nil {
		return fmt.Errorf("reload rejected: wallpaper tool unreachable: %w", err)
	}
	outputs, err := d.tool.Outputs(ctx)
	if err != nil {
		return fmt.Errorf("reload rejected: %w", err)
	}
	if len(outputs) == 0 {
		return fmt.Errorf("reload rejected: no connected outputs")
	}

	d.mu.Lock()
	live, _ := d.cfg.EffectiveBehavior()
	if live.Kind == behavior.Kind {
		d.cfg = cfg
		d.connected = slices.Clone(outputs)
		d.mu.Unlock()
		d.logger.Info("configuration reloaded, behavior unchanged, queues kept",
			logging.String("behavior", behavior.Kind.String()))
		return nil
	}
	d.recordAllLocked()
	snap := d.snapshot.Clone()
	d.mu.Unlock()

	entries, err := d.buildEntries(cfg, outputs, snap)
	if err != nil {
		return fmt.Errorf("reload rejected: %w", err)
	}

	d.mu.Lock()
	d.cfg = cfg
	d.connected = slices.Clone(outputs)
	d.installEntries(entries)
	d.recordAllLocked()
	jobs := d.applyJobsLocked()
	d.mu.Unlock()

	d.logger.Info("configuration reloaded",
		logging.String("behavior", behavior.Kind.String()),
		logging.Int("queues", len(entries)))
	d.applier.submit(ctx, jobs)
	return nil
}

// Status reports per-output rotation state in connection order.
func (d *Daemon) Status() Report {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	report := Report{Paused: d.paused}
	for _, output := range d.connected {
		e, ok := d.byOutput[output]
		if !ok {
			continue
		}
		current, _ := e.queue.Current()
		report.Outputs = append(report.Outputs, OutputStatus{
			Output:        output,
			Queue:         e.name,
			CurrentImage:  current,
			QueuePosition: e.queue.Position(),
			QueueSize:     e.queue.Size(),
			Remaining:     e.remaining(now),
			Paused:        d.paused,
		})
	}
	return report
}
