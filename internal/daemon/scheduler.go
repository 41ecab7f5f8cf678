package daemon

import (
	"context"
	"time"

	"wallshift/internal/logging"
)

const (
	tickInterval = time.Second
	// Saves and liveness checks run every slowTickEvery ticks.
	slowTickEvery = 30
	livenessRetry = 5 * time.Second
)

// Run drives the rotation loop until the context is canceled.
func (d *Daemon) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	d.logger.Info("scheduler started")
	ticks := 0
	for {
		select {
		case <-ctx.Done():
			d.save()
			d.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			ticks++
			d.tick(ctx)
			if ticks%slowTickEvery == 0 {
				d.checkLiveness(ctx)
				if !d.trySave() {
					d.logger.Debug("state save skipped, daemon busy")
				}
			}
		}
	}
}

// tick advances any queue whose interval has elapsed. The lock is taken with
// TryLock: when a control command or reload holds it, the whole tick is
// skipped rather than queued up behind it.
func (d *Daemon) tick(ctx context.Context) {
	if !d.mu.TryLock() {
		return
	}

	var jobs []applyJob
	now := time.Now()
	if !d.paused {
		for _, e := range d.entries {
			if now.Sub(e.lastRotation) < e.settings.Duration {
				continue
			}
			image, ok := e.queue.Advance()
			if !ok {
				continue
			}
			e.lastRotation = now
			d.snapshot.Record(e.name, e.queue)
			for _, output := range e.outputs {
				jobs = append(jobs, applyJob{image: image, output: output, settings: e.settings})
			}
		}
	}
	d.mu.Unlock()

	d.applier.submit(ctx, jobs)
}

// checkLiveness verifies the swww daemon still answers. One failure gets a
// grace period and a retry; a repeated failure is logged, never fatal, and
// the next slow tick checks again.
func (d *Daemon) checkLiveness(ctx context.Context) {
	err := d.tool.Check(ctx)
	if err == nil {
		return
	}
	d.logger.Warn("swww daemon not responding, retrying", logging.Error(err))

	select {
	case <-time.After(livenessRetry):
	case <-ctx.Done():
		return
	}

	if err := d.tool.Check(ctx); err != nil {
		d.logger.Error("swww daemon unreachable, wallpaper applies will fail",
			logging.Error(err))
		return
	}
	d.logger.Info("swww daemon recovered")
}
