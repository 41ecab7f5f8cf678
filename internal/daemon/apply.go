package daemon

import (
	"context"
	"log/slog"
	"time"

	"wallshift/internal/config"
	"wallshift/internal/images"
	"wallshift/internal/logging"
)

const (
	applyWorkers  = 4
	applyAttempts = 3
	applyBackoff  = 500 * time.Millisecond
)

type applyJob struct {
	image    string
	output   string
	settings config.OutputSettings
}

// applier runs swww invocations on a bounded worker pool so a slow or
// wedged swww cannot pile up goroutines, and so applies never run under
// the daemon lock.
type applier struct {
	tool   WallpaperTool
	logger *slog.Logger
	slots  chan struct{}
}

func newApplier(tool WallpaperTool, logger *slog.Logger) *applier {
	return &applier{
		tool:   tool,
		logger: logging.WithComponent(logger, "apply"),
		slots:  make(chan struct{}, applyWorkers),
	}
}

// submit dispatches jobs without waiting for them to finish.
func (a *applier) submit(ctx context.Context, jobs []applyJob) {
	for _, job := range jobs {
		select {
		case a.slots <- struct{}{}:
		case <-ctx.Done():
			return
		}
		go func(job applyJob) {
			defer func() { <-a.slots }()
			a.run(ctx, job)
		}(job)
	}
}

func (a *applier) run(ctx context.Context, job applyJob) {
	if err := images.Validate(job.image); err != nil {
		a.logger.Error("refusing to apply invalid image",
			logging.String("output", job.output),
			logging.Error(err))
		return
	}

	var lastErr error
	for attempt := 1; attempt <= applyAttempts; attempt++ {
		lastErr = a.tool.Apply(ctx, job.image, job.output, job.settings)
		if lastErr == nil {
			a.logger.Info("wallpaper applied",
				logging.String("output", job.output),
				logging.String("image", job.image))
			return
		}
		if ctx.Err() != nil {
			return
		}
		if attempt < applyAttempts {
			a.logger.Warn("apply failed, retrying",
				logging.String("output", job.output),
				logging.Int("attempt", attempt),
				logging.Error(lastErr))
			select {
			case <-time.After(applyBackoff):
			case <-ctx.Done():
				return
			}
		}
	}
	a.logger.Error("apply failed after retries",
		logging.String("output", job.output),
		logging.String("image", job.image),
		logging.Error(lastErr))
}
