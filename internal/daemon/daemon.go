package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"wallshift/internal/config"
	"wallshift/internal/images"
	"wallshift/internal/logging"
	"wallshift/internal/rotation"
	"wallshift/internal/state"
	"wallshift/internal/swww"
)

// sharedKey names the queue record used in synchronized mode.
const sharedKey = "shared"

// WallpaperTool is the slice of the swww wrapper the daemon depends on.
type WallpaperTool interface {
	Apply(ctx context.Context, image, output string, settings config.OutputSettings) error
	Check(ctx context.Context) error
	Outputs(ctx context.Context) ([]string, error)
}

var _ WallpaperTool = (*swww.Tool)(nil)

// ErrNoQueues indicates startup could not build a single usable queue.
var ErrNoQueues = errors.New("daemon: no usable wallpaper queues")

// entry binds one rotation queue to the outputs it drives. Independent
// outputs get an entry each; groups and the synchronized set share one.
type entry struct {
	name         string
	outputs      []string
	queue        *rotation.Queue
	settings     config.OutputSettings
	lastRotation time.Time
}

func (e *entry) remaining(now time.Time) time.Duration {
	left := e.settings.Duration - now.Sub(e.lastRotation)
	if left < 0 {
		return 0
	}
	return left
}

// Daemon owns all rotation state. One mutex guards it: the scheduler takes
// it with TryLock and skips the tick when a control command holds it.
type Daemon struct {
	mu sync.Mutex

	cfg        *config.Config
	configPath string
	logger     *slog.Logger
	tool       WallpaperTool
	store      *state.Store
	snapshot   *state.Snapshot
	applier    *applier

	connected []string
	entries   []*entry
	byOutput  map[string]*entry
	paused    bool
}

// New constructs a daemon. Initialize must be called before Run.
func New(cfg *config.Config, configPath string, logger *slog.Logger, tool WallpaperTool, store *state.Store) *Daemon {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Daemon{
		cfg:        cfg,
		configPath: configPath,
		logger:     logging.WithComponent(logger, "daemon"),
		tool:       tool,
		store:      store,
		snapshot:   state.NewSnapshot(),
		applier:    newApplier(tool, logger),
		byOutput:   make(map[string]*entry),
	}
}

// Initialize discovers images, builds queues for the connected outputs,
// resumes from the saved snapshot, and applies the starting wallpapers.
// It fails when not a single output can be given a queue.
func (d *Daemon) Initialize(ctx context.Context, outputs []string, snap *state.Snapshot) error {
	if len(outputs) == 0 {
		return errors.New("daemon: no connected outputs")
	}
	if snap == nil {
		snap = state.NewSnapshot()
	}

	entries, err := d.buildEntries(d.cfg, outputs, snap)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.connected = slices.Clone(outputs)
	d.installEntries(entries)
	d.paused = snap.GlobalPaused
	d.snapshot = snap
	d.recordAllLocked()
	jobs := d.applyJobsLocked()
	d.mu.Unlock()

	d.logger.Info("daemon initialized",
		logging.Int("outputs", len(outputs)),
		logging.Int("queues", len(entries)),
		logging.Bool("paused", snap.GlobalPaused))

	d.applier.submit(ctx, jobs)
	return nil
}

// buildEntries constructs the queue set for the current behavior. It runs
// without the daemon lock so image discovery cannot stall the scheduler.
func (d *Daemon) buildEntries(cfg *config.Config, outputs []string, snap *state.Snapshot) ([]*entry, error) {
	behavior, degraded := cfg.EffectiveBehavior()
	if degraded {
		d.logger.Warn("grouped behavior configured without monitor_groups, falling back to independent")
	}

	var entries []*entry
	switch behavior.Kind {
	case config.BehaviorSynchronized:
		settings := firstPathSettings(cfg, outputs)
		e, err := d.buildEntry(sharedKey, outputs, settings, snap)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)

	case config.BehaviorGrouped:
		grouped := make(map[string]bool)
		for i, group := range behavior.Groups {
			var members []string
			for _, name := range group {
				if slices.Contains(outputs, name) {
					members = append(members, name)
					grouped[name] = true
				}
			}
			if len(members) == 0 {
				d.logger.Warn("monitor group has no connected outputs",
					logging.Int("group", i),
					logging.Any("members", group))
				continue
			}
			settings := firstPathSettings(cfg, members)
			e, err := d.buildEntry(fmt.Sprintf("group_%d", i), members, settings, snap)
			if err != nil {
				d.logger.Error("skipping group queue",
					logging.Int("group", i),
					logging.Error(err))
				continue
			}
			entries = append(entries, e)
		}
		for _, name := range outputs {
			if grouped[name] {
				continue
			}
			e, err := d.buildEntry(name, []string{name}, cfg.OutputSettings(name), snap)
			if err != nil {
				d.logger.Error("skipping output queue",
					logging.String("output", name),
					logging.Error(err))
				continue
			}
			entries = append(entries, e)
		}

	default:
		for _, name := range outputs {
			e, err := d.buildEntry(name, []string{name}, cfg.OutputSettings(name), snap)
			if err != nil {
				d.logger.Error("skipping output queue",
					logging.String("output", name),
					logging.Error(err))
				continue
			}
			entries = append(entries, e)
		}
	}

	if len(entries) == 0 {
		return nil, ErrNoQueues
	}
	return entries, nil
}

// firstPathSettings picks the settings of the first listed output that has
// an image path configured, so a shared queue follows its lead output.
func firstPathSettings(cfg *config.Config, outputs []string) config.OutputSettings {
	for _, name := range outputs {
		if s := cfg.OutputSettings(name); s.Path != "" {
			return s
		}
	}
	return cfg.OutputSettings("")
}

func (d *Daemon) buildEntry(name string, outputs []string, settings config.OutputSettings, snap *state.Snapshot) (*entry, error) {
	if settings.Path == "" {
		return nil, fmt.Errorf("queue %s: no image path configured", name)
	}
	found, err := images.Discover(settings.Path, d.logger)
	if err != nil {
		return nil, fmt.Errorf("queue %s: %w", name, err)
	}
	queue, err := rotation.New(settings.QueueSize, settings.Sorting, found)
	if err != nil {
		return nil, fmt.Errorf("queue %s: %w", name, err)
	}

	e := &entry{
		name:         name,
		outputs:      outputs,
		queue:        queue,
		settings:     settings,
		lastRotation: time.Now(),
	}
	d.resume(e, snap)
	return e, nil
}

// resume restores a queue's position from a saved record. The synchronized
// queue always starts fresh. Random queues resume on the saved image if it
// still exists, seeking to its index in the new shuffle. Ordered queues
// resume at the saved position only when the freshly discovered list is
// identical to the saved one; any membership or order change starts fresh.
func (d *Daemon) resume(e *entry, snap *state.Snapshot) {
	if e.name == sharedKey {
		return
	}
	rec, ok := snap.Lookup(e.name)
	if !ok {
		return
	}
	if rec.Sorting != e.settings.Sorting {
		d.logger.Debug("saved state ignored, sorting changed",
			logging.String("queue", e.name))
		return
	}

	position := -1
	switch e.settings.Sorting {
	case rotation.SortRandom:
		position = slices.Index(e.queue.Images(), rec.CurrentImage)
		if position < 0 {
			d.logger.Debug("saved state ignored, image no longer present",
				logging.String("queue", e.name),
				logging.String("image", rec.CurrentImage))
			return
		}
	default:
		if !slices.Equal(e.queue.Images(), rec.Images) {
			d.logger.Debug("saved state ignored, image set changed",
				logging.String("queue", e.name))
			return
		}
		position = rec.QueuePosition
	}

	if e.queue.SeekPosition(position) {
		current, _ := e.queue.Current()
		d.logger.Info("resumed queue from saved state",
			logging.String("queue", e.name),
			logging.String("image", current),
			logging.Int("position", position))
	}
}

func (d *Daemon) installEntries(entries []*entry) {
	d.entries = entries
	d.byOutput = make(map[string]*entry, len(entries))
	for _, e := range entries {
		for _, name := range e.outputs {
			d.byOutput[name] = e
		}
	}
}

// recordAllLocked refreshes every snapshot record. Caller holds d.mu.
func (d *Daemon) recordAllLocked() {
	for _, e := range d.entries {
		d.snapshot.Record(e.name, e.queue)
	}
	d.snapshot.GlobalPaused = d.paused
}

// applyJobsLocked builds apply jobs for every entry's current image.
// Caller holds d.mu.
func (d *Daemon) applyJobsLocked() []applyJob {
	var jobs []applyJob
	for _, e := range d.entries {
		current, ok := e.queue.Current()
		if !ok {
			continue
		}
		for _, output := range e.outputs {
			jobs = append(jobs, applyJob{image: current, output: output, settings: e.settings})
		}
	}
	return jobs
}

// save persists the snapshot, pruning stale records first. Progress keeps
// being saved while paused so a restart resumes from the right place.
func (d *Daemon) save() {
	d.mu.Lock()
	snap := d.collectLocked()
	d.mu.Unlock()

	d.writeSnapshot(snap)
}

// trySave is the scheduler's save: the lock is only tried, so a control
// command holding it delays the save to the next slow tick instead of
// blocking the scheduler goroutine. Reports whether the save ran.
func (d *Daemon) trySave() bool {
	if !d.mu.TryLock() {
		return false
	}
	snap := d.collectLocked()
	d.mu.Unlock()

	d.writeSnapshot(snap)
	return true
}

// collectLocked refreshes and clones the snapshot for writing. Caller
// holds d.mu; the clone is written after the lock is released.
func (d *Daemon) collectLocked() *state.Snapshot {
	d.recordAllLocked()
	if removed := d.snapshot.Prune(d.cfg.State.MaxAge.Std()); removed > 0 {
		d.logger.Debug("pruned stale state records", logging.Int("removed", removed))
	}
	return d.snapshot.Clone()
}

func (d *Daemon) writeSnapshot(snap *state.Snapshot) {
	if err := d.store.Save(snap); err != nil {
		d.logger.Warn("state save failed", logging.Error(err))
	}
}
