// Package daemon is the core of wallshiftd. It builds rotation queues for
// the connected outputs according to the monitor behavior, advances them on
// a one-second scheduler tick, applies images through swww on a bounded
// worker pool, and persists progress so restarts resume mid-cycle.
//
// Control commands arriving over IPC and the scheduler share one mutex. The
// scheduler only ever tries the lock; a held lock skips the tick instead of
// queueing behind a slow command.
package daemon
