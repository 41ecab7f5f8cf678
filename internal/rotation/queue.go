// Package rotation implements the per-output image cycle: an ordered walk
// over a discovered image set with a bounded lookahead buffer, a history of
// previously shown images, and automatic restart once the set is exhausted.
//
// Every image in the set is always in exactly one of {history, current,
// buffer, pool}; operations move images between those regions but never drop
// or duplicate them.
package rotation

import "errors"

// ErrNoImages is returned when a queue is created from an empty image set.
var ErrNoImages = errors.New("rotation: no images to cycle")

// Queue cycles a fixed image set for one output, group, or shared schedule.
// It is not safe for concurrent use; callers serialize access.
type Queue struct {
	buffer   []string // upcoming images, at most capacity entries
	current  string   // empty string means no current image
	history  []string // shown images, oldest first
	pool     []string // discovered images not yet buffered or shown
	capacity int
	sorting  Sorting
}

// New builds a queue over images using the given sorting mode. The mode is
// applied once here; refills drain the pool in the order established now.
// The first sorted image becomes current and the buffer is filled up to
// capacity. A capacity below 1 is coerced to 1 so Advance always has a
// lookahead slot to draw from.
func New(capacity int, sorting Sorting, images []string) (*Queue, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	if capacity < 1 {
		capacity = 1
	}

	pool := make([]string, len(images))
	copy(pool, images)
	sorting.apply(pool)

	q := &Queue{
		capacity: capacity,
		sorting:  sorting,
		current:  pool[0],
		pool:     pool[1:],
	}
	q.refill()
	return q, nil
}

// Advance moves to the next image: the old current joins history, the buffer
// front becomes current, and the buffer refills from the pool. When both the
// pool and buffer run dry the queue restarts from its history, so Advance
// reports a current image as long as the set is non-empty.
func (q *Queue) Advance() (string, bool) {
	if q.current != "" {
		q.history = append(q.history, q.current)
		q.current = ""
	}
	if len(q.buffer) > 0 {
		q.current = q.buffer[0]
		q.buffer = q.buffer[1:]
	}
	q.refill()
	if q.current == "" && len(q.buffer) > 0 {
		q.current = q.buffer[0]
		q.buffer = q.buffer[1:]
	}
	return q.Current()
}

// Retreat steps back to the most recent history entry. The old current is
// pushed onto the buffer front. There is no restart on the way back: once
// history is exhausted the current image simply stays in place.
func (q *Queue) Retreat() (string, bool) {
	if len(q.history) == 0 {
		return q.Current()
	}
	if q.current != "" {
		q.buffer = append([]string{q.current}, q.buffer...)
	}
	q.current = q.history[len(q.history)-1]
	q.history = q.history[:len(q.history)-1]
	return q.Current()
}

// SeekPosition rebuilds the queue so that exactly n images precede current
// in the established order. It reports false when n is out of range and
// leaves the queue untouched in that case. Used for restart reconciliation.
func (q *Queue) SeekPosition(n int) bool {
	all := q.Images()
	if n < 0 || n >= len(all) {
		return false
	}

	q.history = append([]string(nil), all[:n]...)
	q.current = all[n]
	rest := all[n+1:]

	fill := min(q.capacity, len(rest))
	q.buffer = append([]string(nil), rest[:fill]...)
	q.pool = append([]string(nil), rest[fill:]...)
	return true
}

// Current returns the image currently on display, if any.
func (q *Queue) Current() (string, bool) {
	return q.current, q.current != ""
}

// Position is the number of images shown before the current one.
func (q *Queue) Position() int { return len(q.history) }

// Size counts the images participating in the active cycle: history, the
// current image, and the lookahead buffer.
func (q *Queue) Size() int {
	n := len(q.history) + len(q.buffer)
	if q.current != "" {
		n++
	}
	return n
}

// Capacity returns the configured lookahead buffer size.
func (q *Queue) Capacity() int { return q.capacity }

// Mode returns the queue's sorting mode.
func (q *Queue) Mode() Sorting { return q.sorting }

// Images returns every image in processing order: history, then current,
// then the buffered lookahead, then the remaining pool.
func (q *Queue) Images() []string {
	all := make([]string, 0, len(q.history)+1+len(q.buffer)+len(q.pool))
	all = append(all, q.history...)
	if q.current != "" {
		all = append(all, q.current)
	}
	all = append(all, q.buffer...)
	all = append(all, q.pool...)
	return all
}

// refill tops the buffer up from the pool. When pool and buffer are both
// empty but history holds images, the cycle restarts: history moves back to
// the pool, is re-sorted (random modes reshuffle, ordered modes reproduce
// the same order), and the buffer is filled again.
func (q *Queue) refill() {
	for len(q.buffer) < q.capacity && len(q.pool) > 0 {
		q.buffer = append(q.buffer, q.pool[0])
		q.pool = q.pool[1:]
	}

	if len(q.buffer) == 0 && len(q.pool) == 0 && len(q.history) > 0 {
		restart := q.history
		q.history = nil
		q.sorting.apply(restart)
		q.pool = restart
		for len(q.buffer) < q.capacity && len(q.pool) > 0 {
			q.buffer = append(q.buffer, q.pool[0])
			q.pool = q.pool[1:]
		}
	}
}
