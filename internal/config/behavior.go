package config

import "strings"

// BehaviorKind selects how outputs share or split rotation queues.
type BehaviorKind int

const (
	// BehaviorIndependent gives every output its own queue.
	BehaviorIndependent BehaviorKind = iota
	// BehaviorSynchronized drives every output from one shared queue.
	BehaviorSynchronized
	// BehaviorGrouped shares a queue inside each configured group while
	// ungrouped outputs rotate independently.
	BehaviorGrouped
)

func (k BehaviorKind) String() string {
	switch k {
	case BehaviorIndependent:
		return "independent"
	case BehaviorSynchronized:
		return "synchronized"
	case BehaviorGrouped:
		return "grouped"
	default:
		return "unknown"
	}
}

// Behavior is the resolved monitor policy.
type Behavior struct {
	Kind   BehaviorKind
	Groups [][]string
}

// EffectiveBehavior resolves the monitor policy, degrading grouped mode to
// independent when no groups are configured. The degraded flag lets the
// caller log the fallback; this package stays logger-free to avoid an import
// cycle with logging.
func (c *Config) EffectiveBehavior() (Behavior, bool) {
	switch strings.ToLower(strings.TrimSpace(c.MonitorBehavior)) {
	case "synchronized":
		return Behavior{Kind: BehaviorSynchronized}, false
	case "grouped":
		if len(c.MonitorGroups) == 0 {
			return Behavior{Kind: BehaviorIndependent}, true
		}
		return Behavior{Kind: BehaviorGrouped, Groups: c.MonitorGroups}, false
	default:
		return Behavior{Kind: BehaviorIndependent}, false
	}
}
