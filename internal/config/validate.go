package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var validBehaviors = map[string]struct{}{
	"independent":  {},
	"synchronized": {},
	"grouped":      {},
}

// Validate checks structural and semantic correctness of the configuration.
// It collects every problem it finds so a user fixing a config sees them all
// at once.
func (c *Config) Validate() error {
	var problems []string

	behavior := strings.ToLower(strings.TrimSpace(c.MonitorBehavior))
	if _, ok := validBehaviors[behavior]; !ok {
		problems = append(problems, fmt.Sprintf(
			"monitor_behavior %q is not one of independent, synchronized, grouped", c.MonitorBehavior))
	}

	problems = append(problems, c.validateGroups()...)
	problems = append(problems, validateOverride("defaults", c.Defaults)...)
	for name, override := range c.Outputs {
		problems = append(problems, validateOverride(fmt.Sprintf("outputs.%q", name), override)...)
	}

	if c.State.MaxAge != 0 && c.State.MaxAge.Std() < time.Minute {
		problems = append(problems, "state.max_age must be at least 1m")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) validateGroups() []string {
	var problems []string
	seen := make(map[string]int)
	for i, group := range c.MonitorGroups {
		if len(group) == 0 {
			problems = append(problems, fmt.Sprintf("monitor_groups[%d] is empty", i))
			continue
		}
		for _, member := range group {
			if strings.TrimSpace(member) == "" {
				problems = append(problems, fmt.Sprintf("monitor_groups[%d] contains an empty output name", i))
				continue
			}
			if prev, dup := seen[member]; dup {
				problems = append(problems, fmt.Sprintf(
					"output %q appears in monitor_groups[%d] and monitor_groups[%d]", member, prev, i))
				continue
			}
			seen[member] = i
		}
	}
	return problems
}

func validateOverride(section string, o OutputOverride) []string {
	var problems []string
	if o.Duration != nil && o.Duration.Std() < time.Second {
		problems = append(problems, fmt.Sprintf("%s.duration must be at least 1s", section))
	}
	if o.QueueSize != nil && *o.QueueSize < 1 {
		problems = append(problems, fmt.Sprintf("%s.queue_size must be positive", section))
	}
	if o.TransitionAngle != nil && (*o.TransitionAngle < 0 || *o.TransitionAngle > 360) {
		problems = append(problems, fmt.Sprintf("%s.transition_angle must be between 0 and 360", section))
	}
	if o.TransitionStep != nil && (*o.TransitionStep < 1 || *o.TransitionStep > 255) {
		problems = append(problems, fmt.Sprintf("%s.transition_step must be between 1 and 255", section))
	}
	if o.TransitionFPS != nil && *o.TransitionFPS < 1 {
		problems = append(problems, fmt.Sprintf("%s.transition_fps must be positive", section))
	}
	return problems
}
