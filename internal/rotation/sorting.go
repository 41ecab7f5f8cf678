package rotation

import (
	"fmt"
	"math/rand/v2"
	"sort"
)

// Sorting selects the order a queue walks its image set.
type Sorting int

const (
	SortRandom Sorting = iota
	SortAscending
	SortDescending
)

// String returns the canonical lowercase name used in config files and
// persisted snapshots.
func (s Sorting) String() string {
	switch s {
	case SortAscending:
		return "ascending"
	case SortDescending:
		return "descending"
	default:
		return "random"
	}
}

// MarshalText implements encoding.TextMarshaler for TOML and JSON.
func (s Sorting) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML and JSON.
func (s *Sorting) UnmarshalText(text []byte) error {
	parsed, ok := ParseSorting(string(text))
	if !ok {
		return fmt.Errorf("sorting: unsupported value %q", string(text))
	}
	*s = parsed
	return nil
}

// ParseSorting maps a config string onto a Sorting value.
func ParseSorting(value string) (Sorting, bool) {
	switch value {
	case "random":
		return SortRandom, true
	case "ascending":
		return SortAscending, true
	case "descending":
		return SortDescending, true
	default:
		return SortRandom, false
	}
}

// apply orders images in place. Random shuffles; the ordered modes sort by
// the full path string, so re-applying them yields an identical order.
func (s Sorting) apply(images []string) {
	switch s {
	case SortAscending:
		sort.Strings(images)
	case SortDescending:
		sort.Sort(sort.Reverse(sort.StringSlice(images)))
	default:
		rand.Shuffle(len(images), func(i, j int) {
			images[i], images[j] = images[j], images[i]
		})
	}
}
