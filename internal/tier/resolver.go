package tier

import (
	"errors"
	"fmt"
	"sort"
)

// Tier is an inclusive referred-distributor count range mapped to a
// commission percentage. A nil Max means the range is unbounded.
type Tier struct {
	Min        int
	Max        *int
	Percentage int
}

// Resolver maps a referred-distributor count to a commission percentage
// using an ordered, contiguous, non-overlapping tier table. It is
// immutable after construction.
type Resolver struct {
	tiers []Tier
}

var (
	ErrEmptyTable     = errors.New("tier table is empty")
	ErrTableNotZero   = errors.New("tier table must start at 0")
	ErrTableGap       = errors.New("tier table has a gap or overlap")
	ErrUnboundedInner = errors.New("only the last tier may be unbounded")
	ErrInvalidRange   = errors.New("tier max must be >= min")
	ErrInvalidPercent = errors.New("tier percentage must be between 0 and 100")
)

// NewResolver validates the table and returns a resolver over a copy of it.
func NewResolver(tiers []Tier) (*Resolver, error) {
	if len(tiers) == 0 {
		return nil, ErrEmptyTable
	}

	ordered := make([]Tier, len(tiers))
	copy(ordered, tiers)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Min < ordered[j].Min
	})

	if ordered[0].Min != 0 {
		return nil, ErrTableNotZero
	}

	for i, t := range ordered {
		if t.Percentage < 0 || t.Percentage > 100 {
			return nil, fmt.Errorf("tier %d: %w", i, ErrInvalidPercent)
		}
		if t.Max == nil {
			if i != len(ordered)-1 {
				return nil, ErrUnboundedInner
			}
			continue
		}
		if *t.Max < t.Min {
			return nil, fmt.Errorf("tier %d: %w", i, ErrInvalidRange)
		}
		if i < len(ordered)-1 && ordered[i+1].Min != *t.Max+1 {
			return nil, fmt.Errorf("tier %d: %w", i, ErrTableGap)
		}
	}

	return &Resolver{tiers: ordered}, nil
}

// Percentage returns the commission percentage for a referred-distributor
// count. First inclusive match wins; 0 when nothing matches.
func (r *Resolver) Percentage(count int) int {
	for _, t := range r.tiers {
		if count < t.Min {
			continue
		}
		if t.Max == nil || count <= *t.Max {
			return t.Percentage
		}
	}
	return 0
}

// Tiers returns a copy of the validated table.
func (r *Resolver) Tiers() []Tier {
	out := make([]Tier, len(r.tiers))
	copy(out, r.tiers)
	return out
}
