package sources

import (
	"context"

	"stockcast/internal/config"
)

// ExplicitDiscoverer serves sources from an ordered name to path table
type ExplicitDiscoverer struct {
	entries []config.NamedSource
}

// NewExplicitDiscoverer keeps entries in the given order
func NewExplicitDiscoverer(entries []config.NamedSource) *ExplicitDiscoverer {
	return &ExplicitDiscoverer{entries: append([]config.NamedSource(nil), entries...)}
}

// Mode implements Discoverer
func (e *ExplicitDiscoverer) Mode() string {
	return config.ModeExplicit
}

// Discover implements Discoverer. File existence is checked at load time.
func (e *ExplicitDiscoverer) Discover(_ context.Context, limit int) (Plan, error) {
	if err := checkLimit(limit); err != nil {
		return Plan{}, err
	}

	n := min(limit, len(e.entries))
	plan := Plan{Sources: make([]Source, 0, n)}
	for _, entry := range e.entries[:n] {
		plan.Sources = append(plan.Sources, Source{
			Key:        entry.Name,
			Path:       entry.Path,
			OutputName: entry.Name + config.ExplicitOutputExt,
		})
	}
	return plan, nil
}
