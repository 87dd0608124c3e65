package resolve

import (
	"github.com/soyeahso/ocbridge/internal/domain"
	"github.com/soyeahso/ocbridge/internal/install"
)

// Candidates are the partially-populated, possibly-conflicting metadata
// sources available for one resolution: explicit call-site options, ambient
// conversation state, and metadata attached to the message itself, plus a
// preferred location key decoupled from full metadata.
type Candidates struct {
	Options *domain.MessageMetadata
	State   *domain.MessageMetadata
	Message *domain.MessageMetadata

	PreferredLocationKey string
}

// firstMetadata returns the highest-priority metadata object present,
// regardless of whether it carries a location key.
func (c Candidates) firstMetadata() *domain.MessageMetadata {
	switch {
	case c.Options != nil:
		return c.Options
	case c.State != nil:
		return c.State
	case c.Message != nil:
		return c.Message
	}
	return nil
}

// Strategy is one step of the resolution priority order. A strategy either
// produces an installation (optionally with the metadata that selected it)
// or passes.
type Strategy interface {
	Name() string
	TryResolve(c Candidates, reg *install.Registry) (domain.Installation, *domain.MessageMetadata, bool)
}

// metadataStrategy resolves through a metadata candidate that carries a
// location key known to the registry.
type metadataStrategy struct {
	name string
	pick func(Candidates) *domain.MessageMetadata
}

func (s metadataStrategy) Name() string { return s.name }

func (s metadataStrategy) TryResolve(c Candidates, reg *install.Registry) (domain.Installation, *domain.MessageMetadata, bool) {
	md := s.pick(c)
	if md == nil || md.LocationKey == "" {
		return domain.Installation{}, nil, false
	}
	inst, ok := reg.Get(md.LocationKey)
	if !ok {
		return domain.Installation{}, nil, false
	}
	return inst, md, true
}

// preferredKeyStrategy tries an explicitly preferred location key directly
// against the registry.
type preferredKeyStrategy struct{}

func (preferredKeyStrategy) Name() string { return "preferred-key" }

func (preferredKeyStrategy) TryResolve(c Candidates, reg *install.Registry) (domain.Installation, *domain.MessageMetadata, bool) {
	if c.PreferredLocationKey == "" {
		return domain.Installation{}, nil, false
	}
	inst, ok := reg.Get(c.PreferredLocationKey)
	return inst, nil, ok
}

// firstInstallationStrategy falls back to the oldest installation the
// registry holds. With multiple installations this can route to the wrong
// location; kept as documented behavior.
type firstInstallationStrategy struct{}

func (firstInstallationStrategy) Name() string { return "first-installation" }

func (firstInstallationStrategy) TryResolve(_ Candidates, reg *install.Registry) (domain.Installation, *domain.MessageMetadata, bool) {
	all := reg.Installations()
	if len(all) == 0 {
		return domain.Installation{}, nil, false
	}
	return all[0], nil, true
}

// defaultStrategies returns the resolution priority order. First match wins;
// there is no mixing across steps.
func defaultStrategies() []Strategy {
	return []Strategy{
		metadataStrategy{name: "options-metadata", pick: func(c Candidates) *domain.MessageMetadata { return c.Options }},
		metadataStrategy{name: "state-metadata", pick: func(c Candidates) *domain.MessageMetadata { return c.State }},
		metadataStrategy{name: "message-metadata", pick: func(c Candidates) *domain.MessageMetadata { return c.Message }},
		preferredKeyStrategy{},
		firstInstallationStrategy{},
	}
}
