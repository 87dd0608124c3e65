// Package resolve turns scattered, partially-missing request metadata into a
// fully-resolved operating context: an installation, complete message
// metadata, and a platform client scoped to that installation.
package resolve

import (
	"github.com/soyeahso/ocbridge/internal/domain"
	"github.com/soyeahso/ocbridge/internal/install"
	"github.com/soyeahso/ocbridge/internal/logging"
	"github.com/soyeahso/ocbridge/internal/platform"
)

// Context is a fully-resolved operating context for one request.
type Context struct {
	Installation domain.Installation
	Metadata     domain.MessageMetadata
	Client       platform.Client
}

// Resolver applies the resolution priority order against the installation
// registry.
type Resolver struct {
	registry   *install.Registry
	clients    platform.Factory
	strategies []Strategy
	log        *logging.Logger
}

// NewResolver creates a resolver with the default strategy order.
func NewResolver(reg *install.Registry, clients platform.Factory, log *logging.Logger) *Resolver {
	return &Resolver{
		registry:   reg,
		clients:    clients,
		strategies: defaultStrategies(),
		log:        log.Sub("resolve"),
	}
}

// Resolve walks the strategy list and, on the first hit, completes the
// metadata and constructs a scoped client. The second return is false when
// no installation can be matched; callers treat that as "feature
// unavailable", not a crash.
func (r *Resolver) Resolve(c Candidates) (Context, bool) {
	for _, s := range r.strategies {
		inst, md, ok := s.TryResolve(c, r.registry)
		if !ok {
			continue
		}

		if md == nil {
			md = c.firstMetadata()
		}
		meta := completeMetadata(md, inst)

		r.log.Debug().
			Str("strategy", s.Name()).
			Str("location", meta.LocationKey).
			Msg("context resolved")

		return Context{
			Installation: inst,
			Metadata:     meta,
			Client: r.clients.ClientFor(
				inst.Scope,
				inst.Record.APIGateway,
				inst.Record.GrantedAutonomousPermissions,
			),
		}, true
	}

	r.log.Warn().Msg("no installation matched any resolution strategy")
	return Context{}, false
}

// completeMetadata synthesizes metadata from the installation when none was
// found, or merges synthesized fields into a partial metadata object.
// Explicit non-empty fields win over synthesized ones; the location key is
// always forced to the installation's.
func completeMetadata(md *domain.MessageMetadata, inst domain.Installation) domain.MessageMetadata {
	synth := synthesize(inst)
	if md == nil {
		return synth
	}

	out := *md
	if out.ChatKind == "" {
		out.ChatKind = synth.ChatKind
	}
	if out.ChatID == "" {
		out.ChatID = synth.ChatID
	}
	if out.RoomKey == "" {
		out.RoomKey = domain.RoomKey(out.ChatID, out.ThreadID)
	}
	if out.APIGateway == "" {
		out.APIGateway = synth.APIGateway
	}
	out.LocationKey = synth.LocationKey
	return out
}

// synthesize builds metadata for the installation's own chat: its kind and
// id, with a thread-less room key. Community installations synthesize a
// channel-kind chat rooted at the community id.
func synthesize(inst domain.Installation) domain.MessageMetadata {
	var kind domain.ChatKind
	var chatID string
	if inst.Scope.IsCommunity() {
		kind = domain.ChatChannel
		chatID = inst.Scope.CommunityID
	} else {
		kind = inst.Scope.Chat.Kind
		chatID = inst.Scope.Chat.ID
	}

	return domain.MessageMetadata{
		ChatKind:    kind,
		ChatID:      chatID,
		LocationKey: inst.Location.Key(),
		RoomKey:     domain.RoomKey(chatID, ""),
		APIGateway:  inst.Record.APIGateway,
	}
}
