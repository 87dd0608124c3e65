// Package routing classifies inbound platform events and dispatches them to
// the installation registry, the welcome flow, or the message-handling
// collaborator.
package routing

import (
	"context"
	"strings"

	"github.com/soyeahso/ocbridge/internal/domain"
	"github.com/soyeahso/ocbridge/internal/install"
	"github.com/soyeahso/ocbridge/internal/logging"
	"github.com/soyeahso/ocbridge/internal/platform"
)

// MessageHandler is the message-handling collaborator: it turns a platform
// message into a runtime-native memory/response cycle. The router does not
// inspect its internals.
type MessageHandler interface {
	Handle(ctx context.Context, client platform.Client, ev *domain.ChatEvent, meta domain.MessageMetadata) error
}

// WelcomeGenerator produces a short welcome utterance for a new member.
type WelcomeGenerator interface {
	WelcomeText(ctx context.Context, displayName string) (string, error)
}

// ProfileSource resolves a platform user to a display profile; a miss is
// tolerated.
type ProfileSource interface {
	GetProfile(ctx context.Context, apiGateway, userID string) (domain.UserProfile, bool)
}

// Config gates the router's optional side effects.
type Config struct {
	WelcomeOnInstall  bool
	WelcomeNewMembers bool
}

// Router is the event state machine. It holds no per-event state; side
// effects land in the installation registry or the downstream handler, and
// each inbound delivery is handled independently.
type Router struct {
	registry *install.Registry
	clients  platform.Factory
	profiles ProfileSource
	handler  MessageHandler
	welcomer WelcomeGenerator
	benign   BenignRejection
	cfg      Config
	log      *logging.Logger
}

// RouterOption configures optional router collaborators.
type RouterOption func(*Router)

// WithWelcomer sets the welcome text generator.
func WithWelcomer(w WelcomeGenerator) RouterOption {
	return func(r *Router) { r.welcomer = w }
}

// WithBenignRejection overrides the rejection predicate.
func WithBenignRejection(p BenignRejection) RouterOption {
	return func(r *Router) { r.benign = p }
}

// NewRouter creates an event router.
func NewRouter(
	registry *install.Registry,
	clients platform.Factory,
	profiles ProfileSource,
	handler MessageHandler,
	cfg Config,
	log *logging.Logger,
	opts ...RouterOption,
) *Router {
	r := &Router{
		registry: registry,
		clients:  clients,
		profiles: profiles,
		handler:  handler,
		benign:   DefaultBenignRejection,
		cfg:      cfg,
		log:      log.Sub("routing"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HandleEvent classifies and dispatches one decoded platform event.
// evClient is the originating client handle supplied by the delivery layer;
// it backs message handling when no installation is on record yet.
func (r *Router) HandleEvent(ctx context.Context, ev domain.Event, evClient platform.Client) error {
	switch ev.Kind {
	case domain.EventInstalled:
		if ev.Installed == nil {
			return r.ignoreMissingPayload(ev.Kind)
		}
		r.handleInstalled(ctx, ev.Installed, ev.APIGateway)
		return nil

	case domain.EventUninstalled:
		if ev.Uninstalled == nil {
			return r.ignoreMissingPayload(ev.Kind)
		}
		r.registry.RecordUninstallation(ev.Uninstalled.Location)
		return nil

	case domain.EventChat:
		if ev.Chat == nil {
			return r.ignoreMissingPayload(ev.Kind)
		}
		return r.handleChatEvent(ctx, ev.Chat, ev.APIGateway, evClient)

	case domain.EventCommunity:
		if ev.Community == nil {
			return r.ignoreMissingPayload(ev.Kind)
		}
		r.log.Info().
			Str("communityId", ev.Community.CommunityID).
			Str("kind", ev.Community.Kind).
			Msg("community event received, no handling attached")
		return nil

	default:
		r.log.Warn().Str("kind", string(ev.Kind)).Msg("ignoring unknown event kind")
		return nil
	}
}

// ignoreMissingPayload log-and-ignores an event whose kind names a known
// variant but whose payload pointer is absent. Deliveries are untrusted
// input; a structural mismatch degrades the same way an unknown kind does.
func (r *Router) ignoreMissingPayload(kind domain.EventKind) error {
	r.log.Warn().Str("kind", string(kind)).Msg("ignoring event with missing payload")
	return nil
}

func (r *Router) handleInstalled(ctx context.Context, ev *domain.InstalledEvent, apiGateway string) {
	rec := domain.InstallationRecord{
		APIGateway:                   apiGateway,
		GrantedCommandPermissions:    ev.GrantedCommandPermissions,
		GrantedAutonomousPermissions: ev.GrantedAutonomousPermissions,
	}
	r.registry.RecordInstallation(ev.Location, rec)

	if !r.cfg.WelcomeOnInstall {
		return
	}

	// Welcome failures are logged, never propagated.
	client := r.clients.ClientFor(ev.Location.Scope(), apiGateway, ev.GrantedAutonomousPermissions)
	res := client.SendMessage(ctx, platform.Message{
		Text: "Hello! I'm installed and ready. Type a slash command to get started.",
	})
	if !res.OK {
		r.log.Warn().
			Str("location", ev.Location.Key()).
			Str("error", res.Err).
			Msg("install welcome message failed")
	}
}

func (r *Router) handleChatEvent(ctx context.Context, ev *domain.ChatEvent, apiGateway string, evClient platform.Client) error {
	switch ev.Kind {
	case domain.ChatEventMessage:
		if ev.Message == nil {
			r.log.Warn().Str("kind", string(ev.Kind)).Msg("ignoring chat event with missing payload")
			return nil
		}
		return r.handleMessage(ctx, ev, apiGateway, evClient)

	case domain.ChatEventMemberJoined:
		if ev.MemberJoined == nil {
			r.log.Warn().Str("kind", string(ev.Kind)).Msg("ignoring chat event with missing payload")
			return nil
		}
		r.handleMemberJoined(ctx, ev, apiGateway)
		return nil

	default:
		r.log.Debug().Str("kind", string(ev.Kind)).Msg("ignoring unhandled chat event kind")
		return nil
	}
}

// handleMessage forwards a message event to the handler with freshly-built
// metadata. Events can arrive for chats the registry has not yet learned
// about; the originating client covers that case.
func (r *Router) handleMessage(ctx context.Context, ev *domain.ChatEvent, apiGateway string, evClient platform.Client) error {
	client := evClient
	gateway := apiGateway

	if inst, ok := r.registry.GetByChat(ev.Chat); ok {
		gateway = inst.Record.APIGateway
		client = r.clients.ClientFor(inst.Scope, gateway, inst.Record.GrantedAutonomousPermissions)
	} else {
		r.log.Debug().
			Str("location", ev.Chat.Location().Key()).
			Msg("no installation on record for message, using event client")
	}

	meta := domain.MessageMetadata{
		ChatKind:         ev.Chat.Kind,
		ChatID:           ev.Chat.ID,
		LocationKey:      ev.Chat.Location().Key(),
		RoomKey:          domain.RoomKey(ev.Chat.ID, ev.ThreadID),
		MessageID:        ev.Message.MessageID,
		ThreadID:         ev.ThreadID,
		ReplyToMessageID: ev.Message.ReplyToMessageID,
		APIGateway:       gateway,
	}

	return r.handler.Handle(ctx, client, ev, meta)
}

// handleMemberJoined sends a personalized welcome. Every failure along the
// way degrades: unresolved profile falls back to a shortened raw id, a
// failed generator falls back to a stock line, and a failed send is logged.
func (r *Router) handleMemberJoined(ctx context.Context, ev *domain.ChatEvent, apiGateway string) {
	if !r.cfg.WelcomeNewMembers {
		return
	}

	inst, ok := r.registry.GetByChat(ev.Chat)
	if !ok {
		r.log.Warn().
			Str("location", ev.Chat.Location().Key()).
			Msg("member joined a chat with no installation on record")
		return
	}

	userID := ev.MemberJoined.UserID
	display := shortID(userID)
	if profile, ok := r.profiles.GetProfile(ctx, inst.Record.APIGateway, userID); ok {
		if profile.DisplayName != "" {
			display = profile.DisplayName
		} else if profile.Username != "" {
			display = profile.Username
		}
	}

	text := r.welcomeText(ctx, display)
	mention := domain.MentionToken(userID)
	if !strings.Contains(text, mention) {
		text = mention + " " + text
	}

	client := r.clients.ClientFor(inst.Scope, inst.Record.APIGateway, inst.Record.GrantedAutonomousPermissions)
	res := client.SendMessage(ctx, platform.Message{Text: text, ThreadID: ev.ThreadID})
	if !res.OK {
		r.log.Warn().
			Str("location", inst.Location.Key()).
			Str("error", res.Err).
			Msg("member welcome message failed")
	}
}

func (r *Router) welcomeText(ctx context.Context, display string) string {
	if r.welcomer != nil {
		text, err := r.welcomer.WelcomeText(ctx, display)
		if err == nil && text != "" {
			return text
		}
		if err != nil {
			r.log.Warn().Err(err).Msg("welcome generator failed, using fallback")
		}
	}
	return "Welcome, " + display + "!"
}

// shortID truncates a raw platform identifier for display when no profile
// is available.
func shortID(id string) string {
	const maxLen = 8
	if len(id) <= maxLen {
		return id
	}
	return id[:maxLen]
}
