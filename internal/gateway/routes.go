package gateway

import (
	"io"
	"net/http"
	"strings"

	"github.com/soyeahso/ocbridge/internal/domain"
	"github.com/soyeahso/ocbridge/internal/platform"
	"github.com/soyeahso/ocbridge/internal/resolve"
	"github.com/soyeahso/ocbridge/internal/version"
)

// maxNotifyBody bounds the size of a notification envelope.
const maxNotifyBody = 1 << 20

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /bot_definition", s.handleBotDefinition)
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.HandleFunc("POST /notify", s.handleNotify)
	mux.HandleFunc("POST /execute_command", s.handleExecuteCommand)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": version.Version,
	})
}

func (s *Server) handleBotDefinition(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.definition)
}

// handleNotify verifies and dispatches one pushed notification. Each
// delivery is independent: a failure here answers this request only and
// never wedges the router.
func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxNotifyBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unreadable body"})
		return
	}

	n, err := s.verifier.VerifyEnvelope(body)
	if err != nil {
		s.log.Warn().Err(err).Msg("rejected notification envelope")
		s.metrics.ObserveEvent("envelope", "rejected")
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}

	if n.Rejection != nil {
		if err := s.router.HandleRejection(*n.Rejection); err != nil {
			s.log.Error().Err(err).Msg("event delivery rejected")
			s.metrics.ObserveEvent("rejection", "escalated")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		s.metrics.ObserveEvent("rejection", "ignored")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	ev := *n.Event
	if err := s.router.HandleEvent(r.Context(), ev, s.eventClient(ev, n.Granted)); err != nil {
		s.log.Error().Err(err).Str("kind", string(ev.Kind)).Msg("event handling failed")
		s.metrics.ObserveEvent(string(ev.Kind), "failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	s.metrics.ObserveEvent(string(ev.Kind), "handled")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// eventClient builds the originating client handle for a chat event, scoped
// to the event's own chat and the permissions the delivery granted. It
// backs handling for chats the registry has not learned about yet.
func (s *Server) eventClient(ev domain.Event, granted domain.EncodedPermissions) platform.Client {
	if ev.Kind != domain.EventChat || ev.Chat == nil {
		return nil
	}
	return s.clients.ClientFor(ev.Chat.Chat.Location().Scope(), ev.APIGateway, granted)
}

// handleExecuteCommand verifies a command JWT, resolves its operating
// context, and forwards the command to the message handler as a synthetic
// message event.
func (s *Server) handleExecuteCommand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxNotifyBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unreadable body"})
		return
	}

	claims, err := s.verifier.VerifyCommandToken(strings.TrimSpace(string(body)))
	if err != nil {
		s.log.Warn().Err(err).Msg("rejected command token")
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}

	rctx, ok := s.resolver.Resolve(commandCandidates(claims))
	if !ok {
		// Not installed anywhere the command can land; feature
		// unavailable rather than an error.
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"message": "feature unavailable: the bot has no matching installation",
		})
		return
	}

	ev := commandAsChatEvent(claims, rctx.Metadata)
	if err := s.handler.Handle(r.Context(), rctx.Client, ev, rctx.Metadata); err != nil {
		s.log.Error().Err(err).Str("command", claims.Command.Name).Msg("command handling failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// commandCandidates maps verified claims onto the resolver's inputs.
func commandCandidates(claims *CommandClaims) resolve.Candidates {
	c := resolve.Candidates{}

	if claims.Chat != nil {
		chat := *claims.Chat
		c.Message = &domain.MessageMetadata{
			ChatKind:    chat.Kind,
			ChatID:      chat.ID,
			LocationKey: chat.Location().Key(),
			RoomKey:     domain.RoomKey(chat.ID, claims.ThreadID),
			MessageID:   claims.MessageID,
			ThreadID:    claims.ThreadID,
			APIGateway:  claims.APIGateway,
		}
	}
	if claims.CommunityID != "" {
		c.PreferredLocationKey = domain.CommunityLocation(claims.CommunityID).Key()
	}
	return c
}

// commandAsChatEvent renders a slash command as the message event the
// handler understands.
func commandAsChatEvent(claims *CommandClaims, meta domain.MessageMetadata) *domain.ChatEvent {
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(claims.Command.Name)
	for _, arg := range claims.Command.Args {
		b.WriteString(" ")
		b.WriteString(arg.Value)
	}

	chat := domain.Chat{Kind: meta.ChatKind, ID: meta.ChatID}
	if claims.Chat != nil {
		chat = *claims.Chat
	}

	return &domain.ChatEvent{
		Kind:     domain.ChatEventMessage,
		Chat:     chat,
		ThreadID: meta.ThreadID,
		Message: &domain.MessageEvent{
			MessageID: meta.MessageID,
			SenderID:  claims.Initiator,
			Text:      b.String(),
		},
	}
}
