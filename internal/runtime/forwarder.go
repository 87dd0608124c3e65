// Package runtime connects the bridge to the agent runtime: chat messages
// are relayed over a websocket and the runtime's replies are sent back
// through the platform client.
package runtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/soyeahso/ocbridge/internal/domain"
	"github.com/soyeahso/ocbridge/internal/identity"
	"github.com/soyeahso/ocbridge/internal/logging"
	"github.com/soyeahso/ocbridge/internal/platform"
)

// request is a frame sent to the agent runtime.
type request struct {
	Type      string                 `json:"type"` // "message" | "welcome"
	RoomID    string                 `json:"roomId,omitempty"`
	UserID    string                 `json:"userId,omitempty"`
	MessageID string                 `json:"messageId,omitempty"`
	Text      string                 `json:"text,omitempty"`
	Metadata  domain.MessageMetadata `json:"metadata,omitempty"`
}

// response is a frame received from the agent runtime.
type response struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// Forwarder relays events to the agent runtime endpoint. One request is in
// flight at a time; the connection is dialed lazily and dropped on error so
// the next call redials.
type Forwarder struct {
	url    string
	dialer *websocket.Dialer
	log    *logging.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewForwarder creates a forwarder for the given runtime websocket URL.
func NewForwarder(url string, log *logging.Logger) *Forwarder {
	return &Forwarder{
		url:    url,
		dialer: websocket.DefaultDialer,
		log:    log.Sub("runtime"),
	}
}

// Handle relays a message chat-event to the runtime and sends any reply
// text back into the originating chat.
func (f *Forwarder) Handle(ctx context.Context, client platform.Client, ev *domain.ChatEvent, meta domain.MessageMetadata) error {
	if ev.Message == nil {
		return fmt.Errorf("chat event carries no message")
	}

	req := request{
		Type:      "message",
		RoomID:    identity.RoomID(meta.ChatKind, meta.RoomKey),
		UserID:    identity.UserID(ev.Message.SenderID),
		MessageID: identity.MessageID(meta.ChatID, ev.Message.MessageID),
		Text:      ev.Message.Text,
		Metadata:  meta,
	}

	resp, err := f.roundTrip(ctx, req)
	if err != nil {
		return fmt.Errorf("runtime call failed: %w", err)
	}
	if resp.Error != "" {
		return fmt.Errorf("runtime rejected message: %s", resp.Error)
	}
	if resp.Text == "" {
		return nil
	}

	res := client.SendMessage(ctx, platform.Message{
		Text:             resp.Text,
		ThreadID:         meta.ThreadID,
		ReplyToMessageID: ev.Message.MessageID,
	})
	if !res.OK {
		f.log.Warn().
			Str("location", meta.LocationKey).
			Str("error", res.Err).
			Msg("failed to deliver runtime reply")
	}
	return nil
}

// WelcomeText asks the runtime for a short welcome utterance for a display
// name.
func (f *Forwarder) WelcomeText(ctx context.Context, displayName string) (string, error) {
	resp, err := f.roundTrip(ctx, request{Type: "welcome", Text: displayName})
	if err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("runtime welcome failed: %s", resp.Error)
	}
	return resp.Text, nil
}

// Close shuts down the runtime connection if one is open.
func (f *Forwarder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn == nil {
		return nil
	}
	err := f.conn.Close()
	f.conn = nil
	return err
}

func (f *Forwarder) roundTrip(ctx context.Context, req request) (response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.conn == nil {
		conn, _, err := f.dialer.DialContext(ctx, f.url, nil)
		if err != nil {
			return response{}, fmt.Errorf("dialing runtime at %s: %w", f.url, err)
		}
		f.conn = conn
		f.log.Info().Str("url", f.url).Msg("connected to agent runtime")
	}

	if deadline, ok := ctx.Deadline(); ok {
		f.conn.SetWriteDeadline(deadline)
		f.conn.SetReadDeadline(deadline)
	}

	if err := f.conn.WriteJSON(req); err != nil {
		f.drop()
		return response{}, err
	}

	var resp response
	if err := f.conn.ReadJSON(&resp); err != nil {
		f.drop()
		return response{}, err
	}
	return resp, nil
}

// drop discards the connection so the next call redials. Caller holds mu.
func (f *Forwarder) drop() {
	if f.conn != nil {
		f.conn.Close()
		f.conn = nil
	}
}
