// Package platform defines the outbound client boundary: building and
// sending messages to the chat platform under an installation's scope.
package platform

import (
	"context"

	"github.com/soyeahso/ocbridge/internal/domain"
)

// Message is an outbound text message.
type Message struct {
	Text             string `msgpack:"text"`
	ThreadID         string `msgpack:"threadId,omitempty"`
	ReplyToMessageID string `msgpack:"replyToMessageId,omitempty"`
}

// SendResult is the tagged outcome of a send. Ordinary failures populate
// Err instead of surfacing as a Go error.
type SendResult struct {
	OK        bool
	MessageID string
	Err       string
}

// ChatSummary is the platform's description of a chat.
type ChatSummary struct {
	Name        string `msgpack:"name"`
	Description string `msgpack:"description,omitempty"`
	MemberCount int    `msgpack:"memberCount,omitempty"`
}

// Client sends actions to the platform on behalf of one installation scope.
type Client interface {
	// SendMessage delivers a text message into the client's scope.
	SendMessage(ctx context.Context, msg Message) SendResult

	// ChatSummary queries the summary of a chat visible to the scope.
	ChatSummary(ctx context.Context, chat domain.Chat) (ChatSummary, error)

	// Scope returns the authorization context the client operates under.
	Scope() domain.ActionScope
}

// Factory constructs clients authorized under a scope, gateway URL, and
// granted permission set.
type Factory interface {
	ClientFor(scope domain.ActionScope, gateway string, granted domain.EncodedPermissions) Client
}
