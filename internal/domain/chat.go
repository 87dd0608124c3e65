package domain

// ChatKind classifies the conversation context of a message.
type ChatKind string

const (
	ChatDirect  ChatKind = "direct"
	ChatGroup   ChatKind = "group"
	ChatChannel ChatKind = "channel"
)

// Chat identifies a single conversation on the platform. Channel chats also
// carry the community that contains them.
type Chat struct {
	Kind        ChatKind `json:"kind" msgpack:"kind"`
	ID          string   `json:"id" msgpack:"id"`
	CommunityID string   `json:"communityId,omitempty" msgpack:"communityId,omitempty"`
}

// Location derives the installation location that governs this chat. Channel
// chats are governed by their community installation; group and direct chats
// by their own.
func (c Chat) Location() InstallationLocation {
	switch c.Kind {
	case ChatChannel:
		return CommunityLocation(c.CommunityID)
	case ChatGroup:
		return GroupLocation(c.ID)
	default:
		return DirectLocation(c.ID)
	}
}

// roomKeyDelimiter separates the chat id from the thread id in a room key.
const roomKeyDelimiter = "#"

// RoomKey builds the conversational grouping key for a chat, optionally
// scoped to a thread. Distinct from a location key: a community installation
// may contain many rooms.
func RoomKey(chatID, threadID string) string {
	if threadID == "" {
		return chatID
	}
	return chatID + roomKeyDelimiter + threadID
}

// MessageMetadata carries everything a handler needs to know about where a
// message lives. Built fresh per event, never persisted.
type MessageMetadata struct {
	ChatKind         ChatKind `json:"chatKind"`
	ChatID           string   `json:"chatId"`
	LocationKey      string   `json:"locationKey"`
	RoomKey          string   `json:"roomKey"`
	MessageID        string   `json:"messageId,omitempty"`
	ThreadID         string   `json:"threadId,omitempty"`
	ReplyToMessageID string   `json:"replyToMessageId,omitempty"`
	APIGateway       string   `json:"apiGateway,omitempty"`
}

// UserProfile is the display identity of a platform user.
type UserProfile struct {
	UserID      string `json:"userId"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// MentionToken renders the platform's inline mention markup for a user.
func MentionToken(userID string) string {
	return "@UserId(" + userID + ")"
}
