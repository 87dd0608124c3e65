package domain

// EventKind discriminates top-level platform notifications.
type EventKind string

const (
	EventInstalled   EventKind = "installed"
	EventUninstalled EventKind = "uninstalled"
	EventChat        EventKind = "chat_event"
	EventCommunity   EventKind = "community_event"
)

// ChatEventKind discriminates events inside a chat.
type ChatEventKind string

const (
	ChatEventMessage      ChatEventKind = "message"
	ChatEventMemberJoined ChatEventKind = "member_joined"
)

// Event is a decoded platform notification. Exactly one of the inner
// pointers is populated, selected by Kind; unknown kinds carry none.
type Event struct {
	Kind        EventKind         `json:"kind" msgpack:"kind"`
	Installed   *InstalledEvent   `json:"installed,omitempty" msgpack:"installed,omitempty"`
	Uninstalled *UninstalledEvent `json:"uninstalled,omitempty" msgpack:"uninstalled,omitempty"`
	Chat        *ChatEvent        `json:"chat,omitempty" msgpack:"chat,omitempty"`
	Community   *CommunityEvent   `json:"community,omitempty" msgpack:"community,omitempty"`

	// APIGateway is attached by the delivery layer, not part of the wire
	// payload.
	APIGateway string `json:"-" msgpack:"-"`
}

// InstalledEvent announces the bot was installed (or re-installed with a new
// grant) at a location.
type InstalledEvent struct {
	Location                     InstallationLocation `json:"location" msgpack:"location"`
	GrantedCommandPermissions    EncodedPermissions   `json:"grantedCommandPermissions" msgpack:"grantedCommandPermissions"`
	GrantedAutonomousPermissions EncodedPermissions   `json:"grantedAutonomousPermissions" msgpack:"grantedAutonomousPermissions"`
}

// UninstalledEvent announces the bot was removed from a location.
type UninstalledEvent struct {
	Location InstallationLocation `json:"location" msgpack:"location"`
}

// ChatEvent is an event that happened inside a chat the bot can see.
type ChatEvent struct {
	Kind         ChatEventKind      `json:"kind" msgpack:"kind"`
	Chat         Chat               `json:"chat" msgpack:"chat"`
	ThreadID     string             `json:"threadId,omitempty" msgpack:"threadId,omitempty"`
	EventIndex   uint64             `json:"eventIndex" msgpack:"eventIndex"`
	Message      *MessageEvent      `json:"message,omitempty" msgpack:"message,omitempty"`
	MemberJoined *MemberJoinedEvent `json:"memberJoined,omitempty" msgpack:"memberJoined,omitempty"`
}

// MessageEvent is the payload of a ChatEventMessage.
type MessageEvent struct {
	MessageID        string `json:"messageId" msgpack:"messageId"`
	SenderID         string `json:"senderId" msgpack:"senderId"`
	Text             string `json:"text" msgpack:"text"`
	ReplyToMessageID string `json:"replyToMessageId,omitempty" msgpack:"replyToMessageId,omitempty"`
}

// MemberJoinedEvent is the payload of a ChatEventMemberJoined.
type MemberJoinedEvent struct {
	UserID string `json:"userId" msgpack:"userId"`
}

// CommunityEvent is a community-level lifecycle event. Currently logged
// only; no handling is attached.
type CommunityEvent struct {
	CommunityID string `json:"communityId" msgpack:"communityId"`
	Kind        string `json:"kind" msgpack:"kind"`
}
