// Package domain defines the platform-facing types shared across the bridge.
package domain

// LocationKind classifies where a bot installation lives.
type LocationKind string

const (
	LocationCommunity LocationKind = "community"
	LocationGroup     LocationKind = "group"
	LocationDirect    LocationKind = "direct"
)

// InstallationLocation is a tagged variant over the places a bot can be
// installed: a community, a group chat, or a direct conversation. The ID is
// the platform-native identifier for that scope.
type InstallationLocation struct {
	Kind LocationKind `json:"kind" msgpack:"kind"`
	ID   string       `json:"id" msgpack:"id"`
}

// CommunityLocation builds a community-scoped installation location.
func CommunityLocation(id string) InstallationLocation {
	return InstallationLocation{Kind: LocationCommunity, ID: id}
}

// GroupLocation builds a group-chat-scoped installation location.
func GroupLocation(id string) InstallationLocation {
	return InstallationLocation{Kind: LocationGroup, ID: id}
}

// DirectLocation builds a direct-conversation-scoped installation location.
func DirectLocation(id string) InstallationLocation {
	return InstallationLocation{Kind: LocationDirect, ID: id}
}

// Key returns the canonical location key ("community:<id>", "group:<id>",
// "direct:<id>"). Semantically equal locations always produce the same key,
// and keys never collide across variants.
func (l InstallationLocation) Key() string {
	return string(l.Kind) + ":" + l.ID
}

// Scope derives the action scope an outbound client operates under when
// authorized for this location.
func (l InstallationLocation) Scope() ActionScope {
	switch l.Kind {
	case LocationCommunity:
		return ActionScope{CommunityID: l.ID}
	case LocationGroup:
		return ActionScope{Chat: &Chat{Kind: ChatGroup, ID: l.ID}}
	default:
		return ActionScope{Chat: &Chat{Kind: ChatDirect, ID: l.ID}}
	}
}

// ActionScope is the authorization context for an outbound client: either a
// single chat or a whole community.
type ActionScope struct {
	Chat        *Chat  `json:"chat,omitempty" msgpack:"chat,omitempty"`
	CommunityID string `json:"communityId,omitempty" msgpack:"communityId,omitempty"`
}

// IsCommunity reports whether the scope covers a community.
func (s ActionScope) IsCommunity() bool { return s.CommunityID != "" }
