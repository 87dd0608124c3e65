// Package identity derives stable internal identifiers from platform-native
// strings. All derivations are pure functions of a fixed namespace and a
// semantically-prefixed name, so the same platform entity always maps to the
// same internal id without any persisted lookup table.
package identity

import (
	"github.com/google/uuid"

	"github.com/soyeahso/ocbridge/internal/domain"
)

// namespace is the fixed UUID namespace all bridge identifiers are derived
// under. Changing it would re-key every known entity.
var namespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

func derive(name string) string {
	return uuid.NewSHA1(namespace, []byte(name)).String()
}

// RoomID returns the internal room identifier for a chat kind and room key.
func RoomID(kind domain.ChatKind, roomKey string) string {
	return derive("room-" + string(kind) + "-" + roomKey)
}

// UserID returns the internal user identifier for a platform principal.
func UserID(principal string) string {
	return derive("user-" + principal)
}

// MessageID returns the internal message identifier for a message within a
// chat.
func MessageID(chatID, messageID string) string {
	return derive("message-" + chatID + "-" + messageID)
}
