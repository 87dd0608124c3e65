package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soyeahso/ocbridge/internal/domain"
)

func TestRoomID_Deterministic(t *testing.T) {
	a := RoomID(domain.ChatGroup, "g1")
	b := RoomID(domain.ChatGroup, "g1")
	assert.Equal(t, a, b)
}

func TestRoomID_DistinctInputs(t *testing.T) {
	assert.NotEqual(t, RoomID(domain.ChatGroup, "g1"), RoomID(domain.ChatGroup, "g2"))
	assert.NotEqual(t, RoomID(domain.ChatGroup, "g1"), RoomID(domain.ChatDirect, "g1"))
}

func TestUserID(t *testing.T) {
	a := UserID("2vxsx-fae")
	assert.Equal(t, a, UserID("2vxsx-fae"))
	assert.NotEqual(t, a, UserID("aaaaa-aa"))
}

func TestMessageID(t *testing.T) {
	a := MessageID("g1", "12")
	assert.Equal(t, a, MessageID("g1", "12"))
	assert.NotEqual(t, a, MessageID("g1", "13"))
	assert.NotEqual(t, a, MessageID("g2", "12"))
}

func TestIdentifiersAreValidUUIDs(t *testing.T) {
	for _, id := range []string{
		RoomID(domain.ChatChannel, "c1#5"),
		UserID("2vxsx-fae"),
		MessageID("g1", "12"),
	} {
		assert.Len(t, id, 36)
	}
}
