package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocationKey_Deterministic(t *testing.T) {
	a := GroupLocation("g1")
	b := GroupLocation("g1")
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "group:g1", a.Key())
}

func TestLocationKey_NoCollisionAcrossVariants(t *testing.T) {
	keys := map[string]bool{}
	for _, loc := range []InstallationLocation{
		CommunityLocation("x"),
		GroupLocation("x"),
		DirectLocation("x"),
		GroupLocation("y"),
	} {
		keys[loc.Key()] = true
	}
	assert.Len(t, keys, 4)
}

func TestLocationScope(t *testing.T) {
	s := CommunityLocation("c1").Scope()
	assert.True(t, s.IsCommunity())
	assert.Equal(t, "c1", s.CommunityID)

	s = GroupLocation("g1").Scope()
	assert.False(t, s.IsCommunity())
	assert.Equal(t, ChatGroup, s.Chat.Kind)
	assert.Equal(t, "g1", s.Chat.ID)

	s = DirectLocation("u1").Scope()
	assert.Equal(t, ChatDirect, s.Chat.Kind)
}

func TestChatLocation(t *testing.T) {
	ch := Chat{Kind: ChatChannel, ID: "ch9", CommunityID: "c1"}
	assert.Equal(t, "community:c1", ch.Location().Key())

	assert.Equal(t, "group:g1", Chat{Kind: ChatGroup, ID: "g1"}.Location().Key())
	assert.Equal(t, "direct:u1", Chat{Kind: ChatDirect, ID: "u1"}.Location().Key())
}

func TestRoomKey(t *testing.T) {
	assert.Equal(t, "g1", RoomKey("g1", ""))
	assert.Equal(t, "g1#7", RoomKey("g1", "7"))
}

func TestPermissions(t *testing.T) {
	p := EncodedPermissions{Message: PermText | PermImage}
	assert.True(t, p.HasMessage(PermText))
	assert.True(t, p.HasMessage(PermImage))
	assert.False(t, p.HasMessage(PermPoll))
}

func TestMentionToken(t *testing.T) {
	assert.Equal(t, "@UserId(abc)", MentionToken("abc"))
}
