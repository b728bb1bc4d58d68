package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"parishlink/internal/models"
	"parishlink/internal/models/chat"
)

var convBase = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func msg(id int, from, to string, minutesAfter int, read bool) *chat.Message {
	return &chat.Message{
		ID:         fmt.Sprintf("msg-%d", id),
		FromUserID: from,
		ToUserID:   to,
		Content:    fmt.Sprintf("message %d", id),
		IsRead:     read,
		CreatedAt:  convBase.Add(time.Duration(minutesAfter) * time.Minute),
	}
}

func namedUser(id, name string) *models.User {
	u := &models.User{Name: name, Email: id + "@example.org"}
	u.ID = id
	return u
}

func TestBuildInbox_GroupsByCounterpart(t *testing.T) {
	messages := []*chat.Message{
		msg(1, "alice", "me", 0, true),
		msg(2, "me", "alice", 1, true),
		msg(3, "bob", "me", 2, false),
	}
	users := map[string]*models.User{
		"alice": namedUser("alice", "Alice"),
		"bob":   namedUser("bob", "Bob"),
	}

	inbox := BuildInbox("me", messages, users)

	require.Len(t, inbox.Conversations, 2)
	// Bob's thread has the newest message, so it comes first.
	assert.Equal(t, "bob", inbox.Conversations[0].CounterpartID)
	assert.Equal(t, "alice", inbox.Conversations[1].CounterpartID)
	assert.Len(t, inbox.Conversations[1].Messages, 2)
}

func TestBuildInbox_ThreadOrderFollowsNewestMessage(t *testing.T) {
	messages := []*chat.Message{
		msg(1, "alice", "me", 0, true),
		msg(2, "bob", "me", 5, true),
		msg(3, "me", "alice", 10, true),
	}

	inbox := BuildInbox("me", messages, nil)

	require.Len(t, inbox.Conversations, 2)
	assert.Equal(t, "alice", inbox.Conversations[0].CounterpartID)
	assert.Equal(t, "msg-3", inbox.Conversations[0].LastMessage.ID)
	assert.Equal(t, "bob", inbox.Conversations[1].CounterpartID)
}

func TestBuildInbox_MessagesStayAscendingWithinThread(t *testing.T) {
	messages := []*chat.Message{
		msg(1, "alice", "me", 0, true),
		msg(2, "me", "alice", 1, true),
		msg(3, "alice", "me", 2, false),
	}

	inbox := BuildInbox("me", messages, nil)

	require.Len(t, inbox.Conversations, 1)
	got := inbox.Conversations[0].Messages
	require.Len(t, got, 3)
	assert.Equal(t, "msg-1", got[0].ID)
	assert.Equal(t, "msg-3", got[2].ID)
	assert.Equal(t, "msg-3", inbox.Conversations[0].LastMessage.ID)
}

func TestBuildInbox_UnreadCountsIncomingOnly(t *testing.T) {
	messages := []*chat.Message{
		msg(1, "alice", "me", 0, false),
		msg(2, "alice", "me", 1, false),
		msg(3, "me", "alice", 2, false), // outgoing unread does not count
		msg(4, "bob", "me", 3, false),
	}

	inbox := BuildInbox("me", messages, nil)

	assert.Equal(t, 3, inbox.TotalUnread)
	for _, conv := range inbox.Conversations {
		if conv.CounterpartID == "alice" {
			assert.Equal(t, 2, conv.UnreadCount)
		} else {
			assert.Equal(t, 1, conv.UnreadCount)
		}
	}
}

func TestBuildInbox_HiddenMessagesSkipped(t *testing.T) {
	retracted := msg(1, "alice", "me", 0, false)
	retracted.DeletedForEveryone = true

	hiddenForMe := msg(2, "alice", "me", 1, false)
	hiddenForMe.DeletedFor = datatypes.JSON([]byte(`["me"]`))

	visible := msg(3, "alice", "me", 2, false)

	inbox := BuildInbox("me", []*chat.Message{retracted, hiddenForMe, visible}, nil)

	require.Len(t, inbox.Conversations, 1)
	assert.Len(t, inbox.Conversations[0].Messages, 1)
	assert.Equal(t, "msg-3", inbox.Conversations[0].Messages[0].ID)
	assert.Equal(t, 1, inbox.TotalUnread)
}

func TestBuildInbox_ThreadDisappearsWhenAllMessagesHidden(t *testing.T) {
	retracted := msg(1, "alice", "me", 0, false)
	retracted.DeletedForEveryone = true

	inbox := BuildInbox("me", []*chat.Message{retracted}, nil)

	assert.Empty(t, inbox.Conversations)
	assert.Zero(t, inbox.TotalUnread)
}

func TestBuildInbox_MissingCounterpartLeavesNil(t *testing.T) {
	messages := []*chat.Message{msg(1, "ghost", "me", 0, false)}

	inbox := BuildInbox("me", messages, map[string]*models.User{})

	require.Len(t, inbox.Conversations, 1)
	assert.Nil(t, inbox.Conversations[0].Counterpart)
	assert.Equal(t, "ghost", inbox.Conversations[0].CounterpartID)
}

func TestBuildInbox_SymmetricForBothParticipants(t *testing.T) {
	messages := []*chat.Message{
		msg(1, "alice", "bob", 0, false),
		msg(2, "bob", "alice", 1, false),
	}

	forAlice := BuildInbox("alice", messages, nil)
	forBob := BuildInbox("bob", messages, nil)

	require.Len(t, forAlice.Conversations, 1)
	require.Len(t, forBob.Conversations, 1)
	assert.Equal(t, "bob", forAlice.Conversations[0].CounterpartID)
	assert.Equal(t, "alice", forBob.Conversations[0].CounterpartID)
	assert.Equal(t, 1, forAlice.TotalUnread)
	assert.Equal(t, 1, forBob.TotalUnread)
}

func TestVisibleTo(t *testing.T) {
	m := msg(1, "alice", "bob", 0, false)
	assert.True(t, VisibleTo(m, "alice"))
	assert.True(t, VisibleTo(m, "bob"))

	m.DeletedFor = datatypes.JSON([]byte(`["bob"]`))
	assert.True(t, VisibleTo(m, "alice"))
	assert.False(t, VisibleTo(m, "bob"))

	m.DeletedForEveryone = true
	assert.False(t, VisibleTo(m, "alice"))
	assert.False(t, VisibleTo(m, "bob"))
}
