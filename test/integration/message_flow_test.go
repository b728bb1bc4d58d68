package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parishlink/internal/models"
	"parishlink/internal/services/dto"
	"parishlink/test/helpers"
)

func TestMessagingFlow(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	alice, aliceToken := srv.CreateApprovedMember(t, "alice@chat.test")
	bob, bobToken := srv.CreateApprovedMember(t, "bob@chat.test")

	// Alice messages Bob twice, Bob replies once.
	for _, content := range []string{"hello Bob", "are you there?"} {
		w := srv.SendRequest(t, http.MethodPost, "/api/messages", dto.SendMessageRequest{
			ToUserID: bob.ID,
			Content:  content,
		}, aliceToken)
		helpers.RequireStatus(t, w, http.StatusCreated)
	}
	w := srv.SendRequest(t, http.MethodPost, "/api/messages", dto.SendMessageRequest{
		ToUserID: alice.ID,
		Content:  "here now",
	}, bobToken)
	helpers.RequireStatus(t, w, http.StatusCreated)

	// Bob's inbox: one conversation with Alice, two unread.
	w = srv.SendRequest(t, http.MethodGet, "/api/messages/inbox", nil, bobToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var inbox dto.InboxResponse
	helpers.DecodeBody(t, w, &inbox)
	require.Len(t, inbox.Conversations, 1)
	assert.Equal(t, alice.ID, inbox.Conversations[0].CounterpartID)
	assert.Equal(t, 2, inbox.Conversations[0].UnreadCount)
	assert.Equal(t, 2, inbox.TotalUnread)
	require.NotNil(t, inbox.Conversations[0].Counterpart)

	// Fetching the thread marks Bob's side read.
	w = srv.SendRequest(t, http.MethodGet, "/api/messages/thread/"+alice.ID, nil, bobToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var thread dto.ConversationResponse
	helpers.DecodeBody(t, w, &thread)
	assert.Len(t, thread.Messages, 3)
	assert.Equal(t, "here now", thread.LastMessage.Content)

	w = srv.SendRequest(t, http.MethodGet, "/api/messages/unread-count", nil, bobToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var unread map[string]int64
	helpers.DecodeBody(t, w, &unread)
	assert.Zero(t, unread["unread_count"])

	// Bob also received a new_message notification.
	w = srv.SendRequest(t, http.MethodGet, "/api/notifications?unread_only=true", nil, bobToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var notifications dto.NotificationListResponse
	helpers.DecodeBody(t, w, &notifications)
	require.NotEmpty(t, notifications.Notifications)
	assert.Equal(t, string(models.NotificationTypeNewMessage), notifications.Notifications[0].Type)
}

func TestMessageEditAndDelete(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	_, aliceToken := srv.CreateApprovedMember(t, "edit-alice@chat.test")
	bob, bobToken := srv.CreateApprovedMember(t, "edit-bob@chat.test")

	w := srv.SendRequest(t, http.MethodPost, "/api/messages", dto.SendMessageRequest{
		ToUserID: bob.ID,
		Content:  "typo mesage",
	}, aliceToken)
	helpers.RequireStatus(t, w, http.StatusCreated)
	var sent dto.ChatMessageResponse
	helpers.DecodeBody(t, w, &sent)

	// Only the sender can edit.
	w = srv.SendRequest(t, http.MethodPut, "/api/messages/"+sent.ID, dto.EditMessageRequest{Content: "hijacked"}, bobToken)
	helpers.RequireStatus(t, w, http.StatusForbidden)

	w = srv.SendRequest(t, http.MethodPut, "/api/messages/"+sent.ID, dto.EditMessageRequest{Content: "typo message, fixed"}, aliceToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var edited dto.ChatMessageResponse
	helpers.DecodeBody(t, w, &edited)
	assert.Equal(t, "typo message, fixed", edited.Content)
	assert.NotNil(t, edited.EditedAt)

	// Recipient hides it for themselves; it stays in the sender's view.
	w = srv.SendRequest(t, http.MethodDelete, "/api/messages/"+sent.ID, dto.DeleteMessageRequest{Scope: "me"}, bobToken)
	helpers.RequireStatus(t, w, http.StatusOK)

	w = srv.SendRequest(t, http.MethodGet, "/api/messages/inbox", nil, bobToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var bobInbox dto.InboxResponse
	helpers.DecodeBody(t, w, &bobInbox)
	assert.Empty(t, bobInbox.Conversations)

	w = srv.SendRequest(t, http.MethodGet, "/api/messages/inbox", nil, aliceToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var aliceInbox dto.InboxResponse
	helpers.DecodeBody(t, w, &aliceInbox)
	require.Len(t, aliceInbox.Conversations, 1)

	// Recipient cannot retract for everyone.
	w = srv.SendRequest(t, http.MethodDelete, "/api/messages/"+sent.ID, dto.DeleteMessageRequest{Scope: "everyone"}, bobToken)
	helpers.RequireStatus(t, w, http.StatusForbidden)

	// Sender can.
	w = srv.SendRequest(t, http.MethodDelete, "/api/messages/"+sent.ID, dto.DeleteMessageRequest{Scope: "everyone"}, aliceToken)
	helpers.RequireStatus(t, w, http.StatusOK)

	w = srv.SendRequest(t, http.MethodGet, "/api/messages/inbox", nil, aliceToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	helpers.DecodeBody(t, w, &aliceInbox)
	assert.Empty(t, aliceInbox.Conversations)
}

// The unread badge and the inbox must agree: a message hidden for the
// viewer counts in neither.
func TestUnreadCountIgnoresHiddenMessages(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	_, aliceToken := srv.CreateApprovedMember(t, "badge-alice@chat.test")
	bob, bobToken := srv.CreateApprovedMember(t, "badge-bob@chat.test")

	w := srv.SendRequest(t, http.MethodPost, "/api/messages", dto.SendMessageRequest{
		ToUserID: bob.ID,
		Content:  "unread and about to be hidden",
	}, aliceToken)
	helpers.RequireStatus(t, w, http.StatusCreated)
	var sent dto.ChatMessageResponse
	helpers.DecodeBody(t, w, &sent)

	w = srv.SendRequest(t, http.MethodGet, "/api/messages/unread-count", nil, bobToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var unread map[string]int64
	helpers.DecodeBody(t, w, &unread)
	assert.Equal(t, int64(1), unread["unread_count"])

	w = srv.SendRequest(t, http.MethodDelete, "/api/messages/"+sent.ID, dto.DeleteMessageRequest{Scope: "me"}, bobToken)
	helpers.RequireStatus(t, w, http.StatusOK)

	w = srv.SendRequest(t, http.MethodGet, "/api/messages/unread-count", nil, bobToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	helpers.DecodeBody(t, w, &unread)
	assert.Zero(t, unread["unread_count"])

	w = srv.SendRequest(t, http.MethodGet, "/api/messages/inbox", nil, bobToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var inbox dto.InboxResponse
	helpers.DecodeBody(t, w, &inbox)
	assert.Zero(t, inbox.TotalUnread)
}

func TestReactionReplaces(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	_, aliceToken := srv.CreateApprovedMember(t, "react-alice@chat.test")
	bob, bobToken := srv.CreateApprovedMember(t, "react-bob@chat.test")

	w := srv.SendRequest(t, http.MethodPost, "/api/messages", dto.SendMessageRequest{
		ToUserID: bob.ID,
		Content:  "react to this",
	}, aliceToken)
	helpers.RequireStatus(t, w, http.StatusCreated)
	var sent dto.ChatMessageResponse
	helpers.DecodeBody(t, w, &sent)

	w = srv.SendRequest(t, http.MethodPost, "/api/messages/"+sent.ID+"/reactions", dto.ReactionRequest{Emoji: "👍"}, bobToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	// Second reaction replaces the first, does not accumulate.
	w = srv.SendRequest(t, http.MethodPost, "/api/messages/"+sent.ID+"/reactions", dto.ReactionRequest{Emoji: "🙏"}, bobToken)
	helpers.RequireStatus(t, w, http.StatusOK)

	w = srv.SendRequest(t, http.MethodGet, "/api/messages/thread/"+bob.ID, nil, aliceToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var thread dto.ConversationResponse
	helpers.DecodeBody(t, w, &thread)
	require.Len(t, thread.Messages, 1)
	require.Len(t, thread.Messages[0].Reactions, 1)
	assert.Equal(t, "🙏", thread.Messages[0].Reactions[0].Emoji)
}

func TestCannotMessageUnapprovedRecipient(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	_, aliceToken := srv.CreateApprovedMember(t, "sender@chat.test")
	pending, _ := srv.CreateUser(t, "pending-recipient@chat.test", models.UserRoleMember, models.ApprovalStatusPending)

	w := srv.SendRequest(t, http.MethodPost, "/api/messages", dto.SendMessageRequest{
		ToUserID: pending.ID,
		Content:  "hello?",
	}, aliceToken)
	helpers.RequireStatus(t, w, http.StatusForbidden)
}

func TestTypingIndicator(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	alice, aliceToken := srv.CreateApprovedMember(t, "typing-alice@chat.test")
	bob, bobToken := srv.CreateApprovedMember(t, "typing-bob@chat.test")

	w := srv.SendRequest(t, http.MethodPost, "/api/messages/typing", dto.TypingRequest{
		ConversationWith: bob.ID,
		IsTyping:         true,
	}, aliceToken)
	helpers.RequireStatus(t, w, http.StatusOK)

	w = srv.SendRequest(t, http.MethodGet, "/api/messages/typing/"+alice.ID, nil, bobToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var typing dto.TypingResponse
	helpers.DecodeBody(t, w, &typing)
	assert.True(t, typing.IsTyping)

	// Last write wins.
	w = srv.SendRequest(t, http.MethodPost, "/api/messages/typing", dto.TypingRequest{
		ConversationWith: bob.ID,
		IsTyping:         false,
	}, aliceToken)
	helpers.RequireStatus(t, w, http.StatusOK)

	w = srv.SendRequest(t, http.MethodGet, "/api/messages/typing/"+alice.ID, nil, bobToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	helpers.DecodeBody(t, w, &typing)
	assert.False(t, typing.IsTyping)
}
