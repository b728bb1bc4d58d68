package services

import (
	"encoding/json"
	"sort"

	"parishlink/internal/models"
	"parishlink/internal/models/chat"
	"parishlink/internal/services/dto"
)

// VisibleTo reports whether viewerID may still see the message.
// Retracted messages and messages the viewer deleted for themselves
// are hidden.
func VisibleTo(msg *chat.Message, viewerID string) bool {
	if msg.DeletedForEveryone {
		return false
	}
	if len(msg.DeletedFor) == 0 {
		return true
	}
	var hiddenFrom []string
	if err := json.Unmarshal(msg.DeletedFor, &hiddenFrom); err != nil {
		return true
	}
	for _, id := range hiddenFrom {
		if id == viewerID {
			return false
		}
	}
	return true
}

// counterpartOf returns the other party of a message from viewerID's
// perspective.
func counterpartOf(msg *chat.Message, viewerID string) string {
	if msg.FromUserID == viewerID {
		return msg.ToUserID
	}
	return msg.FromUserID
}

// BuildInbox folds a flat message list into per-counterpart threads.
// Messages the viewer cannot see are skipped entirely, so they count
// toward neither previews nor unread totals. Threads are ordered by
// their newest message, newest thread first; messages inside a thread
// stay in ascending creation order (the input order from the store).
// users maps id to the loaded account; a missing entry leaves
// Counterpart nil.
func BuildInbox(viewerID string, messages []*chat.Message, users map[string]*models.User) *dto.InboxResponse {
	type thread struct {
		counterpartID string
		messages      []*chat.Message
		unread        int
	}

	byCounterpart := make(map[string]*thread)
	order := make([]string, 0)

	for _, msg := range messages {
		if !VisibleTo(msg, viewerID) {
			continue
		}
		cp := counterpartOf(msg, viewerID)
		t, ok := byCounterpart[cp]
		if !ok {
			t = &thread{counterpartID: cp}
			byCounterpart[cp] = t
			order = append(order, cp)
		}
		t.messages = append(t.messages, msg)
		if msg.ToUserID == viewerID && !msg.IsRead {
			t.unread++
		}
	}

	threads := make([]*thread, 0, len(byCounterpart))
	for _, cp := range order {
		threads = append(threads, byCounterpart[cp])
	}
	sort.SliceStable(threads, func(i, j int) bool {
		a := threads[i].messages[len(threads[i].messages)-1]
		b := threads[j].messages[len(threads[j].messages)-1]
		return a.CreatedAt.After(b.CreatedAt)
	})

	inbox := &dto.InboxResponse{Conversations: make([]*dto.ConversationResponse, 0, len(threads))}
	for _, t := range threads {
		conv := &dto.ConversationResponse{
			CounterpartID: t.counterpartID,
			UnreadCount:   t.unread,
			Messages:      make([]*dto.ChatMessageResponse, 0, len(t.messages)),
		}
		if u, ok := users[t.counterpartID]; ok && u != nil {
			conv.Counterpart = toUserResponse(u)
		}
		for _, msg := range t.messages {
			conv.Messages = append(conv.Messages, toChatMessageResponse(msg))
		}
		conv.LastMessage = conv.Messages[len(conv.Messages)-1]
		inbox.Conversations = append(inbox.Conversations, conv)
		inbox.TotalUnread += t.unread
	}
	return inbox
}

func toChatMessageResponse(msg *chat.Message) *dto.ChatMessageResponse {
	resp := &dto.ChatMessageResponse{
		ID:             msg.ID,
		FromUserID:     msg.FromUserID,
		ToUserID:       msg.ToUserID,
		Content:        msg.Content,
		AttachmentURL:  msg.AttachmentURL,
		AttachmentName: msg.AttachmentName,
		IsRead:         msg.IsRead,
		ReadAt:         msg.ReadAt,
		EditedAt:       msg.EditedAt,
		CreatedAt:      msg.CreatedAt,
	}
	for _, r := range msg.Reactions {
		resp.Reactions = append(resp.Reactions, dto.ReactionResponse{UserID: r.UserID, Emoji: r.Emoji})
	}
	return resp
}
