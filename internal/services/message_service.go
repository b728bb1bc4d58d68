package services

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"parishlink/internal/email"
	"parishlink/internal/models"
	"parishlink/internal/models/chat"
	"parishlink/internal/repositories"
	"parishlink/internal/services/dto"
	"parishlink/pkg/apperrors"
)

type MessageService struct {
	messageRepo         repositories.MessageRepository
	userRepo            repositories.UserRepository
	outboxRepo          repositories.OutboxRepository
	notificationService *NotificationService
	pusher              RealtimePusher
}

// SetPusher attaches the websocket hub after construction. Optional.
func (s *MessageService) SetPusher(p RealtimePusher) {
	s.pusher = p
}

func NewMessageService(
	messageRepo repositories.MessageRepository,
	userRepo repositories.UserRepository,
	outboxRepo repositories.OutboxRepository,
	notificationService *NotificationService,
) *MessageService {
	return &MessageService{
		messageRepo:         messageRepo,
		userRepo:            userRepo,
		outboxRepo:          outboxRepo,
		notificationService: notificationService,
	}
}

// Send delivers a message to an approved recipient. The recipient gets
// an in-app notification and a best-effort email; neither can fail the
// send.
func (s *MessageService) Send(db *gorm.DB, fromUserID string, req *dto.SendMessageRequest) (*dto.ChatMessageResponse, error) {
	if req.Content == "" && req.AttachmentURL == nil {
		return nil, apperrors.ErrEmptyMessage
	}
	if req.ToUserID == fromUserID {
		return nil, apperrors.NewBadRequestError("cannot message yourself")
	}

	recipient, err := s.userRepo.FindByID(db, req.ToUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, dbErr("chat", "load recipient", err)
	}
	if recipient.AccountStatus != models.ApprovalStatusApproved {
		return nil, apperrors.ErrAccountNotApproved
	}

	msg := &chat.Message{
		FromUserID:     fromUserID,
		ToUserID:       req.ToUserID,
		Content:        req.Content,
		AttachmentURL:  req.AttachmentURL,
		AttachmentName: req.AttachmentName,
	}
	if err := s.messageRepo.Create(db, msg); err != nil {
		return nil, dbErr("chat", "create message", err)
	}

	sender, _ := s.userRepo.FindByID(db, fromUserID)
	senderName := "A member"
	if sender != nil {
		senderName = sender.Name
	}
	s.notificationService.notifyBestEffort(db, recipient.ID,
		models.NotificationTypeNewMessage,
		"New message",
		senderName+" sent you a message",
		map[string]interface{}{"from_user_id": fromUserID, "message_id": msg.ID})
	enqueueEmail(db, s.outboxRepo, recipient.Email, email.TemplateNewMessage, map[string]interface{}{
		"name":      recipient.Name,
		"from_name": senderName,
		"inbox_url": "/messages",
	})

	resp := toChatMessageResponse(msg)
	if s.pusher != nil {
		s.pusher.PushToUser(recipient.ID, "new_message", resp)
	}
	return resp, nil
}

// Inbox folds the caller's full message history into conversations.
func (s *MessageService) Inbox(db *gorm.DB, userID string) (*dto.InboxResponse, error) {
	messages, err := s.messageRepo.FindForUser(db, userID)
	if err != nil {
		return nil, dbErr("chat", "load messages", err)
	}

	ptrs := make([]*chat.Message, 0, len(messages))
	counterpartIDs := make(map[string]struct{})
	for i := range messages {
		ptrs = append(ptrs, &messages[i])
		counterpartIDs[counterpartOf(&messages[i], userID)] = struct{}{}
	}

	ids := make([]string, 0, len(counterpartIDs))
	for id := range counterpartIDs {
		ids = append(ids, id)
	}
	users := map[string]*models.User{}
	if loaded, err := s.userRepo.FindByIDs(db, ids); err == nil {
		for i := range loaded {
			users[loaded[i].ID] = &loaded[i]
		}
	}

	return BuildInbox(userID, ptrs, users), nil
}

// Thread returns the two-way history with one counterpart and marks
// the incoming half read.
func (s *MessageService) Thread(db *gorm.DB, userID, counterpartID string) (*dto.ConversationResponse, error) {
	messages, err := s.messageRepo.FindBetween(db, userID, counterpartID)
	if err != nil {
		return nil, dbErr("chat", "load thread", err)
	}

	if _, err := s.messageRepo.MarkThreadRead(db, userID, counterpartID); err != nil {
		return nil, dbErr("chat", "mark thread read", err)
	}

	conv := &dto.ConversationResponse{
		CounterpartID: counterpartID,
		Messages:      make([]*dto.ChatMessageResponse, 0, len(messages)),
	}
	if counterpart, err := s.userRepo.FindByID(db, counterpartID); err == nil {
		conv.Counterpart = toUserResponse(counterpart)
	}
	for i := range messages {
		if !VisibleTo(&messages[i], userID) {
			continue
		}
		conv.Messages = append(conv.Messages, toChatMessageResponse(&messages[i]))
	}
	if len(conv.Messages) > 0 {
		conv.LastMessage = conv.Messages[len(conv.Messages)-1]
	}
	return conv, nil
}

// Edit replaces the content of the caller's own message.
func (s *MessageService) Edit(db *gorm.DB, userID, messageID, content string) (*dto.ChatMessageResponse, error) {
	msg, err := s.loadMessage(db, messageID)
	if err != nil {
		return nil, err
	}
	if msg.FromUserID != userID {
		return nil, apperrors.ErrMessageNotEditable
	}
	if msg.DeletedForEveryone {
		return nil, apperrors.ErrMessageNotEditable
	}

	now := time.Now()
	msg.Content = content
	msg.EditedAt = &now
	if err := s.messageRepo.Update(db, msg); err != nil {
		return nil, dbErr("chat", "edit message", err)
	}
	return toChatMessageResponse(msg), nil
}

// Delete hides a message. Scope "me" is available to both participants
// and only affects the caller's view; scope "everyone" retracts the
// message and is restricted to the sender.
func (s *MessageService) Delete(db *gorm.DB, userID, messageID, scope string) error {
	msg, err := s.loadMessage(db, messageID)
	if err != nil {
		return err
	}
	if msg.FromUserID != userID && msg.ToUserID != userID {
		return apperrors.ErrMessageAccessDenied
	}

	switch scope {
	case "everyone":
		if msg.FromUserID != userID {
			return apperrors.ErrMessageNotEditable
		}
		msg.DeletedForEveryone = true
	case "me":
		hidden, err := appendHidden(msg.DeletedFor, userID)
		if err != nil {
			return apperrors.InternalError(err)
		}
		msg.DeletedFor = hidden
	default:
		return apperrors.NewBadRequestError("scope must be \"me\" or \"everyone\"")
	}

	if err := s.messageRepo.Update(db, msg); err != nil {
		return dbErr("chat", "delete message", err)
	}
	return nil
}

// React sets the caller's reaction on a message, replacing any previous
// one. One reaction per user per message.
func (s *MessageService) React(db *gorm.DB, userID, messageID, emoji string) error {
	msg, err := s.loadMessage(db, messageID)
	if err != nil {
		return err
	}
	if msg.FromUserID != userID && msg.ToUserID != userID {
		return apperrors.ErrMessageAccessDenied
	}
	if !VisibleTo(msg, userID) {
		return apperrors.ErrMessageAccessDenied
	}
	if err := s.messageRepo.UpsertReaction(db, messageID, userID, emoji); err != nil {
		return dbErr("chat", "save reaction", err)
	}
	return nil
}

func (s *MessageService) RemoveReaction(db *gorm.DB, userID, messageID string) error {
	msg, err := s.loadMessage(db, messageID)
	if err != nil {
		return err
	}
	if msg.FromUserID != userID && msg.ToUserID != userID {
		return apperrors.ErrMessageAccessDenied
	}
	if err := s.messageRepo.RemoveReaction(db, messageID, userID); err != nil {
		return dbErr("chat", "remove reaction", err)
	}
	return nil
}

// MarkThreadRead marks all incoming messages from counterpartID read
// and returns how many changed.
func (s *MessageService) MarkThreadRead(db *gorm.DB, userID, counterpartID string) (int64, error) {
	n, err := s.messageRepo.MarkThreadRead(db, userID, counterpartID)
	if err != nil {
		return 0, dbErr("chat", "mark thread read", err)
	}
	return n, nil
}

func (s *MessageService) UnreadCount(db *gorm.DB, userID string) (int64, error) {
	count, err := s.messageRepo.CountUnread(db, userID)
	if err != nil {
		return 0, dbErr("chat", "count unread messages", err)
	}
	return count, nil
}

// SetTyping records a typing indicator. Writes are last-write-wins;
// there is no expiry, the reader decides staleness from UpdatedAt.
func (s *MessageService) SetTyping(db *gorm.DB, userID string, req *dto.TypingRequest) error {
	if req.ConversationWith == userID {
		return apperrors.NewBadRequestError("cannot type at yourself")
	}
	if err := s.messageRepo.UpsertTyping(db, userID, req.ConversationWith, req.IsTyping); err != nil {
		return dbErr("chat", "save typing indicator", err)
	}
	if s.pusher != nil {
		s.pusher.PushToUser(req.ConversationWith, "typing", dto.TypingResponse{
			UserID:    userID,
			IsTyping:  req.IsTyping,
			UpdatedAt: time.Now(),
		})
	}
	return nil
}

// Typing reports whether the counterpart is currently typing at the
// caller. Indicators older than ten seconds read as not typing.
func (s *MessageService) Typing(db *gorm.DB, userID, counterpartID string) (*dto.TypingResponse, error) {
	indicator, err := s.messageRepo.FindTyping(db, counterpartID, userID)
	if err != nil {
		return nil, dbErr("chat", "load typing indicator", err)
	}
	resp := &dto.TypingResponse{UserID: counterpartID}
	if indicator != nil {
		resp.IsTyping = indicator.IsTyping && time.Since(indicator.UpdatedAt) < 10*time.Second
		resp.UpdatedAt = indicator.UpdatedAt
	}
	return resp, nil
}

func (s *MessageService) loadMessage(db *gorm.DB, messageID string) (*chat.Message, error) {
	msg, err := s.messageRepo.FindByID(db, messageID)
	if err != nil {
		if errors.Is(err, repositories.ErrMessageNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, dbErr("chat", "load message", err)
	}
	return msg, nil
}

// appendHidden adds userID to the hidden-from list, deduplicating.
func appendHidden(current datatypes.JSON, userID string) (datatypes.JSON, error) {
	var hidden []string
	if len(current) > 0 {
		if err := json.Unmarshal(current, &hidden); err != nil {
			return nil, err
		}
	}
	for _, id := range hidden {
		if id == userID {
			return current, nil
		}
	}
	hidden = append(hidden, userID)
	raw, err := json.Marshal(hidden)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
