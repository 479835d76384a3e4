package messages

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"startupconnect/pkg/apperr"
	"startupconnect/pkg/notifications"
	"startupconnect/pkg/policy"
	"startupconnect/pkg/users"
)

const (
	maxContentLength = 10000
	defaultPageSize  = 50
	maxPageSize      = 100
)

var (
	ErrEmptyContent    = apperr.New(apperr.InvalidInput, "EMPTY_MESSAGE", "message content cannot be empty")
	ErrContentTooLong  = apperr.New(apperr.InvalidInput, "MESSAGE_TOO_LONG", "message content too long (max 10000 characters)")
	ErrMissingReceiver = apperr.New(apperr.InvalidInput, "RECEIVER_REQUIRED", "receiver_id is required")
	ErrSelfMessage     = apperr.New(apperr.InvalidInput, "SELF_MESSAGE", "cannot send messages to yourself")
)

// UserLookup resolves message participants.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (users.User, error)
}

type MessageService interface {
	Send(ctx context.Context, actor policy.Actor, receiverID int64, content string) (Message, error)
	Conversation(ctx context.Context, actor policy.Actor, peerID int64, limit int, before time.Time) (ConversationPage, error)
	ConversationUsers(ctx context.Context, actor policy.Actor) ([]Contact, error)
}

type messageService struct {
	store    MessageStore
	users    UserLookup
	notifier notifications.Notifier
	logger   *log.Logger
	now      func() time.Time
}

func NewMessageService(store MessageStore, users UserLookup, notifier notifications.Notifier) MessageService {
	return &messageService{
		store:    store,
		users:    users,
		notifier: notifier,
		logger:   log.New(log.Writer(), "[messages] ", log.LstdFlags),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// validateMessage checks the payload before any lookup.
func validateMessage(senderID, receiverID int64, content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > maxContentLength {
		return ErrContentTooLong
	}
	if receiverID <= 0 {
		return ErrMissingReceiver
	}
	if receiverID == senderID {
		return ErrSelfMessage
	}
	return nil
}

func (s *messageService) Send(ctx context.Context, actor policy.Actor, receiverID int64, content string) (Message, error) {
	if !actor.Authenticated() {
		return Message{}, apperr.ErrUnauthorized
	}
	if err := validateMessage(actor.UserID, receiverID, content); err != nil {
		return Message{}, err
	}

	receiver, err := s.users.GetUserByID(ctx, receiverID)
	if err != nil {
		return Message{}, err
	}
	if !actor.IsAdmin() {
		if err := policy.AuthorizeCrossRoleContact(actor.Role, receiver.Role); err != nil {
			return Message{}, err
		}
	}

	saved, err := s.store.SaveMessage(ctx, Message{
		SenderID:   actor.UserID,
		ReceiverID: receiver.ID,
		Content:    content,
		SentAt:     s.now(),
	})
	if err != nil {
		s.logger.Printf("db insert failed for user %d -> %d: %v", actor.UserID, receiver.ID, err)
		return Message{}, err
	}

	s.notifier.Notify(ctx, receiver.ID, notifications.KindMessage, "New Message Received",
		fmt.Sprintf("You have received a new message from %s", actor.Email))
	return saved, nil
}

func (s *messageService) Conversation(ctx context.Context, actor policy.Actor, peerID int64, limit int, before time.Time) (ConversationPage, error) {
	if !actor.Authenticated() {
		return ConversationPage{}, apperr.ErrUnauthorized
	}
	if peerID <= 0 {
		return ConversationPage{}, apperr.New(apperr.InvalidInput, "PEER_REQUIRED", "peer_id is required")
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if before.IsZero() {
		before = s.now().Add(time.Second)
	}

	msgs, err := s.store.GetConversation(ctx, actor.UserID, peerID, limit, before)
	if err != nil {
		return ConversationPage{}, err
	}
	return ConversationPage{Messages: msgs, Count: len(msgs)}, nil
}

func (s *messageService) ConversationUsers(ctx context.Context, actor policy.Actor) ([]Contact, error) {
	if !actor.Authenticated() {
		return nil, apperr.ErrUnauthorized
	}
	return s.store.GetConversationUsers(ctx, actor.UserID)
}
