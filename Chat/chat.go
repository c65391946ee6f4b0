package Chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"MagicPlanner/Models"

	log "github.com/sirupsen/logrus"
)

var (
	ErrEmptyMessage = errors.New("message text is empty")
	ErrNoChannel    = errors.New("chat channel is not set")
)

// Store is a conversation keyed by the account's e-mail.
type Store interface {
	List(ctx context.Context, channel string, limit int) ([]Models.ChatMessage, error)
	Add(ctx context.Context, channel string, msg Models.ChatMessage) (string, error)
}

// Service sends and reads the messages of the logged-in child.
type Service struct {
	store Store
	Limit int
}

func NewService(store Store) *Service {
	return &Service{store: store, Limit: 100}
}

// History returns the newest messages first.
func (s *Service) History(ctx context.Context, account Models.Account) ([]Models.ChatMessage, error) {
	if account.Email == "" {
		return nil, ErrNoChannel
	}
	msgs, err := s.store.List(ctx, account.Email, s.Limit)
	if err != nil {
		return nil, fmt.Errorf("loading chat history: %w", err)
	}
	if msgs == nil {
		msgs = []Models.ChatMessage{}
	}
	return msgs, nil
}

// Send posts text as the account. Blank text is refused.
func (s *Service) Send(ctx context.Context, account Models.Account, text string) (Models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Models.ChatMessage{}, ErrEmptyMessage
	}
	if account.Email == "" {
		return Models.ChatMessage{}, ErrNoChannel
	}

	msg := Models.ChatMessage{
		Text: text,
		User: Models.ChatUser{ID: account.ID},
	}
	id, err := s.store.Add(ctx, account.Email, msg)
	if err != nil {
		return Models.ChatMessage{}, fmt.Errorf("sending chat message: %w", err)
	}
	msg.ID = id

	log.WithFields(log.Fields{"account_id": account.ID, "message_id": id}).Debug("Chat message sent")
	return msg, nil
}
