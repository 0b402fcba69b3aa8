package service

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/internal/repository"
	"github.com/lc3t35/GlobalHaven/prometheus"
)

// MessageInput is a message to another user, optionally about a resource
type MessageInput struct {
	ReceiverID string  `json:"receiver_id" validate:"required"`
	ResourceID *string `json:"resource_id,omitempty"`
	Content    string  `json:"content" validate:"required"`
}

// SendMessage stores a message from senderID. Nobody is notified.
func (s *Service) SendMessage(ctx context.Context, senderID string, in MessageInput) (*model.Message, error) {
	var p problems
	p.add(s.validate.Validate(in))
	p.check(in.Content == "" || strings.TrimSpace(in.Content) != "", "content must not be blank")
	if err := p.err(); err != nil {
		return nil, err
	}

	if _, err := s.store.GetUserByID(ctx, in.ReceiverID); err != nil {
		return nil, storeError(err, "Receiver not found", "failed to load receiver")
	}

	message := &model.Message{
		ID:         model.NewID(),
		SenderID:   senderID,
		ReceiverID: in.ReceiverID,
		ResourceID: in.ResourceID,
		Content:    in.Content,
		CreatedAt:  s.now(),
	}
	if err := s.store.CreateMessage(ctx, message); err != nil {
		return nil, eris.Wrap(err, "failed to create message")
	}

	prometheus.RecordOperation("message", "create")
	return message, nil
}

// ListMessages returns messages userID sent or received, newest first
func (s *Service) ListMessages(ctx context.Context, userID string) ([]model.Message, error) {
	messages, err := s.store.ListMessagesForUser(ctx, userID, repository.DefaultListLimit)
	if err != nil {
		return nil, eris.Wrap(err, "failed to list messages")
	}
	return messages, nil
}

// MarkMessageRead flags a message addressed to receiverID as read. Unknown
// ids and other people's messages are silently ignored.
func (s *Service) MarkMessageRead(ctx context.Context, receiverID, id string) error {
	if err := s.store.MarkMessageRead(ctx, id, receiverID); err != nil {
		return eris.Wrap(err, "failed to mark message read")
	}
	return nil
}
