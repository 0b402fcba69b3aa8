package repository

import (
	"context"
	"time"

	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/prometheus"
)

func (s *PostgresStore) CreateMessage(ctx context.Context, message *model.Message) error {
	return insert(ctx, s.db, message, "message")
}

// ListMessagesForUser returns messages sent or received by userID, newest first
func (s *PostgresStore) ListMessagesForUser(ctx context.Context, userID string, limit int) ([]model.Message, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var messages []model.Message
	err := s.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Limit(limitOrDefault(limit)).
		Find(&messages).Error
	if err != nil {
		return nil, translate(err, "failed to list messages")
	}
	return messages, nil
}

// MarkMessageRead flags the message read when receiverID received it. No
// match is not an error.
func (s *PostgresStore) MarkMessageRead(ctx context.Context, id, receiverID string) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	err := s.db.WithContext(ctx).Model(&model.Message{}).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		Update("is_read", true).Error
	if err != nil {
		return translate(err, "failed to mark message read")
	}
	return nil
}
