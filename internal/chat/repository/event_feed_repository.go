package repository

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"chat_relay_service/internal/chat/domain"

	"github.com/segmentio/kafka-go"
)

// FeedEvent 寫入事件流的一筆紀錄
type FeedEvent struct {
	Kind      string                `json:"kind"`
	RoomID    string                `json:"room_id"`
	MessageID int64                 `json:"message_id,omitempty"`
	UserID    string                `json:"user_id,omitempty"`
	Status    domain.DeliveryStatus `json:"status,omitempty"`
	At        time.Time             `json:"at"`
}

// EventFeedRepository definition 訊息/回執事件流
type EventFeedRepository interface {
	// Emit 寫入一筆事件，同房間的事件以 room id 為 key 保序
	Emit(ctx context.Context, ev FeedEvent) error
}

type kafkaEventFeedRepository struct {
	writer *kafka.Writer
}

// NewKafkaEventFeedRepository create event feed repository
func NewKafkaEventFeedRepository(writer *kafka.Writer) EventFeedRepository {
	return &kafkaEventFeedRepository{writer: writer}
}

// Emit emit event to feed
func (r *kafkaEventFeedRepository) Emit(ctx context.Context, ev FeedEvent) error {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	key := ev.RoomID
	if key == "" {
		key = strconv.FormatInt(ev.MessageID, 10)
	}
	return r.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
	})
}
