package repository

import (
	"encoding/json"

	"github.com/streadway/amqp"

	"chat_relay_service/pkg/database"
)

// PushJob 離線推播工作，由 notify worker 消費
type PushJob struct {
	UserID    string `json:"user_id"`
	RoomID    string `json:"room_id"`
	MessageID int64  `json:"message_id"`
	SenderID  string `json:"sender_id"`
	Preview   string `json:"preview"`
}

// PushNotifyRepository definition 離線推播佇列
type PushNotifyRepository interface {
	// EnqueuePush 投遞一筆推播工作
	EnqueuePush(job PushJob) error
}

type rabbitPushNotifyRepository struct {
	rabbit database.RabbitRepo
	queue  string
}

// NewRabbitPushNotifyRepository create push notify repository
func NewRabbitPushNotifyRepository(rabbit database.RabbitRepo, queue string) PushNotifyRepository {
	return &rabbitPushNotifyRepository{rabbit: rabbit, queue: queue}
}

// EnqueuePush enqueue push job
func (r *rabbitPushNotifyRepository) EnqueuePush(job PushJob) error {
	// preview 過長時截斷，推播不需要全文；以 rune 為界避免切壞多位元組字元
	if runes := []rune(job.Preview); len(runes) > 120 {
		job.Preview = string(runes[:120])
	}
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return r.rabbit.Publish("", r.queue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        data,
	})
}
