package app

import (
	"context"
	"encoding/json"
	"log"
	"time"

	chatrepo "chat_relay_service/internal/chat/repository"
	"chat_relay_service/internal/user/domain"
	userrepo "chat_relay_service/internal/user/repository"
	"chat_relay_service/pkg/logger"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// PushSender 實際投遞推播的出口 (APNs/FCM gateway 等)
type PushSender interface {
	Send(ctx context.Context, job chatrepo.PushJob) error
}

// LogPushSender 開發環境用的 sender，只記 log
type LogPushSender struct{}

// Send log push job
func (LogPushSender) Send(ctx context.Context, job chatrepo.PushJob) error {
	logger.Log.Info("push dispatched",
		zap.String("user", job.UserID),
		zap.Int64("message_id", job.MessageID),
		zap.String("preview", job.Preview),
	)
	return nil
}

// Consumer 定義一個推播消費者，將所有必要的依賴注入進來
type Consumer struct {
	rabbitChannel *amqp.Channel
	userRepo      userrepo.UserRepository
	sender        PushSender
	queueName     string
}

// NewConsumer 建構 Consumer 實例
func NewConsumer(rabbitChannel *amqp.Channel, userRepo userrepo.UserRepository, sender PushSender, queueName string) *Consumer {
	return &Consumer{
		rabbitChannel: rabbitChannel,
		userRepo:      userRepo,
		sender:        sender,
		queueName:     queueName,
	}
}

// StartConsumer 開始消費訊息，並處理推播工作
func (c *Consumer) StartConsumer(ctx context.Context) {
	msgs, err := c.rabbitChannel.Consume(
		c.queueName,
		"",    // consumer tag，留空由系統分配
		false, // autoAck 為 false，使用手動確認
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // arguments
	)
	if err != nil {
		log.Fatalf("無法開始消費 RabbitMQ 訊息: %v", err)
	}

	log.Println("Consumer 已啟動，等待推播工作訊息...")

	for {
		select {
		case d, ok := <-msgs:
			if !ok {
				log.Println("RabbitMQ 消費 channel 已關閉")
				return
			}

			var job chatrepo.PushJob
			if err := json.Unmarshal(d.Body, &job); err != nil {
				log.Printf("解析推播工作訊息失敗: %v", err)
				// 壞訊息不重排，直接丟棄
				if err := d.Nack(false, false); err != nil {
					log.Printf("Nack 訊息失敗: %v", err)
				}
				continue
			}

			if err := c.processPushJob(ctx, job); err != nil {
				logger.Log.Errorf("處理推播工作失敗:", err)
				time.Sleep(10 * time.Second)
				if err := d.Nack(false, true); err != nil {
					log.Printf("Nack 訊息失敗: %v", err)
				}
				continue
			}

			if err := d.Ack(false); err != nil {
				log.Printf("確認訊息失敗: %v", err)
			}
		case <-ctx.Done():
			log.Println("Consumer 收到停止訊號")
			return
		}
	}
}

// processPushJob 收件人已重新上線時跳過推播
func (c *Consumer) processPushJob(ctx context.Context, job chatrepo.PushJob) error {
	user, err := c.userRepo.FindByUser(ctx, &domain.UserQuery{UserID: &job.UserID})
	if err != nil {
		return err
	}
	if user.Status == domain.UserStatusOnLine {
		logger.Log.Debug("skip push, user back online", zap.String("user", job.UserID))
		return nil
	}
	return c.sender.Send(ctx, job)
}
