package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"chat_relay_service/internal/chat/domain"
	"chat_relay_service/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// UserChannel user 專屬的事件 channel
func UserChannel(userID string) string {
	return fmt.Sprintf("chat:user:%s", userID)
}

// RoomChannel 房間內即時事件的 channel，進房後訂閱
func RoomChannel(roomID string) string {
	return fmt.Sprintf("chat:room:%s", roomID)
}

// PresenceChannel 全域上下線事件 channel
const PresenceChannel = "chat:presence"

// EventPubSub definition 事件廣播通道
type EventPubSub interface {
	Publish(channel string, resp domain.WSResponse) error
	Subscribe(ctx context.Context, channel string, handler func(resp domain.WSResponse)) error
}

// RedisPubSub definition redis pub/sub
type RedisPubSub struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisPubSub create RedisPubSub
func NewRedisPubSub(client *redis.Client) *RedisPubSub {
	return &RedisPubSub{
		client: client,
		ctx:    context.Background(),
	}
}

// Publish 將事件序列化後，發布到指定 channel
func (r *RedisPubSub) Publish(channel string, resp domain.WSResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return r.client.Publish(r.ctx, channel, data).Err()
}

// Subscribe 訂閱 channel，收到事件後呼叫 handler 處理
func (r *RedisPubSub) Subscribe(ctx context.Context, channel string, handler func(resp domain.WSResponse)) error {
	sub := r.client.Subscribe(r.ctx, channel)
	go func() {
		ch := sub.Channel()

		for {
			select {
			case m, ok := <-ch:
				if !ok {
					return
				}

				var resp domain.WSResponse
				if err := json.Unmarshal([]byte(m.Payload), &resp); err != nil {
					logger.Log.Error("pubsub err :", zap.String("err", fmt.Sprintf("failed to unmarshal event: %v", err)))
					continue
				}
				handler(resp)
			case <-ctx.Done():
				logger.Log.Info(fmt.Sprintf("%s , sub close", channel))
				// 當 ctx 被取消時，退出循環並關閉訂閱
				sub.Close()
			}
		}
	}()
	return nil
}
