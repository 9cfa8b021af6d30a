package services

import (
	"context"
	"encoding/json"
	"signcraft-http-service/config"
	"time"

	"github.com/go-redis/redis/v8"
)

// 跨进程屏幕状态事件使用的 Redis 频道
const screenStatusChannel = "signcraft:screen_status"

// InterfaceRedisService defines the Redis service interface
type InterfaceRedisService interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	PublishScreenStatus(event interface{}) error
	SubscribeScreenStatus(ctx context.Context, handler func(payload []byte)) error
}

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) *RedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	return &RedisService{
		Client: client,
		Ctx:    ctx,
	}
}

// Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// Delete deletes a key from Redis
func (s *RedisService) Delete(key string) error {
	return s.Client.Del(s.Ctx, key).Err()
}

// PublishScreenStatus 把屏幕状态事件发布到 Redis 频道，供其他进程的网关转发给各自的仪表盘连接
func (s *RedisService) PublishScreenStatus(event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.Client.Publish(s.Ctx, screenStatusChannel, payload).Err()
}

// SubscribeScreenStatus 订阅屏幕状态事件频道，收到消息时调用 handler；ctx 取消后退出
func (s *RedisService) SubscribeScreenStatus(ctx context.Context, handler func(payload []byte)) error {
	sub := s.Client.Subscribe(ctx, screenStatusChannel)
	// 确认订阅建立
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				handler([]byte(msg.Payload))
			}
		}
	}()

	return nil
}
