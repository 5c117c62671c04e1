// Package rdb 提供 Redis 客户端封装与发布订阅辅助
package rdb

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// Config Redis 配置
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Client Redis 客户端
type Client struct {
	client *redis.Client
}

// New 创建 Redis 客户端并检查连接
func New(ctx context.Context, cfg Config) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info(ctx, "Redis connected successfully", "addr", cfg.Addr)

	return &Client{client: client}, nil
}

// Publish 向频道发布一条消息
func (c *Client) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := c.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish failed: %w", err)
	}
	return nil
}

// Subscribe 订阅频道，对每条消息调用 fn，直到 ctx 取消
func (c *Client) Subscribe(ctx context.Context, channel string, fn func([]byte)) error {
	sub := c.client.Subscribe(ctx, channel)
	defer sub.Close()

	// 等待订阅确认，保证返回前已经在接收
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe failed: %w", err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			fn([]byte(msg.Payload))
		}
	}
}

// Raw 返回底层客户端
func (c *Client) Raw() *redis.Client {
	return c.client
}

// Close 关闭连接
func (c *Client) Close() error {
	return c.client.Close()
}
