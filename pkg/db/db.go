// Package db 提供 MongoDB 客户端初始化、连接检查与命令监控（慢查询日志、指标回调）
package db

import (
	"context"
	"fmt"
	"time"

	pkgLogger "github.com/wyfcoding/storefront/pkg/logger"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// CommandObserver 每条命令结束时回调，用于上报指标
type CommandObserver func(command string, duration time.Duration, failed bool)

// Config 数据库配置
type Config struct {
	URI                string
	Database           string
	ConnectTimeout     time.Duration
	SlowQueryThreshold time.Duration
	LogCommands        bool
	Observer           CommandObserver
}

// DB 数据库实例包装，由 main 创建后向下注入
type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
	config   Config
}

// Init 初始化数据库连接，不做重试
func Init(ctx context.Context, cfg Config) (*DB, error) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMonitor(NewCommandMonitor(cfg.LogCommands, cfg.SlowQueryThreshold, cfg.Observer))

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pkgLogger.Info(ctx, "Database connected successfully", "database", cfg.Database)

	return &DB{
		Client:   client,
		Database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

// Collection 返回指定集合
func (d *DB) Collection(name string) *mongo.Collection {
	return d.Database.Collection(name)
}

// Ping 检查数据库是否可用
func (d *DB) Ping(ctx context.Context) error {
	return d.Client.Ping(ctx, readpref.Primary())
}

// Close 关闭数据库连接
func (d *DB) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}

// NewCommandMonitor 创建命令监控：失败命令总是记录，超过阈值的命令记为慢查询，
// logAll 为 true 时其余命令以 debug 级别记录。
func NewCommandMonitor(logAll bool, slowQueryThreshold time.Duration, observer CommandObserver) *event.CommandMonitor {
	return &event.CommandMonitor{
		Succeeded: func(ctx context.Context, e *event.CommandSucceededEvent) {
			if observer != nil {
				observer(e.CommandName, e.Duration, false)
			}
			args := []any{
				"command", e.CommandName,
				"database", e.DatabaseName,
				"duration", e.Duration,
			}
			if slowQueryThreshold > 0 && e.Duration > slowQueryThreshold {
				pkgLogger.Warn(ctx, "Slow query detected", args...)
			} else if logAll {
				pkgLogger.Debug(ctx, "Command executed", args...)
			}
		},
		Failed: func(ctx context.Context, e *event.CommandFailedEvent) {
			if observer != nil {
				observer(e.CommandName, e.Duration, true)
			}
			pkgLogger.Error(ctx, "Command execution failed",
				"command", e.CommandName,
				"database", e.DatabaseName,
				"duration", e.Duration,
				"error", e.Failure,
			)
		},
	}
}
