package domain

import "context"

// ProductRepository 商品仓储，每个方法对应一次存储调用
type ProductRepository interface {
	// List 按存储顺序返回商品，limit <= 0 表示不限制
	List(ctx context.Context, limit int64) ([]*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	// Create 保存新商品并回填 ID
	Create(ctx context.Context, product *Product) error
	// Update 只覆盖 upd 中出现的字段，返回更新后的商品
	Update(ctx context.Context, id string, upd ProductUpdate) (*Product, error)
	Delete(ctx context.Context, id string) error
}

// EventPublisher 领域事件发布者
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
