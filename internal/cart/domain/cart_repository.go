package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartRepository 购物车仓储
type CartRepository interface {
	Create(ctx context.Context, cart *Cart) error
	// GetProducts 返回展开后的购物车行，商品引用在读取时解析
	GetProducts(ctx context.Context, cartID string) ([]*LineItemView, error)
	// AddItem 合并或追加购物车行，不校验商品是否存在
	AddItem(ctx context.Context, cartID string, productID primitive.ObjectID, qty int) error
}

// EventPublisher 领域事件发布者
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
