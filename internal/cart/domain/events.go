package domain

import "time"

const (
	TopicCartCreated   = "cart.created"
	TopicCartItemAdded = "cart.item.added"
)

// CartCreatedEvent 购物车创建事件
type CartCreatedEvent struct {
	CartID    string    `json:"cart_id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// CartItemAddedEvent 购物车添加商品事件
type CartItemAddedEvent struct {
	CartID    string    `json:"cart_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}
