package application

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddItemCommand 添加商品到购物车命令
type AddItemCommand struct {
	CartID    string
	ProductID string
	Quantity  int
}

// CartCommandService 购物车命令服务
type CartCommandService struct {
	repo      domain.CartRepository
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
}

// NewCartCommandService 创建购物车命令服务实例
func NewCartCommandService(
	repo domain.CartRepository,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) *CartCommandService {
	return &CartCommandService{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
	}
}

// CreateCart 创建空购物车
func (s *CartCommandService) CreateCart(ctx context.Context) (*domain.Cart, error) {
	cart := domain.NewCart()
	if err := s.repo.Create(ctx, cart); err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}

	// 发布购物车创建事件
	event := domain.CartCreatedEvent{
		CartID:    cart.ID.Hex(),
		UserID:    cart.UserID,
		Timestamp: time.Now(),
	}
	_ = s.publisher.Publish(ctx, domain.TopicCartCreated, event.CartID, event)

	return cart, nil
}

// AddItem 处理添加商品到购物车，同一商品累加数量
func (s *CartCommandService) AddItem(ctx context.Context, cmd AddItemCommand) error {
	if cmd.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be a positive integer", domain.ErrValidation)
	}
	productID, err := primitive.ObjectIDFromHex(cmd.ProductID)
	if err != nil {
		return fmt.Errorf("%w: invalid product id %q", domain.ErrValidation, cmd.ProductID)
	}

	if err := s.repo.AddItem(ctx, cmd.CartID, productID, cmd.Quantity); err != nil {
		return err
	}
	s.metrics.RecordCartItemAdded()

	// 发布添加商品事件
	event := domain.CartItemAddedEvent{
		CartID:    cmd.CartID,
		ProductID: cmd.ProductID,
		Quantity:  cmd.Quantity,
		Timestamp: time.Now(),
	}
	_ = s.publisher.Publish(ctx, domain.TopicCartItemAdded, cmd.CartID, event)

	return nil
}
