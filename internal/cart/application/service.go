package application

import (
	"context"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/metrics"
)

// CartApplicationService 购物车服务门面，整合命令服务和查询服务
type CartApplicationService struct {
	commandService *CartCommandService
	queryService   *CartQueryService
}

// NewCartApplicationService 创建购物车服务门面实例
func NewCartApplicationService(
	repo domain.CartRepository,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) *CartApplicationService {
	return &CartApplicationService{
		commandService: NewCartCommandService(repo, publisher, m),
		queryService:   NewCartQueryService(repo),
	}
}

// CreateCart 创建购物车
func (s *CartApplicationService) CreateCart(ctx context.Context) (*domain.Cart, error) {
	return s.commandService.CreateCart(ctx)
}

// GetProducts 获取购物车商品
func (s *CartApplicationService) GetProducts(ctx context.Context, cartID string) ([]*domain.LineItemView, error) {
	return s.queryService.GetProducts(ctx, cartID)
}

// AddItem 添加商品到购物车
func (s *CartApplicationService) AddItem(ctx context.Context, cartID, productID string, qty int) error {
	return s.commandService.AddItem(ctx, AddItemCommand{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  qty,
	})
}
