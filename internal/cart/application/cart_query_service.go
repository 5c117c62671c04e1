package application

import (
	"context"

	"github.com/wyfcoding/storefront/internal/cart/domain"
)

// CartQueryService 购物车查询服务
type CartQueryService struct {
	repo domain.CartRepository
}

// NewCartQueryService 创建购物车查询服务实例
func NewCartQueryService(
	repo domain.CartRepository,
) *CartQueryService {
	return &CartQueryService{
		repo: repo,
	}
}

// GetProducts 获取购物车中展开后的商品列表
func (s *CartQueryService) GetProducts(ctx context.Context, cartID string) ([]*domain.LineItemView, error) {
	items, err := s.repo.GetProducts(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.LineItemView{}
	}
	for _, item := range items {
		item.ComputeSubtotal()
	}
	return items, nil
}
