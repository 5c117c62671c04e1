package application

import (
	"context"

	"github.com/wyfcoding/storefront/internal/catalog/domain"
)

// CatalogQueryService 商品目录查询服务
type CatalogQueryService struct {
	repo domain.ProductRepository
}

// NewCatalogQueryService 创建商品目录查询服务实例
func NewCatalogQueryService(
	repo domain.ProductRepository,
) *CatalogQueryService {
	return &CatalogQueryService{
		repo: repo,
	}
}

// GetProduct 根据ID获取商品信息
func (s *CatalogQueryService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// ListProducts 列出商品，limit <= 0 返回全部
func (s *CatalogQueryService) ListProducts(ctx context.Context, limit int) ([]*domain.Product, error) {
	if limit < 0 {
		limit = 0
	}
	products, err := s.repo.List(ctx, int64(limit))
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []*domain.Product{}
	}
	return products, nil
}
