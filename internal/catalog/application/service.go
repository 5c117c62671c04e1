package application

import (
	"context"

	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/metrics"
)

// CatalogApplicationService 商品目录服务门面，整合命令服务和查询服务
type CatalogApplicationService struct {
	commandService *CatalogCommandService
	queryService   *CatalogQueryService
}

// NewCatalogApplicationService 创建商品目录服务门面实例
func NewCatalogApplicationService(
	repo domain.ProductRepository,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) *CatalogApplicationService {
	return &CatalogApplicationService{
		commandService: NewCatalogCommandService(repo, publisher, m),
		queryService:   NewCatalogQueryService(repo),
	}
}

// ListProducts 列出商品
func (s *CatalogApplicationService) ListProducts(ctx context.Context, limit int) ([]*domain.Product, error) {
	return s.queryService.ListProducts(ctx, limit)
}

// GetProduct 获取商品
func (s *CatalogApplicationService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.queryService.GetProduct(ctx, id)
}

// CreateProduct 创建商品
func (s *CatalogApplicationService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	return s.commandService.CreateProduct(ctx, cmd)
}

// UpdateProduct 部分更新商品
func (s *CatalogApplicationService) UpdateProduct(ctx context.Context, id string, upd domain.ProductUpdate) (*domain.Product, error) {
	return s.commandService.UpdateProduct(ctx, UpdateProductCommand{ID: id, Update: upd})
}

// DeleteProduct 删除商品
func (s *CatalogApplicationService) DeleteProduct(ctx context.Context, id string) error {
	return s.commandService.DeleteProduct(ctx, id)
}
