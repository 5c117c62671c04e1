package application

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/metrics"
)

// CreateProductCommand 创建商品命令
type CreateProductCommand struct {
	Title       string
	Description string
	Code        string
	Price       float64
	Stock       int
	Status      *bool
	Thumbnails  []string
}

// UpdateProductCommand 更新商品命令
type UpdateProductCommand struct {
	ID     string
	Update domain.ProductUpdate
}

// CatalogCommandService 商品目录命令服务
type CatalogCommandService struct {
	repo      domain.ProductRepository
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
}

// NewCatalogCommandService 创建商品目录命令服务实例
func NewCatalogCommandService(
	repo domain.ProductRepository,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) *CatalogCommandService {
	return &CatalogCommandService{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
	}
}

// CreateProduct 处理创建商品
func (s *CatalogCommandService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	product, err := domain.NewProduct(cmd.Title, cmd.Description, cmd.Code, cmd.Price, cmd.Stock, cmd.Status, cmd.Thumbnails)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.metrics.RecordProductCreated()

	// 发布商品创建事件
	event := domain.ProductCreatedEvent{
		ProductID: product.ID.Hex(),
		Title:     product.Title,
		Code:      product.Code,
		Price:     product.Price,
		Stock:     product.Stock,
		Timestamp: time.Now(),
	}
	_ = s.publisher.Publish(ctx, domain.TopicProductCreated, event.ProductID, event)

	return product, nil
}

// UpdateProduct 处理部分更新商品
func (s *CatalogCommandService) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	// 空更新不写库，直接返回当前商品
	if cmd.Update.IsEmpty() {
		return s.repo.GetByID(ctx, cmd.ID)
	}

	product, err := s.repo.Update(ctx, cmd.ID, cmd.Update)
	if err != nil {
		return nil, err
	}

	// 发布商品更新事件
	event := domain.ProductUpdatedEvent{
		ProductID: product.ID.Hex(),
		Fields:    cmd.Update.Fields(),
		Price:     product.Price,
		Stock:     product.Stock,
		Timestamp: time.Now(),
	}
	_ = s.publisher.Publish(ctx, domain.TopicProductUpdated, event.ProductID, event)

	return product, nil
}

// DeleteProduct 处理删除商品，购物车中的引用不做级联处理
func (s *CatalogCommandService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	event := domain.ProductDeletedEvent{
		ProductID: id,
		Timestamp: time.Now(),
	}
	_ = s.publisher.Publish(ctx, domain.TopicProductDeleted, id, event)

	return nil
}
