package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/storefront/internal/catalog/application"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/response"
)

// DeletedMessage 删除成功时返回的纯文本
const DeletedMessage = "product deleted"

// ProductHandler HTTP 处理器
// 负责处理与商品目录相关的 HTTP 请求
type ProductHandler struct {
	app *application.CatalogApplicationService
}

// NewProductHandler 创建 HTTP 处理器实例
func NewProductHandler(app *application.CatalogApplicationService) *ProductHandler {
	return &ProductHandler{app: app}
}

// RegisterRoutes 注册路由
func (h *ProductHandler) RegisterRoutes(router gin.IRouter) {
	api := router.Group("/api/products")
	{
		api.GET("", h.ListProducts)
		api.GET("/:pid", h.GetProduct)
		api.POST("", h.CreateProduct)
		api.PUT("/:pid", h.UpdateProduct)
		api.DELETE("/:pid", h.DeleteProduct)
	}
}

// CreateProductRequest 创建商品请求，必填校验在领域层完成
type CreateProductRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Code        string   `json:"code"`
	Price       Price    `json:"price"`
	Stock       Stock    `json:"stock"`
	Status      *bool    `json:"status"`
	Thumbnails  []string `json:"thumbnails"`
}

// UpdateProductRequest 部分更新请求，缺省或 null 的字段保持不变
type UpdateProductRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Code        *string   `json:"code"`
	Price       *Price    `json:"price"`
	Status      *bool     `json:"status"`
	Stock       *Stock    `json:"stock"`
	Thumbnails  *[]string `json:"thumbnails"`
}

func (r UpdateProductRequest) toDomain() domain.ProductUpdate {
	upd := domain.ProductUpdate{
		Title:       r.Title,
		Description: r.Description,
		Code:        r.Code,
		Status:      r.Status,
		Thumbnails:  r.Thumbnails,
	}
	if r.Price != nil {
		v := float64(*r.Price)
		upd.Price = &v
	}
	if r.Stock != nil {
		v := int(*r.Stock)
		upd.Stock = &v
	}
	return upd
}

// ListProducts 列出商品，可选 limit
func (h *ProductHandler) ListProducts(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.ErrorWithStatus(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	products, err := h.app.ListProducts(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err, "Failed to list products")
		return
	}

	response.Success(c, products)
}

// GetProduct 获取单个商品
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.app.GetProduct(c.Request.Context(), c.Param("pid"))
	if err != nil {
		h.fail(c, err, "Failed to get product")
		return
	}

	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	product, err := h.app.CreateProduct(c.Request.Context(), application.CreateProductCommand{
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		Price:       float64(req.Price),
		Stock:       int(req.Stock),
		Status:      req.Status,
		Thumbnails:  req.Thumbnails,
	})
	if err != nil {
		h.fail(c, err, "Failed to create product")
		return
	}

	response.Created(c, product)
}

// UpdateProduct 部分更新商品，空 body 视为无字段更新
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	product, err := h.app.UpdateProduct(c.Request.Context(), c.Param("pid"), req.toDomain())
	if err != nil {
		h.fail(c, err, "Failed to update product")
		return
	}

	response.Success(c, product)
}

// DeleteProduct 删除商品，成功时返回纯文本
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.app.DeleteProduct(c.Request.Context(), c.Param("pid")); err != nil {
		h.fail(c, err, "Failed to delete product")
		return
	}

	c.String(http.StatusOK, DeletedMessage)
}

func (h *ProductHandler) fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, "product not found")
	default:
		logger.Error(c.Request.Context(), msg, "pid", c.Param("pid"), "error", err)
		response.InternalError(c, err)
	}
}
