package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/storefront/internal/cart/application"
	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/response"
)

// AddedMessage 加购成功提示
const AddedMessage = "product added to cart"

// CartHandler HTTP 处理器
// 负责处理与购物车相关的 HTTP 请求
type CartHandler struct {
	app *application.CartApplicationService
}

// NewCartHandler 创建 HTTP 处理器实例
func NewCartHandler(app *application.CartApplicationService) *CartHandler {
	return &CartHandler{app: app}
}

// RegisterRoutes 注册路由
func (h *CartHandler) RegisterRoutes(router gin.IRouter) {
	api := router.Group("/api/carts")
	{
		api.POST("", h.CreateCart)
		api.GET("/:cid", h.GetProducts)
		api.POST("/:cid/product/:pid", h.AddProduct)
	}
}

// AddProductRequest 加购请求。quantidade 为原有字段名，quantity 为别名，前者优先。
type AddProductRequest struct {
	Quantidade any `json:"quantidade"`
	Quantity   any `json:"quantity"`
}

func (r AddProductRequest) value() any {
	if r.Quantidade != nil {
		return r.Quantidade
	}
	return r.Quantity
}

// CreateCart 创建空购物车
func (h *CartHandler) CreateCart(c *gin.Context) {
	cart, err := h.app.CreateCart(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to create cart")
		return
	}

	response.Created(c, cart)
}

// GetProducts 返回展开后的购物车行
func (h *CartHandler) GetProducts(c *gin.Context) {
	items, err := h.app.GetProducts(c.Request.Context(), c.Param("cid"))
	if err != nil {
		h.fail(c, err, "Failed to get cart products")
		return
	}

	response.Success(c, items)
}

// AddProduct 添加商品到购物车
func (h *CartHandler) AddProduct(c *gin.Context) {
	var req AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	qty, err := domain.ParseQuantity(req.value())
	if err != nil {
		h.fail(c, err, "Invalid quantity")
		return
	}

	if err := h.app.AddItem(c.Request.Context(), c.Param("cid"), c.Param("pid"), qty); err != nil {
		h.fail(c, err, "Failed to add product to cart")
		return
	}

	response.Message(c, AddedMessage)
}

func (h *CartHandler) fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCartNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, "cart not found")
	default:
		logger.Error(c.Request.Context(), msg, "cid", c.Param("cid"), "error", err)
		response.InternalError(c, err)
	}
}
