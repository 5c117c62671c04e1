package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalog "github.com/wyfcoding/storefront/internal/catalog/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrValidation   = errors.New("validation failed")
)

// Cart 购物车，UserID 为创建时生成的不透明令牌，与任何账号无关
type Cart struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID   string             `json:"userId" bson:"userId"`
	Products []CartItem         `json:"products" bson:"products"`
}

// CartItem 购物车行，ProductID 只是弱引用
type CartItem struct {
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Quantity  int                `json:"quantity" bson:"quantity"`
}

// NewCart 创建空购物车并生成 owner token
func NewCart() *Cart {
	return &Cart{
		UserID:   uuid.NewString(),
		Products: []CartItem{},
	}
}

// AddItem 同一商品合并数量，否则追加新行。
// 这是加购的内存参考语义：MongoDB 仓储用 $inc / 条件 $push 原子地实现同样的结果，
// 内存仓储（测试替身）直接调用本方法。
func (c *Cart) AddItem(productID primitive.ObjectID, qty int) {
	for i := range c.Products {
		if c.Products[i].ProductID == productID {
			c.Products[i].Quantity += qty
			return
		}
	}
	c.Products = append(c.Products, CartItem{ProductID: productID, Quantity: qty})
}

// LineItemView 展开后的购物车行。
// 引用的商品已被删除时 Product 为 nil，序列化为 "productId": null。
type LineItemView struct {
	Product  *catalog.Product `json:"productId"`
	Quantity int              `json:"quantity"`
	// Subtotal 单价乘数量，保留两位小数
	Subtotal string `json:"subtotal,omitempty"`
}

// ComputeSubtotal 用 decimal 计算小计，避免浮点误差累积
func (v *LineItemView) ComputeSubtotal() {
	if v.Product == nil {
		v.Subtotal = ""
		return
	}
	v.Subtotal = decimal.NewFromFloat(v.Product.Price).
		Mul(decimal.NewFromInt(int64(v.Quantity))).
		StringFixed(2)
}
