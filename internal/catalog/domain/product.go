package domain

import (
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrValidation      = errors.New("validation failed")
)

// Product 商品
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	// Code 业务编码，不保证唯一
	Code       string   `json:"code" bson:"code"`
	Price      float64  `json:"price" bson:"price"`
	Status     bool     `json:"status" bson:"status"`
	Stock      int      `json:"stock" bson:"stock"`
	Thumbnails []string `json:"thumbnails" bson:"thumbnails"`
}

// NewProduct 创建商品，校验必填字段并填充默认值。
// 空字符串和数值 0 都视为缺失。
func NewProduct(title, description, code string, price float64, stock int, status *bool, thumbnails []string) (*Product, error) {
	var missing []string
	if title == "" {
		missing = append(missing, "title")
	}
	if description == "" {
		missing = append(missing, "description")
	}
	if code == "" {
		missing = append(missing, "code")
	}
	if price == 0 {
		missing = append(missing, "price")
	}
	if stock == 0 {
		missing = append(missing, "stock")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}

	p := &Product{
		Title:       title,
		Description: description,
		Code:        code,
		Price:       price,
		Status:      true,
		Stock:       stock,
		Thumbnails:  thumbnails,
	}
	if status != nil {
		p.Status = *status
	}
	if p.Thumbnails == nil {
		p.Thumbnails = []string{}
	}
	return p, nil
}

// ProductUpdate 部分更新，nil 字段保持不变
type ProductUpdate struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Code        *string   `json:"code,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Status      *bool     `json:"status,omitempty"`
	Stock       *int      `json:"stock,omitempty"`
	Thumbnails  *[]string `json:"thumbnails,omitempty"`
}

// IsEmpty 没有任何字段需要更新
func (u ProductUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Code == nil &&
		u.Price == nil && u.Status == nil && u.Stock == nil && u.Thumbnails == nil
}

// Apply 将更新写入商品。
// 这是部分更新的内存参考语义：MongoDB 仓储把同样的字段转成 $set 文档，
// 内存仓储（测试替身）直接调用本方法。
func (u ProductUpdate) Apply(p *Product) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Code != nil {
		p.Code = *u.Code
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.Thumbnails != nil {
		p.Thumbnails = *u.Thumbnails
		if p.Thumbnails == nil {
			p.Thumbnails = []string{}
		}
	}
}

// Fields 返回被更新的字段名，用于事件
func (u ProductUpdate) Fields() []string {
	var fields []string
	if u.Title != nil {
		fields = append(fields, "title")
	}
	if u.Description != nil {
		fields = append(fields, "description")
	}
	if u.Code != nil {
		fields = append(fields, "code")
	}
	if u.Price != nil {
		fields = append(fields, "price")
	}
	if u.Status != nil {
		fields = append(fields, "status")
	}
	if u.Stock != nil {
		fields = append(fields, "stock")
	}
	if u.Thumbnails != nil {
		fields = append(fields, "thumbnails")
	}
	return fields
}
