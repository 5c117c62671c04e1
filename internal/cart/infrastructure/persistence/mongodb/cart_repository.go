package mongodb

import (
	"context"
	"fmt"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	catalog "github.com/wyfcoding/storefront/internal/catalog/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CartCollection 购物车集合名
const CartCollection = "carts"

type cartRepository struct {
	coll              *mongo.Collection
	productCollection string
}

// NewCartRepository 创建基于 MongoDB 的购物车仓储，productCollection 为展开商品时 $lookup 的集合
func NewCartRepository(db *mongo.Database, productCollection string) domain.CartRepository {
	return &cartRepository{
		coll:              db.Collection(CartCollection),
		productCollection: productCollection,
	}
}

func (r *cartRepository) Create(ctx context.Context, cart *domain.Cart) error {
	if cart.Products == nil {
		cart.Products = []domain.CartItem{}
	}
	res, err := r.coll.InsertOne(ctx, cart)
	if err != nil {
		return fmt.Errorf("insert cart: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		cart.ID = oid
	}
	return nil
}

// expandedRow 聚合结果的一行；空购物车会产生一行 Item 为 nil 的记录
type expandedRow struct {
	Item    *domain.CartItem `bson:"item"`
	Product *catalog.Product `bson:"product"`
}

func (r *cartRepository) GetProducts(ctx context.Context, cartID string) ([]*domain.LineItemView, error) {
	oid, err := primitive.ObjectIDFromHex(cartID)
	if err != nil {
		return nil, domain.ErrCartNotFound
	}

	cur, err := r.coll.Aggregate(ctx, r.expandPipeline(oid))
	if err != nil {
		return nil, fmt.Errorf("expand cart %s: %w", cartID, err)
	}

	var rows []expandedRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", cartID, err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrCartNotFound
	}

	items := make([]*domain.LineItemView, 0, len(rows))
	for _, row := range rows {
		if row.Item == nil {
			continue
		}
		items = append(items, &domain.LineItemView{
			Product:  row.Product,
			Quantity: row.Item.Quantity,
		})
	}
	return items, nil
}

// expandPipeline 展开购物车行并按原顺序关联商品
func (r *cartRepository) expandPipeline(cartID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: cartID}}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$products"},
			{Key: "includeArrayIndex", Value: "position"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: r.productCollection},
			{Key: "localField", Value: "products.productId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "product"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "position", Value: 1}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "item", Value: "$products"},
			{Key: "product", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$product", 0}}}},
		}}},
	}
}

// AddItem 用单文档原子更新合并数量：先对已有行 $inc，没有则条件 $push。
// 两步都未命中时说明并发请求刚追加了同一商品，再尝试一次 $inc。
func (r *cartRepository) AddItem(ctx context.Context, cartID string, productID primitive.ObjectID, qty int) error {
	oid, err := primitive.ObjectIDFromHex(cartID)
	if err != nil {
		return domain.ErrCartNotFound
	}

	matched, err := r.incrementItem(ctx, oid, productID, qty)
	if err != nil || matched {
		return err
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.D{
			{Key: "_id", Value: oid},
			{Key: "products.productId", Value: bson.D{{Key: "$ne", Value: productID}}},
		},
		bson.D{{Key: "$push", Value: bson.D{
			{Key: "products", Value: domain.CartItem{ProductID: productID, Quantity: qty}},
		}}},
	)
	if err != nil {
		return fmt.Errorf("push cart item: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	matched, err = r.incrementItem(ctx, oid, productID, qty)
	if err != nil {
		return err
	}
	if !matched {
		return domain.ErrCartNotFound
	}
	return nil
}

func (r *cartRepository) incrementItem(ctx context.Context, cartID, productID primitive.ObjectID, qty int) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{
			{Key: "_id", Value: cartID},
			{Key: "products.productId", Value: productID},
		},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "products.$.quantity", Value: qty}}}},
	)
	if err != nil {
		return false, fmt.Errorf("increment cart item: %w", err)
	}
	return res.MatchedCount > 0, nil
}
