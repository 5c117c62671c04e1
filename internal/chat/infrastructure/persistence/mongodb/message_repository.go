package mongodb

import (
	"context"
	"fmt"

	"github.com/wyfcoding/storefront/internal/chat/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MessageCollection 聊天消息集合名
const MessageCollection = "messages"

type messageRepository struct{ coll *mongo.Collection }

// NewMessageRepository 创建基于 MongoDB 的消息仓储
func NewMessageRepository(db *mongo.Database) domain.MessageRepository {
	return &messageRepository{coll: db.Collection(MessageCollection)}
}

func (r *messageRepository) Save(ctx context.Context, msg *domain.Message) error {
	res, err := r.coll.InsertOne(ctx, msg)
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}
	return nil
}
