package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventMessage 客户端与服务端共用的聊天事件名
const EventMessage = "message"

// ErrBroadcasterClosed 广播器已停止
var ErrBroadcasterClosed = errors.New("broadcaster closed")

// Envelope WebSocket 帧格式：{"event": "...", "data": ...}
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Message 聊天消息，Payload 按客户端原样保存，不做结构校验。
// 用 bson.RawValue 保存以保留对象字段顺序和整数类型。
type Message struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Payload   bson.RawValue      `json:"-" bson:"payload"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// DecodePayload 把 JSON 值转成 BSON 值。
// 整数按大小落为 int32 或 int64，对象字段保持原顺序。
func DecodePayload(data json.RawMessage) (bson.RawValue, error) {
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	wrapped := make([]byte, 0, len(data)+6)
	wrapped = append(wrapped, `{"v":`...)
	wrapped = append(wrapped, data...)
	wrapped = append(wrapped, '}')

	var holder struct {
		V bson.RawValue `bson:"v"`
	}
	if err := bson.UnmarshalExtJSON(wrapped, false, &holder); err != nil {
		return bson.RawValue{}, err
	}
	return holder.V, nil
}

// MessageRepository 消息仓储，只追加
type MessageRepository interface {
	Save(ctx context.Context, msg *Message) error
}

// Broadcaster 把一帧数据投递给所有在线连接（包括发送者）
type Broadcaster interface {
	Broadcast(ctx context.Context, frame []byte) error
}
