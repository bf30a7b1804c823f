package chat

import (
	"context"

	"github.com/jayrweg/afya-plus/entity"
)

type Core interface {
	HandleMessage(ctx context.Context, sessionID, text string) (string, entity.Reply)
}
