package bus

import (
	"context"

	"github.com/yungbote/lims-backend/internal/realtime"
)

type Bus interface {
	Publish(ctx context.Context, msg realtime.ProgressMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.ProgressMessage)) error
	Close() error
}
