package services

import (
	"context"

	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/realtime"
	"github.com/yungbote/roadmap-backend/internal/realtime/bus"
)

// SSEEmitter delivers realtime notifications after a committed write.
type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage)
}

type HubEmitter struct{ Hub *realtime.SSEHub }

func (e *HubEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	e.Hub.Broadcast(msg)
}

// RedisEmitter publishes through the bus; every instance's forwarder broadcasts locally.
type RedisEmitter struct {
	Bus bus.Bus
	Log *logger.Logger
}

func (e *RedisEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	if err := e.Bus.Publish(ctx, msg); err != nil && e.Log != nil {
		e.Log.Warn("Failed to publish SSE message", "event", msg.Event, "error", err)
	}
}

type NopEmitter struct{}

func (NopEmitter) Emit(context.Context, realtime.SSEMessage) {}

func emitterOrNop(e SSEEmitter) SSEEmitter {
	if e == nil {
		return NopEmitter{}
	}
	return e
}
