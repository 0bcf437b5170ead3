package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/yungbote/lims-backend/internal/realtime"
)

// MemoryBus fans progress out inside the process. It backs single-instance
// deployments without REDIS_ADDR and doubles as a recorder in tests.
type MemoryBus struct {
	mu        sync.Mutex
	published []realtime.ProgressMessage
	subs      map[int]func(realtime.ProgressMessage)
	nextID    int
	closed    bool
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: map[int]func(realtime.ProgressMessage){}}
}

func (b *MemoryBus) Publish(_ context.Context, msg realtime.ProgressMessage) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("memory bus closed")
	}
	b.published = append(b.published, msg)
	subs := make([]func(realtime.ProgressMessage), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.Unlock()

	for _, fn := range subs {
		fn(msg)
	}
	return nil
}

func (b *MemoryBus) StartForwarder(ctx context.Context, onMsg func(m realtime.ProgressMessage)) error {
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = onMsg
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}()
	return nil
}

// Published returns a copy of every message seen so far.
func (b *MemoryBus) Published() []realtime.ProgressMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]realtime.ProgressMessage, len(b.published))
	copy(out, b.published)
	return out
}

func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = map[int]func(realtime.ProgressMessage){}
	return nil
}
