package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Broker fans messages out to every subscriber, at most once and without
// blocking the publisher.
type Broker interface {
	Publish(ctx context.Context, m Message) error
	// Subscribe delivers messages until ctx is done, then closes the channel.
	Subscribe(ctx context.Context) (<-chan Message, error)
}

const subscriberBuffer = 64

// MemoryBroker is a process-local Broker.
type MemoryBroker struct {
	mu   sync.RWMutex
	subs map[chan Message]struct{}
}

// NewMemoryBroker returns an empty MemoryBroker.
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[chan Message]struct{})}
}

// Publish hands m to every subscriber with room in its buffer.
func (b *MemoryBroker) Publish(_ context.Context, m Message) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- m:
		default:
		}
	}
	return nil
}

// Subscribe registers a subscriber for the lifetime of ctx.
func (b *MemoryBroker) Subscribe(ctx context.Context) (<-chan Message, error) {
	ch := make(chan Message, subscriberBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}

// PubSub is the raw transport under RedisBroker. pkg/redis.Client satisfies it.
type PubSub interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// RedisBroker fans messages out across console instances over a pub/sub
// channel.
type RedisBroker struct {
	ps      PubSub
	channel string
	logger  *zap.Logger
}

// NewRedisBroker builds a RedisBroker on channel.
func NewRedisBroker(ps PubSub, channel string, logger *zap.Logger) *RedisBroker {
	return &RedisBroker{ps: ps, channel: channel, logger: logger}
}

func (b *RedisBroker) Publish(ctx context.Context, m Message) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	return b.ps.Publish(ctx, b.channel, payload)
}

func (b *RedisBroker) Subscribe(ctx context.Context) (<-chan Message, error) {
	raw, err := b.ps.Subscribe(ctx, b.channel)
	if err != nil {
		return nil, err
	}
	out := make(chan Message, subscriberBuffer)
	go func() {
		defer close(out)
		for payload := range raw {
			var m Message
			if err := json.Unmarshal(payload, &m); err != nil {
				b.logger.Warn("discarding malformed broker message", zap.Error(err))
				continue
			}
			select {
			case out <- m:
			default:
			}
		}
	}()
	return out, nil
}
