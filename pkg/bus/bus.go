package bus

import (
	"context"
	"sync"
)

const defaultBufferSize = 100

type MessageBus struct {
	inbound  chan InboundMessage
	outbound chan OutboundMessage

	mu     sync.RWMutex
	closed bool

	inboundClosed bool
}

func NewMessageBus() *MessageBus {
	return &MessageBus{
		inbound:  make(chan InboundMessage, defaultBufferSize),
		outbound: make(chan OutboundMessage, defaultBufferSize),
	}
}

// PublishInbound enqueues msg and reports whether the bus accepted it.
func (b *MessageBus) PublishInbound(ctx context.Context, msg InboundMessage) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed || b.inboundClosed {
		return false
	}

	select {
	case b.inbound <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

func (b *MessageBus) ConsumeInbound(ctx context.Context) (InboundMessage, bool) {
	select {
	case msg, ok := <-b.inbound:
		return msg, ok
	case <-ctx.Done():
		return InboundMessage{}, false
	}
}

func (b *MessageBus) PublishOutbound(ctx context.Context, msg OutboundMessage) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return false
	}

	select {
	case b.outbound <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

func (b *MessageBus) ConsumeOutbound(ctx context.Context) (OutboundMessage, bool) {
	select {
	case msg, ok := <-b.outbound:
		return msg, ok
	case <-ctx.Done():
		return OutboundMessage{}, false
	}
}

// Close stops accepting messages. Buffered messages can still be consumed.
func (b *MessageBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true

	if !b.inboundClosed {
		close(b.inbound)
	}

	close(b.outbound)
}

// CloseInbound stops accepting inbound messages while replies can still be
// published. Consumers drain the buffered inbound messages first.
func (b *MessageBus) CloseInbound() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || b.inboundClosed {
		return
	}

	b.inboundClosed = true

	close(b.inbound)
}
