package bot

import (
	"context"
	"testing"
	"time"

	"github.com/adrianliechti/typst-bot/pkg/bus"
	"github.com/adrianliechti/typst-bot/pkg/provider"

	"github.com/stretchr/testify/require"
)

// blockingRenderer holds renders of "slow" until released.
type blockingRenderer struct {
	release chan struct{}
}

func (r *blockingRenderer) Render(ctx context.Context, input string, options *provider.RenderOptions) (*provider.Rendering, error) {
	if input == "slow" {
		select {
		case <-r.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return &provider.Rendering{Content: []byte(input), ContentType: "image/png"}, nil
}

func TestDispatcherSlowRenderDoesNotBlock(t *testing.T) {
	r := &blockingRenderer{release: make(chan struct{})}
	h := newTestHandler(t, r)

	b := bus.NewMessageBus()
	d := NewDispatcher(h, b)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	b.PublishInbound(ctx, bus.InboundMessage{Channel: "test", ChatID: "a", Content: "/typ slow"})
	b.PublishInbound(ctx, bus.InboundMessage{Channel: "test", ChatID: "b", Content: "hello, not a command"})
	b.PublishInbound(ctx, bus.InboundMessage{Channel: "test", ChatID: "c", Content: "/typ fast"})

	waitCtx, waitCancel := context.WithTimeout(ctx, time.Second)
	defer waitCancel()

	first, ok := b.ConsumeOutbound(waitCtx)
	require.True(t, ok, "fast render should not wait for the slow one")
	require.Equal(t, "c", first.ChatID)
	require.Len(t, first.Media, 1)

	close(r.release)

	second, ok := b.ConsumeOutbound(waitCtx)
	require.True(t, ok)
	require.Equal(t, "a", second.ChatID)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestDispatcherEmptyPayloadReply(t *testing.T) {
	r := &mockRenderer{}
	h := newTestHandler(t, r)

	b := bus.NewMessageBus()
	d := NewDispatcher(h, b)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	go d.Run(ctx)

	b.PublishInbound(ctx, bus.InboundMessage{Channel: "test", ChatID: "a", Content: "/tym"})

	msg, ok := b.ConsumeOutbound(ctx)
	require.True(t, ok)
	require.Equal(t, "a", msg.ChatID)
	require.Contains(t, msg.Content, "formula")
	require.Empty(t, msg.Media)

	require.Zero(t, r.calls())
}

func TestOutbound(t *testing.T) {
	msg := bus.InboundMessage{Channel: "console", ChatID: "42"}

	out := Outbound(msg, &Reply{Text: "Please provide"})
	require.Equal(t, "console", out.Channel)
	require.Equal(t, "42", out.ChatID)
	require.Empty(t, out.Media)

	out = Outbound(msg, &Reply{Image: &Image{Data: "iVBOR", ContentType: "image/png"}})
	require.Equal(t, []bus.Media{{ContentType: "image/png", Data: "iVBOR"}}, out.Media)
}
