package bot

import (
	"context"
	"log/slog"
	"sync"

	"github.com/adrianliechti/typst-bot/pkg/bus"
)

// Dispatcher reads chat messages from a bus on a single goroutine and renders
// every matched command on its own goroutine, so a slow compile never holds up
// other sessions. Replies are published in completion order.
type Dispatcher struct {
	handler *Handler
	bus     *bus.MessageBus

	wg sync.WaitGroup
}

func NewDispatcher(h *Handler, b *bus.MessageBus) *Dispatcher {
	return &Dispatcher{
		handler: h,
		bus:     b,
	}
}

// Run blocks until ctx is done or the bus is closed, then waits for
// in-flight renders to publish their replies.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer d.wg.Wait()

	for {
		msg, ok := d.bus.ConsumeInbound(ctx)

		if !ok {
			return ctx.Err()
		}

		req, err := d.handler.Parse(sessionKey(msg), msg.Content)

		if err != nil {
			slog.DebugContext(ctx, "ignoring message", "channel", msg.Channel, "chat", msg.ChatID, "error", err)
			continue
		}

		d.wg.Add(1)

		go func() {
			defer d.wg.Done()

			reply := d.handler.Handle(ctx, req)

			d.bus.PublishOutbound(ctx, Outbound(msg, reply))
		}()
	}
}

func Outbound(msg bus.InboundMessage, reply *Reply) bus.OutboundMessage {
	out := bus.OutboundMessage{
		Channel: msg.Channel,
		ChatID:  msg.ChatID,

		Content: reply.Text,
	}

	if reply.Image != nil {
		out.Media = append(out.Media, bus.Media{
			ContentType: reply.Image.ContentType,
			Data:        reply.Image.Data,
		})
	}

	return out
}

func sessionKey(msg bus.InboundMessage) string {
	if msg.SessionKey != "" {
		return msg.SessionKey
	}

	return msg.Channel + ":" + msg.ChatID
}
