package http

import (
	"context"
	"sync"

	"despesas/internal/services"
)

type collectorKey struct{}

// collector gathers the notifications raised while serving one request.
type collector struct {
	mu    sync.Mutex
	items []services.Notification
}

func withCollector(ctx context.Context) (context.Context, *collector) {
	c := &collector{}
	return context.WithValue(ctx, collectorKey{}, c), c
}

func (c *collector) drain() []services.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.items
	c.items = nil
	return out
}

// Notifier routes service notifications to the response of the request that
// caused them. Outside a request it hands them to the fallback.
type Notifier struct {
	fallback services.Notifier
}

func NewNotifier(fallback services.Notifier) *Notifier {
	return &Notifier{fallback: fallback}
}

func (n *Notifier) Notify(ctx context.Context, msg services.Notification) {
	if c, ok := ctx.Value(collectorKey{}).(*collector); ok {
		c.mu.Lock()
		c.items = append(c.items, msg)
		c.mu.Unlock()
		return
	}
	if n.fallback != nil {
		n.fallback.Notify(ctx, msg)
	}
}
