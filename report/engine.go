package report

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/igtaposh/ordersathi-backend/internal/document"
)

// Engine hands out Gotenberg sessions, at most size at a time.
type Engine struct {
	client *Client
	page   PageOptions
	slots  *semaphore.Weighted
}

// NewEngine builds a bounded engine around client.
func NewEngine(client *Client, size int) (*Engine, error) {
	if client == nil {
		return nil, fmt.Errorf("report engine: client required")
	}
	if size <= 0 {
		return nil, fmt.Errorf("report engine: size must be positive")
	}
	return &Engine{client: client, page: A4, slots: semaphore.NewWeighted(int64(size))}, nil
}

// Acquire waits for a free slot and probes Gotenberg before handing out a session.
func (e *Engine) Acquire(ctx context.Context) (document.Session, error) {
	if err := e.slots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("report engine: wait for slot: %w", err)
	}
	if err := e.client.Ping(ctx); err != nil {
		e.slots.Release(1)
		return nil, fmt.Errorf("report engine: unavailable: %w", err)
	}
	return &session{engine: e}, nil
}

type session struct {
	engine *Engine
	once   sync.Once
}

func (s *session) Convert(ctx context.Context, html string) ([]byte, error) {
	return s.engine.client.RenderHTML(ctx, html, s.engine.page)
}

func (s *session) Release() {
	s.once.Do(func() {
		s.engine.slots.Release(1)
	})
}
