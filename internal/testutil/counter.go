package testutil

import (
	"sync"

	"github.com/biyonik/conduit-orm/pkg/events"
)

// QueryCounter query.executed event'lerini sayar. Eager load gibi
// "kaç sorgu atıldı" sorularını test etmek için kullanılır.
//
//	counter := testutil.NewQueryCounter()
//	counter.Attach(dispatcher)
//	counter.Reset()
//	_, _ = q.With("department").Get(ctx)
//	assert.Equal(t, 2, counter.Count())
type QueryCounter struct {
	mu      sync.Mutex
	queries []events.QueryExecuted
}

func NewQueryCounter() *QueryCounter {
	return &QueryCounter{}
}

// Attach sayacı dispatcher'a bağlar.
func (c *QueryCounter) Attach(d *events.Dispatcher) *QueryCounter {
	d.Listen(events.EventQueryExecuted, c)
	return c
}

func (c *QueryCounter) Handle(e events.Event) error {
	q, ok := e.Payload().(events.QueryExecuted)
	if !ok {
		return nil
	}
	c.mu.Lock()
	c.queries = append(c.queries, q)
	c.mu.Unlock()
	return nil
}

func (c *QueryCounter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queries)
}

// Queries kaydedilen sorguların kopyasıdır.
func (c *QueryCounter) Queries() []events.QueryExecuted {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]events.QueryExecuted(nil), c.queries...)
}

func (c *QueryCounter) Reset() {
	c.mu.Lock()
	c.queries = nil
	c.mu.Unlock()
}
