// -----------------------------------------------------------------------------
// Event Listeners
// -----------------------------------------------------------------------------

package events

import (
	"log/slog"
	"time"
)

// Listener, event'leri işleyen interface.
type Listener interface {
	Handle(event Event) error
}

// ListenerFunc, fonksiyonları Listener'a çevirir.
//
// Örnek:
//
//	dispatcher.Listen(events.EventQueryExecuted, events.ListenerFunc(func(e events.Event) error {
//	    q := e.Payload().(events.QueryExecuted)
//	    slog.Debug("sql", "query", q.Query)
//	    return nil
//	}))
type ListenerFunc func(Event) error

func (f ListenerFunc) Handle(event Event) error {
	return f(event)
}

// ConditionalListener, sadece condition true döndüğünde sarmaladığı
// listener'ı çağırır.
type ConditionalListener struct {
	listener  Listener
	condition func(Event) bool
}

func NewConditionalListener(listener Listener, condition func(Event) bool) *ConditionalListener {
	return &ConditionalListener{
		listener:  listener,
		condition: condition,
	}
}

func (c *ConditionalListener) Handle(event Event) error {
	if c.condition(event) {
		return c.listener.Handle(event)
	}
	return nil
}

// NewSlowQueryLogger, süresi threshold'a eşit veya daha uzun olan
// query.executed event'lerini Warn seviyesinde loglar.
//
// Örnek:
//
//	dispatcher.Listen(events.EventQueryExecuted, events.NewSlowQueryLogger(logger, 200*time.Millisecond))
func NewSlowQueryLogger(logger *slog.Logger, threshold time.Duration) *ConditionalListener {
	log := ListenerFunc(func(e Event) error {
		q := e.Payload().(QueryExecuted)
		logger.Warn("slow query",
			"connection", q.Connection,
			"statement", q.Statement,
			"query", q.Query,
			"duration", q.Duration,
			"rows", q.Rows,
		)
		return nil
	})
	return NewConditionalListener(log, func(e Event) bool {
		q, ok := e.Payload().(QueryExecuted)
		return ok && q.Duration >= threshold
	})
}
