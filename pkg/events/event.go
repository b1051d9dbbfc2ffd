// -----------------------------------------------------------------------------
// Event System - Core Interfaces
// -----------------------------------------------------------------------------
// Sorgu katmanı bu event'leri yayınlar:
//
//   - query.executed:          adapter her native sorguyu çalıştırdığında
//   - transaction.committed:   builder transaction'ı commit ettiğinde
//   - transaction.rolledback:  callback hatası sonrası rollback yapıldığında
//   - model.created/updated/deleted: builder'ın yazma operasyonlarından sonra
//
// Listener'lar instrumentation (sorgu sayacı, yavaş sorgu logu) veya
// model yaşam döngüsü hook'ları için kullanılır.
// -----------------------------------------------------------------------------

package events

import (
	"time"
)

// Event, tüm event'lerin implement etmesi gereken interface.
type Event interface {
	// Name, event'in benzersiz adını döndürür.
	// Örnek: "query.executed", "model.created"
	Name() string

	OccurredAt() time.Time

	// Payload, event ile taşınan veriyi döndürür.
	Payload() any
}

// BaseEvent, tüm event'ler için temel yapıdır.
type BaseEvent struct {
	name       string
	occurredAt time.Time
	payload    any
}

// NewBaseEvent yeni bir event oluşturur.
func NewBaseEvent(name string, payload any) *BaseEvent {
	return &BaseEvent{
		name:       name,
		occurredAt: time.Now(),
		payload:    payload,
	}
}

func (e *BaseEvent) Name() string {
	return e.name
}

func (e *BaseEvent) OccurredAt() time.Time {
	return e.occurredAt
}

func (e *BaseEvent) Payload() any {
	return e.payload
}

const (
	EventQueryExecuted = "query.executed"

	EventTransactionCommitted  = "transaction.committed"
	EventTransactionRolledBack = "transaction.rolledback"

	EventModelCreated = "model.created"
	EventModelUpdated = "model.updated"
	EventModelDeleted = "model.deleted"
)

// QueryExecuted, query.executed event'inin payload'udur.
type QueryExecuted struct {
	Connection   string
	Statement    string
	Query        string
	Duration     time.Duration
	Rows         int
	RowsAffected int64
	Err          error
}

// ModelChanged, model.* event'lerinin payload'udur.
type ModelChanged struct {
	Connection string
	Table      string
	Count      int64
}

// TransactionFinished, transaction.* event'lerinin payload'udur.
type TransactionFinished struct {
	Connection string
	Err        error
}

func NewQueryExecutedEvent(payload QueryExecuted) Event {
	return NewBaseEvent(EventQueryExecuted, payload)
}

func NewModelEvent(name string, payload ModelChanged) Event {
	return NewBaseEvent(name, payload)
}

func NewTransactionEvent(name string, payload TransactionFinished) Event {
	return NewBaseEvent(name, payload)
}
