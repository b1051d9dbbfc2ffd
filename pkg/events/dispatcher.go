// -----------------------------------------------------------------------------
// Event Dispatcher
// -----------------------------------------------------------------------------
// Dispatcher, event'leri kayıtlı listener'lara iletir. Senkron Dispatch
// çağıranın goroutine'inde çalışır. DispatchAsync ve ListenAsync ile
// kaydedilen listener'lar goroutine açar; Shutdown yeni async işleri
// reddeder ve kuyruktakilerin bitmesini bekler.
// -----------------------------------------------------------------------------

package events

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Dispatcher, event-listener kayıtlarını tutar.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
	logger    *slog.Logger

	asyncMu sync.Mutex
	closed  bool
	wg      sync.WaitGroup
}

// NewDispatcher yeni bir dispatcher oluşturur. logger nil olabilir.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{
		listeners: make(map[string][]Listener),
		logger:    logger,
	}
}

// Listen, bir event'e listener kaydeder.
func (d *Dispatcher) Listen(eventName string, listener Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.listeners[eventName] = append(d.listeners[eventName], listener)
	d.logger.Debug("listener registered", "event", eventName)
}

// ListenAsync, listener'ı event'i yayınlayanı bekletmeden arka planda
// çalışacak şekilde kaydeder. Shutdown bu çağrıların bitmesini bekler.
func (d *Dispatcher) ListenAsync(eventName string, listener Listener) {
	d.Listen(eventName, &asyncListener{dispatcher: d, listener: listener})
}

type asyncListener struct {
	dispatcher *Dispatcher
	listener   Listener
}

func (a *asyncListener) Handle(event Event) error {
	a.dispatcher.goAsync(event, func() {
		if err := a.listener.Handle(event); err != nil {
			a.dispatcher.logger.Error("async listener failed", "event", event.Name(), "error", err)
		}
	})
	return nil
}

// Subscribe, tek listener'ı birden fazla event'e kaydeder.
func (d *Dispatcher) Subscribe(eventNames []string, listener Listener) {
	for _, eventName := range eventNames {
		d.Listen(eventName, listener)
	}
}

// Dispatch, event'i senkron olarak tüm listener'lara iletir. Bir listener
// hata dönse bile diğerleri çalışır; son hata döner.
func (d *Dispatcher) Dispatch(event Event) error {
	d.mu.RLock()
	listeners := d.listeners[event.Name()]
	d.mu.RUnlock()

	if len(listeners) == 0 {
		return nil
	}

	var lastError error
	for _, listener := range listeners {
		if err := listener.Handle(event); err != nil {
			lastError = err
			d.logger.Error("listener failed", "event", event.Name(), "error", err)
		}
	}
	return lastError
}

// DispatchAsync, event'i arka planda iletir. Shutdown sonrası gelen
// event'ler yok sayılır.
func (d *Dispatcher) DispatchAsync(event Event) {
	d.goAsync(event, func() { _ = d.Dispatch(event) })
}

// goAsync fn'i izlenen bir goroutine'de çalıştırır. Kabul edilen her iş
// Shutdown'dan önce tamamlanır.
func (d *Dispatcher) goAsync(event Event, fn func()) {
	d.asyncMu.Lock()
	if d.closed {
		d.asyncMu.Unlock()
		d.logger.Warn("dispatcher is shutting down, async event ignored", "event", event.Name())
		return
	}
	d.wg.Add(1)
	d.asyncMu.Unlock()

	go func() {
		defer d.wg.Done()
		fn()
	}()
}

func (d *Dispatcher) close() {
	d.asyncMu.Lock()
	d.closed = true
	d.asyncMu.Unlock()
}

// Forget, bir event'in tüm listener'larını kaldırır.
func (d *Dispatcher) Forget(eventName string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.listeners, eventName)
}

// Listeners, event'e kayıtlı listener sayısını döner.
func (d *Dispatcher) Listeners(eventName string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.listeners[eventName])
}

func (d *Dispatcher) HasListeners(eventName string) bool {
	return d.Listeners(eventName) > 0
}

// Clear tüm listener'ları kaldırır.
func (d *Dispatcher) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.listeners = make(map[string][]Listener)
}

// Stats, event başına listener sayısını döner.
func (d *Dispatcher) Stats() map[string]int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stats := make(map[string]int, len(d.listeners))
	for event, listeners := range d.listeners {
		stats[event] = len(listeners)
	}
	return stats
}

// Shutdown yeni async event'leri durdurur ve kuyruktakilerin bitmesini
// bekler. Birden fazla çağrılabilir.
func (d *Dispatcher) Shutdown() {
	d.close()
	d.wg.Wait()
	d.logger.Debug("event dispatcher shutdown complete")
}

// ShutdownWithTimeout, Shutdown gibidir ama en fazla timeout kadar bekler.
func (d *Dispatcher) ShutdownWithTimeout(timeout time.Duration) error {
	d.close()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		d.logger.Warn("event dispatcher shutdown timeout, some events may not have completed")
		return fmt.Errorf("shutdown timeout exceeded")
	}
}
