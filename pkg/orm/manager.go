// -----------------------------------------------------------------------------
// Manager
// -----------------------------------------------------------------------------
// Manager, bağlantı adı → Adapter kaydını tutan açık bir bağlam değeridir.
// Global singleton yoktur: uygulama başlangıcında bir kez Init ile kurulur
// ve ihtiyaç duyan her bileşene referans olarak geçirilir. Testler Reset
// ile bağlantıları kapatıp temizler.
//
// Kullanım:
//
//	m, err := orm.Init(ctx, cfg.Connections(),
//	    orm.WithLogger(logger),
//	    orm.WithDefaultConnection(cfg.DefaultConnection),
//	)
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
//	alice, err := m.Query(Employees).Where("name", "Alice").FirstOrFail(ctx)
//	err = m.Schema("").CreateTable(ctx, "employees", func(t *migration.Blueprint) { ... })
// -----------------------------------------------------------------------------

package orm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/biyonik/conduit-orm/pkg/cache"
	"github.com/biyonik/conduit-orm/pkg/database"
	"github.com/biyonik/conduit-orm/pkg/database/migration"
	"github.com/biyonik/conduit-orm/pkg/events"
)

// settings Manager ve NewBuilder seçenekleridir.
type settings struct {
	logger            *slog.Logger
	dispatcher        *events.Dispatcher
	idgen             IDGenerator
	now               func() time.Time
	queryLogging      bool
	defaultConnection string
	cache             cache.Cache
	shutdownTimeout   time.Duration
}

// Option Manager/Builder seçeneğidir.
type Option func(*settings)

// WithLogger logger enjekte eder. nil discard logger demektir.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithDispatcher query, model ve transaction event'lerinin yayınlanacağı
// dispatcher'ı ayarlar.
func WithDispatcher(d *events.Dispatcher) Option {
	return func(s *settings) { s.dispatcher = d }
}

// WithShutdownTimeout Close'un async listener'ları en fazla ne kadar
// bekleyeceğini ayarlar. Sıfır süresiz bekler.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *settings) { s.shutdownTimeout = d }
}

// WithIDGenerator insert id üreticisini değiştirir; nil üretimi kapatır.
func WithIDGenerator(fn IDGenerator) Option {
	return func(s *settings) { s.idgen = fn }
}

// WithClock timestamp'ler için saat fonksiyonunu değiştirir.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithQueryLogging Init ile kurulan adapter'larda sorgu logunu açar.
func WithQueryLogging(enabled bool) Option {
	return func(s *settings) { s.queryLogging = enabled }
}

// WithCache Builder.Remember ile işaretlenen sorguların sonuçlarını c'de
// saklar. Yazmalar ilgili tablonun generation sayacını artırır.
func WithCache(c cache.Cache) Option {
	return func(s *settings) { s.cache = c }
}

// WithDefaultConnection boş bağlantı adının çözüleceği bağlantıdır.
func WithDefaultConnection(name string) Option {
	return func(s *settings) { s.defaultConnection = name }
}

func newSettings(opts []Option) settings {
	s := settings{idgen: NewUUID, now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = discardLogger()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s settings) runtime() runtime {
	return runtime{logger: s.logger, dispatcher: s.dispatcher, idgen: s.idgen, now: s.now, cache: s.cache}
}

// Manager bağlantı kaydıdır.
type Manager struct {
	mu       sync.RWMutex
	settings settings
	adapters map[string]database.Adapter
	order    []string
}

// NewManager boş bir Manager üretir. Dispatcher verilmemişse bir tane
// oluşturulur.
func NewManager(opts ...Option) *Manager {
	s := newSettings(opts)
	if s.dispatcher == nil {
		s.dispatcher = events.NewDispatcher(s.logger)
	}
	return &Manager{settings: s, adapters: make(map[string]database.Adapter)}
}

// Init her bağlantı için registry'den adapter üretir, hepsini eşzamanlı
// bağlar ve kaydeder. Bir bağlantı başarısız olursa açılanlar kapatılır.
func Init(ctx context.Context, connections []database.ConnectionConfig, opts ...Option) (*Manager, error) {
	m := NewManager(opts...)

	adapterOpts := []database.Option{
		database.WithLogger(m.settings.logger),
		database.WithDispatcher(m.settings.dispatcher),
		database.WithQueryLogging(m.settings.queryLogging),
	}

	adapters := make([]database.Adapter, len(connections))
	for i, cfg := range connections {
		a, err := database.NewAdapter(cfg, adapterOpts...)
		if err != nil {
			return nil, fmt.Errorf("connection %q: %w", cfg.Name, err)
		}
		adapters[i] = a
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, a := range adapters {
		g.Go(func() error {
			return a.Connect(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		for _, a := range adapters {
			_ = a.Close()
		}
		return nil, err
	}

	for _, a := range adapters {
		if err := m.Add(a); err != nil {
			_ = m.Reset()
			return nil, err
		}
	}
	m.settings.logger.Info("orm initialized", "connections", m.Connections(), "default", m.DefaultConnection())
	return m, nil
}

// Add kurulmuş bir adapter'ı kaydeder. Aynı adda ikinci kayıt hatadır.
func (m *Manager) Add(adapter database.Adapter) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := adapter.Name()
	if name == "" {
		return database.NewValidationError("connection", "adapter has no connection name")
	}
	if _, exists := m.adapters[name]; exists {
		return database.NewValidationError("connection", "connection %q is already registered", name)
	}
	m.adapters[name] = adapter
	m.order = append(m.order, name)
	return nil
}

// Adapter bağlantı adına göre adapter döner. Boş ad varsayılan bağlantıdır.
func (m *Manager) Adapter(connection string) (database.Adapter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name := m.resolve(connection)
	a, ok := m.adapters[name]
	if !ok {
		return nil, &database.ConnectionError{Connection: name, Err: errors.New("connection is not registered")}
	}
	return a, nil
}

// resolve mu tutulurken çağrılır.
func (m *Manager) resolve(connection string) string {
	if connection != "" {
		return connection
	}
	if m.settings.defaultConnection != "" {
		return m.settings.defaultConnection
	}
	if len(m.order) > 0 {
		return m.order[0]
	}
	return ""
}

// DefaultConnection boş adın çözüldüğü bağlantıdır.
func (m *Manager) DefaultConnection() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resolve("")
}

// Connections kayıt sırasıyla bağlantı adlarıdır.
func (m *Manager) Connections() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.order)
}

// Builder def için connection'a bağlı builder döner. Bağlantı bulunamazsa
// builder ConnectionError kaydeder ve ilk terminal çağrıda döner.
func (m *Manager) Builder(def *Definition, connection string) *Builder {
	a, err := m.Adapter(connection)
	b := newBuilder(def, a, m.settings.runtime())
	if err != nil {
		b.err = err
	}
	return b
}

// Query varsayılan bağlantı için builder döner.
func (m *Manager) Query(def *Definition) *Builder {
	return m.Builder(def, "")
}

// Schema bağlantının DDL nesnesini döner.
func (m *Manager) Schema(connection string) (migration.Schema, error) {
	a, err := m.Adapter(connection)
	if err != nil {
		return nil, err
	}
	return a.Schema(), nil
}

// Dispatcher event dispatcher'ıdır.
func (m *Manager) Dispatcher() *events.Dispatcher {
	return m.settings.dispatcher
}

// Logger Manager'ın logger'ıdır.
func (m *Manager) Logger() *slog.Logger {
	return m.settings.logger
}

// Reset tüm bağlantıları kapatır ve kaydı temizler. Manager tekrar Add ile
// kullanılabilir.
func (m *Manager) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, name := range m.order {
		if err := m.adapters[name].Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %q: %w", name, err))
		}
	}
	m.adapters = make(map[string]database.Adapter)
	m.order = nil
	return errors.Join(errs...)
}

// Close bağlantıları kapatır ve dispatcher'ın async listener'larını bekler.
func (m *Manager) Close() error {
	err := m.Reset()
	if m.settings.shutdownTimeout <= 0 {
		m.settings.dispatcher.Shutdown()
		return err
	}
	if sErr := m.settings.dispatcher.ShutdownWithTimeout(m.settings.shutdownTimeout); sErr != nil {
		err = errors.Join(err, fmt.Errorf("event dispatcher: %w", sErr))
	}
	return err
}
