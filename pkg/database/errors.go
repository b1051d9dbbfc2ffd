// -----------------------------------------------------------------------------
// Database Errors - Sorgu Katmanı Hata Taksonomisi
// -----------------------------------------------------------------------------
// Query builder, adapter ve schema katmanlarının döndürdüğü tüm hatalar bu
// dosyadaki tiplerden biridir. Çağıran taraf errors.As / errors.Is ile hatanın
// nedenine göre dallanabilir:
//
//   - ValidationError:   bozuk clause, bilinmeyen operatör, geçersiz kolon
//   - NotSupportedError: bağlı adapter'ın sunmadığı yetenek (join tipi, transaction)
//   - ConnectionError:   adapter bağlı değil veya bağlantı koptu
//   - NotFoundError:     FirstOrFail sıfır satır döndürdü
//   - TransactionError:  rollback sırasında ikinci bir hata oluştu
// -----------------------------------------------------------------------------

package database

import (
	"errors"
	"fmt"

	"github.com/biyonik/conduit-orm/pkg/database/migration"
)

// ErrNotImplemented, adapter'ın henüz desteklemediği operasyonlar için döner.
// Boş/default sonuç döndürmek yerine hızlıca başarısız olunur. Schema
// katmanıyla aynı sentinel'dir.
var ErrNotImplemented = migration.ErrNotImplemented

// ValidationError, derleme öncesinde yakalanan hatalı sorgu girdisidir.
type ValidationError struct {
	Field   string
	Message string
	// Err, hatayı üreten alt katmanın hatasıdır (örneğin model kuralları).
	Err error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error on %q: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError yeni bir ValidationError üretir.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotSupportedError, adapter'ın capability flag'lerinde olmayan bir
// operasyon istendiğinde döner.
type NotSupportedError struct {
	Adapter   string
	Operation string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("%s is not supported by the %s adapter", e.Operation, e.Adapter)
}

// ConnectionError, bağlantı kurulamadığında veya bağlantı olmadan sorgu
// çalıştırılmaya çalışıldığında döner.
type ConnectionError struct {
	Connection string
	Err        error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("connection %q: database connection not established", e.Connection)
	}
	return fmt.Sprintf("connection %q: %v", e.Connection, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// NotFoundError, FirstOrFail / FindOrFail hiç satır bulamadığında döner.
type NotFoundError struct {
	Table string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no rows found in %q", e.Table)
}

// TransactionError, callback hatası sonrası rollback da başarısız olursa
// döner. Err her zaman callback'in orijinal hatasıdır.
type TransactionError struct {
	Err         error
	RollbackErr error
}

func (e *TransactionError) Error() string {
	if e.RollbackErr == nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v (rollback failed: %v)", e.Err, e.RollbackErr)
}

func (e *TransactionError) Unwrap() []error {
	if e.RollbackErr == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.RollbackErr}
}

// IsValidation hata zincirinde ValidationError olup olmadığını söyler.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotSupported hata zincirinde NotSupportedError olup olmadığını söyler.
func IsNotSupported(err error) bool {
	var target *NotSupportedError
	return errors.As(err, &target)
}

// IsNotFound hata zincirinde NotFoundError olup olmadığını söyler.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConnection hata zincirinde ConnectionError olup olmadığını söyler.
func IsConnection(err error) bool {
	var target *ConnectionError
	return errors.As(err, &target)
}
