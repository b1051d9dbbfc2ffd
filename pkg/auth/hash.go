// -----------------------------------------------------------------------------
// Password Hashing Package
// -----------------------------------------------------------------------------
// Authenticatable modellerin hashedPassword alanı bu paketteki Hasher ile
// üretilir ve doğrulanır. bcrypt algoritması kullanılır; salt otomatik
// eklenir, cost factor zamanla artırılabilir.
//
// Önerilen cost değerleri:
//   - Test: bcrypt.MinCost (4)
//   - Production: 12-14
// -----------------------------------------------------------------------------

package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost, cost verilmediğinde kullanılan bcrypt maliyetidir.
const DefaultCost = 12

// ErrEmptyPassword boş şifre hash'lenmeye çalışıldığında döner.
var ErrEmptyPassword = errors.New("password cannot be empty")

// Hasher, sabit bir cost ile bcrypt hash üretir.
type Hasher struct {
	cost int
}

// NewHasher verilen cost ile Hasher üretir. Geçersiz cost DefaultCost olur.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Cost hasher'ın bcrypt maliyetidir.
func (h *Hasher) Cost() int { return h.cost }

// Hash, düz metin şifreyi bcrypt ile hash'ler.
//
// Döndürür:
//   - string: Bcrypt hash'i (60 karakter, $2a$ ile başlar)
//   - error: Şifre boşsa ErrEmptyPassword
//
// Örnek:
//
//	hashed, err := auth.NewHasher(auth.DefaultCost).Hash("mySecretPassword123")
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Check, düz metin şifreyi hash ile karşılaştırır.
// Hatalı şifre ve bozuk hash için false döner.
func (h *Hasher) Check(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NeedsRehash, hash'in hasher'ın cost'undan düşük bir maliyetle üretilip
// üretilmediğini söyler.
//
// Örnek:
//
//	if h.Check(password, stored) && h.NeedsRehash(stored) {
//	    newHash, _ := h.Hash(password)
//	    // newHash kaydedilir
//	}
func (h *Hasher) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return false
	}
	return cost < h.cost
}
