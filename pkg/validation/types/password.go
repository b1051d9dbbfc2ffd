package types

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// PasswordRules parola politikasıdır. Sıfır değerli alanlar kontrol
// edilmez.
type PasswordRules struct {
	MinLength         int
	MaxLength         int
	RequireUppercase  bool
	RequireLowercase  bool
	RequireNumeric    bool
	RequireSpecial    bool
	SpecialChars      string
	MinUniqueChars    int
	MaxRepeatingChars int
	DisallowCommon    bool
	DisallowKeyboard  bool
	MinEntropy        float64
}

// DefaultPasswordRules varsayılan politikadır. MaxLength bcrypt'in 72 byte
// sınırıdır.
func DefaultPasswordRules() PasswordRules {
	return PasswordRules{
		MinLength:         8,
		MaxLength:         72,
		RequireUppercase:  true,
		RequireLowercase:  true,
		RequireNumeric:    true,
		RequireSpecial:    true,
		SpecialChars:      `!@#$%^&*(),.?":{}|<>+-`,
		MinUniqueChars:    6,
		MaxRepeatingChars: 3,
		DisallowCommon:    true,
		DisallowKeyboard:  true,
		MinEntropy:        50.0,
	}
}

// PasswordOption PasswordRules'u değiştirir.
type PasswordOption func(*PasswordRules)

func WithMinLength(length int) PasswordOption {
	return func(r *PasswordRules) { r.MinLength = length }
}

func WithMaxLength(length int) PasswordOption {
	return func(r *PasswordRules) { r.MaxLength = length }
}

func WithRequireUppercase(required bool) PasswordOption {
	return func(r *PasswordRules) { r.RequireUppercase = required }
}

func WithRequireLowercase(required bool) PasswordOption {
	return func(r *PasswordRules) { r.RequireLowercase = required }
}

func WithRequireNumeric(required bool) PasswordOption {
	return func(r *PasswordRules) { r.RequireNumeric = required }
}

func WithRequireSpecial(required bool) PasswordOption {
	return func(r *PasswordRules) { r.RequireSpecial = required }
}

func WithSpecialChars(chars string) PasswordOption {
	return func(r *PasswordRules) { r.SpecialChars = chars }
}

func WithMinUniqueChars(count int) PasswordOption {
	return func(r *PasswordRules) { r.MinUniqueChars = count }
}

func WithMinEntropy(bits float64) PasswordOption {
	return func(r *PasswordRules) { r.MinEntropy = bits }
}

// WithoutStrengthChecks yaygın parola, klavye dizisi, tekrar ve entropi
// kontrollerini kapatır.
func WithoutStrengthChecks() PasswordOption {
	return func(r *PasswordRules) {
		r.DisallowCommon = false
		r.DisallowKeyboard = false
		r.MaxRepeatingChars = 0
		r.MinEntropy = 0
		r.MinUniqueChars = 0
	}
}

var (
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	digitPattern   = regexp.MustCompile(`[0-9]`)
	symbolPattern  = regexp.MustCompile(`[^a-zA-Z0-9]`)
	commonPassword = map[string]bool{
		"password": true, "123456": true, "qwerty": true, "111111": true, "abc123": true,
		"letmein": true, "admin": true, "welcome": true, "monkey": true, "dragon": true,
		"password1": true, "12345678": true,
	}
	keyboardPatterns = []string{"qwerty", "asdfgh", "zxcvbn", "123456", "abcdef"}
)

// ValidatePassword kurallara uymayan her madde için bir mesaj döner.
func ValidatePassword(password string, rules *PasswordRules) []string {
	var msgs []string
	if rules == nil {
		return msgs
	}

	length := utf8.RuneCountInString(password)
	if rules.MinLength > 0 && length < rules.MinLength {
		msgs = append(msgs, fmt.Sprintf("en az %d karakter uzunluğunda olmalıdır", rules.MinLength))
	}
	if rules.MaxLength > 0 && len(password) > rules.MaxLength {
		msgs = append(msgs, fmt.Sprintf("en fazla %d byte uzunluğunda olmalıdır", rules.MaxLength))
	}
	if rules.RequireUppercase && !upperPattern.MatchString(password) {
		msgs = append(msgs, "en az bir büyük harf içermelidir")
	}
	if rules.RequireLowercase && !lowerPattern.MatchString(password) {
		msgs = append(msgs, "en az bir küçük harf içermelidir")
	}
	if rules.RequireNumeric && !digitPattern.MatchString(password) {
		msgs = append(msgs, "en az bir rakam içermelidir")
	}
	if rules.RequireSpecial && !strings.ContainsAny(password, rules.SpecialChars) {
		msgs = append(msgs, fmt.Sprintf("en az bir özel karakter içermelidir (%s)", rules.SpecialChars))
	}

	if rules.MinUniqueChars > 0 && uniqueRunes(password) < rules.MinUniqueChars {
		msgs = append(msgs, fmt.Sprintf("en az %d farklı karakter içermelidir", rules.MinUniqueChars))
	}
	if rules.DisallowKeyboard && hasKeyboardPattern(password) {
		msgs = append(msgs, "klavye düzeninde sıralı karakterler içeremez")
	}
	if rules.MaxRepeatingChars > 0 && hasRepeatingChars(password, rules.MaxRepeatingChars) {
		msgs = append(msgs, fmt.Sprintf("en fazla %d adet tekrar eden karakter içerebilir", rules.MaxRepeatingChars))
	}
	if rules.DisallowCommon && commonPassword[strings.ToLower(password)] {
		msgs = append(msgs, "çok yaygın bir şifre")
	}
	if rules.MinEntropy > 0 && passwordEntropy(password) < rules.MinEntropy {
		msgs = append(msgs, "yeterince karmaşık değil")
	}
	return msgs
}

func uniqueRunes(s string) int {
	seen := make(map[rune]struct{})
	for _, r := range s {
		seen[r] = struct{}{}
	}
	return len(seen)
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

func hasKeyboardPattern(password string) bool {
	lowered := strings.ToLower(password)
	for _, p := range keyboardPatterns {
		if strings.Contains(lowered, p) || strings.Contains(lowered, reverse(p)) {
			return true
		}
	}
	return false
}

func hasRepeatingChars(password string, maxRepeats int) bool {
	consecutive := 0
	var last rune
	for i, r := range []rune(password) {
		if i > 0 && r == last {
			consecutive++
		} else {
			consecutive = 1
		}
		if consecutive > maxRepeats {
			return true
		}
		last = r
	}
	return false
}

// passwordEntropy karakter havuzu büyüklüğüne göre kaba bir bit tahminidir.
func passwordEntropy(password string) float64 {
	pool := 0.0
	if lowerPattern.MatchString(password) {
		pool += 26
	}
	if upperPattern.MatchString(password) {
		pool += 26
	}
	if digitPattern.MatchString(password) {
		pool += 10
	}
	if symbolPattern.MatchString(password) {
		pool += 32
	}
	if pool == 0 {
		return 0
	}
	return float64(utf8.RuneCountInString(password)) * math.Log2(pool)
}
