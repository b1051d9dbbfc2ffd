package types

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/biyonik/conduit-orm/pkg/validation"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// StringType metin değerlerini doğrular. Uzunluklar rune olarak sayılır.
type StringType struct {
	BaseType
	minLength     *int
	maxLength     *int
	pattern       *regexp.Regexp
	email         bool
	allowedValues []string
	passwordRules *PasswordRules
}

// --- Akıcı (Fluent) Metotlar ---

func (s *StringType) Required() *StringType {
	s.SetRequired()
	return s
}

func (s *StringType) Label(label string) *StringType {
	s.SetLabel(label)
	return s
}

func (s *StringType) Default(value string) *StringType {
	s.SetDefault(value)
	return s
}

// Min minimum karakter sayısını ayarlar.
func (s *StringType) Min(length int) *StringType {
	s.minLength = &length
	return s
}

// Max maksimum karakter sayısını ayarlar.
func (s *StringType) Max(length int) *StringType {
	s.maxLength = &length
	return s
}

// Email değerin e-posta formatında olmasını ister.
func (s *StringType) Email() *StringType {
	s.email = true
	return s
}

// Pattern değerin regexp ile eşleşmesini ister. Geçersiz pattern panic'e
// yol açar; şemalar paket seviyesinde tanımlanır.
func (s *StringType) Pattern(expr string) *StringType {
	s.pattern = regexp.MustCompile(expr)
	return s
}

// OneOf değerin verilenlerden biri olmasını ister.
func (s *StringType) OneOf(values ...string) *StringType {
	s.allowedValues = values
	return s
}

// Trim baştaki ve sondaki boşlukları temizler.
func (s *StringType) Trim() *StringType {
	s.AddTransform(func(value any) (any, error) {
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("Trim sadece string değerler için uygulanabilir")
		}
		return strings.TrimSpace(str), nil
	})
	return s
}

// Lower değeri küçük harfe çevirir.
func (s *StringType) Lower() *StringType {
	s.AddTransform(func(value any) (any, error) {
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("Lower sadece string değerler için uygulanabilir")
		}
		return strings.ToLower(str), nil
	})
	return s
}

// Password parola kurallarını uygular. Opsiyonlar DefaultPasswordRules
// üzerine yazılır.
//
// Örnek:
//
//	types.String().Required().Password(types.WithMinLength(12), types.WithRequireSpecial(false))
func (s *StringType) Password(options ...PasswordOption) *StringType {
	rules := DefaultPasswordRules()
	for _, option := range options {
		option(&rules)
	}
	s.passwordRules = &rules
	return s
}

// --- Arayüz Implementasyonu ---

func (s *StringType) Validate(field string, value any, result *validation.ValidationResult) {
	if !s.check(field, value, result) {
		return
	}

	fieldName := s.name(field)
	str, ok := value.(string)
	if !ok {
		result.AddError(field, fmt.Sprintf("%s alanı metin tipinde olmalıdır", fieldName))
		return
	}

	length := utf8.RuneCountInString(str)
	if s.minLength != nil && length < *s.minLength {
		result.AddError(field, fmt.Sprintf("%s alanı en az %d karakter olmalıdır", fieldName, *s.minLength))
	}
	if s.maxLength != nil && length > *s.maxLength {
		result.AddError(field, fmt.Sprintf("%s alanı en fazla %d karakter olmalıdır", fieldName, *s.maxLength))
	}
	if s.email && !emailPattern.MatchString(str) {
		result.AddError(field, fmt.Sprintf("%s alanı geçerli bir e-posta formatında değil", fieldName))
	}
	if s.pattern != nil && !s.pattern.MatchString(str) {
		result.AddError(field, fmt.Sprintf("%s alanı beklenen formatta değil", fieldName))
	}
	if len(s.allowedValues) > 0 && !slices.Contains(s.allowedValues, str) {
		result.AddError(field, fmt.Sprintf("%s alanı şunlardan biri olmalıdır: %s", fieldName, strings.Join(s.allowedValues, ", ")))
	}
	if s.passwordRules != nil {
		for _, msg := range ValidatePassword(str, s.passwordRules) {
			result.AddError(field, fmt.Sprintf("%s %s", fieldName, msg))
		}
	}
}
