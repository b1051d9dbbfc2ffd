package orm

// -----------------------------------------------------------------------------
// Attribute Casts
// -----------------------------------------------------------------------------
// Cast hem yazarken hem okurken uygulanır; böylece backend'in serileştirme
// biçimi ne olursa olsun (JSON string, TEXT tarih, 0/1 boolean) model her
// zaman native değer görür:
//
//   - string  → string
//   - number  → float64
//   - boolean → bool
//   - date    → time.Time
//   - array   → []any
//   - object  → map[string]any
//
// nil her cast için nil kalır.
// -----------------------------------------------------------------------------

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/biyonik/conduit-orm/pkg/database"
)

// dateLayouts, string tarih değerleri için denenen biçimlerdir.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// castValue değeri cast tipine çevirir.
func castValue(field string, cast CastType, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	if p := reflect.ValueOf(value); p.Kind() == reflect.Pointer {
		if p.IsNil() {
			return nil, nil
		}
		value = p.Elem().Interface()
	}

	switch cast {
	case CastString:
		return castString(value), nil
	case CastNumber:
		return castNumber(field, value)
	case CastBoolean:
		return castBoolean(field, value)
	case CastDate:
		return castDate(field, value)
	case CastArray:
		return castArray(field, value)
	case CastObject:
		return castObject(field, value)
	}
	return nil, database.NewValidationError(field, "unknown cast %q", cast)
}

func castString(value any) any {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(value)
}

func castNumber(field string, value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case bool:
		if v {
			return float64(1), nil
		}
		return float64(0), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, database.NewValidationError(field, "cannot cast %q to number", v)
		}
		return f, nil
	case string, []byte:
		s := strings.TrimSpace(castString(v).(string))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, database.NewValidationError(field, "cannot cast %q to number", s)
		}
		return f, nil
	}

	rv := reflect.ValueOf(value)
	switch {
	case rv.CanInt():
		return float64(rv.Int()), nil
	case rv.CanUint():
		return float64(rv.Uint()), nil
	case rv.CanFloat():
		return rv.Float(), nil
	}
	return nil, database.NewValidationError(field, "cannot cast %T to number", value)
}

func castBoolean(field string, value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string, []byte:
		b, err := strconv.ParseBool(strings.TrimSpace(castString(v).(string)))
		if err != nil {
			return nil, database.NewValidationError(field, "cannot cast %q to boolean", v)
		}
		return b, nil
	}
	if f, err := castNumber(field, value); err == nil {
		return f.(float64) != 0, nil
	}
	return nil, database.NewValidationError(field, "cannot cast %T to boolean", value)
}

func castDate(field string, value any) (any, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string, []byte:
		s := strings.TrimSpace(castString(v).(string))
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return nil, database.NewValidationError(field, "cannot cast %q to date", s)
	}
	if f, err := castNumber(field, value); err == nil {
		// Unix epoch milisaniye.
		ms := f.(float64)
		sec, frac := math.Modf(ms / 1000)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
	}
	return nil, database.NewValidationError(field, "cannot cast %T to date", value)
}

func castArray(field string, value any) (any, error) {
	switch v := value.(type) {
	case []any:
		return v, nil
	case string, []byte:
		var out []any
		if err := decodeJSON(v, &out); err != nil {
			return nil, database.NewValidationError(field, "cannot decode array: %v", err)
		}
		if out == nil {
			return nil, nil
		}
		return out, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	}
	return nil, database.NewValidationError(field, "cannot cast %T to array", value)
}

func castObject(field string, value any) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		return v, nil
	case database.Row:
		return map[string]any(v), nil
	case string, []byte:
		var out map[string]any
		if err := decodeJSON(v, &out); err != nil {
			return nil, database.NewValidationError(field, "cannot decode object: %v", err)
		}
		if out == nil {
			return nil, nil
		}
		return out, nil
	}

	// Struct ve tipli map'ler JSON üzerinden çevrilir.
	b, err := json.Marshal(value)
	if err != nil {
		return nil, database.NewValidationError(field, "cannot cast %T to object: %v", value, err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, database.NewValidationError(field, "cannot cast %T to object", value)
	}
	return out, nil
}

func decodeJSON(raw any, dest any) error {
	var b []byte
	switch v := raw.(type) {
	case string:
		b = []byte(v)
	case []byte:
		b = v
	}
	return json.Unmarshal(b, dest)
}
