package database

// -----------------------------------------------------------------------------
// WHERE OPERATORS
// -----------------------------------------------------------------------------
// Operatör kümesi kapalıdır: aşağıdaki 14 operatör dışındaki her değer
// ValidationError ile reddedilir, hiçbir zaman sessizce yok sayılmaz.
// Değer şekli de burada kontrol edilir (in → liste, between → çift).
// -----------------------------------------------------------------------------

import (
	"reflect"
	"strings"
)

// Operator, WhereClause'da kullanılabilecek karşılaştırma operatörüdür.
type Operator string

const (
	OpEqual          Operator = "="
	OpNotEqual       Operator = "!="
	OpGreater        Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpLess           Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpLike           Operator = "like"
	OpNotLike        Operator = "not like"
	OpIn             Operator = "in"
	OpNotIn          Operator = "not in"
	OpIsNull         Operator = "is null"
	OpIsNotNull      Operator = "is not null"
	OpBetween        Operator = "between"
	OpNotBetween     Operator = "not between"
)

var operators = map[Operator]struct{}{
	OpEqual: {}, OpNotEqual: {}, OpGreater: {}, OpGreaterOrEqual: {},
	OpLess: {}, OpLessOrEqual: {}, OpLike: {}, OpNotLike: {},
	OpIn: {}, OpNotIn: {}, OpIsNull: {}, OpIsNotNull: {},
	OpBetween: {}, OpNotBetween: {},
}

// ParseOperator, kullanıcıdan gelen operatör string'ini normalize eder.
// Büyük/küçük harf ve fazla boşluk önemsizdir: "NOT  LIKE" → OpNotLike.
//
// Döndürür:
//   - Operator: Normalize edilmiş operatör
//   - error: Operatör kümede yoksa *ValidationError
func ParseOperator(raw string) (Operator, error) {
	op := Operator(strings.Join(strings.Fields(strings.ToLower(raw)), " "))
	if !op.Valid() {
		return "", NewValidationError("operator", "unknown operator %q", raw)
	}
	return op, nil
}

// Valid operatörün kapalı kümede olup olmadığını söyler.
func (o Operator) Valid() bool {
	_, ok := operators[o]
	return ok
}

// Unary, değer almayan operatörler için true döner.
func (o Operator) Unary() bool {
	return o == OpIsNull || o == OpIsNotNull
}

// Negated, "not" içeren operatörler için true döner.
func (o Operator) Negated() bool {
	switch o {
	case OpNotEqual, OpNotLike, OpNotIn, OpIsNotNull, OpNotBetween:
		return true
	}
	return false
}

// SQL operatörün standart SQL karşılığıdır.
func (o Operator) SQL() string {
	if o == OpNotEqual {
		return "<>"
	}
	return strings.ToUpper(string(o))
}

// ValidateClause, operatör ile değerin şeklinin uyumlu olduğunu kontrol eder
// ve liste değerlerini []any'ye normalize eder. nil ile = ve != sırasıyla
// is null / is not null olur; sıralama operatörleri nil kabul etmez.
func ValidateClause(clause WhereClause) (WhereClause, error) {
	if strings.TrimSpace(clause.Column) == "" {
		return clause, NewValidationError("column", "where clause requires a column")
	}
	if !clause.Operator.Valid() {
		return clause, NewValidationError(clause.Column, "unknown operator %q", clause.Operator)
	}
	if clause.Boolean != BooleanAnd && clause.Boolean != BooleanOr {
		return clause, NewValidationError(clause.Column, "unknown logical operator %q", clause.Boolean)
	}

	switch clause.Operator {
	case OpEqual:
		if clause.Value == nil {
			clause.Operator = OpIsNull
		}
	case OpNotEqual:
		if clause.Value == nil {
			clause.Operator = OpIsNotNull
		}
	case OpGreater, OpGreaterOrEqual, OpLess, OpLessOrEqual:
		if clause.Value == nil {
			return clause, NewValidationError(clause.Column, "%s cannot compare against null", clause.Operator)
		}
	case OpIn, OpNotIn:
		values, ok := toList(clause.Value)
		if !ok {
			return clause, NewValidationError(clause.Column, "%s requires a list value, got %T", clause.Operator, clause.Value)
		}
		clause.Value = values
	case OpBetween, OpNotBetween:
		values, ok := toList(clause.Value)
		if !ok || len(values) != 2 {
			return clause, NewValidationError(clause.Column, "%s requires exactly two values", clause.Operator)
		}
		clause.Value = values
	case OpLike, OpNotLike:
		if _, ok := clause.Value.(string); !ok {
			return clause, NewValidationError(clause.Column, "%s requires a string pattern, got %T", clause.Operator, clause.Value)
		}
	case OpIsNull, OpIsNotNull:
		clause.Value = nil
	}
	return clause, nil
}

// toList, herhangi bir slice/array değerini []any'ye çevirir.
// []byte liste değil, skaler kabul edilir.
func toList(value any) ([]any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case []any:
		return append([]any(nil), v...), true
	case []byte:
		return nil, false
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
