package database

// -----------------------------------------------------------------------------
// Document Query Evaluation
// -----------------------------------------------------------------------------
// Doküman deposunun sorgu dili olmadığı için Expression bellekte
// değerlendirilir. Semantik SQL ile aynı tutulur:
//
//   - null ile yapılan her karşılaştırma (!= ve not in dahil) false döner
//   - where clause'ları soldan sağa katlanır: a OR b AND c → (a OR b) AND c
//   - like/not like büyük/küçük harf duyarsızdır (MySQL, SQLite varsayılanı)
//   - sıralamada null değerler artan yönde önce gelir
// -----------------------------------------------------------------------------

import (
	"encoding/json"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
)

// predicate tek bir where clause'un derlenmiş halidir.
type predicate struct {
	clause  WhereClause
	pattern *regexp.Regexp
}

func compilePredicates(wheres []WhereClause) ([]predicate, error) {
	preds := make([]predicate, len(wheres))
	for i, w := range wheres {
		normalized, err := ValidateClause(w)
		if err != nil {
			return nil, err
		}
		p := predicate{clause: normalized}
		if normalized.Operator == OpLike || normalized.Operator == OpNotLike {
			re, err := likePattern(normalized.Value.(string))
			if err != nil {
				return nil, NewValidationError(w.Column, "invalid like pattern: %v", err)
			}
			p.pattern = re
		}
		preds[i] = p
	}
	return preds, nil
}

// likePattern SQL LIKE desenini regexp'e çevirir: % → .*, _ → .
func likePattern(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("(?is)^")
	for _, r := range pattern {
		switch r {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")
	return regexp.Compile(sb.String())
}

// matches satırın clause zincirini sağlayıp sağlamadığını söyler.
func matches(row Row, preds []predicate) bool {
	if len(preds) == 0 {
		return true
	}
	result := preds[0].eval(row)
	for _, p := range preds[1:] {
		if p.clause.Boolean == BooleanOr {
			result = result || p.eval(row)
		} else {
			result = result && p.eval(row)
		}
	}
	return result
}

func (p predicate) eval(row Row) bool {
	value := lookup(row, p.clause.Column)
	c := p.clause

	switch c.Operator {
	case OpIsNull:
		return value == nil
	case OpIsNotNull:
		return value != nil
	}

	if value == nil {
		return false
	}

	switch c.Operator {
	case OpEqual:
		return equalValues(value, c.Value)
	case OpNotEqual:
		return c.Value != nil && !equalValues(value, c.Value)
	case OpGreater, OpGreaterOrEqual, OpLess, OpLessOrEqual:
		cmp, ok := compareValues(value, c.Value)
		if !ok {
			return false
		}
		switch c.Operator {
		case OpGreater:
			return cmp > 0
		case OpGreaterOrEqual:
			return cmp >= 0
		case OpLess:
			return cmp < 0
		default:
			return cmp <= 0
		}
	case OpLike:
		return p.pattern.MatchString(stringify(value))
	case OpNotLike:
		return !p.pattern.MatchString(stringify(value))
	case OpIn, OpNotIn:
		found := false
		for _, candidate := range c.Value.([]any) {
			if equalValues(value, candidate) {
				found = true
				break
			}
		}
		if c.Operator == OpIn {
			return found
		}
		return !found
	case OpBetween, OpNotBetween:
		bounds := c.Value.([]any)
		lo, ok1 := compareValues(value, bounds[0])
		hi, ok2 := compareValues(value, bounds[1])
		if !ok1 || !ok2 {
			return false
		}
		inside := lo >= 0 && hi <= 0
		if c.Operator == OpBetween {
			return inside
		}
		return !inside
	}
	return false
}

// lookup "table.column" biçimindeki kolonları da çözer.
func lookup(row Row, column string) any {
	if v, ok := row[column]; ok {
		return v
	}
	if i := strings.LastIndex(column, "."); i >= 0 {
		// "department.deptName" → "department_deptName"; join edilmiş kolon
		// primary tablodaki aynı adlı kolonu gölgeler.
		if v, ok := row[PrefixedColumn(column[:i], column[i+1:])]; ok {
			return v
		}
		return row[column[i+1:]]
	}
	return nil
}

// sortRows satırları çok anahtarlı olarak, kararlı biçimde sıralar.
func sortRows(rows []Row, orders []OrderClause) {
	if len(orders) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range orders {
			a, b := lookup(rows[i], o.Column), lookup(rows[j], o.Column)
			cmp := orderCompare(a, b)
			if cmp == 0 {
				continue
			}
			if o.Direction == OrderDesc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func orderCompare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	cmp, ok := compareValues(a, b)
	if !ok {
		return strings.Compare(stringify(a), stringify(b))
	}
	return cmp
}

// aggregateRows SQL aggregate fonksiyonlarının bellekteki karşılığıdır.
// Boş girdide count 0, diğerleri nil döner.
func aggregateRows(rows []Row, agg *Aggregate) any {
	if agg.Kind == AggregateCount {
		if agg.Column == "" {
			return int64(len(rows))
		}
		var n int64
		for _, row := range rows {
			if lookup(row, agg.Column) != nil {
				n++
			}
		}
		return n
	}

	var (
		values []float64
		sum    float64
	)
	for _, row := range rows {
		f, ok := toFloat(lookup(row, agg.Column))
		if !ok {
			continue
		}
		values = append(values, f)
		sum += f
	}
	if len(values) == 0 {
		return nil
	}

	switch agg.Kind {
	case AggregateSum:
		return sum
	case AggregateAvg:
		return sum / float64(len(values))
	case AggregateMin:
		m := math.Inf(1)
		for _, v := range values {
			m = math.Min(m, v)
		}
		return m
	case AggregateMax:
		m := math.Inf(-1)
		for _, v := range values {
			m = math.Max(m, v)
		}
		return m
	}
	return nil
}

func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	if cmp, ok := compareValues(a, b); ok {
		return cmp == 0
	}
	if ab, ok := a.(bool); ok {
		bb, ok := b.(bool)
		return ok && ab == bb
	}
	return stringify(a) == stringify(b)
}

// compareValues sayı, string ve zaman değerlerini karşılaştırır. Tipler
// karşılaştırılamıyorsa ok false döner.
func compareValues(a, b any) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1, true
			case fa > fb:
				return 1, true
			}
			return 0, true
		}
		return 0, false
	}
	if ta, ok := toTime(a); ok {
		if tb, ok := toTime(b); ok {
			return ta.Compare(tb), true
		}
	}
	sa, okA := a.(string)
	sb, okB := b.(string)
	if okA && okB {
		return strings.Compare(sa, sb), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		return parsed, err == nil
	}
	return time.Time{}, false
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.Trim(string(b), `"`)
}
