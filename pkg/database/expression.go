// -----------------------------------------------------------------------------
// Expression - Backend Bağımsız Sorgu Tanımı
// -----------------------------------------------------------------------------
// Expression, builder'ın zincirleme çağrılarla biriktirdiği clause'ların
// tamamıdır. Adapter'lar Expression'ı native sorguya derler.
//
// Clone() tüm slice'ları ve map'leri derin kopyalar: klon üzerinde yapılan
// değişiklik kaynağı, kaynakta yapılan değişiklik de klonu etkilemez.
// -----------------------------------------------------------------------------

package database

import "strings"

// Expression, tek bir sorgunun clause'larını taşır.
type Expression struct {
	Table     string
	Statement StatementKind
	Columns   []Column
	Wheres    []WhereClause
	Orders    []OrderClause
	Joins     []JoinClause
	Limit     int
	Offset    int
	Aggregate *Aggregate

	// Documents insert edilecek satırlardır.
	Documents []Row
	// Changes update ile yazılacak kolonlardır.
	Changes Row
	// JSONColumns, SQL adapter'larının yazarken JSON'a encode ettiği kolonlar.
	JSONColumns []string
}

// NewExpression verilen tablo için boş bir select Expression üretir.
func NewExpression(table string) *Expression {
	return &Expression{Table: table, Statement: StatementSelect}
}

// Clone Expression'ın derin kopyasını döner.
func (e *Expression) Clone() *Expression {
	if e == nil {
		return nil
	}

	c := &Expression{
		Table:       e.Table,
		Statement:   e.Statement,
		Limit:       e.Limit,
		Offset:      e.Offset,
		Columns:     cloneSlice(e.Columns),
		Orders:      cloneSlice(e.Orders),
		JSONColumns: cloneSlice(e.JSONColumns),
		Changes:     cloneRow(e.Changes),
	}

	if e.Wheres != nil {
		c.Wheres = make([]WhereClause, len(e.Wheres))
		for i, w := range e.Wheres {
			w.Value = cloneValue(w.Value)
			c.Wheres[i] = w
		}
	}
	if e.Joins != nil {
		c.Joins = make([]JoinClause, len(e.Joins))
		for i, j := range e.Joins {
			j.Columns = cloneSlice(j.Columns)
			c.Joins[i] = j
		}
	}
	if e.Aggregate != nil {
		agg := *e.Aggregate
		c.Aggregate = &agg
	}
	if e.Documents != nil {
		c.Documents = make([]Row, len(e.Documents))
		for i, doc := range e.Documents {
			c.Documents[i] = cloneRow(doc)
		}
	}
	return c
}

// Validate Expression'ı derlemeden önce kontrol eder. Liste değerleri
// yerinde []any'ye normalize edilir.
func (e *Expression) Validate() error {
	if strings.TrimSpace(e.Table) == "" {
		return NewValidationError("table", "expression has no table")
	}

	for i, w := range e.Wheres {
		normalized, err := ValidateClause(w)
		if err != nil {
			return err
		}
		e.Wheres[i] = normalized
	}
	for _, o := range e.Orders {
		if o.Direction != OrderAsc && o.Direction != OrderDesc {
			return NewValidationError(o.Column, "invalid order direction %q", o.Direction)
		}
	}
	for _, j := range e.Joins {
		if err := validateJoin(j); err != nil {
			return err
		}
	}
	if e.Limit < 0 || e.Offset < 0 {
		return NewValidationError("limit", "limit and offset must not be negative")
	}
	if e.Aggregate != nil {
		switch e.Aggregate.Kind {
		case AggregateCount:
		case AggregateSum, AggregateAvg, AggregateMin, AggregateMax:
			if e.Aggregate.Column == "" {
				return NewValidationError("aggregate", "%s requires a column", e.Aggregate.Kind)
			}
		default:
			return NewValidationError("aggregate", "unknown aggregate %q", e.Aggregate.Kind)
		}
	}

	switch e.Statement {
	case StatementSelect, StatementDelete:
	case StatementInsert:
		if len(e.Documents) == 0 {
			return NewValidationError("documents", "insert requires at least one document")
		}
	case StatementUpdate:
		if len(e.Changes) == 0 {
			return NewValidationError("changes", "update requires at least one column")
		}
	default:
		return NewValidationError("statement", "unknown statement %q", e.Statement)
	}
	return nil
}

// IsJSONColumn kolonun JSON olarak saklanıp saklanmadığını söyler.
func (e *Expression) IsJSONColumn(column string) bool {
	for _, c := range e.JSONColumns {
		if c == column {
			return true
		}
	}
	return false
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

func cloneRow(row Row) Row {
	if row == nil {
		return nil
	}
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue iç içe map/slice değerlerini derin kopyalar.
func cloneValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = cloneValue(item)
		}
		return out
	case Row:
		return cloneRow(t)
	case []string:
		return cloneSlice(t)
	case []byte:
		return cloneSlice(t)
	default:
		return v
	}
}
