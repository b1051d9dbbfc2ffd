package database

// -----------------------------------------------------------------------------
// Grammar Interface
// -----------------------------------------------------------------------------
// Grammar, Expression'ı SQL lehçesine özgü sorgu metnine derler. Tüm compile
// metotları (sql, args, error) döner; identifier'lar whitelist regex'inden
// geçer, değerler her zaman placeholder ile bağlanır.
//
// Lehçeler arasındaki farklar sqlGrammar alanlarıyla ifade edilir:
// quote karakteri, placeholder formatı, OFFSET'in LIMIT'siz yazılışı ve
// native olarak desteklenen join tipleri.
// -----------------------------------------------------------------------------

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Grammar, SQL lehçesine özgü sorgu üretimini tanımlar.
//
// Farklı veritabanları için farklı implementasyonlar:
// - MySQLGrammar: MySQL/MariaDB için
// - PostgresGrammar: PostgreSQL için
// - SQLiteGrammar: SQLite için
type Grammar interface {
	// Name lehçe adıdır ("mysql", "postgres", "sqlite").
	Name() string

	// Wrap, identifier'ları (kolon/tablo adları) veritabanı lehçesine göre sarmalar.
	// MySQL: backtick (`table`), PostgreSQL/SQLite: çift tırnak ("table")
	Wrap(value string) (string, error)

	// Capabilities lehçenin native olarak desteklediği join tipleri ve
	// transaction desteğidir.
	Capabilities() Capabilities

	CompileSelect(expr *Expression) (string, []any, error)
	CompileInsert(expr *Expression) (string, []any, error)
	CompileUpdate(expr *Expression) (string, []any, error)
	CompileDelete(expr *Expression) (string, []any, error)
}

var validIdentifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// sqlGrammar, üç lehçenin paylaştığı derleyicidir.
type sqlGrammar struct {
	name  string
	quote string
	joins []JoinType
	// offsetOnlyLimit, LIMIT verilmeden OFFSET kullanıldığında yazılan limit.
	// Boşsa lehçe tek başına OFFSET'i kabul ediyordur.
	offsetOnlyLimit string
	// placeholders, "?" placeholder'larını lehçe formatına çevirir.
	placeholders func(sql string) (string, error)
}

func (g *sqlGrammar) Name() string { return g.name }

func (g *sqlGrammar) Capabilities() Capabilities {
	return NewCapabilities(true, g.joins...)
}

// Wrap, identifier'ı lehçenin quote karakteriyle sarmalar.
//
// Örnekler:
//   - "users"       → `users`
//   - "users.id"    → `users`.`id`
//   - "users.*"     → `users`.*
//   - "id; DROP --" → ValidationError
func (g *sqlGrammar) Wrap(value string) (string, error) {
	if value == "*" {
		return value, nil
	}

	parts := strings.Split(value, ".")
	if len(parts) > 2 {
		return "", NewValidationError(value, "invalid SQL identifier (too many dots)")
	}

	wrapped := make([]string, len(parts))
	for i, part := range parts {
		if part == "*" && i == len(parts)-1 && i > 0 {
			wrapped[i] = part
			continue
		}
		if !validIdentifierPattern.MatchString(part) {
			return "", NewValidationError(value, "invalid SQL identifier (contains unsafe characters)")
		}
		wrapped[i] = g.quote + part + g.quote
	}
	return strings.Join(wrapped, "."), nil
}

// WrapMultiple, birden fazla identifier'ı wrap eder.
func (g *sqlGrammar) WrapMultiple(values []string) ([]string, error) {
	wrapped := make([]string, len(values))
	for i, value := range values {
		w, err := g.Wrap(value)
		if err != nil {
			return nil, fmt.Errorf("failed to wrap '%s': %w", value, err)
		}
		wrapped[i] = w
	}
	return wrapped, nil
}

// CompileSelect, Expression'dan SELECT (veya aggregate) sorgusu üretir.
func (g *sqlGrammar) CompileSelect(expr *Expression) (string, []any, error) {
	if err := expr.Validate(); err != nil {
		return "", nil, err
	}

	table, err := g.Wrap(expr.Table)
	if err != nil {
		return "", nil, fmt.Errorf("table wrap error: %w", err)
	}

	qualify := len(expr.Joins) > 0

	var projection string
	if expr.Aggregate != nil {
		projection, err = g.compileAggregate(expr, qualify)
	} else {
		projection, err = g.compileColumns(expr)
	}
	if err != nil {
		return "", nil, err
	}

	sql := fmt.Sprintf("SELECT %s FROM %s", projection, table)

	joins, err := g.compileJoins(expr)
	if err != nil {
		return "", nil, err
	}
	sql += joins

	where, args, err := g.compileWheres(expr, qualify)
	if err != nil {
		return "", nil, err
	}
	sql += where

	// Aggregate sorgular sıralama ve sayfalama almaz.
	if expr.Aggregate == nil {
		orders, err := g.compileOrders(expr, qualify)
		if err != nil {
			return "", nil, err
		}
		sql += orders
		sql += g.compileLimit(expr)
	}

	return g.finish(sql, args)
}

// CompileInsert, çok satırlı INSERT sorgusu üretir. Kolonlar tüm dokümanların
// birleşimidir ve alfabetik sıralanır; eksik değerler NULL bağlanır.
func (g *sqlGrammar) CompileInsert(expr *Expression) (string, []any, error) {
	if err := expr.Validate(); err != nil {
		return "", nil, err
	}

	table, err := g.Wrap(expr.Table)
	if err != nil {
		return "", nil, fmt.Errorf("table wrap error: %w", err)
	}

	columns := columnUnion(expr.Documents)
	wrapped, err := g.WrapMultiple(columns)
	if err != nil {
		return "", nil, fmt.Errorf("column wrap error: %w", err)
	}

	marks := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
	values := make([]string, len(expr.Documents))
	args := make([]any, 0, len(columns)*len(expr.Documents))
	for i, doc := range expr.Documents {
		values[i] = marks
		for _, col := range columns {
			args = append(args, doc[col])
		}
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		table,
		strings.Join(wrapped, ", "),
		strings.Join(values, ", "),
	)
	return g.finish(sql, args)
}

// CompileUpdate, UPDATE sorgusu üretir. Join'ler, sıralama ve limit yok sayılır.
func (g *sqlGrammar) CompileUpdate(expr *Expression) (string, []any, error) {
	if err := expr.Validate(); err != nil {
		return "", nil, err
	}

	table, err := g.Wrap(expr.Table)
	if err != nil {
		return "", nil, fmt.Errorf("table wrap error: %w", err)
	}

	keys := sortedKeys(expr.Changes)
	sets := make([]string, len(keys))
	args := make([]any, 0, len(keys))
	for i, k := range keys {
		col, err := g.Wrap(k)
		if err != nil {
			return "", nil, fmt.Errorf("column wrap error: %w", err)
		}
		sets[i] = col + " = ?"
		args = append(args, expr.Changes[k])
	}

	sql := fmt.Sprintf("UPDATE %s SET %s", table, strings.Join(sets, ", "))

	where, whereArgs, err := g.compileWheres(expr, false)
	if err != nil {
		return "", nil, err
	}
	return g.finish(sql+where, append(args, whereArgs...))
}

// CompileDelete, DELETE sorgusu üretir.
func (g *sqlGrammar) CompileDelete(expr *Expression) (string, []any, error) {
	if err := expr.Validate(); err != nil {
		return "", nil, err
	}

	table, err := g.Wrap(expr.Table)
	if err != nil {
		return "", nil, fmt.Errorf("table wrap error: %w", err)
	}

	where, args, err := g.compileWheres(expr, false)
	if err != nil {
		return "", nil, err
	}
	return g.finish("DELETE FROM "+table+where, args)
}

func (g *sqlGrammar) finish(sql string, args []any) (string, []any, error) {
	if g.placeholders == nil {
		return sql, args, nil
	}
	converted, err := g.placeholders(sql)
	if err != nil {
		return "", nil, fmt.Errorf("placeholder conversion failed: %w", err)
	}
	return converted, args, nil
}

func (g *sqlGrammar) qualified(expr *Expression, column string, qualify bool) (string, error) {
	if qualify && !strings.Contains(column, ".") {
		column = expr.Table + "." + column
	}
	return g.Wrap(column)
}

func (g *sqlGrammar) compileColumns(expr *Expression) (string, error) {
	qualify := len(expr.Joins) > 0

	var cols []string
	if len(expr.Columns) == 0 {
		if qualify {
			cols = append(cols, g.quote+expr.Table+g.quote+".*")
		} else {
			cols = append(cols, "*")
		}
	}
	for _, c := range expr.Columns {
		col, err := g.qualified(expr, c.Name, qualify)
		if err != nil {
			return "", fmt.Errorf("column wrap error: %w", err)
		}
		if c.Alias != "" {
			alias, err := g.Wrap(c.Alias)
			if err != nil {
				return "", fmt.Errorf("alias wrap error: %w", err)
			}
			col += " AS " + alias
		}
		cols = append(cols, col)
	}

	for _, j := range expr.Joins {
		for _, c := range j.Columns {
			col, err := g.Wrap(j.Prefix + "." + c)
			if err != nil {
				return "", fmt.Errorf("join column wrap error: %w", err)
			}
			alias, err := g.Wrap(PrefixedColumn(j.Prefix, c))
			if err != nil {
				return "", fmt.Errorf("join alias wrap error: %w", err)
			}
			cols = append(cols, col+" AS "+alias)
		}
	}
	return strings.Join(cols, ", "), nil
}

func (g *sqlGrammar) compileAggregate(expr *Expression, qualify bool) (string, error) {
	agg := expr.Aggregate
	target := "*"
	if agg.Column != "" {
		col, err := g.qualified(expr, agg.Column, qualify)
		if err != nil {
			return "", fmt.Errorf("aggregate column wrap error: %w", err)
		}
		target = col
	}
	alias, _ := g.Wrap(AggregateAlias)
	return fmt.Sprintf("%s(%s) AS %s", strings.ToUpper(string(agg.Kind)), target, alias), nil
}

// compileJoins, join'leri ilişkili tabloyu önek adıyla alias'layarak derler:
//
//	LEFT JOIN "departments" AS "department" ON "employees"."deptId" = "department"."id"
func (g *sqlGrammar) compileJoins(expr *Expression) (string, error) {
	var sb strings.Builder
	for _, j := range expr.Joins {
		if !g.Capabilities().SupportsJoin(j.Type) {
			return "", &NotSupportedError{Adapter: g.name, Operation: strings.ToLower(string(j.Type)) + " join"}
		}

		table, err := g.Wrap(j.Table)
		if err != nil {
			return "", fmt.Errorf("join table wrap error: %w", err)
		}
		alias, err := g.Wrap(j.Prefix)
		if err != nil {
			return "", fmt.Errorf("join alias wrap error: %w", err)
		}

		if j.Type == CrossJoin {
			fmt.Fprintf(&sb, " CROSS JOIN %s AS %s", table, alias)
			continue
		}

		local, err := g.qualified(expr, j.LocalKey, true)
		if err != nil {
			return "", fmt.Errorf("join key wrap error: %w", err)
		}
		foreign, err := g.Wrap(j.Prefix + "." + j.ForeignKey)
		if err != nil {
			return "", fmt.Errorf("join key wrap error: %w", err)
		}

		keyword := string(j.Type) + " JOIN"
		if j.Type == FullJoin {
			keyword = "FULL OUTER JOIN"
		}
		fmt.Fprintf(&sb, " %s %s AS %s ON %s = %s", keyword, table, alias, local, foreign)
	}
	return sb.String(), nil
}

// compileWheres, clause'ları soldan sağa derler. Zincirde OR varsa önceki
// kısım parantezlenir; böylece SQL öncelik kuralları sırayı değiştiremez:
//
//	a OR b AND c → (a OR b) AND c
func (g *sqlGrammar) compileWheres(expr *Expression, qualify bool) (string, []any, error) {
	if len(expr.Wheres) == 0 {
		return "", nil, nil
	}

	mixed := false
	for i, w := range expr.Wheres {
		if i > 0 && w.Boolean == BooleanOr {
			mixed = true
			break
		}
	}

	var (
		sql  string
		args []any
	)
	for i, w := range expr.Wheres {
		part, partArgs, err := g.compileClause(expr, w, qualify)
		if err != nil {
			return "", nil, err
		}
		args = append(args, partArgs...)

		switch {
		case i == 0:
			sql = part
		case mixed && i > 1:
			sql = fmt.Sprintf("(%s) %s %s", sql, w.Boolean, part)
		default:
			sql = fmt.Sprintf("%s %s %s", sql, w.Boolean, part)
		}
	}
	return " WHERE " + sql, args, nil
}

func (g *sqlGrammar) compileClause(expr *Expression, w WhereClause, qualify bool) (string, []any, error) {
	col, err := g.qualified(expr, w.Column, qualify)
	if err != nil {
		return "", nil, fmt.Errorf("where column wrap error: %w", err)
	}

	switch w.Operator {
	case OpIsNull, OpIsNotNull:
		return col + " " + w.Operator.SQL(), nil, nil

	case OpIn, OpNotIn:
		values := w.Value.([]any)
		if len(values) == 0 {
			// Boş liste: IN hiçbir satırla, NOT IN her satırla eşleşir.
			if w.Operator == OpIn {
				return "1 = 0", nil, nil
			}
			return "1 = 1", nil, nil
		}
		marks := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
		return fmt.Sprintf("%s %s (%s)", col, w.Operator.SQL(), marks), values, nil

	case OpBetween, OpNotBetween:
		values := w.Value.([]any)
		return fmt.Sprintf("%s %s ? AND ?", col, w.Operator.SQL()), values, nil

	default:
		return fmt.Sprintf("%s %s ?", col, w.Operator.SQL()), []any{w.Value}, nil
	}
}

func (g *sqlGrammar) compileOrders(expr *Expression, qualify bool) (string, error) {
	if len(expr.Orders) == 0 {
		return "", nil
	}
	orders := make([]string, len(expr.Orders))
	for i, o := range expr.Orders {
		col, err := g.qualified(expr, o.Column, qualify)
		if err != nil {
			return "", fmt.Errorf("order column wrap error: %w", err)
		}
		orders[i] = col + " " + string(o.Direction)
	}
	return " ORDER BY " + strings.Join(orders, ", "), nil
}

func (g *sqlGrammar) compileLimit(expr *Expression) string {
	var sql string
	if expr.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", expr.Limit)
	} else if expr.Offset > 0 && g.offsetOnlyLimit != "" {
		sql += " LIMIT " + g.offsetOnlyLimit
	}
	if expr.Offset > 0 {
		sql += fmt.Sprintf(" OFFSET %d", expr.Offset)
	}
	return sql
}

// columnUnion, dokümanların tüm anahtarlarını sıralı olarak döner.
func columnUnion(docs []Row) []string {
	seen := make(map[string]struct{})
	for _, doc := range docs {
		for k := range doc {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedKeys(row Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
