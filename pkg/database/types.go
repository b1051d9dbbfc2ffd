// -----------------------------------------------------------------------------
// Database Types - Expression İçin Yardımcı Tipler
// -----------------------------------------------------------------------------
// Bu dosya, Expression'ın taşıdığı clause tiplerini içerir. Order yönü, join
// tipi, aggregate tipi ve statement tipi enum-like string tipleri olarak
// tanımlanır; böylece kullanıcı input'u direkt native sorguya enjekte edilemez.
// -----------------------------------------------------------------------------

package database

// Row, adapter'ın döndürdüğü ham satırdır (kolon adı → değer).
type Row map[string]any

// OrderDirection, ORDER BY için izin verilen yönleri temsil eder.
type OrderDirection string

const (
	OrderAsc  OrderDirection = "ASC"
	OrderDesc OrderDirection = "DESC"
)

// OrderClause, bir ORDER BY ifadesini temsil eder.
//
// Örnek Kullanım:
//
//	OrderClause{Column: "created_at", Direction: OrderDesc}
//	→ SQL: ORDER BY `created_at` DESC
type OrderClause struct {
	Column    string
	Direction OrderDirection
}

// Boolean, bir where clause'un bir öncekine nasıl bağlandığını belirtir.
type Boolean string

const (
	BooleanAnd Boolean = "AND"
	BooleanOr  Boolean = "OR"
)

// WhereClause, bir WHERE koşulunu temsil eder. Value her zaman parametre
// olarak bağlanır, hiçbir zaman sorgu metnine yazılmaz.
//
// Alanlar:
//   - Column: Koşul uygulanacak kolon adı
//   - Operator: Kapalı operatör kümesinden biri (bkz. where.go)
//   - Value: Karşılaştırılacak değer; in/not in için liste, between için [alt, üst]
//   - Boolean: Önceki koşulla bağlantı tipi (AND veya OR)
type WhereClause struct {
	Column   string
	Operator Operator
	Value    any
	Boolean  Boolean
}

// Column, projeksiyondaki bir kolondur. Alias boşsa kolon adı kullanılır.
type Column struct {
	Name  string
	Alias string
}

// JoinType, JOIN tiplerini temsil eden enum-like yapıdır.
type JoinType string

const (
	InnerJoin JoinType = "INNER"
	LeftJoin  JoinType = "LEFT"
	RightJoin JoinType = "RIGHT"
	FullJoin  JoinType = "FULL"
	CrossJoin JoinType = "CROSS"
)

// JoinClause, ilişkili bir tabloya yapılan join'i temsil eder.
//
// Alanlar:
//   - Type: JOIN tipi
//   - Table: Join yapılacak tablo/collection
//   - Columns: İlişkili modelin alanları; her biri Prefix + "_" + kolon olarak döner
//   - LocalKey: Ana tablodaki kolon
//   - ForeignKey: İlişkili tablodaki kolon
//   - Prefix: Sonuç satırlarında ilişkili kolonların öneki (relation adı)
type JoinClause struct {
	Type       JoinType
	Table      string
	Columns    []string
	LocalKey   string
	ForeignKey string
	Prefix     string
}

// AggregateKind, desteklenen aggregate fonksiyonlarıdır.
type AggregateKind string

const (
	AggregateCount AggregateKind = "count"
	AggregateSum   AggregateKind = "sum"
	AggregateAvg   AggregateKind = "avg"
	AggregateMin   AggregateKind = "min"
	AggregateMax   AggregateKind = "max"
)

// Aggregate, bir aggregate sorgusunu tanımlar. Column boşsa ve Kind count ise
// satır sayısı, doluysa null olmayan değer sayısı hesaplanır.
type Aggregate struct {
	Kind   AggregateKind
	Column string
}

// AggregateAlias, aggregate sonucunun satırdaki anahtarıdır.
const AggregateAlias = "aggregate"

// StatementKind, Expression'ın hangi native operasyona derleneceğini belirler.
type StatementKind string

const (
	StatementSelect StatementKind = "select"
	StatementInsert StatementKind = "insert"
	StatementUpdate StatementKind = "update"
	StatementDelete StatementKind = "delete"
)
