package migration

import (
	"fmt"
	"strings"
)

// -----------------------------------------------------------------------------
// Blueprint - Table Schema Builder
// -----------------------------------------------------------------------------
// Blueprint bir tablonun kolon, index ve foreign key tanımlarını biriktirir.
// Kolon tipleri mantıksaldır; her lehçe grammar'ı kendi SQL tipine çevirir.
//
//	schema.CreateTable(ctx, "employees", func(t *migration.Blueprint) {
//	    t.UUID("id").Primary()
//	    t.String("name", 255)
//	    t.String("deptId", 36).Nullable()
//	    t.Timestamps()
//	})
// -----------------------------------------------------------------------------

// Blueprint defines the structure of a table.
type Blueprint struct {
	table   string
	columns []*Column
	indexes []Index
	foreign []*ForeignKey
	drops   []string
}

// NewBlueprint creates a new Blueprint instance.
func NewBlueprint(tableName string) *Blueprint {
	return &Blueprint{table: tableName}
}

// Table blueprint'in tablo adıdır.
func (b *Blueprint) Table() string { return b.table }

// Columns tanımlanan kolonlardır.
func (b *Blueprint) Columns() []*Column { return b.columns }

// Indexes tanımlanan index'lerdir.
func (b *Blueprint) Indexes() []Index { return b.indexes }

// ForeignKeys tanımlanan foreign key'lerdir.
func (b *Blueprint) ForeignKeys() []*ForeignKey { return b.foreign }

// Increments adds an auto-incrementing primary key column.
func (b *Blueprint) Increments(name string) *Column {
	return b.addColumn(&Column{Name: name, Type: ColumnTypeIncrements, AutoIncrement: true, IsPrimary: true})
}

// ID, "id" adında auto-increment primary key ekler.
func (b *Blueprint) ID() *Column {
	return b.Increments("id")
}

// UUID adds a 36 character string column for v4 UUID keys.
func (b *Blueprint) UUID(name string) *Column {
	return b.addColumn(&Column{Name: name, Type: ColumnTypeUUID})
}

// String adds a VARCHAR column.
func (b *Blueprint) String(name string, length int) *Column {
	return b.addColumn(&Column{Name: name, Type: ColumnTypeString, Length: length})
}

// Text adds a TEXT column.
func (b *Blueprint) Text(name string) *Column {
	return b.addColumn(&Column{Name: name, Type: ColumnTypeText})
}

// Integer adds an INT column.
func (b *Blueprint) Integer(name string) *Column {
	return b.addColumn(&Column{Name: name, Type: ColumnTypeInteger})
}

// BigInteger adds a BIGINT column.
func (b *Blueprint) BigInteger(name string) *Column {
	return b.addColumn(&Column{Name: name, Type: ColumnTypeBigInt})
}

// Double adds a double precision column.
func (b *Blueprint) Double(name string) *Column {
	return b.addColumn(&Column{Name: name, Type: ColumnTypeDouble})
}

// Boolean adds a boolean column.
func (b *Blueprint) Boolean(name string) *Column {
	return b.addColumn(&Column{Name: name, Type: ColumnTypeBoolean})
}

// JSON, object/array cast'li attribute'lar için JSON kolonu ekler.
func (b *Blueprint) JSON(name string) *Column {
	return b.addColumn(&Column{Name: name, Type: ColumnTypeJSON})
}

// Timestamp adds a TIMESTAMP column.
func (b *Blueprint) Timestamp(name string) *Column {
	return b.addColumn(&Column{Name: name, Type: ColumnTypeTimestamp})
}

// Date adds a DATE column.
func (b *Blueprint) Date(name string) *Column {
	return b.addColumn(&Column{Name: name, Type: ColumnTypeDate})
}

// Timestamps adds nullable createdAt and updatedAt columns.
func (b *Blueprint) Timestamps() {
	b.Timestamp("createdAt").Nullable()
	b.Timestamp("updatedAt").Nullable()
}

// DropColumn, AlterTable içinde kolon siler.
func (b *Blueprint) DropColumn(name string) {
	b.drops = append(b.drops, name)
}

func (b *Blueprint) addColumn(column *Column) *Column {
	b.columns = append(b.columns, column)
	return column
}

// Unique adds a unique index.
func (b *Blueprint) Unique(columns ...string) {
	b.indexes = append(b.indexes, Index{
		Name:    fmt.Sprintf("%s_%s_unique", b.table, strings.Join(columns, "_")),
		Columns: columns,
		Type:    IndexTypeUnique,
	})
}

// Index adds a regular index.
func (b *Blueprint) Index(columns ...string) {
	b.indexes = append(b.indexes, Index{
		Name:    fmt.Sprintf("%s_%s_index", b.table, strings.Join(columns, "_")),
		Columns: columns,
		Type:    IndexTypeIndex,
	})
}

// Foreign adds a foreign key constraint.
//
//	t.Foreign("deptId").References("id").On("departments").OnDelete("SET NULL")
func (b *Blueprint) Foreign(column string) *ForeignKey {
	fk := &ForeignKey{Column: column}
	b.foreign = append(b.foreign, fk)
	return fk
}

// -----------------------------------------------------------------------------
// Column Definition
// -----------------------------------------------------------------------------

// ColumnType, lehçeden bağımsız kolon tipidir.
type ColumnType string

const (
	ColumnTypeIncrements ColumnType = "increments"
	ColumnTypeUUID       ColumnType = "uuid"
	ColumnTypeString     ColumnType = "string"
	ColumnTypeText       ColumnType = "text"
	ColumnTypeInteger    ColumnType = "integer"
	ColumnTypeBigInt     ColumnType = "bigint"
	ColumnTypeDouble     ColumnType = "double"
	ColumnTypeBoolean    ColumnType = "boolean"
	ColumnTypeJSON       ColumnType = "json"
	ColumnTypeTimestamp  ColumnType = "timestamp"
	ColumnTypeDate       ColumnType = "date"
)

// Column represents a table column.
type Column struct {
	Name          string
	Type          ColumnType
	Length        int
	IsNullable    bool
	DefaultValue  any
	AutoIncrement bool
	IsPrimary     bool
	IsUnique      bool
}

// Nullable marks the column as nullable.
func (c *Column) Nullable() *Column {
	c.IsNullable = true
	return c
}

// Default sets a default value.
func (c *Column) Default(value any) *Column {
	c.DefaultValue = value
	return c
}

// Primary marks the column as the primary key.
func (c *Column) Primary() *Column {
	c.IsPrimary = true
	return c
}

// Unique adds a unique constraint.
func (c *Column) Unique() *Column {
	c.IsUnique = true
	return c
}

// -----------------------------------------------------------------------------
// Index Definition
// -----------------------------------------------------------------------------

// IndexType represents the type of index.
type IndexType string

const (
	IndexTypeIndex  IndexType = "INDEX"
	IndexTypeUnique IndexType = "UNIQUE"
)

// Index represents a table index.
type Index struct {
	Name    string
	Columns []string
	Type    IndexType
}

// ForeignKey represents a foreign key constraint.
type ForeignKey struct {
	Column           string
	ReferencedTable  string
	ReferencedColumn string
	OnDeleteAction   string
	OnUpdateAction   string
}

// References sets the referenced column.
func (fk *ForeignKey) References(column string) *ForeignKey {
	fk.ReferencedColumn = column
	return fk
}

// On sets the referenced table.
func (fk *ForeignKey) On(table string) *ForeignKey {
	fk.ReferencedTable = table
	return fk
}

// OnDelete sets the ON DELETE action.
func (fk *ForeignKey) OnDelete(action string) *ForeignKey {
	fk.OnDeleteAction = action
	return fk
}

// OnUpdate sets the ON UPDATE action.
func (fk *ForeignKey) OnUpdate(action string) *ForeignKey {
	fk.OnUpdateAction = action
	return fk
}

// Cascade sets both ON DELETE and ON UPDATE to CASCADE.
func (fk *ForeignKey) Cascade() *ForeignKey {
	fk.OnDeleteAction = "CASCADE"
	fk.OnUpdateAction = "CASCADE"
	return fk
}
