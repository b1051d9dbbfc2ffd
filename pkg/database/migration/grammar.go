// -----------------------------------------------------------------------------
// Schema Grammars
// -----------------------------------------------------------------------------
// Bu dosya, Blueprint'leri MySQL, PostgreSQL ve SQLite DDL'ine çeviren
// grammar'ları içerir. Lehçeler arasındaki farklar ddlGrammar alanlarıyla
// ifade edilir: quote karakteri, tip eşlemesi, auto-increment yazımı,
// index oluşturma biçimi ve catalog sorguları.
// -----------------------------------------------------------------------------

package migration

import (
	"fmt"
	"strings"
)

// Grammar defines SQL generation interface for different databases.
type Grammar interface {
	Name() string
	// CompileCreateTable CREATE TABLE ve gerekiyorsa ayrı CREATE INDEX
	// komutlarını döner.
	CompileCreateTable(bp *Blueprint) []string
	CompileDropTable(table string) string
	CompileAddColumn(table string, column *Column) string
	CompileDropColumn(table string, columnName string) string
	CompileAddIndex(table string, index Index) string
	CompileDropIndex(table string, indexName string) string
	// CompileAddForeign boş dönerse lehçe mevcut tabloya foreign key
	// eklemeyi desteklemiyordur.
	CompileAddForeign(table string, fk *ForeignKey) string
	// CompileTableExists tek parametre (tablo adı) alan COUNT sorgusudur.
	CompileTableExists() string
	// CompileListTables kullanıcı tablolarının adlarını döner.
	CompileListTables() string
}

type ddlGrammar struct {
	name          string
	quote         string
	types         map[ColumnType]string
	autoIncrement string
	tableSuffix   string
	dropSuffix    string
	inlineIndexes bool
	boolLiterals  [2]string
	tableExists   string
	listTables    string
	dropIndex     func(g *ddlGrammar, table, index string) string
	addForeign    bool
}

func (g *ddlGrammar) Name() string { return g.name }

func (g *ddlGrammar) wrap(name string) string {
	return g.quote + strings.ReplaceAll(name, g.quote, g.quote+g.quote) + g.quote
}

func (g *ddlGrammar) wrapAll(names []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = g.wrap(n)
	}
	return strings.Join(out, ", ")
}

// CompileCreateTable generates CREATE TABLE SQL.
func (g *ddlGrammar) CompileCreateTable(bp *Blueprint) []string {
	defs := make([]string, 0, len(bp.columns)+len(bp.indexes)+len(bp.foreign))
	for _, column := range bp.columns {
		defs = append(defs, g.compileColumn(column))
	}

	var after []string
	for _, index := range bp.indexes {
		if g.inlineIndexes {
			defs = append(defs, g.compileInlineIndex(index))
			continue
		}
		if index.Type == IndexTypeUnique {
			defs = append(defs, fmt.Sprintf("CONSTRAINT %s UNIQUE (%s)", g.wrap(index.Name), g.wrapAll(index.Columns)))
			continue
		}
		after = append(after, g.CompileAddIndex(bp.table, index))
	}
	for _, fk := range bp.foreign {
		defs = append(defs, g.compileForeign(fk))
	}

	create := fmt.Sprintf("CREATE TABLE %s (\n  %s\n)%s", g.wrap(bp.table), strings.Join(defs, ",\n  "), g.tableSuffix)
	return append([]string{create}, after...)
}

// CompileDropTable generates DROP TABLE SQL.
func (g *ddlGrammar) CompileDropTable(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s%s", g.wrap(table), g.dropSuffix)
}

// CompileAddColumn generates ALTER TABLE ADD COLUMN SQL.
func (g *ddlGrammar) CompileAddColumn(table string, column *Column) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", g.wrap(table), g.compileColumn(column))
}

// CompileDropColumn generates ALTER TABLE DROP COLUMN SQL.
func (g *ddlGrammar) CompileDropColumn(table string, columnName string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", g.wrap(table), g.wrap(columnName))
}

// CompileAddIndex generates CREATE INDEX SQL.
func (g *ddlGrammar) CompileAddIndex(table string, index Index) string {
	kind := "INDEX"
	if index.Type == IndexTypeUnique {
		kind = "UNIQUE INDEX"
	}
	return fmt.Sprintf("CREATE %s %s ON %s (%s)", kind, g.wrap(index.Name), g.wrap(table), g.wrapAll(index.Columns))
}

// CompileDropIndex generates DROP INDEX SQL.
func (g *ddlGrammar) CompileDropIndex(table string, indexName string) string {
	return g.dropIndex(g, table, indexName)
}

func (g *ddlGrammar) CompileAddForeign(table string, fk *ForeignKey) string {
	if !g.addForeign {
		return ""
	}
	return fmt.Sprintf("ALTER TABLE %s ADD %s", g.wrap(table), g.compileForeign(fk))
}

func (g *ddlGrammar) CompileTableExists() string { return g.tableExists }
func (g *ddlGrammar) CompileListTables() string  { return g.listTables }

// compileColumn compiles a single column definition.
func (g *ddlGrammar) compileColumn(column *Column) string {
	parts := []string{g.wrap(column.Name)}

	typ := g.types[column.Type]
	if column.Type == ColumnTypeString {
		length := column.Length
		if length <= 0 {
			length = 255
		}
		typ = fmt.Sprintf("%s(%d)", typ, length)
	}
	parts = append(parts, typ)

	if column.IsNullable && !column.IsPrimary {
		parts = append(parts, "NULL")
	} else {
		parts = append(parts, "NOT NULL")
	}

	if column.DefaultValue != nil {
		parts = append(parts, "DEFAULT "+g.literal(column.DefaultValue))
	}
	if column.IsPrimary {
		parts = append(parts, "PRIMARY KEY")
	}
	if column.AutoIncrement && g.autoIncrement != "" {
		parts = append(parts, g.autoIncrement)
	}
	if column.IsUnique {
		parts = append(parts, "UNIQUE")
	}
	return strings.Join(parts, " ")
}

func (g *ddlGrammar) literal(value any) string {
	switch v := value.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case bool:
		if v {
			return g.boolLiterals[1]
		}
		return g.boolLiterals[0]
	default:
		return fmt.Sprintf("%v", v)
	}
}

// compileInlineIndex compiles an index definition inside CREATE TABLE.
func (g *ddlGrammar) compileInlineIndex(index Index) string {
	if index.Type == IndexTypeUnique {
		return fmt.Sprintf("UNIQUE KEY %s (%s)", g.wrap(index.Name), g.wrapAll(index.Columns))
	}
	return fmt.Sprintf("INDEX %s (%s)", g.wrap(index.Name), g.wrapAll(index.Columns))
}

func (g *ddlGrammar) compileForeign(fk *ForeignKey) string {
	sql := fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)",
		g.wrap(fk.Column), g.wrap(fk.ReferencedTable), g.wrap(fk.ReferencedColumn))
	if fk.OnDeleteAction != "" {
		sql += " ON DELETE " + fk.OnDeleteAction
	}
	if fk.OnUpdateAction != "" {
		sql += " ON UPDATE " + fk.OnUpdateAction
	}
	return sql
}

// GrammarFor lehçe adına göre schema grammar'ı döner.
func GrammarFor(dialect string) (Grammar, error) {
	switch dialect {
	case "mysql":
		return NewMySQLGrammar(), nil
	case "postgres":
		return NewPostgresGrammar(), nil
	case "sqlite":
		return NewSQLiteGrammar(), nil
	}
	return nil, fmt.Errorf("no schema grammar for dialect %q", dialect)
}
