// -----------------------------------------------------------------------------
// MySQL Grammar for Migration System
// -----------------------------------------------------------------------------
// Bu dosya, MySQL database için DDL sorguları oluşturur.
// -----------------------------------------------------------------------------

package migration

import "fmt"

// MySQLGrammar implements Grammar interface for MySQL.
type MySQLGrammar struct {
	ddlGrammar
}

// NewMySQLGrammar creates a new MySQLGrammar instance.
func NewMySQLGrammar() *MySQLGrammar {
	return &MySQLGrammar{ddlGrammar{
		name:  "mysql",
		quote: "`",
		types: map[ColumnType]string{
			ColumnTypeIncrements: "BIGINT UNSIGNED",
			ColumnTypeUUID:       "CHAR(36)",
			ColumnTypeString:     "VARCHAR",
			ColumnTypeText:       "TEXT",
			ColumnTypeInteger:    "INT",
			ColumnTypeBigInt:     "BIGINT",
			ColumnTypeDouble:     "DOUBLE",
			ColumnTypeBoolean:    "TINYINT(1)",
			ColumnTypeJSON:       "JSON",
			ColumnTypeTimestamp:  "TIMESTAMP",
			ColumnTypeDate:       "DATE",
		},
		autoIncrement: "AUTO_INCREMENT",
		tableSuffix:   " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci",
		inlineIndexes: true,
		boolLiterals:  [2]string{"0", "1"},
		tableExists:   "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?",
		listTables:    "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'",
		dropIndex: func(g *ddlGrammar, table, index string) string {
			return fmt.Sprintf("ALTER TABLE %s DROP INDEX %s", g.wrap(table), g.wrap(index))
		},
		addForeign: true,
	}}
}
