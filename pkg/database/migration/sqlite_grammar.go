package migration

// SQLiteGrammar implements Grammar interface for SQLite. Mevcut tabloya
// foreign key eklenemez; AlterTable bu durumda ErrNotImplemented döner.
type SQLiteGrammar struct {
	ddlGrammar
}

// NewSQLiteGrammar creates a new SQLiteGrammar instance.
func NewSQLiteGrammar() *SQLiteGrammar {
	return &SQLiteGrammar{ddlGrammar{
		name:  "sqlite",
		quote: `"`,
		types: map[ColumnType]string{
			ColumnTypeIncrements: "INTEGER",
			ColumnTypeUUID:       "VARCHAR(36)",
			ColumnTypeString:     "VARCHAR",
			ColumnTypeText:       "TEXT",
			ColumnTypeInteger:    "INTEGER",
			ColumnTypeBigInt:     "INTEGER",
			ColumnTypeDouble:     "REAL",
			ColumnTypeBoolean:    "BOOLEAN",
			ColumnTypeJSON:       "TEXT",
			ColumnTypeTimestamp:  "DATETIME",
			ColumnTypeDate:       "DATE",
		},
		autoIncrement: "AUTOINCREMENT",
		boolLiterals:  [2]string{"0", "1"},
		tableExists:   "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?",
		listTables:    "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'",
		dropIndex: func(g *ddlGrammar, _ string, index string) string {
			return "DROP INDEX IF EXISTS " + g.wrap(index)
		},
	}}
}
