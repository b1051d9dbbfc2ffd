package migration

// PostgresGrammar implements Grammar interface for PostgreSQL.
type PostgresGrammar struct {
	ddlGrammar
}

// NewPostgresGrammar creates a new PostgresGrammar instance.
func NewPostgresGrammar() *PostgresGrammar {
	return &PostgresGrammar{ddlGrammar{
		name:  "postgres",
		quote: `"`,
		types: map[ColumnType]string{
			ColumnTypeIncrements: "BIGSERIAL",
			ColumnTypeUUID:       "VARCHAR(36)",
			ColumnTypeString:     "VARCHAR",
			ColumnTypeText:       "TEXT",
			ColumnTypeInteger:    "INTEGER",
			ColumnTypeBigInt:     "BIGINT",
			ColumnTypeDouble:     "DOUBLE PRECISION",
			ColumnTypeBoolean:    "BOOLEAN",
			ColumnTypeJSON:       "JSONB",
			ColumnTypeTimestamp:  "TIMESTAMPTZ",
			ColumnTypeDate:       "DATE",
		},
		dropSuffix:   " CASCADE",
		boolLiterals: [2]string{"FALSE", "TRUE"},
		tableExists:  "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1",
		listTables:   "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'",
		dropIndex: func(g *ddlGrammar, _ string, index string) string {
			return "DROP INDEX IF EXISTS " + g.wrap(index)
		},
		addForeign: true,
	}}
}
