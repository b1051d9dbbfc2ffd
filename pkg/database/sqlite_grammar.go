package database

// SQLiteGrammar, SQLite lehçesidir. RIGHT ve FULL OUTER JOIN 3.39'dan beri
// desteklenir.
type SQLiteGrammar struct {
	sqlGrammar
}

func NewSQLiteGrammar() *SQLiteGrammar {
	return &SQLiteGrammar{sqlGrammar{
		name:            "sqlite",
		quote:           `"`,
		joins:           []JoinType{InnerJoin, LeftJoin, RightJoin, FullJoin, CrossJoin},
		offsetOnlyLimit: "-1",
	}}
}
