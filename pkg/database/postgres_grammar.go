package database

import sq "github.com/Masterminds/squirrel"

// PostgresGrammar, PostgreSQL lehçesidir. Sorgular "?" ile derlenir ve
// squirrel'in Dollar formatı ile $1, $2, ... placeholder'larına çevrilir.
type PostgresGrammar struct {
	sqlGrammar
}

func NewPostgresGrammar() *PostgresGrammar {
	return &PostgresGrammar{sqlGrammar{
		name:         "postgres",
		quote:        `"`,
		joins:        []JoinType{InnerJoin, LeftJoin, RightJoin, FullJoin, CrossJoin},
		placeholders: sq.Dollar.ReplacePlaceholders,
	}}
}
