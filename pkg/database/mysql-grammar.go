package database

// -----------------------------------------------------------------------------
// MySQL Grammar
// -----------------------------------------------------------------------------
// Identifier'lar backtick ile sarmalanır. MySQL FULL OUTER JOIN desteklemez;
// bu yüzden capability setinde yer almaz ve fullJoin isteği NotSupportedError
// ile reddedilir. OFFSET, LIMIT olmadan yazılamadığı için maksimum unsigned
// bigint limit olarak kullanılır.
// -----------------------------------------------------------------------------

type MySQLGrammar struct {
	sqlGrammar
}

func NewMySQLGrammar() *MySQLGrammar {
	return &MySQLGrammar{sqlGrammar{
		name:            "mysql",
		quote:           "`",
		joins:           []JoinType{InnerJoin, LeftJoin, RightJoin, CrossJoin},
		offsetOnlyLimit: "18446744073709551615",
	}}
}
