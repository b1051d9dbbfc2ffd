package database

// -----------------------------------------------------------------------------
// JOIN OPERATIONS
// -----------------------------------------------------------------------------
// İlişkili tablonun kolonları sonuç satırında Prefix + "_" + kolon adıyla
// döner; ResultFormatter bu önekleri gruplayıp iç içe satır üretir.
// -----------------------------------------------------------------------------

import "strings"

// PrefixSeparator, join önekini kolon adından ayırır.
const PrefixSeparator = "_"

// PrefixedColumn, join edilmiş bir kolonun sonuç satırındaki adını üretir.
func PrefixedColumn(prefix, column string) string {
	return prefix + PrefixSeparator + column
}

// Valid join tipinin bilinen tiplerden biri olup olmadığını söyler.
func (t JoinType) Valid() bool {
	switch t {
	case InnerJoin, LeftJoin, RightJoin, FullJoin, CrossJoin:
		return true
	}
	return false
}

// validateJoin, join clause'un derlenebilir olduğunu kontrol eder.
func validateJoin(join JoinClause) error {
	if !join.Type.Valid() {
		return NewValidationError("join", "unknown join type %q", join.Type)
	}
	if strings.TrimSpace(join.Table) == "" {
		return NewValidationError("join", "join requires a related table")
	}
	if strings.TrimSpace(join.Prefix) == "" {
		return NewValidationError(join.Table, "join requires a result prefix")
	}
	if join.Type != CrossJoin && (join.LocalKey == "" || join.ForeignKey == "") {
		return NewValidationError(join.Table, "%s join requires local and foreign keys", strings.ToLower(string(join.Type)))
	}
	return nil
}
