// -----------------------------------------------------------------------------
// Result Formatter
// -----------------------------------------------------------------------------
// Join'li sorgularda adapter düz satırlar döner:
//
//	{"id": 1, "name": "Alice", "department_id": 7, "department_deptName": "HR"}
//
// Formatter bu satırları önek bazında gruplayıp iç içe satıra çevirir:
//
//	{"id": 1, "name": "Alice", "department": {"id": 7, "deptName": "HR"}}
//
// İlişkili kolonların tamamı null ise (eşleşme yok) relation değeri nil olur.
// JSON kolonlar opak bırakılır; cast işlemi Model kurulurken yapılır.
// -----------------------------------------------------------------------------

package database

import (
	"sort"
	"strings"
)

// ResultFormatter, önekli kolonları iç içe satırlara gruplar.
type ResultFormatter struct {
	prefixes []string
}

// NewResultFormatter, Expression'ın join önekleri için formatter üretir.
func NewResultFormatter(joins []JoinClause) *ResultFormatter {
	prefixes := make([]string, 0, len(joins))
	for _, j := range joins {
		prefixes = append(prefixes, j.Prefix)
	}
	// Uzun önek önce: "dept" ve "dept_head" birlikte olduğunda
	// "dept_head_name" doğru gruba düşer.
	sort.SliceStable(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })
	return &ResultFormatter{prefixes: prefixes}
}

// Format her satırı gruplar. Join yoksa satırlar olduğu gibi döner.
func (f *ResultFormatter) Format(rows []Row) []Row {
	if len(f.prefixes) == 0 {
		return rows
	}
	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = f.formatRow(row)
	}
	return out
}

func (f *ResultFormatter) formatRow(row Row) Row {
	base := make(Row, len(row))
	nested := make(map[string]Row, len(f.prefixes))

	for key, value := range row {
		prefix, column, ok := f.match(key)
		if !ok {
			base[key] = value
			continue
		}
		if nested[prefix] == nil {
			nested[prefix] = Row{}
		}
		nested[prefix][column] = value
	}

	for _, prefix := range f.prefixes {
		related := nested[prefix]
		if allNil(related) {
			base[prefix] = nil
			continue
		}
		base[prefix] = related
	}
	return base
}

func (f *ResultFormatter) match(key string) (prefix, column string, ok bool) {
	for _, p := range f.prefixes {
		if strings.HasPrefix(key, p+PrefixSeparator) && len(key) > len(p)+len(PrefixSeparator) {
			return p, key[len(p)+len(PrefixSeparator):], true
		}
	}
	return "", "", false
}

func allNil(row Row) bool {
	for _, v := range row {
		if v != nil {
			return false
		}
	}
	return true
}
