package database

import (
	"database/sql"
)

// -----------------------------------------------------------------------------
// RESULT HELPERS
// -----------------------------------------------------------------------------
// SQL'den dönen satırları Row (map[string]any) biçimine dönüştürür.
// Sürücülerin TEXT kolonlar için döndürdüğü []byte değerleri string'e
// çevrilir; JSON kolonlar cast katmanında decode edilir.
// -----------------------------------------------------------------------------

// rowsToMaps: sql.Rows'ı []Row biçimine dönüştürür ve rows'ı kapatır.
func rowsToMaps(rows *sql.Rows) ([]Row, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := make([]Row, 0)

	for rows.Next() {
		columns := make([]any, len(cols))
		columnPointers := make([]any, len(cols))
		for i := range columns {
			columnPointers[i] = &columns[i]
		}

		if err := rows.Scan(columnPointers...); err != nil {
			return nil, err
		}

		m := make(Row, len(cols))
		for i, colName := range cols {
			val := columns[i]
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			m[colName] = val
		}

		res = append(res, m)
	}

	return res, rows.Err()
}
