package core

// Row is a single CSV record keyed by column name. Columns the source did not
// provide are absent from the map.
type Row map[string]string

// Get returns the value of column col and whether the row carries it.
func (r Row) Get(col string) (string, bool) {
	v, ok := r[col]
	return v, ok
}

// Table is an ordered sequence of rows sharing a column list.
type Table struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Empty reports whether the table holds no rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// HasColumn reports whether col is part of the table's column list.
func (t Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// WithColumn returns a copy of t where every row has col set to value.
func (t Table) WithColumn(col, value string) Table {
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	if !t.HasColumn(col) {
		out.Columns = append(out.Columns, col)
	}
	for i, r := range t.Rows {
		nr := make(Row, len(r)+1)
		for k, v := range r {
			nr[k] = v
		}
		nr[col] = value
		out.Rows[i] = nr
	}
	return out
}

// Concat stacks tables in order. The resulting columns are the union of the
// inputs in first-seen order; rows keep only the cells they had.
func Concat(tables ...Table) Table {
	var out Table
	seen := map[string]struct{}{}
	for _, t := range tables {
		for _, c := range t.Columns {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out.Columns = append(out.Columns, c)
		}
		out.Rows = append(out.Rows, t.Rows...)
	}
	return out
}
