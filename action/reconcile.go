package action

import "dbstash/store"

// Reconcile removes from every row the fields the destination table does not
// have. The effective field set is taken from the first row's keys; the diff
// is one-directional, so columns the destination has but the rows lack are
// not detected here and surface later as insert errors. Returns the cleaned
// rows, the ordered field list for the insert (the reconciled first row's
// keys), and the dropped field names.
func Reconcile(rows store.RowSet, columns []string) (store.RowSet, []string, []string) {
	if len(rows) == 0 {
		return rows, nil, nil
	}

	have := make(map[string]bool, len(columns))
	for _, c := range columns {
		have[c] = true
	}

	var dropped []string
	for _, key := range rows[0].Keys() {
		if !have[key] {
			dropped = append(dropped, key)
		}
	}
	for _, name := range dropped {
		for i := range rows {
			rows[i].Delete(name)
		}
	}

	return rows, rows[0].Keys(), dropped
}
