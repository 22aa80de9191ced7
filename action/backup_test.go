package action

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"dbstash/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	st := store.New(dir)

	conn := &fakeDB{rows: map[string]store.RowSet{
		"users": {
			store.NewRow(
				store.Field{Name: "id", Value: json.Number("1")},
				store.Field{Name: "name", Value: "Ann"},
			),
		},
	}}
	b := NewBackup(st, quietLogger())

	report, err := b.Process([]string{"users"}, conn)
	require.NoError(t, err)

	res := report.Results[0]
	assert.Equal(t, OutcomeDone, res.Outcome)
	assert.Equal(t, 1, res.Rows)

	got, err := st.Read("users")
	require.NoError(t, err)
	require.Len(t, got, 1)
	name, _ := got[0].Get("name")
	assert.Equal(t, "Ann", name)
}

func TestBackupEmptyTableWritesEmptyArray(t *testing.T) {
	dir := t.TempDir()
	st := store.New(dir)

	conn := &fakeDB{rows: map[string]store.RowSet{"t": {}}}
	b := NewBackup(st, quietLogger())

	_, err := b.Process([]string{"t"}, conn)
	require.NoError(t, err)

	data, err := os.ReadFile(st.Path("t"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	// A later restore of that artifact skips with an empty field list.
	destConn := &fakeDB{tables: map[string][]string{"t": {"id"}}}
	r := NewRestore(st, quietLogger())
	report, err := r.Process([]string{"t"}, destConn)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, report.Results[0].Outcome)
	assert.Empty(t, destConn.batches)
}

func TestBackupReportsUnreadableTable(t *testing.T) {
	st := store.New(t.TempDir())
	conn := &fakeDB{
		rows:      map[string]store.RowSet{"ok": {}},
		selectErr: errors.New("table vanished"),
	}
	b := NewBackup(st, quietLogger())

	report, err := b.Process([]string{"gone", "ok"}, conn)
	require.NoError(t, err)

	// Reported, not skipped silently; the run continues.
	require.Len(t, report.Results, 2)
	assert.Equal(t, OutcomeFailed, report.Results[0].Outcome)
	assert.Contains(t, report.Results[0].Reason, "table vanished")
	assert.Equal(t, 1, report.Failures())
}

func TestReportRender(t *testing.T) {
	report := Report{Results: []TableResult{
		{Table: "users", Outcome: OutcomeDone, Rows: 2, Dropped: []string{"extra"}},
		{Table: "logs", Outcome: OutcomeSkipped, Reason: "no artifact"},
	}}

	var buf bytes.Buffer
	report.Render(&buf)
	out := buf.String()
	assert.Contains(t, out, "users")
	assert.Contains(t, out, "dropped extra")
	assert.Contains(t, out, "no artifact")
}
