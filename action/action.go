// Package action drives the per-table backup and restore sequences and
// reconciles loaded rows against the live destination schema.
package action

import (
	"io"
	"strconv"
	"strings"

	db "dbstash/database"
	"dbstash/store"

	"github.com/olekukonko/tablewriter"
)

// Database is the connection surface the orchestrators need. *db.Conn
// satisfies it.
type Database interface {
	TableExists(table string) (bool, error)
	Columns(table string) ([]string, error)
	SelectAll(table string) (store.RowSet, error)
	InsertBatch(table string, fields []string, rows store.RowSet) (db.BatchResult, error)
}

// Processor is the one-per-run action selected at startup: either Backup or
// Restore. A returned error is fatal to the whole run; per-table problems
// are recorded in the report instead.
type Processor interface {
	Process(tables []string, conn Database) (Report, error)
}

type Outcome string

const (
	OutcomeDone    Outcome = "done"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// TableResult is one table's outcome. Rows counts rows written on backup or
// inserted on restore; Failed counts rows rejected by the destination.
type TableResult struct {
	Table   string
	Outcome Outcome
	Rows    int
	Failed  int
	Dropped []string
	Reason  string
}

// Report collects per-table results in run order.
type Report struct {
	Results []TableResult
}

func (r *Report) add(res TableResult) {
	r.Results = append(r.Results, res)
}

// Failures counts tables that did not complete.
func (r Report) Failures() int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed {
			n++
		}
	}
	return n
}

// Render writes the per-table summary.
func (r Report) Render(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Table", "Outcome", "Rows", "Failed", "Detail"})
	table.SetBorder(false)
	table.SetColumnSeparator(" ")

	for _, res := range r.Results {
		detail := res.Reason
		if len(res.Dropped) > 0 {
			if detail != "" {
				detail += "; "
			}
			detail += "dropped " + strings.Join(res.Dropped, ", ")
		}
		table.Append([]string{
			res.Table,
			string(res.Outcome),
			strconv.Itoa(res.Rows),
			strconv.Itoa(res.Failed),
			detail,
		})
	}
	table.Render()
}
