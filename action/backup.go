package action

import (
	"log/slog"

	"dbstash/store"
)

// Backup reads every configured table from the source connection and writes
// one artifact per table. The source is assumed well-known: a table that
// cannot be read is reported as a failure, never silently skipped.
type Backup struct {
	store *store.Store
	log   *slog.Logger
}

func NewBackup(st *store.Store, log *slog.Logger) *Backup {
	if log == nil {
		log = slog.Default()
	}
	return &Backup{store: st, log: log}
}

func (b *Backup) Process(tables []string, conn Database) (Report, error) {
	var report Report
	for _, table := range tables {
		res := TableResult{Table: table}
		log := b.log.With("table", table)
		log.Info("saving table")

		rows, err := conn.SelectAll(table)
		if err != nil {
			log.Error("reading table", "error", err)
			res.Outcome = OutcomeFailed
			res.Reason = err.Error()
			report.add(res)
			continue
		}
		if err := b.store.Write(table, rows); err != nil {
			log.Error("writing artifact", "error", err)
			res.Outcome = OutcomeFailed
			res.Reason = err.Error()
			report.add(res)
			continue
		}

		res.Outcome = OutcomeDone
		res.Rows = len(rows)
		report.add(res)
	}
	return report, nil
}
