package action

import (
	"errors"
	"log/slog"

	db "dbstash/database"
	"dbstash/store"
)

// Restore loads each configured table's artifact, reconciles its fields
// against the live destination schema and inserts row by row. Missing
// artifacts and missing destination tables are skips; a load failure stops
// that table only; an unclassified insert failure ends the run.
type Restore struct {
	store *store.Store
	log   *slog.Logger
}

func NewRestore(st *store.Store, log *slog.Logger) *Restore {
	if log == nil {
		log = slog.Default()
	}
	return &Restore{store: st, log: log}
}

func (r *Restore) Process(tables []string, conn Database) (Report, error) {
	var report Report
	for _, table := range tables {
		res, err := r.restoreTable(table, conn)
		report.add(res)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

func (r *Restore) restoreTable(table string, conn Database) (TableResult, error) {
	res := TableResult{Table: table}
	log := r.log.With("table", table)
	log.Info("restoring table")

	if !r.store.Exists(table) {
		log.Warn("artifact missing, skipping", "path", r.store.Path(table))
		res.Outcome = OutcomeSkipped
		res.Reason = "no artifact"
		return res, nil
	}

	exists, err := conn.TableExists(table)
	if err != nil {
		log.Error("checking destination table", "error", err)
		res.Outcome = OutcomeFailed
		res.Reason = err.Error()
		return res, nil
	}
	if !exists {
		log.Warn("table missing on destination, skipping")
		res.Outcome = OutcomeSkipped
		res.Reason = "not on destination"
		return res, nil
	}

	rows, err := r.store.Read(table)
	if err != nil {
		log.Error("loading artifact", "error", err)
		res.Outcome = OutcomeFailed
		res.Reason = err.Error()
		return res, nil
	}

	columns, err := conn.Columns(table)
	if err != nil {
		// The table can vanish between the existence check and the
		// describe; that stays a skip, not a failure.
		if errors.Is(err, db.ErrTableNotFound) {
			log.Warn("table missing on destination, skipping")
			res.Outcome = OutcomeSkipped
			res.Reason = "not on destination"
			return res, nil
		}
		log.Error("describing destination table", "error", err)
		res.Outcome = OutcomeFailed
		res.Reason = err.Error()
		return res, nil
	}

	rows, fields, dropped := Reconcile(rows, columns)
	res.Dropped = dropped
	if len(dropped) > 0 {
		log.Warn("dropping fields absent from destination", "fields", dropped)
	}
	if len(fields) == 0 {
		log.Warn("table is empty, skipping")
		res.Outcome = OutcomeSkipped
		res.Reason = "empty"
		return res, nil
	}

	batch, insertErr := conn.InsertBatch(table, fields, rows)
	res.Rows = batch.Inserted
	res.Failed = len(batch.Failed)
	for _, re := range batch.Failed {
		log.Warn("row rejected",
			"row", re.Index,
			"key", re.Key,
			"kind", re.Kind.String(),
			"error", re.Err)
	}
	if insertErr != nil {
		log.Error("insert batch aborted", "error", insertErr)
		res.Outcome = OutcomeFailed
		res.Reason = insertErr.Error()
		return res, insertErr
	}

	res.Outcome = OutcomeDone
	return res, nil
}
