package database

import (
	"database/sql"
	"fmt"
	"time"

	"slack_file_cleaner/internal/files"
)

// Journal records one cleanup run and its deletion attempts
type Journal struct {
	db    *DB
	runID int64
	now   func() time.Time
}

func NewJournal(db *DB) *Journal {
	return &Journal{db: db, now: time.Now}
}

func (j *Journal) RunID() int64 {
	return j.runID
}

func (j *Journal) Begin(startedAt time.Time, weeks int, dryRun bool, cutoff time.Time) error {
	id, err := j.db.StartRun(startedAt, weeks, dryRun, cutoff)
	if err != nil {
		return err
	}
	j.runID = id
	return nil
}

func (j *Journal) Record(rec files.Record, outcome string, cause error) error {
	if j.runID == 0 {
		return fmt.Errorf("journal run not started")
	}

	d := Deletion{
		RunID:       j.runID,
		FileID:      rec.ID,
		FileName:    rec.Name,
		UploadedAt:  rec.UploadedAt,
		Outcome:     outcome,
		AttemptedAt: j.now(),
	}
	if cause != nil {
		d.Error = sql.NullString{String: cause.Error(), Valid: true}
	}
	return j.db.InsertDeletion(d)
}

func (j *Journal) Finish(candidates, deleted, failed int) error {
	if j.runID == 0 {
		return fmt.Errorf("journal run not started")
	}
	return j.db.FinishRun(j.runID, j.now(), candidates, deleted, failed)
}
