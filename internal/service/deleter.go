package service

import (
	"context"
	"errors"
	"time"

	"slack_file_cleaner/internal/files"
	"slack_file_cleaner/internal/logger"

	slackapi "github.com/slack-go/slack"
)

// Outcome of a single deletion attempt, as written to the journal
type Outcome string

const (
	OutcomeDeleted Outcome = "deleted"
	OutcomeFailed  Outcome = "failed"
	OutcomeDryRun  Outcome = "dry_run"
)

// Journal persists deletion attempts. Journal errors never stop a run.
type Journal interface {
	Begin(startedAt time.Time, weeks int, dryRun bool, cutoff time.Time) error
	Record(rec files.Record, outcome string, cause error) error
	Finish(candidates, deleted, failed int) error
}

// DeleteResult counts the outcomes of a deletion pass
type DeleteResult struct {
	Deleted int
	Failed  int
	Skipped int
}

// Deleter removes candidate files one at a time
type Deleter struct {
	api      FileAPI
	dryRun   bool
	reporter Reporter
	journal  Journal
}

// NewDeleter creates a deleter; a nil journal records nothing
func NewDeleter(api FileAPI, dryRun bool, reporter Reporter, journal Journal) *Deleter {
	if journal == nil {
		journal = nopJournal{}
	}
	return &Deleter{api: api, dryRun: dryRun, reporter: reporter, journal: journal}
}

// DeleteAll attempts every candidate in order. A failed delete is reported
// and counted; only context cancellation ends the loop early.
func (d *Deleter) DeleteAll(ctx context.Context, candidates []files.Record) (DeleteResult, error) {
	var result DeleteResult

	for i, rec := range candidates {
		if err := ctx.Err(); err != nil {
			logger.Warn.Printf("Stopping after %d of %d deletions: %v", i, len(candidates), err)
			return result, err
		}

		d.reporter.Deleting(i+1, len(candidates))

		if d.dryRun {
			d.reporter.DryRun(rec)
			result.Skipped++
			d.record(rec, OutcomeDryRun, nil)
			continue
		}

		err := d.api.DeleteFile(ctx, rec.ID)
		if err == nil {
			d.reporter.Deleted()
			result.Deleted++
			d.record(rec, OutcomeDeleted, nil)
			continue
		}

		result.Failed++
		d.reportFailure(rec, err)
		d.record(rec, OutcomeFailed, err)
	}

	return result, nil
}

func (d *Deleter) reportFailure(rec files.Record, err error) {
	var slackErr slackapi.SlackErrorResponse
	var rateErr *slackapi.RateLimitedError

	switch {
	case errors.As(err, &slackErr):
		d.reporter.DeleteFailed(slackErr.Err)
		logger.Warn.Printf("Slack refused to delete %s (%s): %s", rec.ID, rec.Name, slackErr.Err)
	case errors.As(err, &rateErr):
		d.reporter.DeleteError(err)
		logger.LogRateLimit(rateErr.RetryAfter, "files.delete")
	default:
		d.reporter.DeleteError(err)
		logger.Error.Printf("Failed to delete %s (%s): %v", rec.ID, rec.Name, err)
	}
}

func (d *Deleter) record(rec files.Record, outcome Outcome, cause error) {
	if err := d.journal.Record(rec, string(outcome), cause); err != nil {
		logger.Error.Printf("Failed to journal %s for %s: %v", outcome, rec.ID, err)
	}
}

type nopJournal struct{}

func (nopJournal) Begin(time.Time, int, bool, time.Time) error { return nil }
func (nopJournal) Record(files.Record, string, error) error     { return nil }
func (nopJournal) Finish(int, int, int) error                   { return nil }
