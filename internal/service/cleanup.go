package service

import (
	"context"
	"fmt"
	"time"

	"slack_file_cleaner/internal/files"
	"slack_file_cleaner/internal/logger"
)

// Options controls a cleanup run
type Options struct {
	Weeks    int
	PageSize int
	DryRun   bool
}

// Summary describes a finished run
type Summary struct {
	Total      int
	Pages      int
	Cutoff     time.Time
	Checked    int
	Duplicates int
	Candidates int
	DeleteResult
}

// CleanupService lists, filters and deletes workspace files
type CleanupService struct {
	api      FileAPI
	reporter Reporter
	journal  Journal
	opts     Options
	now      func() time.Time
}

// NewCleanupService creates a service with no audit journal
func NewCleanupService(api FileAPI, reporter Reporter, opts Options) *CleanupService {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	return &CleanupService{
		api:      api,
		reporter: reporter,
		journal:  nopJournal{},
		opts:     opts,
		now:      time.Now,
	}
}

// WithJournal enables the audit journal for subsequent runs
func (s *CleanupService) WithJournal(j Journal) *CleanupService {
	if j != nil {
		s.journal = j
	}
	return s
}

// Run lists every file, selects the stale ones and deletes them.
// Listing errors are returned; per-file delete errors are only reported.
func (s *CleanupService) Run(ctx context.Context) (Summary, error) {
	if s.opts.Weeks <= 0 || s.opts.Weeks > MaxWeeks {
		return Summary{}, fmt.Errorf("weeks must be between 1 and %d, got %d", MaxWeeks, s.opts.Weeks)
	}

	startedAt := s.now()
	summary := Summary{Cutoff: Cutoff(startedAt, s.opts.Weeks)}
	logger.Info.Printf("Selecting files uploaded before %s (%d weeks, dry run: %v)",
		summary.Cutoff.Format(time.RFC3339), s.opts.Weeks, s.opts.DryRun)

	total, err := s.api.CountFiles(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to count files: %w", err)
	}
	summary.Total = total
	summary.Pages = PageCount(total, s.opts.PageSize)
	s.reporter.Start(summary.Total, summary.Pages)

	filter := NewFilter(summary.Cutoff, s.reporter)
	pager := NewPager(s.api, s.opts.PageSize, s.reporter)
	if err := pager.Walk(ctx, summary.Pages, func(rec files.Record) { filter.Check(rec) }); err != nil {
		return summary, err
	}

	candidates := filter.Candidates()
	summary.Checked = filter.Checked()
	summary.Duplicates = filter.Duplicates()
	summary.Candidates = len(candidates)
	s.reporter.BeforeDelete(len(candidates))

	journal := s.beginJournal(startedAt, summary.Cutoff)
	deleter := NewDeleter(s.api, s.opts.DryRun, s.reporter, journal)
	result, err := deleter.DeleteAll(ctx, candidates)
	summary.DeleteResult = result

	if jerr := journal.Finish(summary.Candidates, result.Deleted, result.Failed); jerr != nil {
		logger.Error.Printf("Failed to finish audit run: %v", jerr)
	}
	s.reporter.Summary(summary.Checked, summary.Duplicates, summary.Candidates, result.Deleted, result.Failed, result.Skipped)

	if err != nil {
		return summary, fmt.Errorf("deletion interrupted: %w", err)
	}
	return summary, nil
}

// beginJournal falls back to a no-op journal when the run row can't be written
func (s *CleanupService) beginJournal(startedAt, cutoff time.Time) Journal {
	if err := s.journal.Begin(startedAt, s.opts.Weeks, s.opts.DryRun, cutoff); err != nil {
		logger.Error.Printf("Audit journal disabled for this run: %v", err)
		return nopJournal{}
	}
	return s.journal
}
