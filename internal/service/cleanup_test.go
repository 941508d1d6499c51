package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"slack_file_cleaner/internal/report"

	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 29, 12, 0, 0, 0, time.UTC)

func newTestService(api FileAPI, opts Options) (*CleanupService, *bytes.Buffer) {
	var buf bytes.Buffer
	s := NewCleanupService(api, report.NewConsole(&buf), opts)
	s.now = func() time.Time { return fixedNow }
	return s, &buf
}

func TestRunDeletesStaleFiles(t *testing.T) {
	api := &fakeAPI{
		total: 5,
		pages: map[int][]slackapi.File{
			1: {slackFile("F1", fixedNow.Add(-5*week)), slackFile("F2", fixedNow.Add(-3*week))},
			2: {slackFile("F3", fixedNow.Add(-6*week)), slackFile("F1", fixedNow.Add(-5*week))},
			3: {slackFile("F4", fixedNow.Add(-time.Hour))},
		},
	}
	s, buf := newTestService(api, Options{Weeks: 4, PageSize: 2})

	summary, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 3, summary.Pages)
	assert.Equal(t, []int{1, 2, 3}, api.listCalls)
	assert.Equal(t, 5, summary.Checked)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Equal(t, 2, summary.Candidates)
	assert.Equal(t, 2, summary.Deleted)
	assert.Equal(t, []string{"F1", "F3"}, api.deleteCall)
	assert.Equal(t, Cutoff(fixedNow, 4), summary.Cutoff)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "5 files to be processed, across 3 pages\n"))
	assert.Contains(t, out, "2 files will be deleted!")
}

func TestRunDefaultPageSize(t *testing.T) {
	api := &fakeAPI{total: 1500}
	s, buf := newTestService(api, Options{Weeks: 4})

	summary, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Pages)
	assert.Equal(t, []int{1000, 1000}, api.pageSizes)
	assert.Contains(t, buf.String(), "1500 files to be processed, across 2 pages")
}

func TestRunDryRun(t *testing.T) {
	api := &fakeAPI{
		total: 2,
		pages: map[int][]slackapi.File{
			1: {slackFile("F1", fixedNow.Add(-9*week)), slackFile("F2", fixedNow.Add(-5*week))},
		},
	}
	journal := &fakeJournal{}
	s, buf := newTestService(api, Options{Weeks: 4, DryRun: true})
	s.WithJournal(journal)

	summary, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, api.deleteCall)
	assert.Equal(t, 2, summary.Candidates)
	assert.Equal(t, 2, summary.Skipped)
	assert.Contains(t, buf.String(), `Dry run, skipping "F1.png"`)
	assert.Contains(t, buf.String(), `Dry run, skipping "F2.png"`)
	assert.True(t, journal.dryRun)
	assert.Equal(t, []int{2, 0, 0}, journal.finished)
}

func TestRunCustomWeeks(t *testing.T) {
	api := &fakeAPI{
		total: 2,
		pages: map[int][]slackapi.File{
			1: {slackFile("F1", fixedNow.Add(-5*week)), slackFile("F2", fixedNow.Add(-3*week))},
		},
	}
	s, _ := newTestService(api, Options{Weeks: 2})

	summary, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Candidates)
}

func TestRunListingErrorsAreFatal(t *testing.T) {
	t.Run("count probe", func(t *testing.T) {
		api := &fakeAPI{countErr: errors.New("invalid_auth")}
		s, _ := newTestService(api, Options{Weeks: 4})

		_, err := s.Run(context.Background())
		require.Error(t, err)
		assert.Empty(t, api.listCalls)
	})

	t.Run("page fetch", func(t *testing.T) {
		rateErr := &slackapi.RateLimitedError{RetryAfter: time.Minute}
		api := &fakeAPI{
			total:   3000,
			pages:   map[int][]slackapi.File{1: {slackFile("F1", fixedNow.Add(-9*week))}},
			listErr: map[int]error{2: rateErr},
		}
		s, _ := newTestService(api, Options{Weeks: 4})

		_, err := s.Run(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, rateErr)
		assert.Equal(t, []int{1, 2}, api.listCalls, "no retry after a listing error")
		assert.Empty(t, api.deleteCall, "nothing is deleted when listing fails")
	})
}

func TestRunJournalBeginFailureIsNotFatal(t *testing.T) {
	api := &fakeAPI{
		total: 1,
		pages: map[int][]slackapi.File{1: {slackFile("F1", fixedNow.Add(-9*week))}},
	}
	journal := &fakeJournal{beginErr: errors.New("database is locked")}
	s, _ := newTestService(api, Options{Weeks: 4})
	s.WithJournal(journal)

	summary, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Deleted)
	assert.Empty(t, journal.entries)
	assert.Nil(t, journal.finished)
}

func TestRunRejectsOutOfRangeWeeks(t *testing.T) {
	for _, weeks := range []int{0, -1, MaxWeeks + 1, 16000} {
		api := &fakeAPI{
			total: 1,
			pages: map[int][]slackapi.File{1: {slackFile("FRESH", fixedNow.Add(-time.Minute))}},
		}
		s, _ := newTestService(api, Options{Weeks: weeks})

		_, err := s.Run(context.Background())
		assert.Error(t, err, "weeks=%d", weeks)
		assert.Empty(t, api.listCalls, "weeks=%d", weeks)
		assert.Empty(t, api.deleteCall, "weeks=%d", weeks)
	}
}

func TestRunMaxWeeksDeletesNothingFresh(t *testing.T) {
	api := &fakeAPI{
		total: 1,
		pages: map[int][]slackapi.File{1: {slackFile("FRESH", fixedNow.Add(-time.Minute))}},
	}
	s, _ := newTestService(api, Options{Weeks: MaxWeeks})

	summary, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.Cutoff.Before(fixedNow))
	assert.Zero(t, summary.Candidates)
	assert.Empty(t, api.deleteCall)
}

func TestRunEmptyWorkspace(t *testing.T) {
	api := &fakeAPI{}
	s, buf := newTestService(api, Options{Weeks: 4})

	summary, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Pages)
	assert.Empty(t, api.listCalls)
	assert.Contains(t, buf.String(), "0 files will be deleted!")
}
