package service

import (
	"context"
	"time"

	"slack_file_cleaner/internal/files"

	slackapi "github.com/slack-go/slack"
)

type fakeAPI struct {
	total      int
	pages      map[int][]slackapi.File
	countErr   error
	listErr    map[int]error
	deleteErr  map[string]error
	listCalls  []int
	pageSizes  []int
	deleteCall []string
}

func (f *fakeAPI) CountFiles(ctx context.Context) (int, error) {
	return f.total, f.countErr
}

func (f *fakeAPI) ListFiles(ctx context.Context, page, count int) ([]slackapi.File, error) {
	f.listCalls = append(f.listCalls, page)
	f.pageSizes = append(f.pageSizes, count)
	if err := f.listErr[page]; err != nil {
		return nil, err
	}
	return f.pages[page], nil
}

func (f *fakeAPI) DeleteFile(ctx context.Context, fileID string) error {
	f.deleteCall = append(f.deleteCall, fileID)
	return f.deleteErr[fileID]
}

func slackFile(id string, uploaded time.Time) slackapi.File {
	return slackapi.File{ID: id, Name: id + ".png", Timestamp: slackapi.JSONTime(uploaded.Unix())}
}

type journalEntry struct {
	id      string
	outcome string
	cause   error
}

type fakeJournal struct {
	beginErr  error
	recordErr error
	begun     bool
	dryRun    bool
	entries   []journalEntry
	finished  []int
}

func (j *fakeJournal) Begin(startedAt time.Time, weeks int, dryRun bool, cutoff time.Time) error {
	if j.beginErr != nil {
		return j.beginErr
	}
	j.begun = true
	j.dryRun = dryRun
	return nil
}

func (j *fakeJournal) Record(rec files.Record, outcome string, cause error) error {
	j.entries = append(j.entries, journalEntry{id: rec.ID, outcome: outcome, cause: cause})
	return j.recordErr
}

func (j *fakeJournal) Finish(candidates, deleted, failed int) error {
	j.finished = []int{candidates, deleted, failed}
	return nil
}
