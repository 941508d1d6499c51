package service

import (
	"context"

	"slack_file_cleaner/internal/files"

	slackapi "github.com/slack-go/slack"
)

// FileAPI is the slice of the Slack Web API the cleaner needs.
// *slack.Client satisfies it.
type FileAPI interface {
	CountFiles(ctx context.Context) (int, error)
	ListFiles(ctx context.Context, page, count int) ([]slackapi.File, error)
	DeleteFile(ctx context.Context, fileID string) error
}

// Reporter receives progress events. *report.Console satisfies it.
type Reporter interface {
	Start(total, pages int)
	Page(page int)
	Checking(n int)
	Duplicate(n int, rec files.Record)
	Selected(n int, rec files.Record)
	Kept(n int)
	BeforeDelete(candidates int)
	Deleting(i, total int)
	DryRun(rec files.Record)
	Deleted()
	DeleteFailed(reason string)
	DeleteError(err error)
	Summary(checked, duplicates, candidates, deleted, failed, skipped int)
}
