package service

import (
	"context"
	"fmt"

	"slack_file_cleaner/internal/files"
	"slack_file_cleaner/internal/logger"
)

// DefaultPageSize is the largest page files.list serves
const DefaultPageSize = 1000

// PageCount returns ceil(total / pageSize)
func PageCount(total, pageSize int) int {
	if pageSize <= 0 {
		panic(fmt.Sprintf("service: non-positive page size %d", pageSize))
	}
	if total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Pager walks files.list one page at a time
type Pager struct {
	api      FileAPI
	pageSize int
	reporter Reporter
}

// NewPager creates a pager; a non-positive pageSize falls back to DefaultPageSize
func NewPager(api FileAPI, pageSize int, reporter Reporter) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{api: api, pageSize: pageSize, reporter: reporter}
}

// Walk fetches pages 1..pages in order and hands every record to visit.
// The first listing error stops the walk.
func (p *Pager) Walk(ctx context.Context, pages int, visit func(files.Record)) error {
	for page := 1; page <= pages; page++ {
		p.reporter.Page(page)

		slackFiles, err := p.api.ListFiles(ctx, page, p.pageSize)
		if err != nil {
			return fmt.Errorf("failed to fetch page %d of %d: %w", page, pages, err)
		}
		logger.Debug.Printf("Retrieved %d files on page %d", len(slackFiles), page)

		for _, f := range slackFiles {
			visit(files.FromSlack(f))
		}
	}
	return nil
}
