package report

import (
	"fmt"
	"io"

	"slack_file_cleaner/internal/files"
)

// Console prints human-readable progress for a cleanup run
type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Start(total, pages int) {
	c.printf("%d files to be processed, across %d pages\n", total, pages)
}

func (c *Console) Page(page int) {
	c.printf("Pulling page number %d\n", page)
}

func (c *Console) Checking(n int) {
	c.printf("Checking file number %d\n", n)
}

func (c *Console) Duplicate(n int, rec files.Record) {
	c.printf("File No. %d is a duplicate (id %s), skipping\n", n, rec.ID)
}

func (c *Console) Selected(n int, rec files.Record) {
	c.printf("File No. %d will be deleted\n", n)
	c.printf("%s\n", rec)
}

func (c *Console) Kept(n int) {
	c.printf("File No. %d will not be deleted\n", n)
}

func (c *Console) BeforeDelete(candidates int) {
	c.printf("All files checked\nProceeding to delete files\n")
	c.printf("%d files will be deleted!\n", candidates)
}

func (c *Console) Deleting(i, total int) {
	c.printf("Deleting file %d of %d\n", i, total)
}

func (c *Console) DryRun(rec files.Record) {
	c.printf("Dry run, skipping %s\n", rec)
}

func (c *Console) Deleted() {
	c.printf("Deleted Successfully\n")
}

// DeleteFailed reports an ok:false response from Slack
func (c *Console) DeleteFailed(reason string) {
	if reason == "" {
		c.printf("Delete Failed\n")
		return
	}
	c.printf("Delete Failed: %s\n", reason)
}

func (c *Console) DeleteError(err error) {
	c.printf("%v\n", err)
}

func (c *Console) Summary(checked, duplicates, candidates, deleted, failed, skipped int) {
	c.printf("Done: %d checked, %d duplicates, %d candidates, %d deleted, %d failed, %d skipped (dry run)\n",
		checked, duplicates, candidates, deleted, failed, skipped)
}

// printf ignores write errors; a broken stdout must not stop deletions
func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
