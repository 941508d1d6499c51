package files

import (
	"fmt"
	"time"

	"github.com/slack-go/slack"
)

// Record is the snapshot of a workspace file the cleaner works with
type Record struct {
	ID         string
	Name       string
	UploadedAt time.Time
}

// FromSlack converts a files.list entry into a Record
func FromSlack(f slack.File) Record {
	name := f.Name
	if name == "" {
		name = f.Title
	}
	return Record{
		ID:         f.ID,
		Name:       name,
		UploadedAt: f.Timestamp.Time(),
	}
}

// OlderThan reports whether the record was uploaded strictly before cutoff
func (r Record) OlderThan(cutoff time.Time) bool {
	return r.UploadedAt.Before(cutoff)
}

// String renders the record the way the console report shows it
func (r Record) String() string {
	return fmt.Sprintf("%q@%s", r.Name, r.UploadedAt.Local().Format("2006-01-02 15:04:05"))
}
