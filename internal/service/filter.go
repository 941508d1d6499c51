package service

import (
	"math"
	"time"

	"slack_file_cleaner/internal/files"
)

const week = 7 * 24 * time.Hour

// MaxWeeks is the largest threshold whose duration fits in a time.Duration
const MaxWeeks = int(math.MaxInt64 / int64(week))

// Cutoff is the instant a file must predate to be deleted. Thresholds beyond
// MaxWeeks are clamped so the cutoff can never wrap into the future.
func Cutoff(now time.Time, weeks int) time.Time {
	if weeks > MaxWeeks {
		weeks = MaxWeeks
	}
	return now.Add(-time.Duration(weeks) * week)
}

// Filter drops duplicate ids and keeps records uploaded before the cutoff,
// in the order they were seen
type Filter struct {
	cutoff     time.Time
	reporter   Reporter
	seen       map[string]struct{}
	candidates []files.Record
	checked    int
	duplicates int
}

// NewFilter creates a filter selecting records uploaded before cutoff
func NewFilter(cutoff time.Time, reporter Reporter) *Filter {
	return &Filter{
		cutoff:   cutoff,
		reporter: reporter,
		seen:     make(map[string]struct{}),
	}
}

// Check numbers the record, reports it and reports whether it became a candidate
func (f *Filter) Check(rec files.Record) bool {
	f.checked++
	f.reporter.Checking(f.checked)

	if _, dup := f.seen[rec.ID]; dup {
		f.duplicates++
		f.reporter.Duplicate(f.checked, rec)
		return false
	}
	f.seen[rec.ID] = struct{}{}

	if !rec.OlderThan(f.cutoff) {
		f.reporter.Kept(f.checked)
		return false
	}

	f.candidates = append(f.candidates, rec)
	f.reporter.Selected(f.checked, rec)
	return true
}

// Candidates returns the selected records in discovery order
func (f *Filter) Candidates() []files.Record {
	return f.candidates
}

// Checked returns how many records were seen, duplicates included
func (f *Filter) Checked() int {
	return f.checked
}

// Duplicates returns how many records repeated an already seen id
func (f *Filter) Duplicates() int {
	return f.duplicates
}
