// Package cron checks crontab lines proposed by a backend before they are installed.
package cron

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adhocore/gronx"
)

const scheduleFields = 5

var (
	// ErrEmptyJob is returned for blank crontab lines.
	ErrEmptyJob = errors.New("empty cron job")
	// ErrMissingCommand is returned when a line only carries a schedule.
	ErrMissingCommand = errors.New("cron job has no command")
)

// Job is a parsed crontab line.
type Job struct {
	Schedule string
	Command  string
}

// Validator parses crontab lines using gronx.
type Validator struct {
	gron *gronx.Gronx
	now  func() time.Time
}

// NewValidator creates a validator.
func NewValidator() *Validator {
	return &Validator{gron: gronx.New(), now: time.Now}
}

// Parse splits line into schedule and command and validates the schedule.
// Both five-field expressions and @-macros such as @daily are accepted.
func (v *Validator) Parse(line string) (Job, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Job{}, ErrEmptyJob
	}

	width := scheduleFields
	if strings.HasPrefix(fields[0], "@") {
		width = 1
	}
	if len(fields) <= width {
		return Job{}, ErrMissingCommand
	}

	job := Job{
		Schedule: strings.Join(fields[:width], " "),
		Command:  strings.Join(fields[width:], " "),
	}
	if !v.gron.IsValid(job.Schedule) {
		return Job{}, fmt.Errorf("invalid cron schedule %q", job.Schedule)
	}
	return job, nil
}

// Validate implements ports.ScheduleValidator.
func (v *Validator) Validate(line string) (time.Time, error) {
	job, err := v.Parse(line)
	if err != nil {
		return time.Time{}, err
	}
	return v.Next(job)
}

// Next returns the next time the job fires after now.
func (v *Validator) Next(job Job) (time.Time, error) {
	return gronx.NextTickAfter(job.Schedule, v.now(), false)
}
