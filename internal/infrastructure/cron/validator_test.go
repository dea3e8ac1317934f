package cron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorParse(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		schedule string
		command  string
		wantErr  bool
	}{
		{
			name:     "five fields",
			line:     "0 2 * * * /usr/local/bin/backup.sh --full",
			schedule: "0 2 * * *",
			command:  "/usr/local/bin/backup.sh --full",
		},
		{
			name:     "macro",
			line:     "@daily apt-get update",
			schedule: "@daily",
			command:  "apt-get update",
		},
		{
			name:     "extra spacing",
			line:     "  */5   *  * * *   df -h > /tmp/disk.log ",
			schedule: "*/5 * * * *",
			command:  "df -h > /tmp/disk.log",
		},
		{name: "empty", line: "   ", wantErr: true},
		{name: "schedule only", line: "0 2 * * *", wantErr: true},
		{name: "out of range minute", line: "61 2 * * * echo hi", wantErr: true},
		{name: "plain command", line: "tar czf backup.tgz /etc", wantErr: true},
	}

	validator := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := validator.Parse(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.schedule, job.Schedule)
			assert.Equal(t, tt.command, job.Command)
		})
	}
}

func TestValidatorNext(t *testing.T) {
	validator := NewValidator()
	validator.now = func() time.Time { return time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC) }

	job, err := validator.Parse("30 11 * * * echo hi")
	require.NoError(t, err)

	next, err := validator.Next(job)
	require.NoError(t, err)
	assert.Equal(t, 11, next.Hour())
	assert.Equal(t, 30, next.Minute())
}
