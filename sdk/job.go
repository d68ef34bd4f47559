package sdk

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// JobStatus represents where a Job is within its lifecycle.
type JobStatus string

const (
	// JobStatusPending represents the state wherein a Job is awaiting
	// execution.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning represents the state wherein a Job is currently being
	// executed.
	JobStatusRunning JobStatus = "running"
	// JobStatusSuccess represents the state where a Job has run to completion
	// without error.
	JobStatusSuccess JobStatus = "success"
	// JobStatusFailure represents the state wherein a Job has run to completion
	// but experienced errors.
	JobStatusFailure JobStatus = "failure"
	// JobStatusKilled represents the state wherein a Job was forcefully stopped
	// during execution.
	JobStatusKilled JobStatus = "killed"
	// JobStatusError represents the state wherein the Drone server itself could
	// not execute the Job.
	JobStatusError JobStatus = "error"
	// JobStatusSkipped represents the state wherein a Job was never executed.
	JobStatusSkipped JobStatus = "skipped"
)

// IsTerminal returns true for statuses after which a Job's log is complete
// and will not change. Only success and failure qualify. A killed or erroring
// Job may still be flushing output.
func (j JobStatus) IsTerminal() bool {
	switch j {
	case JobStatusSuccess, JobStatusFailure:
		return true
	case JobStatusPending,
		JobStatusRunning,
		JobStatusKilled,
		JobStatusError,
		JobStatusSkipped:
		return false
	}
	return false
}

// UnmarshalJSON rejects statuses this client does not know how to handle.
func (j *JobStatus) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "error unmarshaling job status")
	}
	switch status := JobStatus(s); status {
	case JobStatusPending,
		JobStatusRunning,
		JobStatusSuccess,
		JobStatusFailure,
		JobStatusKilled,
		JobStatusError,
		JobStatusSkipped:
		*j = status
		return nil
	}
	return errors.Errorf("unrecognized job status %q", s)
}

// Job is a single unit of work within a Build.
type Job struct {
	ID         int64     `json:"id"`
	Number     int64     `json:"number"`
	Status     JobStatus `json:"status"`
	ExitCode   int       `json:"exit_code"`
	EnqueuedAt int64     `json:"enqueued_at"`
	StartedAt  int64     `json:"started_at"`
	FinishedAt int64     `json:"finished_at"`
}

// Started returns the time the Job began execution, or nil if it has not.
func (j Job) Started() *time.Time {
	return unixTime(j.StartedAt)
}

// Finished returns the time the Job completed, or nil if it has not. The value
// is only meaningful once the Job's status is terminal.
func (j Job) Finished() *time.Time {
	return unixTime(j.FinishedAt)
}

func unixTime(secs int64) *time.Time {
	if secs == 0 {
		return nil
	}
	t := time.Unix(secs, 0)
	return &t
}
