// Package logs decides where the log of a job comes from and delivers it, one
// entry at a time and in order, to a Sink.
package logs

import (
	"context"
	"log/slog"

	"github.com/krancour/drone-logs/sdk"
	"github.com/krancour/drone-logs/sdk/api"
	"github.com/pkg/errors"
)

// Sink receives log entries as they are acquired.
type Sink interface {
	Entry(sdk.LogEntry)
}

// SinkFunc adapts an ordinary function to the Sink interface.
type SinkFunc func(sdk.LogEntry)

// Entry calls f(entry).
func (f SinkFunc) Entry(entry sdk.LogEntry) {
	f(entry)
}

// Acquirer acquires the log of a single job, either live over the job's log
// channel or, for a job whose log is final, with a single fetch.
type Acquirer struct {
	logsClient api.LogsClient
}

// NewAcquirer returns an Acquirer that retrieves logs via logsClient.
func NewAcquirer(logsClient api.LogsClient) *Acquirer {
	return &Acquirer{
		logsClient: logsClient,
	}
}

// Acquire delivers every log entry of the specified job to sink and returns
// once the log is exhausted. A nil return covers three outcomes: the static
// log was delivered, the live channel was closed normally by the server, or
// the live channel does not exist (yet). Errors are *ErrTransportFailure,
// *sdk.ErrProtocolViolation or *ErrConnection.
func (a *Acquirer) Acquire(
	ctx context.Context,
	repo sdk.Repository,
	build int64,
	job sdk.Job,
	sink Sink,
) error {
	if job.Status.IsTerminal() {
		slog.Debug("fetching finished job log", "status", job.Status)
		return a.fetch(ctx, repo, build, job.Number, sink)
	}
	slog.Debug("subscribing to live job log", "status", job.Status)
	return a.subscribe(ctx, repo, build, job.Number, sink)
}

func (a *Acquirer) fetch(
	ctx context.Context,
	repo sdk.Repository,
	build int64,
	job int64,
	sink Sink,
) error {
	logEntries, err := a.logsClient.Get(ctx, repo.Owner, repo.Name, build, job)
	if err != nil {
		return &ErrTransportFailure{Err: err}
	}
	for _, logEntry := range logEntries {
		sink.Entry(logEntry)
	}
	return nil
}

func (a *Acquirer) subscribe(
	ctx context.Context,
	repo sdk.Repository,
	build int64,
	job int64,
	sink Sink,
) error {
	logEntryCh, errCh, err :=
		a.logsClient.Stream(ctx, repo.Owner, repo.Name, build, job)
	if err != nil {
		var notFoundErr *sdk.ErrNotFound
		if errors.As(err, &notFoundErr) {
			// The job hasn't started producing output
			slog.Debug("no log channel for job", "reason", err)
			return nil
		}
		return &ErrConnection{Err: err}
	}
	for {
		select {
		case logEntry, ok := <-logEntryCh:
			if !ok {
				return nil
			}
			if logEntry.Out != "" {
				sink.Entry(logEntry)
			}
		case err := <-errCh:
			var protocolErr *sdk.ErrProtocolViolation
			if errors.As(err, &protocolErr) {
				return protocolErr
			}
			return &ErrConnection{Err: err}
		case <-ctx.Done():
			return &ErrConnection{Err: ctx.Err()}
		}
	}
}
