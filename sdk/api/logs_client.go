package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/krancour/drone-logs/sdk"
	"github.com/krancour/drone-logs/sdk/internal/apimachinery"
	"github.com/pkg/errors"
)

// LogsClient is the specialized client for retrieving job logs.
type LogsClient interface {
	// Get returns the complete log of a finished job in the order the server
	// returns it.
	Get(
		ctx context.Context,
		owner string,
		name string,
		build int64,
		job int64,
	) ([]sdk.LogEntry, error)
	// Stream subscribes to the live log channel of a job. Every message
	// received is decoded and sent over the returned LogEntry channel, in
	// order, exactly as received. When the server closes the channel normally,
	// the LogEntry channel is closed. Any other failure, including a message
	// that cannot be decoded (*sdk.ErrProtocolViolation), is sent over the
	// error channel and ends the subscription. If the server reports no such
	// channel, Stream itself returns *sdk.ErrNotFound.
	Stream(
		ctx context.Context,
		owner string,
		name string,
		build int64,
		job int64,
	) (<-chan sdk.LogEntry, <-chan error, error)
}

type logsClient struct {
	*apimachinery.BaseClient
}

// NewLogsClient returns a specialized client for retrieving job logs.
func NewLogsClient(
	apiAddress string,
	apiToken string,
	allowInsecure bool,
) LogsClient {
	return &logsClient{
		BaseClient: apimachinery.NewBaseClient(apiAddress, apiToken, allowInsecure),
	}
}

func (l *logsClient) Get(
	ctx context.Context,
	owner string,
	name string,
	build int64,
	job int64,
) ([]sdk.LogEntry, error) {
	logEntries := []sdk.LogEntry{}
	return logEntries, l.ExecuteRequest(
		ctx,
		apimachinery.OutboundRequest{
			Method: http.MethodGet,
			Path: fmt.Sprintf(
				"api/repos/%s/%s/logs/%d/%d",
				owner,
				name,
				build,
				job,
			),
			AuthHeaders: l.BearerTokenAuthHeaders(),
			SuccessCode: http.StatusOK,
			RespObj:     &logEntries,
		},
	)
}

func (l *logsClient) Stream(
	ctx context.Context,
	owner string,
	name string,
	build int64,
	job int64,
) (<-chan sdk.LogEntry, <-chan error, error) {
	conn, err := l.Dial(
		ctx,
		fmt.Sprintf("ws/logs/%s/%s/%d/%d", owner, name, build, job),
		l.BearerTokenAuthHeaders(),
	)
	if err != nil {
		return nil, nil, err
	}

	logEntryCh := make(chan sdk.LogEntry)
	errCh := make(chan error)

	go l.receiveLogStream(ctx, conn, logEntryCh, errCh)

	return logEntryCh, errCh, nil
}

func (l *logsClient) receiveLogStream(
	ctx context.Context,
	conn *websocket.Conn,
	logEntryCh chan<- sdk.LogEntry,
	errCh chan<- error,
) {
	done := make(chan struct{})
	defer close(done)
	defer conn.Close()
	// Unblock a pending read if the caller gives up
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	sendErr := func(err error) {
		select {
		case errCh <- err:
		case <-ctx.Done():
		}
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(
				err,
				websocket.CloseNormalClosure,
				websocket.CloseNoStatusReceived,
			) {
				slog.Debug("log stream closed by server", "reason", err)
				close(logEntryCh)
				return
			}
			if ctx.Err() != nil {
				return
			}
			sendErr(errors.Wrap(err, "error reading log stream"))
			return
		}
		logEntry := sdk.LogEntry{}
		if err := json.Unmarshal(msg, &logEntry); err != nil {
			sendErr(&sdk.ErrProtocolViolation{Message: string(msg), Err: err})
			return
		}
		select {
		case logEntryCh <- logEntry:
		case <-ctx.Done():
			return
		}
	}
}
