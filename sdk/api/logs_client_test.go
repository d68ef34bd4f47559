package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/krancour/drone-logs/sdk"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestLogsClientGet(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc(
		"/api/repos/{owner}/{name}/logs/{build}/{job}",
		func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodGet, r.Method)
			require.Equal(t, "3", mux.Vars(r)["build"])
			require.Equal(t, "1", mux.Vars(r)["job"])
			fmt.Fprintln(
				w,
				`[{"proc":"build","pos":0,"out":"ok"},{"proc":"build","pos":1,"out":""}]`,
			)
		},
	)
	server := httptest.NewServer(router)
	defer server.Close()
	client := NewLogsClient(server.URL, testAPIToken, testClientAllowInsecure)
	logEntries, err :=
		client.Get(context.Background(), testOwner, testName, 3, 1)
	require.NoError(t, err)
	// Entries are returned unfiltered
	require.Equal(
		t,
		[]sdk.LogEntry{
			{Proc: "build", Pos: 0, Out: "ok"},
			{Proc: "build", Pos: 1, Out: ""},
		},
		logEntries,
	)
}

// collect drains the channels returned by Stream.
func collect(
	t *testing.T,
	logEntryCh <-chan sdk.LogEntry,
	errCh <-chan error,
) ([]sdk.LogEntry, error) {
	logEntries := []sdk.LogEntry{}
	timer := time.NewTimer(10 * time.Second)
	defer timer.Stop()
	for {
		select {
		case logEntry, ok := <-logEntryCh:
			if !ok {
				return logEntries, nil
			}
			logEntries = append(logEntries, logEntry)
		case err := <-errCh:
			return logEntries, err
		case <-timer.C:
			t.Fatal("timed out waiting for log stream to end")
		}
	}
}

func TestLogsClientStream(t *testing.T) {
	testCases := []struct {
		name       string
		handle     func(*testing.T, *websocket.Conn)
		assertions func(*testing.T, []sdk.LogEntry, error)
	}{
		{
			name: "normal closure",
			handle: func(t *testing.T, conn *websocket.Conn) {
				for _, msg := range []string{
					`{"proc":"test","pos":0,"out":"a"}`,
					`{"proc":"test","pos":1,"out":"b"}`,
					`{"proc":"test","pos":2,"out":"c"}`,
				} {
					require.NoError(
						t,
						conn.WriteMessage(websocket.TextMessage, []byte(msg)),
					)
				}
				closeNormally(t, conn)
			},
			assertions: func(t *testing.T, logEntries []sdk.LogEntry, err error) {
				require.NoError(t, err)
				require.Len(t, logEntries, 3)
				require.Equal(t, "a", logEntries[0].Out)
				require.Equal(t, "b", logEntries[1].Out)
				require.Equal(t, "c", logEntries[2].Out)
			},
		},
		{
			name: "messages without output are delivered as received",
			handle: func(t *testing.T, conn *websocket.Conn) {
				require.NoError(
					t,
					conn.WriteMessage(websocket.TextMessage, []byte(`{"proc":"test"}`)),
				)
				closeNormally(t, conn)
			},
			assertions: func(t *testing.T, logEntries []sdk.LogEntry, err error) {
				require.NoError(t, err)
				require.Equal(t, []sdk.LogEntry{{Proc: "test"}}, logEntries)
			},
		},
		{
			name: "malformed message",
			handle: func(t *testing.T, conn *websocket.Conn) {
				require.NoError(
					t,
					conn.WriteMessage(websocket.TextMessage, []byte(`{"out":"a"}`)),
				)
				require.NoError(
					t,
					conn.WriteMessage(websocket.TextMessage, []byte("not json")),
				)
				// Keep the connection open until the client hangs up
				_, _, _ = conn.ReadMessage()
			},
			assertions: func(t *testing.T, logEntries []sdk.LogEntry, err error) {
				require.Len(t, logEntries, 1)
				require.Error(t, err)
				protocolErr, ok := err.(*sdk.ErrProtocolViolation)
				require.True(t, ok)
				require.Equal(t, "not json", protocolErr.Message)
			},
		},
		{
			name: "abnormal closure",
			handle: func(t *testing.T, conn *websocket.Conn) {
				require.NoError(
					t,
					conn.WriteMessage(websocket.TextMessage, []byte(`{"out":"a"}`)),
				)
				// Hang up without a close frame
				conn.UnderlyingConn().Close()
			},
			assertions: func(t *testing.T, logEntries []sdk.LogEntry, err error) {
				require.Len(t, logEntries, 1)
				require.Error(t, err)
				require.IsType(t, &websocket.CloseError{}, errors.Cause(err))
				require.True(
					t,
					websocket.IsCloseError(
						errors.Cause(err),
						websocket.CloseAbnormalClosure,
					),
				)
			},
		},
		{
			name: "closure with an error code",
			handle: func(t *testing.T, conn *websocket.Conn) {
				require.NoError(
					t,
					conn.WriteMessage(
						websocket.CloseMessage,
						websocket.FormatCloseMessage(
							websocket.CloseInternalServerErr,
							"boom",
						),
					),
				)
				_, _, _ = conn.ReadMessage()
			},
			assertions: func(t *testing.T, logEntries []sdk.LogEntry, err error) {
				require.Empty(t, logEntries)
				require.Error(t, err)
				require.Contains(t, err.Error(), "boom")
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			server := newStreamServer(t, func(conn *websocket.Conn) {
				testCase.handle(t, conn)
			})
			defer server.Close()
			client := NewLogsClient(server.URL, testAPIToken, testClientAllowInsecure)
			logEntryCh, errCh, err :=
				client.Stream(context.Background(), testOwner, testName, 3, 1)
			require.NoError(t, err)
			logEntries, err := collect(t, logEntryCh, errCh)
			testCase.assertions(t, logEntries, err)
		})
	}
}

func TestLogsClientStreamNotFound(t *testing.T) {
	server := newStreamServer(t, func(*websocket.Conn) {})
	defer server.Close()
	client := NewLogsClient(server.URL, testAPIToken, testClientAllowInsecure)
	_, _, err := client.Stream(context.Background(), testOwner, testName, 4, 1)
	require.Error(t, err)
	require.IsType(t, &sdk.ErrNotFound{}, err)
}

func TestLogsClientStreamRequiresTrust(t *testing.T) {
	server := newStreamServer(t, func(*websocket.Conn) {})
	defer server.Close()
	// The test server's certificate is self-signed
	client := NewLogsClient(server.URL, testAPIToken, false)
	_, _, err := client.Stream(context.Background(), testOwner, testName, 3, 1)
	require.Error(t, err)
	require.NotContains(t, err.Error(), "not found")
}

func TestLogsClientStreamCanceled(t *testing.T) {
	hungUp := make(chan struct{})
	server := newStreamServer(t, func(conn *websocket.Conn) {
		_, _, _ = conn.ReadMessage()
		close(hungUp)
	})
	defer server.Close()
	client := NewLogsClient(server.URL, testAPIToken, testClientAllowInsecure)
	ctx, cancel := context.WithCancel(context.Background())
	_, _, err := client.Stream(ctx, testOwner, testName, 3, 1)
	require.NoError(t, err)
	cancel()
	select {
	case <-hungUp:
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for canceled stream to hang up")
	}
}
