package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

const (
	testAPIToken            = "11235813213455"
	testClientAllowInsecure = true
	testOwner               = "octocat"
	testName                = "hello-world"
)

// newStreamServer returns a TLS server that upgrades requests for the log
// channel of build 3, job 1 and hands the connection to handle.
func newStreamServer(
	t *testing.T,
	handle func(*websocket.Conn),
) *httptest.Server {
	upgrader := websocket.Upgrader{}
	return httptest.NewTLSServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/ws/logs/octocat/hello-world/3/1" {
					http.NotFound(w, r)
					return
				}
				conn, err := upgrader.Upgrade(w, r, nil)
				if err != nil {
					t.Errorf("error upgrading connection: %s", err)
					return
				}
				defer conn.Close()
				handle(conn)
			},
		),
	)
}

// closeNormally sends a normal closure and waits for the client to answer in
// kind so no queued frames are lost.
func closeNormally(t *testing.T, conn *websocket.Conn) {
	err := conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
	require.NoError(t, err)
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
