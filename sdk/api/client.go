package api

// Client is the root of a tree of more specialized API clients for the Drone
// server.
type Client interface {
	// Builds returns a specialized client for locating builds.
	Builds() BuildsClient
	// Logs returns a specialized client for retrieving job logs.
	Logs() LogsClient
}

type client struct {
	buildsClient BuildsClient
	logsClient   LogsClient
}

// NewClient returns a Drone API client. If allowInsecure is true, the client
// and every client beneath it skip TLS certificate verification. The setting
// is local to these clients.
func NewClient(apiAddress, apiToken string, allowInsecure bool) Client {
	return &client{
		buildsClient: NewBuildsClient(apiAddress, apiToken, allowInsecure),
		logsClient:   NewLogsClient(apiAddress, apiToken, allowInsecure),
	}
}

func (c *client) Builds() BuildsClient {
	return c.buildsClient
}

func (c *client) Logs() LogsClient {
	return c.logsClient
}
