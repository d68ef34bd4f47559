package apimachinery

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/krancour/drone-logs/sdk"
	"github.com/pkg/errors"
)

var schemeRegex = regexp.MustCompile(`^https?://`)

// BaseClient provides "API machinery" used by all the specialized API
// clients. It removes the tedium from common operations like managing
// authentication headers, interpreting response codes, decoding response
// bodies and dialing log streams.
type BaseClient struct {
	APIAddress string
	APIToken   string
	HTTPClient *http.Client
	Dialer     *websocket.Dialer
}

// NewBaseClient returns a BaseClient whose HTTP client and websocket dialer
// both skip TLS certificate verification if, and only if, allowInsecure is
// true. No process-wide TLS setting is touched.
func NewBaseClient(
	apiAddress string,
	apiToken string,
	allowInsecure bool,
) *BaseClient {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: allowInsecure, // nolint: gosec
	}
	return &BaseClient{
		APIAddress: strings.TrimSuffix(apiAddress, "/"),
		APIToken:   apiToken,
		HTTPClient: &http.Client{
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				TLSClientConfig: tlsConfig,
			},
		},
		Dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: websocket.DefaultDialer.HandshakeTimeout,
			TLSClientConfig:  tlsConfig.Clone(),
		},
	}
}

// BearerTokenAuthHeaders returns a map[string]string populated with an
// authentication header that makes use of the client's bearer token.
func (b *BaseClient) BearerTokenAuthHeaders() map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", b.APIToken),
	}
}

// ExecuteRequest prepares and executes the HTTP request modeled by req,
// interprets the HTTP response code and decodes the response body into
// req.RespObj.
func (b *BaseClient) ExecuteRequest(
	ctx context.Context,
	req OutboundRequest,
) error {
	resp, err := b.SubmitRequest(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if req.RespObj != nil {
		respBodyBytes, err := ioutil.ReadAll(resp.Body)
		if err != nil {
			return errors.Wrap(err, "error reading response body")
		}
		if err := json.Unmarshal(respBodyBytes, req.RespObj); err != nil {
			return errors.Wrap(err, "error unmarshaling response body")
		}
	}
	return nil
}

// SubmitRequest prepares and executes the HTTP request modeled by req and
// returns the HTTP response. It is a lower-level function than
// ExecuteRequest(), suitable where specialized response handling is required.
func (b *BaseClient) SubmitRequest(
	ctx context.Context,
	req OutboundRequest,
) (*http.Response, error) {
	r, err := http.NewRequestWithContext(
		ctx,
		req.Method,
		fmt.Sprintf("%s/%s", b.APIAddress, req.Path),
		nil,
	)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error creating request %s %s",
			req.Method,
			req.Path,
		)
	}
	if len(req.QueryParams) > 0 {
		q := r.URL.Query()
		for k, v := range req.QueryParams {
			q.Set(k, v)
		}
		r.URL.RawQuery = q.Encode()
	}
	for k, v := range req.AuthHeaders {
		r.Header.Add(k, v)
	}
	for k, v := range req.Headers {
		r.Header.Add(k, v)
	}

	slog.Debug("invoking API", "method", req.Method, "path", req.Path)
	resp, err := b.HTTPClient.Do(r)
	if err != nil {
		return nil, errors.Wrap(err, "error invoking API")
	}

	successCode := req.SuccessCode
	if successCode == 0 {
		successCode = http.StatusOK
	}
	if resp.StatusCode != successCode {
		defer resp.Body.Close()
		// The Drone API answers errors with a plain text reason
		bodyBytes, err := ioutil.ReadAll(resp.Body)
		if err != nil {
			return nil, errors.Wrap(err, "error reading error response body")
		}
		return nil, errorFromStatus(
			resp.StatusCode,
			req.Path,
			strings.TrimSpace(string(bodyBytes)),
		)
	}
	return resp, nil
}

// StreamURL derives the URL of a streaming endpoint from the API address. The
// log channel is always addressed over an encrypted websocket, regardless of
// whether the API address itself uses http or https.
func (b *BaseClient) StreamURL(path string) string {
	return fmt.Sprintf(
		"wss://%s/%s",
		schemeRegex.ReplaceAllString(b.APIAddress, ""),
		path,
	)
}

// Dial opens a websocket connection to the streaming endpoint at path. A
// handshake rejected with a status code is reported as the same typed error
// a REST call with that code would produce.
func (b *BaseClient) Dial(
	ctx context.Context,
	path string,
	authHeaders map[string]string,
) (*websocket.Conn, error) {
	header := http.Header{}
	for k, v := range authHeaders {
		header.Add(k, v)
	}
	url := b.StreamURL(path)
	slog.Debug("dialing stream", "url", url)
	conn, resp, err := b.Dialer.DialContext(ctx, url, header)
	if err != nil {
		if errors.Is(err, websocket.ErrBadHandshake) && resp != nil {
			defer resp.Body.Close()
			bodyBytes, _ := ioutil.ReadAll(resp.Body)
			return nil, errorFromStatus(
				resp.StatusCode,
				path,
				strings.TrimSpace(string(bodyBytes)),
			)
		}
		return nil, errors.Wrapf(err, "error dialing %s", url)
	}
	return conn, nil
}

func errorFromStatus(statusCode int, path string, reason string) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return &sdk.ErrAuthentication{Reason: reason}
	case http.StatusForbidden:
		return &sdk.ErrAuthorization{}
	case http.StatusBadRequest:
		return &sdk.ErrBadRequest{Reason: reason}
	case http.StatusNotFound:
		return &sdk.ErrNotFound{Path: path, Reason: reason}
	case http.StatusInternalServerError:
		return &sdk.ErrInternalServer{Reason: reason}
	}
	return errors.Errorf("received %d from API server", statusCode)
}
