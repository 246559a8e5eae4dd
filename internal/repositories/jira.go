package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andygrunwald/go-jira"
	"github.com/rs/zerolog"

	"scrum-cards/internal/config"
)

// ErrAborted is returned by Send for a request that was aborted before it went out
var ErrAborted = errors.New("request aborted before it was sent")

// Response is the outcome of a tracker request. Status is 0 when the request
// never got an HTTP answer; Body is nil when the answer carried no JSON value.
type Response struct {
	Status int
	Body   json.RawMessage
}

// Request is a pending tracker GET that may still be aborted before Send
type Request struct {
	URL     string
	ctx     context.Context
	cancel  context.CancelFunc
	aborted bool
}

// Abort cancels the request; a later Send returns ErrAborted without touching the network
func (r *Request) Abort() {
	r.aborted = true
	r.cancel()
}

// Aborted reports whether Abort was called
func (r *Request) Aborted() bool {
	return r.aborted
}

// JiraRepository handles tracker API interactions
type JiraRepository struct {
	httpClient *http.Client
	log        zerolog.Logger
}

// NewJiraRepository creates a tracker repository whose requests are logged through log
func NewJiraRepository(trackerConfig *config.TrackerConfig, log zerolog.Logger) *JiraRepository {
	return &JiraRepository{
		httpClient: &http.Client{
			Timeout: time.Duration(trackerConfig.TimeoutSeconds) * time.Second,
			Transport: &LoggingTransport{
				Logger:  log,
				Wrapped: http.DefaultTransport,
			},
		},
		log: log,
	}
}

// NewJiraRepositoryWithClient is used by tests to inject a transport
func NewJiraRepositoryWithClient(httpClient *http.Client, log zerolog.Logger) *JiraRepository {
	return &JiraRepository{httpClient: httpClient, log: log}
}

// NewRequest prepares a GET for rawURL without sending it
func (r *JiraRepository) NewRequest(ctx context.Context, rawURL string) *Request {
	ctx, cancel := context.WithCancel(ctx)
	return &Request{URL: rawURL, ctx: ctx, cancel: cancel}
}

// Send issues the request. Transport failures are reported as Status 0 and
// non-2xx answers as a nil Body; only an aborted request or an unusable URL
// is returned as an error.
func (r *JiraRepository) Send(req *Request) (*Response, error) {
	defer req.cancel()

	if req.Aborted() {
		return nil, ErrAborted
	}

	origin, relative, err := splitURL(req.URL)
	if err != nil {
		return nil, err
	}

	client, err := jira.NewClient(r.httpClient, origin)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracker client: %w", err)
	}

	httpReq, err := client.NewRequestWithContext(req.ctx, http.MethodGet, relative, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var body json.RawMessage
	resp, err := client.Do(httpReq, &body)
	if resp == nil {
		if req.Aborted() || errors.Is(req.ctx.Err(), context.Canceled) {
			return nil, ErrAborted
		}
		r.log.Warn().Err(err).Str("url", req.URL).Msg("tracker request failed without a response")
		return &Response{Status: 0}, nil
	}

	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Response{Status: resp.StatusCode}, nil
		}
		detail := drain(resp.Body)
		r.log.Warn().Err(err).Int("status", resp.StatusCode).Str("url", req.URL).Str("body", detail).
			Msg("tracker request was not successful")
		return &Response{Status: resp.StatusCode}, nil
	}

	if len(bytes.TrimSpace(body)) == 0 || bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return &Response{Status: resp.StatusCode}, nil
	}

	return &Response{Status: resp.StatusCode, Body: body}, nil
}

// splitURL turns an absolute URL into the origin go-jira is rooted at and the
// path+query relative to it
func splitURL(rawURL string) (origin, relative string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid tracker URL %q: %w", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", "", fmt.Errorf("tracker URL %q is not absolute", rawURL)
	}

	origin = u.Scheme + "://" + u.Host + "/"
	relative = strings.TrimPrefix(u.EscapedPath(), "/")
	if u.RawQuery != "" {
		relative += "?" + u.RawQuery
	}
	return origin, relative, nil
}

func drain(body io.ReadCloser) string {
	if body == nil {
		return ""
	}
	defer body.Close()
	data, _ := io.ReadAll(io.LimitReader(body, 4096))
	return string(data)
}
