package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/rs/zerolog"

	"github.com/edufinai/edufin/internal/logger"
)

// TokenSource supplies the current bearer token, or "" when logged out.
// The token store read is synchronous, so a call issued after logout
// naturally picks up "no token".
type TokenSource func() string

// Config holds gateway client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// CacheDir enables disk-backed caching for public catalog reads. Empty
	// means an in-memory cache.
	CacheDir string
}

// DefaultConfig returns a default client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://gateway.edufin.local",
		Timeout: 30 * time.Second,
	}
}

// Client talks JSON over HTTP to the EduFinAI gateway. All feature services
// (auth, lessons, quizzes, challenges, leaderboard, chat, notifications,
// admin) share this one transport and its error classification.
type Client struct {
	baseURL string
	http    *http.Client
	public  *http.Client
	token   TokenSource

	onUnauthorized func()
	logger         zerolog.Logger
}

// New creates a gateway client. token supplies the bearer token for
// authenticated calls.
func New(cfg Config, token TokenSource, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	transport := logger.NewHTTPRequests(log, nil)

	var cache httpcache.Cache = httpcache.NewMemoryCache()
	if cfg.CacheDir != "" {
		cache = diskcache.New(cfg.CacheDir)
	}
	cachingTransport := httpcache.NewTransport(cache)
	cachingTransport.Transport = transport

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout, Transport: transport},
		public:  &http.Client{Timeout: cfg.Timeout, Transport: cachingTransport},
		token:   token,
		logger:  log,
	}
}

// OnUnauthorized installs the cross-cutting 401 hook. Any authenticated call
// answered with 401 fires it before returning; the session uses it to drop
// the token and fall back to the login flow.
func (c *Client) OnUnauthorized(hook func()) {
	c.onUnauthorized = hook
}

// call describes one gateway request.
type call struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any

	// authed attaches the bearer token and arms the 401 hook.
	authed bool
	// bearer overrides the token source for this one call. Logout uses it:
	// the local token is cleared before the gateway call, so the token to
	// invalidate must travel with the request.
	bearer string
	// credential marks login/register calls: a 4xx answer means rejected
	// credentials, not an expired session, and never fires the 401 hook.
	credential bool
	// cacheable routes the request through the caching client and retries
	// transient network failures. Only for idempotent GETs.
	cacheable bool
}

// errorBody is the gateway's error envelope. Older services answer with
// "error" instead of "message".
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, cl call) error {
	var payload io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return &Error{Kind: KindUnknown, Message: fmt.Sprintf("encode request: %v", err)}
		}
		payload = bytes.NewReader(data)
	}

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, payload)
	if err != nil {
		return &Error{Kind: KindUnknown, Message: fmt.Sprintf("build request: %v", err)}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.authed {
		token := cl.bearer
		if token == "" {
			token = c.token()
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.send(ctx, req, cl.cacheable)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: fmt.Sprintf("gateway unreachable: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.classify(cl, resp)
	}

	if cl.out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil {
		return &Error{Kind: KindUnknown, Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
	}

	return nil
}

// send issues the request, retrying transient transport failures with
// exponential backoff for cacheable reads. Writes are never retried.
func (c *Client) send(ctx context.Context, req *http.Request, cacheable bool) (*http.Response, error) {
	if !cacheable {
		return c.http.Do(req)
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 200 * time.Millisecond
	expo.MaxInterval = 2 * time.Second

	return backoff.Retry(ctx, func() (*http.Response, error) {
		resp, err := c.public.Do(req)
		if err != nil {
			c.logger.Debug().Err(err).Str("url", req.URL.String()).Msg("retrying gateway read")
			return nil, err
		}
		return resp, nil
	}, backoff.WithBackOff(expo), backoff.WithMaxTries(3))
}

// classify turns a non-2xx answer into a structured error, deciding the
// kind exactly once.
func (c *Client) classify(cl call, resp *http.Response) error {
	message := readErrorMessage(resp)

	switch {
	case cl.credential && resp.StatusCode >= 400 && resp.StatusCode < 500:
		if message == "" {
			message = "invalid username or password"
		}
		return &Error{Kind: KindCredentials, Status: resp.StatusCode, Message: message}

	case resp.StatusCode == http.StatusUnauthorized:
		if cl.authed && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		if message == "" {
			message = "session expired"
		}
		return &Error{Kind: KindExpired, Status: resp.StatusCode, Message: message}

	default:
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &Error{Kind: KindGateway, Status: resp.StatusCode, Message: message}
	}
}

func readErrorMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return ""
	}

	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}

	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
