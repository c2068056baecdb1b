package lesswrong

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/topi314/partiful-sync/internal/xtime"
)

const defaultEndpoint = "https://www.lesswrong.com/graphql"

var (
	ErrTransport = errors.New("lesswrong request failed")
	ErrRejected  = errors.New("lesswrong rejected request")
)

type Config struct {
	Endpoint    string         `toml:"endpoint"`
	Every       xtime.Duration `toml:"every"`
	Burst       int            `toml:"burst"`
	GroupID     string         `toml:"group_id"`
	ContactInfo string         `toml:"contact_info"`
	Types       []string       `toml:"types"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n Endpoint: %s\n Every: %s\n Burst: %d\n GroupID: %s\n ContactInfo: %s\n Types: %v",
		c.Endpoint,
		c.Every,
		c.Burst,
		c.GroupID,
		c.ContactInfo,
		c.Types,
	)
}

func New(cfg Config, token string, httpClient *http.Client) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	every := time.Duration(cfg.Every)
	if every <= 0 {
		every = time.Second
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		cfg:        cfg,
		token:      token,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Every(every), burst),
	}
}

type Client struct {
	cfg        Config
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func (c *Client) Config() Config {
	return c.cfg
}

// Do executes one authenticated GraphQL operation and decodes the data
// object into out. The login token travels as the loginToken cookie, never
// in the body.
//
// The response body is decoded before the HTTP status is checked: the API
// returns GraphQL errors with a 200 status and rich JSON error bodies with
// 4xx statuses, and both must surface the GraphQL-level messages.
func (c *Client) Do(ctx context.Context, query string, variables map[string]any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(Req{
		Query:     query,
		Variables: variables,
	}); err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	rq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	rq.Header.Set("Content-Type", "application/json")
	rq.Header.Set("Accept", "application/json")
	if c.token != "" {
		rq.AddCookie(&http.Cookie{Name: "loginToken", Value: c.token})
	}

	rs, err := c.httpClient.Do(rq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer rs.Body.Close()

	logBuf := new(bytes.Buffer)
	bodyReader := io.TeeReader(rs.Body, logBuf)

	var resp Resp[json.RawMessage]
	if err = json.NewDecoder(bodyReader).Decode(&resp); err != nil {
		if rs.StatusCode >= http.StatusBadRequest {
			slog.ErrorContext(ctx, "Request failed", slog.Int("status_code", rs.StatusCode), slog.String("response", logBuf.String()))
			return fmt.Errorf("%w: request failed with status code: %d", ErrTransport, rs.StatusCode)
		}
		slog.ErrorContext(ctx, "Failed to decode response", slog.String("response", logBuf.String()), slog.Any("error", err))
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(resp.Errors) > 0 {
		var (
			errArgs []any
			errs    error
		)
		for _, e := range resp.Errors {
			errArgs = append(errArgs, slog.String("message", e.String()))
			errs = errors.Join(errs, e)
		}
		slog.ErrorContext(ctx, "GraphQL errors", errArgs...)
		return fmt.Errorf("%w: %w", ErrRejected, errs)
	}

	if rs.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: request failed with status code: %d", ErrTransport, rs.StatusCode)
	}

	if out != nil && len(resp.Data) > 0 {
		if err = json.Unmarshal(resp.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return nil
}
