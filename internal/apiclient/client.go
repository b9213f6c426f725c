package apiclient

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

	"github.com/cenkalti/backoff/v5"

	"user-console/internal/core/config"
	"user-console/internal/domain"
)

const DefaultBaseURL = "http://localhost:4000/api/user"

const headerRequestID = "X-Request-ID"

// Client 后端 REST 合约的类型化封装
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    uint
	backoff    func() backoff.BackOff
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithRetries 只作用于 GET；n<=1 表示不重试
func WithRetries(n int) Option {
	return func(c *Client) {
		if n < 1 {
			n = 1
		}
		c.retries = uint(n)
	}
}

// WithBackOff 测试里用 ZeroBackOff
func WithBackOff(f func() backoff.BackOff) Option {
	return func(c *Client) {
		if f != nil {
			c.backoff = f
		}
	}
}

func New(base string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		retries:    3,
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

func FromConfig(c config.Backend) (*Client, error) {
	return New(c.BaseURL,
		WithHTTPClient(&http.Client{Timeout: time.Duration(c.TimeoutSec) * time.Second}),
		WithRetries(c.Retries),
	)
}

func (c *Client) BaseURL() string { return c.baseURL }

// APIError 后端返回 4xx/5xx
type APIError struct {
	Status  int
	Message string
}

func (e APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api request failed with status %d", e.Status)
	}
	return fmt.Sprintf("api request failed (%d): %s", e.Status, e.Message)
}

// Is 让 404 能用 errors.Is(err, domain.ErrUserNotFound) 判断
func (e APIError) Is(target error) bool {
	return target == domain.ErrUserNotFound && e.Status == http.StatusNotFound
}

// ErrNotFound 记录不存在；与 domain.ErrUserNotFound 是同一个值
var ErrNotFound = domain.ErrUserNotFound

var errEmptyBody = errors.New("empty response body")

type ctxKey struct{}

// WithRequestID 透传控制台的请求 id 到后端
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKey{}, rid)
}

func (c *Client) do(ctx context.Context, method, path string, body any, v any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rid, _ := ctx.Value(ctxKey{}).(string); rid != "" {
		req.Header.Set(headerRequestID, rid)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return APIError{Status: resp.StatusCode, Message: extractError(data)}
	}
	if v == nil {
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return errEmptyBody
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// get 幂等读：传输错误与 5xx 指数退避重试
func (c *Client) get(ctx context.Context, path string, v any) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := c.do(ctx, http.MethodGet, path, nil, v)
		if err == nil || retryable(err) {
			return struct{}{}, err
		}
		return struct{}{}, backoff.Permanent(err)
	}, backoff.WithBackOff(c.backoff()), backoff.WithMaxTries(c.retries))
	return err
}

func retryable(err error) bool {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= http.StatusInternalServerError
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// extractError 兼容 {code,msg} 信封、{error} 与纯文本
func extractError(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var payload struct {
		Msg     string `json:"msg"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return strings.TrimSpace(string(data))
	}
	for _, s := range []string{payload.Msg, payload.Error, payload.Message} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func userPath(prefix, id string) string { return prefix + url.PathEscape(id) }
