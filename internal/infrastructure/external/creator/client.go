package creator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lucasaguiar-la/cotacao-geral/internal/application/port"
)

// Config holds the Creator account the client talks to
type Config struct {
	BaseURL string        `mapstructure:"base_url"`
	Owner   string        `mapstructure:"owner"`
	App     string        `mapstructure:"app"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultBaseURL is the Creator data API host
const DefaultBaseURL = "https://creator.zoho.com"

// Client implements port.RecordStore over the Creator REST API
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// NewClient creates a Creator client
func NewClient(cfg Config, logger *zap.Logger, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the body every Creator endpoint answers with. Message is a
// string on most errors and an object on some validation failures.
type envelope struct {
	Code    int             `json:"code"`
	Message json.RawMessage `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Result  []envelope      `json:"result,omitempty"`
}

func (e envelope) message() string {
	if len(e.Message) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Message, &s); err == nil {
		return s
	}
	return string(e.Message)
}

// id extracts the record id from a write response
func (e envelope) id() string {
	if len(e.Data) == 0 {
		return ""
	}
	var row port.Row
	if err := decode(bytes.NewReader(e.Data), &row); err != nil {
		return ""
	}
	return row.ID()
}

func (e envelope) result() port.Result {
	return port.Result{Code: e.Code, ID: e.id(), Message: e.message()}
}

// Search returns one page of a report. Pages start at 1.
func (c *Client) Search(ctx context.Context, report, criteria string, page int) (*port.SearchResult, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	if criteria != "" {
		q.Set("criteria", criteria)
	}
	q.Set("from", strconv.Itoa((page-1)*port.PageSize+1))
	q.Set("limit", strconv.Itoa(port.PageSize))

	env, err := c.do(ctx, http.MethodGet, c.endpoint("report", report)+"?"+q.Encode(), nil, "")
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", report, err)
	}

	out := &port.SearchResult{Code: env.Code}
	if env.Code == port.CodeSuccess && len(env.Data) > 0 {
		if err := decode(bytes.NewReader(env.Data), &out.Rows); err != nil {
			return nil, fmt.Errorf("search %s: decode rows: %w", report, err)
		}
	}
	return out, nil
}

// Create adds one record, or one per element when data is a list
func (c *Client) Create(ctx context.Context, form string, data interface{}) (*port.CreateResult, error) {
	body, err := json.Marshal(map[string]interface{}{"data": data})
	if err != nil {
		return nil, fmt.Errorf("create %s: encode: %w", form, err)
	}

	env, err := c.do(ctx, http.MethodPost, c.endpoint("form", form), bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", form, err)
	}

	out := &port.CreateResult{Result: env.result()}
	for _, r := range env.Result {
		out.Results = append(out.Results, r.result())
	}
	// list creates answer with a result array and no top-level code
	if out.Code == 0 && len(out.Results) > 0 {
		out.Code = port.CodeSuccess
		for _, r := range out.Results {
			if !r.OK() {
				out.Code = r.Code
				break
			}
		}
	}
	return out, nil
}

// Update changes fields of an existing record
func (c *Client) Update(ctx context.Context, report, id string, data interface{}) (*port.Result, error) {
	body, err := json.Marshal(map[string]interface{}{"data": data})
	if err != nil {
		return nil, fmt.Errorf("update %s/%s: encode: %w", report, id, err)
	}

	env, err := c.do(ctx, http.MethodPatch, c.endpoint("report", report, id), bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, fmt.Errorf("update %s/%s: %w", report, id, err)
	}

	res := env.result()
	if res.ID == "" {
		res.ID = id
	}
	return &res, nil
}

// UploadFile sends an attachment into a file field of a record
func (c *Client) UploadFile(ctx context.Context, report, id, field string, file port.File) (*port.Result, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", file.Name, err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("upload %s: %w", file.Name, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("upload %s: %w", file.Name, err)
	}

	env, err := c.do(ctx, http.MethodPost, c.endpoint("report", report, id, field, "upload"), &buf, mw.FormDataContentType())
	if err != nil {
		return nil, fmt.Errorf("upload %s to %s/%s: %w", file.Name, report, id, err)
	}

	res := env.result()
	res.ID = id
	return &res, nil
}

func (c *Client) endpoint(parts ...string) string {
	escaped := make([]string, 0, len(parts)+3)
	escaped = append(escaped, "api", "v2", url.PathEscape(c.cfg.Owner), url.PathEscape(c.cfg.App))
	for _, p := range parts {
		escaped = append(escaped, url.PathEscape(p))
	}
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.Join(escaped, "/")
}

// do sends the request and decodes the envelope. Creator reports "no
// records" with a 4xx status and a regular body, so the body decides.
func (c *Client) do(ctx context.Context, method, target string, body io.Reader, contentType string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+c.cfg.Token)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("Creator request failed",
			zap.String("method", method),
			zap.String("url", target),
			zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := decode(bytes.NewReader(raw), &env); err != nil {
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("http %d: %s", resp.StatusCode, truncate(string(raw), 200))
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}

	c.logger.Debug("Creator request",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Int("code", env.Code),
		zap.Duration("elapsed", time.Since(start)))
	return &env, nil
}

func decode(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec.Decode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ port.RecordStore = (*Client)(nil)
